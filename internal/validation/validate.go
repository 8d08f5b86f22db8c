package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MsgInvalidInput is reported for empty records, before any field rule runs.
const MsgInvalidInput = "Invalid input"

// Error is a single validation failure, safe to show to API clients.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func failf(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

var (
	validate = validator.New()
	patterns = map[string]*regexp.Regexp{}
)

func init() {
	if err := RegisterPattern(ObjectIDPattern); err != nil {
		panic(err)
	}
}

// RegisterPattern makes p usable in Field.Pattern. It must be called before
// the first Validate, typically from an init function.
func RegisterPattern(p Pattern) error {
	expr := p.Expr
	err := validate.RegisterValidation(p.Name, func(fl validator.FieldLevel) bool {
		return expr.MatchString(fl.Field().String())
	})
	if err != nil {
		return fmt.Errorf("register pattern %s: %w", p.Name, err)
	}
	patterns[p.Name] = expr
	return nil
}

// Values is a record that passed validation, with dates parsed and lists typed.
type Values map[string]any

func (v Values) String(key string) string {
	s, _ := v[key].(string)
	return s
}

func (v Values) Time(key string) time.Time {
	t, _ := v[key].(time.Time)
	return t
}

func (v Values) Strings(key string) []string {
	list, _ := v[key].([]string)
	return list
}

// Validate checks record against shape and returns the normalized values.
// The returned error is always a *Error.
func Validate(record map[string]any, shape Shape) (Values, error) {
	if len(record) == 0 {
		return nil, &Error{Message: MsgInvalidInput}
	}

	out := make(Values, len(shape.Fields))
	for _, f := range shape.Fields {
		raw, ok := record[f.Name]
		if !ok {
			if f.Required {
				return nil, failf("Missing required %s field", f.Name)
			}
			continue
		}

		var (
			value any
			err   *Error
		)
		switch f.Kind {
		case KindString:
			value, err = checkString(f.Name, raw, f)
		case KindDate:
			value, err = checkDate(f.Name, raw)
		case KindStringList:
			value, err = checkStringList(f.Name, raw, f)
		default:
			err = failf("%q has an unsupported type", f.Name)
		}
		if err != nil {
			return nil, err
		}
		out[f.Name] = value
	}

	unknown := make([]string, 0)
	for key := range record {
		if !shape.has(key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, failf("%q is not allowed", unknown[0])
	}

	return out, nil
}

func checkString(label string, raw any, f Field) (string, *Error) {
	s, ok := raw.(string)
	if !ok {
		return "", failf("%q must be a string", label)
	}
	if err := validate.Var(s, stringTag(f)); err != nil {
		return "", describe(label, s, err)
	}
	return s, nil
}

func checkStringList(label string, raw any, f Field) ([]string, *Error) {
	var items []any
	switch list := raw.(type) {
	case []any:
		items = list
	case []string:
		items = make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
	default:
		return nil, failf("%q must be an array", label)
	}

	if f.MinItems > 0 {
		if err := validate.Var(items, "min="+strconv.Itoa(f.MinItems)); err != nil {
			return nil, describe(label, items, err)
		}
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := checkString(fmt.Sprintf("%s[%d]", label, i), item, f)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func checkDate(label string, raw any) (time.Time, *Error) {
	invalid := failf("%q must be a valid date", label)

	var t time.Time
	switch v := raw.(type) {
	case time.Time:
		t = v
	case float64:
		ms, ok := unixMilli(v)
		if !ok {
			return time.Time{}, invalid
		}
		t = ms
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return time.Time{}, invalid
		}
		ms, ok := unixMilli(f)
		if !ok {
			return time.Time{}, invalid
		}
		t = ms
	case string:
		s := strings.TrimSpace(v)
		parsed := false
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, s); err == nil {
				t, parsed = d, true
				break
			}
		}
		if !parsed {
			return time.Time{}, invalid
		}
	default:
		return time.Time{}, invalid
	}

	t = t.UTC()
	// Stores encode dates as RFC 3339, which has four-digit years only.
	if t.Year() < 0 || t.Year() > 9999 {
		return time.Time{}, invalid
	}
	return t, nil
}

// unixMilli converts a millisecond epoch, rejecting values that do not fit.
func unixMilli(ms float64) (time.Time, bool) {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < math.MinInt64 || ms >= math.MaxInt64 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}

// stringTag builds the validator tag for a string value. Empty strings are
// always rejected, mirroring how the API has always treated them.
func stringTag(f Field) string {
	tags := []string{"required"}
	if f.MinLen > 0 {
		tags = append(tags, "min="+strconv.Itoa(f.MinLen))
	}
	if f.MaxLen > 0 {
		tags = append(tags, "max="+strconv.Itoa(f.MaxLen))
	}
	if f.Pattern != nil {
		tags = append(tags, f.Pattern.Name)
	}
	return strings.Join(tags, ",")
}

// describe turns the first validator failure into a client message.
func describe(label string, value any, err error) *Error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return failf("%q is invalid", label)
	}

	fe := verrs[0]
	isList := fe.Kind() == reflect.Slice
	switch fe.Tag() {
	case "required":
		return failf("%q is not allowed to be empty", label)
	case "min":
		if isList {
			return failf("%q must contain at least %s items", label, fe.Param())
		}
		return failf("%q length must be at least %s characters long", label, fe.Param())
	case "max":
		if isList {
			return failf("%q must contain less than or equal to %s items", label, fe.Param())
		}
		return failf("%q length must be less than or equal to %s characters long", label, fe.Param())
	}

	if expr, ok := patterns[fe.Tag()]; ok {
		return failf("%q with value %q fails to match the required pattern: /%s/", label, fmt.Sprint(value), expr.String())
	}
	return failf("%q is invalid", label)
}
