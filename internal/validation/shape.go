// Package validation checks untyped request records against typed shapes.
//
// A Shape is an ordered list of Field descriptors. Validate walks the fields in
// declaration order and stops at the first failure, so callers always get
// exactly one message back.
package validation

import (
	"regexp"
)

// Kind is the runtime type a field must have.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindStringList
)

// Pattern is a named regular expression that string values (or list items)
// must match. The name doubles as the validator tag.
type Pattern struct {
	Name string
	Expr *regexp.Regexp
}

// Field describes one key of a record.
//
// For KindString, MinLen/MaxLen bound the rune count. For KindStringList,
// MinItems bounds the list length and MinLen/MaxLen/Pattern apply to each item.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	MinLen   int
	MaxLen   int
	MinItems int
	Pattern  *Pattern
}

// Shape is the ordered set of fields a record may contain.
type Shape struct {
	Name   string
	Fields []Field
}

func (s Shape) has(key string) bool {
	for _, f := range s.Fields {
		if f.Name == key {
			return true
		}
	}
	return false
}

// ObjectIDPattern matches the 24 hex character identifiers used for every entity.
var ObjectIDPattern = Pattern{
	Name: "objectid",
	Expr: regexp.MustCompile(`^[0-9a-fA-F]{24}$`),
}

// GenreShape is the input accepted by genre create and update.
var GenreShape = Shape{
	Name: "genre",
	Fields: []Field{
		{Name: "name", Kind: KindString, Required: true, MinLen: 3, MaxLen: 30},
	},
}

// MovieShape is the input accepted by movie create and update.
var MovieShape = Shape{
	Name: "movie",
	Fields: []Field{
		{Name: "title", Kind: KindString, Required: true, MinLen: 3, MaxLen: 30},
		{Name: "description", Kind: KindString, Required: true, MinLen: 3, MaxLen: 1000},
		{Name: "releaseDate", Kind: KindDate, Required: true},
		{Name: "genre", Kind: KindStringList, Required: true, MinItems: 1, Pattern: &ObjectIDPattern},
	},
}

// IsObjectID reports whether id has the identifier format used by the stores.
func IsObjectID(id string) bool {
	return ObjectIDPattern.Expr.MatchString(id)
}
