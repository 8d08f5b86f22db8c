package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"movie-catalog/internal/usecase"
	"movie-catalog/internal/validation"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = &validation.Error{Message: validation.MsgInvalidInput}

// decodeRecord reads the body as one JSON object. Numbers stay json.Number so
// the validator can tell them from strings.
func decodeRecord(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var record map[string]any
	if err := dec.Decode(&record); err != nil {
		return nil, errInvalidBody
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errInvalidBody
	}

	return record, nil
}

// handleServiceError maps service errors onto status codes. resource names
// the entity in messages, e.g. "Genre".
func handleServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error, resource, operation string) {
	var validationErr *validation.Error

	switch {
	case errors.As(err, &validationErr):
		log.Debug(operation+" validation failed",
			zap.String("message", validationErr.Message),
			zap.String("operation", operation))
		utils.ResponseBadRequest(w, validationErr.Message)

	case errors.Is(err, usecase.ErrInvalidID):
		utils.ResponseBadRequest(w, chi.URLParam(r, "id")+" is not correct")

	case errors.Is(err, usecase.ErrGenreNotFound):
		log.Info(operation+" failed - genre not found",
			zap.String("operation", operation))
		utils.ResponseNotFound(w, "Genre not found")

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Info(operation+" failed - already exists",
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseConflict(w, resource+" already exists")

	default:
		log.Error("Failed to "+operation,
			zap.Error(err),
			zap.String("operation", operation))
		utils.ResponseInternalError(w)
	}
}
