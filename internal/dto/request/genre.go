package request

import "movie-catalog/internal/validation"

type GenreRequest struct {
	Name string
}

// NewGenreRequest reads a record already checked against validation.GenreShape.
func NewGenreRequest(values validation.Values) *GenreRequest {
	return &GenreRequest{
		Name: values.String("name"),
	}
}
