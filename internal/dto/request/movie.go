package request

import (
	"strings"
	"time"

	"movie-catalog/internal/validation"
)

type MovieRequest struct {
	Title       string
	Description string
	ReleaseDate time.Time
	GenreIDs    []string
}

// NewMovieRequest reads a record already checked against validation.MovieShape.
// Genre ids are lowercased so they compare equal on every backend.
func NewMovieRequest(values validation.Values) *MovieRequest {
	ids := values.Strings("genre")
	genreIDs := make([]string, len(ids))
	for i, id := range ids {
		genreIDs[i] = strings.ToLower(id)
	}

	return &MovieRequest{
		Title:       values.String("title"),
		Description: values.String("description"),
		ReleaseDate: values.Time("releaseDate").UTC().Truncate(time.Millisecond),
		GenreIDs:    genreIDs,
	}
}
