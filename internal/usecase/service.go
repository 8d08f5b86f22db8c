package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/events"

	"go.uber.org/zap"
)

var (
	// ErrAlreadyExists wraps repository.ErrDuplicate for the handlers.
	ErrAlreadyExists = errors.New("already exists")
	// ErrGenreNotFound means a referenced genre id does not exist.
	ErrGenreNotFound = errors.New("genre not found")
	// ErrInvalidID means an identifier is not a 24 character hex string.
	ErrInvalidID = errors.New("invalid id")
)

type Service struct {
	Genre GenreService
	Movie MovieService
}

func NewService(repo *repository.Repository, publisher events.Publisher, log *zap.Logger) *Service {
	genre := NewGenreService(repo, publisher, log)
	return &Service{
		Genre: genre,
		Movie: NewMovieService(repo, genre, publisher, log),
	}
}

// now is the timestamp stored on writes. Millisecond precision survives every backend.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func normalizeID(id string) string {
	return strings.ToLower(id)
}

func publish(ctx context.Context, publisher events.Publisher, log *zap.Logger, event events.Event) {
	if err := publisher.Publish(ctx, event); err != nil {
		log.Warn("Failed to publish event",
			zap.Error(err),
			zap.String("type", event.Type),
			zap.String("id", event.ID),
		)
	}
}
