package adaptor

import (
	"movie-catalog/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Genre *GenreHandler
	Movie *MovieHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Genre: NewGenreHandler(service.Genre, log),
		Movie: NewMovieHandler(service.Movie, log),
	}
}
