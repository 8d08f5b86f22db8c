package adaptor

import (
	"net/http"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/internal/validation"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

// GetMovies handles GET /api/movies
func (h *MovieHandler) GetMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "get movies")
		return
	}

	utils.ResponseSuccess(w, movies)
}

// GetMoviesByGenre handles GET /api/movies/genre/{id}
func (h *MovieHandler) GetMoviesByGenre(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.ListByGenre(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get movies by genre")
		return
	}

	utils.ResponseSuccess(w, movies)
}

// GetMovieByID handles GET /api/movies/{id}
func (h *MovieHandler) GetMovieByID(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get movie by ID")
		return
	}
	if movie == nil {
		utils.ResponseNotFound(w, "Movie not found")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// CreateMovie handles POST /api/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceError(w, r, err, "create movie")
		return
	}

	movie, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err, "create movie")
		return
	}

	utils.ResponseCreated(w, movie)
}

// UpdateMovie handles PUT /api/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceError(w, r, err, "update movie")
		return
	}

	movie, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleServiceError(w, r, err, "update movie")
		return
	}
	if movie == nil {
		utils.ResponseNotFound(w, "Movie not found")
		return
	}

	utils.ResponseSuccess(w, movie)
}

// DeleteMovie handles DELETE /api/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.service.GetByID(r.Context(), movieID)
	if err != nil {
		h.handleServiceError(w, r, err, "delete movie")
		return
	}
	if movie == nil {
		utils.ResponseNotFound(w, "Movie not found")
		return
	}

	if err := h.service.Remove(r.Context(), movieID); err != nil {
		h.handleServiceError(w, r, err, "delete movie")
		return
	}

	utils.ResponseEmpty(w)
}

func (h *MovieHandler) readRequest(w http.ResponseWriter, r *http.Request) (*request.MovieRequest, error) {
	record, err := decodeRecord(w, r)
	if err != nil {
		return nil, err
	}

	values, err := validation.Validate(record, validation.MovieShape)
	if err != nil {
		return nil, err
	}

	return request.NewMovieRequest(values), nil
}

func (h *MovieHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	handleServiceError(w, r, h.log, err, "Movie", operation)
}
