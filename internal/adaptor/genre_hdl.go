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

type GenreHandler struct {
	service usecase.GenreService
	log     *zap.Logger
}

func NewGenreHandler(service usecase.GenreService, log *zap.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		log:     log.With(zap.String("handler", "genre")),
	}
}

// GetGenres handles GET /api/genres
func (h *GenreHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.List(r.Context())
	if err != nil {
		h.handleServiceError(w, r, err, "get genres")
		return
	}

	utils.ResponseSuccess(w, genres)
}

// GetGenreByID handles GET /api/genres/{id}
func (h *GenreHandler) GetGenreByID(w http.ResponseWriter, r *http.Request) {
	genre, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleServiceError(w, r, err, "get genre by ID")
		return
	}
	if genre == nil {
		utils.ResponseNotFound(w, "Genre not found")
		return
	}

	utils.ResponseSuccess(w, genre)
}

// CreateGenre handles POST /api/genres
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceError(w, r, err, "create genre")
		return
	}

	genre, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err, "create genre")
		return
	}

	utils.ResponseCreated(w, genre)
}

// UpdateGenre handles PUT /api/genres/{id}
func (h *GenreHandler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	req, err := h.readRequest(w, r)
	if err != nil {
		h.handleServiceError(w, r, err, "update genre")
		return
	}

	genre, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.handleServiceError(w, r, err, "update genre")
		return
	}
	if genre == nil {
		utils.ResponseNotFound(w, "Genre not found")
		return
	}

	utils.ResponseSuccess(w, genre)
}

// DeleteGenre handles DELETE /api/genres/{id}
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	genreID := chi.URLParam(r, "id")

	genre, err := h.service.GetByID(r.Context(), genreID)
	if err != nil {
		h.handleServiceError(w, r, err, "delete genre")
		return
	}
	if genre == nil {
		utils.ResponseNotFound(w, "Genre not found")
		return
	}

	if err := h.service.Remove(r.Context(), genreID); err != nil {
		h.handleServiceError(w, r, err, "delete genre")
		return
	}

	utils.ResponseEmpty(w)
}

func (h *GenreHandler) readRequest(w http.ResponseWriter, r *http.Request) (*request.GenreRequest, error) {
	record, err := decodeRecord(w, r)
	if err != nil {
		return nil, err
	}

	values, err := validation.Validate(record, validation.GenreShape)
	if err != nil {
		return nil, err
	}

	return request.NewGenreRequest(values), nil
}

func (h *GenreHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	handleServiceError(w, r, h.log, err, "Genre", operation)
}
