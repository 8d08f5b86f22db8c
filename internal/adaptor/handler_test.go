package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/internal/usecase"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap/zaptest"
)

// stubGenreService returns err from every call.
type stubGenreService struct {
	err   error
	genre *response.GenreResponse
}

func (s stubGenreService) List(context.Context) ([]response.GenreResponse, error) {
	return nil, s.err
}

func (s stubGenreService) GetByID(context.Context, string) (*response.GenreResponse, error) {
	return s.genre, s.err
}

func (s stubGenreService) Create(context.Context, *request.GenreRequest) (*response.GenreResponse, error) {
	return s.genre, s.err
}

func (s stubGenreService) Update(context.Context, string, *request.GenreRequest) (*response.GenreResponse, error) {
	return s.genre, s.err
}

func (s stubGenreService) Remove(context.Context, string) error {
	return s.err
}

func (s stubGenreService) CountExisting(context.Context, []string) (int64, error) {
	return 0, s.err
}

func serve(t *testing.T, h *GenreHandler, method, path, body string) (int, string) {
	t.Helper()

	r := chi.NewRouter()
	r.Get("/api/genres", h.GetGenres)
	r.Post("/api/genres", h.CreateGenre)
	r.Get("/api/genres/{id}", h.GetGenreByID)
	r.Delete("/api/genres/{id}", h.DeleteGenre)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))

	var payload struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &payload)
	return rec.Code, payload.Error
}

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{
			name:    "unexpected store failure",
			err:     errors.New("connection reset"),
			method:  http.MethodGet,
			path:    "/api/genres",
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
		{
			name:    "wrapped duplicate",
			err:     fmt.Errorf("genre %q: %w", "Action", usecase.ErrAlreadyExists),
			method:  http.MethodPost,
			path:    "/api/genres",
			body:    `{"name":"Action"}`,
			status:  http.StatusConflict,
			message: "Genre already exists",
		},
		{
			name:    "invalid id from service",
			err:     usecase.ErrInvalidID,
			method:  http.MethodGet,
			path:    "/api/genres/abc",
			status:  http.StatusBadRequest,
			message: "abc is not correct",
		},
		{
			name:    "failure during delete lookup",
			err:     errors.New("timeout"),
			method:  http.MethodDelete,
			path:    "/api/genres/652f0744373e017388151858",
			status:  http.StatusInternalServerError,
			message: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewGenreHandler(stubGenreService{err: tt.err}, zaptest.NewLogger(t))
			status, message := serve(t, h, tt.method, tt.path, tt.body)
			if status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			if message != tt.message {
				t.Fatalf("error = %q, want %q", message, tt.message)
			}
		})
	}
}

func TestDecodeRecordBodyLimit(t *testing.T) {
	h := NewGenreHandler(stubGenreService{}, zaptest.NewLogger(t))

	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	status, message := serve(t, h, http.MethodPost, "/api/genres", big)
	if status != http.StatusBadRequest || message != "Invalid input" {
		t.Fatalf("oversized body = %d %q, want 400 Invalid input", status, message)
	}
}
