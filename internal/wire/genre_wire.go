package wire

import (
	"movie-catalog/internal/adaptor"
	"movie-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireGenre(r chi.Router, genreHandler *adaptor.GenreHandler) {
	r.Route("/api/genres", func(r chi.Router) {
		r.Get("/", genreHandler.GetGenres)
		r.Post("/", genreHandler.CreateGenre)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ValidateID("id"))

			r.Get("/{id}", genreHandler.GetGenreByID)
			r.Put("/{id}", genreHandler.UpdateGenre)
			r.Delete("/{id}", genreHandler.DeleteGenre)
		})
	})
}
