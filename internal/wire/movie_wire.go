package wire

import (
	"movie-catalog/internal/adaptor"
	"movie-catalog/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler) {
	r.Route("/api/movies", func(r chi.Router) {
		r.Get("/", movieHandler.GetMovies)
		r.Post("/", movieHandler.CreateMovie)

		r.Group(func(r chi.Router) {
			r.Use(middleware.ValidateID("id"))

			// GET /api/movies/genre/{id} - movies of one genre
			r.Get("/genre/{id}", movieHandler.GetMoviesByGenre)

			r.Get("/{id}", movieHandler.GetMovieByID)
			r.Put("/{id}", movieHandler.UpdateMovie)
			r.Delete("/{id}", movieHandler.DeleteMovie)
		})
	})
}
