package middleware

import (
	"net/http"

	"movie-catalog/internal/validation"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// ValidateID rejects requests whose {param} is not an ObjectID with
// 400 "<id> is not correct".
func ValidateID(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, param)
			if !validation.IsObjectID(id) {
				utils.ResponseBadRequest(w, id+" is not correct")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
