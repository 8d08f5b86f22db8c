package wire

import (
	"net/http"

	"movie-catalog/internal/adaptor"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/docs"
	"movie-catalog/internal/events"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes on top of repo. A nil limiter
// disables rate limiting.
func Wiring(
	repo *repository.Repository,
	publisher events.Publisher,
	limiter middleware.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, publisher, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, limiter, config, logger),
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	limiter middleware.Limiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS)
	if limiter != nil {
		r.Use(middleware.RateLimit(limiter, logger))
	}

	// Apply routes
	wireGenre(r, handler.Genre)
	wireMovie(r, handler.Movie)

	r.Get("/health-check", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, map[string]string{"status": "OK"})
	})

	if config.Docs.Enabled {
		r.Get(config.Docs.Path, docs.Handler)
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	utils.ResponseNotFound(w, "Not found")
}
