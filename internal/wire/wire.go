// internal/wire/wire.go
package wire

import (
	"net/http"

	"cinema-pegasus/internal/adaptor"
	"cinema-pegasus/internal/data/repository"
	"cinema-pegasus/internal/usecase"
	"cinema-pegasus/pkg/middleware"
	"cinema-pegasus/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired router
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Options carries the infrastructure built in main
type Options struct {
	Deps usecase.Deps
	// FilesDir is served under /files when PDFs are stored on local disk
	FilesDir string
}

// Wiring builds services, handlers and routes
func Wiring(repo *repository.Repository, config *utils.Config, opts Options, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, opts.Deps, logger)
	handler := adaptor.NewHandler(service, config.Session, logger)

	router := setupRouter(handler, repo.Session, config, opts.FilesDir, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// guards are the per-route middlewares shared by the route groups
type guards struct {
	auth      func(http.Handler) http.Handler
	optional  func(http.Handler) http.Handler
	rateLimit func(http.Handler) http.Handler
}

func setupRouter(
	handler *adaptor.Handler,
	sessions middleware.SessionFinder,
	config *utils.Config,
	filesDir string,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigins))

	g := guards{
		auth:     middleware.AuthSession(sessions, config.Session.Secret, logger),
		optional: middleware.OptionalAuth(sessions, config.Session.Secret, logger),
		rateLimit: middleware.RateLimit(
			middleware.NewIPRateLimiter(config.RateLimit.AuthPerMinute, config.RateLimit.AuthBurst),
			logger,
		),
	}

	// Health check endpoint
	health := func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
	r.Get("/health", health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health)

		wireAuth(r, handler.Auth, g)
		wireCatalog(r, handler.Catalog)
		wireTicket(r, handler.Ticket, handler.Order, g)
		wireOrder(r, handler.Order, g)
	})

	if filesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(filesDir))))
	}

	return r
}
