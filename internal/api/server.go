// Package api provides the HTTP API server and handlers for the catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/catalog-server/internal/ratelimit"
	"github.com/listenupapp/catalog-server/internal/search"
	"github.com/listenupapp/catalog-server/internal/service"
	"github.com/listenupapp/catalog-server/internal/store"
)

// Services groups the business logic used by the handlers.
type Services struct {
	Auth   *service.AuthService
	Book   *service.BookService
	Author *service.AuthorService
	// Search is nil when search is disabled. Only used for health reporting;
	// queries go through the book service.
	Search *search.SearchIndex
}

// Options configures the HTTP layer.
type Options struct {
	CORSAllowedOrigins []string
	// LoginLimiter throttles POST /login per client IP. Nil disables throttling.
	LoginLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        store.Store
	services     *Services
	router       *chi.Mux
	api          huma.API
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(corsOptions(opts.CORSAllowedOrigins)))
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("Catalog API", "1.0.0")
	humaConfig.Info.Description = "Books and authors catalog with bearer token authentication."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler(logger)

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		api:          api,
		loginLimiter: opts.LoginLimiter,
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerBookRoutes()
	s.registerAuthorRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After", middleware.RequestIDHeader},
		MaxAge:         300,
	}
}

// bearerSecurity marks an operation as taking the bearer token.
var bearerSecurity = []map[string][]string{{"bearer": {}}}
