// Package api provides the HTTP API server and handlers for CookFeed.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cookfeed/cookfeed-server/internal/http/response"
	"github.com/cookfeed/cookfeed-server/internal/metrics"
	"github.com/cookfeed/cookfeed-server/internal/ratelimit"
	"github.com/cookfeed/cookfeed-server/internal/store"
)

// Options holds the server settings that do not come from services.
type Options struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// Per-IP limits on /api/v1/auth routes. Zero disables limiting.
	AuthRateLimitPerMinute int
	AuthRateLimitBurst     int
	// DigestSecret guards the manual digest trigger. Empty disables it.
	DigestSecret string
	// Metrics is optional. When set, requests are measured and /metrics is served.
	Metrics *metrics.Metrics
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	metrics         *metrics.Metrics
	authRateLimiter *ratelimit.KeyedRateLimiter
	digestSecret    string
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		metrics:      opts.Metrics,
		digestSecret: opts.DigestSecret,
		logger:       logger,
	}
	if opts.AuthRateLimitPerMinute > 0 {
		burst := opts.AuthRateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		s.authRateLimiter = ratelimit.NewPerMinute(opts.AuthRateLimitPerMinute, burst)
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("CookFeed API", "1.0.0")
	humaConfig.Info.Description = "Recipe sharing with per-recipe collaborators, collections and a social graph."
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerRoutes()
	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", logger)
	})

	if s.metrics != nil {
		router.Handle("/metrics", s.metrics.Handler())
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.authRateLimiter != nil {
		s.authRateLimiter.Stop()
	}
}

// setupMiddleware configures the middleware stack. Order matters: metrics
// wrap everything so rejected requests are counted too.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s.router.Use(s.authRateLimit)
	s.router.Use(authMiddleware(s.services.Auth))
}

func (s *Server) registerRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerRecipeRoutes()
	s.registerEditorRoutes()
	s.registerEngagementRoutes()
	s.registerCommentRoutes()
	s.registerCollectionRoutes()
	s.registerUserRoutes()
	s.registerProfileRoutes()
	s.registerPreferencesRoutes()
	s.registerSocialRoutes()
	s.registerSearchRoutes()
	s.registerDigestRoutes()
}
