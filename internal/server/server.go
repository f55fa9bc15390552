package server

import (
	"log"
	"net/http"
	"time"

	"github.com/alfagnish/docai-api/internal/config"
	"github.com/alfagnish/docai-api/internal/events"
	"github.com/alfagnish/docai-api/internal/handlers"
	"github.com/alfagnish/docai-api/internal/health"
	apimw "github.com/alfagnish/docai-api/internal/middleware"
	"github.com/alfagnish/docai-api/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the long-lived components the router serves from. Registry is
// required; a nil Reporter or Hub is replaced with a fresh one.
type Deps struct {
	Reporter *health.Reporter
	Registry *users.Registry
	Hub      *events.Hub
}

// New creates a fully-configured chi router with all routes, middleware,
// and handlers wired together.
func New(cfg *config.Config, deps Deps) http.Handler {
	if deps.Reporter == nil {
		deps.Reporter = health.NewReporter()
	}
	if deps.Hub == nil {
		deps.Hub = events.NewHub(cfg.EventBuffer)
	}

	r := chi.NewRouter()

	// ── Middleware ───────────────────────────────────────────
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", apimw.RequestIDHeader},
		ExposedHeaders: []string{apimw.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(apimw.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	// ── Handlers ────────────────────────────────────────────
	healthH := handlers.NewHealthHandler(deps.Reporter)
	usersH := handlers.NewUsersHandler(deps.Registry, deps.Hub)
	feedH := handlers.NewFeedHandler(deps.Hub)

	// ── Routes ──────────────────────────────────────────────
	r.Get("/health", healthH.Health)
	r.Get("/api/health", healthH.Health)

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/events", feedH.Stream)
		usersH.Routes(r)
	})

	return r
}

// requestLogger logs each HTTP request with method, path, status code,
// duration, and request id.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("%s %s %d %s id=%s",
			r.Method,
			r.URL.Path,
			status,
			time.Since(start).Round(time.Millisecond),
			apimw.RequestIDFromContext(r.Context()),
		)
	})
}
