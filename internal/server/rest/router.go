package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/corechat/internal/logging"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps wires the router. Metrics, Readiness and Auth are optional.
type Deps struct {
	Accounts       AccountService
	Sessions       SessionService
	Chat           ChatService
	Logger         logging.Logger
	CookieSecure   bool
	AllowedOrigins []string
	Metrics        MetricsProvider
	Readiness      []Pinger
}

// MetricsProvider instruments the router and serves /metrics.
type MetricsProvider interface {
	AuthRecorder
	Middleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// NewRouter builds the HTTP API.
func NewRouter(d Deps) http.Handler {
	h := &handlers{
		accounts:     d.Accounts,
		sessions:     d.Sessions,
		chat:         d.Chat,
		validate:     newValidator(),
		logger:       d.Logger,
		cookieSecure: d.CookieSecure,
	}
	if d.Metrics != nil {
		h.auth = d.Metrics
	}

	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(requestLogger(d.Logger))
	router.Use(chimiddleware.Recoverer)
	if d.Metrics != nil {
		router.Use(d.Metrics.Middleware)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	router.Get("/ready", readiness(d.Readiness))
	if d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)
		r.With(h.Identify).Get("/user", h.currentUser)

		r.Route("/messages", func(r chi.Router) {
			r.Use(h.RequireSession)
			r.Get("/", h.listMessages)
			r.Post("/", h.postMessage)
			r.Delete("/", h.clearMessages)
		})
	})

	return router
}

func readiness(deps []Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, p := range deps {
			if err := p.PingContext(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
