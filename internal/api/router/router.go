package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/primer-realty/internal/blog"
	"github.com/wolfman30/primer-realty/internal/booking"
	"github.com/wolfman30/primer-realty/internal/catalog"
	"github.com/wolfman30/primer-realty/internal/favorites"
	"github.com/wolfman30/primer-realty/internal/http/httpx"
	httpmiddleware "github.com/wolfman30/primer-realty/internal/http/middleware"
	"github.com/wolfman30/primer-realty/internal/inquiry"
	"github.com/wolfman30/primer-realty/internal/newsletter"
	"github.com/wolfman30/primer-realty/internal/visitor"
	"github.com/wolfman30/primer-realty/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger     *logging.Logger
	Catalog    *catalog.Handler
	Blog       *blog.Handler
	Favorites  *favorites.Handler
	Booking    *booking.Handler
	Newsletter *newsletter.Handler
	Inquiries  *inquiry.Handler

	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimiter        *httpmiddleware.RateLimiter
	SecureCookies      bool

	// Readiness checks run by /ready, keyed by dependency name.
	Checks map[string]Check
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	r.Use(httpmiddleware.RequestLogger(cfg.Logger))

	// Operational endpoints
	r.Get("/health", healthHandler)
	r.Get("/ready", readyHandler(cfg.Checks, cfg.Logger))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Site API, one visitor namespace per cookie
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimiter))
		}
		api.Use(visitor.Middleware(cfg.SecureCookies))

		if cfg.Catalog != nil {
			api.Mount("/properties", cfg.Catalog.Routes())
		}
		if cfg.Favorites != nil {
			api.Mount("/favorites", cfg.Favorites.Routes())
		}
		if cfg.Blog != nil {
			api.Mount("/posts", cfg.Blog.Routes())
		}
		if cfg.Booking != nil {
			api.Mount("/booking", cfg.Booking.Routes())
		}
		if cfg.Newsletter != nil {
			api.Mount("/newsletter", cfg.Newsletter.Routes())
		}
		if cfg.Inquiries != nil {
			api.Mount("/inquiries", cfg.Inquiries.Routes())
		}
	})

	// Operator routes (HS256 JWT with role=admin)
	if cfg.AdminAuthSecret != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			if cfg.Catalog != nil {
				admin.Post("/catalog/reload", cfg.Catalog.Reload)
			}
			if cfg.Blog != nil {
				admin.Post("/blog/reload", cfg.Blog.Reload)
			}
			if cfg.Booking != nil {
				admin.Mount("/bookings", cfg.Booking.AdminRoutes())
			}
		})
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteError(w, http.StatusNotFound, "not found")
	})

	return r
}
