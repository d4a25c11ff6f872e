package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/leejgdh/youtube-dj/internal/api/handlers"
	"github.com/leejgdh/youtube-dj/internal/api/middleware"
	"github.com/leejgdh/youtube-dj/internal/auth"
	"github.com/leejgdh/youtube-dj/internal/config"
	"github.com/leejgdh/youtube-dj/internal/db"
)

const maxBodyBytes = 1 << 20

// Deps are the services the router wires into handlers.
type Deps struct {
	DB      *db.Database
	JWT     *auth.JWTService
	Hub     handlers.Hub
	Meta    handlers.MetadataResolver
	Intake  handlers.IntakeStats
	Limiter *middleware.RateLimiter
	WS      http.HandlerFunc
	Log     *zap.Logger
}

func NewRouter(cfg *config.Config, d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(d.Log))
	r.Use(cors.Handler(middleware.CORSHandler(cfg.CORSOrigins)))

	authHandler := handlers.NewAuthHandler(d.DB, d.JWT, d.Log)
	stateHandler := handlers.NewStateHandler(d.Hub, d.DB, d.Intake, d.Log)
	youtubeHandler := handlers.NewYouTubeHandler(d.Meta)
	banHandler := handlers.NewBanHandler(d.DB, d.Hub, d.Meta, d.Log)
	adminHandler := handlers.NewAdminHandler(d.Hub, d.Intake, d.Limiter)

	r.Get("/ws", d.WS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(maxBodyBytes))

		r.Get("/health", stateHandler.Health)
		r.Get("/state", stateHandler.State)

		r.Group(func(r chi.Router) {
			r.Use(d.Limiter.Handler)

			r.Post("/auth/login", authHandler.Login)
			r.Post("/youtube", youtubeHandler.Resolve)
			r.Post("/check-banned", banHandler.Check)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.JWT))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Get("/banned-songs", banHandler.List)
				r.Post("/banned-songs", banHandler.Create)
				r.Delete("/banned-songs", banHandler.Delete)

				r.Get("/stats", adminHandler.Stats)
				r.Get("/rate-limits", adminHandler.RateLimits)
				r.Delete("/rate-limits", adminHandler.ClearRateLimits)
			})
		})
	})

	return r
}
