package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mgpai22/subtrack/internal/config"
	"github.com/mgpai22/subtrack/internal/host"
	"github.com/mgpai22/subtrack/internal/logging"
)

func NewRouter(registry *host.Registry, cfg *config.Config, logger *logging.Logger) *chi.Mux {
	logger = logging.OrNop(logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(CORSOptions(cfg.Server.CORSOrigins)))
	r.Use(MaxBodySize(cfg.Server.MaxBodyBytes))

	sessions := NewSessionHandler(registry, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)

		r.Post("/sessions", sessions.Create)
		r.Get("/sessions", sessions.List)

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", sessions.Teardown)
			r.Post("/navigate", sessions.Navigate)
			r.Post("/messages", sessions.Message)
			r.Post("/time", sessions.Time)
			r.Get("/display", sessions.Display)
			r.Get("/state", sessions.State)
		})
	})

	return r
}
