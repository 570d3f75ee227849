package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/savegress/wagerwatch/internal/config"
	"github.com/savegress/wagerwatch/internal/ingest"
	"github.com/savegress/wagerwatch/internal/report"
)

// Server represents the API server
type Server struct {
	config   *config.Config
	router   chi.Router
	handlers *Handlers
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, snapshot *ingest.Snapshot, assembler *report.Assembler) *Server {
	s := &Server{
		config:   cfg,
		router:   chi.NewRouter(),
		handlers: NewHandlers(snapshot, assembler),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handlers.HealthCheck)

	s.router.Route("/api/v1/wagerwatch", func(r chi.Router) {
		r.Get("/providers", s.handlers.ListProviders)

		r.Route("/report", func(r chi.Router) {
			r.Get("/", s.handlers.GetReport)
			r.Get("/export", s.handlers.ExportReport)
		})

		r.Get("/players/top", s.handlers.GetTopPlayers)
		r.Get("/kyc/aging", s.handlers.GetKYCAging)
		r.Get("/duplicates", s.handlers.GetDuplicates)
	})
}

// Router returns the chi router
func (s *Server) Router() http.Handler {
	return s.router
}
