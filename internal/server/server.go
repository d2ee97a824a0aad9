// Package server exposes the pipeline to the dashboard frontend over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hwangga/signal-app/internal/config"
	"github.com/hwangga/signal-app/internal/models"
	"github.com/hwangga/signal-app/internal/monitoring"
	"github.com/hwangga/signal-app/internal/results"
)

// Runner is the pipeline surface the handlers call.
type Runner interface {
	Run(ctx context.Context, criteria models.SearchCriteria) (*models.ResultSet, error)
}

// Summarizer produces the insights text. Nil disables the endpoint.
type Summarizer interface {
	Summarize(ctx context.Context, rs *models.ResultSet) (string, error)
}

type Server struct {
	server *http.Server
	router *chi.Mux
}

func New(cfg config.ServerConfig, runner Runner, store *results.Store, monitor *monitoring.Monitor, summarizer Summarizer) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := newHandler(runner, store, monitor, summarizer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", h.Search)
		r.Get("/results", h.Results)
		r.Get("/insights", h.Insights)
	})

	router.Get("/health", h.Health)
	router.Get("/status", h.Status)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return &Server{server: httpServer, router: router}
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
