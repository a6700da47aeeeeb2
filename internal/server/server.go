// Package server exposes the schema catalog over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sqlens/sqlens/internal/database"
	"github.com/sqlens/sqlens/internal/logger"
	"github.com/sqlens/sqlens/internal/schema"
	"github.com/sqlens/sqlens/internal/snapshot"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	QueryTimeout    time.Duration // per-request deadline for catalog queries
}

// Server routes catalog requests to the introspector and, when configured,
// snapshot exports to the object store.
type Server struct {
	cfg      Config
	db       database.Reader
	catalog  schema.Reader
	exporter *snapshot.Exporter // nil when snapshot publishing is disabled
	log      *logger.Logger
	http     *http.Server
}

// New assembles the HTTP server. exporter may be nil, in which case the
// snapshot endpoint reports the feature as unavailable.
func New(cfg Config, db database.Reader, catalog schema.Reader, exporter *snapshot.Exporter, log *logger.Logger) *Server {
	if log == nil {
		log = logger.New(nil)
	}

	s := &Server{
		cfg:      cfg,
		db:       db,
		catalog:  catalog,
		exporter: exporter,
		log:      log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/tables", s.handleListTables)
		r.Get("/tables/{table}/columns", s.handleColumns)
		r.Get("/tables/{table}/indexes", s.handleIndexes)
		r.Get("/tables/{table}/relations", s.handleRelations)
		r.Post("/snapshots", s.handleSnapshot)
	})

	s.http = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	s.log.With().Str("addr", s.cfg.Addr).Logger().Info("http server listening")
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}

// queryContext applies the per-request catalog deadline.
func (s *Server) queryContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.cfg.QueryTimeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), s.cfg.QueryTimeout)
}
