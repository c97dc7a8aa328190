// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the card pipeline over HTTP: upload a menu, get
// back a card document.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/cardpress/internal/intake"
	"github.com/pdiddy/cardpress/internal/logging"
	"github.com/pdiddy/cardpress/internal/metrics"
	"github.com/pdiddy/cardpress/internal/pipeline"
	"github.com/pdiddy/cardpress/pkg/types"
)

const (
	defaultAddr            = ":8000"
	defaultMaxUploadMB     = 25
	defaultShutdownTimeout = 10 * time.Second
)

// Server serves the card pipeline.
type Server struct {
	cfg      types.ServerConfig
	pipeline *pipeline.Pipeline
	intake   *intake.Intake

	// tempDir is the parent of upload and output directories; empty means
	// os.TempDir().
	tempDir string
}

// New returns a server running uploads through p. Zero config fields take
// their defaults.
func New(cfg types.ServerConfig, p *pipeline.Pipeline) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = defaultMaxUploadMB
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	metrics.Init()
	return &Server{
		cfg:      cfg,
		pipeline: p,
		intake:   intake.New("", cfg.MaxUploadMB<<20, types.SourceDocx, types.SourcePDF),
	}
}

// SetTempDir moves upload and output staging under dir.
func (s *Server) SetTempDir(dir string) {
	s.tempDir = dir
	s.intake.Root = dir
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	r.Use(observe)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.With(middleware.RequestSize(s.cfg.MaxUploadMB<<20 + 1<<20)).Post("/process", s.handleProcess)

	if dir := s.cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			logger := logging.GetLogger("server")
			logger.Warn().Str("dir", dir).Msg("static directory not found, not serving static files")
		}
	}
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := logging.GetLogger("server")
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("HTTP server listening")
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info().Msg("shutdown complete")
	return nil
}
