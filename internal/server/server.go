// Package server exposes the project's dependency reports over HTTP.
//
// The server is read-only: it scans the configured project directory and
// checks its manifest on demand, but never installs or rewrites anything.
// Routes:
//
//	GET /api/report  detected third-party packages and per-file imports
//	GET /api/check   manifest vs installed environment partition
//	GET /healthz     liveness probe
//	GET /metrics     prometheus metrics
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reqsmith/reqsmith/pkg/buildinfo"
	"github.com/reqsmith/reqsmith/pkg/errors"
	"github.com/reqsmith/reqsmith/pkg/observability/prom"
	"github.com/reqsmith/reqsmith/pkg/reconcile"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. ":8090".
	Addr string

	// Dir is the project directory served by the report endpoints.
	Dir string

	Reconciler *reconcile.Reconciler
	Logger     *log.Logger
}

// Server serves dependency reports for one project directory.
type Server struct {
	cfg      Config
	logger   *log.Logger
	registry *prometheus.Registry
}

// New builds a Server and wires the prometheus hook implementations into
// the global observability registry, so scans triggered by requests are
// measured.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	registry := prometheus.NewRegistry()
	prom.NewHooks(registry).Register()

	return &Server{cfg: cfg, logger: logger, registry: registry}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Route("/api", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/check", s.handleCheck)
	})
	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Router(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr, "dir", s.cfg.Dir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// reportResponse is the /api/report payload.
type reportResponse struct {
	Project  string              `json:"project"`
	Packages []string            `json:"packages"`
	Files    int                 `json:"files"`
	Skipped  []string            `json:"skipped,omitempty"`
	Imports  map[string][]string `json:"imports"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	pkgs, result, err := s.cfg.Reconciler.Packages(r.Context(), s.cfg.Dir)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if pkgs == nil {
		pkgs = []string{}
	}

	s.writeJSON(w, http.StatusOK, reportResponse{
		Project:  reconcile.ProjectName(s.cfg.Dir),
		Packages: pkgs,
		Files:    result.Files,
		Skipped:  result.Skipped,
		Imports:  result.FileImports,
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	report, err := s.cfg.Reconciler.Check(r.Context(), s.cfg.Dir, reconcile.CheckOptions{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeScanFailed, errors.ErrCodeInvalidPath:
		status = http.StatusBadGateway
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}
	// A missing manifest surfaces as a plain os error.
	if status == http.StatusInternalServerError && isNotExist(err) {
		status = http.StatusNotFound
	}

	s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	s.writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(errors.GetCode(err)),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}
