// Package server exposes catalog exploration and schema text formatting over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/pgask/pkg/catalog"
	"github.com/leapstack-labs/pgask/pkg/schematext"
	"golang.org/x/sync/errgroup"
)

// maxFormatBody caps the size of a POST /v1/format request body.
const maxFormatBody = 8 << 20

// Response formats accepted by the format query parameter.
const (
	formatCompact = "compact"
	formatVerbose = "verbose"
	formatJSON    = "json"
)

// Server serves schema snapshots of one catalog.
type Server struct {
	catalog       catalog.Catalog
	addr          string
	defaultFormat string
	logger        *slog.Logger

	// explore serializes explorations; a backend owns a single session.
	explore sync.Mutex
}

// Config holds configuration for the server.
type Config struct {
	Catalog       catalog.Catalog
	Addr          string
	DefaultFormat string // compact or verbose; compact when empty
	Logger        *slog.Logger
}

// New creates a new server instance.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	format := cfg.DefaultFormat
	if format == "" {
		format = formatCompact
	}
	return &Server{
		catalog:       cfg.Catalog,
		addr:          cfg.Addr,
		defaultFormat: format,
		logger:        logger,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/schema", s.handleSchema)
		r.Post("/format", s.handleFormat)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok\n")
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	format, ok := s.requestFormat(w, r)
	if !ok {
		return
	}

	s.explore.Lock()
	result, err := catalog.NewExplorer(s.catalog, s.logger).Explore(r.Context())
	s.explore.Unlock()
	if err != nil {
		status, msg := http.StatusInternalServerError, "schema exploration failed"
		if catalog.IsCatalogAccessError(err) {
			status, msg = http.StatusServiceUnavailable, "catalog unavailable"
		}
		s.logger.Error("exploration failed",
			"error", err,
			"request_id", middleware.GetReqID(r.Context()),
		)
		http.Error(w, msg, status)
		return
	}

	s.writeResult(w, result, format)
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	format, ok := s.requestFormat(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFormatBody))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to read body: %v", err), http.StatusRequestEntityTooLarge)
		return
	}

	s.writeResult(w, schematext.Parse(string(body)), format)
}

// requestFormat reads the format query parameter, writing a 400 when it is unknown.
func (s *Server) requestFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := r.URL.Query().Get("format")
	if format == "" {
		return s.defaultFormat, true
	}
	switch format {
	case formatCompact, formatVerbose, formatJSON:
		return format, true
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
		return "", false
	}
}

func (s *Server) writeResult(w http.ResponseWriter, result catalog.Result, format string) {
	switch format {
	case formatJSON:
		writeJSON(w, http.StatusOK, result)
	case formatVerbose:
		writeText(w, http.StatusOK, schematext.Verbose(result))
	default:
		writeText(w, http.StatusOK, schematext.Compact(result))
	}
}
