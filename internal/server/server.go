// Package server implements the trominoes HTTP API.
//
// Routes:
//
//	GET /healthz                 liveness probe, always "ok"
//	GET /api/v1/formats          supported formats and palettes
//	GET /api/v1/tiling           render one tiling in the requested format
//	GET /api/v1/tiling/stream    websocket; the tiling as an ordered event stream
//
// Tiling parameters are passed as query strings (size, row, col, seed,
// palette, format, cell_size, no_grid, depth). Errors are JSON objects
// {"code": ..., "message": ...}; input errors map to 400 and everything
// else to 500.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/trominoes/internal/config"
	"github.com/matzehuels/trominoes/pkg/observability"
	"github.com/matzehuels/trominoes/pkg/pipeline"
)

// Server serves tilings over HTTP.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	cfg      config.ServerConfig
	decoder  *schema.Decoder
	upgrader websocket.Upgrader
}

// New creates a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg config.ServerConfig) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxSize == 0 {
		cfg.MaxSize = config.Default().Server.MaxSize
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	s := &Server{
		runner:  runner,
		logger:  logger,
		cfg:     cfg,
		decoder: decoder,
	}
	s.upgrader = websocket.Upgrader{CheckOrigin: s.checkOrigin}
	return s
}

// Handler returns the routed handler with CORS and request logging.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(s.cors())

	r.Get("/healthz", handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.Get("/tiling", s.handleTiling)
		r.Get("/tiling/stream", s.handleStream)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Run serves on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.logger.Info("listening", "addr", ln.Addr().String())

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) cors() func(http.Handler) http.Handler {
	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodHead, http.MethodGet},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Run-ID", "X-Seed", "X-Forbidden"},
	}).Handler
}

// checkOrigin applies the CORS origin list to websocket upgrades.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		d := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
