// Package server is a small HTTP harness that drives the SQL capability
// end to end: schema setup, user rows, and the commit and rollback
// transfer scenarios.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/keelsql/pkg/adapter"
	"golang.org/x/sync/errgroup"
)

// Server is the harness HTTP server.
type Server struct {
	db     adapter.Adapter
	addr   string
	logger *slog.Logger
}

// Config holds configuration for the harness server.
type Config struct {
	DB     adapter.Adapter
	Addr   string
	Logger *slog.Logger
}

// New creates a harness server. The adapter must already be connected.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{db: cfg.DB, addr: cfg.Addr, logger: logger}
}

// Handler returns the routed harness handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RequestLogger(&middleware.DefaultLogFormatter{
			Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
			NoColor: true,
		}),
		middleware.Recoverer,
	)

	r.Post("/setup", s.handleSetup)
	r.Post("/users", s.handleCreateUser)
	r.Get("/users", s.handleListUsers)
	r.Post("/txn/commit", s.handleTransfer(true))
	r.Post("/txn/rollback", s.handleTransfer(false))
	r.Post("/query", s.handleQuery)
	r.Post("/execute", s.handleExecute)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{Error: "method not allowed"})
	})
	return r
}

// Serve runs migrations and serves until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Migrate(ctx); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting harness server", "addr", ln.Addr().String())

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

		s.logger.Debug("shutting down harness server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
