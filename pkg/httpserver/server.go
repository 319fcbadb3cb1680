package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dmitrymomot/videovault/pkg/logger"
)

// Server wraps http.Server with graceful shutdown and logging.
type Server struct {
	srv             *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
	stopHooks       []func()

	running  atomic.Bool
	stopOnce sync.Once
	stopErr  error
	ready    chan string
}

// New returns a configured Server.
func New(opts ...Option) *Server {
	s := &Server{
		srv:             &http.Server{Addr: ":8080", ReadHeaderTimeout: 10 * time.Second},
		log:             logger.Discard(),
		shutdownTimeout: 10 * time.Second,
		ready:           make(chan string, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready yields the bound listener address once the server accepts connections.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// Run serves handler until ctx is cancelled, a termination signal arrives or
// the listener fails.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.Join(ErrStart, ErrAlreadyRunning)
	}
	s.srv.Handler = handler

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	s.log.InfoContext(ctx, "http server started", slog.String("addr", ln.Addr().String()))
	s.ready <- ln.Addr().String()

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		s.log.Info("shutting down http server")
		if err := s.Shutdown(context.Background()); err != nil {
			return err
		}
		err = <-errCh
	case err = <-errCh:
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return nil
}

// Shutdown stops the server gracefully and runs stop hooks.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()

		if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.stopErr = errors.Join(ErrShutdown, err)
		}
		for _, h := range s.stopHooks {
			h()
		}
		s.log.Info("http server stopped")
	})
	return s.stopErr
}
