// Package server serves the game over SSH, one Bubble Tea program per session.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	bm "github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"
)

const defaultShutdownTimeout = 5 * time.Second

// Config holds the listener settings.
type Config struct {
	Host            string
	Port            string
	HostKeyPath     string
	ShutdownTimeout time.Duration
}

// ModelFactory builds the game model for a new SSH session.
type ModelFactory func(sess ssh.Session) tea.Model

// Server is an SSH server hosting the game.
type Server struct {
	cfg     Config
	srv     *ssh.Server
	logger  *zap.Logger
	factory ModelFactory
}

// New constructs a server. The host key is generated on first use when missing.
func New(cfg Config, factory ModelFactory, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	s := &Server{cfg: cfg, logger: logger, factory: factory}
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithMiddleware(
			bm.Middleware(s.teaHandler),
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(zap.NewStdLog(logger.Named("ssh"))),
		),
		// Typing latency matters more than throughput.
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}
	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ssh server: %w", err)
	}
	s.srv = srv
	return s, nil
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	s.logger.Info("ssh server listening", zap.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down ssh server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	shutdownErr := s.srv.Shutdown(shutdownCtx)
	if cerr := ln.Close(); cerr != nil {
		// Already closed by Shutdown.
		_ = cerr
	}
	if err := <-errCh; err != nil && !errors.Is(err, ssh.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
		return err
	}
	if shutdownErr != nil && !errors.Is(shutdownErr, context.DeadlineExceeded) {
		return shutdownErr
	}
	return nil
}

func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	s.logger.Info("game session started",
		zap.String("user", sess.User()),
		zap.String("term", pty.Term),
		zap.Int("width", pty.Window.Width),
		zap.Int("height", pty.Window.Height))
	return s.factory(sess), []tea.ProgramOption{tea.WithAltScreen()}
}
