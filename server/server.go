// Package server exposes project workspaces over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/brettbedarf/codecollab/config"
	"github.com/brettbedarf/codecollab/internal/util"
	"github.com/brettbedarf/codecollab/share"
	"github.com/brettbedarf/codecollab/workspace"
)

type Server struct {
	cfg *config.Config
	srv *http.Server
}

func New(cfg *config.Config, ws *workspace.Workspace, shares *share.Service) *Server {
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      NewRouter(ws, shares, requestTimeout(cfg)),
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
			IdleTimeout:  cfg.IdleTimeoutDuration(),
			ErrorLog:     util.NewLogLogger("http", util.ErrorLevel),
		},
	}
}

// requestTimeout is the configured per-request timeout, pulled in below the
// write timeout when it would otherwise outlast the connection's write
// deadline and the 504 could never be sent.
func requestTimeout(cfg *config.Config) time.Duration {
	rt, wt := cfg.RequestTimeoutDuration(), cfg.WriteTimeoutDuration()
	if rt > 0 && wt > 0 && rt >= wt {
		return wt * 9 / 10
	}
	return rt
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Serve listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	logger := util.GetLogger("Server.Serve")

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("API listening")
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeoutDuration())
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
