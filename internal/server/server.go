// Package server exposes the scaffold service over connect (JSON), a
// websocket for streamed agent runs, /health and /metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"foxie/internal/logging"
)

type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

func New(addr string, handler http.Handler, log *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           h2c.NewHandler(handler, &http2.Server{}),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logging.OrNop(log),
	}
}

func (s *Server) Start() error {
	s.log.Info("starting api server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
