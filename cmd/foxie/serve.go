package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"foxie/internal/app"
	"foxie/internal/logging"
	"foxie/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The server logs JSON like any other deployment.
	srvLog, err := logging.New(cfg.LogLevel, false)
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg, srvLog)
	if err != nil {
		return err
	}
	defer a.Close()

	h := server.NewScaffoldHandler(a.Service, a.Runs, srvLog.Named("server"))
	h.Outputs = a.Outputs()
	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	srv := server.New(addr, server.NewMux(h, a.Metrics), srvLog)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	srvLog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srvLog.Error("server forced to shutdown", zap.Error(err))
		return err
	}
	return nil
}
