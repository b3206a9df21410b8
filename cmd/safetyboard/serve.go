package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"safetyboard/internal/httpserver"
	"safetyboard/internal/logging"
	"safetyboard/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the incident API",
	Long: `Start the HTTP API the dashboard UI talks to.

State is kept in memory and is lost when the process exits.

Examples:
  safetyboard serve
  safetyboard serve --config configs/safetyboard.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.JSON)

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	opts := httpserver.RouterOptions{
		SubmitDelay:    cfg.Server.SubmitDelay,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.Server.MetricsEnabled {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		opts.Gatherer = reg
	}

	handler := httpserver.NewRouter(logger, store, opts)
	server := httpserver.New(cfg.Server, handler, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("shutdown error", "err", err)
		return err
	}
	return nil
}
