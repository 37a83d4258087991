// Serve command: builds the configured backend and runs the HTTP API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/larderhq/larder/internal/httpapi"
	"github.com/larderhq/larder/internal/service"
	"github.com/larderhq/larder/internal/storage"
)

// shutdownTimeout bounds how long in-flight requests may drain on exit.
const shutdownTimeout = 10 * time.Second

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the recipe HTTP service",
	Long: `Serve opens the storage backend selected in config.yaml and exposes
the recipe API on the configured address.

Example:
  larder serve
  larder serve --addr :9090
  LARDER_BACKEND=sql LARDER_DB_PATH=./larder.db larder serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(resolveConfigDir())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagAddr != "" {
		cfg.Addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backend initialization failure is fatal: the service cannot start
	// without its store.
	store, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Error("open storage", "backend", cfg.Backend, "err", err)
		os.Exit(exitSysError)
	}
	defer store.Close()

	logger.Info("storage ready", "backend", cfg.Backend)

	srv := httpapi.New(cfg.Addr, service.New(store), logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
