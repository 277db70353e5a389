package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/frontend/internal/app"
	"github.com/stockdesk/frontend/internal/config"
)

// RunServer starts the ops server with graceful shutdown support.
// The envelope key is loaded before anything listens, so a missing or invalid
// key stops the process with a configuration error. Blocks until SIGINT/SIGTERM
// or a fatal server error, then shuts down within ShutdownTimeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	// Fail fast on the key before the listener starts.
	if _, err := container.EnvelopeKey(); err != nil {
		return err
	}

	server, err := container.OpsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize ops server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.Start(gCtx); err != nil {
			return fmt.Errorf("ops server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ops server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
