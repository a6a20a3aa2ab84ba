package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"musiclib/internal/config"
	"musiclib/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("musiclib stopped")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logging.SetGlobalLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	app := newApplication(cfg, st, logger)

	if cfg.SeedDemoData {
		if err := bootstrapDemoData(ctx, app); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	if cfg.Integrity.ReconcileOnStart {
		report, err := app.coordinator.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconcile catalog: %w", err)
		}
		logger.Zerolog().Info().
			Int("repairs", report.Repairs()).
			Msg("catalog reconciled")
	}

	return serve(ctx, cfg, app, logger)
}
