package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"musiclib/internal/config"
	"musiclib/internal/logging"
	"musiclib/internal/store"
)

const usage = "usage: migrate [up|down|version|force N]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal().Msg(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}))

	if cfg.Database.URL == "" {
		log.Fatal().Msg("DATABASE_URL or DB_USER/DB_NAME must be set")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	mg, err := store.NewMigrator(db)
	if err != nil {
		_ = db.Close()
		log.Fatal().Err(err).Msg("failed to create migrator")
	}
	defer mg.Close()

	if err := runCommand(mg, os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("migration failed")
		_ = mg.Close()
		os.Exit(1)
	}
}

func runCommand(mg *store.Migrator, args []string) error {
	switch args[0] {
	case "up":
		if err := mg.Up(); err != nil {
			return err
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := mg.Down(); err != nil {
			return err
		}
		log.Info().Msg("migrations rolled back successfully")
	case "version":
		version, dirty, err := mg.Version()
		if err != nil {
			return err
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	case "force":
		if len(args) != 2 {
			return errors.New(usage)
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if err := mg.Force(version); err != nil {
			return err
		}
		log.Info().Int("version", version).Msg("schema version forced")
	default:
		return errors.New(usage)
	}
	return nil
}
