package main

import (
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/docvault/docvault/pkg/config"
	"github.com/docvault/docvault/pkg/migrate"
	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	up := flag.Bool("up", false, "apply pending migrations")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	if *up == *down {
		fmt.Fprintf(os.Stderr, "usage: %s -up | -down\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.LoadFromEnv()
	cfg.Logging.SetupLogging()

	migrator, err := migrate.NewMigrator(&cfg.Database, migrationsFS, "migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create migrator")
	}
	defer migrator.Close()

	if *up {
		if err := migrator.Up(); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		log.Info().Msg("Migrations applied")
		return
	}

	if err := migrator.Down(); err != nil {
		log.Fatal().Err(err).Msg("Rollback failed")
	}
	log.Info().Msg("Rollback applied")
}
