// recordvault - credential-guarded record storage service
//
// This is the main entry point for the recordvault application. It loads
// configuration, opens the SQLite store, applies schema migrations, and
// serves the HTTP API until interrupted.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/mwhitfield/recordvault/migrations"

	"github.com/mwhitfield/recordvault/internal/api"
	"github.com/mwhitfield/recordvault/internal/auth"
	"github.com/mwhitfield/recordvault/internal/infrastructure/config"
	"github.com/mwhitfield/recordvault/internal/infrastructure/database"
	"github.com/mwhitfield/recordvault/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting recordvault",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration. A missing or weak JWT secret fails here: the
	// service must never come up able to mint forgeable tokens.
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	// Open database. Unlike config errors, a dead store is not fatal:
	// the API still starts and answers health checks while the data
	// endpoints report 503 until the store comes back.
	var db *database.DB
	var users auth.UserRepository

	db, err = database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		log.Warn("database unavailable, starting degraded", "error", err)
		db = nil
	} else {
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		users = auth.NewUserRepository(db.DB)
	}

	// Start API server
	server, err := api.New(api.Deps{
		Config:   cfg.Server,
		Security: cfg.Security,
		TokenTTL: cfg.TokenTTL(),
		Logger:   log,
		DB:       db,
		Users:    users,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("recordvault ready",
		"address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	)

	// Block until interrupted
	<-ctx.Done()
	log.Info("shutdown signal received")

	return nil
}

// getConfigPath returns the config file path from args or the default.
func getConfigPath() string {
	if len(os.Args) > 1 {
		return os.Args[1]
	}
	if env := os.Getenv("RECORDVAULT_CONFIG"); env != "" {
		return env
	}
	return defaultConfigPath
}
