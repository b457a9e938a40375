// Package main is the entry point for the schematic hub server.
//
// main stays minimal: load configuration, create the logger, make sure the
// data directories exist, hand everything to internal/server. All actual
// logic lives in the imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/schematic-hub/internal/config"
	"github.com/sakif/schematic-hub/internal/server"
)

func main() {
	// Load a local .env file if present. Ignore the error: in production the
	// environment is set by the deployment, not a file.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.UsingDevSecret() {
		// Anyone who reads the source can forge sessions signed with the
		// development secret. Fine locally, never in production.
		logger.Warn("JWT_SECRET not set — using the insecure development secret")
	}

	// Like `mkdir -p`: the database file's directory must exist before the
	// driver can create the file. The upload directory is handled by the
	// blob store itself.
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", dbDir),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
