// Package main is the entry point for the coffee journal server.
//
// main() stays minimal — its job is to:
//  1. Load configuration from the environment
//  2. Create the logger
//  3. Start the server
//
// All actual logic lives in imported packages (internal/server,
// internal/handler, etc.), which keeps the app testable and its
// components reusable.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/coffee-journal/internal/config"
	"github.com/sakif/coffee-journal/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(cfg.Log.Level),
	}))

	// Ensure the data directory exists (like `mkdir -p`). ":memory:" has
	// no directory, so skip it there.
	if dir := filepath.Dir(cfg.Database.Path); cfg.Database.Path != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
