// Package main implements the entry point for the EduPilot API server,
// which backs the study assistant web app: AI chat, quiz generation and
// scoring, note composition, and per-user progress tracking.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/edupilot/edupilot-api/internal/config"
	"github.com/edupilot/edupilot-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, sets up logging, wires the application, and
// blocks serving HTTP until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"data_dir", cfg.Store.DataDir)

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(ctx, app.setupRouter())
}
