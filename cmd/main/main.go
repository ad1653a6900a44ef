package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"multiverse/browser/internal/config"
	"multiverse/browser/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting API Multiverse proxy...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ApplyLogLevel()
	log.Info("Configuration loaded successfully")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := container.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		log.Errorf("Application exited with error: %v", err)
		return
	}

	log.Info("Application finished successfully")
}
