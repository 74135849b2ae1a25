package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/api"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/config"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/engine"
	"github.com/sureshm5/IMDB-Movie-Recommendation-System/internal/logging"
)

func main() {
	envErr := godotenv.Load()

	// 1. Config
	cfg, err := config.LoadFile(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Logging
	entry, closer, err := logging.New(cfg.Log, "plotmatch-api")
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}
	defer closer.Close()
	if envErr != nil {
		entry.Debug("No .env file found, using environment variables")
	}

	entry.Info("Starting Movie Recommendation API Service")

	// 3. Artifact + engine (startup precondition)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Artifact.FetchTimeout)
	eng, err := engine.Open(ctx, cfg, entry.WithField("component", "engine"))
	cancel()
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}

	// 4. API Server
	server := api.NewServer(eng, cfg.Server, entry.WithField("component", "api"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			entry.Fatal(err)
		}
	case sig := <-stop:
		entry.WithField("signal", sig.String()).Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			entry.WithError(err).Error("Graceful shutdown failed")
		}
	}
}
