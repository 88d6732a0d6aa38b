package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/klovach/resound/internal/receiver"

	_ "github.com/klovach/resound/internal/modules/heartbeat"
	_ "github.com/klovach/resound/internal/modules/playback"
)

// version is set at build time via ldflags:
// go build -ldflags "-X main.version=1.0.0" ./cmd/resound
var version = "dev"

func main() {
	// Configure JSON logging
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	slog.Info("starting resound", "version", version)

	// Load configuration
	cfg, err := receiver.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create and configure receiver
	r := receiver.NewReceiver(cfg)
	r.LoadModules()

	// Start receiver
	if err := r.Start(); err != nil {
		slog.Error("failed to start receiver", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("received termination signal, shutting down")
	if err := r.Stop(); err != nil {
		slog.Error("failed to shutdown", "error", err)
	}

	slog.Info("completed receiver shutdown")
	os.Exit(0)
}
