package main

import (
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info(
		"processor starting",
		"version", cfg.Version,
		"inbox", cfg.Processor.InboxDir,
		"max_concurrency", cfg.Processor.MaxConcurrency,
		"env", cfg.Env(),
	)

	svc, err := NewService(cfg, logger)
	if err != nil {
		log.Fatal("service init failed:", err)
	}

	if err := svc.Start(); err != nil {
		log.Fatal("service start failed:", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	if err := svc.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
		logger.Warn("shutdown incomplete", "error", err)
	}

	logger.Info("processor stopped")
}
