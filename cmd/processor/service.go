package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/archive"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/config"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/extraction"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/hallucination"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/intake"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/processor"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/tickets"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/validation"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/workflow"
	"github.com/Darko-Martinovic/meeting-transcript-processor/pkg/lifecycle"
)

// Service wires the watcher, processor, and pipeline runtime together and
// binds them to the lifecycle coordinator.
type Service struct {
	lc        *lifecycle.Coordinator
	watcher   *intake.Watcher
	processor *processor.Processor
	logger    *slog.Logger
}

func NewService(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	lc := lifecycle.New()

	watcher, err := intake.New(
		cfg.Processor.InboxDir,
		cfg.Processor.ProcessingDir,
		cfg.Processor.SettleDelayDuration(),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	archiver, err := archive.New(
		cfg.Processor.InboxDir,
		cfg.Processor.ProcessingDir,
		cfg.Processor.ArchiveDir,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("create archiver: %w", err)
	}

	agentCfg := cfg.Agent.ToAgent()

	rt := &workflow.Runtime{
		Agent:               agentCfg,
		Tracker:             status.New(logger),
		Orchestrator:        extraction.New(agentCfg, cfg.Processor.ValidationEnabled(), logger),
		Tickets:             tickets.New(cfg.Tickets, logger),
		Archiver:            archiver,
		Logger:              logger.With("system", "workflow"),
		AdaptContext:        cfg.Processor.ContextAdaptationEnabled(),
		ConfidenceThreshold: cfg.Processor.ConfidenceThreshold,
	}

	if cfg.Processor.ValidationEnabled() {
		rt.Validator = validation.New(validation.NewHistory(validation.DefaultHistoryCapacity), logger)
	}
	if cfg.Processor.HallucinationEnabled() {
		rt.Detector = hallucination.New(logger)
	}

	proc := processor.New(rt, watcher, cfg.Processor.MaxConcurrency, nil, logger)

	return &Service{
		lc:        lc,
		watcher:   watcher,
		processor: proc,
		logger:    logger,
	}, nil
}

// Start launches the processor event loop and then the watcher, registering
// a shutdown hook that stops intake when the root context cancels. The
// processor attaches to the event channel first so a startup sweep of a
// large inbox backlog drains as it is produced.
func (s *Service) Start() error {
	ctx := s.lc.Context()

	s.processor.Start(ctx)

	if err := s.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	s.lc.OnShutdown(func() {
		<-ctx.Done()
		s.watcher.Stop()
	})

	s.lc.WaitForStartup()
	s.logger.Info("service ready")
	return nil
}

// Shutdown cancels the root context, stops intake, and drains in-flight
// jobs within the grace period.
func (s *Service) Shutdown(grace time.Duration) error {
	if err := s.lc.Shutdown(grace); err != nil {
		return err
	}
	return s.processor.Drain(grace)
}
