package workflow

import (
	"log/slog"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/archive"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/extraction"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/hallucination"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/tickets"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/validation"
)

// Runtime bundles the dependencies that pipeline nodes require. It is
// constructed once by the processor from configuration; nil Validator or
// Detector disables the corresponding stage.
type Runtime struct {
	Agent        gaconfig.AgentConfig
	Tracker      *status.Tracker
	Orchestrator *extraction.Orchestrator
	Validator    *validation.Validator
	Detector     *hallucination.Detector
	Tickets      *tickets.Client
	Archiver     *archive.Archiver
	Logger       *slog.Logger

	// AdaptContext enables the meeting-context classifier; when false the
	// extractor uses the static default prompt.
	AdaptContext bool

	// ConfidenceThreshold is the hallucination filter floor used when no
	// context-derived threshold is available.
	ConfidenceThreshold float64
}
