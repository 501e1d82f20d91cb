package extraction

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/meeting"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/pkg/formatting"
)

// Result carries the outcome of one extraction run. AIItems and RuleItems
// feed the cross-validator; Items is the list the pipeline continues with.
type Result struct {
	Items     []transcript.ActionItem
	AIItems   []transcript.ActionItem
	RuleItems []transcript.ActionItem
	AIUsed    bool
}

// Orchestrator coordinates AI and rule-based extraction for one transcript.
type Orchestrator struct {
	agent    gaconfig.AgentConfig
	validate bool
	logger   *slog.Logger
}

// New creates an Orchestrator. When validate is false the independent
// rule-based baseline pass is skipped entirely.
func New(agentCfg gaconfig.AgentConfig, validate bool, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		agent:    agentCfg,
		validate: validate,
		logger:   logger.With("system", "extraction"),
	}
}

// Extract runs AI extraction with the context-derived prompt (or the static
// default when mctx is nil) and, when validation is enabled, the rule-based
// baseline. Inference failures never fail the job: the result degrades to
// rule-based-only output.
func (o *Orchestrator) Extract(ctx context.Context, t *transcript.Transcript, mctx *meeting.Context) *Result {
	result := &Result{}

	if o.validate {
		result.RuleItems = Scan(t.Content)
	}

	aiItems, err := o.extractAI(ctx, t, mctx)
	if err != nil {
		o.logger.Warn(
			"ai extraction failed, degrading to rule-based output",
			"source", t.SourceFile,
			"error", err,
		)
		if result.RuleItems == nil {
			result.RuleItems = Scan(t.Content)
		}
		result.Items = result.RuleItems
		return result
	}

	result.AIItems = aiItems
	result.AIUsed = true
	result.Items = aiItems
	return result
}

func (o *Orchestrator) extractAI(ctx context.Context, t *transcript.Transcript, mctx *meeting.Context) ([]transcript.ActionItem, error) {
	cfg := o.agent
	cfg.SystemPrompt = meeting.DefaultPrompt()
	if mctx != nil {
		cfg.SystemPrompt = mctx.SystemPrompt
	}

	a, err := agent.New(&cfg)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	// Derived generation parameters ride as per-request options; a fresh map
	// per call keeps concurrent jobs from sharing request state.
	opts := make(map[string]any)
	if mctx != nil {
		opts["temperature"] = mctx.Params.Temperature
		opts["max_tokens"] = mctx.Params.MaxTokens
	}

	resp, err := a.Chat(ctx, "Transcript:\n"+t.Content, opts)
	if err != nil {
		return nil, fmt.Errorf("chat call: %w", err)
	}

	parsed, err := formatting.Parse[aiResponse](resp.Content())
	if err != nil {
		// Malformed model output: recover what the heuristic scanner can
		// find in the raw completion plus the transcript itself.
		o.logger.Warn(
			"ai response unparseable, recovering via scanner",
			"source", t.SourceFile,
		)
		recovered := Scan(resp.Content())
		if len(recovered) == 0 {
			recovered = Scan(t.Content)
		}
		for i := range recovered {
			recovered[i].Provenance = transcript.ProvenanceAI
		}
		return recovered, nil
	}

	return parsed.toActionItems(), nil
}
