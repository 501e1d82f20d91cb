package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/extraction"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
)

// ExtractNode returns a state node running the extraction orchestrator.
// Extraction never fails the job: inference errors degrade to the
// rule-based item set inside the orchestrator.
func ExtractNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("extract: %w", err)
		}

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateExtracting, progressExtract, "extracting action items")

		mctx := extractMeetingContext(s)
		result := rt.Orchestrator.Extract(ctx, t, mctx)

		rt.Logger.InfoContext(
			ctx, "extract node complete",
			"job", jobID,
			"items", len(result.Items),
			"ai_used", result.AIUsed,
		)

		s = s.Set(KeyExtraction, result)
		return s, nil
	})
}

func extractExtraction(s state.State) (*extraction.Result, error) {
	val, ok := s.Get(KeyExtraction)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyExtraction)
	}
	r, ok := val.(*extraction.Result)
	if !ok {
		return nil, fmt.Errorf("%s is not *extraction.Result", KeyExtraction)
	}
	return r, nil
}
