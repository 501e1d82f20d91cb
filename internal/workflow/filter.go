package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/hallucination"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// FilterNode returns a state node applying the hallucination filter and the
// business-rule filter, in that order. The surviving items become the
// transcript's final action item list.
func FilterNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("filter: %w", err)
		}
		result, err := extractExtraction(s)
		if err != nil {
			return s, fmt.Errorf("filter: %w", err)
		}

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateExtracting, progressFilter, "filtering action items")

		items := result.Items

		if rt.Detector != nil && result.AIUsed {
			threshold := rt.ConfidenceThreshold
			if mctx := extractMeetingContext(s); mctx != nil {
				threshold = mctx.ConfidenceThreshold
			}

			analyses := rt.Detector.Analyze(t, items)
			kept := hallucination.Filter(items, analyses, threshold)

			if dropped := len(items) - len(kept); dropped > 0 {
				rt.Logger.InfoContext(
					ctx, "hallucination filter dropped items",
					"job", jobID,
					"dropped", dropped,
					"kept", len(kept),
				)
			}
			items = kept
		}

		t.ActionItems = transcript.FilterItems(items)

		rt.Logger.InfoContext(
			ctx, "filter node complete",
			"job", jobID,
			"items", len(t.ActionItems),
		)

		return s, nil
	})
}
