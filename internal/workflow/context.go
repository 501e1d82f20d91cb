package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/meeting"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
)

// ContextNode returns a state node that classifies the meeting and derives
// the extraction context. The derivation is pure and recomputed per job.
func ContextNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("context: %w", err)
		}

		mctx := meeting.Derive(t)
		t.DetectedLanguage = string(mctx.Language)

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateExtracting, progressContext, fmt.Sprintf("classified as %s meeting", mctx.MeetingType))

		rt.Logger.InfoContext(
			ctx, "context node complete",
			"job", jobID,
			"context", mctx.String(),
		)

		s = s.Set(KeyContext, mctx)
		return s, nil
	})
}

func extractMeetingContext(s state.State) *meeting.Context {
	val, ok := s.Get(KeyContext)
	if !ok {
		return nil
	}
	mctx, ok := val.(*meeting.Context)
	if !ok {
		return nil
	}
	return mctx
}
