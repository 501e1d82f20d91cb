package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/meeting"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/validation"
)

// ValidateNode returns a state node that cross-validates AI output against
// the rule-based baseline. Validation only scores and flags; it never
// removes items or fails the job.
func ValidateNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}
		result, err := extractExtraction(s)
		if err != nil {
			return s, fmt.Errorf("validate: %w", err)
		}

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateExtracting, progressValidate, "cross-validating extraction")

		rules := meeting.DefaultRules()
		if mctx := extractMeetingContext(s); mctx != nil {
			rules = mctx.Rules
		}

		vr := rt.Validator.Validate(t, result.AIItems, result.RuleItems, rules)

		s = s.Set(KeyValidation, &vr)
		return s, nil
	})
}

// extractValidation returns the scoring result or nil when the validate
// stage is disabled.
func extractValidation(s state.State) *validation.Result {
	val, ok := s.Get(KeyValidation)
	if !ok {
		return nil
	}
	vr, ok := val.(*validation.Result)
	if !ok {
		return nil
	}
	return vr
}
