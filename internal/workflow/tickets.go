package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
)

// TicketsNode returns a state node creating one ticket per surviving action
// item. Ticket failures are absorbed by the client as simulated references,
// so this node never fails the job.
func TicketsNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("tickets: %w", err)
		}

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateCreatingTickets, progressTickets, "creating tickets")

		refs := rt.Tickets.CreateAll(ctx, t, t.ActionItems)
		t.TicketRefs = refs

		// Attach the extraction scoring as context on real tickets so
		// reviewers see how trustworthy the item is.
		if vr := extractValidation(s); vr != nil {
			note := fmt.Sprintf(
				"Extracted from %s. Confidence %.2f (cross-validation %.2f, structural %.2f).",
				t.SourceFile, vr.OverallConfidence, vr.CrossValidationScore, vr.StructuralScore,
			)
			for _, ref := range refs {
				if !ref.Simulated {
					rt.Tickets.Comment(ctx, ref.Key, note)
				}
			}
		}

		rt.Tracker.SetMetrics(jobID, len(t.ActionItems), len(refs), t.DetectedLanguage)

		rt.Logger.InfoContext(
			ctx, "tickets node complete",
			"job", jobID,
			"tickets", len(refs),
		)

		s = s.Set(KeyTicketRefs, refs)
		return s, nil
	})
}
