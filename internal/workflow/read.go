package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/pkg/textextract"
)

// ReadNode returns a state node that extracts text from the source file
// and parses the transcript header. Empty content is an unrecoverable
// parse failure: the job fails and the file is archived under the error
// tag by the processor boundary.
func ReadNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		jobID, path, err := extractJobState(s)
		if err != nil {
			return s, fmt.Errorf("read: %w", err)
		}

		rt.Tracker.Update(jobID, status.StateReadingFile, progressReading, "reading transcript")

		content, err := textextract.Extract(path)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrReadFailed, err)
		}

		if strings.TrimSpace(content) == "" {
			return s, fmt.Errorf("%w: %s", ErrEmptyTranscript, path)
		}

		t := transcript.Parse(path, content)

		rt.Logger.InfoContext(
			ctx, "read node complete",
			"job", jobID,
			"title", t.Title,
			"participants", len(t.Participants),
			"bytes", len(content),
		)

		s = s.Set(KeyTranscript, t)
		return s, nil
	})
}

func extractJobState(s state.State) (string, string, error) {
	idVal, ok := s.Get(KeyJobID)
	if !ok {
		return "", "", fmt.Errorf("missing %s in state", KeyJobID)
	}
	jobID, ok := idVal.(string)
	if !ok {
		return "", "", fmt.Errorf("%s is not string", KeyJobID)
	}

	pathVal, ok := s.Get(KeySourcePath)
	if !ok {
		return "", "", fmt.Errorf("missing %s in state", KeySourcePath)
	}
	path, ok := pathVal.(string)
	if !ok {
		return "", "", fmt.Errorf("%s is not string", KeySourcePath)
	}

	return jobID, path, nil
}

func extractTranscript(s state.State) (*transcript.Transcript, error) {
	val, ok := s.Get(KeyTranscript)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyTranscript)
	}
	t, ok := val.(*transcript.Transcript)
	if !ok {
		return nil, fmt.Errorf("%s is not *transcript.Transcript", KeyTranscript)
	}
	return t, nil
}
