package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// ArchiveNode returns a state node that moves the processed file into the
// archive directory under the success tag.
func ArchiveNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("archive: %w", err)
		}
		jobID, path, err := extractJobState(s)
		if err != nil {
			return s, fmt.Errorf("archive: %w", err)
		}

		rt.Tracker.Update(jobID, status.StateArchiving, progressArchive, "archiving transcript")

		t.Status = transcript.StatusSuccess
		t.ProcessedAt = time.Now()

		archived, err := rt.Archiver.Archive(path, t.Status, t.DetectedLanguage)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrArchiveFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "archive node complete",
			"job", jobID,
			"archived", archived,
		)

		s = s.Set(KeyArchived, archived)
		return s, nil
	})
}

// MetadataNode returns a state node writing the JSON sidecar beside the
// archived file. It is the exit node of the graph.
func MetadataNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		if err := ctx.Err(); err != nil {
			return s, fmt.Errorf("%w: %w", ErrCancelled, err)
		}

		t, err := extractTranscript(s)
		if err != nil {
			return s, fmt.Errorf("metadata: %w", err)
		}
		archived, err := extractArchivedPath(s)
		if err != nil {
			return s, fmt.Errorf("metadata: %w", err)
		}

		jobID, _, _ := extractJobState(s)
		rt.Tracker.Update(jobID, status.StateSavingMetadata, progressMetadata, "saving metadata")

		if err := rt.Archiver.SaveMetadata(archived, t); err != nil {
			return s, fmt.Errorf("%w: %w", ErrMetadataFailed, err)
		}

		return s, nil
	})
}

func extractArchivedPath(s state.State) (string, error) {
	val, ok := s.Get(KeyArchived)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyArchived)
	}
	path, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeyArchived)
	}
	return path, nil
}
