package workflow_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/workflow"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readRuntime() *workflow.Runtime {
	return &workflow.Runtime{
		Tracker: status.New(discard()),
		Logger:  discard(),
	}
}

func jobState(path string) state.State {
	s := state.New(nil)
	s = s.Set(workflow.KeyJobID, "job-1")
	s = s.Set(workflow.KeySourcePath, path)
	return s
}

func TestReadNodeFailsOnEmptyTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	node := workflow.ReadNode(readRuntime())
	_, err := node.Execute(context.Background(), jobState(path))
	if !errors.Is(err, workflow.ErrEmptyTranscript) {
		t.Errorf("got %v, want ErrEmptyTranscript", err)
	}
}

func TestReadNodeFailsOnMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.txt")

	node := workflow.ReadNode(readRuntime())
	_, err := node.Execute(context.Background(), jobState(path))
	if !errors.Is(err, workflow.ErrReadFailed) {
		t.Errorf("got %v, want ErrReadFailed", err)
	}
}

func TestReadNodeParsesTranscript(t *testing.T) {
	content := `Title: Weekly Sync
Participants: John, Maria

Action item: John will update the deployment runbook
`
	path := filepath.Join(t.TempDir(), "sync.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	node := workflow.ReadNode(readRuntime())
	s, err := node.Execute(context.Background(), jobState(path))
	if err != nil {
		t.Fatal(err)
	}

	val, ok := s.Get(workflow.KeyTranscript)
	if !ok {
		t.Fatal("transcript missing from state")
	}
	tr, ok := val.(*transcript.Transcript)
	if !ok {
		t.Fatalf("unexpected state value %T", val)
	}
	if tr.Title != "Weekly Sync" {
		t.Errorf("title: got %q", tr.Title)
	}
	if len(tr.Participants) != 2 {
		t.Errorf("participants: got %v", tr.Participants)
	}
}
