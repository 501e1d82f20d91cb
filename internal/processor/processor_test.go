package processor_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/archive"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/processor"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/workflow"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	rt         *workflow.Runtime
	processing string
	archiveDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	inbox := filepath.Join(root, "inbox")
	processing := filepath.Join(root, "processing")
	archiveDir := filepath.Join(root, "archive")
	for _, dir := range []string{inbox, processing} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	archiver, err := archive.New(inbox, processing, archiveDir, discard())
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		rt: &workflow.Runtime{
			Tracker:  status.New(discard()),
			Archiver: archiver,
			Logger:   discard(),
		},
		processing: processing,
		archiveDir: archiveDir,
	}
}

func (f *fixture) file(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.processing, name)
	if err := os.WriteFile(path, []byte("transcript body"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func okResult(jobID string) (*workflow.Result, error) {
	return &workflow.Result{
		JobID:        jobID,
		Transcript:   &transcript.Transcript{Status: transcript.StatusSuccess},
		ArchivedPath: "archived",
		CompletedAt:  time.Now(),
	}, nil
}

func TestBoundedConcurrency(t *testing.T) {
	f := newFixture(t)

	const limit = 2
	const jobs = 5

	entered := make(chan string, jobs)
	release := make(chan struct{})
	stub := func(ctx context.Context, rt *workflow.Runtime, jobID, path string) (*workflow.Result, error) {
		entered <- jobID
		<-release
		return okResult(jobID)
	}

	p := processor.New(f.rt, nil, limit, stub, discard())

	for i := range jobs {
		if _, err := p.StartJob(context.Background(), f.file(t, fmt.Sprintf("f%d.txt", i))); err != nil {
			t.Fatal(err)
		}
	}

	for range limit {
		select {
		case <-entered:
		case <-time.After(2 * time.Second):
			t.Fatal("pipeline never reached the concurrency limit")
		}
	}

	select {
	case id := <-entered:
		t.Fatalf("job %s ran beyond the concurrency limit", id)
	case <-time.After(150 * time.Millisecond):
	}

	close(release)
	if err := p.Drain(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	q := f.rt.Tracker.Snapshot()
	if len(q.RecentlyCompleted) != jobs {
		t.Errorf("completed: got %d, want %d", len(q.RecentlyCompleted), jobs)
	}
}

func TestDuplicatePathRejectedWhileInFlight(t *testing.T) {
	f := newFixture(t)

	release := make(chan struct{})
	stub := func(ctx context.Context, rt *workflow.Runtime, jobID, path string) (*workflow.Result, error) {
		<-release
		return okResult(jobID)
	}

	p := processor.New(f.rt, nil, 3, stub, discard())
	path := f.file(t, "standup.txt")

	if _, err := p.StartJob(context.Background(), path); err != nil {
		t.Fatal(err)
	}
	if _, err := p.StartJob(context.Background(), path); !errors.Is(err, processor.ErrAlreadyInFlight) {
		t.Fatalf("got %v, want ErrAlreadyInFlight", err)
	}

	close(release)
	if err := p.Drain(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	// Once the first run finished, the same path is accepted again.
	if _, err := p.StartJob(context.Background(), path); err != nil {
		t.Fatalf("path not released after completion: %v", err)
	}
	if err := p.Drain(2 * time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestFailedJobArchivedUnderErrorTag(t *testing.T) {
	f := newFixture(t)

	stub := func(ctx context.Context, rt *workflow.Runtime, jobID, path string) (*workflow.Result, error) {
		return nil, errors.New("transcript is empty")
	}

	p := processor.New(f.rt, nil, 1, stub, discard())
	path := f.file(t, "broken.txt")

	id, err := p.StartJob(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Drain(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	job, ok := p.GetStatus(id)
	if !ok {
		t.Fatal("failed job not retrievable")
	}
	if job.State != status.StateFailed {
		t.Errorf("state: got %s, want %s", job.State, status.StateFailed)
	}
	if job.Error == "" {
		t.Error("error message missing from job record")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed file still in processing directory")
	}

	entries, err := os.ReadDir(f.archiveDir)
	if err != nil {
		t.Fatal(err)
	}

	var archived, sidecar bool
	for _, e := range entries {
		switch {
		case strings.Contains(e.Name(), "_error_") && strings.HasSuffix(e.Name(), "broken.txt"):
			archived = true
		case e.Name() == "broken.meta.json":
			sidecar = true
		}
	}
	if !archived {
		t.Errorf("error-tagged archive missing, got %v", names(entries))
	}
	if !sidecar {
		t.Errorf("error sidecar missing, got %v", names(entries))
	}

	meta, err := f.rt.Archiver.LoadMetadata("broken.txt")
	if err != nil {
		t.Fatal(err)
	}
	if meta.Status != transcript.StatusError {
		t.Errorf("sidecar status: got %s, want %s", meta.Status, transcript.StatusError)
	}
	if meta.Error == "" {
		t.Error("sidecar error message missing")
	}
}

func TestConcurrencyClamped(t *testing.T) {
	f := newFixture(t)

	stub := func(ctx context.Context, rt *workflow.Runtime, jobID, path string) (*workflow.Result, error) {
		return okResult(jobID)
	}

	// Out-of-range limits must still yield a working processor.
	for _, limit := range []int{-1, 0, 50} {
		p := processor.New(f.rt, nil, limit, stub, discard())
		if _, err := p.StartJob(context.Background(), f.file(t, fmt.Sprintf("clamp%d.txt", limit+1))); err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
		if err := p.Drain(2 * time.Second); err != nil {
			t.Fatalf("limit %d: %v", limit, err)
		}
	}
}

func names(entries []os.DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name()
	}
	return out
}
