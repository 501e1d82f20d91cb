package status_test

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
)

func newTracker() *status.Tracker {
	return status.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRegisterAndProgress(t *testing.T) {
	tr := newTracker()
	id := tr.Register("standup.txt")

	job, ok := tr.Get(id)
	if !ok {
		t.Fatal("registered job not found")
	}
	if job.State != status.StateQueued {
		t.Errorf("state: got %s, want %s", job.State, status.StateQueued)
	}
	if job.Filename != "standup.txt" {
		t.Errorf("filename: got %s", job.Filename)
	}

	tr.Update(id, status.StateReadingFile, 15, "reading")
	tr.Update(id, status.StateExtracting, 55, "extracting")

	job, _ = tr.Get(id)
	if job.State != status.StateExtracting {
		t.Errorf("state: got %s, want %s", job.State, status.StateExtracting)
	}
	if job.Progress != 55 {
		t.Errorf("progress: got %d, want 55", job.Progress)
	}
}

func TestProgressNeverDecreases(t *testing.T) {
	tr := newTracker()
	id := tr.Register("standup.txt")

	tr.Update(id, status.StateExtracting, 55, "extracting")
	tr.Update(id, status.StateReadingFile, 15, "stale update")

	job, _ := tr.Get(id)
	if job.Progress != 55 {
		t.Errorf("progress regressed to %d", job.Progress)
	}
}

func TestProgressClampedAtHundred(t *testing.T) {
	tr := newTracker()
	id := tr.Register("standup.txt")

	tr.Update(id, status.StateArchiving, 250, "archiving")

	job, _ := tr.Get(id)
	if job.Progress != 100 {
		t.Errorf("progress: got %d, want 100", job.Progress)
	}
}

func TestTerminalStatesAbsorb(t *testing.T) {
	tr := newTracker()

	completed := tr.Register("a.txt")
	tr.Complete(completed)
	tr.Update(completed, status.StateArchiving, 90, "late update")

	job, ok := tr.Get(completed)
	if !ok {
		t.Fatal("completed job not retrievable")
	}
	if job.State != status.StateCompleted {
		t.Errorf("state after late update: got %s, want %s", job.State, status.StateCompleted)
	}
	if job.Progress != 100 {
		t.Errorf("progress: got %d, want 100", job.Progress)
	}
	if job.CompletedAt == nil || job.Duration == "" {
		t.Error("completion timestamp or duration missing")
	}

	failed := tr.Register("b.txt")
	tr.Fail(failed, "empty transcript")
	tr.Complete(failed)

	job, _ = tr.Get(failed)
	if job.State != status.StateFailed {
		t.Errorf("state: got %s, want %s", job.State, status.StateFailed)
	}
	if job.Error != "empty transcript" {
		t.Errorf("error: got %q", job.Error)
	}
}

func TestCompletedRingEvictsOldest(t *testing.T) {
	tr := newTracker()

	ids := make([]string, 0, status.CompletedCapacity+5)
	for i := range status.CompletedCapacity + 5 {
		id := tr.Register(fmt.Sprintf("f%d.txt", i))
		tr.Complete(id)
		ids = append(ids, id)
	}

	q := tr.Snapshot()
	if len(q.RecentlyCompleted) != status.CompletedCapacity {
		t.Fatalf("completed size: got %d, want %d",
			len(q.RecentlyCompleted), status.CompletedCapacity)
	}

	// Oldest five evicted, newest retained.
	if _, ok := tr.Get(ids[0]); ok {
		t.Error("oldest completed job still retrievable")
	}
	if _, ok := tr.Get(ids[len(ids)-1]); !ok {
		t.Error("newest completed job not retrievable")
	}
}

func TestSnapshotSeparatesActiveAndCompleted(t *testing.T) {
	tr := newTracker()

	active := tr.Register("active.txt")
	done := tr.Register("done.txt")
	tr.Complete(done)

	q := tr.Snapshot()
	if len(q.Active) != 1 || q.Active[0].ID != active {
		t.Errorf("active snapshot: %+v", q.Active)
	}
	if len(q.RecentlyCompleted) != 1 || q.RecentlyCompleted[0].ID != done {
		t.Errorf("completed snapshot: %+v", q.RecentlyCompleted)
	}
	if tr.ActiveCount() != 1 {
		t.Errorf("active count: got %d, want 1", tr.ActiveCount())
	}

	tr.ClearCompleted()
	if got := tr.Snapshot().RecentlyCompleted; len(got) != 0 {
		t.Errorf("completed after clear: %d", len(got))
	}
}

func TestSetMetrics(t *testing.T) {
	tr := newTracker()
	id := tr.Register("standup.txt")

	tr.SetMetrics(id, 4, 4, "english")
	tr.Complete(id)
	tr.SetMetrics(id, 99, 99, "french")

	job, _ := tr.Get(id)
	if job.ItemsExtracted != 4 || job.TicketsCreated != 4 || job.Language != "english" {
		t.Errorf("metrics mutated after completion: %+v", job)
	}
}
