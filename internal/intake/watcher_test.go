package intake_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/intake"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWatcher(t *testing.T) (*intake.Watcher, string, string) {
	t.Helper()
	root := t.TempDir()
	inbox := filepath.Join(root, "inbox")
	processing := filepath.Join(root, "processing")

	w, err := intake.New(inbox, processing, time.Millisecond, discard())
	if err != nil {
		t.Fatal(err)
	}
	return w, inbox, processing
}

func collect(t *testing.T, events <-chan intake.FileReady, n int) []intake.FileReady {
	t.Helper()
	out := make([]intake.FileReady, 0, n)
	timeout := time.After(5 * time.Second)
	for len(out) < n {
		select {
		case ev := <-events:
			out = append(out, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(out), n)
		}
	}
	return out
}

func TestSweepRelocatesPreexistingFiles(t *testing.T) {
	w, inbox, processing := newWatcher(t)

	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(inbox, name), []byte("body"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	events := collect(t, w.Events(), 2)
	cancel()
	w.Stop()

	seen := map[string]bool{}
	for _, ev := range events {
		seen[ev.Name] = true
		if filepath.Dir(ev.Path) != processing {
			t.Errorf("event path %q not in processing dir", ev.Path)
		}
		if _, err := os.Stat(ev.Path); err != nil {
			t.Errorf("relocated file missing: %v", err)
		}
	}
	if !seen["a.txt"] || !seen["b.txt"] {
		t.Errorf("events missing files: %v", seen)
	}

	entries, err := os.ReadDir(inbox)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("inbox not emptied: %d entries remain", len(entries))
	}
}

func TestDetectsNewFile(t *testing.T) {
	w, inbox, _ := newWatcher(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(inbox, "new.txt"), []byte("body"), 0o644); err != nil {
		t.Fatal(err)
	}

	events := collect(t, w.Events(), 1)
	cancel()
	w.Stop()

	if events[0].Name != "new.txt" {
		t.Errorf("event name: got %q, want new.txt", events[0].Name)
	}
}

func TestRelocationCollisionGetsSuffix(t *testing.T) {
	w, inbox, processing := newWatcher(t)

	// A file with the same name already sits in processing. It is recovered
	// as-is at startup; the inbox file must not overwrite it.
	if err := os.WriteFile(filepath.Join(processing, "dup.txt"), []byte("older"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(inbox, "dup.txt"), []byte("newer"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	events := collect(t, w.Events(), 2)
	cancel()
	w.Stop()

	seen := map[string]bool{}
	for _, ev := range events {
		seen[ev.Name] = true
	}
	if !seen["dup.txt"] || !seen["dup_1.txt"] {
		t.Errorf("expected recovered dup.txt and relocated dup_1.txt, got %v", seen)
	}

	body, err := os.ReadFile(filepath.Join(processing, "dup.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != "older" {
		t.Error("existing processing file was overwritten")
	}
}

func TestRecoversProcessingLeftoversAtStartup(t *testing.T) {
	w, _, processing := newWatcher(t)

	// A crash or cancelled shutdown leaves an already-relocated file behind.
	leftover := filepath.Join(processing, "interrupted.txt")
	if err := os.WriteFile(leftover, []byte("body"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	events := collect(t, w.Events(), 1)
	cancel()
	w.Stop()

	if events[0].Path != leftover {
		t.Errorf("event path: got %q, want %q", events[0].Path, leftover)
	}
	if _, err := os.Stat(leftover); err != nil {
		t.Errorf("recovered file should stay in processing: %v", err)
	}
}
