// Package intake watches the inbox directory for new transcript files,
// stabilizes them, and relocates them into the processing area before
// emitting ready events for the pipeline.
package intake

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileReady announces one successfully relocated file.
type FileReady struct {
	Path      string
	Name      string
	Timestamp time.Time
}

// DefaultSettleDelay is the pause between detecting a file and first
// attempting to read it, giving writers time to finish.
const DefaultSettleDelay = 500 * time.Millisecond

// stabilityProbe is the gap between the two size samples used to decide a
// file has stopped growing.
const stabilityProbe = 200 * time.Millisecond

// Watcher observes the inbox and feeds ready events to the processor.
type Watcher struct {
	inbox      string
	processing string
	settle     time.Duration
	probe      time.Duration
	events     chan FileReady
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// New creates a Watcher over the given inbox, relocating stable files into
// processing. Both directories are created if absent.
func New(inbox, processing string, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	for _, dir := range []string{inbox, processing} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	return &Watcher{
		inbox:      inbox,
		processing: processing,
		settle:     settle,
		probe:      stabilityProbe,
		events:     make(chan FileReady, 64),
		fsw:        fsw,
		logger:     logger.With("system", "intake"),
	}, nil
}

// Events returns the ready-event channel. It is closed when the watcher
// stops.
func (w *Watcher) Events() <-chan FileReady {
	return w.events
}

// Start registers the inbox with fsnotify and launches the event goroutine,
// which first recovers files stranded in processing, then sweeps pre-existing
// inbox files, then switches to event-driven detection until ctx is cancelled
// or Stop is called. The sweeps run inside the goroutine so a backlog larger
// than the event buffer never blocks Start: the consumer attaches while the
// sweep is still emitting.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.fsw.Add(w.inbox); err != nil {
		return fmt.Errorf("watch inbox %s: %w", w.inbox, err)
	}

	w.wg.Add(1)
	go w.run(ctx)

	w.logger.Info("intake started", "inbox", w.inbox)
	return nil
}

// Stop closes the filesystem watcher and, once the event loop drains, the
// ready-event channel.
func (w *Watcher) Stop() {
	w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	w.logger.Info("intake stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	w.sweepProcessing(ctx)
	w.sweep(ctx)
	w.loop(ctx)
}

// sweepProcessing re-queues files left in the processing area by a crash or
// a shutdown that cancelled their job. They were already relocated, so they
// are emitted directly without stability checks.
func (w *Watcher) sweepProcessing(ctx context.Context) {
	entries, err := os.ReadDir(w.processing)
	if err != nil {
		w.logger.Error("processing sweep failed", "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.processing, entry.Name())
		w.logger.Info("recovering interrupted file", "path", path)
		w.emit(ctx, path)
	}
}

// sweep handles inbox files already present at startup.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		w.logger.Error("inbox sweep failed", "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.handle(ctx, filepath.Join(w.inbox, entry.Name()))
	}
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			w.handle(ctx, event.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handle settles, verifies stability, and relocates one candidate file.
// Locked or still-growing files are skipped and left for the next
// detection cycle; there is no scheduled retry.
func (w *Watcher) handle(ctx context.Context, path string) {
	time.Sleep(w.settle)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	if !w.stable(path, info.Size()) {
		w.logger.Debug("file not yet stable, skipping", "path", path)
		return
	}

	dest, err := w.relocate(path)
	if err != nil {
		w.logger.Warn("relocate failed, leaving for next cycle", "path", path, "error", err)
		return
	}

	w.logger.Info("file ready", "source", path, "dest", dest)
	w.emit(ctx, dest)
}

// emit delivers one ready event, abandoning the send if ctx cancels while
// the buffer is full so shutdown never hangs on an unconsumed backlog.
func (w *Watcher) emit(ctx context.Context, path string) {
	select {
	case w.events <- FileReady{
		Path:      path,
		Name:      filepath.Base(path),
		Timestamp: time.Now(),
	}:
	case <-ctx.Done():
	}
}

// stable samples the size again after a short probe interval and verifies
// the file is readable.
func (w *Watcher) stable(path string, size int64) bool {
	time.Sleep(w.probe)

	info, err := os.Stat(path)
	if err != nil || info.Size() != size {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false // locked, still being written
	}
	f.Close()
	return true
}

// relocate moves the file into the processing area, appending a numeric
// suffix on name collision.
func (w *Watcher) relocate(path string) (string, error) {
	name := filepath.Base(path)
	dest := filepath.Join(w.processing, name)

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; exists(dest); i++ {
		dest = filepath.Join(w.processing, fmt.Sprintf("%s_%d%s", base, i, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move %s: %w", path, err)
	}
	return dest, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
