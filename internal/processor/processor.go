// Package processor schedules transcript jobs: it consumes ready files from
// the intake watcher, bounds concurrent pipeline executions with a weighted
// semaphore, deduplicates in-flight paths, and owns the per-job error
// boundary (failed jobs are archived under the error tag with an error
// sidecar).
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/intake"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/status"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/workflow"
)

const (
	DefaultMaxConcurrency = 3
	MinConcurrency        = 1
	MaxConcurrency        = 10
)

// ErrAlreadyInFlight reports a path whose job is still running.
var ErrAlreadyInFlight = errors.New("file is already being processed")

// PipelineFunc executes the processing pipeline for one job. Production
// wiring uses workflow.Execute; tests substitute a stub.
type PipelineFunc func(ctx context.Context, rt *workflow.Runtime, jobID, sourcePath string) (*workflow.Result, error)

// Processor runs transcript jobs with bounded concurrency.
type Processor struct {
	rt       *workflow.Runtime
	watcher  *intake.Watcher
	pipeline PipelineFunc
	permits  *semaphore.Weighted
	logger   *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}

	wg sync.WaitGroup
}

// New creates a Processor. maxConcurrency outside [1, 10] is clamped. A nil
// pipeline defaults to workflow.Execute.
func New(rt *workflow.Runtime, watcher *intake.Watcher, maxConcurrency int, pipeline PipelineFunc, logger *slog.Logger) *Processor {
	if maxConcurrency < MinConcurrency {
		maxConcurrency = MinConcurrency
	}
	if maxConcurrency > MaxConcurrency {
		maxConcurrency = MaxConcurrency
	}
	if pipeline == nil {
		pipeline = workflow.Execute
	}

	return &Processor{
		rt:       rt,
		watcher:  watcher,
		pipeline: pipeline,
		permits:  semaphore.NewWeighted(int64(maxConcurrency)),
		logger:   logger.With("system", "processor"),
		inFlight: make(map[string]struct{}),
	}
}

// Start consumes watcher events until the context is cancelled or the
// watcher's event channel closes. Each event spawns a job goroutine that
// blocks on a permit, so the event loop itself never stalls behind slow
// pipelines.
func (p *Processor) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-p.watcher.Events():
				if !ok {
					return
				}
				if _, err := p.StartJob(ctx, ev.Path); err != nil {
					p.logger.Warn("job not started", "path", ev.Path, "error", err)
				}
			}
		}
	}()
}

// StartJob registers and launches a job for a relocated transcript file,
// returning the job id immediately. Duplicate in-flight paths are rejected.
func (p *Processor) StartJob(ctx context.Context, path string) (string, error) {
	p.mu.Lock()
	if _, dup := p.inFlight[path]; dup {
		p.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrAlreadyInFlight, path)
	}
	p.inFlight[path] = struct{}{}
	p.mu.Unlock()

	jobID := p.rt.Tracker.Register(filepath.Base(path))
	p.rt.Tracker.Update(jobID, status.StateStarting, 5, "waiting for processing slot")

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			p.mu.Lock()
			delete(p.inFlight, path)
			p.mu.Unlock()
		}()

		if err := p.permits.Acquire(ctx, 1); err != nil {
			p.rt.Tracker.Fail(jobID, "cancelled before processing started")
			return
		}
		defer p.permits.Release(1)

		p.run(ctx, jobID, path)
	}()

	return jobID, nil
}

// run executes the pipeline and applies the error boundary: any failure
// marks the job failed and attempts to archive the source under the error
// tag with an error-status sidecar.
func (p *Processor) run(ctx context.Context, jobID, path string) {
	started := time.Now()

	result, err := p.pipeline(ctx, p.rt, jobID, path)
	if err != nil {
		p.rt.Tracker.Fail(jobID, err.Error())

		// Cancelled jobs leave their file in the processing directory so
		// the startup sweep re-queues it on the next run. Genuine failures
		// are archived under the error tag so the file is never retried.
		if errors.Is(err, workflow.ErrCancelled) || ctx.Err() != nil {
			p.logger.Warn("job cancelled", "job", jobID, "path", path)
			return
		}

		p.logger.Error("job failed", "job", jobID, "path", path, "error", err)
		p.archiveFailed(path, err)
		return
	}

	p.rt.Tracker.Complete(jobID)
	p.logger.Info(
		"job complete",
		"job", jobID,
		"archived", result.ArchivedPath,
		"items", len(result.Transcript.ActionItems),
		"duration", time.Since(started).Round(time.Millisecond),
	)
}

// archiveFailed moves an unprocessable file out of the processing directory
// under the error tag and records the failure in a sidecar, so the file is
// never re-picked-up and the reason survives restarts.
func (p *Processor) archiveFailed(path string, cause error) {
	t := &transcript.Transcript{
		SourceFile:  filepath.Base(path),
		Status:      transcript.StatusError,
		Error:       cause.Error(),
		ProcessedAt: time.Now(),
	}

	archived, err := p.rt.Archiver.Archive(path, transcript.StatusError, "")
	if err != nil {
		p.logger.Error("error archive failed", "path", path, "error", err)
		return
	}

	if err := p.rt.Archiver.SaveMetadata(archived, t); err != nil {
		p.logger.Error("error sidecar failed", "path", archived, "error", err)
	}
}

// Drain waits for in-flight jobs to finish, up to grace. It returns an
// error when work is still active at the deadline.
func (p *Processor) Drain(grace time.Duration) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(grace):
		return fmt.Errorf("drain grace period %v elapsed with jobs still active", grace)
	}
}

// GetStatus returns the tracked job for an id.
func (p *Processor) GetStatus(id string) (status.Job, bool) {
	return p.rt.Tracker.Get(id)
}

// GetQueue returns a snapshot of active and recently completed jobs.
func (p *Processor) GetQueue() status.Queue {
	return p.rt.Tracker.Snapshot()
}

// ClearCompletedHistory empties the recently-completed ring.
func (p *Processor) ClearCompletedHistory() {
	p.rt.Tracker.ClearCompleted()
}
