// Package status tracks per-job processing state. Job state is ephemeral:
// it lives in memory for the observability surface and is never persisted.
package status

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is one step of the job lifecycle.
type State string

// Job states in pipeline order. Completed and Failed are absorbing.
const (
	StateQueued          State = "Queued"
	StateStarting        State = "Starting"
	StateReadingFile     State = "ReadingFile"
	StateExtracting      State = "ExtractingActionItems"
	StateCreatingTickets State = "CreatingTickets"
	StateArchiving       State = "Archiving"
	StateSavingMetadata  State = "SavingMetadata"
	StateCompleted       State = "Completed"
	StateFailed          State = "Failed"
)

// Terminal reports whether the state is absorbing.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CompletedCapacity bounds the recently-completed FIFO.
const CompletedCapacity = 10

// Job is one file's run through the pipeline.
type Job struct {
	ID             string     `json:"id"`
	Filename       string     `json:"filename"`
	State          State      `json:"state"`
	Progress       int        `json:"progress"`
	Message        string     `json:"message,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	Error          string     `json:"error,omitempty"`
	ItemsExtracted int        `json:"items_extracted"`
	TicketsCreated int        `json:"tickets_created"`
	Language       string     `json:"language,omitempty"`
}

// Queue is a point-in-time snapshot of tracker contents. Staleness of a
// few hundred milliseconds is acceptable; this is an observability
// surface, not a correctness path.
type Queue struct {
	Active            []Job `json:"active"`
	RecentlyCompleted []Job `json:"recently_completed"`
}

// Tracker holds active jobs in a concurrent map and completed jobs in a
// fixed-capacity FIFO that evicts oldest-first.
type Tracker struct {
	mu        sync.RWMutex
	active    map[string]*Job
	completed []Job
	logger    *slog.Logger
}

// New creates a Tracker.
func New(logger *slog.Logger) *Tracker {
	return &Tracker{
		active: make(map[string]*Job),
		logger: logger.With("system", "status"),
	}
}

// Register creates a Queued job for the given filename and returns its id,
// an opaque short token.
func (t *Tracker) Register(filename string) string {
	id := strings.Split(uuid.NewString(), "-")[0]

	t.mu.Lock()
	t.active[id] = &Job{
		ID:        id,
		Filename:  filename,
		State:     StateQueued,
		Message:   "queued for processing",
		StartedAt: time.Now(),
	}
	t.mu.Unlock()

	t.logger.Info("job registered", "job", id, "filename", filename)
	return id
}

// Update transitions a job to a new state with a progress value and
// message. Transitions on terminal or unknown jobs are ignored; progress
// never decreases.
func (t *Tracker) Update(id string, state State, progress int, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.active[id]
	if !ok || job.State.Terminal() {
		return
	}

	job.State = state
	job.Message = message
	if progress > job.Progress {
		job.Progress = min(progress, 100)
	}
}

// SetMetrics records summary counters on an active job.
func (t *Tracker) SetMetrics(id string, items, tickets int, language string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.active[id]
	if !ok || job.State.Terminal() {
		return
	}

	job.ItemsExtracted = items
	job.TicketsCreated = tickets
	job.Language = language
}

// Complete marks a job Completed and moves it to the recently-completed
// ring, evicting the oldest entry on overflow.
func (t *Tracker) Complete(id string) {
	t.finish(id, StateCompleted, "")
}

// Fail marks a job Failed with the given error message and moves it to the
// recently-completed ring.
func (t *Tracker) Fail(id string, errMsg string) {
	t.finish(id, StateFailed, errMsg)
}

func (t *Tracker) finish(id string, state State, errMsg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.active[id]
	if !ok || job.State.Terminal() {
		return
	}

	now := time.Now()
	job.State = state
	job.Progress = 100
	job.CompletedAt = &now
	job.Duration = now.Sub(job.StartedAt).Round(time.Millisecond).String()
	job.Error = errMsg
	if state == StateCompleted {
		job.Message = fmt.Sprintf("completed in %s", job.Duration)
	} else {
		job.Message = "processing failed"
	}

	delete(t.active, id)
	t.completed = append(t.completed, *job)
	if len(t.completed) > CompletedCapacity {
		t.completed = t.completed[len(t.completed)-CompletedCapacity:]
	}
}

// Get returns a snapshot of one job, checking active jobs first and then
// the recently-completed ring. The boolean reports whether it was found.
func (t *Tracker) Get(id string) (Job, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if job, ok := t.active[id]; ok {
		return *job, true
	}
	for _, job := range t.completed {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}

// Snapshot returns the current queue contents.
func (t *Tracker) Snapshot() Queue {
	t.mu.RLock()
	defer t.mu.RUnlock()

	q := Queue{
		Active:            make([]Job, 0, len(t.active)),
		RecentlyCompleted: make([]Job, len(t.completed)),
	}
	for _, job := range t.active {
		q.Active = append(q.Active, *job)
	}
	copy(q.RecentlyCompleted, t.completed)
	return q
}

// ActiveCount returns the number of jobs in a non-terminal state.
func (t *Tracker) ActiveCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.active)
}

// ClearCompleted empties the recently-completed ring.
func (t *Tracker) ClearCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed = nil
}
