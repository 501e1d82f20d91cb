package validation

import "sync"

// DefaultHistoryCapacity bounds the rolling validation log.
const DefaultHistoryCapacity = 100

// History is an explicitly constructed, fixed-capacity rolling log of
// validation results. It is owned by the process and injected into the
// validator; appending past capacity evicts the oldest entry.
type History struct {
	mu       sync.Mutex
	capacity int
	results  []Result
}

// NewHistory creates a History with the given capacity.
// Non-positive capacities use DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{capacity: capacity}
}

// Append records a result, evicting the oldest entry at capacity.
func (h *History) Append(r Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, r)
	if len(h.results) > h.capacity {
		h.results = h.results[len(h.results)-h.capacity:]
	}
}

// Len returns the number of retained results.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}

// Snapshot returns a copy of the retained results, oldest first.
func (h *History) Snapshot() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Result, len(h.results))
	copy(out, h.results)
	return out
}

// Metrics aggregates the rolling log for the observability surface.
type Metrics struct {
	Count              int     `json:"count"`
	AvgConfidence      float64 `json:"avg_confidence"`
	AvgCrossValidation float64 `json:"avg_cross_validation"`
	FlaggedJobs        int     `json:"flagged_jobs"`
}

// Aggregate computes summary metrics over the retained results.
func (h *History) Aggregate() Metrics {
	h.mu.Lock()
	defer h.mu.Unlock()

	m := Metrics{Count: len(h.results)}
	if m.Count == 0 {
		return m
	}

	for _, r := range h.results {
		m.AvgConfidence += r.OverallConfidence
		m.AvgCrossValidation += r.CrossValidationScore
		if len(r.PossibleFalsePositives) > 0 || len(r.PossibleFalseNegatives) > 0 {
			m.FlaggedJobs++
		}
	}

	m.AvgConfidence /= float64(m.Count)
	m.AvgCrossValidation /= float64(m.Count)
	return m
}
