// Package workflow assembles the per-job processing pipeline as a state
// graph: read → context → extract → validate → filter → tickets → archive →
// metadata, with conditional edges around the optional stages. Stages run
// strictly sequentially within one job; concurrency exists only across jobs.
package workflow

import (
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/validation"
)

// State bag keys.
const (
	KeyJobID      = "job_id"
	KeySourcePath = "source_path"
	KeyTranscript = "transcript"
	KeyContext    = "meeting_context"
	KeyExtraction = "extraction_result"
	KeyValidation = "validation_result"
	KeyTicketRefs = "ticket_refs"
	KeyArchived   = "archived_path"
)

// Result is the final output of one pipeline execution.
type Result struct {
	JobID        string                 `json:"job_id"`
	Transcript   *transcript.Transcript `json:"transcript"`
	ArchivedPath string                 `json:"archived_path"`
	Validation   *validation.Result     `json:"validation,omitempty"`
	CompletedAt  time.Time              `json:"completed_at"`
}

// Stage progress values reported to the status tracker. Non-decreasing by
// construction: the tracker additionally clamps regressions.
const (
	progressReading  = 15
	progressContext  = 25
	progressExtract  = 55
	progressValidate = 65
	progressFilter   = 70
	progressTickets  = 80
	progressArchive  = 90
	progressMetadata = 95
)
