// Package transcript implements the transcript domain: the parsed meeting
// record, its extracted action items, and the business rules applied to the
// final item list.
package transcript

import (
	"time"
)

// Status indicates the processing outcome recorded on a transcript.
type Status string

// Processing outcomes. The archive tag is derived from this value.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Priority orders action items for triage.
type Priority string

// Priorities in descending order of urgency.
const (
	PriorityCritical Priority = "Critical"
	PriorityHigh     Priority = "High"
	PriorityMedium   Priority = "Medium"
	PriorityLow      Priority = "Low"
)

// rank returns the sort weight of a priority; lower sorts first.
func (p Priority) rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// ItemType categorizes an action item for ticket creation.
type ItemType string

// Action item categories.
const (
	TypeTask          ItemType = "Task"
	TypeBug           ItemType = "Bug"
	TypeFeature       ItemType = "Feature"
	TypeDocumentation ItemType = "Documentation"
	TypeResearch      ItemType = "Research"
	TypeFollowUp      ItemType = "FollowUp"
)

// Provenance records which extraction path produced an item.
type Provenance string

// Extraction paths.
const (
	ProvenanceAI    Provenance = "ai"
	ProvenanceRules Provenance = "rules"
)

// ActionItem is a single unit of follow-up work extracted from a transcript.
// Items are immutable once the business-rule filter has finalized the list.
type ActionItem struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignee    string     `json:"assignee,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	Type        ItemType   `json:"type,omitempty"`
	Context     string     `json:"context,omitempty"`
	Provenance  Provenance `json:"provenance,omitempty"`
}

// TicketRef links an action item to the ticket created for it.
type TicketRef struct {
	Key       string `json:"key"`
	ItemTitle string `json:"item_title"`
	Simulated bool   `json:"simulated,omitempty"`
}

// Transcript is the structured record produced from one source file. It is
// created once per file and persisted as a metadata sidecar only after the
// source file has been archived.
type Transcript struct {
	SourceFile       string       `json:"source_file"`
	Title            string       `json:"title,omitempty"`
	MeetingDate      *time.Time   `json:"meeting_date,omitempty"`
	Participants     []string     `json:"participants,omitempty"`
	DetectedLanguage string       `json:"detected_language,omitempty"`
	ProjectKey       string       `json:"project_key,omitempty"`
	Content          string       `json:"-"`
	ActionItems      []ActionItem `json:"action_items,omitempty"`
	TicketRefs       []TicketRef  `json:"ticket_refs,omitempty"`
	Status           Status       `json:"status"`
	Error            string       `json:"error,omitempty"`
	ProcessedAt      time.Time    `json:"processed_at"`
}
