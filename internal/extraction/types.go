// Package extraction turns transcript content into action items. The AI
// path calls the inference collaborator and parses a typed response; the
// rule-based path scans for heuristic cues. AI failures degrade to
// rule-based output rather than failing the job.
package extraction

import (
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// aiActionItem mirrors one element of the model's action_items array.
// Pointer fields make absence distinguishable from empty; every field has a
// documented fallback when missing or mistyped (mistyped fields fail JSON
// decoding for the whole response, which routes to the scanner fallback).
type aiActionItem struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Assignee    *string `json:"assignee"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Type        *string `json:"type"`
	Context     *string `json:"context"`
}

type aiResponse struct {
	ActionItems []aiActionItem `json:"action_items"`
}

// toActionItems converts parsed model output, dropping elements with no
// usable title and normalizing enum-ish fields. Unparseable due dates are
// treated as absent.
func (r aiResponse) toActionItems() []transcript.ActionItem {
	items := make([]transcript.ActionItem, 0, len(r.ActionItems))

	for _, ai := range r.ActionItems {
		if ai.Title == nil || strings.TrimSpace(*ai.Title) == "" {
			continue
		}

		item := transcript.ActionItem{
			Title:      strings.TrimSpace(*ai.Title),
			Priority:   transcript.PriorityMedium,
			Type:       transcript.TypeTask,
			Provenance: transcript.ProvenanceAI,
		}
		if ai.Description != nil {
			item.Description = strings.TrimSpace(*ai.Description)
		}
		if ai.Assignee != nil {
			item.Assignee = strings.TrimSpace(*ai.Assignee)
		}
		if ai.Context != nil {
			item.Context = strings.TrimSpace(*ai.Context)
		}
		if ai.Priority != nil {
			if p, ok := parsePriority(*ai.Priority); ok {
				item.Priority = p
			}
		}
		if ai.Type != nil {
			if t, ok := parseItemType(*ai.Type); ok {
				item.Type = t
			}
		}
		if ai.DueDate != nil {
			if d, err := time.Parse("2006-01-02", strings.TrimSpace(*ai.DueDate)); err == nil {
				item.DueDate = &d
			}
		}

		items = append(items, item)
	}

	return items
}

func parsePriority(s string) (transcript.Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "blocker":
		return transcript.PriorityCritical, true
	case "high", "urgent":
		return transcript.PriorityHigh, true
	case "medium", "normal":
		return transcript.PriorityMedium, true
	case "low", "minor":
		return transcript.PriorityLow, true
	}
	return "", false
}

func parseItemType(s string) (transcript.ItemType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "task":
		return transcript.TypeTask, true
	case "bug", "defect":
		return transcript.TypeBug, true
	case "feature", "enhancement":
		return transcript.TypeFeature, true
	case "documentation", "docs":
		return transcript.TypeDocumentation, true
	case "research", "investigation", "spike":
		return transcript.TypeResearch, true
	case "followup", "follow-up", "follow up":
		return transcript.TypeFollowUp, true
	}
	return "", false
}
