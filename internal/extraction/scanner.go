package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// Heuristic line cues. The scanner serves two roles: the rule-based
// baseline for cross-validation, and the fallback when AI output is
// malformed or the inference call fails.
var (
	cueRegex = regexp.MustCompile(`(?i)^\s*(?:[-*•]\s*)?(?:action item|action|todo|to-do|task|follow[ -]?up)\s*[:\-]\s*(.+)$`)

	bulletVerbRegex = regexp.MustCompile(`(?i)^\s*[-*•]\s*((?:fix|create|update|review|implement|investigate|write|schedule|prepare|deploy|test|document|send|complete|add|remove|check)\b.+)$`)

	willRegex = regexp.MustCompile(`^\s*([A-ZÀ-Ž][\wÀ-ž'.-]*(?:\s+[A-ZÀ-Ž][\wÀ-ž'.-]*)?)\s+(?:will|shall|is going to|needs? to|zal|va|će)\s+(.+)$`)

	assignedToRegex = regexp.MustCompile(`(?i)\bassigned\s+to\s*[:\s]\s*([A-ZÀ-Ž][\wÀ-ž'.-]*(?:\s+[A-ZÀ-Ž][\wÀ-ž'.-]*)?)`)

	dueRegex = regexp.MustCompile(`(?i)\b(?:by|due(?:\s+date)?\s*[:\s]|before|deadline\s*[:\s])\s*(\d{4}-\d{2}-\d{2})\b`)
)

// Scan extracts action items from content using line-oriented heuristics:
// explicit cue prefixes (action item:, todo:), bulleted imperative verbs,
// assignee cues (assigned to:, "Name will ..."), and ISO due dates. Known
// prefixes are stripped to recover the item title. The original line is
// kept as the context snippet.
func Scan(content string) []transcript.ActionItem {
	var items []transcript.ActionItem

	for line := range strings.Lines(content) {
		line = strings.TrimRight(line, "\r\n")

		text, ok := matchCue(line)
		if !ok {
			continue
		}

		item := transcript.ActionItem{
			Priority:   transcript.PriorityMedium,
			Context:    strings.TrimSpace(line),
			Provenance: transcript.ProvenanceRules,
		}

		text, item.DueDate = extractDueDate(text)
		text, item.Assignee = extractAssignee(text)

		item.Title = strings.TrimSpace(strings.Trim(text, ".,;"))
		if item.Title == "" {
			continue
		}

		item.Type = inferType(item.Title)
		item.Priority = inferPriority(line)

		items = append(items, item)
	}

	return items
}

func matchCue(line string) (string, bool) {
	if m := cueRegex.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := bulletVerbRegex.FindStringSubmatch(line); m != nil {
		return m[1], true
	}
	if m := willRegex.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
		return strings.TrimSpace(line), true
	}
	return "", false
}

func extractDueDate(text string) (string, *time.Time) {
	m := dueRegex.FindStringSubmatch(text)
	if m == nil {
		return text, nil
	}

	d, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return text, nil
	}

	cleaned := strings.TrimSpace(strings.Replace(text, m[0], "", 1))
	return cleaned, &d
}

func extractAssignee(text string) (string, string) {
	if m := assignedToRegex.FindStringSubmatch(text); m != nil {
		cleaned := strings.TrimSpace(strings.Replace(text, m[0], "", 1))
		return strings.Trim(cleaned, ".,;- "), strings.TrimSpace(m[1])
	}

	if m := willRegex.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}

	return text, ""
}

func inferType(title string) transcript.ItemType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "bug") || strings.Contains(lower, "fix"):
		return transcript.TypeBug
	case strings.Contains(lower, "document") || strings.Contains(lower, "write up"):
		return transcript.TypeDocumentation
	case strings.Contains(lower, "investigate") || strings.Contains(lower, "research"):
		return transcript.TypeResearch
	case strings.Contains(lower, "follow up") || strings.Contains(lower, "follow-up"):
		return transcript.TypeFollowUp
	default:
		return transcript.TypeTask
	}
}

func inferPriority(line string) transcript.Priority {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "critical") || strings.Contains(lower, "asap") || strings.Contains(lower, "blocker"):
		return transcript.PriorityCritical
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "high priority") || strings.Contains(lower, "important"):
		return transcript.PriorityHigh
	case strings.Contains(lower, "low priority") || strings.Contains(lower, "when you can") || strings.Contains(lower, "nice to have"):
		return transcript.PriorityLow
	default:
		return transcript.PriorityMedium
	}
}
