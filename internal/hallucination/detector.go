// Package hallucination scores each extracted action item against the
// evidence in the source transcript and filters out items the model most
// likely invented.
package hallucination

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// DefaultThreshold is the confidence floor for keeping an item when the
// context classifier has not derived a tighter one.
const DefaultThreshold = 0.7

// An item accumulating this many distinct indicators is flagged regardless
// of its confidence score.
const indicatorLimit = 3

// Analysis is the per-item scoring record.
type Analysis struct {
	ItemTitle          string   `json:"item_title"`
	Confidence         float64  `json:"confidence"`
	Indicators         []string `json:"indicators,omitempty"`
	LikelyHallucinated bool     `json:"likely_hallucinated"`
}

// Detector scores action items for hallucination risk.
type Detector struct {
	logger *slog.Logger
}

// New creates a Detector.
func New(logger *slog.Logger) *Detector {
	return &Detector{logger: logger.With("system", "hallucination")}
}

// Analyze scores every item against the transcript. Confidence starts at
// 1.0 and accumulates deductions and multipliers for each unverifiable
// claim; an item is likely hallucinated when confidence drops below 0.5 or
// it collects three or more distinct indicators.
func (d *Detector) Analyze(t *transcript.Transcript, items []transcript.ActionItem) []Analysis {
	analyses := make([]Analysis, 0, len(items))
	lowerContent := strings.ToLower(t.Content)

	for _, item := range items {
		a := analyzeItem(t, lowerContent, item)
		if a.LikelyHallucinated {
			d.logger.Warn(
				"likely hallucinated item",
				"source", t.SourceFile,
				"title", item.Title,
				"confidence", a.Confidence,
				"indicators", a.Indicators,
			)
		}
		analyses = append(analyses, a)
	}

	return analyses
}

// Filter returns the items whose analysis meets the confidence threshold
// and is not flagged. Threshold values outside (0, 1] fall back to
// DefaultThreshold.
func Filter(items []transcript.ActionItem, analyses []Analysis, threshold float64) []transcript.ActionItem {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}

	kept := make([]transcript.ActionItem, 0, len(items))
	for i, item := range items {
		if i >= len(analyses) {
			kept = append(kept, item)
			continue
		}
		a := analyses[i]
		if a.Confidence >= threshold && !a.LikelyHallucinated {
			kept = append(kept, item)
		}
	}
	return kept
}

func analyzeItem(t *transcript.Transcript, lowerContent string, item transcript.ActionItem) Analysis {
	a := Analysis{
		ItemTitle:  item.Title,
		Confidence: 1.0,
	}

	deduct := func(amount float64, indicator string) {
		a.Confidence -= amount
		a.Indicators = append(a.Indicators, indicator)
	}

	switch {
	case item.Context == "":
		deduct(0.2, "missing context snippet")
	case !strings.Contains(t.Content, item.Context):
		deduct(0.4, "context snippet not found in transcript")
	}

	if item.Assignee != "" && !assigneeVerifiable(item.Assignee, t, lowerContent) {
		deduct(0.3, "assignee not found in transcript or participants")
	}

	if overlap := titleOverlap(item.Title, lowerContent); overlap < 0.5 {
		a.Confidence *= 0.5 + overlap
		a.Indicators = append(a.Indicators, "low keyword overlap with transcript")
	}

	if isGenericTitle(item.Title) {
		deduct(0.2, "generic title")
	}

	if jargon := ungroundedJargon(item, lowerContent); jargon != "" {
		deduct(0.3, fmt.Sprintf("technical term %q absent from transcript", jargon))
	}

	if len(item.Title) > 120 || len(item.Description) > 1000 {
		deduct(0.1, "excessive length")
	}

	checkDueDate(&a, deduct, t, item)

	a.Confidence *= topicCoherence(item, lowerContent)

	if a.Confidence < 0 {
		a.Confidence = 0
	}
	a.LikelyHallucinated = a.Confidence < 0.5 || len(a.Indicators) >= indicatorLimit

	return a
}

func checkDueDate(a *Analysis, deduct func(float64, string), t *transcript.Transcript, item transcript.ActionItem) {
	if item.DueDate == nil {
		return
	}

	if t.MeetingDate != nil && item.DueDate.Before(*t.MeetingDate) {
		deduct(0.3, "due date precedes meeting date")
		return
	}

	reference := time.Now()
	if t.MeetingDate != nil {
		reference = *t.MeetingDate
	}

	if item.DueDate.After(reference.AddDate(1, 0, 0)) && !dateJustified(item, t.Content) {
		deduct(0.2, "due date implausibly far in the future")
	}
}

// dateJustified reports whether the item's due date appears in the
// transcript or in the item's own snippet, i.e. the date was actually said.
func dateJustified(item transcript.ActionItem, content string) bool {
	iso := item.DueDate.Format("2006-01-02")
	return strings.Contains(content, iso) || strings.Contains(item.Context, iso)
}

// assigneeVerifiable checks the assignee against the participant list and
// the transcript body, accepting common name variants: full name, first or
// last name alone, and initialed forms ("J. Smith").
func assigneeVerifiable(assignee string, t *transcript.Transcript, lowerContent string) bool {
	lower := strings.ToLower(strings.TrimSpace(assignee))

	for _, p := range t.Participants {
		if nameMatches(lower, strings.ToLower(p)) {
			return true
		}
	}

	for _, variant := range nameVariants(lower) {
		if containsWord(lowerContent, variant) {
			return true
		}
	}
	return false
}

func nameMatches(a, b string) bool {
	if a == b {
		return true
	}
	for _, va := range nameVariants(a) {
		for _, vb := range nameVariants(b) {
			if va == vb {
				return true
			}
		}
	}
	return false
}

// nameVariants expands "john smith" into {"john smith", "john", "smith",
// "j. smith"}; single names return themselves.
func nameVariants(name string) []string {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".")
	parts := strings.Fields(name)
	if len(parts) < 2 {
		return []string{name}
	}

	first, last := parts[0], parts[len(parts)-1]
	variants := []string{name, first, last}
	if len(first) > 0 {
		variants = append(variants, fmt.Sprintf("%c. %s", first[0], last))
	}
	return variants
}

func containsWord(haystack, word string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordChar(haystack[start-1])
		afterOK := end == len(haystack) || !isWordChar(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

var genericTitles = []string{
	"follow up", "followup", "follow-up", "discuss", "sync", "check in",
	"touch base", "next steps", "action item", "misc", "various tasks",
}

func isGenericTitle(title string) bool {
	lower := strings.ToLower(strings.TrimSpace(title))
	for _, g := range genericTitles {
		if lower == g {
			return true
		}
	}
	return len(strings.Fields(lower)) <= 2 && len(lower) < 15
}

// Technical terms that signal invention when the transcript never uses them.
var jargonTerms = []string{
	"kubernetes", "terraform", "microservice", "refactor", "migration",
	"pipeline", "endpoint", "schema", "index", "cache", "queue",
	"authentication", "authorization", "encryption", "deployment",
}

func ungroundedJargon(item transcript.ActionItem, lowerContent string) string {
	itemText := strings.ToLower(item.Title + " " + item.Description)
	for _, term := range jargonTerms {
		if strings.Contains(itemText, term) && !strings.Contains(lowerContent, term) {
			return term
		}
	}
	return ""
}

// Curated topic vocabulary for coherence scoring. The multiplier stays in
// [0.7, 1.0] so topic drift dampens confidence without zeroing it.
var topicVocabulary = []string{
	"bug", "fix", "release", "deploy", "test", "review", "design", "doc",
	"client", "customer", "sprint", "feature", "api", "server", "login",
	"report", "meeting", "plan", "budget", "demo", "update", "issue",
	"database", "security", "performance", "ui", "backend", "frontend",
}

func topicCoherence(item transcript.ActionItem, lowerContent string) float64 {
	itemText := strings.ToLower(item.Title + " " + item.Description)

	var itemTopics, shared int
	for _, topic := range topicVocabulary {
		inItem := strings.Contains(itemText, topic)
		if !inItem {
			continue
		}
		itemTopics++
		if strings.Contains(lowerContent, topic) {
			shared++
		}
	}

	if itemTopics == 0 {
		return 1.0 // no topical claims to contradict
	}
	return 0.7 + 0.3*float64(shared)/float64(itemTopics)
}

func titleOverlap(title, lowerContent string) float64 {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,:;!?()[]\"'")
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0
	}

	found := 0
	for _, w := range words {
		if strings.Contains(lowerContent, w) {
			found++
		}
	}
	return float64(found) / float64(len(words))
}
