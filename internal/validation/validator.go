package validation

import (
	"log/slog"
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/meeting"
	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// Title similarity above this value makes two items count as the same work.
const matchThreshold = 0.7

// Rule-based items without an AI counterpart above this similarity are
// flagged as possible false negatives.
const falseNegativeThreshold = 0.6

// Validator scores an extraction run. Results append to the injected
// rolling history for aggregate monitoring.
type Validator struct {
	history *History
	logger  *slog.Logger
}

// New creates a Validator writing to the given history.
func New(history *History, logger *slog.Logger) *Validator {
	return &Validator{
		history: history,
		logger:  logger.With("system", "validation"),
	}
}

// Validate scores the AI item set against the rule-based baseline and the
// transcript itself, records the result in the rolling history, and
// returns it. Flags are advisory and never raise an error.
func (v *Validator) Validate(
	t *transcript.Transcript,
	aiItems, ruleItems []transcript.ActionItem,
	rules meeting.ValidationRules,
) Result {
	r := Result{
		Source:                t.SourceFile,
		CrossValidationScore:  CrossValidationScore(aiItems, ruleItems),
		ContextCoherenceScore: contextCoherence(t, aiItems),
		KeywordScore:          keywordScore(t, aiItems),
		StructuralScore:       structuralScore(aiItems, rules),
		Timestamp:             time.Now(),
	}

	r.OverallConfidence = weightCrossValidation*r.CrossValidationScore +
		weightContextCoherence*r.ContextCoherenceScore +
		weightKeyword*r.KeywordScore +
		weightStructural*r.StructuralScore

	r.PossibleFalsePositives = flagFalsePositives(aiItems)
	r.PossibleFalseNegatives = flagFalseNegatives(aiItems, ruleItems)

	v.history.Append(r)

	v.logger.Info(
		"extraction validated",
		"source", t.SourceFile,
		"confidence", r.OverallConfidence,
		"cross_validation", r.CrossValidationScore,
		"false_positives", len(r.PossibleFalsePositives),
		"false_negatives", len(r.PossibleFalseNegatives),
	)

	return r
}

// CrossValidationScore measures agreement between the AI and rule-based
// item sets as Jaccard-style overlap, where items match when their title
// token similarity exceeds the match threshold. Both sets empty scores
// 1.0; exactly one empty scores 0.3.
func CrossValidationScore(aiItems, ruleItems []transcript.ActionItem) float64 {
	switch {
	case len(aiItems) == 0 && len(ruleItems) == 0:
		return 1.0
	case len(aiItems) == 0 || len(ruleItems) == 0:
		return 0.3
	}

	matched := 0
	used := make([]bool, len(ruleItems))
	for _, ai := range aiItems {
		for j, rb := range ruleItems {
			if used[j] {
				continue
			}
			if TokenSimilarity(ai.Title, rb.Title) > matchThreshold {
				matched++
				used[j] = true
				break
			}
		}
	}

	union := len(aiItems) + len(ruleItems) - matched
	return float64(matched) / float64(union)
}

// TokenSimilarity computes intersection/union over lowercased title words.
func TokenSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for w := range setA {
		if setB[w] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,:;!?()[]\"'")
		if w != "" {
			set[w] = true
		}
	}
	return set
}

// contextCoherence averages per-item sub-checks: keyword overlap with the
// transcript (40%), assignee verifiable in participants or transcript
// (30%, neutral half credit when unassigned), and the context snippet
// found verbatim (30%). No items scores 1.0.
func contextCoherence(t *transcript.Transcript, items []transcript.ActionItem) float64 {
	if len(items) == 0 {
		return 1.0
	}

	lowerContent := strings.ToLower(t.Content)
	total := 0.0

	for _, item := range items {
		score := 0.4 * titleOverlap(item.Title, lowerContent)
		score += assigneeCredit(item.Assignee, t, lowerContent)
		if item.Context != "" && strings.Contains(t.Content, item.Context) {
			score += 0.3
		}
		total += score
	}

	return total / float64(len(items))
}

// AssigneeCredit is the full context-coherence weight awarded when an
// item's assignee is verifiable against the transcript or participants.
const AssigneeCredit = 0.3

func assigneeCredit(assignee string, t *transcript.Transcript, lowerContent string) float64 {
	if assignee == "" {
		return AssigneeCredit / 2 // neutral: nothing claimed, nothing to verify
	}

	lower := strings.ToLower(assignee)
	for _, p := range t.Participants {
		if strings.EqualFold(p, assignee) || strings.Contains(strings.ToLower(p), lower) {
			return AssigneeCredit
		}
	}
	if strings.Contains(lowerContent, lower) {
		return AssigneeCredit
	}
	return 0
}

func titleOverlap(title, lowerContent string) float64 {
	words := significantWords(title)
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

// keywordScore is the fraction of items whose title keywords appear in the
// transcript. When items were produced from a transcript containing no
// action-oriented vocabulary at all, the score is forced low regardless.
func keywordScore(t *transcript.Transcript, items []transcript.ActionItem) float64 {
	if len(items) == 0 {
		return 1.0
	}

	lowerContent := strings.ToLower(t.Content)

	if !hasActionVocabulary(lowerContent) {
		return 0.2
	}

	grounded := 0
	for _, item := range items {
		if titleOverlap(item.Title, lowerContent) >= 0.5 {
			grounded++
		}
	}
	return float64(grounded) / float64(len(items))
}

func hasActionVocabulary(lowerContent string) bool {
	for _, cue := range meeting.ActionCues() {
		if strings.Contains(lowerContent, cue) {
			return true
		}
	}
	return false
}

// structuralScore checks each item's shape: title length in bounds (40%),
// description not degenerate (20%), recognized action verb present (40%).
func structuralScore(items []transcript.ActionItem, rules meeting.ValidationRules) float64 {
	if len(items) == 0 {
		return 1.0
	}

	total := 0.0
	for _, item := range items {
		score := 0.0
		if l := len(item.Title); l >= 10 && l <= 120 {
			score += 0.4
		}
		if len(item.Description) <= 1000 {
			score += 0.2
		}
		if hasActionVerb(item.Title, rules.ActionVerbs) {
			score += 0.4
		}
		total += score
	}
	return total / float64(len(items))
}

func hasActionVerb(title string, verbs []string) bool {
	lower := strings.ToLower(title)
	for _, v := range verbs {
		if strings.Contains(lower, v) {
			return true
		}
	}
	return false
}

// Generic titles that indicate the model emitted filler rather than work.
var genericTitles = []string{
	"follow up", "followup", "discuss", "sync", "meeting", "check in",
	"touch base", "review items", "next steps", "action items",
}

func flagFalsePositives(items []transcript.ActionItem) []string {
	var flagged []string
	for _, item := range items {
		lower := strings.ToLower(strings.TrimSpace(item.Title))
		switch {
		case len(lower) < 15:
			flagged = append(flagged, item.Title)
		case strings.HasSuffix(lower, "?"):
			flagged = append(flagged, item.Title)
		case isGenericTitle(lower):
			flagged = append(flagged, item.Title)
		}
	}
	return flagged
}

func isGenericTitle(lower string) bool {
	for _, g := range genericTitles {
		if lower == g || strings.HasPrefix(lower, g+" with") || strings.HasPrefix(lower, g+" on") {
			return true
		}
	}
	return false
}

func flagFalseNegatives(aiItems, ruleItems []transcript.ActionItem) []string {
	var flagged []string
	for _, rb := range ruleItems {
		matched := false
		for _, ai := range aiItems {
			if TokenSimilarity(rb.Title, ai.Title) > falseNegativeThreshold {
				matched = true
				break
			}
		}
		if !matched {
			flagged = append(flagged, rb.Title)
		}
	}
	return flagged
}

func significantWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,:;!?()[]\"'")
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}
