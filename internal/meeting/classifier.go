package meeting

import (
	"regexp"
	"strings"
)

// shortContentThreshold marks transcripts terse enough to bias toward
// standup when action-item language is present.
const shortContentThreshold = 1500

// DetectType scores title+content against the per-category keyword tables,
// applies heuristic bonuses, and returns the arg-max category. Zero or tied
// top scores fall back to the general category.
func DetectType(title, content string, participantCount int) Type {
	haystack := strings.ToLower(title + "\n" + content)

	scores := make(map[Type]int, len(typeKeywords))
	for mt, keywords := range typeKeywords {
		for _, kw := range keywords {
			scores[mt] += kw.weight * strings.Count(haystack, kw.phrase)
		}
	}

	// Small meetings are usually one-on-ones even without explicit phrasing.
	if participantCount > 0 && participantCount <= 2 {
		scores[TypeOneOnOne] += 3
	}

	// Terse transcripts full of action-item language read like standups.
	if len(content) < shortContentThreshold && hasActionCue(haystack) {
		scores[TypeStandup] += 2
	}

	best, bestScore, tied := TypeGeneral, 0, false
	for mt, score := range scores {
		switch {
		case score > bestScore:
			best, bestScore, tied = mt, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return TypeGeneral
	}
	return best
}

func hasActionCue(haystack string) bool {
	for _, cue := range actionCues {
		if strings.Contains(haystack, cue) {
			return true
		}
	}
	return false
}

// DetectLanguage scores content against the per-language function-word
// lists using whole-word matches. English wins ties and zero scores.
func DetectLanguage(content string) Language {
	lower := strings.ToLower(content)

	best, bestScore, tied := LangEnglish, 0, false
	for lang, words := range languageWords {
		score := 0
		for _, w := range words {
			score += countWholeWord(lower, w)
		}
		switch {
		case score > bestScore:
			best, bestScore, tied = lang, score, false
		case score == bestScore && score > 0:
			tied = true
		}
	}

	if bestScore == 0 || tied {
		return LangEnglish
	}
	return best
}

// wordRegexes is populated once at init; detection runs concurrently across
// jobs, so the map is read-only afterwards.
var wordRegexes = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp)
	for _, words := range languageWords {
		for _, w := range words {
			m[w] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(w) + `\b`)
		}
	}
	return m
}()

func countWholeWord(haystack, word string) int {
	re, ok := wordRegexes[word]
	if !ok {
		return 0
	}
	return len(re.FindAllStringIndex(haystack, -1))
}
