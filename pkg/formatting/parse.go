// Package formatting parses structured payloads out of model completions.
// The extraction agent is asked for bare JSON, but models routinely wrap it
// in prose or a markdown fence; Parse recovers from both.
package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when no JSON payload can be recovered from the
// content.
var ErrParseFailed = errors.New("failed to parse response")

var fenceRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// errExcerptLimit bounds the content echoed in parse errors; completions can
// carry a whole transcript.
const errExcerptLimit = 256

// Parse unmarshals content as JSON into T. Recovery candidates are tried in
// order: the content as-is, the body of the first markdown code fence, and
// the outermost brace-delimited slice (prose around bare JSON). Returns
// ErrParseFailed when every candidate fails.
func Parse[T any](content string) (T, error) {
	content = strings.TrimSpace(content)

	candidates := []string{content}
	if m := fenceRegex.FindStringSubmatch(content); len(m) >= 2 {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	if open, close := strings.Index(content, "{"), strings.LastIndex(content, "}"); open >= 0 && close > open {
		candidates = append(candidates, content[open:close+1])
	}

	for _, candidate := range candidates {
		var result T
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
	}

	var zero T
	return zero, fmt.Errorf("%w: %s", ErrParseFailed, excerpt(content))
}

func excerpt(s string) string {
	if len(s) <= errExcerptLimit {
		return s
	}
	return s[:errExcerptLimit] + "..."
}
