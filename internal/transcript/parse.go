package transcript

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Leader lines recognized in the first block of a transcript. Meeting
// exports from Teams/Zoom and manual notes all put these near the top.
var (
	titleRegex        = regexp.MustCompile(`(?i)^(?:title|meeting|subject)\s*:\s*(.+)$`)
	dateRegex         = regexp.MustCompile(`(?i)^(?:date|meeting date|held on)\s*:\s*(.+)$`)
	participantsRegex = regexp.MustCompile(`(?i)^(?:participants|attendees|present)\s*:\s*(.+)$`)
	projectRegex      = regexp.MustCompile(`(?i)^project\s*:\s*([A-Za-z][A-Za-z0-9]+)`)
)

// headerScanLimit bounds how far into the content leader lines are sought.
const headerScanLimit = 30

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// Parse builds a Transcript from raw content, deriving title, meeting date,
// participants, and project key from leader lines. Missing fields fall back
// to the filename (title) or stay zero.
func Parse(sourceFile, content string) *Transcript {
	t := &Transcript{
		SourceFile: sourceFile,
		Content:    content,
	}

	lines := strings.Split(content, "\n")
	limit := min(len(lines), headerScanLimit)

	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)

		if t.Title == "" {
			if m := titleRegex.FindStringSubmatch(line); m != nil {
				t.Title = strings.TrimSpace(m[1])
				continue
			}
		}
		if t.MeetingDate == nil {
			if m := dateRegex.FindStringSubmatch(line); m != nil {
				if d, ok := parseDate(strings.TrimSpace(m[1])); ok {
					t.MeetingDate = &d
				}
				continue
			}
		}
		if len(t.Participants) == 0 {
			if m := participantsRegex.FindStringSubmatch(line); m != nil {
				t.Participants = splitParticipants(m[1])
				continue
			}
		}
		if t.ProjectKey == "" {
			if m := projectRegex.FindStringSubmatch(line); m != nil {
				t.ProjectKey = strings.ToUpper(m[1])
			}
		}
	}

	if t.Title == "" {
		base := filepath.Base(sourceFile)
		t.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return t
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func splitParticipants(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		// strip parenthesized roles: "Alice (PM)" -> "Alice"
		if i := strings.Index(f, "("); i > 0 {
			f = strings.TrimSpace(f[:i])
		}
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
