package textextract

import (
	"strings"
)

// stripCues removes WebVTT/SRT structural lines (headers, sequence numbers,
// timestamp ranges, NOTE blocks) and collapses the remaining caption text.
// Speaker tags like <v Alice> are reduced to "Alice:" so participant names
// survive extraction.
func stripCues(content string) string {
	var sb strings.Builder
	inNote := false

	for line := range strings.Lines(content) {
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			inNote = false
			continue
		case inNote:
			continue
		case strings.HasPrefix(trimmed, "WEBVTT"),
			strings.HasPrefix(trimmed, "STYLE"),
			strings.HasPrefix(trimmed, "REGION"):
			continue
		case strings.HasPrefix(trimmed, "NOTE"):
			inNote = true
			continue
		case strings.Contains(trimmed, "-->"):
			continue
		case isSequenceNumber(trimmed):
			continue
		}

		sb.WriteString(rewriteSpeakerTags(trimmed))
		sb.WriteString("\n")
	}

	return sb.String()
}

func isSequenceNumber(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(line) > 0
}

func rewriteSpeakerTags(line string) string {
	for {
		start := strings.Index(line, "<v ")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ">")
		if end < 0 {
			break
		}
		speaker := line[start+3 : start+end]
		line = line[:start] + speaker + ": " + line[start+end+1:]
	}
	line = strings.ReplaceAll(line, "</v>", "")
	return line
}
