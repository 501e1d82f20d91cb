package textextract

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Text-show operands in extracted content streams: (literal) Tj and
// [(lit) n (lit) ...] TJ. Escaped parens inside literals are honored.
var (
	tjRegex      = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*Tj`)
	tjArrayRegex = regexp.MustCompile(`\[((?:[^\[\]])*)\]\s*TJ`)
	literalRegex = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// extractPDF recovers text from a PDF by extracting raw page content streams
// via pdfcpu and pulling the string operands of text-show operators. This is
// best effort: transcripts exported as text-based PDFs recover cleanly,
// scanned documents yield nothing.
func extractPDF(path string) (string, error) {
	outDir, err := os.MkdirTemp("", "transcript-pdf-*")
	if err != nil {
		return "", fmt.Errorf("create extraction dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	if err := api.ExtractContentFile(path, outDir, nil, nil); err != nil {
		return "", fmt.Errorf("extract pdf content: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return "", fmt.Errorf("read extraction dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(outDir, name))
		if err != nil {
			return "", fmt.Errorf("read page content %s: %w", name, err)
		}
		sb.WriteString(textFromContentStream(string(data)))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func textFromContentStream(content string) string {
	var sb strings.Builder

	for _, m := range tjRegex.FindAllStringSubmatch(content, -1) {
		sb.WriteString(unescapeLiteral(m[1]))
		sb.WriteString("\n")
	}

	for _, m := range tjArrayRegex.FindAllStringSubmatch(content, -1) {
		for _, lit := range literalRegex.FindAllStringSubmatch(m[1], -1) {
			sb.WriteString(unescapeLiteral(lit[1]))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func unescapeLiteral(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
	)
	return replacer.Replace(s)
}
