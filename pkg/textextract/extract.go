// Package textextract recovers plain text from the transcript formats the
// processor accepts. Plain-text formats are read directly; binary formats
// (docx, pdf) go through format-specific extractors.
package textextract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for file extensions the extractor does not handle.
var ErrUnsupported = errors.New("unsupported transcript format")

// Supported reports whether the extractor handles the given filename's extension.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md", ".json", ".vtt", ".srt", ".docx", ".pdf":
		return true
	}
	return false
}

// Extract reads the file at path and returns its textual content.
// Returns ErrUnsupported for unrecognized extensions.
func Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return string(data), nil
	case ".vtt", ".srt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read transcript: %w", err)
		}
		return stripCues(string(data)), nil
	case ".docx":
		return extractDocx(path)
	case ".pdf":
		return extractPDF(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}
