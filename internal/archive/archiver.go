// Package archive persists processed transcripts: it relocates source
// files into the archive under a status-tagged name and writes the
// metadata sidecar that is the system's durable contract.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

// ErrMetadataNotFound is returned when no sidecar exists for a file in any
// directory role.
var ErrMetadataNotFound = errors.New("metadata sidecar not found")

// timestampLayout is the archive name prefix: 8-digit date, 6-digit time.
const timestampLayout = "20060102_150405"

// metaSuffix is the sidecar extension appended to the derived base name.
const metaSuffix = ".meta.json"

// knownLanguages is the set of language segments recognized by the inverse
// naming rule. Must track the classifier's language names.
var knownLanguages = map[string]bool{
	"english": true,
	"french":  true,
	"dutch":   true,
	"serbian": true,
}

// Archiver moves processed files into the archive and manages sidecars
// across the three directory roles.
type Archiver struct {
	inbox      string
	processing string
	archive    string
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an Archiver over the directory roles. The archive directory
// is created if absent.
func New(inbox, processing, archiveDir string, logger *slog.Logger) (*Archiver, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}

	return &Archiver{
		inbox:      inbox,
		processing: processing,
		archive:    archiveDir,
		logger:     logger.With("system", "archive"),
		now:        time.Now,
	}, nil
}

// ArchiveName builds the archival filename:
// {yyyyMMdd_HHmmss}_{status}[_{language}]_{originalName}.
// DeriveBaseName must invert this rule exactly; change them together.
func (a *Archiver) ArchiveName(name string, status transcript.Status, language string) string {
	ts := a.now().Format(timestampLayout)
	if language != "" {
		return fmt.Sprintf("%s_%s_%s_%s", ts, status, strings.ToLower(language), name)
	}
	return fmt.Sprintf("%s_%s_%s", ts, status, name)
}

// DeriveBaseName recovers the original base name (without extension) from
// an archival filename. When the first two underscore segments are 8 and 6
// digits, the timestamp and status segments are skipped, plus one more
// segment if it names a known language. Names whose original form itself
// starts with an 8-digit/6-digit run are inherently ambiguous and derive
// incorrectly; this is documented behavior, not a defect to patch here.
func DeriveBaseName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	segments := strings.Split(base, "_")

	if len(segments) < 4 || !allDigits(segments[0], 8) || !allDigits(segments[1], 6) {
		return base
	}

	rest := segments[3:]
	if len(rest) > 1 && knownLanguages[strings.ToLower(rest[0])] {
		rest = rest[1:]
	}
	return strings.Join(rest, "_")
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Archive moves the file at path into the archive under its status-tagged
// name and returns the archived path. Name collisions get a numeric suffix.
func (a *Archiver) Archive(path string, status transcript.Status, language string) (string, error) {
	name := a.ArchiveName(filepath.Base(path), status, language)
	dest := filepath.Join(a.archive, name)

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; fileExists(dest); i++ {
		dest = filepath.Join(a.archive, fmt.Sprintf("%s_%d%s", base, i, ext))
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("archive %s: %w", path, err)
	}

	a.logger.Info("file archived", "source", path, "dest", dest, "status", status)
	return dest, nil
}

// SaveMetadata writes the transcript sidecar next to an already-archived
// file. Callers must archive first; the sidecar references the archived
// name's derived base, keeping lookup symmetric with DeriveBaseName.
func (a *Archiver) SaveMetadata(archivedPath string, t *transcript.Transcript) error {
	base := DeriveBaseName(filepath.Base(archivedPath))
	sidecar := filepath.Join(filepath.Dir(archivedPath), base+metaSuffix)

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	if err := os.WriteFile(sidecar, data, 0o644); err != nil {
		return fmt.Errorf("write metadata sidecar: %w", err)
	}

	a.logger.Info("metadata saved", "sidecar", sidecar)
	return nil
}

// LoadMetadata locates the sidecar for the given filename by re-deriving
// its base name and searching all directory roles.
func (a *Archiver) LoadMetadata(name string) (*transcript.Transcript, error) {
	base := DeriveBaseName(name)

	for _, dir := range []string{a.archive, a.processing, a.inbox} {
		sidecar := filepath.Join(dir, base+metaSuffix)
		data, err := os.ReadFile(sidecar)
		if err != nil {
			continue
		}

		var t transcript.Transcript
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse sidecar %s: %w", sidecar, err)
		}
		return &t, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMetadataNotFound, base)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
