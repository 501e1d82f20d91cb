package textextract_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Darko-Martinovic/meeting-transcript-processor/pkg/textextract"
)

func writeDocx(t *testing.T, documentXML string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "minutes.docx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractDocx(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Title: Weekly Sync</w:t></w:r></w:p>
    <w:p><w:r><w:t>Action item: </w:t></w:r><w:r><w:t>review the contract</w:t></w:r></w:p>
  </w:body>
</w:document>`

	got, err := textextract.Extract(writeDocx(t, doc))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(got, "Title: Weekly Sync") {
		t.Errorf("first paragraph missing from:\n%s", got)
	}
	// Split runs in one paragraph join without separators.
	if !strings.Contains(got, "Action item: review the contract") {
		t.Errorf("run text not joined in:\n%s", got)
	}

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Errorf("expected 2 paragraphs, got %d: %q", len(lines), got)
	}
}

func TestExtractDocxMissingDocumentPart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := textextract.Extract(path); err == nil {
		t.Error("expected error for docx without document part")
	}
}
