package transcript_test

import (
	"testing"
	"time"

	"github.com/Darko-Martinovic/meeting-transcript-processor/internal/transcript"
)

func TestParseHeaderFields(t *testing.T) {
	content := `Title: Sprint 14 Planning
Date: 2025-01-15
Participants: Alice (PM), Bob; Carol Jones
Project: PHOENIX

Alice: let's start with the backlog.
`
	tr := transcript.Parse("sprint14.txt", content)

	if tr.Title != "Sprint 14 Planning" {
		t.Errorf("title: got %q", tr.Title)
	}
	if tr.MeetingDate == nil {
		t.Fatal("meeting date not parsed")
	}
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !tr.MeetingDate.Equal(want) {
		t.Errorf("meeting date: got %v, want %v", tr.MeetingDate, want)
	}
	if len(tr.Participants) != 3 {
		t.Fatalf("participants: got %v", tr.Participants)
	}
	if tr.Participants[0] != "Alice" || tr.Participants[2] != "Carol Jones" {
		t.Errorf("participants: got %v", tr.Participants)
	}
	if tr.ProjectKey != "PHOENIX" {
		t.Errorf("project key: got %q", tr.ProjectKey)
	}
	if tr.Content != content {
		t.Error("content not preserved verbatim")
	}
}

func TestParseDateLayouts(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"January 15, 2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"15 January 2025", time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			tr := transcript.Parse("m.txt", "Date: "+tt.raw+"\nbody\n")
			if tr.MeetingDate == nil {
				t.Fatal("date not parsed")
			}
			if !tr.MeetingDate.Equal(tt.want) {
				t.Errorf("got %v, want %v", tr.MeetingDate, tt.want)
			}
		})
	}
}

func TestParseFallsBackToFilename(t *testing.T) {
	tr := transcript.Parse("/data/processing/weekly_sync.txt", "no headers here\n")
	if tr.Title != "weekly_sync" {
		t.Errorf("title: got %q, want weekly_sync", tr.Title)
	}
	if tr.MeetingDate != nil || len(tr.Participants) != 0 {
		t.Error("absent headers should stay zero")
	}
}

func TestParseUnparseableDateStaysNil(t *testing.T) {
	tr := transcript.Parse("m.txt", "Date: next Tuesday sometime\n")
	if tr.MeetingDate != nil {
		t.Errorf("got %v, want nil", tr.MeetingDate)
	}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestFilterItems(t *testing.T) {
	items := []transcript.ActionItem{
		{Title: "update the deployment runbook", Priority: transcript.PriorityMedium, DueDate: date(2025, 2, 1)},
		{Title: "short", Priority: transcript.PriorityCritical},
		{Title: "Fix the login bug", Priority: transcript.PriorityCritical},
		{Title: "fix the login bug", Priority: transcript.PriorityLow},
		{Title: "review security audit findings", Priority: transcript.PriorityMedium},
		{Title: "prepare quarterly report", Priority: transcript.PriorityMedium, DueDate: date(2025, 1, 20)},
	}

	got := transcript.FilterItems(items)

	wantTitles := []string{
		"Fix the login bug",
		"prepare quarterly report",
		"update the deployment runbook",
		"review security audit findings",
	}

	if len(got) != len(wantTitles) {
		t.Fatalf("got %d items, want %d", len(got), len(wantTitles))
	}
	for i, want := range wantTitles {
		if got[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, got[i].Title, want)
		}
	}

	// Duplicate resolution kept the first occurrence's priority.
	if got[0].Priority != transcript.PriorityCritical {
		t.Errorf("dedupe kept wrong occurrence: %s", got[0].Priority)
	}
}

func TestFilterItemsEmpty(t *testing.T) {
	if got := transcript.FilterItems(nil); len(got) != 0 {
		t.Errorf("got %d items from nil input", len(got))
	}
}
