package calendar

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pfrederiksen/landmark-ics/internal/event"
)

var testMeta = Meta{
	ProductID:     "-//landmark-ics//EN",
	Name:          "Landmark Theatre",
	Timezone:      "America/New_York",
	SummaryPrefix: "Landmark: ",
}

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	return loc
}

func TestGenerateICS(t *testing.T) {
	loc := newYork(t)
	start := time.Date(2025, time.October, 20, 20, 0, 0, 0, loc)
	evt := &event.Event{
		UID:         "abc-123@landmarktheatre.org",
		Title:       "Swan Lake",
		Start:       start,
		End:         start.Add(2 * time.Hour),
		URL:         "https://landmarktheatre.org/events/swan-lake/",
		Description: "Ballet in four acts",
	}
	now := time.Date(2025, time.October, 1, 12, 0, 0, 0, time.UTC)

	ics := GenerateICS([]*event.Event{evt}, testMeta, now)

	requiredFields := []string{
		"BEGIN:VCALENDAR\r\n",
		"VERSION:2.0\r\n",
		"PRODID:-//landmark-ics//EN\r\n",
		"CALSCALE:GREGORIAN\r\n",
		"METHOD:PUBLISH\r\n",
		"X-WR-CALNAME:Landmark Theatre\r\n",
		"X-WR-TIMEZONE:America/New_York\r\n",
		"BEGIN:VEVENT\r\n",
		"UID:abc-123@landmarktheatre.org\r\n",
		"DTSTAMP:20251001T120000Z\r\n",
		"DTSTART:20251021T000000Z\r\n", // 8pm EDT
		"DTEND:20251021T020000Z\r\n",
		"SUMMARY:Landmark: Swan Lake\r\n",
		"URL:https://landmarktheatre.org/events/swan-lake/\r\n",
		"DESCRIPTION:Ballet in four acts\r\n",
		"END:VEVENT\r\n",
		"END:VCALENDAR\r\n",
	}

	for _, field := range requiredFields {
		if !strings.Contains(ics, field) {
			t.Errorf("ICS missing required field: %q", field)
		}
	}

	if !strings.HasPrefix(ics, "BEGIN:VCALENDAR") || !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("ICS should be wrapped in VCALENDAR")
	}
}

func TestGenerateICS_OptionalFields(t *testing.T) {
	start := time.Date(2026, time.January, 5, 19, 0, 0, 0, time.UTC)
	evt := &event.Event{UID: "u1", Title: "No Extras", Start: start, End: start.Add(2 * time.Hour)}

	ics := GenerateICS([]*event.Event{evt}, Meta{ProductID: "-//test//EN"}, start)

	for _, absent := range []string{"URL:", "DESCRIPTION:", "X-WR-CALNAME:", "X-WR-TIMEZONE:"} {
		if strings.Contains(ics, absent) {
			t.Errorf("ICS should not contain %s", absent)
		}
	}
	if !strings.Contains(ics, "SUMMARY:No Extras\r\n") {
		t.Error("SUMMARY should have no prefix when none is configured")
	}
}

func TestGenerateICS_SortsByStart(t *testing.T) {
	base := time.Date(2025, time.November, 1, 19, 0, 0, 0, time.UTC)
	events := []*event.Event{
		{UID: "late", Title: "Late", Start: base.Add(48 * time.Hour), End: base.Add(50 * time.Hour)},
		{UID: "early", Title: "Early", Start: base, End: base.Add(2 * time.Hour)},
		{UID: "middle", Title: "Middle", Start: base.Add(24 * time.Hour), End: base.Add(26 * time.Hour)},
	}

	ics := GenerateICS(events, testMeta, base)

	early := strings.Index(ics, "UID:early")
	middle := strings.Index(ics, "UID:middle")
	late := strings.Index(ics, "UID:late")
	if !(early < middle && middle < late) {
		t.Errorf("events not sorted by start: early=%d middle=%d late=%d", early, middle, late)
	}
	if events[0].UID != "late" {
		t.Error("GenerateICS should not reorder the caller's slice")
	}
}

func TestGenerateICS_Empty(t *testing.T) {
	ics := GenerateICS(nil, testMeta, time.Now())

	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("empty calendar should contain no events")
	}
	if !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("empty calendar should still be a complete VCALENDAR")
	}
}

func TestGenerateICS_SpecialCharacters(t *testing.T) {
	start := time.Date(2026, time.April, 20, 19, 0, 0, 0, time.UTC)
	evt := &event.Event{
		UID:         "special",
		Title:       "Rock; Roll, and\\More",
		Start:       start,
		End:         start.Add(2 * time.Hour),
		Description: "Line one\nLine two",
	}

	ics := GenerateICS([]*event.Event{evt}, testMeta, start)

	if !strings.Contains(ics, "SUMMARY:Landmark: Rock\\; Roll\\, and\\\\More\r\n") {
		t.Error("special characters should be escaped in SUMMARY")
	}
	if !strings.Contains(ics, "DESCRIPTION:Line one\\nLine two\r\n") {
		t.Error("newlines should be escaped in DESCRIPTION")
	}
}

func TestFormatICSTime(t *testing.T) {
	loc := newYork(t)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc", time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC), "20260315T143000Z"},
		{"daylight time", time.Date(2025, 10, 20, 20, 0, 0, 0, loc), "20251021T000000Z"},
		{"standard time", time.Date(2025, 12, 5, 19, 30, 0, 0, loc), "20251206T003000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatICSTime(tt.in); got != tt.want {
				t.Errorf("formatICSTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text with, comma", "Text with\\, comma"},
		{"Text with; semicolon", "Text with\\; semicolon"},
		{"Text with\\backslash", "Text with\\\\backslash"},
		{"Text with\nnewline", "Text with\\nnewline"},
		{"All, special; chars\\\n", "All\\, special\\; chars\\\\\\n"},
		{"Colons: and \"quotes\" stay", "Colons: and \"quotes\" stay"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeICS(tt.input)
			if got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEscapeICS_NotIdempotent(t *testing.T) {
	for _, in := range []string{"a,b", "a;b", "a\\b", "a\nb"} {
		once := escapeICS(in)
		if escapeICS(once) == once {
			t.Errorf("escapeICS(escapeICS(%q)) should differ from escapeICS(%q)", in, in)
		}
	}
}

func TestFoldLine(t *testing.T) {
	short := "SUMMARY:short"
	if got := foldLine(short); got != short {
		t.Errorf("foldLine(%q) = %q, want unchanged", short, got)
	}

	long := "DESCRIPTION:" + strings.Repeat("é", 80)
	folded := foldLine(long)
	for i, part := range strings.Split(folded, "\r\n") {
		if len(part) > maxLineOctets {
			t.Errorf("line %d has %d octets, want <= %d", i, len(part), maxLineOctets)
		}
		if i > 0 && !strings.HasPrefix(part, " ") {
			t.Errorf("continuation line %d should start with a space", i)
		}
	}
	if unfolded := strings.ReplaceAll(folded, "\r\n ", ""); unfolded != long {
		t.Error("unfolding should restore the original line")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite_PropagatesError(t *testing.T) {
	err := Write(failingWriter{}, nil, testMeta, time.Now())
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Write() error = %v, want disk full", err)
	}
}
