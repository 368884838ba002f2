package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Entry is one VEVENT read back from a published calendar.
type Entry struct {
	UID     string    `json:"uid"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	URL     string    `json:"url,omitempty"`
}

// Inspect parses an iCalendar document and returns its events with start
// and end converted to loc. Summary and URL are returned as stored, still
// escaped.
func Inspect(r io.Reader, loc *time.Location) ([]Entry, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing calendar: %w", err)
	}

	events := cal.Events()
	entries := make([]Entry, 0, len(events))
	for i, ve := range events {
		entry, err := readEntry(ve, loc)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func readEntry(ve *ical.VEvent, loc *time.Location) (Entry, error) {
	var e Entry

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return e, errors.New("missing UID")
	}
	e.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		e.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyUrl); p != nil {
		e.URL = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return e, fmt.Errorf("reading DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return e, fmt.Errorf("reading DTEND: %w", err)
	}
	e.Start = start.In(loc)
	e.End = end.In(loc)

	return e, nil
}
