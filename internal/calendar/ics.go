package calendar

import (
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/landmark-ics/internal/event"
)

// maxLineOctets is the longest content line RFC 5545 allows before folding.
const maxLineOctets = 75

// Meta holds the calendar-level properties of a generated feed
type Meta struct {
	ProductID     string
	Name          string
	Timezone      string
	SummaryPrefix string
}

// GenerateICS renders events as a complete iCalendar document
func GenerateICS(events []*event.Event, meta Meta, now time.Time) string {
	var ics strings.Builder
	// strings.Builder never returns a write error
	_ = Write(&ics, events, meta, now)
	return ics.String()
}

// Write renders events to w as an iCalendar document. Events are written in
// start order; the input slice is not reordered.
func Write(w io.Writer, events []*event.Event, meta Meta, now time.Time) error {
	lw := &lineWriter{w: w}

	lw.line("BEGIN:VCALENDAR")
	lw.line("VERSION:2.0")
	lw.line("PRODID:" + meta.ProductID)
	lw.line("CALSCALE:GREGORIAN")
	lw.line("METHOD:PUBLISH")
	if meta.Name != "" {
		lw.line("X-WR-CALNAME:" + escapeICS(meta.Name))
	}
	if meta.Timezone != "" {
		lw.line("X-WR-TIMEZONE:" + meta.Timezone)
	}

	sorted := make([]*event.Event, len(events))
	copy(sorted, events)
	event.SortByStart(sorted)

	// DTSTAMP - the same generation time for every event in this run
	stamp := formatICSTime(now)
	for _, evt := range sorted {
		writeEvent(lw, evt, meta, stamp)
	}

	lw.line("END:VCALENDAR")
	return lw.err
}

func writeEvent(lw *lineWriter, evt *event.Event, meta Meta, stamp string) {
	lw.line("BEGIN:VEVENT")
	lw.line("UID:" + evt.UID)
	lw.line("DTSTAMP:" + stamp)
	lw.line("DTSTART:" + formatICSTime(evt.Start))
	lw.line("DTEND:" + formatICSTime(evt.End))
	lw.line("SUMMARY:" + escapeICS(meta.SummaryPrefix+evt.Title))
	if evt.URL != "" {
		lw.line("URL:" + escapeICS(evt.URL))
	}
	if evt.Description != "" {
		lw.line("DESCRIPTION:" + escapeICS(evt.Description))
	}
	lw.line("END:VEVENT")
}

// lineWriter writes CRLF-terminated content lines, folding long ones, and
// remembers the first write error.
type lineWriter struct {
	w   io.Writer
	err error
}

func (lw *lineWriter) line(s string) {
	if lw.err != nil {
		return
	}
	_, lw.err = io.WriteString(lw.w, foldLine(s)+"\r\n")
}

// foldLine splits s into chunks of at most maxLineOctets octets, never
// inside a UTF-8 sequence. Continuation lines start with a single space.
func foldLine(s string) string {
	if len(s) <= maxLineOctets {
		return s
	}

	var b strings.Builder
	limit := maxLineOctets
	for len(s) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString("\r\n ")
		s = s[cut:]
		// the leading space counts against the continuation line
		limit = maxLineOctets - 1
	}
	b.WriteString(s)
	return b.String()
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar TEXT values
func escapeICS(s string) string {
	// Backslash first so the escapes added below are not doubled
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
