package event

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultDuration is used for every event; the site never publishes end times.
const DefaultDuration = 2 * time.Hour

// Event represents one performance of a show on the venue calendar
type Event struct {
	UID         string    `json:"uid"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	URL         string    `json:"url,omitempty"`
	Description string    `json:"description,omitempty"`
}

// Materializer turns extracted showtimes into events
type Materializer struct {
	// Duration is added to every start to form the end. Zero means DefaultDuration.
	Duration time.Duration
	// UIDDomain is appended to every generated UID after an "@".
	UIDDomain string
}

// GenerateUID creates a fresh random identifier. UIDs are not stable across
// runs: every run publishes a new set of events.
func (m Materializer) GenerateUID() string {
	id := uuid.NewString()
	if m.UIDDomain == "" {
		return id
	}
	return id + "@" + m.UIDDomain
}

// Make creates an Event for a single showtime. It returns false when the
// title is blank.
func (m Materializer) Make(title string, start time.Time, url, description string) (*Event, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false
	}

	d := m.Duration
	if d <= 0 {
		d = DefaultDuration
	}

	return &Event{
		UID:         m.GenerateUID(),
		Title:       title,
		Start:       start,
		End:         start.Add(d),
		URL:         strings.TrimSpace(url),
		Description: strings.TrimSpace(description),
	}, true
}

// MakeAll creates one Event per start time, all sharing the same title,
// link and description.
func (m Materializer) MakeAll(title string, starts []time.Time, url, description string) []*Event {
	events := make([]*Event, 0, len(starts))
	for _, start := range starts {
		if evt, ok := m.Make(title, start, url, description); ok {
			events = append(events, evt)
		}
	}
	return events
}
