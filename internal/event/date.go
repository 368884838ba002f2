package event

import (
	"sort"
	"time"
)

// RetentionWindow is how far in the past an event may start and still be
// published when pruning is enabled.
const RetentionWindow = 24 * time.Hour

// IsPastEvent reports whether the event started more than RetentionWindow
// before now.
func (e *Event) IsPastEvent(now time.Time) bool {
	return e.Start.Before(now.Add(-RetentionWindow))
}

// IsUpcoming reports whether the event has not started yet.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.Start.After(now)
}

// PrunePast returns the events that are not past events. The input slice is
// left untouched.
func PrunePast(events []*Event, now time.Time) []*Event {
	kept := make([]*Event, 0, len(events))
	for _, evt := range events {
		if !evt.IsPastEvent(now) {
			kept = append(kept, evt)
		}
	}
	return kept
}

// SortByStart orders events by start time. Events starting at the same
// instant keep their extraction order.
func SortByStart(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}
