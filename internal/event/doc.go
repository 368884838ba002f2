// Package event provides the calendar event type and the helpers that create,
// order and prune events.
//
// Events are created from extracted showtimes by a Materializer, which fixes
// the duration and UID domain for a run. UIDs are random: the same show gets
// a new UID on every run.
package event
