// Package showtime turns the human-authored date and time fragments found on
// a venue calendar into timezone-aware instants.
//
// The package is pure: nothing here performs I/O. Callers supply the text,
// the site location and, where a year has to be inferred, the current time.
package showtime

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// months maps month text, exactly as authored on the site, to a month.
var months = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,

	"Jan": time.January, "Jan.": time.January,
	"Feb": time.February, "Feb.": time.February,
	"Mar": time.March, "Mar.": time.March,
	"Apr": time.April, "Apr.": time.April,
	"Jun": time.June, "Jun.": time.June,
	"Jul": time.July, "Jul.": time.July,
	"Aug": time.August, "Aug.": time.August,
	"Sep": time.September, "Sep.": time.September,
	"Sept": time.September, "Sept.": time.September,
	"Oct": time.October, "Oct.": time.October,
	"Nov": time.November, "Nov.": time.November,
	"Dec": time.December, "Dec.": time.December,
}

// ResolveMonth looks text up in the month table. The match is exact and
// case-sensitive.
func ResolveMonth(text string) (time.Month, bool) {
	m, ok := months[text]
	return m, ok
}

// LookupMonth is ResolveMonth with a fallback to the general-purpose date
// parser, so spellings like "oct" or "OCTOBER" still resolve.
func LookupMonth(text string) (time.Month, bool) {
	if m, ok := ResolveMonth(text); ok {
		return m, true
	}
	if text == "" {
		return 0, false
	}
	t, err := dateparse.ParseIn(fmt.Sprintf("%s 1, 2000", text), time.UTC)
	if err != nil {
		return 0, false
	}
	return t.Month(), true
}
