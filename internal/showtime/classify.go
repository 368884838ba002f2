package showtime

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// "October 28 – November 1, 2025" or "Oct 28-31, 2025"
	rangeLine = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})\s*[–-]\s*([A-Za-z]{3,9})?\s*(\d{1,2}),\s*(\d{4})$`)

	// "October 20, 2025 – 8:00 pm" or "Oct 20 - 7pm"
	singleLine = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})(?:,\s*(\d{4}))?\s*[–-]\s*([^\n]+)$`)
)

// Line is the shape a raw date fragment was recognized as. It is one of
// RangeLine, SingleLine or UnrecognizedLine.
type Line interface {
	line()
}

// RangeLine is a heading describing a multi-performance run. The individual
// showtimes live in bullet lines next to it.
type RangeLine struct {
	StartMonth string
	StartDay   int
	EndMonth   string // equals StartMonth when the source omitted it
	EndDay     int
	Year       int
}

// SingleLine is one dated performance with its time text.
type SingleLine struct {
	Month   string
	Day     int
	Year    int // zero when the source omitted it
	HasYear bool
	Time    string
}

// UnrecognizedLine is a fragment that matched no known shape.
type UnrecognizedLine struct {
	Text string
}

func (RangeLine) line()        {}
func (SingleLine) line()       {}
func (UnrecognizedLine) line() {}

// Classify decides which shape fragment has. Range headings are checked
// before single dates.
func Classify(fragment string) Line {
	if m := rangeLine.FindStringSubmatch(fragment); m != nil {
		startDay, _ := strconv.Atoi(m[2])
		endDay, _ := strconv.Atoi(m[4])
		year, _ := strconv.Atoi(m[5])
		endMonth := m[3]
		if endMonth == "" {
			endMonth = m[1]
		}
		return RangeLine{
			StartMonth: m[1],
			StartDay:   startDay,
			EndMonth:   endMonth,
			EndDay:     endDay,
			Year:       year,
		}
	}

	if m := singleLine.FindStringSubmatch(fragment); m != nil {
		day, _ := strconv.Atoi(m[2])
		l := SingleLine{Month: m[1], Day: day, Time: m[4]}
		if m[3] != "" {
			l.Year, _ = strconv.Atoi(m[3])
			l.HasYear = true
		}
		return l
	}

	return UnrecognizedLine{Text: fragment}
}

// InferYear picks the year for a date whose year the site did not print.
// now should already be in the site location. Calendars published in
// December are taken to describe the coming year.
func InferYear(now time.Time) int {
	if now.Month() <= time.November {
		return now.Year()
	}
	return now.Year() + 1
}

// Instants resolves a single dated line into its instant. A missing year is
// the current calendar year of now.
func (l SingleLine) Instants(loc *time.Location, now time.Time) []time.Time {
	month, ok := LookupMonth(l.Month)
	if !ok {
		return nil
	}
	year := l.Year
	if !l.HasYear {
		year = now.In(loc).Year()
	}
	t, ok := At(loc, year, month, l.Day, l.Time)
	if !ok {
		return nil
	}
	return []time.Time{t}
}
