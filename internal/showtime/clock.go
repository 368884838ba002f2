package showtime

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// timeToken matches "7:30 pm", "6:00PM*", "8pm". A trailing footnote
// asterisk is tolerated.
var timeToken = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)\*?`)

// Clock is a wall-clock time on the 24-hour clock.
type Clock struct {
	Hour   int
	Minute int
}

// String renders the clock as HH:MM.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ExtractClock finds the first am/pm time token in fragment and converts it
// to 24-hour form. It reports false if there is no token or the token does
// not describe a real time of day.
func ExtractClock(fragment string) (Clock, bool) {
	m := timeToken.FindStringSubmatch(fragment)
	if m == nil {
		return Clock{}, false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return Clock{}, false
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return Clock{}, false
		}
	}

	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return Clock{}, false
	}
	return Clock{Hour: hour, Minute: minute}, true
}

// Date builds midnight of the given calendar day in loc. Unlike time.Date it
// refuses days that do not exist, so "Feb 30" is reported as invalid instead
// of rolling over into March.
func Date(loc *time.Location, year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// At combines a calendar day with a free-text time fragment into an instant
// in loc. An am/pm token is preferred; failing that the day and fragment are
// handed to the general-purpose parser. A fragment with no digits at all is
// never guessed at.
func At(loc *time.Location, year int, month time.Month, day int, timeText string) (time.Time, bool) {
	d, ok := Date(loc, year, month, day)
	if !ok {
		return time.Time{}, false
	}

	if c, ok := ExtractClock(timeText); ok {
		return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, loc), true
	}

	timeText = strings.TrimSpace(timeText)
	if !strings.ContainsAny(timeText, "0123456789") {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(fmt.Sprintf("%d/%d/%d %s", int(month), day, year, timeText), loc)
	if err != nil {
		return time.Time{}, false
	}
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), 0, 0, loc), true
}
