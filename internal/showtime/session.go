package showtime

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "Oct. 28 – 7:30PM", anchored at the start of the bullet
	bulletLine = regexp.MustCompile(`^([A-Za-z]{3,4}\.?)\s+(\d{1,2})\s*[–-]\s*([0-9:apmAPM.]+)`)

	// "October 20, 2025 – 8:00 pm" anywhere in a page
	datedLine = regexp.MustCompile(`([A-Za-z]{3,9})\s+(\d{1,2}),\s*(\d{4})\s*[–-]\s*([^\n]+)`)
)

// MonthDay is a day of the year without the year.
type MonthDay struct {
	Month time.Month
	Day   int
}

// Before reports whether md sorts before o, comparing month then day.
func (md MonthDay) Before(o MonthDay) bool {
	if md.Month != o.Month {
		return md.Month < o.Month
	}
	return md.Day < o.Day
}

// Window is the advertised run of a multi-performance show.
//
// Contains compares (month, day) pairs, so a run that crosses New Year
// ("Dec 28 – Jan 2") rejects every bullet.
type Window struct {
	Start MonthDay
	End   MonthDay
	Year  int
}

// Contains reports whether md lies inside the window, bounds included.
func (w Window) Contains(md MonthDay) bool {
	return !md.Before(w.Start) && !w.End.Before(md)
}

// Window resolves the heading's month names. It reports false if either
// month is not in the month table.
func (l RangeLine) Window() (Window, bool) {
	sm, ok := ResolveMonth(l.StartMonth)
	if !ok {
		return Window{}, false
	}
	em, ok := ResolveMonth(l.EndMonth)
	if !ok {
		return Window{}, false
	}
	return Window{
		Start: MonthDay{Month: sm, Day: l.StartDay},
		End:   MonthDay{Month: em, Day: l.EndDay},
		Year:  l.Year,
	}, true
}

// Bullet is one "<Mon> <Day> – <time>" session line.
type Bullet struct {
	Date MonthDay
	Time string
}

// ParseBullet matches a session bullet and resolves its month.
func ParseBullet(text string) (Bullet, bool) {
	m := bulletLine.FindStringSubmatch(text)
	if m == nil {
		return Bullet{}, false
	}
	month, ok := ResolveMonth(m[1])
	if !ok {
		return Bullet{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil {
		return Bullet{}, false
	}
	return Bullet{Date: MonthDay{Month: month, Day: day}, Time: m[3]}, true
}

// ExtractSessions produces one instant per bullet that matches the bullet
// pattern, falls inside the heading's window and names a real date and time.
// Everything else is dropped silently.
func ExtractSessions(header RangeLine, bullets []string, loc *time.Location) []time.Time {
	w, ok := header.Window()
	if !ok {
		return nil
	}

	var sessions []time.Time
	for _, text := range bullets {
		b, ok := ParseBullet(text)
		if !ok || !w.Contains(b.Date) {
			continue
		}
		if t, ok := At(loc, w.Year, b.Date.Month, b.Date.Day, b.Time); ok {
			sessions = append(sessions, t)
		}
	}
	return sessions
}

// ScanDetailText looks through the full text of an event detail page, one
// line per text node. A fully dated line wins; otherwise every bullet-shaped
// line becomes a session in the inferred year.
func ScanDetailText(text string, loc *time.Location, now time.Time) []time.Time {
	if m := datedLine.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month, ok := LookupMonth(m[1]); ok {
			if t, ok := At(loc, year, month, day, m[4]); ok {
				return []time.Time{t}
			}
		}
	}

	year := InferYear(now.In(loc))
	var sessions []time.Time
	for _, line := range strings.Split(text, "\n") {
		b, ok := ParseBullet(line)
		if !ok {
			continue
		}
		if t, ok := At(loc, year, b.Date.Month, b.Date.Day, b.Time); ok {
			sessions = append(sessions, t)
		}
	}
	return sessions
}
