// Package daterange converts civil calendar days in a fixed-offset timezone
// into UTC instant ranges.
//
// Ranges are half-open: Start is inclusive and End is exclusive, so they can
// be passed straight to Mongo as {created_at: {$gte: Start, $lt: End}}.
//
// Day boundaries are anchored to an explicit Zone value rather than the host's
// local timezone, so results never depend on where the service is deployed.
package daterange

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrInvalidRange is returned when a resolved range does not satisfy Start < End.
var ErrInvalidRange = errors.New("invalid date range: start must be before end")

// Layout is the only accepted civil-day format.
const Layout = "2006-01-02"

var ymdPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Zone is an immutable fixed-offset civil timezone.
//
// Day arithmetic in this package steps whole UTC calendar days from a zone
// midnight. That only lines up with civil midnights because a fixed offset
// never changes; a zone with daylight saving would drift by the DST shift.
type Zone struct {
	name   string
	offset time.Duration
	loc    *time.Location
}

// IST is India Standard Time (UTC+05:30), the zone all reports are bucketed in.
var IST = FixedZone("IST", 5*time.Hour+30*time.Minute)

// FixedZone returns a Zone with the given display name and UTC offset.
// Offsets are truncated to whole minutes.
func FixedZone(name string, offset time.Duration) Zone {
	offset = offset.Truncate(time.Minute)
	return Zone{
		name:   name,
		offset: offset,
		loc:    time.FixedZone(name, int(offset/time.Second)),
	}
}

// Name returns the zone's display name.
func (z Zone) Name() string { return z.name }

// Location returns a *time.Location for the zone. The zero Zone is UTC.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return time.UTC
	}
	return z.loc
}

// Offset formats the zone offset as "+hh:mm", the form Mongo accepts for the
// timezone argument of date operators.
func (z Zone) Offset() string {
	sign := '+'
	off := z.offset
	if off < 0 {
		sign = '-'
		off = -off
	}
	h := int(off / time.Hour)
	m := int((off % time.Hour) / time.Minute)
	return fmt.Sprintf("%c%02d:%02d", sign, h, m)
}

// CivilDate is a calendar day with no time or zone attached.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

// String formats the date as zero-padded YYYY-MM-DD.
func (d CivilDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero CivilDate.
func (d CivilDate) IsZero() bool {
	return d == CivilDate{}
}

// ParseCivilDay parses a strict YYYY-MM-DD string. Any other shape, and any
// day that does not exist on the calendar (2024-02-30, 2025-13-40), is
// rejected rather than rolled over into a neighbouring month.
func ParseCivilDay(s string) (CivilDate, bool) {
	if !ymdPattern.MatchString(s) {
		return CivilDate{}, false
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return CivilDate{}, false
	}
	return CivilDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

// DayStart returns the UTC instant of 00:00:00 on d in zone z.
func (z Zone) DayStart(d CivilDate) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, z.Location()).UTC()
}

// DateOf returns the civil date in zone z that contains instant t.
func (z Zone) DateOf(t time.Time) CivilDate {
	l := t.In(z.Location())
	return CivilDate{Year: l.Year(), Month: l.Month(), Day: l.Day()}
}

// Today returns the current civil date in zone z, given the current instant.
func (z Zone) Today(now time.Time) CivilDate {
	return z.DateOf(now)
}

// AddDays shifts t by n whole UTC calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.UTC().AddDate(0, 0, n)
}

// Range is a half-open UTC interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrInvalidRange unless Start is strictly before End.
func (r Range) Validate() error {
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Day returns the one-day range covering d in zone z.
func (z Zone) Day(d CivilDate) Range {
	start := z.DayStart(d)
	return Range{Start: start, End: AddDays(start, 1)}
}

// LastNDays returns the n most recent civil days ending today (inclusive).
// n below 1 is treated as 1.
func (z Zone) LastNDays(n int, now time.Time) Range {
	if n < 1 {
		n = 1
	}
	today := z.DayStart(z.Today(now))
	return Range{Start: AddDays(today, -(n - 1)), End: AddDays(today, 1)}
}
