package daterange

import (
	"net/url"
	"strings"
	"time"
)

// Params are the optional date query parameters of a report request.
// Values are raw strings; invalid values are treated as absent.
type Params struct {
	Date string // a single civil day
	From string // first civil day (inclusive)
	To   string // last civil day (inclusive)
}

// ParamsFromQuery reads date, from and to from URL query values.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Date: strings.TrimSpace(q.Get("date")),
		From: strings.TrimSpace(q.Get("from")),
		To:   strings.TrimSpace(q.Get("to")),
	}
}

// Resolve turns query params into a UTC range in zone z. It never fails; it
// falls back in this order:
//
//  1. valid date:          [start(date), start(date)+1d)
//  2. valid from and to:   [start(from), start(to)+1d)
//  3. valid from only:     [start(from), start(from)+defaultDays)
//  4. otherwise:           the defaultDays most recent civil days ending today
//
// A from that is later than to yields a range with Start >= End; callers that
// hit the database must call Validate first.
func (z Zone) Resolve(p Params, defaultDays int, now time.Time) Range {
	if defaultDays < 1 {
		defaultDays = 1
	}

	if d, ok := ParseCivilDay(p.Date); ok {
		return z.Day(d)
	}

	from, fromOK := ParseCivilDay(p.From)
	to, toOK := ParseCivilDay(p.To)

	switch {
	case fromOK && toOK:
		return Range{Start: z.DayStart(from), End: AddDays(z.DayStart(to), 1)}
	case fromOK:
		start := z.DayStart(from)
		return Range{Start: start, End: AddDays(start, defaultDays)}
	default:
		return z.LastNDays(defaultDays, now)
	}
}
