// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/avail/internal/model"
)

const (
	// DefaultQuantum is the width of one candidate slot.
	DefaultQuantum = 15 * time.Minute
	// DefaultWorkStart and DefaultWorkEnd bound professional hours.
	DefaultWorkStart = 9
	DefaultWorkEnd   = 17
)

// timezoneAliases maps the short names accepted on the command line to IANA
// locations. Anything else is handed to time.LoadLocation.
var timezoneAliases = map[string]string{
	"EST": "America/New_York",
	"EDT": "America/New_York",
	"CST": "America/Chicago",
	"CDT": "America/Chicago",
	"MST": "America/Denver",
	"MDT": "America/Denver",
	"PST": "America/Los_Angeles",
	"PDT": "America/Los_Angeles",
	"UTC": "UTC",
	"GMT": "UTC",
}

// ResolveLocation turns a timezone name (EST, PST, ... or an IANA name such
// as Europe/Berlin) into a *time.Location.
func ResolveLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrUnknownTimezone)
	}
	if iana, ok := timezoneAliases[strings.ToUpper(name)]; ok {
		name = iana
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnknownTimezone, name, err)
	}
	return loc, nil
}

// WorkHours are the professional-mode bounds in whole hours, [Start, End).
type WorkHours struct {
	Start int
	End   int
}

// Query is one availability request. Build it with NewQuery so that the
// fields are validated; a zero Quantum and a nil WorkHours mean the defaults.
type Query struct {
	Days         int
	Location     *time.Location
	Professional bool
	Now          time.Time
	Quantum      time.Duration
	WorkHours    *WorkHours
}

// QueryOption customises a Query built by NewQuery.
type QueryOption func(*Query)

// WithQuantum overrides the candidate slot width.
func WithQuantum(d time.Duration) QueryOption {
	return func(q *Query) { q.Quantum = d }
}

// WithWorkHours overrides the professional-mode hours.
func WithWorkHours(start, end int) QueryOption {
	return func(q *Query) { q.WorkHours = &WorkHours{Start: start, End: end} }
}

// NewQuery validates its inputs and returns a ready-to-use Query.
func NewQuery(days int, timezone string, professional bool, now time.Time, opts ...QueryOption) (Query, error) {
	if days <= 0 {
		return Query{}, ErrInvalidHorizon
	}
	loc, err := ResolveLocation(timezone)
	if err != nil {
		return Query{}, err
	}
	q := Query{
		Days:         days,
		Location:     loc,
		Professional: professional,
		Now:          now,
		Quantum:      DefaultQuantum,
	}
	for _, opt := range opts {
		opt(&q)
	}
	// The default is already in place, so zero here came from an option.
	if q.Quantum == 0 {
		return Query{}, fmt.Errorf("%w: %s", ErrInvalidQuantum, q.Quantum)
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks the invariants the generator relies on.
func (q Query) Validate() error {
	if q.Days <= 0 {
		return ErrInvalidHorizon
	}
	// A whole-minute divisor of an hour tiles every allowed range, including
	// 23h and 25h DST days and work hours starting on any hour.
	quantum := q.quantum()
	if quantum < time.Minute || quantum%time.Minute != 0 || time.Hour%quantum != 0 {
		return fmt.Errorf("%w: %s", ErrInvalidQuantum, quantum)
	}
	wh := q.workHours()
	if wh.Start < 0 || wh.End > 24 || wh.Start >= wh.End {
		return fmt.Errorf("%w: %d-%d", ErrInvalidWorkHours, wh.Start, wh.End)
	}
	return nil
}

// Window returns the scan range: from midnight of Now's date in the query
// location through midnight Days later.
func (q Query) Window() model.Window {
	days := q.DayStarts()
	if len(days) == 0 {
		return model.Window{}
	}
	last := days[len(days)-1]
	return model.Window{Start: days[0], End: dayAfter(last)}
}

// DayStarts partitions the window into calendar days and returns the local
// midnight of each. Days are built from the calendar date so DST shifts do
// not drift the boundaries.
func (q Query) DayStarts() []time.Time {
	if q.Days <= 0 {
		return nil
	}
	now := q.Now.In(q.location())
	y, m, d := now.Date()
	out := make([]time.Time, 0, q.Days)
	for i := 0; i < q.Days; i++ {
		out = append(out, time.Date(y, m, d+i, 0, 0, 0, 0, q.location()))
	}
	return out
}

func (q Query) location() *time.Location {
	if q.Location == nil {
		return time.Local
	}
	return q.Location
}

func (q Query) quantum() time.Duration {
	if q.Quantum == 0 {
		return DefaultQuantum
	}
	return q.Quantum
}

func (q Query) workHours() WorkHours {
	if q.WorkHours == nil {
		return WorkHours{Start: DefaultWorkStart, End: DefaultWorkEnd}
	}
	return *q.WorkHours
}

func dayAfter(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
}
