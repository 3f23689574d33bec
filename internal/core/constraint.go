// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"time"

	"github.com/toeirei/avail/internal/model"
)

// AllowedRanges returns the parts of day that may hold free slots for q.
// Default mode allows the whole day. Professional mode allows the work hours
// on weekdays and nothing on Saturday or Sunday.
func AllowedRanges(q Query, day time.Time) []model.TimeInterval {
	loc := q.location()
	y, m, d := day.In(loc).Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	if !q.Professional {
		return []model.TimeInterval{{Start: midnight, End: dayAfter(midnight)}}
	}
	if IsWeekend(midnight) {
		return nil
	}
	wh := q.workHours()
	return []model.TimeInterval{{
		Start: time.Date(y, m, d, wh.Start, 0, 0, 0, loc),
		End:   time.Date(y, m, d, wh.End, 0, 0, 0, loc),
	}}
}

// IsWeekend reports whether t falls on Saturday or Sunday in its own location.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ConsideredDays returns the window days that have at least one allowed range.
func ConsideredDays(q Query) []time.Time {
	var out []time.Time
	for _, day := range q.DayStarts() {
		if len(AllowedRanges(q, day)) > 0 {
			out = append(out, day)
		}
	}
	return out
}
