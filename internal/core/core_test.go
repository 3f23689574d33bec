// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/toeirei/avail/internal/model"
)

func nyc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func at(loc *time.Location, y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, loc)
}

func busy(loc *time.Location, d, h1, m1, h2, m2 int) model.BusyEvent {
	return model.BusyEvent{Start: at(loc, 2024, time.January, d, h1, m1), End: at(loc, 2024, time.January, d, h2, m2), Source: "test"}
}

func mustQuery(t *testing.T, days int, professional bool, now time.Time) Query {
	t.Helper()
	q, err := NewQuery(days, "EST", professional, now)
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	return q
}

func TestNewInterval_RejectsEmptyAndReversed(t *testing.T) {
	loc := nyc(t)
	start := at(loc, 2024, time.January, 15, 10, 0)

	if _, err := NewInterval(start, start); err == nil {
		t.Fatalf("expected error for zero-length interval")
	}
	_, err := NewInterval(start, start.Add(-time.Minute))
	var ie *InvalidIntervalError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InvalidIntervalError, got %T (%v)", err, err)
	}
	if !ie.Start.Equal(start) {
		t.Fatalf("error should carry the start, got %v", ie.Start)
	}
	if iv, err := NewInterval(start, start.Add(time.Minute)); err != nil || iv.Duration() != time.Minute {
		t.Fatalf("expected valid 1m interval, got %v, %v", iv, err)
	}
}

func TestOverlapsAndMerge(t *testing.T) {
	loc := nyc(t)
	iv := func(h1, m1, h2, m2 int) model.TimeInterval {
		return model.TimeInterval{Start: at(loc, 2024, time.January, 15, h1, m1), End: at(loc, 2024, time.January, 15, h2, m2)}
	}
	cases := []struct {
		name      string
		a, b      model.TimeInterval
		overlaps  bool
		mergeable bool
	}{
		{"overlapping", iv(10, 0, 11, 0), iv(10, 30, 12, 0), true, true},
		{"adjacent", iv(10, 0, 11, 0), iv(11, 0, 12, 0), false, true},
		{"contained", iv(9, 0, 17, 0), iv(10, 0, 11, 0), true, true},
		{"disjoint", iv(9, 0, 10, 0), iv(10, 15, 11, 0), false, false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.a, tc.b); got != tc.overlaps {
			t.Fatalf("%s: Overlaps = %v, want %v", tc.name, got, tc.overlaps)
		}
		if got := Overlaps(tc.b, tc.a); got != tc.overlaps {
			t.Fatalf("%s: Overlaps not symmetric", tc.name)
		}
		m, err := Merge(tc.a, tc.b)
		if tc.mergeable != (err == nil) {
			t.Fatalf("%s: Merge err = %v, mergeable %v", tc.name, err, tc.mergeable)
		}
		if err == nil {
			if !m.Start.Equal(earliest(tc.a.Start, tc.b.Start)) || !m.End.Equal(latest(tc.a.End, tc.b.End)) {
				t.Fatalf("%s: unexpected merge result %v", tc.name, m)
			}
		}
		// The merge pass joins exactly the pairs Merge accepts.
		merged := MergeIntervals([]model.TimeInterval{tc.b, tc.a})
		if tc.mergeable && (len(merged) != 1 || merged[0] != m) {
			t.Fatalf("%s: MergeIntervals = %v, want [%v]", tc.name, merged, m)
		}
		if !tc.mergeable && len(merged) != 2 {
			t.Fatalf("%s: MergeIntervals joined a gap: %v", tc.name, merged)
		}
	}
}
