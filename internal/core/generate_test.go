// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"testing"
	"time"

	"github.com/toeirei/avail/internal/model"
)

func TestCompute_SingleMeetingDefaultMode(t *testing.T) {
	loc := nyc(t)
	q := mustQuery(t, 1, false, at(loc, 2024, time.January, 15, 8, 30))

	slots := ComputeAvailability(q, []model.BusyEvent{busy(loc, 15, 10, 0, 11, 0)})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots)
	}
	if !slots[0].Start.Equal(at(loc, 2024, time.January, 15, 0, 0)) || !slots[0].End.Equal(at(loc, 2024, time.January, 15, 10, 0)) {
		t.Fatalf("first slot should be 00:00-10:00, got %v", slots[0])
	}
	if !slots[1].Start.Equal(at(loc, 2024, time.January, 15, 11, 0)) || !slots[1].End.Equal(at(loc, 2024, time.January, 16, 0, 0)) {
		t.Fatalf("second slot should be 11:00-24:00, got %v", slots[1])
	}
}

func TestCompute_FullyBookedProfessionalDay(t *testing.T) {
	loc := nyc(t)
	q := mustQuery(t, 1, true, at(loc, 2024, time.January, 15, 8, 0))

	res := Compute(q, []model.BusyEvent{busy(loc, 15, 9, 0, 17, 0)})
	if !res.Empty() {
		t.Fatalf("expected no slots, got %v", res.Slots)
	}
	if got := FormatReport(res.Slots, q); got != "" {
		t.Fatalf("expected empty report, got %q", got)
	}
}

func TestCompute_PartialQuantumRemovesWholeQuantum(t *testing.T) {
	loc := nyc(t)
	q := mustQuery(t, 1, true, at(loc, 2024, time.January, 15, 8, 0))

	slots := ComputeAvailability(q, []model.BusyEvent{busy(loc, 15, 10, 5, 10, 20)})
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %v", slots)
	}
	if !slots[0].End.Equal(at(loc, 2024, time.January, 15, 10, 0)) {
		t.Fatalf("first slot should end at 10:00, got %v", slots[0].End)
	}
	if !slots[1].Start.Equal(at(loc, 2024, time.January, 15, 10, 30)) {
		t.Fatalf("second slot should start at 10:30, got %v", slots[1].Start)
	}
}

func TestCompute_ProfessionalSkipsWeekends(t *testing.T) {
	loc := nyc(t)
	// Saturday 13th through Friday 19th.
	q := mustQuery(t, 7, true, at(loc, 2024, time.January, 13, 12, 0))

	slots := ComputeAvailability(q, nil)
	if len(slots) != 5 {
		t.Fatalf("expected one slot per weekday, got %d: %v", len(slots), slots)
	}
	for _, s := range slots {
		if IsWeekend(s.Start) {
			t.Fatalf("slot on weekend: %v", s)
		}
		if s.Start.Hour() != 9 || s.End.Hour() != 17 {
			t.Fatalf("expected 9-17 slot, got %v", s)
		}
	}
}

func TestCompute_CustomWorkHoursAndQuantum(t *testing.T) {
	loc := nyc(t)
	q, err := NewQuery(1, "EST", true, at(loc, 2024, time.January, 15, 0, 0), WithWorkHours(8, 12), WithQuantum(30*time.Minute))
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	slots := ComputeAvailability(q, []model.BusyEvent{busy(loc, 15, 9, 10, 9, 20)})
	if len(slots) != 2 || !slots[0].End.Equal(at(loc, 2024, time.January, 15, 9, 0)) || !slots[1].Start.Equal(at(loc, 2024, time.January, 15, 9, 30)) {
		t.Fatalf("unexpected slots %v", slots)
	}
}

func TestCompute_FreeDaySpansWholeAllowedRange(t *testing.T) {
	loc := nyc(t)
	for _, quantum := range []time.Duration{5 * time.Minute, 20 * time.Minute, time.Hour} {
		q, err := NewQuery(1, "EST", true, at(loc, 2024, time.January, 15, 8, 0), WithQuantum(quantum))
		if err != nil {
			t.Fatalf("NewQuery(%s): %v", quantum, err)
		}
		slots := ComputeAvailability(q, nil)
		if len(slots) != 1 || !slots[0].Start.Equal(at(loc, 2024, time.January, 15, 9, 0)) || !slots[0].End.Equal(at(loc, 2024, time.January, 15, 17, 0)) {
			t.Fatalf("quantum %s: expected one 09:00-17:00 slot, got %v", quantum, slots)
		}
	}

	// 3 November 2024 is 25 hours long in New York.
	q, err := NewQuery(1, "EST", false, at(loc, 2024, time.November, 3, 8, 0), WithQuantum(20*time.Minute))
	if err != nil {
		t.Fatalf("NewQuery: %v", err)
	}
	slots := ComputeAvailability(q, nil)
	if len(slots) != 1 || slots[0].Duration() != 25*time.Hour {
		t.Fatalf("expected one 25h slot on the DST day, got %v", slots)
	}
}

func TestCompute_ComplementAndCoverage(t *testing.T) {
	loc := nyc(t)
	q := mustQuery(t, 3, false, at(loc, 2024, time.January, 15, 6, 0))
	events := []model.BusyEvent{
		busy(loc, 15, 9, 0, 10, 0),
		busy(loc, 15, 9, 30, 11, 10),
		busy(loc, 16, 0, 0, 2, 0),
		busy(loc, 16, 23, 50, 23, 55),
		{Start: at(loc, 2024, time.January, 17, 22, 0), End: at(loc, 2024, time.January, 18, 3, 0)},
	}
	res := Compute(q, events)

	for _, f := range res.Slots {
		for _, b := range res.Busy {
			if Overlaps(f.TimeInterval, b) {
				t.Fatalf("free slot %v overlaps busy %v", f, b)
			}
		}
	}

	// Every quantum of every day is either inside a free slot or touched by
	// a busy interval, never both and never neither.
	for _, day := range q.DayStarts() {
		for _, allowed := range AllowedRanges(q, day) {
			for s := allowed.Start; s.Before(allowed.End); s = s.Add(DefaultQuantum) {
				cand := model.TimeInterval{Start: s, End: s.Add(DefaultQuantum)}
				inFree := false
				for _, f := range res.Slots {
					if f.Contains(cand.Start) && !cand.End.After(f.End) {
						inFree = true
					}
				}
				inBusy := false
				for _, b := range res.Busy {
					if Overlaps(cand, b) {
						inBusy = true
					}
				}
				if inFree == inBusy {
					t.Fatalf("quantum %v: free=%v busy=%v", cand, inFree, inBusy)
				}
			}
		}
	}
}

func TestCompute_DSTDaysKeepLocalMidnights(t *testing.T) {
	loc := nyc(t)
	cases := []struct {
		day  time.Time
		want time.Duration
	}{
		{at(loc, 2024, time.March, 10, 12, 0), 23 * time.Hour},
		{at(loc, 2024, time.November, 3, 12, 0), 25 * time.Hour},
	}
	for _, tc := range cases {
		q := mustQuery(t, 1, false, tc.day)
		slots := ComputeAvailability(q, nil)
		if len(slots) != 1 {
			t.Fatalf("%v: expected one slot, got %v", tc.day, slots)
		}
		if got := slots[0].Duration(); got != tc.want {
			t.Fatalf("%v: slot length %v, want %v", tc.day, got, tc.want)
		}
		if slots[0].End.Hour() != 0 {
			t.Fatalf("%v: slot should end at local midnight, got %v", tc.day, slots[0].End)
		}
	}
}

func TestCompute_EventsOutsideWindowIgnored(t *testing.T) {
	loc := nyc(t)
	q := mustQuery(t, 1, false, at(loc, 2024, time.January, 15, 6, 0))
	slots := ComputeAvailability(q, []model.BusyEvent{busy(loc, 20, 9, 0, 10, 0)})
	if len(slots) != 1 || slots[0].Duration() != 24*time.Hour {
		t.Fatalf("expected the whole day free, got %v", slots)
	}
}
