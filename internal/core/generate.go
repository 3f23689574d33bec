// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"time"

	"github.com/toeirei/avail/internal/model"
)

// Result is the outcome of one availability computation.
type Result struct {
	Slots []model.FreeSlot
	// Busy is the merged busy set the slots were computed against.
	Busy []model.TimeInterval
	// Dropped lists the malformed events filtered out before merging.
	Dropped []error
}

// Empty reports whether no free slot was found. An empty result is valid.
func (r Result) Empty() bool { return len(r.Slots) == 0 }

// ComputeAvailability merges the busy events and returns the free slots of
// the query window.
func ComputeAvailability(q Query, events []model.BusyEvent) []model.FreeSlot {
	return Compute(q, events).Slots
}

// Compute runs the merge and generation pipeline. It is synchronous, holds no
// state between calls and never fails: malformed events end up in Dropped.
func Compute(q Query, events []model.BusyEvent) Result {
	busy, dropped := MergeBusy(events, q.location())
	res := Result{Busy: busy, Dropped: dropped}
	for _, day := range q.DayStarts() {
		for _, allowed := range AllowedRanges(q, day) {
			res.Slots = append(res.Slots, freeSlotsIn(allowed, busy, q.quantum())...)
		}
	}
	return res
}

// freeSlotsIn steps through allowed in quantum-wide candidates, drops every
// candidate touched by a busy interval and joins the adjacent survivors. A
// partially covered quantum is dropped whole. busy must be merged and sorted.
func freeSlotsIn(allowed model.TimeInterval, busy []model.TimeInterval, quantum time.Duration) []model.FreeSlot {
	var free []model.TimeInterval
	j := 0
	for start := allowed.Start; !start.Add(quantum).After(allowed.End); start = start.Add(quantum) {
		cand := model.TimeInterval{Start: start, End: start.Add(quantum)}
		for j < len(busy) && !busy[j].End.After(cand.Start) {
			j++
		}
		if j < len(busy) && Overlaps(cand, busy[j]) {
			continue
		}
		free = append(free, cand)
	}

	merged := sweep(free)
	out := make([]model.FreeSlot, 0, len(merged))
	for _, iv := range merged {
		out = append(out, model.FreeSlot{TimeInterval: iv})
	}
	return out
}
