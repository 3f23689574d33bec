// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"sort"
	"time"

	"github.com/toeirei/avail/internal/model"
)

// NormalizeEvents validates raw busy events and converts the valid ones to
// loc. Every event with Start >= End is returned as an *InvalidIntervalError
// in dropped instead of aborting the whole set.
func NormalizeEvents(events []model.BusyEvent, loc *time.Location) (valid []model.TimeInterval, dropped []error) {
	valid = make([]model.TimeInterval, 0, len(events))
	for _, ev := range events {
		iv, err := NewInterval(ev.Start, ev.End)
		if err != nil {
			if ie, ok := err.(*InvalidIntervalError); ok {
				ie.Source = ev.Source
			}
			dropped = append(dropped, err)
			continue
		}
		if loc != nil {
			iv = iv.In(loc)
		}
		valid = append(valid, iv)
	}
	return valid, dropped
}

// MergeIntervals returns the minimal, start-sorted set of non-overlapping
// intervals covering the input. Intervals that touch are joined. The input
// slice is not modified.
func MergeIntervals(intervals []model.TimeInterval) []model.TimeInterval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]model.TimeInterval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start.Equal(sorted[j].Start) {
			return sorted[i].End.Before(sorted[j].End)
		}
		return sorted[i].Start.Before(sorted[j].Start)
	})
	return sweep(sorted)
}

// MergeBusy normalizes events into loc and merges them. Dropped events are
// reported alongside the merged set.
func MergeBusy(events []model.BusyEvent, loc *time.Location) ([]model.TimeInterval, []error) {
	valid, dropped := NormalizeEvents(events, loc)
	return MergeIntervals(valid), dropped
}

// sweep merges an already start-sorted slice in a single pass.
func sweep(sorted []model.TimeInterval) []model.TimeInterval {
	if len(sorted) == 0 {
		return nil
	}
	out := make([]model.TimeInterval, 0, len(sorted))
	acc := sorted[0]
	for _, next := range sorted[1:] {
		if Touches(acc, next) {
			acc, _ = Merge(acc, next)
			continue
		}
		out = append(out, acc)
		acc = next
	}
	return append(out, acc)
}
