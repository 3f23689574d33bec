// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"time"

	"github.com/toeirei/avail/internal/model"
)

// NewInterval returns [start, end) or an *InvalidIntervalError when start is
// not strictly before end.
func NewInterval(start, end time.Time) (model.TimeInterval, error) {
	if !start.Before(end) {
		return model.TimeInterval{}, &InvalidIntervalError{Start: start, End: end}
	}
	return model.TimeInterval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
func Overlaps(a, b model.TimeInterval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// Touches reports whether a and b overlap or are directly adjacent.
func Touches(a, b model.TimeInterval) bool {
	return !a.Start.After(b.End) && !b.Start.After(a.End)
}

// Merge returns the smallest interval covering both a and b. It fails with
// ErrNotAdjacent when the two leave a gap between them.
func Merge(a, b model.TimeInterval) (model.TimeInterval, error) {
	if !Touches(a, b) {
		return model.TimeInterval{}, ErrNotAdjacent
	}
	return model.TimeInterval{Start: earliest(a.Start, b.Start), End: latest(a.End, b.End)}, nil
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
