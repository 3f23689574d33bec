// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidHorizon is returned when a query asks for zero or negative days.
	ErrInvalidHorizon = errors.New("days must be a positive integer")
	// ErrUnknownTimezone is returned when a timezone name cannot be resolved.
	ErrUnknownTimezone = errors.New("unknown timezone")
	// ErrInvalidQuantum is returned when the slot quantum is not a whole number of minutes dividing an hour.
	ErrInvalidQuantum = errors.New("slot quantum must be a whole number of minutes that divides 60")
	// ErrInvalidWorkHours is returned for professional hours outside 0..24 or with start >= end.
	ErrInvalidWorkHours = errors.New("invalid work hours")
	// ErrNotAdjacent is returned by Merge for intervals that neither overlap nor touch.
	ErrNotAdjacent = errors.New("intervals neither overlap nor touch")
)

// InvalidIntervalError reports an interval whose start is not before its end.
// It is fatal to that interval only; callers drop it and continue.
type InvalidIntervalError struct {
	Start  time.Time
	End    time.Time
	Source string
}

func (e *InvalidIntervalError) Error() string {
	msg := fmt.Sprintf("invalid interval: start %s is not before end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
	if e.Source != "" {
		msg += " (source " + e.Source + ")"
	}
	return msg
}
