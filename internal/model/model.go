// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model holds the plain data types shared between the availability
// core, the calendar sources and the CLI.
package model

import (
	"fmt"
	"time"
)

// TimeInterval is a half-open time range [Start, End).
type TimeInterval struct {
	Start time.Time
	End   time.Time
}

// Duration returns End - Start.
func (i TimeInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Contains reports whether t lies in [Start, End).
func (i TimeInterval) Contains(t time.Time) bool {
	return !t.Before(i.Start) && t.Before(i.End)
}

// In returns the interval with both bounds converted to loc.
func (i TimeInterval) In(loc *time.Location) TimeInterval {
	return TimeInterval{Start: i.Start.In(loc), End: i.End.In(loc)}
}

// String returns the RFC3339 representation of the interval.
func (i TimeInterval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start.Format(time.RFC3339), i.End.Format(time.RFC3339))
}

// BusyEvent is a raw busy range reported by a calendar source. Start and End
// are not validated; the core drops events whose Start is not before End.
type BusyEvent struct {
	Start    time.Time `json:"start" yaml:"start"`
	End      time.Time `json:"end" yaml:"end"`
	Source   string    `json:"source,omitempty" yaml:"source,omitempty"`
	Calendar string    `json:"calendar,omitempty" yaml:"calendar,omitempty"`
}

// Interval returns the event's range without validation.
func (e BusyEvent) Interval() TimeInterval {
	return TimeInterval{Start: e.Start, End: e.End}
}

// FreeSlot is a range known to be free of every busy interval.
type FreeSlot struct {
	TimeInterval
}

// DayGroup is the ordered set of free slots sharing one calendar date.
type DayGroup struct {
	Date  time.Time
	Slots []FreeSlot
}

// Window is the range requested from calendar sources.
type Window struct {
	Start time.Time
	End   time.Time
}

// String returns a compact representation used in cache keys and logs.
func (w Window) String() string {
	return w.Start.UTC().Format(time.RFC3339) + "/" + w.End.UTC().Format(time.RFC3339)
}
