// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"testing"
	"time"
)

func TestTimeInterval(t *testing.T) {
	start := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	i := TimeInterval{Start: start, End: start.Add(90 * time.Minute)}

	if i.Duration() != 90*time.Minute {
		t.Errorf("unexpected Duration(): %v", i.Duration())
	}
	if !i.Contains(start) {
		t.Errorf("interval should contain its start")
	}
	if i.Contains(i.End) {
		t.Errorf("interval must not contain its end")
	}
	if got := i.String(); got != "[2024-01-15T09:00:00Z, 2024-01-15T10:30:00Z)" {
		t.Errorf("unexpected String(): %q", got)
	}

	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no zone database: %v", err)
	}
	if got := i.In(ny); got.Start.Hour() != 4 || !got.Start.Equal(i.Start) {
		t.Errorf("In() should keep the instant and change the zone, got %v", got.Start)
	}
}

func TestWindowString(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no zone database: %v", err)
	}
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, ny)
	w := Window{Start: start, End: start.AddDate(0, 0, 1)}
	if got := w.String(); got != "2024-01-15T05:00:00Z/2024-01-16T05:00:00Z" {
		t.Errorf("unexpected Window.String(): %q", got)
	}
}

func TestBusyEventInterval(t *testing.T) {
	start := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	e := BusyEvent{Start: start, End: start.Add(time.Hour), Source: "google"}
	if got := e.Interval(); !got.Start.Equal(start) || got.Duration() != time.Hour {
		t.Errorf("unexpected Interval(): %v", got)
	}
}
