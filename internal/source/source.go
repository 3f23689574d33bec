// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package source fetches busy events from calendar providers. Providers are
// queried concurrently and a failing provider never aborts the others.
package source

import (
	"context"

	"github.com/toeirei/avail/internal/model"
)

// Provider is one calendar backend.
type Provider interface {
	// Name tags every event the provider returns and names it in errors.
	Name() string
	// FetchBusyEvents returns the busy events overlapping w.
	FetchBusyEvents(ctx context.Context, w model.Window) ([]model.BusyEvent, error)
}

// overlapsWindow reports whether the event's range intersects w.
func overlapsWindow(ev model.BusyEvent, w model.Window) bool {
	iv := ev.Interval()
	return iv.Start.Before(w.End) && w.Start.Before(iv.End)
}
