// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"context"
	"fmt"

	"github.com/toeirei/avail/internal/logging"
	"github.com/toeirei/avail/internal/model"
	"golang.org/x/sync/errgroup"
)

// Collection is the joined output of all providers.
type Collection struct {
	Events   []model.BusyEvent
	Failures []*SourceFetchError
}

// Collect queries every provider in parallel and waits for all of them.
// Failures (including panics) are recorded per source; events of the sources
// that succeeded are returned in provider order.
func Collect(ctx context.Context, providers []Provider, w model.Window) Collection {
	results := make([][]model.BusyEvent, len(providers))
	errs := make([]error, len(providers))

	// A plain Group: one failing source must not cancel its siblings.
	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					errs[i] = fmt.Errorf("panic: %v", r)
				}
			}()
			events, ferr := p.FetchBusyEvents(ctx, w)
			if ferr != nil {
				errs[i] = ferr
				return nil
			}
			for j := range events {
				if events[j].Source == "" {
					events[j].Source = p.Name()
				}
			}
			results[i] = events
			return nil
		})
	}
	_ = g.Wait()

	var out Collection
	for i, p := range providers {
		if errs[i] != nil {
			fe := &SourceFetchError{Source: p.Name(), Err: errs[i]}
			logging.Debugf("%v", fe)
			out.Failures = append(out.Failures, fe)
			continue
		}
		logging.Debugf("source %s returned %d events", p.Name(), len(results[i]))
		out.Events = append(out.Events, results[i]...)
	}
	return out
}
