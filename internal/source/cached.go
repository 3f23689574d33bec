// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/toeirei/avail/internal/cache"
	"github.com/toeirei/avail/internal/logging"
	"github.com/toeirei/avail/internal/model"
)

// CacheParams is implemented by providers whose results depend on settings
// beyond the window, so that the cache key reflects them.
type CacheParams interface {
	CacheParams() string
}

// Cached decorates a Provider with a TTL cache. Cache failures are logged
// and fall through to the wrapped provider; fetch errors are never cached.
type Cached struct {
	inner Provider
	store cache.Store
	ttl   time.Duration
}

// NewCached wraps p.
func NewCached(p Provider, store cache.Store, ttl time.Duration) *Cached {
	return &Cached{inner: p, store: store, ttl: ttl}
}

func (c *Cached) Name() string { return c.inner.Name() }

// Key returns the cache key for w: source, window and provider parameters.
func (c *Cached) Key(w model.Window) string {
	parts := []string{"busy", c.inner.Name(), w.String()}
	if cp, ok := c.inner.(CacheParams); ok {
		parts = append(parts, cp.CacheParams())
	}
	return strings.Join(parts, "|")
}

func (c *Cached) FetchBusyEvents(ctx context.Context, w model.Window) ([]model.BusyEvent, error) {
	key := c.Key(w)
	if data, ok, err := c.store.Get(ctx, key); err != nil {
		logging.Debugf("cache read for %s failed: %v", c.Name(), err)
	} else if ok {
		var events []model.BusyEvent
		if err := json.Unmarshal(data, &events); err == nil {
			logging.Debugf("cache hit for %s", c.Name())
			return events, nil
		}
		logging.Debugf("cache entry for %s is corrupt, refetching", c.Name())
	}

	events, err := c.inner.FetchBusyEvents(ctx, w)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(events); err == nil {
		if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
			logging.Debugf("cache write for %s failed: %v", c.Name(), err)
		}
	}
	return events, nil
}
