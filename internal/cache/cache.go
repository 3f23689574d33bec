// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package cache provides the key/value stores behind the calendar fetch
// cache. Every backend honours a per-entry TTL; expired entries read as
// misses.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/avail/internal/config"
)

// Store is a byte-oriented cache with per-entry expiry.
type Store interface {
	// Get returns the value for key and whether a live entry was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Clear removes every entry owned by the store.
	Clear(ctx context.Context) error
	Close() error
}

// nowFunc is swapped by tests.
var nowFunc = time.Now

// Open builds the backend selected by c.Backend. Paths must already be
// resolved (see config.Config.ResolvePaths).
func Open(c config.CacheConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", "file":
		return NewFileStore(c.Dir)
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(c.Redis)
	case "sqlite", "postgres", "mysql":
		return NewSQLStore(context.Background(), c.Backend, c.DSN)
	default:
		return nil, fmt.Errorf("unsupported cache backend: %q", c.Backend)
	}
}
