// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"time"

	"github.com/toeirei/avail/internal/cache"
	"github.com/toeirei/avail/internal/config"
	"github.com/toeirei/avail/internal/logging"
	"github.com/toeirei/avail/internal/source"
)

// buildProviders returns the enabled sources, each behind the cache when
// caching is on. A source that cannot be constructed (missing credentials,
// no token yet) is reported as a failure and contributes no events.
func buildProviders(ctx context.Context, cfg config.Config) ([]source.Provider, func(), []*source.SourceFetchError) {
	var (
		providers []source.Provider
		failures  []*source.SourceFetchError
	)
	fail := func(name string, err error) {
		failures = append(failures, &source.SourceFetchError{Source: name, Err: err})
	}

	if cfg.Google.Enabled {
		g, err := source.NewGoogle(ctx, cfg.Google.CredentialsFile, source.NewTokenStore(cfg.Google.TokenFile), cfg.Google.RatePerSecond)
		if err != nil {
			fail("google", err)
		} else {
			providers = append(providers, g)
		}
	}
	if cfg.Outlook.Enabled {
		o, err := source.NewOutlook(ctx, cfg.Outlook.ClientID, cfg.Outlook.Tenant, source.NewTokenStore(cfg.Outlook.TokenFile))
		if err != nil {
			fail("outlook", err)
		} else {
			providers = append(providers, o)
		}
	}
	if cfg.File.Enabled && cfg.File.Path != "" {
		providers = append(providers, &source.File{Path: cfg.File.Path})
	}

	closeFn := func() {}
	if !cfg.Cache.Enabled || len(providers) == 0 {
		return providers, closeFn, failures
	}
	store, err := cache.Open(cfg.Cache)
	if err != nil {
		logging.Warnf("cache disabled: %v", err)
		return providers, closeFn, failures
	}
	ttl := time.Duration(cfg.Cache.TTL) * time.Second
	for i, p := range providers {
		providers[i] = source.NewCached(p, store, ttl)
	}
	closeFn = func() {
		if err := store.Close(); err != nil {
			logging.Debugf("closing cache: %v", err)
		}
	}
	return providers, closeFn, failures
}
