// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core computes free time from busy calendar events and renders it
// as a short text report. It is pure: no I/O, no goroutines and no package
// state. Fetching, caching and output sinks live in other packages.
package core
