// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for avail using Cobra.
// It wires configuration, calendar sources and the clipboard, and delegates
// the availability computation to `internal/core`. CLI code should remain
// thin.
package cli
