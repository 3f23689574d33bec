// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for avail.
//
// Usage:
//
//	go run . [days] [flags]
//	./avail [days] [flags]
//
// See --help for options.
package main

import (
	"os"

	// Embedded zone database for systems without one (Windows, scratch images).
	_ "time/tzdata"

	log "github.com/charmbracelet/log"
	"github.com/toeirei/avail/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
