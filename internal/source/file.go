// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package source

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/toeirei/avail/internal/model"
	"gopkg.in/yaml.v3"
)

// fileDocument is the YAML layout read by File:
//
//	events:
//	  - start: 2024-01-15T10:00:00-05:00
//	    end: 2024-01-15T11:00:00-05:00
//	    calendar: dentist
type fileDocument struct {
	Events []struct {
		Start    time.Time `yaml:"start"`
		End      time.Time `yaml:"end"`
		Calendar string    `yaml:"calendar"`
	} `yaml:"events"`
}

// File reads busy events from a local YAML file. It is handy for blocking
// time that lives in no online calendar, and for offline runs.
type File struct {
	Path string
}

func (f *File) Name() string { return "file" }

// CacheParams keys cached results by path and modification time, so edits to
// the file take effect before the cache entry expires.
func (f *File) CacheParams() string {
	info, err := os.Stat(f.Path)
	if err != nil {
		return f.Path
	}
	return fmt.Sprintf("%s@%d:%d", f.Path, info.ModTime().UnixNano(), info.Size())
}

func (f *File) FetchBusyEvents(_ context.Context, w model.Window) ([]model.BusyEvent, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", f.Path, err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", f.Path, err)
	}
	var out []model.BusyEvent
	for _, e := range doc.Events {
		ev := model.BusyEvent{Start: e.Start, End: e.End, Source: f.Name(), Calendar: e.Calendar}
		// Malformed events pass through; the core reports and drops them.
		if ev.Start.Before(ev.End) && !overlapsWindow(ev, w) {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
