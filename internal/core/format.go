// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toeirei/avail/internal/model"
)

const (
	slotSeparator = " // "
	slotLayout    = "3:04 PM"
	noAvailText   = "No availability"
)

// FormatOptions tweak the rendered report.
type FormatOptions struct {
	// ShowEmptyDays renders considered days without free slots as
	// "<label> - No availability" instead of omitting them.
	ShowEmptyDays bool
}

type labelStyle int

const (
	labelWeekday labelStyle = iota // "Mo"
	labelOrdinal                   // "Mo 15th"
	labelMonth                     // "January 15 Mo"
)

// FormatReport renders slots grouped by day, one line per day.
func FormatReport(slots []model.FreeSlot, q Query) string {
	return FormatReportWith(slots, q, FormatOptions{})
}

// FormatReportWith is FormatReport with explicit options. A query without
// any free slot renders as the empty string.
func FormatReportWith(slots []model.FreeSlot, q Query, opts FormatOptions) string {
	if len(slots) == 0 {
		return ""
	}
	loc := q.location()
	groups := GroupByDay(slots, loc)
	style := chooseLabelStyle(q)

	var lines []string
	if opts.ShowEmptyDays {
		byDate := make(map[string]model.DayGroup, len(groups))
		for _, g := range groups {
			byDate[dateKey(g.Date)] = g
		}
		for _, day := range ConsideredDays(q) {
			g, ok := byDate[dateKey(day)]
			if !ok {
				lines = append(lines, dayLabel(day, style)+" - "+noAvailText)
				continue
			}
			lines = append(lines, formatGroup(g, style))
		}
	} else {
		for _, g := range groups {
			lines = append(lines, formatGroup(g, style))
		}
	}
	return strings.Join(lines, "\n")
}

// GroupByDay groups slots by their start date in loc, in chronological order.
func GroupByDay(slots []model.FreeSlot, loc *time.Location) []model.DayGroup {
	sorted := make([]model.FreeSlot, len(slots))
	copy(sorted, slots)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var groups []model.DayGroup
	for _, s := range sorted {
		start := s.Start.In(loc)
		y, m, d := start.Date()
		if n := len(groups); n > 0 && dateKey(groups[n-1].Date) == dateKey(start) {
			groups[n-1].Slots = append(groups[n-1].Slots, s)
			continue
		}
		groups = append(groups, model.DayGroup{
			Date:  time.Date(y, m, d, 0, 0, 0, 0, loc),
			Slots: []model.FreeSlot{s},
		})
	}
	return groups
}

// Ordinal returns day followed by its English ordinal suffix.
func Ordinal(day int) string {
	return fmt.Sprintf("%d%s", day, ordinalSuffix(day))
}

func ordinalSuffix(day int) string {
	if n := day % 100; n >= 11 && n <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// WeekdayAbbrev returns the two-letter weekday abbreviation, e.g. "Mo".
func WeekdayAbbrev(t time.Time) string {
	return t.Format("Mon")[:2]
}

// dayLabel renders the date label of one report line.
func dayLabel(day time.Time, style labelStyle) string {
	switch style {
	case labelMonth:
		return day.Format("January 2") + " " + WeekdayAbbrev(day)
	case labelOrdinal:
		return WeekdayAbbrev(day) + " " + Ordinal(day.Day())
	default:
		return WeekdayAbbrev(day)
	}
}

// chooseLabelStyle picks the label format from the horizon length and
// whether the considered days leave the month the window starts in.
func chooseLabelStyle(q Query) labelStyle {
	if q.Days < 7 {
		return labelWeekday
	}
	start := q.Window().Start
	for _, day := range ConsideredDays(q) {
		if day.Month() != start.Month() || day.Year() != start.Year() {
			return labelMonth
		}
	}
	return labelOrdinal
}

func formatGroup(g model.DayGroup, style labelStyle) string {
	parts := make([]string, 0, len(g.Slots))
	for _, s := range g.Slots {
		parts = append(parts, FormatSlot(s, g.Date.Location()))
	}
	return dayLabel(g.Date, style) + " - " + strings.Join(parts, slotSeparator)
}

// FormatSlot renders one slot as "9:00 AM - 10:15 AM" in loc.
func FormatSlot(s model.FreeSlot, loc *time.Location) string {
	return s.Start.In(loc).Format(slotLayout) + " - " + s.End.In(loc).Format(slotLayout)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
