// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/avail/internal/core"
	"github.com/toeirei/avail/internal/i18n"
	"github.com/toeirei/avail/internal/logging"
	"github.com/toeirei/avail/internal/source"
)

const defaultDays = 3

// runReport is the root command: fetch, compute, print and copy.
func runReport(cmd *cobra.Command, opts *rootOptions, args []string) error {
	started := time.Now()
	cfg := opts.cfg

	days, err := parseDays(args)
	if err != nil {
		return err
	}
	tz, err := resolveTimezone(opts)
	if err != nil {
		return err
	}

	q, err := core.NewQuery(days, tz, opts.professional, clock.Now(),
		core.WithQuantum(time.Duration(cfg.SlotMinutes)*time.Minute),
		core.WithWorkHours(cfg.WorkHours.Start, cfg.WorkHours.End),
	)
	if err != nil {
		return err
	}
	banner(cmd, i18n.T("report.using_timezone", tz))

	ctx := cmd.Context()
	providers, closeProviders, failures := buildProviders(ctx, cfg)
	defer closeProviders()
	if len(providers) == 0 && len(failures) == 0 {
		logging.Warnf("%s", i18n.T("source.disabled_all"))
	}

	fetchCtx := ctx
	if cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, time.Duration(cfg.FetchTimeout)*time.Second)
		defer cancel()
	}
	collected := source.Collect(fetchCtx, providers, q.Window())
	failures = append(failures, collected.Failures...)
	for _, f := range failures {
		logging.Warnf("%s", i18n.T("source.failed", f.Source, f.Err))
	}

	res := core.Compute(q, collected.Events)
	for _, d := range res.Dropped {
		logging.Warnf("%s", i18n.T("source.dropped", d))
	}

	out := cmd.OutOrStdout()
	report := core.FormatReportWith(res.Slots, q, core.FormatOptions{ShowEmptyDays: cfg.ShowEmptyDays})
	if report == "" {
		fmt.Fprintln(out, i18n.T("report.empty"))
		return nil
	}
	fmt.Fprintln(out, report)

	elapsed := time.Since(started).Round(time.Millisecond)
	if !opts.noCopy {
		if err := clipboardSink.Write(report); err != nil {
			logging.Warnf("%s", i18n.T("report.copy_failed", err))
		} else {
			notice(cmd, i18n.T("report.copied", elapsed))
			return nil
		}
	}
	logging.Infof("%s", i18n.T("report.elapsed", elapsed))
	return nil
}

func parseDays(args []string) (int, error) {
	if len(args) == 0 {
		return defaultDays, nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil || days < 1 {
		return 0, errors.New(i18n.T("error.days_positive"))
	}
	return days, nil
}

// resolveTimezone picks the zone name: --tz, then --pst/--est, then the
// configured default.
func resolveTimezone(opts *rootOptions) (string, error) {
	if opts.pst && opts.est {
		return "", errors.New(i18n.T("error.both_timezones"))
	}
	switch {
	case opts.tz != "":
		return opts.tz, nil
	case opts.pst:
		return "PST", nil
	case opts.est:
		return "EST", nil
	}
	return opts.cfg.DefaultTimezone, nil
}
