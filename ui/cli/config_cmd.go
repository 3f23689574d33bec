// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/toeirei/avail/internal/config"
	"github.com/toeirei/avail/internal/core"
	"github.com/toeirei/avail/internal/i18n"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change persisted settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := yaml.Marshal(&opts.cfg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", opts.cfgPath)
			_, err = out.Write(data)
			return err
		},
	}

	setTimezone := &cobra.Command{
		Use:   "set-timezone ZONE",
		Short: "Set the default timezone (EST, PST, or any IANA name)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zone := args[0]
			if _, err := core.ResolveLocation(zone); err != nil {
				return err
			}
			if up := strings.ToUpper(zone); isAlias(up) {
				zone = up
			}
			return updateConfig(cmd, opts, func(c *config.Config) string {
				c.DefaultTimezone = zone
				return i18n.T("config.timezone_set", zone)
			})
		},
	}

	toggleTimezone := &cobra.Command{
		Use:   "toggle-timezone",
		Short: "Switch the default timezone between EST and PST",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, opts, func(c *config.Config) string {
				next := "EST"
				if strings.EqualFold(c.DefaultTimezone, "EST") {
					next = "PST"
				}
				c.DefaultTimezone = next
				return i18n.T("config.timezone_switched", next)
			})
		},
	}

	quiet := &cobra.Command{
		Use:   "quiet",
		Short: "Toggle quiet mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, opts, func(c *config.Config) string {
				c.QuietMode = !c.QuietMode
				if c.QuietMode {
					return i18n.T("config.quiet_enabled")
				}
				return i18n.T("config.quiet_disabled")
			})
		},
	}

	google := newSwitchCmd(opts, "google", "Enable or disable Google Calendar", "config.google_status",
		func(c *config.Config, on bool) { c.Google.Enabled = on })
	outlook := newSwitchCmd(opts, "outlook", "Enable or disable Outlook Calendar", "config.outlook_status",
		func(c *config.Config, on bool) { c.Outlook.Enabled = on })
	cacheSwitch := newSwitchCmd(opts, "cache", "Enable or disable response caching", "config.cache_status",
		func(c *config.Config, on bool) { c.Cache.Enabled = on })

	cacheTime := &cobra.Command{
		Use:   "cache-time SECONDS",
		Short: "Set how long fetched events are cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := strconv.Atoi(args[0])
			if err != nil || secs < 1 {
				return fmt.Errorf("cache time must be a positive number of seconds, got %q", args[0])
			}
			return updateConfig(cmd, opts, func(c *config.Config) string {
				c.Cache.TTL = secs
				return i18n.T("config.cache_time_set", secs)
			})
		},
	}

	cmd.AddCommand(show, setTimezone, toggleTimezone, quiet, google, outlook, cacheSwitch, cacheTime)
	return cmd
}

// newSwitchCmd builds an "<name> on|off" subcommand.
func newSwitchCmd(opts *rootOptions, name, short, statusKey string, apply func(*config.Config, bool)) *cobra.Command {
	return &cobra.Command{
		Use:       name + " on|off",
		Short:     short,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			on, err := parseOnOff(args[0])
			if err != nil {
				return err
			}
			state := i18n.T("config.disabled")
			if on {
				state = i18n.T("config.enabled")
			}
			return updateConfig(cmd, opts, func(c *config.Config) string {
				apply(c, on)
				return i18n.T(statusKey, state)
			})
		},
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, errors.New(i18n.T("error.on_off", s))
}

func isAlias(name string) bool {
	switch name {
	case "EST", "EDT", "CST", "CDT", "MST", "MDT", "PST", "PDT", "UTC", "GMT":
		return true
	}
	return false
}

// updateConfig applies change to the config file as written, without the
// environment and flag overrides of this run, saves it and prints the
// message change returns.
func updateConfig(cmd *cobra.Command, opts *rootOptions, change func(*config.Config) string) error {
	var path *string
	if opts.cfgPath != "" {
		path = &opts.cfgPath
	}
	fileCfg, _, err := config.LoadFile[config.Config](config.Defaults(), path)
	if err != nil {
		return errors.New(i18n.T("config.error_load", err))
	}
	msg := change(&fileCfg)
	if err := saveConfig(opts, &fileCfg); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
