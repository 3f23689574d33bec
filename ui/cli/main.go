// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the root command, its flags and the shared configuration
// loading for every subcommand.

package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/avail/buildvars"
	"github.com/toeirei/avail/internal/clipboard"
	"github.com/toeirei/avail/internal/config"
	"github.com/toeirei/avail/internal/core"
	"github.com/toeirei/avail/internal/i18n"
	"github.com/toeirei/avail/internal/logging"
)

var version = "dev"   // this will be set by the linker
var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

// Replaced in tests.
var (
	clock         core.Clock     = core.SystemClock{}
	clipboardSink clipboard.Sink = clipboard.System{}
)

// rootOptions carries flag values and the loaded configuration from
// PersistentPreRunE to the command that runs.
type rootOptions struct {
	cfgFile      string
	verbose      bool
	professional bool
	pst          bool
	est          bool
	tz           string
	noCopy       bool

	cfg     config.Config
	cfgPath string
}

// Execute runs the CLI entrypoint. The main package should call this
// function and handle process exit.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "avail [days]",
		Short: "Print your free time slots for the next few days.",
		Long: `avail reads busy events from Google Calendar, Outlook and a local file,
and prints the free time slots of the next [days] days (default 3) in a
compact form that is also copied to the clipboard.

Professional mode (-p) only considers 9 AM to 5 PM on weekdays.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupDefaultServices(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts, args)
		},
	}

	v, c, d := resolveBuildVersion(nil)
	compositeVersion := v
	if c != "" && c != "dev" {
		compositeVersion = compositeVersion + " (" + c + ")"
	}
	if d != "" {
		compositeVersion = compositeVersion + " built: " + d
	}
	cmd.Version = compositeVersion

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Show warnings, timings and source errors")
	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `Output language ("en", "de")`)
	cmd.Flags().BoolVarP(&opts.professional, "professional", "p", false, "Only consider 9 AM - 5 PM on weekdays")
	cmd.Flags().BoolVar(&opts.pst, "pst", false, "Use Pacific time")
	cmd.Flags().BoolVar(&opts.est, "est", false, "Use Eastern time")
	cmd.Flags().StringVar(&opts.tz, "tz", "", "Use this IANA zone or alias (e.g. Europe/Berlin, CST)")
	cmd.Flags().BoolVar(&opts.noCopy, "no-copy", false, "Do not copy the result to the clipboard")

	cmd.AddCommand(
		newConfigCmd(opts),
		newCacheCmd(opts),
		newAuthCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

func setupDefaultServices(cmd *cobra.Command, opts *rootOptions) error {
	logging.SetOutput(cmd.ErrOrStderr())

	// Load optional config file argument from cli
	optionalConfigPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	cfg, used, err := config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	// A "file not found" error is expected on first run.
	if err != nil && !errors.As(err, &viper.ConfigFileNotFoundError{}) {
		return errors.New(i18n.T("config.error_load", err))
	}
	if err := cfg.ResolvePaths(); err != nil {
		return err
	}

	i18n.Init(cfg.Language)
	logging.SetVerbose(opts.verbose || !cfg.QuietMode)

	// If no YAML config file was used, persist defaults (or a migrated legacy
	// config) so later runs and `config` subcommands have a file to work on.
	// Environment variables and flags of this run stay out of it.
	if used == "" {
		path, writeErr := writeDefaultConfig(optionalConfigPath)
		if writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Infof("%s", i18n.T("config.written_default", path))
			used = path
		}
	}

	opts.cfg = cfg
	opts.cfgPath = used
	logging.Debugf("using config %s", used)
	return nil
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func writeDefaultConfig(optionalConfigPath *string) (string, error) {
	fileCfg, _, err := config.LoadFile[config.Config](config.Defaults(), optionalConfigPath)
	if err != nil {
		return "", err
	}
	return config.WriteConfigFile(&fileCfg, false)
}

// saveConfig writes c to the file the configuration was loaded from, or to
// the user config path when there is none yet.
func saveConfig(opts *rootOptions, c *config.Config) error {
	if opts.cfgPath == "" {
		path, err := config.WriteConfigFile(c, false)
		if err != nil {
			return errors.New(i18n.T("config.error_save", err))
		}
		opts.cfgPath = path
		return nil
	}
	if err := config.WriteConfigFileTo(c, opts.cfgPath); err != nil {
		return errors.New(i18n.T("config.error_save", err))
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		// No config is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault(version)
	resolvedCommit := buildvars.CommitOrDefault(gitCommit)
	resolvedDate := buildDate
	if buildvars.Date != "" {
		resolvedDate = buildvars.Date
	}

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if (resolvedVersion == "dev" || resolvedVersion == "(devel)") && info.Deps != nil {
			for _, dep := range info.Deps {
				if dep.Path == "github.com/toeirei/avail" && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort show the commit passed via ldflags.
	if resolvedVersion == "dev" && resolvedCommit != "dev" && resolvedCommit != "" {
		resolvedVersion = resolvedCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}
