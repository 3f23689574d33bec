// Copyright (c) 2026 Avail Team
// Avail - calendar availability checker
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists avail's settings. Values come from, in
// increasing precedence: built-in defaults, the YAML config file, AVAIL_*
// environment variables and bound command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const appName = "avail"

// Config is the full set of persisted settings.
type Config struct {
	DefaultTimezone string        `mapstructure:"default_timezone" yaml:"default_timezone"`
	QuietMode       bool          `mapstructure:"quiet_mode" yaml:"quiet_mode"`
	Language        string        `mapstructure:"language" yaml:"language"`
	ShowEmptyDays   bool          `mapstructure:"show_empty_days" yaml:"show_empty_days"`
	SlotMinutes     int           `mapstructure:"slot_minutes" yaml:"slot_minutes"`
	FetchTimeout    int           `mapstructure:"fetch_timeout" yaml:"fetch_timeout"`
	WorkHours       WorkHours     `mapstructure:"work_hours" yaml:"work_hours"`
	Google          GoogleConfig  `mapstructure:"google" yaml:"google"`
	Outlook         OutlookConfig `mapstructure:"outlook" yaml:"outlook"`
	File            FileConfig    `mapstructure:"file" yaml:"file"`
	Cache           CacheConfig   `mapstructure:"cache" yaml:"cache"`
}

// WorkHours bound professional mode, in whole hours.
type WorkHours struct {
	Start int `mapstructure:"start" yaml:"start"`
	End   int `mapstructure:"end" yaml:"end"`
}

// GoogleConfig configures the Google Calendar source.
type GoogleConfig struct {
	Enabled         bool    `mapstructure:"enabled" yaml:"enabled"`
	CredentialsFile string  `mapstructure:"credentials_file" yaml:"credentials_file"`
	TokenFile       string  `mapstructure:"token_file" yaml:"token_file"`
	RatePerSecond   float64 `mapstructure:"rate_per_second" yaml:"rate_per_second"`
}

// OutlookConfig configures the Microsoft Graph calendar source.
type OutlookConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	ClientID  string `mapstructure:"client_id" yaml:"client_id"`
	Tenant    string `mapstructure:"tenant" yaml:"tenant"`
	TokenFile string `mapstructure:"token_file" yaml:"token_file"`
}

// FileConfig configures the static YAML busy-event source.
type FileConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// CacheConfig selects and tunes the fetch cache.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled" yaml:"enabled"`
	TTL     int         `mapstructure:"ttl" yaml:"ttl"`
	Backend string      `mapstructure:"backend" yaml:"backend"`
	Dir     string      `mapstructure:"dir" yaml:"dir"`
	DSN     string      `mapstructure:"dsn" yaml:"dsn"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig is used by the redis cache backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// Defaults returns the built-in values, keyed the way viper expects them.
func Defaults() map[string]any {
	return map[string]any{
		"default_timezone":        "EST",
		"quiet_mode":              true,
		"language":                "en",
		"show_empty_days":         false,
		"slot_minutes":            15,
		"fetch_timeout":           30,
		"work_hours.start":        9,
		"work_hours.end":          17,
		"google.enabled":          true,
		"google.credentials_file": "",
		"google.token_file":       "",
		"google.rate_per_second":  5.0,
		"outlook.enabled":         true,
		"outlook.client_id":       "",
		"outlook.tenant":          "common",
		"outlook.token_file":      "",
		"file.enabled":            false,
		"file.path":               "",
		"cache.enabled":           true,
		"cache.ttl":               300,
		"cache.backend":           "file",
		"cache.dir":               "",
		"cache.dsn":               "",
		"cache.redis.addr":        "localhost:6379",
		"cache.redis.password":    "",
		"cache.redis.db":          0,
		"cache.redis.prefix":      appName,
	}
}

// Dir returns the per-user directory holding the config file, tokens and
// the file cache.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not get user config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Avail")
		default: // Linux, macOS, etc.
			configDir = "/etc/avail"
		}
	} else {
		configDir, err = Dir()
		if err != nil {
			return "", err
		}
	}

	return filepath.Join(configDir, appName+".yaml"), nil
}

// LoadConfig reads the configuration into T. A missing config file is
// reported as viper.ConfigFileNotFoundError together with a T populated from
// defaults, environment and flags, so callers can decide to write one.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, string, error) {
	var c T
	v, used, notFound, err := readFileLayer(defaults, additionalConfigFilePath)
	if err != nil {
		return c, "", err
	}

	// 5. Read from environment variables
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)

	// 6. Command-line flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, "", err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", err
	}

	return c, used, notFound
}

// LoadFile reads only defaults and the config file into T. Environment
// variables and flags are ignored, which makes the result safe to write
// back. A missing file yields the defaults without an error.
func LoadFile[T any](defaults map[string]any, additionalConfigFilePath *string) (T, string, error) {
	var c T
	v, used, _, err := readFileLayer(defaults, additionalConfigFilePath)
	if err != nil {
		return c, "", err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, "", err
	}
	return c, used, nil
}

// readFileLayer sets up a viper instance holding defaults and the config
// file. notFound is the viper.ConfigFileNotFoundError of a first run.
func readFileLayer(defaults map[string]any, additionalConfigFilePath *string) (v *viper.Viper, used string, notFound error, err error) {
	v = viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName(appName)
	v.SetConfigType("yaml")

	// 3. An explicit --config path wins over the search paths.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 4. Read in the primary config file.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, "", nil, err
		}
		notFound = err
		// The JSON config written by earlier releases is honoured when no
		// YAML file exists yet.
		if mergeLegacyConfig(v) {
			notFound = nil
		}
		return v, "", notFound, nil
	}
	return v, v.ConfigFileUsed(), nil, nil
}

// legacyConfigPath is where the JSON configuration of earlier releases lives.
func legacyConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// mergeLegacyConfig merges config.json from the config directory into v if
// present. A malformed legacy file is ignored.
func mergeLegacyConfig(v *viper.Viper) bool {
	legacy, err := legacyConfigPath()
	if err != nil {
		return false
	}
	if _, err := os.Stat(legacy); err != nil {
		return false
	}
	v.SetConfigFile(legacy)
	v.SetConfigType("json")
	if err := v.MergeInConfig(); err != nil {
		return false
	}
	for old, key := range legacyKeys {
		if v.InConfig(old) {
			v.Set(key, v.Get(old))
		}
	}
	return true
}

// legacyKeys maps the flat keys of config.json to their current names.
var legacyKeys = map[string]string{
	"use_google_calendar":  "google.enabled",
	"use_outlook_calendar": "outlook.enabled",
	"use_cache":            "cache.enabled",
	"cache_expiration":     "cache.ttl",
}

// WriteConfigFile writes c to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}
	return path, WriteConfigFileTo(c, path)
}

// WriteConfigFileTo writes c as YAML to path, creating parent directories.
func WriteConfigFileTo[T any](c *T, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may hold a redis password or OAuth client id.
	return os.WriteFile(path, data, 0o600)
}

// ResolvePaths fills empty file locations with their defaults under the
// config directory.
func (c *Config) ResolvePaths() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	setDefault := func(p *string, name string) {
		if strings.TrimSpace(*p) == "" {
			*p = filepath.Join(dir, name)
		}
	}
	setDefault(&c.Google.CredentialsFile, "google_credentials.json")
	setDefault(&c.Google.TokenFile, "google_token.json")
	setDefault(&c.Outlook.TokenFile, "outlook_token.json")
	setDefault(&c.Cache.Dir, "cache")
	if c.Cache.Backend == "sqlite" {
		setDefault(&c.Cache.DSN, "cache.db")
	}
	return nil
}
