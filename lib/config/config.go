// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "WAYMARK_CONFIG"

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Production is for installed builds.
	Production Environment = "production"
)

// Signal policies accepted by preferences.signal_policy.
const (
	PolicyRespectOverride = "respect-override"
	PolicyFollowSystem    = "follow-system"
)

// Config is the master configuration.
type Config struct {
	// Environment identifies the deployment type.
	Environment Environment `yaml:"environment"`

	Paths       PathsConfig       `yaml:"paths"`
	Preferences PreferencesConfig `yaml:"preferences"`
	Timing      TimingConfig      `yaml:"timing"`
	Loader      LoaderConfig      `yaml:"loader"`
	Log         LogConfig         `yaml:"log"`

	// Per-environment overrides, applied after the base config.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Paths  *PathsConfig  `yaml:"paths,omitempty"`
	Timing *TimingConfig `yaml:"timing,omitempty"`
	Log    *LogConfig    `yaml:"log,omitempty"`
}

// PathsConfig configures file locations.
type PathsConfig struct {
	// State is the key-value store file holding persisted settings.
	State string `yaml:"state"`

	// Signals is the watched media-signal file. Empty disables the
	// watcher.
	Signals string `yaml:"signals"`

	// Theme is an optional TOML theme override.
	Theme string `yaml:"theme"`
}

// PreferencesConfig configures the accessibility preference store.
type PreferencesConfig struct {
	// StorageKey is the key the settings blob is persisted under.
	// Default: accessibility-settings
	StorageKey string `yaml:"storage_key"`

	// SignalPolicy decides whether live OS signal changes may
	// overwrite an explicit user choice.
	// Values: "respect-override", "follow-system"
	SignalPolicy string `yaml:"signal_policy"`
}

// TimingConfig holds every delay the widget layer schedules.
type TimingConfig struct {
	// AnnouncementTTL is how long each live-region entry survives.
	AnnouncementTTL Duration `yaml:"announcement_ttl"`

	// FocusYield is the delay between activating a focus scope and
	// moving focus into it.
	FocusYield Duration `yaml:"focus_yield"`

	// SkipLinkCleanup is how long a skip-link target keeps its
	// temporary tabindex.
	SkipLinkCleanup Duration `yaml:"skip_link_cleanup"`

	// AutoplayInterval is the default carousel rotation interval.
	AutoplayInterval Duration `yaml:"autoplay_interval"`

	// AnimationFrame is the transition frame period.
	AnimationFrame Duration `yaml:"animation_frame"`
}

// LoaderConfig configures incremental loaders.
type LoaderConfig struct {
	// PageSize is the number of items each page reveals.
	PageSize int `yaml:"page_size"`

	// SentinelMargin is how many rows below the visible region still
	// count as "in view" for the loader sentinel.
	SentinelMargin int `yaml:"sentinel_margin"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Duration is a time.Duration that reads from YAML strings like
// "250ms" or "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return fmt.Errorf("line %d: duration must be a string: %w", node.Line, err)
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	stateRoot := filepath.Join(homeDir, ".local", "state", "waymark")

	return &Config{
		Environment: Development,
		Paths: PathsConfig{
			State: filepath.Join(stateRoot, "settings.kv"),
		},
		Preferences: PreferencesConfig{
			StorageKey:   "accessibility-settings",
			SignalPolicy: PolicyRespectOverride,
		},
		Timing: TimingConfig{
			AnnouncementTTL:  Duration(time.Second),
			FocusYield:       Duration(10 * time.Millisecond),
			SkipLinkCleanup:  Duration(time.Second),
			AutoplayInterval: Duration(5 * time.Second),
			AnimationFrame:   Duration(16 * time.Millisecond),
		},
		Loader: LoaderConfig{
			PageSize:       10,
			SentinelMargin: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the WAYMARK_CONFIG environment
// variable. It fails when the variable is not set; callers that can
// run on defaults check the variable themselves.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your waymark.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merged over
// [Default].
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.applyEnvironmentOverrides()
	cfg.expandVariables()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Production:
		overrides = c.Production
	}

	if overrides == nil {
		return
	}

	if overrides.Paths != nil {
		if overrides.Paths.State != "" {
			c.Paths.State = overrides.Paths.State
		}
		if overrides.Paths.Signals != "" {
			c.Paths.Signals = overrides.Paths.Signals
		}
		if overrides.Paths.Theme != "" {
			c.Paths.Theme = overrides.Paths.Theme
		}
	}

	if overrides.Timing != nil {
		override := func(target *Duration, value Duration) {
			if value != 0 {
				*target = value
			}
		}
		override(&c.Timing.AnnouncementTTL, overrides.Timing.AnnouncementTTL)
		override(&c.Timing.FocusYield, overrides.Timing.FocusYield)
		override(&c.Timing.SkipLinkCleanup, overrides.Timing.SkipLinkCleanup)
		override(&c.Timing.AutoplayInterval, overrides.Timing.AutoplayInterval)
		override(&c.Timing.AnimationFrame, overrides.Timing.AnimationFrame)
	}

	if overrides.Log != nil && overrides.Log.Level != "" {
		c.Log.Level = overrides.Log.Level
	}
}

func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Paths.State = expandVars(c.Paths.State, vars)
	c.Paths.Signals = expandVars(c.Paths.Signals, vars)
	c.Paths.Theme = expandVars(c.Paths.Theme, vars)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Provided vars first, then the process environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}
	if c.Paths.State == "" {
		errs = append(errs, errors.New("paths.state is required"))
	}
	if c.Preferences.StorageKey == "" {
		errs = append(errs, errors.New("preferences.storage_key is required"))
	}
	if c.Preferences.SignalPolicy != PolicyRespectOverride && c.Preferences.SignalPolicy != PolicyFollowSystem {
		errs = append(errs, fmt.Errorf("preferences.signal_policy must be one of: %s, %s",
			PolicyRespectOverride, PolicyFollowSystem))
	}

	positive := []struct {
		name  string
		value Duration
	}{
		{"timing.announcement_ttl", c.Timing.AnnouncementTTL},
		{"timing.skip_link_cleanup", c.Timing.SkipLinkCleanup},
		{"timing.autoplay_interval", c.Timing.AutoplayInterval},
		{"timing.animation_frame", c.Timing.AnimationFrame},
	}
	for _, field := range positive {
		if field.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", field.name))
		}
	}
	if c.Timing.FocusYield < 0 {
		errs = append(errs, errors.New("timing.focus_yield must not be negative"))
	}

	if c.Loader.PageSize <= 0 {
		errs = append(errs, errors.New("loader.page_size must be positive"))
	}
	if c.Loader.SentinelMargin < 0 {
		errs = append(errs, errors.New("loader.sentinel_margin must not be negative"))
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// LogLevel returns the configured slog level. Invalid values (which
// Validate rejects) fall back to Info.
func (c *Config) LogLevel() slog.Level {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// EnsurePaths creates the parent directories of configured files.
func (c *Config) EnsurePaths() error {
	for _, path := range []string{c.Paths.State, c.Paths.Signals} {
		if path == "" {
			continue
		}
		directory := filepath.Dir(path)
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", directory, err)
		}
	}
	return nil
}
