// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "waymark.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Environment != Development {
		t.Errorf("expected environment=development, got %s", cfg.Environment)
	}
	if cfg.Preferences.StorageKey != "accessibility-settings" {
		t.Errorf("expected storage_key=accessibility-settings, got %s", cfg.Preferences.StorageKey)
	}
	if cfg.Timing.AnnouncementTTL.Std() != time.Second {
		t.Errorf("expected announcement_ttl=1s, got %v", cfg.Timing.AnnouncementTTL.Std())
	}
	if cfg.Loader.PageSize != 10 {
		t.Errorf("expected page_size=10, got %d", cfg.Loader.PageSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when WAYMARK_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "WAYMARK_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, `
environment: production
paths:
  state: /test/state.kv
timing:
  autoplay_interval: 7s
loader:
  page_size: 25
`)
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Environment != Production {
		t.Errorf("expected environment=production, got %s", cfg.Environment)
	}
	if cfg.Paths.State != "/test/state.kv" {
		t.Errorf("expected state=/test/state.kv, got %s", cfg.Paths.State)
	}
	if cfg.Timing.AutoplayInterval.Std() != 7*time.Second {
		t.Errorf("expected autoplay_interval=7s, got %v", cfg.Timing.AutoplayInterval.Std())
	}
	// Unset fields keep their defaults.
	if cfg.Timing.FocusYield.Std() != 10*time.Millisecond {
		t.Errorf("expected focus_yield default, got %v", cfg.Timing.FocusYield.Std())
	}
	if cfg.Loader.PageSize != 25 {
		t.Errorf("expected page_size=25, got %d", cfg.Loader.PageSize)
	}
}

func TestLoadFile_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
log:
  level: info
timing:
  announcement_ttl: 1s
development:
  log:
    level: debug
  timing:
    announcement_ttl: 3s
production:
  log:
    level: error
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected development override level=debug, got %s", cfg.Log.Level)
	}
	if cfg.LogLevel() != slog.LevelDebug {
		t.Errorf("expected LogLevel()=debug, got %v", cfg.LogLevel())
	}
	if cfg.Timing.AnnouncementTTL.Std() != 3*time.Second {
		t.Errorf("expected announcement_ttl=3s, got %v", cfg.Timing.AnnouncementTTL.Std())
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	t.Setenv("HOME", "/home/traveller")
	t.Setenv("WAYMARK_SIGNALS", "")

	path := writeConfig(t, `
paths:
  state: ${HOME}/.waymark/settings.kv
  signals: ${WAYMARK_SIGNALS:-/run/waymark/signals}
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Paths.State != "/home/traveller/.waymark/settings.kv" {
		t.Errorf("state = %s", cfg.Paths.State)
	}
	if cfg.Paths.Signals != "/run/waymark/signals" {
		t.Errorf("signals = %s", cfg.Paths.Signals)
	}
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bad duration",
			content: "timing:\n  focus_yield: soon\n",
			want:    "invalid duration",
		},
		{
			name:    "bad policy",
			content: "preferences:\n  signal_policy: sometimes\n",
			want:    "signal_policy",
		},
		{
			name:    "bad page size",
			content: "loader:\n  page_size: 0\n",
			want:    "page_size",
		},
		{
			name:    "bad level",
			content: "log:\n  level: loud\n",
			want:    "log.level",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, test.content))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), test.want) {
				t.Errorf("error %q does not mention %q", err.Error(), test.want)
			}
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEnsurePaths(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Paths.State = filepath.Join(root, "state", "settings.kv")
	cfg.Paths.Signals = filepath.Join(root, "run", "signals")

	if err := cfg.EnsurePaths(); err != nil {
		t.Fatalf("EnsurePaths: %v", err)
	}
	for _, directory := range []string{"state", "run"} {
		if info, err := os.Stat(filepath.Join(root, directory)); err != nil || !info.IsDir() {
			t.Errorf("%s not created: %v", directory, err)
		}
	}
}
