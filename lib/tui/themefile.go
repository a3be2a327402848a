// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
)

// themeFile is the TOML layout of a theme override. Empty values keep
// the base theme's color.
type themeFile struct {
	Name    string           `toml:"name"`
	Text    themeFileText    `toml:"text"`
	Surface themeFileSurface `toml:"surface"`
	Chrome  themeFileChrome  `toml:"chrome"`
	Status  themeFileStatus  `toml:"status"`
	Code    themeFileCode    `toml:"code"`
}

type themeFileText struct {
	Normal   string `toml:"normal"`
	Faint    string `toml:"faint"`
	Disabled string `toml:"disabled"`
	Help     string `toml:"help"`
}

type themeFileSurface struct {
	Background         string `toml:"background"`
	Overlay            string `toml:"overlay"`
	SelectedBackground string `toml:"selected_background"`
	SelectedForeground string `toml:"selected_foreground"`
	ChipBackground     string `toml:"chip_background"`
	ChipForeground     string `toml:"chip_foreground"`
	MatchHighlight     string `toml:"match_highlight"`
}

type themeFileChrome struct {
	Header    string `toml:"header"`
	Border    string `toml:"border"`
	Accent    string `toml:"accent"`
	FocusRing string `toml:"focus_ring"`
}

type themeFileStatus struct {
	Info    string `toml:"info"`
	Success string `toml:"success"`
	Warning string `toml:"warning"`
	Danger  string `toml:"danger"`
}

type themeFileCode struct {
	Style string `toml:"style"`
}

// colorPattern accepts "#rrggbb" or an ANSI 256 index.
var colorPattern = regexp.MustCompile(`^(#[0-9a-fA-F]{6}|[0-9]{1,2}|1[0-9]{2}|2[0-4][0-9]|25[0-5])$`)

// LoadThemeFile reads a TOML theme override and applies it over base.
func LoadThemeFile(path string, base Theme) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("reading theme: %w", err)
	}
	theme, err := ParseTheme(data, base)
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", path, err)
	}
	return theme, nil
}

// ParseTheme decodes a TOML theme override and applies it over base.
// Unknown keys and malformed colors are errors.
func ParseTheme(data []byte, base Theme) (Theme, error) {
	var file themeFile
	metadata, err := toml.Decode(string(data), &file)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for index, key := range undecoded {
			keys[index] = key.String()
		}
		return Theme{}, fmt.Errorf("theme: unknown keys: %s", strings.Join(keys, ", "))
	}

	theme := base
	if file.Name != "" {
		theme.Name = file.Name
	}

	overrides := []struct {
		key    string
		value  string
		target *lipgloss.Color
	}{
		{"text.normal", file.Text.Normal, &theme.NormalText},
		{"text.faint", file.Text.Faint, &theme.FaintText},
		{"text.disabled", file.Text.Disabled, &theme.DisabledText},
		{"text.help", file.Text.Help, &theme.HelpText},
		{"surface.background", file.Surface.Background, &theme.Background},
		{"surface.overlay", file.Surface.Overlay, &theme.OverlayBackground},
		{"surface.selected_background", file.Surface.SelectedBackground, &theme.SelectedBackground},
		{"surface.selected_foreground", file.Surface.SelectedForeground, &theme.SelectedForeground},
		{"surface.chip_background", file.Surface.ChipBackground, &theme.ChipBackground},
		{"surface.chip_foreground", file.Surface.ChipForeground, &theme.ChipForeground},
		{"surface.match_highlight", file.Surface.MatchHighlight, &theme.MatchHighlightBackground},
		{"chrome.header", file.Chrome.Header, &theme.HeaderForeground},
		{"chrome.border", file.Chrome.Border, &theme.BorderColor},
		{"chrome.accent", file.Chrome.Accent, &theme.Accent},
		{"chrome.focus_ring", file.Chrome.FocusRing, &theme.FocusRing},
		{"status.info", file.Status.Info, &theme.Info},
		{"status.success", file.Status.Success, &theme.Success},
		{"status.warning", file.Status.Warning, &theme.Warning},
		{"status.danger", file.Status.Danger, &theme.Danger},
	}
	for _, override := range overrides {
		if override.value == "" {
			continue
		}
		if !colorPattern.MatchString(override.value) {
			return Theme{}, fmt.Errorf("theme: %s: invalid color %q (want #rrggbb or 0-255)", override.key, override.value)
		}
		*override.target = lipgloss.Color(override.value)
	}

	if file.Code.Style != "" {
		theme.CodeStyle = file.Code.Style
	}
	return theme, nil
}
