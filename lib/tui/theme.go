// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color palette for waymark's terminal widgets.
// Colors are lipgloss colors: ANSI 256-color codes ("252") or hex
// ("#ffffff"). Both forms are accepted by [ContrastRatio].
type Theme struct {
	// Name identifies the theme in logs and the preferences panel.
	Name string

	// Text colors.
	NormalText   lipgloss.Color
	FaintText    lipgloss.Color
	DisabledText lipgloss.Color
	HelpText     lipgloss.Color

	// Surfaces.
	Background         lipgloss.Color
	OverlayBackground  lipgloss.Color // Modal dialogs and popup lists.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	Accent           lipgloss.Color

	// FocusRing marks the node holding keyboard focus when focus
	// indicators are visible.
	FocusRing lipgloss.Color

	// Multi-select chips.
	ChipBackground lipgloss.Color
	ChipForeground lipgloss.Color

	// Background tint for characters matched by a filter query.
	MatchHighlightBackground lipgloss.Color

	// Modal variants and status.
	Info    lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Danger  lipgloss.Color

	// CodeStyle is the chroma style used for fenced code blocks.
	CodeStyle string
}

// VariantColor returns the accent for a dialog variant name. Unknown
// variants use Accent.
func (theme Theme) VariantColor(variant string) lipgloss.Color {
	switch variant {
	case "info":
		return theme.Info
	case "success":
		return theme.Success
	case "warning":
		return theme.Warning
	case "danger", "error":
		return theme.Danger
	default:
		return theme.Accent
	}
}

// DefaultTheme is the built-in dark-terminal color scheme for
// 256-color terminals with a dark background.
var DefaultTheme = Theme{
	Name: "default",

	NormalText:   lipgloss.Color("252"),
	FaintText:    lipgloss.Color("245"),
	DisabledText: lipgloss.Color("240"),
	HelpText:     lipgloss.Color("241"),

	Background:         lipgloss.Color("234"),
	OverlayBackground:  lipgloss.Color("237"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	Accent:           lipgloss.Color("75"), // blue

	FocusRing: lipgloss.Color("220"), // amber

	ChipBackground: lipgloss.Color("238"),
	ChipForeground: lipgloss.Color("252"),

	MatchHighlightBackground: lipgloss.Color("58"), // dark amber

	Info:    lipgloss.Color("75"),
	Success: lipgloss.Color("114"),
	Warning: lipgloss.Color("220"),
	Danger:  lipgloss.Color("196"),

	CodeStyle: "monokai",
}

// HighContrastTheme is applied while the high-contrast preference is
// set. Every text/background pair clears WCAG AAA (7:1).
var HighContrastTheme = Theme{
	Name: "high-contrast",

	NormalText:   lipgloss.Color("#ffffff"),
	FaintText:    lipgloss.Color("#e0e0e0"),
	DisabledText: lipgloss.Color("#b0b0b0"),
	HelpText:     lipgloss.Color("#e0e0e0"),

	Background:         lipgloss.Color("#000000"),
	OverlayBackground:  lipgloss.Color("#000000"),
	SelectedBackground: lipgloss.Color("#ffff00"),
	SelectedForeground: lipgloss.Color("#000000"),

	HeaderForeground: lipgloss.Color("#ffff00"),
	BorderColor:      lipgloss.Color("#ffffff"),
	Accent:           lipgloss.Color("#00ffff"),

	FocusRing: lipgloss.Color("#ffff00"),

	ChipBackground: lipgloss.Color("#00ffff"),
	ChipForeground: lipgloss.Color("#000000"),

	MatchHighlightBackground: lipgloss.Color("#0000ff"),

	Info:    lipgloss.Color("#00ffff"),
	Success: lipgloss.Color("#00ff00"),
	Warning: lipgloss.Color("#ffff00"),
	Danger:  lipgloss.Color("#ff5f5f"),

	CodeStyle: "bw",
}
