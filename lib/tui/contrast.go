// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// WCAG 2.x contrast thresholds.
const (
	ContrastAA      = 4.5
	ContrastAALarge = 3.0
	ContrastAAA     = 7.0
)

// ansiBase is the xterm palette for the 16 standard colors. Indices
// 16-255 are computed (6x6x6 cube and grayscale ramp).
var ansiBase = [16]string{
	"#000000", "#800000", "#008000", "#808000",
	"#000080", "#800080", "#008080", "#c0c0c0",
	"#808080", "#ff0000", "#00ff00", "#ffff00",
	"#0000ff", "#ff00ff", "#00ffff", "#ffffff",
}

// ResolveColor converts a lipgloss color (hex or ANSI 256 index) to a
// colorful.Color.
func ResolveColor(color lipgloss.Color) (colorful.Color, error) {
	value := strings.TrimSpace(string(color))
	if strings.HasPrefix(value, "#") {
		parsed, err := colorful.Hex(value)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("color %q: %w", value, err)
		}
		return parsed, nil
	}

	index, err := strconv.Atoi(value)
	if err != nil || index < 0 || index > 255 {
		return colorful.Color{}, fmt.Errorf("color %q: not a hex color or ANSI 256 index", value)
	}
	parsed, _ := colorful.Hex(ansi256Hex(index))
	return parsed, nil
}

func ansi256Hex(index int) string {
	switch {
	case index < 16:
		return ansiBase[index]
	case index < 232:
		levels := [6]int{0, 95, 135, 175, 215, 255}
		cube := index - 16
		return fmt.Sprintf("#%02x%02x%02x", levels[cube/36], levels[(cube/6)%6], levels[cube%6])
	default:
		gray := 8 + 10*(index-232)
		return fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
	}
}

// relativeLuminance is the WCAG relative luminance of a color.
func relativeLuminance(color colorful.Color) float64 {
	red, green, blue := color.LinearRgb()
	return 0.2126*red + 0.7152*green + 0.0722*blue
}

// ContrastRatio returns the WCAG contrast ratio between two colors,
// from 1 (identical luminance) to 21 (black on white).
func ContrastRatio(foreground, background lipgloss.Color) (float64, error) {
	first, err := ResolveColor(foreground)
	if err != nil {
		return 0, err
	}
	second, err := ResolveColor(background)
	if err != nil {
		return 0, err
	}

	lighter := relativeLuminance(first)
	darker := relativeLuminance(second)
	if lighter < darker {
		lighter, darker = darker, lighter
	}
	return (lighter + 0.05) / (darker + 0.05), nil
}

// Validate checks every text/surface pair the widgets render against
// the minimum contrast ratio. All failing pairs are reported.
func (theme Theme) Validate(minimum float64) error {
	pairs := []struct {
		name                   string
		foreground, background lipgloss.Color
	}{
		{"text on background", theme.NormalText, theme.Background},
		{"header on background", theme.HeaderForeground, theme.Background},
		{"text on overlay", theme.NormalText, theme.OverlayBackground},
		{"selection", theme.SelectedForeground, theme.SelectedBackground},
		{"chip", theme.ChipForeground, theme.ChipBackground},
	}

	var errs []error
	for _, pair := range pairs {
		ratio, err := ContrastRatio(pair.foreground, pair.background)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", pair.name, err))
			continue
		}
		if ratio < minimum {
			errs = append(errs, fmt.Errorf("%s: contrast %.2f:1 below %.1f:1", pair.name, ratio, minimum))
		}
	}
	return errors.Join(errs...)
}
