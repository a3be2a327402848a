// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay lines placed at (anchorX, anchorY). Truncation is ANSI-aware
// so the view's escape sequences survive on both sides of the overlay.
// Overlay lines that fall outside the view are dropped.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}
	if anchorX < 0 {
		anchorX = 0
	}

	viewLines := strings.Split(view, "\n")
	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}

		original := viewLines[row]
		originalWidth := ansi.StringWidth(original)

		var line strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(original, anchorX, "")
			line.WriteString(prefix)
			// Short view lines are padded so the overlay lands at its
			// column.
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				line.WriteString(strings.Repeat(" ", gap))
			}
		}
		line.WriteString("\x1b[0m")
		line.WriteString(overlayLine)
		line.WriteString("\x1b[0m")

		suffixStart := anchorX + ansi.StringWidth(overlayLine)
		if suffixStart < originalWidth {
			line.WriteString(ansi.TruncateLeft(original, suffixStart, ""))
		}
		viewLines[row] = line.String()
	}
	return strings.Join(viewLines, "\n")
}

// PadOverlayLine pads styled content to innerWidth and adds one column
// of background on each side, so every line of an overlay has the
// same visible width.
func PadOverlayLine(styledContent string, innerWidth int, background lipgloss.Style) string {
	rightPad := innerWidth - ansi.StringWidth(styledContent)
	if rightPad < 0 {
		styledContent = ansi.Truncate(styledContent, innerWidth, "…")
		rightPad = 0
	}
	return background.Render(" ") + styledContent + background.Render(strings.Repeat(" ", rightPad+1))
}

// CenterAnchor returns the top-left position that centers a block of
// lines on a screen of the given size, clamped to the screen origin.
func CenterAnchor(lines []string, screenWidth, screenHeight int) (int, int) {
	width := 0
	for _, line := range lines {
		if lineWidth := ansi.StringWidth(line); lineWidth > width {
			width = lineWidth
		}
	}
	anchorX := (screenWidth - width) / 2
	anchorY := (screenHeight - len(lines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}
	return anchorX, anchorY
}

// DimView renders every line of a view in the faint color, used as
// the backdrop behind a modal dialog.
func DimView(view string, theme Theme) string {
	faint := lipgloss.NewStyle().Foreground(theme.DisabledText)
	lines := strings.Split(view, "\n")
	for index, line := range lines {
		lines[index] = faint.Render(ansi.Strip(line))
	}
	return strings.Join(lines, "\n")
}
