// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderScrollbar produces a single-column scrollbar of the given
// height. The thumb shows the visible region within the total content
// and spans the whole track when everything fits. The thumb uses the
// focus ring color when focused.
func RenderScrollbar(theme Theme, height, totalItems, visibleItems, scrollOffset int, focused bool) string {
	if height <= 0 {
		return ""
	}

	thumbColor := theme.BorderColor
	if focused {
		thumbColor = theme.FocusRing
	}
	trackStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)
	thumbStyle := lipgloss.NewStyle().Foreground(thumbColor)

	thumbOffset, thumbSize := ScrollThumb(height, totalItems, visibleItems, scrollOffset)

	lines := make([]string, height)
	for index := range lines {
		if index >= thumbOffset && index < thumbOffset+thumbSize {
			lines[index] = thumbStyle.Render("┃")
		} else {
			lines[index] = trackStyle.Render("│")
		}
	}
	return strings.Join(lines, "\n")
}

// ScrollThumb returns the thumb position and size for a track of the
// given height. The thumb is at least one row.
func ScrollThumb(height, totalItems, visibleItems, scrollOffset int) (int, int) {
	if height <= 0 {
		return 0, 0
	}
	if totalItems <= visibleItems || totalItems <= 0 {
		return 0, height
	}

	thumbSize := height * visibleItems / totalItems
	if thumbSize < 1 {
		thumbSize = 1
	}

	scrollableRange := totalItems - visibleItems
	trackRange := height - thumbSize
	thumbOffset := 0
	if scrollableRange > 0 && trackRange > 0 {
		thumbOffset = scrollOffset * trackRange / scrollableRange
	}
	if thumbOffset < 0 {
		thumbOffset = 0
	}
	if thumbOffset+thumbSize > height {
		thumbOffset = height - thumbSize
	}
	return thumbOffset, thumbSize
}
