// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides the shared terminal rendering layer for
// waymark's widgets. Built on lipgloss and x/ansi, it handles the
// pieces every widget needs: the color theme (including the
// high-contrast variant and WCAG contrast checks), overlay splicing
// for modals and popup lists, scrollbars, spring transitions,
// markdown panel content, and a slog handler that routes records into
// the running program.
//
// Widgets own their state and layout; this package owns how things
// look.
package tui
