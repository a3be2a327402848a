// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/waymark-travel/waymark/lib/roving"
)

// KeyMap holds the widget key bindings.
type KeyMap struct {
	Roving roving.KeyMap

	// Activate presses the focused button or link.
	Activate key.Binding

	// Dismiss closes dialogs and popup lists.
	Dismiss key.Binding

	// Open opens a closed dropdown.
	Open key.Binding

	// RemoveLast removes the last chip of an empty multi-select query.
	RemoveLast key.Binding

	// Scroll keys for scrollable regions.
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
}

// DefaultKeyMap is the built-in binding set.
var DefaultKeyMap = KeyMap{
	Roving: roving.DefaultKeyMap,
	Activate: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "activate"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Open: key.NewBinding(
		key.WithKeys("down", "up", "alt+down", "enter", " "),
		key.WithHelp("↓", "open"),
	),
	RemoveLast: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("⌫", "remove last"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓", "scroll down"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown", " "),
		key.WithHelp("pgdn", "page down"),
	),
}

// ShortHelp returns the bindings shown in the help line.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Roving.Right, keys.Activate, keys.Dismiss}
}

// FullHelp returns every binding, grouped.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Roving.Left, keys.Roving.Right, keys.Roving.Up, keys.Roving.Down, keys.Roving.Home, keys.Roving.End},
		{keys.Activate, keys.Dismiss, keys.Open, keys.RemoveLast},
		{keys.ScrollUp, keys.ScrollDown, keys.PageUp, keys.PageDown},
	}
}
