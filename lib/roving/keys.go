// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package roving

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Orientation selects which arrow keys move the selection.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
	Both
)

// Activation selects whether focus implies commit.
type Activation int

const (
	// Automatic commits on every focus move (tabs, carousels).
	Automatic Activation = iota
	// Manual commits only on Enter or Space (listboxes).
	Manual
)

// KeyMap holds the roving key bindings.
type KeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Commit key.Binding
}

// DefaultKeyMap uses arrows, Home/End, and Enter/Space. Letter keys
// are left alone so searchable widgets can type them.
var DefaultKeyMap = KeyMap{
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp("←", "previous"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp("→", "next"),
	),
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next"),
	),
	Home: key.NewBinding(
		key.WithKeys("home"),
		key.WithHelp("home", "first"),
	),
	End: key.NewBinding(
		key.WithKeys("end"),
		key.WithHelp("end", "last"),
	),
	Commit: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "select"),
	),
}

// Config parameterizes HandleKey for one widget.
type Config struct {
	Orientation Orientation
	Activation  Activation

	// RightToLeft swaps Left and Right for horizontal movement.
	RightToLeft bool

	Keys KeyMap
}

// Result reports what a key press did.
type Result struct {
	// Handled is true when the key is a roving key for this
	// orientation, even if nothing moved (an empty selection, or Enter
	// under automatic activation).
	Handled bool

	Moved     bool
	Committed bool
}

// HandleKey applies one key press.
func (selection *Selection) HandleKey(msg tea.KeyMsg, config Config) Result {
	keys := config.Keys
	horizontal := config.Orientation != Vertical
	vertical := config.Orientation != Horizontal

	next, previous := keys.Right, keys.Left
	if config.RightToLeft {
		next, previous = keys.Left, keys.Right
	}

	var result Result
	switch {
	case horizontal && key.Matches(msg, next), vertical && key.Matches(msg, keys.Down):
		result = Result{Handled: true, Moved: selection.Next()}
	case horizontal && key.Matches(msg, previous), vertical && key.Matches(msg, keys.Up):
		result = Result{Handled: true, Moved: selection.Prev()}
	case key.Matches(msg, keys.Home):
		result = Result{Handled: true, Moved: selection.First()}
	case key.Matches(msg, keys.End):
		result = Result{Handled: true, Moved: selection.Last()}
	case key.Matches(msg, keys.Commit):
		if config.Activation == Automatic {
			return Result{Handled: true}
		}
		return Result{Handled: true, Committed: selection.Commit()}
	default:
		return Result{}
	}

	if result.Moved && config.Activation == Automatic {
		result.Committed = selection.Commit()
	}
	return result
}
