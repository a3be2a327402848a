// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"github.com/waymark-travel/waymark/lib/announce"
	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/roving"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
)

// ErrRequired is returned by Validate when a required value is empty.
var ErrRequired = errors.New("a value is required")

// Timing holds the delays widgets schedule.
type Timing struct {
	FocusYield       time.Duration
	SkipLinkCleanup  time.Duration
	AutoplayInterval time.Duration
	AnimationFrame   time.Duration
}

// DefaultTiming matches the configuration defaults.
var DefaultTiming = Timing{
	FocusYield:       10 * time.Millisecond,
	SkipLinkCleanup:  time.Second,
	AutoplayInterval: 5 * time.Second,
	AnimationFrame:   16 * time.Millisecond,
}

// LoaderSettings holds incremental loader defaults.
type LoaderSettings struct {
	PageSize       int
	SentinelMargin int
}

// Env is the set of collaborators shared by every widget on a page.
type Env struct {
	Document    *document.Document
	Preferences preference.View
	Announcer   *announce.Announcer
	Scheduler   *schedule.Scheduler

	// Zones marks mouse regions in rendered output. Optional: without
	// it widgets render unmarked and only keyboard input works.
	Zones *zone.Manager

	Logger *slog.Logger
	Timing Timing
	Loader LoaderSettings
	Keys   KeyMap
}

// withDefaults fills unset optional fields.
func (env Env) withDefaults() Env {
	if env.Logger == nil {
		env.Logger = slog.Default()
	}
	if env.Timing == (Timing{}) {
		env.Timing = DefaultTiming
	}
	if env.Loader.PageSize <= 0 {
		env.Loader.PageSize = 10
	}
	if env.Keys.Activate.Keys() == nil {
		env.Keys = DefaultKeyMap
	}
	return env
}

func (env Env) presentation() *document.Presentation {
	return env.Document.Presentation()
}

func (env Env) theme() tui.Theme {
	return env.presentation().Theme()
}

func (env Env) settings() preference.Settings {
	if env.Preferences != nil {
		return env.Preferences.Get()
	}
	return env.presentation().Settings()
}

func (env Env) reducedMotion() bool {
	return env.settings().ReducedMotion
}

// subscribe registers fn for preference changes; the returned cancel
// is always callable.
func (env Env) subscribe(fn func(preference.Settings)) func() {
	if env.Preferences == nil {
		return func() {}
	}
	return env.Preferences.Subscribe(fn)
}

func (env Env) announce(text string) {
	if env.Announcer != nil {
		env.Announcer.Announce(text)
	}
}

func (env Env) announceAssertive(text string) {
	if env.Announcer != nil {
		env.Announcer.AnnounceAssertive(text)
	}
}

// after schedules a message, or returns nil without a scheduler.
func (env Env) after(d time.Duration, build func(schedule.TimerID) tea.Msg) *schedule.Timer {
	if env.Scheduler == nil {
		return nil
	}
	return env.Scheduler.After(d, build)
}

// mark wraps rendered text in a mouse zone.
func (env Env) mark(id, rendered string) string {
	if env.Zones == nil {
		return rendered
	}
	return env.Zones.Mark(id, rendered)
}

func (env Env) rovingConfig(orientation roving.Orientation, activation roving.Activation) roving.Config {
	return roving.Config{
		Orientation: orientation,
		Activation:  activation,
		RightToLeft: env.presentation().Direction() == document.RightToLeft,
		Keys:        env.Keys.Roving,
	}
}

// focusStyle decorates a rendered control that holds focus, when
// focus indicators are visible.
func (env Env) focusStyle(node *document.Node, style lipgloss.Style) lipgloss.Style {
	if node.Focused() && env.presentation().FocusVisible() {
		return style.Foreground(env.theme().FocusRing).Bold(true).Underline(true)
	}
	return style
}

// focusMarker returns the gutter marker for a control.
func (env Env) focusMarker(node *document.Node) string {
	if node.Focused() && env.presentation().FocusVisible() {
		return "▸"
	}
	return " "
}

// srText returns text only in screen-reader mode.
func (env Env) srText(text string) string {
	if env.presentation().ScreenReader() {
		return text
	}
	return ""
}

// newPrefix returns a unique node ID prefix for one widget instance.
func newPrefix(kind string) string {
	return kind + "-" + uuid.NewString()[:8]
}
