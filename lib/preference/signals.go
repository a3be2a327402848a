// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package preference

import (
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

// Signals reports operating-system accessibility preferences. Each
// method returns the value and whether the source knows it; unknown
// values leave the lower layer in place.
type Signals interface {
	ReducedMotion() (value bool, known bool)
	HighContrast() (value bool, known bool)
}

// SignalChange is a live change of one OS signal.
type SignalChange struct {
	Field Field
	Value bool
}

// SignalChangeMsg carries a SignalChange into the program's event
// loop, where the owner passes it to [Store.ApplySignal].
type SignalChangeMsg struct {
	Change SignalChange
}

// EnvironmentSignals reads preferences from environment variables and
// the terminal's color capability.
//
// Reduced motion comes from WAYMARK_REDUCED_MOTION, then
// REDUCE_MOTION. High contrast comes from WAYMARK_HIGH_CONTRAST, then
// HIGH_CONTRAST; failing those, NO_COLOR or a terminal without color
// support implies high contrast.
type EnvironmentSignals struct {
	Getenv  func(string) string
	NoColor func() bool
	Profile func() termenv.Profile
}

// NewEnvironmentSignals reads the process environment and the
// terminal's detected color profile.
func NewEnvironmentSignals() EnvironmentSignals {
	return EnvironmentSignals{
		Getenv:  os.Getenv,
		NoColor: termenv.EnvNoColor,
		Profile: termenv.EnvColorProfile,
	}
}

// ReducedMotion implements Signals.
func (signals EnvironmentSignals) ReducedMotion() (bool, bool) {
	return signals.flag("WAYMARK_REDUCED_MOTION", "REDUCE_MOTION")
}

// HighContrast implements Signals.
func (signals EnvironmentSignals) HighContrast() (bool, bool) {
	if value, known := signals.flag("WAYMARK_HIGH_CONTRAST", "HIGH_CONTRAST"); known {
		return value, true
	}
	if signals.NoColor != nil && signals.NoColor() {
		return true, true
	}
	if signals.Profile != nil && signals.Profile() == termenv.Ascii {
		return true, true
	}
	return false, false
}

func (signals EnvironmentSignals) flag(names ...string) (bool, bool) {
	if signals.Getenv == nil {
		return false, false
	}
	for _, name := range names {
		raw := strings.TrimSpace(signals.Getenv(name))
		if raw == "" {
			continue
		}
		switch strings.ToLower(raw) {
		case "yes", "on", "reduce", "more":
			return true, true
		case "no", "off", "no-preference":
			return false, true
		}
		if value, err := strconv.ParseBool(raw); err == nil {
			return value, true
		}
	}
	return false, false
}

// FixedSignals reports constant values, used for command-line
// overrides and tests. Nil fields are unknown.
type FixedSignals struct {
	Motion   *bool
	Contrast *bool
}

// ReducedMotion implements Signals.
func (signals FixedSignals) ReducedMotion() (bool, bool) {
	if signals.Motion == nil {
		return false, false
	}
	return *signals.Motion, true
}

// HighContrast implements Signals.
func (signals FixedSignals) HighContrast() (bool, bool) {
	if signals.Contrast == nil {
		return false, false
	}
	return *signals.Contrast, true
}

// Chain combines sources: for each signal the first source that
// knows it wins.
func Chain(sources ...Signals) Signals {
	return chain(sources)
}

type chain []Signals

func (sources chain) ReducedMotion() (bool, bool) {
	for _, source := range sources {
		if source == nil {
			continue
		}
		if value, known := source.ReducedMotion(); known {
			return value, true
		}
	}
	return false, false
}

func (sources chain) HighContrast() (bool, bool) {
	for _, source := range sources {
		if source == nil {
			continue
		}
		if value, known := source.HighContrast(); known {
			return value, true
		}
	}
	return false, false
}

// applySignals layers known signals over base.
func applySignals(base Settings, signals Signals) Settings {
	if signals == nil {
		return base
	}
	if value, known := signals.ReducedMotion(); known {
		base.ReducedMotion = value
	}
	if value, known := signals.HighContrast(); known {
		base.HighContrast = value
	}
	return base
}
