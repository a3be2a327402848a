// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// Spring parameters for widget transitions: fast and without
// overshoot.
const (
	transitionFrequency = 8.0
	transitionDamping   = 1.0

	// settleThreshold is the distance and speed under which a moving
	// transition snaps to its target.
	settleThreshold = 0.005

	// maxTransitionFrames bounds a transition regardless of spring
	// convergence.
	maxTransitionFrames = 180
)

// Transition animates a scalar (an opacity-like progress from 0 to 1,
// or a slide offset) toward a target with a harmonica spring. The
// owner calls Step once per animation frame and stops scheduling
// frames once Step reports the transition settled.
type Transition struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
	frames   int
	active   bool
}

// NewTransition creates a transition stepping at the given frame
// period.
func NewTransition(frame time.Duration) Transition {
	fps := 60
	if frame > 0 {
		fps = int(time.Second / frame)
		if fps < 1 {
			fps = 1
		}
	}
	return Transition{
		spring: harmonica.NewSpring(harmonica.FPS(fps), transitionFrequency, transitionDamping),
	}
}

// Start begins moving from the given position toward target.
func (transition *Transition) Start(from, target float64) {
	transition.position = from
	transition.velocity = 0
	transition.target = target
	transition.frames = 0
	transition.active = from != target
}

// Jump places the transition at target with no motion.
func (transition *Transition) Jump(target float64) {
	transition.position = target
	transition.velocity = 0
	transition.target = target
	transition.frames = 0
	transition.active = false
}

// Step advances one frame. It returns true while the transition is
// still moving.
func (transition *Transition) Step() bool {
	if !transition.active {
		return false
	}
	transition.position, transition.velocity = transition.spring.Update(
		transition.position, transition.velocity, transition.target)
	transition.frames++

	settled := math.Abs(transition.position-transition.target) < settleThreshold &&
		math.Abs(transition.velocity) < settleThreshold
	if settled || transition.frames >= maxTransitionFrames {
		transition.Jump(transition.target)
		return false
	}
	return true
}

// Position returns the current value.
func (transition *Transition) Position() float64 {
	return transition.position
}

// Target returns the value the transition is moving toward.
func (transition *Transition) Target() float64 {
	return transition.target
}

// Active reports whether the transition is still moving.
func (transition *Transition) Active() bool {
	return transition.active
}
