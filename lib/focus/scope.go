// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package focus implements focus scopes: capture the focused node,
// move focus into a container, optionally trap Tab traversal inside
// it, and restore focus when the scope ends.
package focus

import (
	"slices"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/schedule"
)

// Options configures a Scope.
type Options struct {
	// AutoFocus moves focus into the container after Yield.
	AutoFocus bool

	// Trap keeps Tab and Shift+Tab cycling inside the container.
	Trap bool

	// RestoreOnDeactivate refocuses the node that was active at
	// activation, if it is still attached and focusable.
	RestoreOnDeactivate bool

	// Initial is the preferred auto-focus target. When nil or not
	// focusable, the first tabbable descendant is used, then the
	// container itself.
	Initial *document.Node

	// Yield delays auto-focus so the container can finish mounting.
	// Zero focuses synchronously during Activate.
	Yield time.Duration
}

// yieldMsg is posted when a scope's yield timer expires.
type yieldMsg struct {
	scope *Scope
	id    schedule.TimerID
}

// Scope is one active focus scope. It owns a Tab interceptor while
// trapping and a yield timer while waiting to auto-focus; Deactivate
// releases both.
type Scope struct {
	doc       *document.Document
	container *document.Node
	options   Options

	previous    *document.Node
	interceptor document.InterceptorID
	trapping    bool
	yield       *schedule.Timer
	active      bool
}

// Activate starts a scope over container. The scheduler is needed only
// when options.Yield is positive.
func Activate(doc *document.Document, container *document.Node, options Options, scheduler *schedule.Scheduler) *Scope {
	scope := &Scope{
		doc:       doc,
		container: container,
		options:   options,
		active:    true,
	}
	if options.RestoreOnDeactivate {
		scope.previous = doc.Active()
	}
	if options.Trap {
		scope.interceptor = doc.PushInterceptor(scope.intercept)
		scope.trapping = true
	}
	if options.AutoFocus {
		if options.Yield > 0 && scheduler != nil {
			scope.yield = scheduler.After(options.Yield, func(id schedule.TimerID) tea.Msg {
				return yieldMsg{scope: scope, id: id}
			})
		} else {
			scope.focusInitial()
		}
	}
	return scope
}

// Update handles the scope's own yield message. Messages for other
// scopes and stale timers are ignored.
func (scope *Scope) Update(message tea.Msg) tea.Cmd {
	yield, ok := message.(yieldMsg)
	if !ok || yield.scope != scope || !scope.active || !scope.yield.Live(yield.id) {
		return nil
	}
	scope.yield = nil
	scope.focusInitial()
	return nil
}

// FocusTarget returns the node auto-focus would move to now.
func (scope *Scope) FocusTarget() *document.Node {
	if initial := scope.options.Initial; initial != nil && initial.Focusable() && scope.container.Contains(initial) {
		return initial
	}
	if order := scope.doc.TabOrder(scope.container); len(order) > 0 {
		return order[0]
	}
	return scope.container
}

func (scope *Scope) focusInitial() {
	scope.doc.Focus(scope.FocusTarget())
}

// intercept enforces the trap. A container with no tabbable
// descendants leaves the press to default traversal.
func (scope *Scope) intercept(shift bool) bool {
	order := scope.doc.TabOrder(scope.container)
	if len(order) == 0 {
		return false
	}
	last := len(order) - 1

	position := slices.Index(order, scope.doc.Active())
	switch {
	case position < 0 && shift:
		// From the container itself or from outside.
		scope.doc.Focus(order[last])
	case position < 0:
		scope.doc.Focus(order[0])
	case shift && position == 0:
		scope.doc.Focus(order[last])
	case !shift && position == last:
		scope.doc.Focus(order[0])
	case shift:
		scope.doc.Focus(order[position-1])
	default:
		scope.doc.Focus(order[position+1])
	}
	return true
}

// Active reports whether the scope has not been deactivated.
func (scope *Scope) Active() bool {
	return scope.active
}

// Container returns the scope's container.
func (scope *Scope) Container() *document.Node {
	return scope.container
}

// Previous returns the node captured at activation, or nil.
func (scope *Scope) Previous() *document.Node {
	return scope.previous
}

// Deactivate ends the scope: it cancels a pending auto-focus, removes
// the trap, and restores focus when configured. When nothing can be
// restored and focus is still inside the container, focus is cleared
// so it does not linger on a node that is about to go away. Calling
// Deactivate again does nothing.
func (scope *Scope) Deactivate() {
	if !scope.active {
		return
	}
	scope.active = false

	scope.yield.Stop()
	scope.yield = nil
	if scope.trapping {
		scope.doc.RemoveInterceptor(scope.interceptor)
		scope.trapping = false
	}

	if !scope.options.RestoreOnDeactivate {
		return
	}
	if scope.previous != nil && scope.previous.Focusable() && !scope.container.Contains(scope.previous) {
		scope.doc.Focus(scope.previous)
		return
	}
	if active := scope.doc.Active(); active != nil && scope.container.Contains(active) {
		scope.doc.Blur()
	}
}
