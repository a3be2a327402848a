// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/waymark-travel/waymark/lib/document"
)

// PointerMsg is a mouse press after hit testing. Target is the zone ID
// under the pointer, or "" when the press hit no widget zone. Every
// widget receives every PointerMsg; a widget treats a Target that is
// not one of its own zones as a press outside it.
type PointerMsg struct {
	Target string
}

// Component is the shape shared by every widget.
type Component interface {
	Update(tea.Msg) tea.Cmd
	View(width int) string

	// Container is the node holding the widget's nodes.
	Container() *document.Node

	// ZoneIDs lists the widget's mouse zones, innermost first.
	ZoneIDs() []string

	// Close releases the widget's nodes, timers, and subscriptions.
	Close()
}

// HitTest returns the first of ids whose zone contains the mouse
// press, or "" when none does or the message is not a left press.
func HitTest(zones *zone.Manager, mouse tea.MouseMsg, ids []string) string {
	if zones == nil || mouse.Action != tea.MouseActionPress || mouse.Button != tea.MouseButtonLeft {
		return ""
	}
	for _, id := range ids {
		if info := zones.Get(id); info != nil && info.InBounds(mouse) {
			return id
		}
	}
	return ""
}

// Focused returns the component whose container most closely encloses
// the document's active node, or nil.
func Focused(components []Component, doc *document.Document) Component {
	active := doc.Active()
	if active == nil {
		return nil
	}
	var found Component
	for _, component := range components {
		container := component.Container()
		if container == nil || !container.Contains(active) {
			continue
		}
		if found == nil || found.Container().Contains(container) {
			found = component
		}
	}
	return found
}
