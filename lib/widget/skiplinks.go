// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/schedule"
)

// SkipLink jumps to an in-page landmark. Target is an "#id" selector.
type SkipLink struct {
	Target string
	Label  string
}

// DefaultSkipLinks is used when SkipLinksProps.Links is empty.
var DefaultSkipLinks = []SkipLink{
	{Target: "#main-content", Label: "Skip to main content"},
	{Target: "#navigation", Label: "Skip to navigation"},
}

// SkipLinksProps configures SkipLinks.
type SkipLinksProps struct {
	Links []SkipLink

	// Parent should place the links first in document order.
	Parent *document.Node
}

type skipCleanupMsg struct {
	links *SkipLinks
	id    schedule.TimerID
}

// SkipLinks is a row of links shown only while one of them has focus.
type SkipLinks struct {
	env   Env
	props SkipLinksProps

	prefix    string
	container *document.Node
	nodes     []*document.Node

	// temporary is the target given a tabindex by the last activation,
	// cleared by the cleanup timer.
	temporary *document.Node
	cleanup   *schedule.Timer
	closed    bool
}

// NewSkipLinks builds the links.
func NewSkipLinks(env Env, props SkipLinksProps) *SkipLinks {
	env = env.withDefaults()
	if len(props.Links) == 0 {
		props.Links = DefaultSkipLinks
	}
	links := &SkipLinks{env: env, props: props, prefix: newPrefix("skip")}
	links.container = env.Document.Append(props.Parent,
		document.NewNode(links.prefix, "Skip links", document.RoleNav))
	for index, link := range props.Links {
		node := &document.Node{ID: links.linkID(index), Label: link.Label, Role: document.RoleLink, Native: true}
		links.nodes = append(links.nodes, env.Document.Append(links.container, node))
	}
	return links
}

func (links *SkipLinks) linkID(index int) string {
	return fmt.Sprintf("%s-link-%d", links.prefix, index)
}

// Container implements Component.
func (links *SkipLinks) Container() *document.Node {
	return links.container
}

// ZoneIDs implements Component.
func (links *SkipLinks) ZoneIDs() []string {
	ids := make([]string, len(links.nodes))
	for index := range links.nodes {
		ids[index] = links.linkID(index)
	}
	return ids
}

// Nodes returns the link nodes.
func (links *SkipLinks) Nodes() []*document.Node {
	return links.nodes
}

// Shown reports whether the links are on screen.
func (links *SkipLinks) Shown() bool {
	return slices.Contains(links.nodes, links.env.Document.Active())
}

// Activate follows link index: the target gets a temporary tabindex
// when it lacks one, takes focus, and is scrolled into view. It
// reports whether the target was found and focused.
func (links *SkipLinks) Activate(index int) bool {
	if index < 0 || index >= len(links.props.Links) {
		return false
	}
	link := links.props.Links[index]
	doc := links.env.Document
	target := doc.Query(link.Target)
	if target == nil {
		links.env.Logger.Warn("skip link target not found", "target", link.Target)
		return false
	}

	links.clearTemporary()
	if _, ok := target.TabIndex(); !ok && !target.Native {
		target.SetTabIndex(-1)
		links.temporary = target
		links.cleanup = links.env.after(links.env.Timing.SkipLinkCleanup, func(id schedule.TimerID) tea.Msg {
			return skipCleanupMsg{links: links, id: id}
		})
	}
	if !doc.Focus(target) {
		links.env.Logger.Warn("skip link target not focusable", "target", link.Target)
		links.clearTemporary()
		return false
	}
	doc.ScrollIntoView(target)
	return true
}

// clearTemporary removes a temporary tabindex and its timer.
func (links *SkipLinks) clearTemporary() {
	links.cleanup.Stop()
	links.cleanup = nil
	if links.temporary != nil {
		links.temporary.RemoveTabIndex()
		links.temporary = nil
	}
}

// Update handles the cleanup timer, Enter on a link, and presses.
func (links *SkipLinks) Update(message tea.Msg) tea.Cmd {
	if links.closed {
		return nil
	}
	switch message := message.(type) {
	case skipCleanupMsg:
		if message.links == links && links.cleanup.Live(message.id) {
			links.clearTemporary()
		}
	case tea.KeyMsg:
		if !key.Matches(message, links.env.Keys.Activate) {
			return nil
		}
		if index := slices.Index(links.nodes, links.env.Document.Active()); index >= 0 {
			links.Activate(index)
		}
	case PointerMsg:
		for index := range links.nodes {
			if message.Target == links.linkID(index) {
				links.Activate(index)
			}
		}
	}
	return nil
}

// View renders the links while one of them has focus, and nothing
// otherwise.
func (links *SkipLinks) View(width int) string {
	if !links.Shown() {
		return ""
	}
	theme := links.env.theme()
	var rendered []string
	for index, node := range links.nodes {
		style := links.env.focusStyle(node, lipgloss.NewStyle().Foreground(theme.Accent).Underline(true))
		if node.Focused() {
			style = style.Background(theme.SelectedBackground)
		}
		rendered = append(rendered, links.env.mark(links.linkID(index),
			style.Render(links.env.focusMarker(node)+links.props.Links[index].Label)))
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(rendered, "  "))
}

// Close stops the cleanup timer, restores a temporary tabindex, and
// removes the links.
func (links *SkipLinks) Close() {
	if links.closed {
		return
	}
	links.closed = true
	links.clearTemporary()
	links.env.Document.Remove(links.container)
}
