// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/widget"
)

// button is one entry of a buttonBar. Label is called on every render
// so toggles can show their current state.
type button struct {
	ID      string
	Label   func() string
	OnPress func() tea.Cmd
}

// buttonBar is a titled row of native buttons. The page uses it for
// the booking call to action and the preferences panel.
type buttonBar struct {
	doc      *document.Document
	zones    *zone.Manager
	keys     widget.KeyMap
	title    string
	buttons  []button
	group    *document.Node
	nodes    []*document.Node
	vertical bool
}

var _ widget.Component = (*buttonBar)(nil)

func newButtonBar(doc *document.Document, zones *zone.Manager, keys widget.KeyMap, parent *document.Node, id, title string, buttons []button) *buttonBar {
	bar := &buttonBar{doc: doc, zones: zones, keys: keys, title: title, buttons: buttons}
	bar.group = doc.Append(parent, document.NewNode(id, title, document.RoleGroup))
	for _, entry := range buttons {
		bar.nodes = append(bar.nodes, doc.Append(bar.group, document.NewButton(entry.ID, entry.Label())))
	}
	return bar
}

func (bar *buttonBar) Container() *document.Node { return bar.group }

func (bar *buttonBar) ZoneIDs() []string {
	ids := make([]string, len(bar.buttons))
	for index, entry := range bar.buttons {
		ids[index] = entry.ID
	}
	return ids
}

// Node returns the node of the button with the given ID, or nil.
func (bar *buttonBar) Node(id string) *document.Node {
	for index, entry := range bar.buttons {
		if entry.ID == id {
			return bar.nodes[index]
		}
	}
	return nil
}

func (bar *buttonBar) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tea.KeyMsg:
		if !key.Matches(message, bar.keys.Activate) {
			return nil
		}
		if index := slices.Index(bar.nodes, bar.doc.Active()); index >= 0 {
			return bar.press(index)
		}
	case widget.PointerMsg:
		for index, entry := range bar.buttons {
			if message.Target == entry.ID && bar.doc.Focus(bar.nodes[index]) {
				return bar.press(index)
			}
		}
	}
	return nil
}

func (bar *buttonBar) press(index int) tea.Cmd {
	var cmd tea.Cmd
	if bar.buttons[index].OnPress != nil {
		cmd = bar.buttons[index].OnPress()
	}
	bar.refreshLabels()
	return cmd
}

func (bar *buttonBar) refreshLabels() {
	for index, entry := range bar.buttons {
		bar.nodes[index].Label = entry.Label()
	}
}

func (bar *buttonBar) View(width int) string {
	presentation := bar.doc.Presentation()
	theme := presentation.Theme()
	scale := presentation.Scale()
	bar.refreshLabels()

	rendered := make([]string, len(bar.nodes))
	for index, node := range bar.nodes {
		style := lipgloss.NewStyle().
			Foreground(theme.NormalText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, scale.Padding)
		if node.Focused() && presentation.FocusVisible() {
			style = style.BorderForeground(theme.FocusRing).Foreground(theme.FocusRing).Bold(true)
		} else if node.Focused() {
			style = style.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)
		}
		label := node.Label
		if presentation.ScreenReader() {
			label += " (button)"
		}
		rendered[index] = style.Render(label)
		if bar.zones != nil {
			rendered[index] = bar.zones.Mark(bar.buttons[index].ID, rendered[index])
		}
	}

	var row string
	if bar.vertical {
		row = lipgloss.JoinVertical(lipgloss.Left, rendered...)
	} else {
		row = lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}
	heading := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(bar.title)
	return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join([]string{heading, row}, "\n"))
}

func (bar *buttonBar) Close() {
	bar.doc.Remove(bar.group)
}
