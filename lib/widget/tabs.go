// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/roving"
	"github.com/waymark-travel/waymark/lib/tui"
)

// Tab is one tab of a TabGroup.
type Tab struct {
	ID    string
	Label string

	// Content is the panel body, rendered as markdown.
	Content string

	Disabled bool

	// Badge is short text shown after the label, such as a count.
	Badge string
}

// TabGroupProps configures a TabGroup.
type TabGroupProps struct {
	Tabs []Tab

	// DefaultTab is the ID of the initially selected tab. Empty or
	// disabled selects the first enabled tab.
	DefaultTab string

	OnTabChange func(id string)

	Orientation roving.Orientation

	// Label names the tab list for assistive technology.
	Label string

	// Parent is the node the group attaches under; nil is the root.
	Parent *document.Node
}

// TabGroup is a single-select roving tab list over panels. Focus
// implies selection.
type TabGroup struct {
	env   Env
	props TabGroupProps

	prefix    string
	container *document.Node
	tabList   *document.Node
	tabNodes  []*document.Node
	panel     *document.Node

	selection *roving.Selection
}

// NewTabGroup builds the group and registers its nodes.
func NewTabGroup(env Env, props TabGroupProps) *TabGroup {
	env = env.withDefaults()
	group := &TabGroup{env: env, props: props, prefix: newPrefix("tabs")}

	group.container = env.Document.Append(props.Parent,
		document.NewNode(group.prefix, props.Label, document.RoleRegion))
	group.tabList = env.Document.Append(group.container,
		document.NewNode(group.prefix+"-list", props.Label, document.RoleTabList))

	enabled := make([]bool, len(props.Tabs))
	for index, tab := range props.Tabs {
		enabled[index] = !tab.Disabled
		node := document.NewNode(group.tabID(index), tab.Label, document.RoleTab)
		node.Disabled = tab.Disabled
		group.tabNodes = append(group.tabNodes, env.Document.Append(group.tabList, node))
	}
	group.panel = env.Document.Append(group.container,
		document.NewNode(group.prefix+"-panel", "", document.RoleTabPanel))
	group.panel.SetTabIndex(0)

	group.selection = roving.New(enabled)
	initial := slices.IndexFunc(props.Tabs, func(tab Tab) bool { return tab.ID == props.DefaultTab })
	if group.selection.Enabled(initial) {
		group.selection.SetActive(initial)
	} else {
		group.selection.Commit()
	}
	group.sync()
	return group
}

func (group *TabGroup) tabID(index int) string {
	return fmt.Sprintf("%s-tab-%d", group.prefix, index)
}

// sync applies the roving tab stop to the tab nodes and labels the
// panel after the active tab.
func (group *TabGroup) sync() {
	focused := group.selection.Focused()
	for index, node := range group.tabNodes {
		node.SetTabIndex(roving.TabIndex(index, focused))
	}
	group.panel.Hidden = group.selection.Active() == roving.None
	if active := group.selection.Active(); active != roving.None {
		group.panel.Label = group.props.Tabs[active].Label
	}
}

// Container implements Component.
func (group *TabGroup) Container() *document.Node {
	return group.container
}

// ZoneIDs implements Component.
func (group *TabGroup) ZoneIDs() []string {
	ids := make([]string, len(group.tabNodes))
	for index := range group.tabNodes {
		ids[index] = group.tabID(index)
	}
	return ids
}

// Active returns the selected tab's ID, or "".
func (group *TabGroup) Active() string {
	if active := group.selection.Active(); active != roving.None {
		return group.props.Tabs[active].ID
	}
	return ""
}

// Selection exposes the roving state for inspection.
func (group *TabGroup) Selection() *roving.Selection {
	return group.selection
}

// TabNodes returns the tab nodes in order.
func (group *TabGroup) TabNodes() []*document.Node {
	return group.tabNodes
}

// Select activates the tab with the given ID, as a click would. It
// reports whether the tab exists and is enabled.
func (group *TabGroup) Select(id string) bool {
	index := slices.IndexFunc(group.props.Tabs, func(tab Tab) bool { return tab.ID == id })
	if !group.selection.Enabled(index) {
		return false
	}
	group.selection.FocusIndex(index)
	group.commit()
	return true
}

// Update handles keys while a tab has focus and presses on tabs.
func (group *TabGroup) Update(message tea.Msg) tea.Cmd {
	switch message := message.(type) {
	case tea.KeyMsg:
		active := group.env.Document.Active()
		if !slices.Contains(group.tabNodes, active) {
			return nil
		}
		config := group.env.rovingConfig(group.props.Orientation, roving.Automatic)
		previous := group.selection.Active()
		result := group.selection.HandleKey(message, config)
		if result.Moved {
			group.sync()
			group.env.Document.Focus(group.tabNodes[group.selection.Focused()])
		}
		if result.Committed && group.selection.Active() != previous {
			group.changed()
		}
	case PointerMsg:
		for index := range group.tabNodes {
			if message.Target == group.tabID(index) && group.selection.Enabled(index) {
				group.selection.FocusIndex(index)
				group.commit()
				break
			}
		}
	}
	return nil
}

// commit activates the focused tab and moves document focus to it.
func (group *TabGroup) commit() {
	previous := group.selection.Active()
	if !group.selection.Commit() {
		return
	}
	group.sync()
	group.env.Document.Focus(group.tabNodes[group.selection.Focused()])
	if group.selection.Active() != previous {
		group.changed()
	}
}

func (group *TabGroup) changed() {
	group.sync()
	tab := group.props.Tabs[group.selection.Active()]
	group.env.announce(tab.Label + " tab selected")
	if group.props.OnTabChange != nil {
		group.props.OnTabChange(tab.ID)
	}
}

// View renders the tab bar and the active panel.
func (group *TabGroup) View(width int) string {
	theme := group.env.theme()
	scale := group.env.presentation().Scale()

	var bar []string
	for index, tab := range group.props.Tabs {
		node := group.tabNodes[index]
		style := lipgloss.NewStyle().Foreground(theme.NormalText).Padding(0, scale.Padding)
		switch {
		case tab.Disabled:
			style = style.Foreground(theme.DisabledText)
		case index == group.selection.Active():
			style = style.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground).Bold(true)
		}
		style = group.env.focusStyle(node, style)

		label := tab.Label
		if tab.Badge != "" {
			label += " " + lipgloss.NewStyle().Foreground(theme.Accent).Render("("+tab.Badge+")")
		}
		if sr := group.env.srText(group.tabState(index)); sr != "" {
			label += " " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(sr)
		}
		bar = append(bar, group.env.mark(group.tabID(index), style.Render(label)))
	}

	var tabBar string
	if group.props.Orientation == roving.Vertical {
		tabBar = strings.Join(bar, "\n")
	} else {
		tabBar = strings.Join(bar, lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│"))
	}
	rule := lipgloss.NewStyle().Foreground(theme.BorderColor).Render(strings.Repeat("─", max(width, 0)))

	panel := ""
	if active := group.selection.Active(); active != roving.None {
		panelWidth := width - 2*scale.Padding
		panel = tui.RenderMarkdown(group.props.Tabs[active].Content, panelWidth, theme)
		panel = lipgloss.NewStyle().Padding(scale.Gap, scale.Padding).Render(panel)
	}

	parts := []string{tabBar, rule, panel}
	if group.props.Orientation == roving.Vertical {
		return lipgloss.JoinHorizontal(lipgloss.Top, tabBar, "  ", panel)
	}
	return strings.Join(parts, "\n")
}

// tabState is the screen-reader description of one tab.
func (group *TabGroup) tabState(index int) string {
	state := fmt.Sprintf("tab %d of %d", index+1, len(group.props.Tabs))
	if index == group.selection.Active() {
		state += ", selected"
	}
	if group.props.Tabs[index].Disabled {
		state += ", unavailable"
	}
	return "(" + state + ")"
}

// Close removes the group's nodes.
func (group *TabGroup) Close() {
	group.env.Document.Remove(group.container)
}
