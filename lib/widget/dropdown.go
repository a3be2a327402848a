// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/roving"
	"github.com/waymark-travel/waymark/lib/tui"
)

// defaultMaxVisible is the number of list rows shown before the list
// scrolls.
const defaultMaxVisible = 8

// Option is one dropdown choice.
type Option struct {
	Value       string
	Label       string
	Description string
	Disabled    bool

	// Group names the option's section. Options without a group form
	// the default section, rendered without a header.
	Group string
}

// DropdownProps configures a Dropdown.
type DropdownProps struct {
	Options []Option

	// Value is the committed value in single mode; Values in multiple
	// mode. Both are owned by the caller.
	Value  string
	Values []string

	Multiple   bool
	Searchable bool

	Label       string
	Placeholder string
	Required    bool

	// OnChange receives a new single value; OnChangeMultiple a new
	// value set. When the matching callback is nil the dropdown keeps
	// the value itself.
	OnChange         func(value string)
	OnChangeMultiple func(values []string)

	// MaxVisible bounds the list height in rows.
	MaxVisible int

	Parent *document.Node
}

// Dropdown is a combobox over a filtered, optionally grouped list.
// Keyboard focus stays on the trigger; arrow keys move a pending
// highlight through the open list, and only Enter (or Space, when not
// searchable) or a click commits it.
type Dropdown struct {
	env   Env
	props DropdownProps

	prefix      string
	container   *document.Node
	trigger     *document.Node
	listbox     *document.Node
	optionNodes []*document.Node

	value  string
	values []string

	open      bool
	input     textinput.Model
	visible   []int
	ranges    map[int]matchRange
	selection *roving.Selection
	scroll    int

	interceptor  document.InterceptorID
	intercepting bool
	cancelFocus  func()
	closed       bool
}

// NewDropdown builds the dropdown and registers its nodes.
func NewDropdown(env Env, props DropdownProps) *Dropdown {
	env = env.withDefaults()
	if props.MaxVisible <= 0 {
		props.MaxVisible = defaultMaxVisible
	}
	dropdown := &Dropdown{
		env:    env,
		props:  props,
		prefix: newPrefix("dropdown"),
		value:  props.Value,
		values: slices.Clone(props.Values),
	}

	doc := env.Document
	dropdown.container = doc.Append(props.Parent,
		document.NewNode(dropdown.prefix, props.Label, document.RoleGeneric))
	dropdown.trigger = doc.Append(dropdown.container, &document.Node{
		ID:     dropdown.prefix + "-trigger",
		Label:  props.Label,
		Role:   document.RoleCombobox,
		Native: true,
	})
	dropdown.listbox = doc.Append(dropdown.container,
		document.NewNode(dropdown.prefix+"-listbox", props.Label, document.RoleListbox))
	dropdown.listbox.Hidden = true
	for index, option := range props.Options {
		node := document.NewNode(dropdown.optionID(index), option.Label, document.RoleOption)
		node.Disabled = option.Disabled
		dropdown.optionNodes = append(dropdown.optionNodes, doc.Append(dropdown.listbox, node))
	}

	dropdown.input = textinput.New()
	dropdown.input.Prompt = ""
	dropdown.input.Placeholder = "Type to filter"

	dropdown.selection = roving.New(nil)
	dropdown.refilter(false)

	dropdown.cancelFocus = doc.OnFocusChange(func(_, current *document.Node) {
		if dropdown.open && !dropdown.container.Contains(current) {
			dropdown.closeList()
		}
	})
	return dropdown
}

func (dropdown *Dropdown) optionID(index int) string {
	return fmt.Sprintf("%s-option-%d", dropdown.prefix, index)
}

func (dropdown *Dropdown) chipID(index int) string {
	return fmt.Sprintf("%s-chip-%d", dropdown.prefix, index)
}

// Container implements Component.
func (dropdown *Dropdown) Container() *document.Node {
	return dropdown.container
}

// ZoneIDs implements Component.
func (dropdown *Dropdown) ZoneIDs() []string {
	ids := []string{dropdown.trigger.ID}
	for index := range dropdown.values {
		ids = append(ids, dropdown.chipID(index))
	}
	if dropdown.open {
		for _, source := range dropdown.visible {
			ids = append(ids, dropdown.optionID(source))
		}
	}
	return ids
}

// Trigger returns the combobox node that holds keyboard focus.
func (dropdown *Dropdown) Trigger() *document.Node {
	return dropdown.trigger
}

// OptionNodes returns the option nodes in source order.
func (dropdown *Dropdown) OptionNodes() []*document.Node {
	return dropdown.optionNodes
}

// IsOpen reports whether the list is shown.
func (dropdown *Dropdown) IsOpen() bool {
	return dropdown.open
}

// Value returns the single value.
func (dropdown *Dropdown) Value() string {
	return dropdown.value
}

// Values returns the multiple value set in chip order.
func (dropdown *Dropdown) Values() []string {
	return slices.Clone(dropdown.values)
}

// Query returns the filter text.
func (dropdown *Dropdown) Query() string {
	return dropdown.input.Value()
}

// Visible returns the source indexes of the listed options in display
// order.
func (dropdown *Dropdown) Visible() []int {
	return slices.Clone(dropdown.visible)
}

// Selection exposes the roving state over the visible options.
func (dropdown *Dropdown) Selection() *roving.Selection {
	return dropdown.selection
}

// SetValue writes back a caller-owned single value.
func (dropdown *Dropdown) SetValue(value string) {
	dropdown.value = value
	dropdown.syncActive()
	dropdown.syncNodes()
}

// SetValues writes back a caller-owned value set.
func (dropdown *Dropdown) SetValues(values []string) {
	dropdown.values = slices.Clone(values)
}

// Validate returns ErrRequired when a required dropdown has no value.
func (dropdown *Dropdown) Validate() error {
	if !dropdown.props.Required {
		return nil
	}
	if (dropdown.props.Multiple && len(dropdown.values) == 0) || (!dropdown.props.Multiple && dropdown.value == "") {
		return fmt.Errorf("%s: %w", dropdown.props.Label, ErrRequired)
	}
	return nil
}

// Open shows the list. Focus moves to the trigger.
func (dropdown *Dropdown) Open() tea.Cmd {
	if dropdown.open || dropdown.closed {
		return nil
	}
	dropdown.open = true
	dropdown.listbox.Hidden = false
	dropdown.refilter(false)
	dropdown.interceptor = dropdown.env.Document.PushInterceptor(func(bool) bool {
		// Tab leaves the composite in one step; the list closes
		// without committing and default traversal continues.
		dropdown.closeList()
		return false
	})
	dropdown.intercepting = true
	dropdown.env.Document.Focus(dropdown.trigger)

	if !dropdown.props.Searchable {
		return nil
	}
	if dropdown.env.reducedMotion() {
		dropdown.input.Cursor.SetMode(cursor.CursorStatic)
	} else {
		dropdown.input.Cursor.SetMode(cursor.CursorBlink)
	}
	return dropdown.input.Focus()
}

// closeList hides the list without committing and clears the query.
func (dropdown *Dropdown) closeList() {
	if !dropdown.open {
		return
	}
	dropdown.open = false
	dropdown.listbox.Hidden = true
	if dropdown.intercepting {
		dropdown.env.Document.RemoveInterceptor(dropdown.interceptor)
		dropdown.intercepting = false
	}
	dropdown.input.Blur()
	dropdown.input.SetValue("")
	dropdown.refilter(false)
}

// refilter recomputes the visible options. After a query edit the
// highlight moves to the first enabled match; otherwise it rests on
// the committed value when that is listed.
func (dropdown *Dropdown) refilter(queryChanged bool) {
	dropdown.ranges = make(map[int]matchRange)
	dropdown.visible = filterOptions(dropdown.props.Options, queryPattern(dropdown.input.Value()), dropdown.ranges)

	enabled := make([]bool, len(dropdown.visible))
	for position, source := range dropdown.visible {
		enabled[position] = !dropdown.props.Options[source].Disabled
	}
	dropdown.selection.SetItems(enabled)
	dropdown.syncActive()
	if queryChanged {
		dropdown.selection.First()
	} else if active := dropdown.selection.Active(); dropdown.selection.Enabled(active) {
		dropdown.selection.FocusIndex(active)
	} else {
		dropdown.selection.First()
	}
	dropdown.scroll = 0
	dropdown.syncNodes()
}

// syncActive points the selection's active position at the committed
// single value.
func (dropdown *Dropdown) syncActive() {
	if dropdown.props.Multiple {
		return
	}
	position := slices.IndexFunc(dropdown.visible, func(source int) bool {
		return dropdown.props.Options[source].Value == dropdown.value
	})
	if position < 0 {
		dropdown.selection.SetActive(roving.None)
		return
	}
	focused := dropdown.selection.Focused()
	dropdown.selection.SetActive(position)
	if dropdown.open && focused != roving.None {
		dropdown.selection.FocusIndex(focused)
	}
}

// syncNodes shows listed option nodes while open and applies the
// roving tab stop.
func (dropdown *Dropdown) syncNodes() {
	for _, node := range dropdown.optionNodes {
		node.Hidden = true
		node.SetTabIndex(-1)
	}
	if !dropdown.open {
		return
	}
	focused := dropdown.selection.Focused()
	for position, source := range dropdown.visible {
		node := dropdown.optionNodes[source]
		node.Hidden = false
		node.SetTabIndex(roving.TabIndex(position, focused))
	}
}

// focusedOption returns the highlighted option's source index, or -1.
func (dropdown *Dropdown) focusedOption() int {
	if focused := dropdown.selection.Focused(); focused != roving.None {
		return dropdown.visible[focused]
	}
	return -1
}

// Update handles keys on the trigger, presses, and the filter input's
// own messages.
func (dropdown *Dropdown) Update(message tea.Msg) tea.Cmd {
	if dropdown.closed {
		return nil
	}
	switch message := message.(type) {
	case tea.KeyMsg:
		if dropdown.env.Document.Active() != dropdown.trigger {
			return nil
		}
		return dropdown.handleKey(message)
	case PointerMsg:
		return dropdown.handlePointer(message.Target)
	}
	if dropdown.open && dropdown.props.Searchable {
		var cmd tea.Cmd
		dropdown.input, cmd = dropdown.input.Update(message)
		return cmd
	}
	return nil
}

func (dropdown *Dropdown) handleKey(message tea.KeyMsg) tea.Cmd {
	keys := dropdown.env.Keys
	searchable := dropdown.props.Searchable
	space := message.Type == tea.KeySpace

	if key.Matches(message, keys.RemoveLast) && dropdown.props.Multiple &&
		dropdown.input.Value() == "" && len(dropdown.values) > 0 {
		dropdown.removeValue(len(dropdown.values) - 1)
		return nil
	}

	if !dropdown.open {
		if key.Matches(message, keys.Open) {
			return dropdown.Open()
		}
		if searchable && message.Type == tea.KeyRunes {
			return tea.Batch(dropdown.Open(), dropdown.edit(message))
		}
		return nil
	}

	switch {
	case key.Matches(message, keys.Dismiss):
		dropdown.closeList()
		return nil
	case space && searchable:
		return dropdown.edit(message)
	}

	result := dropdown.selection.HandleKey(message, dropdown.env.rovingConfig(roving.Vertical, roving.Manual))
	switch {
	case result.Committed:
		dropdown.commit()
		return nil
	case result.Handled:
		dropdown.syncNodes()
		dropdown.ensureVisible()
		return nil
	}

	if searchable {
		return dropdown.edit(message)
	}
	return nil
}

// edit forwards a key to the filter input and refilters on change.
func (dropdown *Dropdown) edit(message tea.KeyMsg) tea.Cmd {
	before := dropdown.input.Value()
	var cmd tea.Cmd
	dropdown.input, cmd = dropdown.input.Update(message)
	if dropdown.input.Value() != before {
		dropdown.refilter(true)
		dropdown.announceResults()
	}
	return cmd
}

func (dropdown *Dropdown) announceResults() {
	switch count := len(dropdown.visible); count {
	case 0:
		dropdown.env.announce("No results")
	case 1:
		dropdown.env.announce("1 result")
	default:
		dropdown.env.announce(fmt.Sprintf("%d results", count))
	}
}

func (dropdown *Dropdown) handlePointer(target string) tea.Cmd {
	switch {
	case target == dropdown.trigger.ID:
		dropdown.env.Document.Focus(dropdown.trigger)
		if dropdown.open {
			dropdown.closeList()
			return nil
		}
		return dropdown.Open()
	case strings.HasPrefix(target, dropdown.prefix+"-chip-"):
		for index := range dropdown.values {
			if target == dropdown.chipID(index) {
				dropdown.removeValue(index)
				return nil
			}
		}
	case dropdown.open && strings.HasPrefix(target, dropdown.prefix+"-option-"):
		for position, source := range dropdown.visible {
			if target == dropdown.optionID(source) && dropdown.selection.Enabled(position) {
				dropdown.selection.FocusIndex(position)
				dropdown.selection.Commit()
				dropdown.commit()
				return nil
			}
		}
	case dropdown.open:
		// Outside pointer-down.
		dropdown.closeList()
	}
	return nil
}

// commit applies the highlighted option: single mode replaces the
// value and closes; multiple mode toggles membership and stays open.
func (dropdown *Dropdown) commit() {
	source := dropdown.focusedOption()
	if source < 0 || dropdown.props.Options[source].Disabled {
		return
	}
	option := dropdown.props.Options[source]

	if !dropdown.props.Multiple {
		dropdown.env.announce(option.Label + " selected")
		if dropdown.props.OnChange != nil {
			dropdown.props.OnChange(option.Value)
		} else {
			dropdown.value = option.Value
		}
		dropdown.closeList()
		dropdown.env.Document.Focus(dropdown.trigger)
		return
	}

	next := slices.Clone(dropdown.values)
	if index := slices.Index(next, option.Value); index >= 0 {
		next = slices.Delete(next, index, index+1)
		dropdown.env.announce(option.Label + " removed")
	} else {
		next = append(next, option.Value)
		dropdown.env.announce(option.Label + " selected")
	}
	dropdown.changeValues(next)
	dropdown.syncNodes()
}

func (dropdown *Dropdown) removeValue(index int) {
	removed := dropdown.values[index]
	next := slices.Delete(slices.Clone(dropdown.values), index, index+1)
	dropdown.env.announce(dropdown.labelFor(removed) + " removed")
	dropdown.changeValues(next)
}

func (dropdown *Dropdown) changeValues(next []string) {
	if dropdown.props.OnChangeMultiple != nil {
		dropdown.props.OnChangeMultiple(next)
	} else {
		dropdown.values = next
	}
}

func (dropdown *Dropdown) labelFor(value string) string {
	for _, option := range dropdown.props.Options {
		if option.Value == value {
			return option.Label
		}
	}
	return value
}

// rows lays out the open list: group headers and option positions.
type dropdownRow struct {
	header   string
	position int
}

func (dropdown *Dropdown) rows() []dropdownRow {
	var rows []dropdownRow
	currentGroup := ""
	for position, source := range dropdown.visible {
		group := dropdown.props.Options[source].Group
		if group != "" && (position == 0 || group != currentGroup) {
			rows = append(rows, dropdownRow{header: group, position: -1})
		}
		currentGroup = group
		rows = append(rows, dropdownRow{position: position})
	}
	return rows
}

// ensureVisible scrolls the list so the highlighted row is shown.
func (dropdown *Dropdown) ensureVisible() {
	focused := dropdown.selection.Focused()
	rows := dropdown.rows()
	row := slices.IndexFunc(rows, func(candidate dropdownRow) bool {
		return candidate.header == "" && candidate.position == focused
	})
	if row < 0 {
		return
	}
	// Keep a group header above the first option of its group.
	if row > 0 && rows[row-1].header != "" && row-1 < dropdown.scroll {
		row--
	}
	height := dropdown.props.MaxVisible
	if row < dropdown.scroll {
		dropdown.scroll = row
	} else if row >= dropdown.scroll+height {
		dropdown.scroll = row - height + 1
	}
}

// View renders the label, the trigger, and the open list.
func (dropdown *Dropdown) View(width int) string {
	theme := dropdown.env.theme()
	var lines []string

	label := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(dropdown.props.Label)
	if dropdown.props.Required {
		label += lipgloss.NewStyle().Foreground(theme.Danger).Render(" *")
	}
	lines = append(lines, label)
	lines = append(lines, dropdown.renderTrigger(width, theme))
	if dropdown.open {
		lines = append(lines, dropdown.renderList(width, theme)...)
	}
	return strings.Join(lines, "\n")
}

func (dropdown *Dropdown) renderTrigger(width int, theme tui.Theme) string {
	var content []string
	if dropdown.props.Multiple {
		chip := lipgloss.NewStyle().Foreground(theme.ChipForeground).Background(theme.ChipBackground)
		for index, value := range dropdown.values {
			content = append(content, dropdown.env.mark(dropdown.chipID(index), chip.Render(" "+dropdown.labelFor(value)+" ×")))
		}
	}

	switch {
	case dropdown.open && dropdown.props.Searchable:
		dropdown.input.Width = max(width/3, 8)
		content = append(content, dropdown.input.View())
	case !dropdown.props.Multiple && dropdown.value != "":
		content = append(content, lipgloss.NewStyle().Foreground(theme.NormalText).Render(dropdown.labelFor(dropdown.value)))
	case len(content) == 0:
		placeholder := dropdown.props.Placeholder
		if placeholder == "" {
			placeholder = "Select…"
		}
		content = append(content, lipgloss.NewStyle().Foreground(theme.FaintText).Render(placeholder))
	}

	arrow := "▾"
	if dropdown.open {
		arrow = "▴"
	}
	style := dropdown.env.focusStyle(dropdown.trigger, lipgloss.NewStyle().Foreground(theme.BorderColor))
	trigger := dropdown.env.focusMarker(dropdown.trigger) + style.Render("[") + " " +
		strings.Join(content, " ") + " " + style.Render(arrow+"]")
	if sr := dropdown.env.srText(dropdown.stateText()); sr != "" {
		trigger += " " + lipgloss.NewStyle().Foreground(theme.FaintText).Render(sr)
	}
	return dropdown.env.mark(dropdown.trigger.ID, ansi.Truncate(trigger, width, "…"))
}

func (dropdown *Dropdown) stateText() string {
	state := "combobox, collapsed"
	if dropdown.open {
		state = fmt.Sprintf("combobox, expanded, %d options", len(dropdown.visible))
	}
	if dropdown.props.Required {
		state += ", required"
	}
	return "(" + state + ")"
}

func (dropdown *Dropdown) renderList(width int, theme tui.Theme) []string {
	rows := dropdown.rows()
	if len(rows) == 0 {
		return []string{lipgloss.NewStyle().Foreground(theme.FaintText).Render("  No matches")}
	}

	height := min(dropdown.props.MaxVisible, len(rows))
	end := min(dropdown.scroll+height, len(rows))
	innerWidth := max(width-3, 1)
	scrollbar := strings.Split(tui.RenderScrollbar(theme, height, len(rows), height, dropdown.scroll, true), "\n")

	var lines []string
	for index, row := range rows[dropdown.scroll:end] {
		var line string
		if row.header != "" {
			line = lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(row.header)
		} else {
			line = dropdown.renderOption(row.position, innerWidth, theme)
		}
		line = tui.PadOverlayLine(line, innerWidth, lipgloss.NewStyle().Background(theme.OverlayBackground))
		if len(rows) > height && index < len(scrollbar) {
			line += scrollbar[index]
		}
		lines = append(lines, line)
	}
	return lines
}

func (dropdown *Dropdown) renderOption(position, width int, theme tui.Theme) string {
	source := dropdown.visible[position]
	option := dropdown.props.Options[source]

	base := lipgloss.NewStyle().Foreground(theme.NormalText).Background(theme.OverlayBackground)
	switch {
	case option.Disabled:
		base = base.Foreground(theme.DisabledText)
	case position == dropdown.selection.Focused():
		base = base.Foreground(theme.SelectedForeground).Background(theme.SelectedBackground)
	}

	selected := dropdown.value == option.Value
	if dropdown.props.Multiple {
		selected = slices.Contains(dropdown.values, option.Value)
	}
	marker := "  "
	if selected {
		marker = "✓ "
	}

	label := option.Label
	labelRange := dropdown.ranges[source]
	var rendered string
	if labelRange.end > labelRange.start {
		runes := []rune(label)
		highlight := base.Background(theme.MatchHighlightBackground)
		rendered = base.Render(string(runes[:labelRange.start])) +
			highlight.Render(string(runes[labelRange.start:labelRange.end])) +
			base.Render(string(runes[labelRange.end:]))
	} else {
		rendered = base.Render(label)
	}

	line := base.Render(marker) + rendered
	if option.Description != "" {
		line += base.Foreground(theme.FaintText).Render(" — " + option.Description)
	}
	if option.Disabled {
		line += base.Render(dropdown.env.srText(" (unavailable)"))
	}
	return dropdown.env.mark(dropdown.optionID(source), ansi.Truncate(line, width, "…"))
}

// Close releases the dropdown's nodes, interceptor, and focus
// listener.
func (dropdown *Dropdown) Close() {
	if dropdown.closed {
		return
	}
	dropdown.closeList()
	dropdown.closed = true
	dropdown.cancelFocus()
	dropdown.env.Document.Remove(dropdown.container)
}
