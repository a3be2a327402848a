// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/focus"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
)

// Variant selects a modal's icon and accent.
type Variant string

const (
	VariantInfo    Variant = "info"
	VariantSuccess Variant = "success"
	VariantWarning Variant = "warning"
	VariantError   Variant = "error"
)

func (variant Variant) icon() string {
	switch variant {
	case VariantSuccess:
		return "✓"
	case VariantWarning:
		return "⚠"
	case VariantError:
		return "✖"
	default:
		return "ℹ"
	}
}

func (variant Variant) spoken() string {
	switch variant {
	case VariantSuccess:
		return "Success: "
	case VariantWarning:
		return "Warning: "
	case VariantError:
		return "Error: "
	default:
		return "Information: "
	}
}

// Action is a footer button.
type Action struct {
	ID      string
	Label   string
	Primary bool

	// OnSelect runs when the button is pressed. The modal does not
	// close on its own; an action that should close calls the
	// caller's close path.
	OnSelect func() tea.Cmd
}

// ModalProps configures a Modal.
type ModalProps struct {
	Title       string
	Description string
	Variant     Variant

	// Body is markdown shown under the description. BodyView, when
	// set, renders below it; widgets it draws attach their nodes under
	// Modal.Body.
	Body     string
	BodyView func(width int) string

	Actions []Action

	DisableOverlayClose bool
	DisableEscapeClose  bool

	// InitialFocus is the ID of the node focused on open. The close
	// button is used when empty or not focusable.
	InitialFocus string

	// OnClose is asked to close the dialog. The caller owns the open
	// state and answers with SetOpen(false). When nil the modal closes
	// itself.
	OnClose func()

	// Width is the dialog's outer width. Default 60.
	Width int

	Parent *document.Node
}

// Phase is a modal's lifecycle position.
type Phase int

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

func (phase Phase) String() string {
	switch phase {
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	default:
		return "closed"
	}
}

type modalFrameMsg struct {
	modal *Modal
	id    schedule.TimerID
}

// Modal is a dialog over the page. While open it traps focus, holds a
// scroll lock on the document, and restores focus on close.
type Modal struct {
	env   Env
	props ModalProps

	prefix      string
	overlay     *document.Node
	surface     *document.Node
	closeButton *document.Node
	body        *document.Node
	actions     []*document.Node

	phase      Phase
	scope      *focus.Scope
	release    func()
	transition tui.Transition
	frame      *schedule.Timer
	closed     bool
}

// NewModal builds a closed modal.
func NewModal(env Env, props ModalProps) *Modal {
	env = env.withDefaults()
	if props.Variant == "" {
		props.Variant = VariantInfo
	}
	if props.Width <= 0 {
		props.Width = 60
	}
	modal := &Modal{
		env:        env,
		props:      props,
		prefix:     newPrefix("modal"),
		transition: tui.NewTransition(env.Timing.AnimationFrame),
	}

	doc := env.Document
	modal.overlay = doc.Append(props.Parent, document.NewNode(modal.prefix+"-overlay", "", document.RoleGeneric))
	modal.overlay.Hidden = true
	modal.surface = doc.Append(modal.overlay, document.NewNode(modal.prefix, props.Title, document.RoleDialog))
	modal.surface.SetTabIndex(-1)
	modal.closeButton = doc.Append(modal.surface, document.NewButton(modal.prefix+"-close", "Close dialog"))
	modal.body = doc.Append(modal.surface, document.NewNode(modal.prefix+"-body", "", document.RoleGeneric))
	for _, action := range props.Actions {
		modal.actions = append(modal.actions,
			doc.Append(modal.surface, document.NewButton(modal.actionID(action), action.Label)))
	}
	return modal
}

func (modal *Modal) actionID(action Action) string {
	return modal.prefix + "-action-" + action.ID
}

// Container implements Component.
func (modal *Modal) Container() *document.Node {
	return modal.overlay
}

// ZoneIDs implements Component. The overlay comes last: it covers the
// whole screen behind the dialog.
func (modal *Modal) ZoneIDs() []string {
	ids := []string{modal.closeButton.ID}
	for _, action := range modal.props.Actions {
		ids = append(ids, modal.actionID(action))
	}
	return append(ids, modal.surface.ID, modal.overlay.ID)
}

// Surface returns the dialog node.
func (modal *Modal) Surface() *document.Node {
	return modal.surface
}

// Body returns the node nested widgets attach to.
func (modal *Modal) Body() *document.Node {
	return modal.body
}

// CloseButton returns the close button node.
func (modal *Modal) CloseButton() *document.Node {
	return modal.closeButton
}

// ActionNodes returns the footer buttons in order.
func (modal *Modal) ActionNodes() []*document.Node {
	return modal.actions
}

// Phase returns the lifecycle phase.
func (modal *Modal) Phase() Phase {
	return modal.phase
}

// IsOpen reports whether the dialog is shown or opening.
func (modal *Modal) IsOpen() bool {
	return modal.phase == PhaseOpening || modal.phase == PhaseOpen
}

// SetOpen moves the modal toward open or closed. Under reduced motion
// each move completes synchronously.
func (modal *Modal) SetOpen(open bool) {
	if modal.closed {
		return
	}
	switch {
	case open && (modal.phase == PhaseClosed || modal.phase == PhaseClosing):
		modal.beginOpen()
	case !open && (modal.phase == PhaseOpen || modal.phase == PhaseOpening):
		modal.beginClose()
	}
}

func (modal *Modal) beginOpen() {
	if modal.phase == PhaseClosed {
		modal.release = modal.env.Document.LockScroll()
	}
	modal.overlay.Hidden = false

	initial := modal.closeButton
	if modal.props.InitialFocus != "" {
		if node := modal.env.Document.ByID(modal.props.InitialFocus); node != nil && modal.surface.Contains(node) {
			initial = node
		}
	}
	modal.scope = focus.Activate(modal.env.Document, modal.surface, focus.Options{
		AutoFocus:           true,
		Trap:                true,
		RestoreOnDeactivate: true,
		Initial:             initial,
		Yield:               modal.env.Timing.FocusYield,
	}, modal.env.Scheduler)

	modal.env.announceAssertive("Dialog: " + modal.props.Title)
	modal.env.Logger.Debug("modal opening", "title", modal.props.Title)

	modal.phase = PhaseOpening
	modal.animate(1)
}

func (modal *Modal) beginClose() {
	modal.scope.Deactivate()
	modal.scope = nil
	modal.overlay.Hidden = true
	modal.phase = PhaseClosing
	modal.animate(0)
}

// animate moves the transition toward target, or settles at once
// under reduced motion.
func (modal *Modal) animate(target float64) {
	if modal.env.reducedMotion() || modal.env.Scheduler == nil {
		modal.transition.Jump(target)
		modal.frame.Stop()
		modal.frame = nil
		modal.settle()
		return
	}
	modal.transition.Start(modal.transition.Position(), target)
	if !modal.transition.Active() {
		modal.settle()
		return
	}
	if modal.frame == nil {
		modal.armFrame()
	}
}

func (modal *Modal) armFrame() {
	modal.frame = modal.env.after(modal.env.Timing.AnimationFrame, func(id schedule.TimerID) tea.Msg {
		return modalFrameMsg{modal: modal, id: id}
	})
}

// settle finishes the current phase.
func (modal *Modal) settle() {
	switch modal.phase {
	case PhaseOpening:
		modal.phase = PhaseOpen
	case PhaseClosing:
		modal.phase = PhaseClosed
		if modal.release != nil {
			modal.release()
			modal.release = nil
		}
		modal.env.Logger.Debug("modal closed", "title", modal.props.Title)
	}
}

// requestClose asks the owner to close the dialog.
func (modal *Modal) requestClose() {
	if modal.props.OnClose != nil {
		modal.props.OnClose()
		return
	}
	modal.SetOpen(false)
}

// Update handles the focus yield, animation frames, keys inside the
// dialog, and presses.
func (modal *Modal) Update(message tea.Msg) tea.Cmd {
	if modal.closed {
		return nil
	}
	switch message := message.(type) {
	case modalFrameMsg:
		if message.modal != modal || !modal.frame.Live(message.id) {
			return nil
		}
		modal.frame = nil
		if modal.transition.Step() {
			modal.armFrame()
		} else {
			modal.settle()
		}
		return nil

	case tea.KeyMsg:
		if !modal.IsOpen() {
			return nil
		}
		return modal.handleKey(message)

	case PointerMsg:
		if !modal.IsOpen() {
			return nil
		}
		return modal.handlePointer(message.Target)
	}

	if modal.scope != nil {
		return modal.scope.Update(message)
	}
	return nil
}

func (modal *Modal) handleKey(message tea.KeyMsg) tea.Cmd {
	keys := modal.env.Keys
	if key.Matches(message, keys.Dismiss) {
		if !modal.props.DisableEscapeClose {
			modal.requestClose()
		}
		return nil
	}
	if !key.Matches(message, keys.Activate) {
		return nil
	}
	active := modal.env.Document.Active()
	if active == modal.closeButton {
		modal.requestClose()
		return nil
	}
	for index, node := range modal.actions {
		if active == node {
			return modal.selectAction(index)
		}
	}
	return nil
}

func (modal *Modal) handlePointer(target string) tea.Cmd {
	switch target {
	case modal.closeButton.ID:
		modal.requestClose()
		return nil
	case modal.surface.ID:
		return nil
	}
	for index, action := range modal.props.Actions {
		if target == modal.actionID(action) {
			modal.env.Document.Focus(modal.actions[index])
			return modal.selectAction(index)
		}
	}
	// Anything else lies outside the dialog surface.
	if !modal.props.DisableOverlayClose {
		modal.requestClose()
	}
	return nil
}

func (modal *Modal) selectAction(index int) tea.Cmd {
	action := modal.props.Actions[index]
	modal.env.Logger.Debug("modal action", "title", modal.props.Title, "action", action.ID)
	if action.OnSelect == nil {
		return nil
	}
	return action.OnSelect()
}

// View renders the dialog box alone.
func (modal *Modal) View(width int) string {
	return strings.Join(modal.lines(width), "\n")
}

func (modal *Modal) lines(screenWidth int) []string {
	theme := modal.env.theme()
	scale := modal.env.presentation().Scale()
	width := min(modal.props.Width, max(screenWidth-2, 20))
	inner := width - 4 - 2*scale.Padding
	background := lipgloss.NewStyle().Background(theme.OverlayBackground)
	accent := lipgloss.NewStyle().Foreground(theme.VariantColor(string(modal.props.Variant))).
		Background(theme.OverlayBackground).Bold(true)

	var content []string
	add := func(rendered string) {
		for _, line := range strings.Split(rendered, "\n") {
			content = append(content, tui.PadOverlayLine(line, inner, background))
		}
	}

	title := modal.env.srText(modal.props.Variant.spoken()) + modal.props.Title
	closeStyle := modal.env.focusStyle(modal.closeButton, lipgloss.NewStyle().Foreground(theme.FaintText).Background(theme.OverlayBackground))
	closeLabel := modal.env.mark(modal.closeButton.ID, closeStyle.Render(modal.env.focusMarker(modal.closeButton)+"✕"))
	heading := accent.Render(modal.props.Variant.icon()+" "+title)
	gap := max(inner-ansi.StringWidth(heading)-ansi.StringWidth(closeLabel), 1)
	add(heading + background.Render(strings.Repeat(" ", gap)) + closeLabel)

	if modal.props.Description != "" {
		add(lipgloss.NewStyle().Foreground(theme.FaintText).Background(theme.OverlayBackground).
			Width(inner).Render(modal.props.Description))
	}
	for range scale.Gap {
		add("")
	}
	if modal.props.Body != "" {
		add(tui.RenderMarkdown(modal.props.Body, inner, theme))
	}
	if modal.props.BodyView != nil {
		add(modal.props.BodyView(inner))
	}

	if len(modal.props.Actions) > 0 {
		add("")
		var buttons []string
		for index, action := range modal.props.Actions {
			node := modal.actions[index]
			style := lipgloss.NewStyle().Foreground(theme.NormalText).Background(theme.ChipBackground).Padding(0, 1)
			if action.Primary {
				style = style.Foreground(theme.SelectedForeground).Background(theme.Accent).Bold(true)
			}
			style = modal.env.focusStyle(node, style)
			buttons = append(buttons, modal.env.mark(modal.actionID(action), style.Render(action.Label)))
		}
		add(strings.Join(buttons, background.Render(" ")))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.VariantColor(string(modal.props.Variant))).
		BorderBackground(theme.OverlayBackground).
		Padding(0, scale.Padding).
		Background(theme.OverlayBackground).
		Render(strings.Join(content, "\n"))
	return strings.Split(modal.env.mark(modal.surface.ID, box), "\n")
}

// Overlay draws the dialog centered over background, dimming it. A
// closed modal returns background unchanged. While the transition
// runs only the revealed share of the dialog's rows is drawn.
func (modal *Modal) Overlay(background string, width, height int) string {
	if modal.phase == PhaseClosed || modal.closed {
		return background
	}
	lines := modal.lines(width)
	progress := modal.transition.Position()
	if modal.phase == PhaseOpen {
		progress = 1
	}
	if shown := int(progress*float64(len(lines)) + 0.5); shown < len(lines) {
		lines = lines[:max(shown, 0)]
	}

	dimmed := modal.env.mark(modal.overlay.ID, tui.DimView(background, modal.env.theme()))
	if progress < 0.5 {
		dimmed = modal.env.mark(modal.overlay.ID, background)
	}
	x, y := tui.CenterAnchor(modal.lines(width), width, height)
	return tui.SpliceOverlay(dimmed, lines, x, y)
}

// Close ends the modal at once: it deactivates the focus scope,
// releases the scroll lock, stops the frame timer, and removes the
// nodes.
func (modal *Modal) Close() {
	if modal.closed {
		return
	}
	modal.closed = true
	if modal.scope != nil {
		modal.scope.Deactivate()
		modal.scope = nil
	}
	if modal.release != nil {
		modal.release()
		modal.release = nil
	}
	modal.frame.Stop()
	modal.frame = nil
	modal.phase = PhaseClosed
	modal.env.Document.Remove(modal.overlay)
}
