// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/roving"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
)

// Slide is one carousel item.
type Slide struct {
	ID    string
	Label string

	// Content is the slide body, rendered as markdown.
	Content string
}

// CarouselProps configures a Carousel.
type CarouselProps struct {
	Items []Slide

	// AutoPlay requests automatic rotation. Rotation runs only while
	// reduced motion is off.
	AutoPlay bool

	// AutoPlayInterval overrides Env.Timing.AutoplayInterval.
	AutoPlayInterval time.Duration

	// PauseOnFocus holds rotation while keyboard focus is inside the
	// carousel. Without it, focus alone does not stop autoplay.
	PauseOnFocus bool

	AriaLabel string
	Parent    *document.Node
}

type autoplayMsg struct {
	carousel *Carousel
	id       schedule.TimerID
}

type slideFrameMsg struct {
	carousel *Carousel
	id       schedule.TimerID
}

// Carousel shows one slide at a time with previous/next buttons, a
// roving group of dots, and optional autoplay. Any user navigation
// stops autoplay; only the play button restarts it.
type Carousel struct {
	env   Env
	props CarouselProps

	prefix    string
	container *document.Node
	previous  *document.Node
	next      *document.Node
	dotGroup  *document.Node
	dots      []*document.Node
	toggle    *document.Node

	selection *roving.Selection

	playing     bool
	userStopped bool
	autoplay    *schedule.Timer

	transition tui.Transition
	frame      *schedule.Timer

	unsubscribe func()
	closed      bool
}

// NewCarousel builds the carousel, registers its nodes, and starts
// autoplay when requested and motion is allowed.
func NewCarousel(env Env, props CarouselProps) *Carousel {
	env = env.withDefaults()
	if props.AutoPlayInterval <= 0 {
		props.AutoPlayInterval = env.Timing.AutoplayInterval
	}
	carousel := &Carousel{
		env:        env,
		props:      props,
		prefix:     newPrefix("carousel"),
		transition: tui.NewTransition(env.Timing.AnimationFrame),
	}

	doc := env.Document
	carousel.container = doc.Append(props.Parent,
		document.NewNode(carousel.prefix, props.AriaLabel, document.RoleRegion))
	carousel.previous = doc.Append(carousel.container,
		document.NewButton(carousel.prefix+"-previous", "Previous slide"))
	carousel.next = doc.Append(carousel.container,
		document.NewButton(carousel.prefix+"-next", "Next slide"))
	carousel.dotGroup = doc.Append(carousel.container,
		document.NewNode(carousel.prefix+"-dots", "Choose slide", document.RoleTabList))
	enabled := make([]bool, len(props.Items))
	for index, item := range props.Items {
		enabled[index] = true
		carousel.dots = append(carousel.dots, doc.Append(carousel.dotGroup,
			document.NewNode(carousel.dotID(index), item.Label, document.RoleTab)))
	}
	carousel.toggle = doc.Append(carousel.container,
		document.NewButton(carousel.prefix+"-toggle", "Pause autoplay"))

	carousel.selection = roving.New(enabled)
	carousel.selection.Commit()

	carousel.unsubscribe = env.subscribe(carousel.preferencesChanged)
	if carousel.autoplayPossible() {
		carousel.play()
	}
	carousel.sync()
	return carousel
}

func (carousel *Carousel) dotID(index int) string {
	return fmt.Sprintf("%s-dot-%d", carousel.prefix, index)
}

func (carousel *Carousel) autoplayPossible() bool {
	return carousel.props.AutoPlay && len(carousel.props.Items) > 1 && !carousel.env.reducedMotion()
}

// sync updates tab stops and the toggle node.
func (carousel *Carousel) sync() {
	focused := carousel.selection.Focused()
	for index, dot := range carousel.dots {
		dot.SetTabIndex(roving.TabIndex(index, focused))
	}
	empty := len(carousel.props.Items) == 0
	carousel.previous.Disabled = empty
	carousel.next.Disabled = empty
	carousel.toggle.Hidden = !carousel.autoplayPossible()
	if carousel.playing {
		carousel.toggle.Label = "Pause autoplay"
	} else {
		carousel.toggle.Label = "Start autoplay"
	}
}

// Container implements Component.
func (carousel *Carousel) Container() *document.Node {
	return carousel.container
}

// ZoneIDs implements Component.
func (carousel *Carousel) ZoneIDs() []string {
	ids := []string{carousel.previous.ID, carousel.next.ID, carousel.toggle.ID}
	for index := range carousel.dots {
		ids = append(ids, carousel.dotID(index))
	}
	return ids
}

// Active returns the current slide index, or roving.None when empty.
func (carousel *Carousel) Active() int {
	return carousel.selection.Active()
}

// Playing reports whether autoplay is running.
func (carousel *Carousel) Playing() bool {
	return carousel.playing
}

// ToggleVisible reports whether the play/pause control is exposed.
func (carousel *Carousel) ToggleVisible() bool {
	return !carousel.toggle.Hidden
}

// Nodes exposes the control nodes: previous, next, toggle.
func (carousel *Carousel) Nodes() (previous, next, toggle *document.Node) {
	return carousel.previous, carousel.next, carousel.toggle
}

// Dots returns the dot nodes.
func (carousel *Carousel) Dots() []*document.Node {
	return carousel.dots
}

func (carousel *Carousel) play() {
	if carousel.closed || !carousel.autoplayPossible() {
		return
	}
	carousel.playing = true
	carousel.userStopped = false
	carousel.armAutoplay()
}

func (carousel *Carousel) armAutoplay() {
	carousel.autoplay.Stop()
	carousel.autoplay = carousel.env.after(carousel.props.AutoPlayInterval, func(id schedule.TimerID) tea.Msg {
		return autoplayMsg{carousel: carousel, id: id}
	})
}

// pause stops autoplay. user marks a stop caused by the user, which a
// later change back to full motion does not undo.
func (carousel *Carousel) pause(user bool) {
	carousel.playing = false
	if user {
		carousel.userStopped = true
	}
	carousel.autoplay.Stop()
	carousel.autoplay = nil
}

func (carousel *Carousel) preferencesChanged(settings preference.Settings) {
	if carousel.closed {
		return
	}
	if settings.ReducedMotion {
		carousel.pause(false)
		carousel.transition.Jump(0)
		carousel.frame.Stop()
		carousel.frame = nil
	} else if !carousel.playing && !carousel.userStopped && carousel.autoplayPossible() {
		carousel.play()
	}
	carousel.sync()
}

// Update handles timers, keys on the carousel's controls, and presses.
func (carousel *Carousel) Update(message tea.Msg) tea.Cmd {
	if carousel.closed {
		return nil
	}
	switch message := message.(type) {
	case autoplayMsg:
		if message.carousel != carousel || !carousel.autoplay.Live(message.id) || !carousel.playing {
			return nil
		}
		if !carousel.holding() {
			carousel.show(carousel.wrap(carousel.selection.Active()+1), false)
		}
		carousel.armAutoplay()

	case slideFrameMsg:
		if message.carousel != carousel || !carousel.frame.Live(message.id) {
			return nil
		}
		carousel.frame = nil
		if carousel.transition.Step() {
			carousel.armFrame()
		}

	case tea.KeyMsg:
		carousel.handleKey(message)

	case PointerMsg:
		carousel.handlePointer(message.Target)
	}
	return nil
}

// holding reports whether PauseOnFocus applies right now.
func (carousel *Carousel) holding() bool {
	return carousel.props.PauseOnFocus && carousel.container.Contains(carousel.env.Document.Active())
}

func (carousel *Carousel) handleKey(message tea.KeyMsg) {
	doc := carousel.env.Document
	active := doc.Active()
	keys := carousel.env.Keys

	if slices.Contains(carousel.dots, active) {
		result := carousel.selection.HandleKey(message, carousel.env.rovingConfig(roving.Horizontal, roving.Manual))
		if result.Moved {
			carousel.navigate(carousel.selection.Focused())
			doc.Focus(carousel.dots[carousel.selection.Focused()])
		}
		return
	}
	if !key.Matches(message, keys.Activate) {
		return
	}
	switch active {
	case carousel.previous:
		carousel.step(-1)
	case carousel.next:
		carousel.step(1)
	case carousel.toggle:
		carousel.togglePlay()
	}
}

func (carousel *Carousel) handlePointer(target string) {
	switch target {
	case carousel.previous.ID:
		carousel.step(-1)
	case carousel.next.ID:
		carousel.step(1)
	case carousel.toggle.ID:
		if carousel.ToggleVisible() {
			carousel.togglePlay()
		}
	default:
		for index := range carousel.dots {
			if target == carousel.dotID(index) {
				carousel.navigate(index)
				return
			}
		}
	}
}

func (carousel *Carousel) togglePlay() {
	if carousel.playing {
		carousel.pause(true)
		carousel.env.announce("Autoplay paused")
	} else {
		carousel.play()
		carousel.env.announce("Autoplay started")
	}
	carousel.sync()
}

func (carousel *Carousel) step(delta int) {
	if len(carousel.props.Items) == 0 {
		return
	}
	carousel.navigate(carousel.wrap(carousel.selection.Active() + delta))
}

func (carousel *Carousel) wrap(index int) int {
	count := len(carousel.props.Items)
	return ((index % count) + count) % count
}

// navigate is a user-initiated slide change: it stops autoplay and
// announces the new slide.
func (carousel *Carousel) navigate(index int) {
	if carousel.playing {
		carousel.pause(true)
	}
	carousel.show(index, true)
	carousel.sync()
}

func (carousel *Carousel) show(index int, announce bool) {
	previous := carousel.selection.Active()
	carousel.selection.FocusIndex(index)
	carousel.selection.Commit()
	carousel.sync()
	if carousel.selection.Active() == previous {
		return
	}

	if carousel.env.reducedMotion() {
		carousel.transition.Jump(0)
	} else {
		direction := 1.0
		if index < previous {
			direction = -1
		}
		carousel.transition.Start(direction, 0)
		if carousel.frame == nil {
			carousel.armFrame()
		}
	}

	if announce {
		item := carousel.props.Items[index]
		carousel.env.announce(fmt.Sprintf("Slide %d of %d: %s", index+1, len(carousel.props.Items), item.Label))
	}
}

func (carousel *Carousel) armFrame() {
	carousel.frame = carousel.env.after(carousel.env.Timing.AnimationFrame, func(id schedule.TimerID) tea.Msg {
		return slideFrameMsg{carousel: carousel, id: id}
	})
}

// View renders the slide, the controls, and the dots.
func (carousel *Carousel) View(width int) string {
	theme := carousel.env.theme()
	scale := carousel.env.presentation().Scale()
	if len(carousel.props.Items) == 0 {
		return lipgloss.NewStyle().Foreground(theme.FaintText).Render("No slides")
	}

	item := carousel.props.Items[carousel.selection.Active()]
	contentWidth := max(width-2*scale.Padding, 1)
	body := tui.RenderMarkdown(item.Content, contentWidth, theme)

	// Slide the body in from the side while the transition runs.
	if offset := int(carousel.transition.Position() * float64(contentWidth)); offset != 0 {
		lines := strings.Split(body, "\n")
		for index, line := range lines {
			if offset > 0 {
				lines[index] = strings.Repeat(" ", offset) + line
			} else {
				lines[index] = ansi.TruncateLeft(line, -offset, "")
			}
			lines[index] = ansi.Truncate(lines[index], contentWidth, "")
		}
		body = strings.Join(lines, "\n")
	}

	title := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(item.Label)
	position := lipgloss.NewStyle().Foreground(theme.FaintText).
		Render(fmt.Sprintf("%d / %d", carousel.selection.Active()+1, len(carousel.props.Items)))

	button := func(node *document.Node, text string) string {
		style := carousel.env.focusStyle(node, lipgloss.NewStyle().Foreground(theme.Accent))
		return carousel.env.mark(node.ID, style.Render(carousel.env.focusMarker(node)+text))
	}

	var dots []string
	for index, dot := range carousel.dots {
		symbol := "○"
		style := lipgloss.NewStyle().Foreground(theme.FaintText)
		if index == carousel.selection.Active() {
			symbol = "●"
			style = style.Foreground(theme.Accent)
		}
		style = carousel.env.focusStyle(dot, style)
		dots = append(dots, carousel.env.mark(carousel.dotID(index), style.Render(symbol)))
	}

	controls := []string{button(carousel.previous, "‹ Prev"), strings.Join(dots, " "), button(carousel.next, "Next ›")}
	if carousel.ToggleVisible() {
		text := "❚❚ Pause"
		if !carousel.playing {
			text = "▶ Play"
		}
		controls = append(controls, button(carousel.toggle, text))
	}

	header := title + "  " + position
	if sr := carousel.env.srText(carousel.props.AriaLabel + ", carousel"); sr != "" {
		header = sr + ": " + header
	}
	padded := lipgloss.NewStyle().Padding(scale.Gap, scale.Padding)
	return strings.Join([]string{
		header,
		padded.Render(body),
		strings.Join(controls, "  "),
	}, "\n")
}

// Close stops every timer and the preference subscription, and
// removes the carousel's nodes.
func (carousel *Carousel) Close() {
	if carousel.closed {
		return
	}
	carousel.closed = true
	carousel.autoplay.Stop()
	carousel.frame.Stop()
	carousel.playing = false
	carousel.unsubscribe()
	carousel.env.Document.Remove(carousel.container)
}
