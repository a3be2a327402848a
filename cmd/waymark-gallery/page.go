// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/waymark-travel/waymark/lib/announce"
	"github.com/waymark-travel/waymark/lib/config"
	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
	"github.com/waymark-travel/waymark/lib/widget"
)

// storyCount is the size of the mock stories feed.
const storyCount = 25

// pageKeyMap adds the page-level bindings to the widget bindings for
// the help line.
type pageKeyMap struct {
	widget.KeyMap
	Next key.Binding
	Help key.Binding
	Quit key.Binding
}

var pageKeys = pageKeyMap{
	KeyMap: widget.DefaultKeyMap,
	Next: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab/⇧tab", "next/previous control"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (keys pageKeyMap) ShortHelp() []key.Binding {
	return append([]key.Binding{keys.Next}, append(keys.KeyMap.ShortHelp(), keys.Help, keys.Quit)...)
}

func (keys pageKeyMap) FullHelp() [][]key.Binding {
	return append(keys.KeyMap.FullHelp(), []key.Binding{keys.Next, keys.Help, keys.Quit})
}

// pageOptions are the collaborators run() builds for the page.
type pageOptions struct {
	Config    *config.Config
	Store     *preference.Store
	Document  *document.Document
	Scheduler *schedule.Scheduler
	Announcer *announce.Announcer
	Zones     *zone.Manager
	Logger    *slog.Logger

	// Feed backs the stories loader.
	Feed *storyFeed
}

type logExpiredMsg struct {
	id schedule.TimerID
}

// page is the root model: the travel planner page that hosts every
// widget, routes input to them, and lays them out.
type page struct {
	env       widget.Env
	store     *preference.Store
	announcer *announce.Announcer
	logger    *slog.Logger

	navigation *document.Node
	main       *document.Node

	skipLinks   *widget.SkipLinks
	tabs        *widget.TabGroup
	carousel    *widget.Carousel
	destination *widget.Dropdown
	interests   *widget.Dropdown
	stories     *widget.Loader[story]
	actions     *buttonBar
	preferences *buttonBar
	booking     *widget.Modal

	help     help.Model
	viewport viewport.Model
	width    int
	height   int

	// offsets maps each section's node to its first line in the
	// page body, as of the last render.
	offsets map[*document.Node]int
	reveal  *document.Node

	record      *tui.LogRecordMsg
	recordTimer *schedule.Timer

	cancelFocus  func()
	cancelScroll func()
}

var _ tea.Model = (*page)(nil)

func newPage(options pageOptions) *page {
	cfg := options.Config
	doc := options.Document
	env := widget.Env{
		Document:    doc,
		Preferences: options.Store,
		Announcer:   options.Announcer,
		Scheduler:   options.Scheduler,
		Zones:       options.Zones,
		Logger:      options.Logger,
		Timing: widget.Timing{
			FocusYield:       cfg.Timing.FocusYield.Std(),
			SkipLinkCleanup:  cfg.Timing.SkipLinkCleanup.Std(),
			AutoplayInterval: cfg.Timing.AutoplayInterval.Std(),
			AnimationFrame:   cfg.Timing.AnimationFrame.Std(),
		},
		Loader: widget.LoaderSettings{
			PageSize:       cfg.Loader.PageSize,
			SentinelMargin: cfg.Loader.SentinelMargin,
		},
		Keys: widget.DefaultKeyMap,
	}

	page := &page{
		env:       env,
		store:     options.Store,
		announcer: options.Announcer,
		logger:    options.Logger,
		help:      help.New(),
		viewport:  viewport.New(80, 24),
		offsets:   make(map[*document.Node]int),
	}

	// Skip links come first so they are the first Tab stop.
	page.skipLinks = widget.NewSkipLinks(env, widget.SkipLinksProps{})
	page.navigation = doc.Append(nil, document.NewNode("navigation", "Destinations", document.RoleNav))
	page.main = doc.Append(nil, document.NewNode("main-content", "Plan your trip", document.RoleMain))

	page.tabs = widget.NewTabGroup(env, widget.TabGroupProps{
		Tabs:   destinationTabs,
		Label:  "Regions",
		Parent: page.navigation,
		OnTabChange: func(id string) {
			page.logger.Debug("region selected", "tab", id)
		},
	})
	page.carousel = widget.NewCarousel(env, widget.CarouselProps{
		Items:        featuredSlides,
		AutoPlay:     true,
		PauseOnFocus: true,
		AriaLabel:    "Featured destinations",
		Parent:       page.main,
	})
	page.destination = widget.NewDropdown(env, widget.DropdownProps{
		Options:     destinationOptions,
		Searchable:  true,
		Label:       "Destination",
		Placeholder: "Search destinations",
		Required:    true,
		MaxVisible:  6,
		Parent:      page.main,
	})
	page.interests = widget.NewDropdown(env, widget.DropdownProps{
		Options:     interestOptions,
		Multiple:    true,
		Label:       "Interests",
		Placeholder: "Pick interests",
		Parent:      page.main,
	})
	page.stories = widget.NewLoader(env, widget.LoaderProps[story]{
		Items: mockStories(storyCount),
		RenderItem: func(item story, index int) string {
			return fmt.Sprintf("%2d. %s · %s", index+1, item.Title, item.Author)
		},
		LoadMore: options.Feed.Fetch,
		Height:   6,
		Label:    "Traveller stories",
		Parent:   page.main,
	})
	page.actions = newButtonBar(doc, options.Zones, env.Keys, page.main, "trip-actions", "Your trip", []button{
		{ID: "check-itinerary", Label: func() string { return "Check itinerary" }, OnPress: page.checkItinerary},
		{ID: "book-trip", Label: func() string { return "Book this trip" }, OnPress: page.openBooking},
	})
	page.preferences = newButtonBar(doc, options.Zones, env.Keys, page.main, "preferences", "Accessibility", page.preferenceButtons())
	page.preferences.vertical = true

	page.booking = widget.NewModal(env, widget.ModalProps{
		Title:       "Confirm booking",
		Description: "We hold the fare for 24 hours while you pay.",
		Variant:     widget.VariantInfo,
		Body:        "Cancellation is free until **48 hours** before departure.",
		Actions: []widget.Action{
			{ID: "cancel", Label: "Keep browsing", OnSelect: page.cancelBooking},
			{ID: "confirm", Label: "Confirm", Primary: true, OnSelect: page.confirmBooking},
		},
		OnClose: func() { page.booking.SetOpen(false) },
	})

	page.cancelFocus = doc.OnFocusChange(func(_, current *document.Node) {
		if current != nil {
			page.reveal = current
		}
	})
	page.cancelScroll = doc.OnScrollIntoView(func(node *document.Node) {
		page.reveal = node
	})
	return page
}

func (page *page) preferenceButtons() []button {
	onOff := func(value bool) string {
		if value {
			return "on"
		}
		return "off"
	}
	toggle := func(field preference.Field, name string, current func(preference.Settings) bool) func() tea.Cmd {
		return func() tea.Cmd {
			value := !current(page.store.Get())
			if err := page.store.Update(field, value); err != nil {
				page.logger.Warn("updating preference failed", "field", string(field), "error", err)
				return nil
			}
			page.env.Announcer.Announce(name + " " + onOff(value))
			return nil
		}
	}
	return []button{
		{
			ID:    "pref-motion",
			Label: func() string { return "Reduce motion: " + onOff(page.store.Get().ReducedMotion) },
			OnPress: toggle(preference.FieldReducedMotion, "Reduce motion",
				func(settings preference.Settings) bool { return settings.ReducedMotion }),
		},
		{
			ID:    "pref-contrast",
			Label: func() string { return "High contrast: " + onOff(page.store.Get().HighContrast) },
			OnPress: toggle(preference.FieldHighContrast, "High contrast",
				func(settings preference.Settings) bool { return settings.HighContrast }),
		},
		{
			ID:      "pref-font",
			Label:   func() string { return "Text size: " + string(page.store.Get().FontSize) },
			OnPress: page.cycleFontSize,
		},
		{
			ID:    "pref-focus",
			Label: func() string { return "Focus indicators: " + onOff(page.store.Get().FocusVisible) },
			OnPress: toggle(preference.FieldFocusVisible, "Focus indicators",
				func(settings preference.Settings) bool { return settings.FocusVisible }),
		},
		{
			ID:    "pref-reader",
			Label: func() string { return "Screen reader text: " + onOff(page.store.Get().ScreenReader) },
			OnPress: toggle(preference.FieldScreenReader, "Screen reader text",
				func(settings preference.Settings) bool { return settings.ScreenReader }),
		},
		{
			ID:      "pref-reset",
			Label:   func() string { return "Reset preferences" },
			OnPress: page.resetPreferences,
		},
	}
}

func (page *page) cycleFontSize() tea.Cmd {
	current := page.store.Get().FontSize
	next := preference.FontSizes[0]
	for index, size := range preference.FontSizes {
		if size == current {
			next = preference.FontSizes[(index+1)%len(preference.FontSizes)]
		}
	}
	if err := page.store.Update(preference.FieldFontSize, next); err != nil {
		page.logger.Warn("updating preference failed", "field", string(preference.FieldFontSize), "error", err)
		return nil
	}
	page.env.Announcer.Announce("Text size " + string(next))
	return nil
}

func (page *page) resetPreferences() tea.Cmd {
	if err := page.store.Reset(); err != nil {
		page.logger.Warn("resetting preferences failed", "error", err)
	}
	page.env.Announcer.Announce("Preferences reset")
	return nil
}

func (page *page) checkItinerary() tea.Cmd {
	if err := page.destination.Validate(); err != nil {
		page.env.Announcer.AnnounceAssertive(err.Error())
		return nil
	}
	page.env.Announcer.Announce(fmt.Sprintf("Itinerary ready: %s with %d interests",
		page.destination.Value(), len(page.interests.Values())))
	return nil
}

func (page *page) openBooking() tea.Cmd {
	if err := page.destination.Validate(); err != nil {
		page.env.Announcer.AnnounceAssertive(err.Error())
		return nil
	}
	page.booking.SetOpen(true)
	return nil
}

func (page *page) cancelBooking() tea.Cmd {
	page.booking.SetOpen(false)
	return nil
}

func (page *page) confirmBooking() tea.Cmd {
	page.logger.Info("booking confirmed",
		"destination", page.destination.Value(),
		"interests", strings.Join(page.interests.Values(), ","))
	page.booking.SetOpen(false)
	page.env.Announcer.Announce("Booking confirmed")
	return nil
}

// components returns every widget in document order.
func (page *page) components() []widget.Component {
	return []widget.Component{
		page.skipLinks,
		page.tabs,
		page.carousel,
		page.destination,
		page.interests,
		page.stories,
		page.actions,
		page.preferences,
		page.booking,
	}
}

func (page *page) Init() tea.Cmd {
	return page.stories.Init()
}

func (page *page) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		page.width, page.height = message.Width, message.Height
		page.help.Width = message.Width
		return page, nil
	case tea.KeyMsg:
		return page, page.handleKey(message)
	case tea.MouseMsg:
		return page, page.handleMouse(message)
	case preference.SignalChangeMsg:
		page.store.ApplySignal(message.Change)
		return page, nil
	case tui.LogRecordMsg:
		page.record = &message
		page.recordTimer.Stop()
		page.recordTimer = page.env.Scheduler.After(tui.LogRecordVisible, func(id schedule.TimerID) tea.Msg {
			return logExpiredMsg{id: id}
		})
		return page, nil
	case logExpiredMsg:
		if page.recordTimer.Live(message.id) {
			page.record = nil
		}
		return page, nil
	}
	return page, page.broadcast(message)
}

// broadcast delivers a message to every widget and the announcer.
func (page *page) broadcast(message tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, component := range page.components() {
		cmds = append(cmds, component.Update(message))
	}
	cmds = append(cmds, page.announcer.Update(message))
	return tea.Batch(cmds...)
}

func (page *page) handleKey(message tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(message, pageKeys.Quit):
		return tea.Quit
	case message.Type == tea.KeyTab:
		page.env.Document.HandleTab(false)
		return nil
	case message.Type == tea.KeyShiftTab:
		page.env.Document.HandleTab(true)
		return nil
	case key.Matches(message, pageKeys.Help):
		page.help.ShowAll = !page.help.ShowAll
		return nil
	}

	target := widget.Focused(page.components(), page.env.Document)
	if page.booking.IsOpen() && target != page.booking {
		target = page.booking
	}
	if target != nil {
		return target.Update(message)
	}

	switch {
	case key.Matches(message, page.env.Keys.ScrollUp):
		page.scrollPage(-1)
	case key.Matches(message, page.env.Keys.ScrollDown):
		page.scrollPage(1)
	case key.Matches(message, page.env.Keys.PageUp):
		page.scrollPage(-page.viewport.Height)
	case key.Matches(message, page.env.Keys.PageDown):
		page.scrollPage(page.viewport.Height)
	}
	return nil
}

func (page *page) handleMouse(message tea.MouseMsg) tea.Cmd {
	if message.Action != tea.MouseActionPress {
		return nil
	}
	switch message.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		delta := 3
		if message.Button == tea.MouseButtonWheelUp {
			delta = -3
		}
		if page.booking.IsOpen() {
			return nil
		}
		if info := page.zones().Get(page.stories.Region().ID); info != nil && info.InBounds(message) {
			return page.stories.Scroll(delta)
		}
		page.scrollPage(delta)
		return nil
	case tea.MouseButtonLeft:
		if page.booking.IsOpen() {
			target := widget.HitTest(page.zones(), message, page.booking.ZoneIDs())
			return page.booking.Update(widget.PointerMsg{Target: target})
		}
		var ids []string
		for _, component := range page.components() {
			ids = append(ids, component.ZoneIDs()...)
		}
		return page.broadcast(widget.PointerMsg{Target: widget.HitTest(page.zones(), message, ids)})
	}
	return nil
}

func (page *page) zones() *zone.Manager {
	return page.env.Zones
}

// scrollPage moves the page body unless a scroll lock is held.
func (page *page) scrollPage(delta int) {
	if page.env.Document.ScrollLocked() {
		return
	}
	page.viewport.SetYOffset(page.viewport.YOffset + delta)
}

func (page *page) View() string {
	if page.width <= 0 || page.height <= 0 {
		return ""
	}
	body := page.renderBody(page.width)
	status := page.renderStatus(page.width)

	page.viewport.Width = page.width
	page.viewport.Height = max(page.height-lipgloss.Height(status), 1)
	page.viewport.SetContent(body)
	page.revealPending()

	screen := page.viewport.View() + "\n" + status
	screen = page.booking.Overlay(screen, page.width, page.height)
	if page.zones() != nil {
		return page.zones().Scan(screen)
	}
	return screen
}

// section is one block of the page body and the node it belongs to.
type section struct {
	node *document.Node
	view string
}

func (page *page) renderBody(width int) string {
	presentation := page.env.Document.Presentation()
	theme := presentation.Theme()
	scale := presentation.Scale()
	inner := width - 2*scale.Padding

	heading := func(text string) string {
		return lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(text)
	}
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("Waymark") +
		lipgloss.NewStyle().Foreground(theme.FaintText).Render("  "+strings.Join(presentation.Classes(), " "))

	sections := []section{
		{page.skipLinks.Container(), page.skipLinks.View(inner)},
		{nil, title},
		{page.navigation, heading("Destinations") + "\n" + page.tabs.View(inner)},
		{page.main, heading("Plan your trip")},
		{page.carousel.Container(), page.carousel.View(inner)},
		{page.destination.Container(), page.destination.View(inner)},
		{page.interests.Container(), page.interests.View(inner)},
		{page.stories.Container(), page.stories.View(inner)},
		{page.actions.Container(), page.actions.View(inner)},
		{page.preferences.Container(), page.preferences.View(inner)},
	}

	gap := strings.Repeat("\n", scale.Gap+1)
	var builder strings.Builder
	line := 0
	clear(page.offsets)
	for _, entry := range sections {
		if entry.view == "" {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(gap)
			line += scale.Gap + 1
		}
		if entry.node != nil {
			page.offsets[entry.node] = line
		}
		builder.WriteString(entry.view)
		line += lipgloss.Height(entry.view) - 1
	}
	return lipgloss.NewStyle().Padding(0, scale.Padding).Render(builder.String())
}

// revealPending scrolls the body so the section holding the last
// focused or scrolled-to node is on screen.
func (page *page) revealPending() {
	node := page.reveal
	page.reveal = nil
	for ; node != nil; node = node.Parent() {
		line, ok := page.offsets[node]
		if !ok {
			continue
		}
		if line < page.viewport.YOffset || line >= page.viewport.YOffset+page.viewport.Height {
			page.viewport.SetYOffset(line)
		}
		return
	}
}

func (page *page) renderStatus(width int) string {
	theme := page.env.Document.Presentation().Theme()
	var lines []string
	if view := page.announcer.View(width); view != "" {
		lines = append(lines, view)
	}
	if page.record != nil {
		lines = append(lines, tui.RenderLogRecord(theme, *page.record, width))
	}
	lines = append(lines, page.help.View(pageKeys))
	return strings.Join(lines, "\n")
}

// Close releases every widget and listener.
func (page *page) Close() {
	page.cancelFocus()
	page.cancelScroll()
	page.recordTimer.Stop()
	for _, component := range page.components() {
		component.Close()
	}
	page.announcer.Close()
}
