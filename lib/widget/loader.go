// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
)

// LoadState is the loader's request state.
type LoadState int

const (
	LoadIdle LoadState = iota
	LoadLoading
	LoadError
)

func (state LoadState) String() string {
	switch state {
	case LoadLoading:
		return "loading"
	case LoadError:
		return "error"
	default:
		return "idle"
	}
}

// LoaderProps configures a Loader.
type LoaderProps[T any] struct {
	// Items is the full source list. The loader reveals it one page at
	// a time.
	Items []T

	// PageSize overrides Env.Loader.PageSize.
	PageSize int

	RenderItem func(item T, index int) string

	// LoadMore fetches the next page. It runs off the update loop; a
	// nil return reveals one more page, an error is shown with a retry
	// button. The context is cancelled when the loader closes.
	LoadMore func(ctx context.Context) error

	// EnableManualLoad replaces the scroll sentinel with a "Load more"
	// button. Reduced motion does the same.
	EnableManualLoad bool

	// Height is the number of visible rows. Default 10.
	Height int

	Label  string
	Parent *document.Node
}

type loadedMsg struct {
	owner      any
	generation int
	err        error
}

type spinnerFrameMsg struct {
	owner any
	id    schedule.TimerID
}

// Loader reveals a long list page by page. At most one LoadMore call
// is in flight, and none is made once every item is shown.
type Loader[T any] struct {
	env   Env
	props LoaderProps[T]

	prefix      string
	region      *document.Node
	sentinel    *document.Node
	loadButton  *document.Node
	retryButton *document.Node

	pagesLoaded int
	state       LoadState
	lastError   string
	generation  int

	// sentinelVisible is the last observed intersection; a load
	// triggers only when it turns true.
	sentinelVisible bool

	viewport viewport.Model
	width    int
	lines    int

	spinner      spinner.Model
	spinnerFrame *schedule.Timer

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	closed      bool
}

// NewLoader builds the loader with no pages shown. Init performs the
// first sentinel check.
func NewLoader[T any](env Env, props LoaderProps[T]) *Loader[T] {
	env = env.withDefaults()
	if props.PageSize <= 0 {
		props.PageSize = env.Loader.PageSize
	}
	if props.Height <= 0 {
		props.Height = 10
	}
	if props.RenderItem == nil {
		props.RenderItem = func(item T, _ int) string { return fmt.Sprint(item) }
	}

	loader := &Loader[T]{
		env:      env,
		props:    props,
		prefix:   newPrefix("loader"),
		viewport: viewport.New(80, props.Height),
		width:    80,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	loader.ctx, loader.cancel = context.WithCancel(context.Background())

	doc := env.Document
	loader.region = doc.Append(props.Parent, document.NewNode(loader.prefix, props.Label, document.RoleRegion))
	loader.region.SetTabIndex(0)
	loader.sentinel = doc.Append(loader.region, document.NewNode(loader.prefix+"-sentinel", "", document.RoleGeneric))
	loader.loadButton = doc.Append(loader.region, document.NewButton(loader.prefix+"-load", "Load more"))
	loader.retryButton = doc.Append(loader.region, document.NewButton(loader.prefix+"-retry", "Retry"))

	loader.unsubscribe = env.subscribe(func(preference.Settings) {
		if !loader.closed {
			loader.sync()
		}
	})
	loader.sync()
	return loader
}

// Init runs the initial sentinel check, loading the first page in
// automatic mode.
func (loader *Loader[T]) Init() tea.Cmd {
	return loader.checkSentinel()
}

// Container implements Component.
func (loader *Loader[T]) Container() *document.Node {
	return loader.region
}

// ZoneIDs implements Component.
func (loader *Loader[T]) ZoneIDs() []string {
	return []string{loader.loadButton.ID, loader.retryButton.ID, loader.region.ID}
}

// Region returns the scrollable region node.
func (loader *Loader[T]) Region() *document.Node {
	return loader.region
}

// Buttons returns the load-more and retry button nodes.
func (loader *Loader[T]) Buttons() (load, retry *document.Node) {
	return loader.loadButton, loader.retryButton
}

// PagesLoaded returns the number of successful loads.
func (loader *Loader[T]) PagesLoaded() int {
	return loader.pagesLoaded
}

// Displayed returns the revealed items.
func (loader *Loader[T]) Displayed() []T {
	return loader.props.Items[:loader.displayedCount()]
}

func (loader *Loader[T]) displayedCount() int {
	return min(loader.pagesLoaded*loader.props.PageSize, len(loader.props.Items))
}

// HasMore reports whether items remain hidden.
func (loader *Loader[T]) HasMore() bool {
	return loader.displayedCount() < len(loader.props.Items)
}

// State returns the request state.
func (loader *Loader[T]) State() LoadState {
	return loader.state
}

// Err returns the last load failure message while in the error state.
func (loader *Loader[T]) Err() string {
	if loader.state != LoadError {
		return ""
	}
	return loader.lastError
}

// Manual reports whether loading needs the explicit button.
func (loader *Loader[T]) Manual() bool {
	return loader.props.EnableManualLoad || loader.env.reducedMotion()
}

// SentinelConnected reports whether the scroll sentinel still
// triggers loads.
func (loader *Loader[T]) SentinelConnected() bool {
	return !loader.Manual() && loader.HasMore()
}

// SetItems replaces the source list. Loaded pages are kept.
func (loader *Loader[T]) SetItems(items []T) {
	loader.props.Items = items
	loader.sync()
}

// sync updates button visibility and the viewport content.
func (loader *Loader[T]) sync() {
	manual := loader.Manual()
	loader.loadButton.Hidden = !manual || !loader.HasMore() || loader.state == LoadError
	loader.retryButton.Hidden = loader.state != LoadError
	loader.sentinel.Hidden = !loader.SentinelConnected()

	// A button that disappears under focus hands it to the region.
	if active := loader.env.Document.Active(); active != nil && !active.Visible() && loader.region.Contains(active) {
		if !loader.retryButton.Hidden {
			loader.env.Document.Focus(loader.retryButton)
		} else {
			loader.env.Document.Focus(loader.region)
		}
	}
	loader.refresh()
}

// refresh re-renders the revealed items into the viewport.
func (loader *Loader[T]) refresh() {
	var rendered []string
	for index, item := range loader.Displayed() {
		rendered = append(rendered, loader.props.RenderItem(item, index))
	}
	content := strings.Join(rendered, "\n")
	loader.lines = 0
	if content != "" {
		loader.lines = strings.Count(content, "\n") + 1
	}
	loader.viewport.Width = max(loader.width-1, 1)
	loader.viewport.Height = loader.props.Height
	loader.viewport.SetContent(content)
}

// checkSentinel observes the sentinel and starts a load when it has
// just come into view.
func (loader *Loader[T]) checkSentinel() tea.Cmd {
	if !loader.SentinelConnected() {
		loader.sentinelVisible = false
		return nil
	}
	visible := loader.viewport.YOffset+loader.viewport.Height+loader.env.Loader.SentinelMargin >= loader.lines
	entered := visible && !loader.sentinelVisible
	loader.sentinelVisible = visible
	if !entered {
		return nil
	}
	return loader.LoadMore()
}

// LoadMore starts one LoadMore call. It does nothing while a call is
// in flight or when every item is shown.
func (loader *Loader[T]) LoadMore() tea.Cmd {
	if loader.closed || loader.state == LoadLoading || !loader.HasMore() || loader.props.LoadMore == nil {
		return nil
	}
	loader.state = LoadLoading
	loader.generation++
	generation := loader.generation
	ctx := loader.ctx
	load := loader.props.LoadMore
	loader.env.Logger.Debug("loading page", "loader", loader.props.Label, "page", loader.pagesLoaded+1)
	loader.sync()
	if !loader.env.reducedMotion() {
		loader.armSpinner()
	}
	return func() tea.Msg {
		return loadedMsg{owner: loader, generation: generation, err: load(ctx)}
	}
}

func (loader *Loader[T]) armSpinner() {
	loader.spinnerFrame.Stop()
	loader.spinnerFrame = loader.env.after(loader.spinner.Spinner.FPS, func(id schedule.TimerID) tea.Msg {
		return spinnerFrameMsg{owner: loader, id: id}
	})
}

// Scroll moves the viewport by delta rows and observes the sentinel.
func (loader *Loader[T]) Scroll(delta int) tea.Cmd {
	loader.viewport.SetYOffset(loader.viewport.YOffset + delta)
	return loader.checkSentinel()
}

// Update handles load results, spinner frames, keys, and presses.
func (loader *Loader[T]) Update(message tea.Msg) tea.Cmd {
	if loader.closed {
		return nil
	}
	switch message := message.(type) {
	case loadedMsg:
		if message.owner != loader || message.generation != loader.generation || loader.state != LoadLoading {
			return nil
		}
		return loader.finish(message.err)

	case spinnerFrameMsg:
		if message.owner != loader || !loader.spinnerFrame.Live(message.id) {
			return nil
		}
		loader.spinnerFrame = nil
		if loader.state != LoadLoading || loader.env.reducedMotion() {
			return nil
		}
		// The spinner's own tick command is dropped; frames come from
		// the scheduler so Close can stop them.
		loader.spinner, _ = loader.spinner.Update(spinner.TickMsg{ID: loader.spinner.ID()})
		loader.armSpinner()

	case tea.KeyMsg:
		return loader.handleKey(message)

	case PointerMsg:
		switch message.Target {
		case loader.loadButton.ID:
			if !loader.loadButton.Hidden {
				loader.env.Document.Focus(loader.loadButton)
				return loader.LoadMore()
			}
		case loader.retryButton.ID:
			if !loader.retryButton.Hidden {
				return loader.retry()
			}
		case loader.region.ID:
			loader.env.Document.Focus(loader.region)
		}
	}
	return nil
}

func (loader *Loader[T]) handleKey(message tea.KeyMsg) tea.Cmd {
	keys := loader.env.Keys
	switch loader.env.Document.Active() {
	case loader.loadButton:
		if key.Matches(message, keys.Activate) {
			return loader.LoadMore()
		}
	case loader.retryButton:
		if key.Matches(message, keys.Activate) {
			return loader.retry()
		}
	case loader.region:
		switch {
		case key.Matches(message, keys.ScrollDown):
			return loader.Scroll(1)
		case key.Matches(message, keys.ScrollUp):
			return loader.Scroll(-1)
		case key.Matches(message, keys.PageDown):
			return loader.Scroll(loader.viewport.Height)
		case key.Matches(message, keys.PageUp):
			return loader.Scroll(-loader.viewport.Height)
		}
	}
	return nil
}

// retry re-invokes LoadMore after a failure. Loaded pages are kept.
func (loader *Loader[T]) retry() tea.Cmd {
	if loader.state != LoadError {
		return nil
	}
	loader.state = LoadIdle
	return loader.LoadMore()
}

func (loader *Loader[T]) finish(err error) tea.Cmd {
	loader.spinnerFrame.Stop()
	loader.spinnerFrame = nil

	if err != nil {
		loader.state = LoadError
		loader.lastError = err.Error()
		loader.env.Logger.Warn("loading page failed", "loader", loader.props.Label, "error", err)
		loader.env.announceAssertive("Could not load more items: " + loader.lastError)
		loader.sync()
		return nil
	}

	loader.state = LoadIdle
	loader.lastError = ""
	loader.pagesLoaded++
	loader.env.announce(fmt.Sprintf("Showing %d of %d items", loader.displayedCount(), len(loader.props.Items)))
	if !loader.HasMore() {
		loader.env.Logger.Debug("all pages loaded", "loader", loader.props.Label, "items", len(loader.props.Items))
	}
	loader.sync()
	// The grown list moved the sentinel; observe it afresh.
	loader.sentinelVisible = false
	return loader.checkSentinel()
}

// View renders the visible rows, a scrollbar, and the status line.
func (loader *Loader[T]) View(width int) string {
	if width != loader.width && width > 0 {
		loader.width = width
		loader.refresh()
	}
	theme := loader.env.theme()

	header := lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true).Render(loader.props.Label)
	if loader.env.presentation().FocusVisible() && loader.region.Focused() {
		header = loader.env.focusMarker(loader.region) + header
	}
	if sr := loader.env.srText(fmt.Sprintf(" (%d of %d shown)", loader.displayedCount(), len(loader.props.Items))); sr != "" {
		header += lipgloss.NewStyle().Foreground(theme.FaintText).Render(sr)
	}

	body := loader.viewport.View()
	if loader.lines > loader.viewport.Height {
		bar := tui.RenderScrollbar(theme, loader.viewport.Height, loader.lines, loader.viewport.Height,
			loader.viewport.YOffset, loader.region.Focused())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, bar)
	}

	return strings.Join([]string{header, loader.env.mark(loader.region.ID, body), loader.status(theme)}, "\n")
}

func (loader *Loader[T]) status(theme tui.Theme) string {
	faint := lipgloss.NewStyle().Foreground(theme.FaintText)
	button := func(node *document.Node, label string) string {
		style := loader.env.focusStyle(node, lipgloss.NewStyle().Foreground(theme.Accent))
		return loader.env.mark(node.ID, style.Render(loader.env.focusMarker(node)+"["+label+"]"))
	}

	switch {
	case loader.state == LoadLoading && !loader.env.reducedMotion():
		return loader.spinner.View() + faint.Render(" Loading…")
	case loader.state == LoadLoading:
		return faint.Render("Loading…")
	case loader.state == LoadError:
		message := lipgloss.NewStyle().Foreground(theme.Danger).Render("✖ " + loader.lastError)
		return message + " " + button(loader.retryButton, "Retry")
	case !loader.HasMore():
		return faint.Render(fmt.Sprintf("All %d items shown", len(loader.props.Items)))
	case loader.Manual():
		return button(loader.loadButton, "Load more")
	default:
		return faint.Render("Scroll for more")
	}
}

// Close cancels an in-flight LoadMore, stops the spinner, and removes
// the loader's nodes.
func (loader *Loader[T]) Close() {
	if loader.closed {
		return
	}
	loader.closed = true
	loader.cancel()
	loader.spinnerFrame.Stop()
	loader.spinnerFrame = nil
	loader.unsubscribe()
	loader.env.Document.Remove(loader.region)
}
