// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package announce is the live region: a short FIFO of transient
// messages for assistive technology. Each entry expires on its own
// timer, independent of later arrivals, so overlapping announcements
// are all read in order.
package announce

import (
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/schedule"
	"github.com/waymark-travel/waymark/lib/tui"
)

// DefaultTTL is how long an entry lives when Options.TTL is zero.
const DefaultTTL = time.Second

// maxEntries bounds the queue; the oldest entry is dropped first.
const maxEntries = 16

// Politeness mirrors the live-region politeness levels.
type Politeness string

const (
	Polite    Politeness = "polite"
	Assertive Politeness = "assertive"
)

// Announcement is one queued message.
type Announcement struct {
	ID         uint64
	Text       string
	Politeness Politeness
	CreatedAt  time.Time
}

// Options configures an Announcer.
type Options struct {
	// Scheduler runs the expiry timers. Without one, entries only
	// leave the queue when it overflows.
	Scheduler *schedule.Scheduler

	TTL time.Duration

	// Sink, when set, receives every announcement as it is queued.
	// The gallery uses it to mirror announcements into the log.
	Sink func(Announcement)

	// Presentation supplies the theme and screen-reader mode for
	// View. May be nil.
	Presentation *document.Presentation

	Logger *slog.Logger
}

type entry struct {
	Announcement
	timer *schedule.Timer
}

// expireMsg removes one entry when its timer fires.
type expireMsg struct {
	announcer *Announcer
	entryID   uint64
	timerID   schedule.TimerID
}

// Announcer owns the queue.
type Announcer struct {
	options Options
	entries []entry
	nextID  uint64
	closed  bool
}

// New returns an empty Announcer.
func New(options Options) *Announcer {
	if options.TTL <= 0 {
		options.TTL = DefaultTTL
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Announcer{options: options}
}

// Announce queues a polite message. Blank text is ignored.
func (announcer *Announcer) Announce(text string) {
	announcer.add(text, Polite)
}

// AnnounceAssertive queues a message that interrupts the reader.
func (announcer *Announcer) AnnounceAssertive(text string) {
	announcer.add(text, Assertive)
}

func (announcer *Announcer) add(text string, politeness Politeness) {
	text = strings.TrimSpace(text)
	if text == "" || announcer.closed {
		return
	}

	announcer.nextID++
	item := entry{Announcement: Announcement{
		ID:         announcer.nextID,
		Text:       text,
		Politeness: politeness,
		CreatedAt:  announcer.now(),
	}}
	if scheduler := announcer.options.Scheduler; scheduler != nil {
		entryID := item.ID
		item.timer = scheduler.After(announcer.options.TTL, func(id schedule.TimerID) tea.Msg {
			return expireMsg{announcer: announcer, entryID: entryID, timerID: id}
		})
	}

	if len(announcer.entries) == maxEntries {
		announcer.entries[0].timer.Stop()
		announcer.entries = announcer.entries[1:]
	}
	announcer.entries = append(announcer.entries, item)

	announcer.options.Logger.Debug("announcement", "text", text, "politeness", string(politeness))
	if announcer.options.Sink != nil {
		announcer.options.Sink(item.Announcement)
	}
}

func (announcer *Announcer) now() time.Time {
	if scheduler := announcer.options.Scheduler; scheduler != nil {
		return scheduler.Clock().Now()
	}
	return time.Now()
}

// Update removes the entry whose timer fired.
func (announcer *Announcer) Update(message tea.Msg) tea.Cmd {
	expire, ok := message.(expireMsg)
	if !ok || expire.announcer != announcer {
		return nil
	}
	for index, item := range announcer.entries {
		if item.ID == expire.entryID && item.timer.Live(expire.timerID) {
			announcer.entries = append(announcer.entries[:index:index], announcer.entries[index+1:]...)
			break
		}
	}
	return nil
}

// Messages returns the live entries, oldest first.
func (announcer *Announcer) Messages() []Announcement {
	messages := make([]Announcement, len(announcer.entries))
	for index, item := range announcer.entries {
		messages[index] = item.Announcement
	}
	return messages
}

// Latest returns the newest entry's text, or "".
func (announcer *Announcer) Latest() string {
	if len(announcer.entries) == 0 {
		return ""
	}
	return announcer.entries[len(announcer.entries)-1].Text
}

// View renders the status region: the newest entry, or every live
// entry when screen-reader mode is on. Empty when the queue is.
func (announcer *Announcer) View(width int) string {
	if len(announcer.entries) == 0 || width <= 0 {
		return ""
	}
	theme := tui.DefaultTheme
	screenReader := false
	if presentation := announcer.options.Presentation; presentation != nil {
		theme = presentation.Theme()
		screenReader = presentation.ScreenReader()
	}

	shown := announcer.entries[len(announcer.entries)-1:]
	if screenReader {
		shown = announcer.entries
	}
	lines := make([]string, 0, len(shown))
	for _, item := range shown {
		style := lipgloss.NewStyle().Foreground(theme.HelpText)
		marker := "· "
		if item.Politeness == Assertive {
			style = style.Foreground(theme.Warning).Bold(true)
			marker = "! "
		}
		lines = append(lines, style.Render(ansi.Truncate(marker+item.Text, width, "…")))
	}
	return strings.Join(lines, "\n")
}

// Close stops every pending timer and empties the queue. Later
// announcements are ignored.
func (announcer *Announcer) Close() {
	for _, item := range announcer.entries {
		item.timer.Stop()
	}
	announcer.entries = nil
	announcer.closed = true
}
