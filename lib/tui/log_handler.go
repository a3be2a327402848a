// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// LogRecordMsg delivers a slog record to the program for display in
// the status line.
type LogRecordMsg struct {
	// Summary is the one-line "message (key=value, ...)" form.
	Summary string

	Level slog.Level
	Time  time.Time
}

// LogRecordVisible is how long a log record stays in the status line.
const LogRecordVisible = 5 * time.Second

// LogHandler is a slog.Handler that routes records into a bubbletea
// program as [LogRecordMsg] values. Records below the configured
// level are dropped.
//
// Delivery goes through the post function supplied at construction,
// normally a schedule.Dispatcher's Post, so records logged before the
// program starts are dropped by the dispatcher rather than blocking.
// Handlers derived via WithAttrs/WithGroup share the same post
// function.
type LogHandler struct {
	level  slog.Leveler
	post   func(tea.Msg)
	attrs  []slog.Attr
	groups []string
}

// NewLogHandler creates a handler delivering records at or above
// level through post.
func NewLogHandler(level slog.Leveler, post func(tea.Msg)) *LogHandler {
	return &LogHandler{level: level, post: post}
}

// Enabled reports whether the handler is interested in records at the
// given level.
func (handler *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= handler.level.Level()
}

// Handle formats the record and posts it.
func (handler *LogHandler) Handle(_ context.Context, record slog.Record) error {
	if handler.post == nil {
		return nil
	}

	prefix := ""
	if len(handler.groups) > 0 {
		prefix = strings.Join(handler.groups, ".") + "."
	}

	var parts []string
	for _, attr := range handler.attrs {
		parts = append(parts, formatAttr(attr))
	}
	record.Attrs(func(attr slog.Attr) bool {
		parts = append(parts, prefix+formatAttr(attr))
		return true
	})

	summary := record.Message
	if len(parts) > 0 {
		summary += " (" + strings.Join(parts, ", ") + ")"
	}

	handler.post(LogRecordMsg{
		Summary: summary,
		Level:   record.Level,
		Time:    record.Time,
	})
	return nil
}

func formatAttr(attr slog.Attr) string {
	return fmt.Sprintf("%s=%s", attr.Key, attr.Value.Resolve())
}

// WithAttrs returns a handler with the given attributes appended.
func (handler *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := ""
	if len(handler.groups) > 0 {
		prefix = strings.Join(handler.groups, ".") + "."
	}
	combined := sliceClone(handler.attrs)
	for _, attr := range attrs {
		attr.Key = prefix + attr.Key
		combined = append(combined, attr)
	}
	return &LogHandler{
		level:  handler.level,
		post:   handler.post,
		attrs:  combined,
		groups: sliceClone(handler.groups),
	}
}

// WithGroup returns a handler that qualifies later attribute keys
// with name.
func (handler *LogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return handler
	}
	return &LogHandler{
		level:  handler.level,
		post:   handler.post,
		attrs:  sliceClone(handler.attrs),
		groups: append(sliceClone(handler.groups), name),
	}
}

// RenderLogRecord renders a record for a status line of the given
// width: warnings in the warning color, errors in the danger color.
func RenderLogRecord(theme Theme, record LogRecordMsg, width int) string {
	color := theme.FaintText
	switch {
	case record.Level >= slog.LevelError:
		color = theme.Danger
	case record.Level >= slog.LevelWarn:
		color = theme.Warning
	}
	text := record.Level.String() + " " + record.Summary
	if width > 0 && ansi.StringWidth(text) > width {
		text = ansi.Truncate(text, width, "…")
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func sliceClone[T any](source []T) []T {
	if source == nil {
		return nil
	}
	result := make([]T, len(source))
	copy(result, source)
	return result
}
