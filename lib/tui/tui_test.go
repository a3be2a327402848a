// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestContrastRatioExtremes(t *testing.T) {
	ratio, err := ContrastRatio(lipgloss.Color("#ffffff"), lipgloss.Color("#000000"))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ratio-21) > 0.01 {
		t.Errorf("white on black = %.3f, want 21", ratio)
	}

	ratio, err = ContrastRatio(lipgloss.Color("#777777"), lipgloss.Color("#777777"))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ratio-1) > 0.001 {
		t.Errorf("identical colors = %.3f, want 1", ratio)
	}
}

func TestContrastRatioAcceptsANSIIndices(t *testing.T) {
	// 16 is black and 231 is white in the 6x6x6 cube.
	ratio, err := ContrastRatio(lipgloss.Color("231"), lipgloss.Color("16"))
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ratio-21) > 0.01 {
		t.Errorf("231 on 16 = %.3f, want 21", ratio)
	}

	if _, err := ContrastRatio(lipgloss.Color("256"), lipgloss.Color("0")); err == nil {
		t.Error("index 256 accepted")
	}
	if _, err := ContrastRatio(lipgloss.Color("teal"), lipgloss.Color("0")); err == nil {
		t.Error("named color accepted")
	}
}

func TestBuiltinThemesMeetContrast(t *testing.T) {
	if err := DefaultTheme.Validate(ContrastAA); err != nil {
		t.Errorf("default theme fails AA: %v", err)
	}
	if err := HighContrastTheme.Validate(ContrastAAA); err != nil {
		t.Errorf("high contrast theme fails AAA: %v", err)
	}
}

func TestThemeValidateReportsFailingPairs(t *testing.T) {
	theme := DefaultTheme
	theme.NormalText = lipgloss.Color("235")
	err := theme.Validate(ContrastAA)
	if err == nil {
		t.Fatal("low-contrast theme validated")
	}
	if !strings.Contains(err.Error(), "text on background") {
		t.Errorf("error does not name the pair: %v", err)
	}
}

func TestParseThemeOverridesOverBase(t *testing.T) {
	theme, err := ParseTheme([]byte(`
name = "dusk"
[text]
normal = "#fafafa"
[chrome]
focus_ring = "208"
`), DefaultTheme)
	if err != nil {
		t.Fatalf("ParseTheme: %v", err)
	}
	if theme.Name != "dusk" {
		t.Errorf("name = %q", theme.Name)
	}
	if theme.NormalText != lipgloss.Color("#fafafa") {
		t.Errorf("normal = %q", theme.NormalText)
	}
	if theme.FocusRing != lipgloss.Color("208") {
		t.Errorf("focus ring = %q", theme.FocusRing)
	}
	if theme.Background != DefaultTheme.Background {
		t.Errorf("unset background changed to %q", theme.Background)
	}
}

func TestParseThemeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name, input, want string
	}{
		{"bad color", "[text]\nnormal = \"#12345\"\n", "invalid color"},
		{"out of range index", "[text]\nnormal = \"300\"\n", "invalid color"},
		{"unknown key", "[text]\nsparkle = \"#ffffff\"\n", "unknown keys"},
		{"bad toml", "[text\n", "parse TOML"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseTheme([]byte(test.input), DefaultTheme)
			if err == nil || !strings.Contains(err.Error(), test.want) {
				t.Errorf("err = %v, want mention of %q", err, test.want)
			}
		})
	}
}

func TestSpliceOverlay(t *testing.T) {
	view := "aaaaaaaaaa\nbbbbbbbbbb\ncccccccccc"
	result := SpliceOverlay(view, []string{"XX", "YY"}, 3, 1)
	lines := strings.Split(ansi.Strip(result), "\n")
	if lines[0] != "aaaaaaaaaa" {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "bbbXXbbbbb" {
		t.Errorf("line 1 = %q", lines[1])
	}
	if lines[2] != "cccYYccccc" {
		t.Errorf("line 2 = %q", lines[2])
	}

	// Overlay rows past the view are dropped.
	result = SpliceOverlay("short", []string{"1", "2"}, 7, 0)
	if got := ansi.Strip(result); got != "short  1" {
		t.Errorf("short line = %q", got)
	}
}

func TestCenterAnchor(t *testing.T) {
	x, y := CenterAnchor([]string{"1234", "12"}, 10, 6)
	if x != 3 || y != 2 {
		t.Errorf("anchor = (%d, %d), want (3, 2)", x, y)
	}
	x, y = CenterAnchor([]string{"123456789012"}, 10, 0)
	if x != 0 || y != 0 {
		t.Errorf("oversized anchor = (%d, %d), want clamped origin", x, y)
	}
}

func TestScrollThumb(t *testing.T) {
	tests := []struct {
		height, total, visible, offset int
		wantOffset, wantSize           int
	}{
		{10, 5, 10, 0, 0, 10},
		{10, 100, 10, 0, 0, 1},
		{10, 100, 10, 90, 9, 1},
		{10, 20, 10, 5, 2, 5},
		{0, 20, 10, 5, 0, 0},
	}
	for _, test := range tests {
		offset, size := ScrollThumb(test.height, test.total, test.visible, test.offset)
		if offset != test.wantOffset || size != test.wantSize {
			t.Errorf("ScrollThumb(%d, %d, %d, %d) = (%d, %d), want (%d, %d)",
				test.height, test.total, test.visible, test.offset,
				offset, size, test.wantOffset, test.wantSize)
		}
	}
}

func TestTransitionSettles(t *testing.T) {
	transition := NewTransition(16 * time.Millisecond)
	transition.Start(0, 1)
	if !transition.Active() {
		t.Fatal("transition not active after Start")
	}

	frames := 0
	previous := transition.Position()
	for transition.Step() {
		frames++
		if transition.Position() < previous-settleThreshold {
			t.Fatalf("critically damped spring moved backwards at frame %d", frames)
		}
		previous = transition.Position()
	}
	if transition.Position() != 1 {
		t.Errorf("settled at %v, want 1", transition.Position())
	}
	if frames == 0 || frames >= maxTransitionFrames {
		t.Errorf("settled after %d frames", frames)
	}

	transition.Start(1, 1)
	if transition.Active() {
		t.Error("zero-distance transition is active")
	}
}

func TestRenderMarkdown(t *testing.T) {
	input := "# Kyoto\n\nTemples and **tea** houses\nalong the river.\n\n- Gion\n- Arashiyama\n\n```\nnot highlighted\n```\n"
	rendered := ansi.Strip(RenderMarkdown(input, 40, DefaultTheme))

	for _, want := range []string{"Kyoto", "Temples and tea houses along the river.", "• Gion", "• Arashiyama", "not highlighted"} {
		if !strings.Contains(rendered, want) {
			t.Errorf("rendered output missing %q:\n%s", want, rendered)
		}
	}
	if RenderMarkdown("  \n", 40, DefaultTheme) != "" {
		t.Error("blank input rendered non-empty")
	}
}

func TestRenderMarkdownWraps(t *testing.T) {
	input := strings.Repeat("wander ", 20)
	rendered := ansi.Strip(RenderMarkdown(input, 20, DefaultTheme))
	for _, line := range strings.Split(rendered, "\n") {
		if ansi.StringWidth(line) > 20 {
			t.Errorf("line wider than 20: %q", line)
		}
	}
}

func TestLogHandlerPostsRecords(t *testing.T) {
	var received []tea.Msg
	handler := NewLogHandler(slog.LevelWarn, func(message tea.Msg) {
		received = append(received, message)
	})
	logger := slog.New(handler).With("widget", "loader").WithGroup("page")

	logger.Info("ignored")
	logger.Warn("load failed", "number", 3)

	if len(received) != 1 {
		t.Fatalf("received %d messages, want 1", len(received))
	}
	record, ok := received[0].(LogRecordMsg)
	if !ok {
		t.Fatalf("message type %T", received[0])
	}
	if record.Summary != "load failed (widget=loader, page.number=3)" {
		t.Errorf("summary = %q", record.Summary)
	}
	if record.Level != slog.LevelWarn {
		t.Errorf("level = %v", record.Level)
	}

	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error level not enabled")
	}
}

func TestRenderLogRecordTruncates(t *testing.T) {
	rendered := RenderLogRecord(DefaultTheme, LogRecordMsg{Summary: strings.Repeat("x", 50), Level: slog.LevelError}, 20)
	if width := ansi.StringWidth(rendered); width > 20 {
		t.Errorf("width = %d, want <= 20", width)
	}
}
