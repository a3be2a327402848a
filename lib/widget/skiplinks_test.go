// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
)

// landmarks adds the default skip-link targets after the links.
func landmarks(f *fixture) (navigation, main, firstButton *document.Node) {
	navigation = f.doc.Append(nil, document.NewNode("navigation", "Sections", document.RoleNav))
	f.doc.Append(navigation, document.NewButton("nav-home", "Home"))
	main = f.doc.Append(nil, document.NewNode("main-content", "Main", document.RoleMain))
	firstButton = f.doc.Append(main, document.NewButton("search", "Search"))
	return navigation, main, firstButton
}

func TestSkipLinksShownOnlyWhileFocused(t *testing.T) {
	f := newFixture(t, true)
	links := NewSkipLinks(f.env, SkipLinksProps{})
	f.add(t, links)
	landmarks(f)

	if links.Shown() || links.View(80) != "" {
		t.Fatal("links visible without focus")
	}
	// The links are the first tab stops on the page.
	f.doc.HandleTab(false)
	if f.doc.Active() != links.Nodes()[0] {
		t.Fatalf("first tab landed on %v", f.doc.Active())
	}
	view := ansi.Strip(links.View(80))
	if !strings.Contains(view, "Skip to main content") || !strings.Contains(view, "Skip to navigation") {
		t.Fatalf("view = %q", view)
	}
}

func TestSkipLinkTemporaryTabIndex(t *testing.T) {
	f := newFixture(t, true)
	links := NewSkipLinks(f.env, SkipLinksProps{})
	f.add(t, links)
	_, main, firstButton := landmarks(f)

	var scrolled []*document.Node
	cancel := f.doc.OnScrollIntoView(func(node *document.Node) { scrolled = append(scrolled, node) })
	defer cancel()

	f.doc.Focus(links.Nodes()[0])
	links.Update(keyPress(tea.KeyEnter))

	if f.doc.Active() != main {
		t.Fatalf("focus on %v, want main", f.doc.Active())
	}
	if index, ok := main.TabIndex(); !ok || index != -1 {
		t.Fatalf("temporary tabindex = %d, %v", index, ok)
	}
	if len(scrolled) != 1 || scrolled[0] != main {
		t.Fatalf("scrolled = %v", scrolled)
	}
	if links.Shown() {
		t.Fatal("links still shown after focus left them")
	}

	f.advance(t, f.env.Timing.SkipLinkCleanup)
	if _, ok := main.TabIndex(); ok {
		t.Fatal("temporary tabindex not removed")
	}
	// Sequential navigation continues from the landmark.
	f.doc.HandleTab(false)
	if f.doc.Active() != firstButton {
		t.Fatalf("tab after skipping landed on %v", f.doc.Active())
	}
}

func TestSkipLinkKeepsExistingTabIndex(t *testing.T) {
	f := newFixture(t, true)
	target := f.doc.Append(nil, document.NewNode("results", "Results", document.RoleRegion))
	target.SetTabIndex(0)
	links := NewSkipLinks(f.env, SkipLinksProps{Links: []SkipLink{{Target: "#results", Label: "Skip to results"}}})
	f.add(t, links)

	f.Update(PointerMsg{Target: links.ZoneIDs()[0]})
	if f.doc.Active() != target {
		t.Fatalf("focus on %v", f.doc.Active())
	}
	f.advance(t, f.env.Timing.SkipLinkCleanup)
	if index, ok := target.TabIndex(); !ok || index != 0 {
		t.Fatalf("existing tabindex changed to %d, %v", index, ok)
	}
}

func TestSkipLinkMissingTarget(t *testing.T) {
	f := newFixture(t, true)
	var logs bytes.Buffer
	f.env.Logger = slog.New(slog.NewTextHandler(&logs, nil))
	links := NewSkipLinks(f.env, SkipLinksProps{})
	f.add(t, links)

	if links.Activate(0) {
		t.Fatal("activation succeeded without a target")
	}
	if !strings.Contains(logs.String(), "skip link target not found") || !strings.Contains(logs.String(), "#main-content") {
		t.Fatalf("log = %q", logs.String())
	}
	if links.Activate(7) {
		t.Fatal("activated an unknown link")
	}
}

func TestSkipLinksCloseRestoresTarget(t *testing.T) {
	f := newFixture(t, true)
	links := NewSkipLinks(f.env, SkipLinksProps{})
	_, main, _ := landmarks(f)

	links.Activate(0)
	links.Close()
	f.announcer.Close()
	if _, ok := main.TabIndex(); ok {
		t.Fatal("Close left the temporary tabindex")
	}
	if f.clock.Pending() != 0 {
		t.Fatalf("%d timers pending", f.clock.Pending())
	}
	links.Close()
}
