// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package widget

import (
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/waymark-travel/waymark/lib/document"
	"github.com/waymark-travel/waymark/lib/roving"
)

func destinationTabs() []Tab {
	return []Tab{
		{ID: "lisbon", Label: "Lisbon", Content: "Seven hills."},
		{ID: "kyoto", Label: "Kyoto", Content: "Temples.", Disabled: true},
		{ID: "quito", Label: "Quito", Content: "Altitude.", Badge: "new"},
	}
}

func TestTabGroupSingleTabStop(t *testing.T) {
	f := newFixture(t, true)
	var changes []string
	group := NewTabGroup(f.env, TabGroupProps{
		Tabs:        destinationTabs(),
		Label:       "Destinations",
		OnTabChange: func(id string) { changes = append(changes, id) },
	})
	f.add(t, group)

	check := func(step string) {
		t.Helper()
		stops := tabStops(group.TabNodes())
		if len(stops) != 1 || stops[0] != group.Selection().Focused() {
			t.Fatalf("%s: tab stops %v, focused %d", step, stops, group.Selection().Focused())
		}
	}
	check("initial")
	if group.Active() != "lisbon" {
		t.Fatalf("initial active = %q", group.Active())
	}

	f.doc.Focus(group.TabNodes()[0])
	group.Update(keyPress(tea.KeyRight))
	check("after right")
	// Kyoto is disabled and skipped.
	if group.Active() != "quito" || f.doc.Active() != group.TabNodes()[2] {
		t.Fatalf("after right: active %q, focus %v", group.Active(), f.doc.Active())
	}
	if f.latest() != "Quito tab selected" {
		t.Errorf("announcement = %q", f.latest())
	}

	group.Update(keyPress(tea.KeyRight))
	check("after wrap")
	if group.Active() != "lisbon" {
		t.Fatalf("right from the last tab should wrap, active %q", group.Active())
	}

	group.Update(keyPress(tea.KeyEnd))
	group.Update(keyPress(tea.KeyHome))
	check("after home")
	if !slices.Equal(changes, []string{"quito", "lisbon", "quito", "lisbon"}) {
		t.Fatalf("changes = %v", changes)
	}

	// Enter is a no-op: focus already selected the tab.
	group.Update(keyPress(tea.KeyEnter))
	if len(changes) != 4 {
		t.Fatalf("enter changed the tab: %v", changes)
	}
}

func TestTabGroupTabLeavesInOneStep(t *testing.T) {
	f := newFixture(t, true)
	before := f.doc.Append(nil, document.NewButton("before", "Before"))
	group := NewTabGroup(f.env, TabGroupProps{Tabs: destinationTabs()})
	f.add(t, group)

	f.doc.Focus(before)
	f.doc.HandleTab(false)
	if f.doc.Active() != group.TabNodes()[0] {
		t.Fatalf("tab entered at %v", f.doc.Active())
	}
	// The next stop is the panel, not the next tab.
	f.doc.HandleTab(false)
	if active := f.doc.Active(); active == nil || !strings.HasSuffix(active.ID, "-panel") {
		t.Fatalf("second tab landed on %v", active)
	}
}

func TestTabGroupDefaultAndPointer(t *testing.T) {
	f := newFixture(t, true)
	group := NewTabGroup(f.env, TabGroupProps{Tabs: destinationTabs(), DefaultTab: "quito"})
	f.add(t, group)
	if group.Active() != "quito" {
		t.Fatalf("default tab not honored: %q", group.Active())
	}

	// A disabled default falls back to the first enabled tab.
	fallback := NewTabGroup(f.env, TabGroupProps{Tabs: destinationTabs(), DefaultTab: "kyoto"})
	f.add(t, fallback)
	if fallback.Active() != "lisbon" {
		t.Fatalf("disabled default: active %q", fallback.Active())
	}

	f.Update(PointerMsg{Target: group.ZoneIDs()[1]})
	if group.Active() != "quito" {
		t.Fatal("a press on a disabled tab changed the selection")
	}
	f.Update(PointerMsg{Target: group.ZoneIDs()[0]})
	if group.Active() != "lisbon" || f.doc.Active() != group.TabNodes()[0] {
		t.Fatalf("press: active %q focus %v", group.Active(), f.doc.Active())
	}
	if group.Select("kyoto") {
		t.Fatal("Select accepted a disabled tab")
	}
}

func TestTabGroupAllDisabled(t *testing.T) {
	f := newFixture(t, true)
	group := NewTabGroup(f.env, TabGroupProps{Tabs: []Tab{
		{ID: "a", Label: "A", Disabled: true},
		{ID: "b", Label: "B", Disabled: true},
	}})
	f.add(t, group)

	if stops := tabStops(group.TabNodes()); len(stops) != 0 {
		t.Fatalf("disabled tabs hold a tab stop: %v", stops)
	}
	if group.Active() != "" || group.Selection().Focused() != roving.None {
		t.Fatalf("active %q focused %d", group.Active(), group.Selection().Focused())
	}
	if view := ansi.Strip(group.View(40)); !strings.Contains(view, "A") {
		t.Fatalf("view = %q", view)
	}
}

func TestTabGroupVerticalAndRightToLeft(t *testing.T) {
	f := newFixture(t, true)
	vertical := NewTabGroup(f.env, TabGroupProps{Tabs: destinationTabs(), Orientation: roving.Vertical})
	f.add(t, vertical)
	f.doc.Focus(vertical.TabNodes()[0])
	vertical.Update(keyPress(tea.KeyRight))
	if vertical.Active() != "lisbon" {
		t.Fatal("right moved a vertical tab list")
	}
	vertical.Update(keyPress(tea.KeyDown))
	if vertical.Active() != "quito" {
		t.Fatalf("down: active %q", vertical.Active())
	}

	f.doc.Presentation().SetLocale("ar")
	horizontal := NewTabGroup(f.env, TabGroupProps{Tabs: destinationTabs()})
	f.add(t, horizontal)
	f.doc.Focus(horizontal.TabNodes()[0])
	horizontal.Update(keyPress(tea.KeyLeft))
	if horizontal.Active() != "quito" {
		t.Fatalf("left in a right-to-left locale: active %q", horizontal.Active())
	}
}
