// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"testing"

	"github.com/waymark-travel/waymark/lib/preference"
	"github.com/waymark-travel/waymark/lib/tui"
)

// buildPage returns a document shaped like a small page:
//
//	root
//	├── nav (navigation)
//	│   ├── home (button)
//	│   └── about (button)
//	└── main (main)
//	    ├── search (button)
//	    └── book (button)
func buildPage() (*Document, map[string]*Node) {
	doc := New(nil)
	nodes := map[string]*Node{
		"navigation":   NewNode("navigation", "Navigation", RoleNav),
		"home":         NewButton("home", "Home"),
		"about":        NewButton("about", "About"),
		"main-content": NewNode("main-content", "Main", RoleMain),
		"search":       NewButton("search", "Search"),
		"book":         NewButton("book", "Book"),
	}
	doc.Append(nil, nodes["navigation"])
	doc.Append(nodes["navigation"], nodes["home"])
	doc.Append(nodes["navigation"], nodes["about"])
	doc.Append(nil, nodes["main-content"])
	doc.Append(nodes["main-content"], nodes["search"])
	doc.Append(nodes["main-content"], nodes["book"])
	return doc, nodes
}

func ids(nodes []*Node) []string {
	result := make([]string, len(nodes))
	for index, node := range nodes {
		result[index] = node.ID
	}
	return result
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if a[index] != b[index] {
			return false
		}
	}
	return true
}

func TestFocusability(t *testing.T) {
	doc, nodes := buildPage()

	if nodes["main-content"].Focusable() {
		t.Error("landmark without tabindex is focusable")
	}
	nodes["main-content"].SetTabIndex(-1)
	if !nodes["main-content"].Focusable() || nodes["main-content"].Tabbable() {
		t.Error("tabindex -1 should be focusable but not tabbable")
	}

	nodes["book"].Disabled = true
	if nodes["book"].Focusable() {
		t.Error("disabled button is focusable")
	}

	nodes["navigation"].Hidden = true
	if nodes["home"].Focusable() {
		t.Error("button inside hidden ancestor is focusable")
	}

	detached := NewButton("loose", "Loose")
	if detached.Focusable() || doc.Focus(detached) {
		t.Error("detached node is focusable")
	}
}

func TestTabOrder(t *testing.T) {
	doc, nodes := buildPage()
	nodes["book"].SetTabIndex(1)
	nodes["about"].SetTabIndex(-1)

	got := ids(doc.TabOrder(nil))
	want := []string{"book", "home", "search"}
	if !equalIDs(got, want) {
		t.Errorf("TabOrder = %v, want %v", got, want)
	}

	got = ids(doc.TabOrder(nodes["main-content"]))
	want = []string{"book", "search"}
	if !equalIDs(got, want) {
		t.Errorf("TabOrder(main) = %v, want %v", got, want)
	}
}

func TestHandleTabWrapsAround(t *testing.T) {
	doc, nodes := buildPage()

	var visited []string
	for range 5 {
		doc.HandleTab(false)
		visited = append(visited, doc.Active().ID)
	}
	want := []string{"home", "about", "search", "book", "home"}
	if !equalIDs(visited, want) {
		t.Errorf("Tab sequence = %v, want %v", visited, want)
	}

	doc.Focus(nodes["home"])
	doc.HandleTab(true)
	if doc.Active() != nodes["book"] {
		t.Errorf("Shift+Tab from first = %v, want book", doc.Active().ID)
	}
}

func TestHandleTabFromNonTabbableTarget(t *testing.T) {
	doc, nodes := buildPage()
	main := nodes["main-content"]
	main.SetTabIndex(-1)
	doc.Focus(main)

	doc.HandleTab(false)
	if doc.Active() != nodes["search"] {
		t.Errorf("Tab from landmark = %v, want search", doc.Active().ID)
	}

	doc.Focus(main)
	doc.HandleTab(true)
	if doc.Active() != nodes["about"] {
		t.Errorf("Shift+Tab from landmark = %v, want about", doc.Active().ID)
	}
}

func TestHandleTabWithNothingTabbable(t *testing.T) {
	doc := New(nil)
	doc.Append(nil, NewNode("text", "Just text", RoleGeneric))
	if doc.HandleTab(false) {
		t.Error("Tab consumed with nothing tabbable")
	}
}

func TestInterceptorsRunNewestFirst(t *testing.T) {
	doc, _ := buildPage()
	var calls []string

	outer := doc.PushInterceptor(func(bool) bool {
		calls = append(calls, "outer")
		return true
	})
	inner := doc.PushInterceptor(func(bool) bool {
		calls = append(calls, "inner")
		return false
	})

	if !doc.HandleTab(false) {
		t.Fatal("claimed press not reported as consumed")
	}
	if !equalIDs(calls, []string{"inner", "outer"}) {
		t.Errorf("calls = %v", calls)
	}
	if doc.Active() != nil {
		t.Error("default traversal ran although an interceptor claimed the press")
	}

	doc.RemoveInterceptor(outer)
	doc.RemoveInterceptor(inner)
	doc.RemoveInterceptor(inner)
	doc.HandleTab(false)
	if doc.Active() == nil {
		t.Error("default traversal did not resume after removal")
	}
}

func TestRemoveClearsActiveInsideSubtree(t *testing.T) {
	doc, nodes := buildPage()
	var changes [][2]*Node
	doc.OnFocusChange(func(previous, current *Node) {
		changes = append(changes, [2]*Node{previous, current})
	})

	doc.Focus(nodes["book"])
	doc.Remove(nodes["main-content"])

	if doc.Active() != nil {
		t.Error("active node survived removal of its subtree")
	}
	if nodes["book"].Attached() || nodes["search"].Attached() {
		t.Error("removed subtree still attached")
	}
	if doc.ByID("book") != nil || doc.Query("#book") != nil {
		t.Error("removed node still found")
	}
	if len(changes) != 2 || changes[1][0] != nodes["book"] || changes[1][1] != nil {
		t.Errorf("focus changes = %v", changes)
	}
}

func TestQuery(t *testing.T) {
	doc, nodes := buildPage()
	if doc.Query("#main-content") != nodes["main-content"] {
		t.Error("#main-content not resolved")
	}
	for _, selector := range []string{"main-content", "#", ".nav", "#missing"} {
		if doc.Query(selector) != nil {
			t.Errorf("Query(%q) matched", selector)
		}
	}
}

func TestContains(t *testing.T) {
	_, nodes := buildPage()
	if !nodes["main-content"].Contains(nodes["book"]) || !nodes["book"].Contains(nodes["book"]) {
		t.Error("Contains misses descendant or self")
	}
	if nodes["navigation"].Contains(nodes["book"]) {
		t.Error("Contains reports sibling subtree")
	}
}

func TestScrollLockNests(t *testing.T) {
	doc := New(nil)
	releaseFirst := doc.LockScroll()
	releaseSecond := doc.LockScroll()

	releaseFirst()
	releaseFirst()
	if !doc.ScrollLocked() {
		t.Fatal("scroll unlocked while a holder remains")
	}
	releaseSecond()
	if doc.ScrollLocked() {
		t.Fatal("scroll still locked after last release")
	}
}

func TestScrollIntoView(t *testing.T) {
	doc, nodes := buildPage()
	var scrolled []*Node
	cancel := doc.OnScrollIntoView(func(node *Node) { scrolled = append(scrolled, node) })

	doc.ScrollIntoView(nodes["book"])
	cancel()
	doc.ScrollIntoView(nodes["home"])

	if len(scrolled) != 1 || scrolled[0] != nodes["book"] {
		t.Errorf("scrolled = %v", scrolled)
	}
}

func TestPresentationApply(t *testing.T) {
	presentation := NewPresentation(nil, nil)
	notified := 0
	presentation.OnChange(func(*Presentation) { notified++ })

	settings := preference.Defaults()
	settings.HighContrast = true
	settings.ReducedMotion = true
	settings.FontSize = preference.FontExtraLarge
	presentation.Apply(settings)

	if presentation.Theme().Name != tui.HighContrastTheme.Name {
		t.Errorf("theme = %s, want high contrast", presentation.Theme().Name)
	}
	if presentation.Scale() != (Scale{Padding: 3, Gap: 1}) {
		t.Errorf("scale = %+v", presentation.Scale())
	}
	if !presentation.ReducedMotion() || !presentation.FocusVisible() || presentation.ScreenReader() {
		t.Error("flags do not match settings")
	}
	want := []string{"font-extra-large", "high-contrast", "reduce-motion", "focus-visible"}
	if !equalIDs(presentation.Classes(), want) {
		t.Errorf("classes = %v, want %v", presentation.Classes(), want)
	}
	if notified != 1 {
		t.Errorf("listeners notified %d times", notified)
	}

	presentation.Apply(preference.Defaults())
	if presentation.Theme().Name != tui.DefaultTheme.Name {
		t.Error("theme did not return to default")
	}
}

func TestPresentationIsStoreApplier(t *testing.T) {
	presentation := NewPresentation(nil, nil)
	store := preference.New(preference.Options{Presentation: presentation})

	store.SetFontSize(preference.FontLarge)
	if presentation.Scale() != (Scale{Padding: 2, Gap: 1}) {
		t.Errorf("scale after store update = %+v", presentation.Scale())
	}
}

func TestSetLocale(t *testing.T) {
	presentation := NewPresentation(nil, nil)
	tests := []struct {
		code string
		want Direction
	}{
		{"ar", RightToLeft},
		{"he-IL", RightToLeft},
		{"fa_IR", RightToLeft},
		{"fr", LeftToRight},
		{"", LeftToRight},
	}
	for _, test := range tests {
		presentation.SetLocale(test.code)
		if presentation.Direction() != test.want {
			t.Errorf("SetLocale(%q): direction %s, want %s", test.code, presentation.Direction(), test.want)
		}
	}
	if presentation.Locale() != "en" {
		t.Errorf("empty locale stored as %q", presentation.Locale())
	}
}
