// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package roving

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func press(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

var (
	down  = press(tea.KeyDown)
	up    = press(tea.KeyUp)
	left  = press(tea.KeyLeft)
	right = press(tea.KeyRight)
	home  = press(tea.KeyHome)
	end   = press(tea.KeyEnd)
	enter = press(tea.KeyEnter)
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func listbox() Config {
	return Config{Orientation: Vertical, Activation: Manual, Keys: DefaultKeyMap}
}

func tabs() Config {
	return Config{Orientation: Horizontal, Activation: Automatic, Keys: DefaultKeyMap}
}

func TestSkipsDisabledAndCommits(t *testing.T) {
	// A, B (disabled), C.
	selection := New([]bool{true, false, true})
	if selection.Focused() != 0 {
		t.Fatalf("initial focus = %d", selection.Focused())
	}

	result := selection.HandleKey(down, listbox())
	if !result.Moved || selection.Focused() != 2 {
		t.Fatalf("ArrowDown from A focused %d, want C (2)", selection.Focused())
	}
	if result.Committed || selection.Active() != None {
		t.Error("manual activation committed on focus move")
	}

	result = selection.HandleKey(enter, listbox())
	if !result.Committed || selection.Active() != 2 {
		t.Errorf("Enter: active = %d, want 2", selection.Active())
	}
}

func TestWrapsAtEnds(t *testing.T) {
	selection := New([]bool{true, true, true})
	selection.HandleKey(up, listbox())
	if selection.Focused() != 2 {
		t.Errorf("ArrowUp from first = %d, want last", selection.Focused())
	}
	selection.HandleKey(down, listbox())
	if selection.Focused() != 0 {
		t.Errorf("ArrowDown from last = %d, want first", selection.Focused())
	}
}

func TestHomeEndSkipDisabled(t *testing.T) {
	selection := New([]bool{false, true, true, false})
	selection.HandleKey(end, listbox())
	if selection.Focused() != 2 {
		t.Errorf("End = %d, want 2", selection.Focused())
	}
	selection.HandleKey(home, listbox())
	if selection.Focused() != 1 {
		t.Errorf("Home = %d, want 1", selection.Focused())
	}
}

func TestAutomaticActivationCommitsOnMove(t *testing.T) {
	selection := New([]bool{true, true})
	selection.SetActive(0)

	result := selection.HandleKey(right, tabs())
	if !result.Committed || selection.Active() != 1 {
		t.Errorf("ArrowRight: active = %d, committed = %v", selection.Active(), result.Committed)
	}

	result = selection.HandleKey(enter, tabs())
	if !result.Handled || result.Committed {
		t.Errorf("Enter under automatic activation = %+v, want handled no-op", result)
	}
}

func TestOrientationFiltersKeys(t *testing.T) {
	selection := New([]bool{true, true})
	if result := selection.HandleKey(down, tabs()); result.Handled {
		t.Error("horizontal widget handled ArrowDown")
	}
	if result := selection.HandleKey(right, listbox()); result.Handled {
		t.Error("vertical widget handled ArrowRight")
	}

	both := Config{Orientation: Both, Activation: Automatic, Keys: DefaultKeyMap}
	selection.HandleKey(down, both)
	selection.HandleKey(left, both)
	if selection.Focused() != 0 {
		t.Errorf("Both orientation: focus = %d, want 0", selection.Focused())
	}
}

func TestRightToLeftSwapsArrows(t *testing.T) {
	selection := New([]bool{true, true, true})
	config := tabs()
	config.RightToLeft = true

	selection.HandleKey(left, config)
	if selection.Focused() != 1 {
		t.Errorf("ArrowLeft in RTL = %d, want next (1)", selection.Focused())
	}
}

func TestSpaceCommits(t *testing.T) {
	selection := New([]bool{true, true})
	selection.HandleKey(down, listbox())
	if result := selection.HandleKey(space, listbox()); !result.Committed || selection.Active() != 1 {
		t.Errorf("Space: %+v active %d", result, selection.Active())
	}
}

func TestEmptyAndAllDisabled(t *testing.T) {
	for name, enabled := range map[string][]bool{
		"empty":        nil,
		"all disabled": {false, false},
	} {
		t.Run(name, func(t *testing.T) {
			selection := New(enabled)
			for _, message := range []tea.KeyMsg{down, up, home, end, enter} {
				result := selection.HandleKey(message, listbox())
				if result.Moved || result.Committed {
					t.Errorf("%s: %+v", message, result)
				}
			}
			if selection.Focused() != None || selection.Active() != None {
				t.Errorf("focused %d, active %d", selection.Focused(), selection.Active())
			}
			for _, index := range TabIndices(len(enabled), selection.Focused()) {
				if index == 0 {
					t.Error("an item holds the tab stop")
				}
			}
		})
	}
}

func TestExactlyOneTabStop(t *testing.T) {
	selection := New([]bool{true, false, true, true, false})
	sequence := []tea.KeyMsg{down, down, up, end, home, down, down, down, up}
	for step, message := range sequence {
		selection.HandleKey(message, listbox())
		stops := 0
		for index, tabIndex := range TabIndices(selection.Len(), selection.Focused()) {
			if tabIndex == 0 {
				stops++
				if index != selection.Focused() {
					t.Fatalf("step %d: tab stop on %d, focused %d", step, index, selection.Focused())
				}
				if !selection.Enabled(index) {
					t.Fatalf("step %d: disabled item %d holds the tab stop", step, index)
				}
			}
		}
		if stops != 1 {
			t.Fatalf("step %d: %d tab stops", step, stops)
		}
	}
}

func TestSetItemsPreservesValidPositions(t *testing.T) {
	selection := New([]bool{true, true, true})
	selection.FocusIndex(2)
	selection.Commit()

	selection.SetItems([]bool{true, true, true, true})
	if selection.Focused() != 2 || selection.Active() != 2 {
		t.Errorf("grown list: focused %d active %d", selection.Focused(), selection.Active())
	}

	selection.SetItems([]bool{true, false})
	if selection.Focused() != 0 || selection.Active() != None {
		t.Errorf("shrunk list: focused %d active %d", selection.Focused(), selection.Active())
	}
}

func TestSetActiveOnDisabledKeepsFocus(t *testing.T) {
	selection := New([]bool{true, false})
	selection.SetActive(1)
	if selection.Active() != 1 || selection.Focused() != 0 {
		t.Errorf("active %d focused %d", selection.Active(), selection.Focused())
	}
	selection.SetActive(7)
	if selection.Active() != None {
		t.Error("out-of-range SetActive kept an active item")
	}
	if selection.FocusIndex(1) {
		t.Error("FocusIndex moved onto a disabled item")
	}
}
