// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package roving

// None is the position of an empty selection.
const None = -1

// Selection is the roving state over a list of items, each enabled or
// disabled. The zero value is an empty selection.
type Selection struct {
	enabled []bool
	focused int
	active  int
}

// New returns a selection over items with the given enabled flags.
// Focus starts on the first enabled item; nothing is active.
func New(enabled []bool) *Selection {
	selection := &Selection{focused: None, active: None}
	selection.SetItems(enabled)
	return selection
}

// Len returns the number of items.
func (selection *Selection) Len() int {
	return len(selection.enabled)
}

// Enabled reports whether item index exists and is enabled.
func (selection *Selection) Enabled(index int) bool {
	return index >= 0 && index < len(selection.enabled) && selection.enabled[index]
}

// Focused returns the tab-stop position, or None when no item is
// enabled.
func (selection *Selection) Focused() int {
	return selection.focused
}

// Active returns the committed position, or None.
func (selection *Selection) Active() int {
	return selection.active
}

// SetItems replaces the item list. Focused and Active keep their
// positions while those remain valid; an invalid focus moves to the
// first enabled item and an invalid active position becomes None.
func (selection *Selection) SetItems(enabled []bool) {
	selection.enabled = append(selection.enabled[:0], enabled...)
	if !selection.Enabled(selection.focused) {
		selection.focused = selection.firstEnabled()
	}
	if selection.active >= len(selection.enabled) {
		selection.active = None
	}
}

// Next moves focus to the next enabled item, wrapping. It reports
// whether focus moved.
func (selection *Selection) Next() bool {
	return selection.step(1)
}

// Prev moves focus to the previous enabled item, wrapping.
func (selection *Selection) Prev() bool {
	return selection.step(-1)
}

func (selection *Selection) step(direction int) bool {
	count := len(selection.enabled)
	if count == 0 {
		return false
	}
	start := selection.focused
	if start == None {
		start = 0
		if direction < 0 {
			start = count - 1
		}
		if selection.enabled[start] {
			return selection.moveTo(start)
		}
	}
	for offset := 1; offset <= count; offset++ {
		candidate := ((start+direction*offset)%count + count) % count
		if selection.enabled[candidate] {
			return selection.moveTo(candidate)
		}
	}
	return false
}

// First moves focus to the first enabled item.
func (selection *Selection) First() bool {
	return selection.moveTo(selection.firstEnabled())
}

// Last moves focus to the last enabled item.
func (selection *Selection) Last() bool {
	for index := len(selection.enabled) - 1; index >= 0; index-- {
		if selection.enabled[index] {
			return selection.moveTo(index)
		}
	}
	return false
}

// FocusIndex moves focus to index if that item is enabled.
func (selection *Selection) FocusIndex(index int) bool {
	if !selection.Enabled(index) {
		return false
	}
	return selection.moveTo(index)
}

func (selection *Selection) moveTo(index int) bool {
	if index == None || index == selection.focused {
		return false
	}
	selection.focused = index
	return true
}

// Commit makes the focused item active. It reports whether an item
// was committed; an empty selection commits nothing.
func (selection *Selection) Commit() bool {
	if selection.focused == None {
		return false
	}
	selection.active = selection.focused
	return true
}

// SetActive sets the committed item from outside, as when a caller
// changes a controlled value. Focus follows when the item is enabled.
// An out-of-range index clears the active item.
func (selection *Selection) SetActive(index int) {
	if index < 0 || index >= len(selection.enabled) {
		selection.active = None
		return
	}
	selection.active = index
	if selection.enabled[index] {
		selection.focused = index
	}
}

func (selection *Selection) firstEnabled() int {
	for index, enabled := range selection.enabled {
		if enabled {
			return index
		}
	}
	return None
}

// TabIndex returns item index's tabindex given the focused position.
func TabIndex(index, focused int) int {
	if index == focused {
		return 0
	}
	return -1
}

// TabIndices returns every item's tabindex. With focused None no item
// is a tab stop.
func TabIndices(count, focused int) []int {
	indices := make([]int, count)
	for index := range indices {
		indices[index] = TabIndex(index, focused)
	}
	return indices
}
