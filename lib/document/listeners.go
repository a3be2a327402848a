// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package document

// listeners is an ordered set of callbacks that may cancel themselves
// (or each other) while being notified.
type listeners[F any] struct {
	entries []listenerEntry[F]
	nextID  int
}

type listenerEntry[F any] struct {
	id int
	fn F
}

func (set *listeners[F]) add(fn F) func() {
	set.nextID++
	id := set.nextID
	set.entries = append(set.entries, listenerEntry[F]{id: id, fn: fn})
	return func() {
		for index, entry := range set.entries {
			if entry.id == id {
				set.entries = append(set.entries[:index:index], set.entries[index+1:]...)
				return
			}
		}
	}
}

func (set *listeners[F]) each(call func(F)) {
	snapshot := set.entries
	for _, entry := range snapshot {
		if set.contains(entry.id) {
			call(entry.fn)
		}
	}
}

func (set *listeners[F]) contains(id int) bool {
	for _, entry := range set.entries {
		if entry.id == id {
			return true
		}
	}
	return false
}
