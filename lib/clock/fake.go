// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake returns a FakeClock initialized to the given time. Time stands
// still until Advance is called.
func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

// FakeClock is a deterministic Clock for tests. Callbacks registered
// with AfterFunc fire during Advance, in deadline order, on the
// goroutine that called Advance. A callback may register new timers;
// those fire in the same Advance call if their deadline is reached.
//
// Do not call Advance from inside a callback.
type FakeClock struct {
	mu       sync.Mutex
	current  time.Time
	sequence uint64
	waiters  []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	// sequence breaks deadline ties in registration order.
	sequence uint64
	callback func()
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (clock *FakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.current
}

// AfterFunc schedules f to run once the clock has advanced by d. A
// non-positive d still defers f until the next Advance (including
// Advance(0)), mirroring the real clock, where f never runs inside
// the AfterFunc call.
func (clock *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	if d < 0 {
		d = 0
	}
	clock.sequence++
	waiter := &fakeWaiter{
		deadline: clock.current.Add(d),
		sequence: clock.sequence,
		callback: f,
	}
	clock.waiters = append(clock.waiters, waiter)

	return &Timer{stopFunc: func() bool {
		clock.mu.Lock()
		defer clock.mu.Unlock()
		if waiter.stopped || waiter.fired {
			return false
		}
		waiter.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d and fires every callback whose
// deadline falls within the new time. While a callback runs, Now
// reports that callback's deadline, so a callback that re-arms itself
// schedules relative to when it fired.
func (clock *FakeClock) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.current.Add(d)
	clock.mu.Unlock()

	for {
		waiter := clock.nextExpired(target)
		if waiter == nil {
			break
		}
		waiter.callback()
	}

	clock.mu.Lock()
	clock.current = target
	clock.mu.Unlock()
}

// nextExpired removes the earliest waiter due at or before target,
// moves the current time to its deadline, and returns it. Returns nil
// when nothing is due.
func (clock *FakeClock) nextExpired(target time.Time) *fakeWaiter {
	clock.mu.Lock()
	defer clock.mu.Unlock()

	remaining := clock.waiters[:0]
	for _, waiter := range clock.waiters {
		if !waiter.stopped {
			remaining = append(remaining, waiter)
		}
	}
	clock.waiters = remaining

	sort.SliceStable(clock.waiters, func(i, j int) bool {
		left, right := clock.waiters[i], clock.waiters[j]
		if left.deadline.Equal(right.deadline) {
			return left.sequence < right.sequence
		}
		return left.deadline.Before(right.deadline)
	})

	if len(clock.waiters) == 0 || clock.waiters[0].deadline.After(target) {
		return nil
	}
	waiter := clock.waiters[0]
	clock.waiters = clock.waiters[1:]
	waiter.fired = true
	if waiter.deadline.After(clock.current) {
		clock.current = waiter.deadline
	}
	return waiter
}

// Pending returns the number of timers that are neither stopped nor
// fired. Tests use it to assert that teardown cancelled everything.
func (clock *FakeClock) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	count := 0
	for _, waiter := range clock.waiters {
		if !waiter.stopped && !waiter.fired {
			count++
		}
	}
	return count
}
