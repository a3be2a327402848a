// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package schedule

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/waymark-travel/waymark/lib/clock"
)

// TimerID identifies one scheduled timer. IDs are unique per
// Scheduler and never reused.
type TimerID uint64

// Scheduler creates timers on a clock and posts their messages.
type Scheduler struct {
	clock clock.Clock
	post  func(tea.Msg)

	nextID atomic.Uint64
}

// New returns a Scheduler that measures time with clk and delivers
// expired timers' messages through post.
func New(clk clock.Clock, post func(tea.Msg)) *Scheduler {
	return &Scheduler{clock: clk, post: post}
}

// Clock returns the scheduler's clock.
func (scheduler *Scheduler) Clock() clock.Clock {
	return scheduler.clock
}

// After schedules build(id) to be posted once d has elapsed. build is
// called on the clock's callback goroutine and must only construct
// the message.
func (scheduler *Scheduler) After(d time.Duration, build func(TimerID) tea.Msg) *Timer {
	id := TimerID(scheduler.nextID.Add(1))
	timer := &Timer{id: id}
	timer.underlying = scheduler.clock.AfterFunc(d, func() {
		timer.mu.Lock()
		if timer.stopped {
			timer.mu.Unlock()
			return
		}
		timer.fired = true
		timer.mu.Unlock()
		scheduler.post(build(id))
	})
	return timer
}

// Timer is a pending one-shot message.
type Timer struct {
	id         TimerID
	underlying *clock.Timer

	mu      sync.Mutex
	stopped bool
	fired   bool
}

// ID returns the timer's identifier.
func (timer *Timer) ID() TimerID {
	if timer == nil {
		return 0
	}
	return timer.id
}

// Stop cancels the timer. After Stop returns, Live reports false for
// this timer's ID, so a message that was posted before the stop is
// recognized as stale. Safe on a nil Timer and safe to call twice.
func (timer *Timer) Stop() {
	if timer == nil {
		return
	}
	timer.mu.Lock()
	timer.stopped = true
	timer.mu.Unlock()
	timer.underlying.Stop()
}

// Live reports whether a message tagged with id belongs to this timer
// and the timer has not been stopped. A nil Timer is never live.
func (timer *Timer) Live(id TimerID) bool {
	if timer == nil || timer.id != id {
		return false
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return !timer.stopped
}

// Pending reports whether the timer is still waiting to fire.
func (timer *Timer) Pending() bool {
	if timer == nil {
		return false
	}
	timer.mu.Lock()
	defer timer.mu.Unlock()
	return !timer.stopped && !timer.fired
}
