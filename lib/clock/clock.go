// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the two time operations the widget layer needs.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc waits for duration d, then calls f. The returned
	// Timer cancels the pending call with Stop. With the real clock f
	// runs in its own goroutine; with the fake clock f runs inside
	// Advance.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stopFunc func() bool
}

// Stop prevents the Timer from firing. Returns true if the call stops
// the timer, false if the timer has already fired or been stopped.
func (timer *Timer) Stop() bool {
	if timer == nil || timer.stopFunc == nil {
		return false
	}
	return timer.stopFunc()
}
