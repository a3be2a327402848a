// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides the injectable time source behind every
// timer in the widget layer: focus yields, announcement expiry,
// carousel autoplay, transition frames, and skip-link cleanup.
//
// Widgets never call time.AfterFunc directly. Production code injects
// [Real]; tests inject [Fake] and move time forward with
// [FakeClock.Advance], which runs due callbacks synchronously in the
// calling goroutine. That keeps widget tests single-threaded, the same
// way the bubbletea event loop is.
package clock
