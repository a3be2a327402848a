// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for waymark packages.
//
// Widget tests never use real time. They build a [schedule.Scheduler]
// over a fake clock that posts into a [schedule.Queue], advance the
// clock, and then [Pump] the queued messages into the widget under
// test. Commands returned from Update are executed synchronously by
// [Run] and their messages fed back the same way, so a test observes
// the settled state after every step.
//
// [RequireReceive] is the one place real wall-clock timeouts appear:
// it guards tests that wait on a goroutine (the signal-file watcher)
// against hanging.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
