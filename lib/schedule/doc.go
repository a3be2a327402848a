// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package schedule turns clock timers into bubbletea messages.
//
// Every deferred action in the widget layer (the focus yield after a
// scope activates, announcement expiry, autoplay, transition frames,
// skip-link cleanup) is a one-shot [Timer] whose expiry posts a
// message into the event loop. The owning widget handles that message
// in its Update method, so all state changes stay on the event loop
// goroutine.
//
// Stopping a timer is synchronous, but a message may already be
// queued when Stop is called. Owners therefore tag their messages
// with the [TimerID] they were built with and check [Timer.Live]
// before acting, the same way bubbles tags spinner ticks with an ID.
//
// Posting goes through a function value: [Dispatcher.Post] in
// production (forwards to tea.Program.Send), [Queue.Post] in tests
// and headless use.
package schedule
