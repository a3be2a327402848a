// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package preference is the process-wide accessibility preference
// store: reduced motion, high contrast, font size, focus visibility,
// and screen reader mode.
//
// A [Store] is created once and injected into every widget. Widgets
// read it through [View] and subscribe to changes; only the store's
// own Update, Reset, and ApplySignal mutate it, and each of those
// re-applies the document presentation synchronously before
// subscribers hear about the change.
//
// Initial values merge three layers: hardcoded [Defaults], then
// operating-system [Signals] (environment variables, the terminal's
// color profile, and an optional watched signal file), then the
// fields present in the persisted settings blob.
//
// A live OS signal change and an explicit user choice can disagree.
// Under [RespectOverride] (the default) a field the user set
// explicitly keeps the user's value until Reset; under [FollowSystem]
// the OS change always wins.
package preference
