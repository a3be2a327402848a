// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package widget provides the accessible composite widgets: [TabGroup],
// [Carousel], [Dropdown], [Modal], [Loader], and [SkipLinks].
//
// Every widget is constructed from an [Env] holding the collaborators
// it shares with the rest of the page (document, preference view,
// announcer, scheduler, mouse zones) and a Props struct holding its
// own inputs. Widgets follow the bubbletea component shape: Update
// takes a message and returns a command, View renders at a width.
// Values a caller owns (the Dropdown value, the Modal open state) are
// changed only through callbacks; the caller writes them back with the
// widget's setter. When no callback is supplied the widget manages the
// value itself.
//
// Each widget registers its nodes in the document when constructed
// and removes them, along with every timer and subscription it holds,
// in Close. No timer fires for a closed widget.
//
// Keyboard input reaches a widget through the page layer, which sends
// keys to the component returned by [Focused] and Tab presses to the
// document. Mouse presses are hit-tested by [HitTest] and broadcast as
// [PointerMsg].
package widget
