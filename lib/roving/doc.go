// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package roving implements the roving tab stop shared by composite
// widgets (tab groups, carousels, listboxes).
//
// A [Selection] tracks two positions over an ordered item list:
// Focused, the item holding the composite's single tab stop, and
// Active, the committed item. Arrow keys move Focused to the next or
// previous enabled item, wrapping at the ends; Home and End jump to
// the first and last enabled item. Disabled items are skipped and never
// hold the tab stop. With [Automatic] activation every focus move also
// commits; with [Manual] activation only Enter or Space commits, so a
// user can arrow past items without selecting them.
//
// [TabIndex] maps the focused position to each item's tabindex: 0 for
// the focused item, -1 for the rest. Widgets call it when rendering
// their nodes rather than deciding per item.
package roving
