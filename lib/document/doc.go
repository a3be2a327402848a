// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

// Package document models the parts of a page that keyboard
// accessibility depends on: a tree of nodes, the single active
// (focused) node, sequential Tab traversal, a counting scroll lock,
// and root-level presentation derived from accessibility settings.
//
// Widgets register the nodes they render (buttons, tabs, options,
// dialog surfaces) and move focus through the [Document]. The
// program's event loop owns the document; none of its methods are
// safe for concurrent use.
//
// Tab handling runs through an interceptor stack before the default
// traversal, which is how focus traps claim Tab while they are active:
//
//	id := doc.PushInterceptor(func(shift bool) bool { ... })
//	defer doc.RemoveInterceptor(id)
package document
