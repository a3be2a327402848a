// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"slices"
	"strings"
)

// Interceptor claims a Tab key press before default traversal. It
// returns true when it handled the press.
type Interceptor func(shift bool) bool

// InterceptorID identifies a pushed interceptor.
type InterceptorID uint64

type interceptorEntry struct {
	id InterceptorID
	fn Interceptor
}

// Document is the node tree plus focus and scroll state.
type Document struct {
	root   *Node
	active *Node

	interceptors      []interceptorEntry
	nextInterceptorID InterceptorID

	scrollLocks int

	focusListeners  listeners[func(previous, current *Node)]
	scrollListeners listeners[func(*Node)]

	presentation *Presentation
}

// New returns an empty document whose presentation uses the given
// presentation object. A nil presentation gets [NewPresentation]'s
// defaults.
func New(presentation *Presentation) *Document {
	if presentation == nil {
		presentation = NewPresentation(nil, nil)
	}
	doc := &Document{presentation: presentation}
	doc.root = &Node{ID: "root", Role: RoleGeneric, document: doc}
	return doc
}

// Root returns the root node.
func (doc *Document) Root() *Node {
	return doc.root
}

// Presentation returns the document's root-level presentation.
func (doc *Document) Presentation() *Presentation {
	return doc.presentation
}

// Append attaches child as the last child of parent (the root when
// parent is nil). A child attached elsewhere is moved.
func (doc *Document) Append(parent, child *Node) *Node {
	if parent == nil {
		parent = doc.root
	}
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = parent
	parent.children = append(parent.children, child)
	if parent.document != nil {
		child.walk(func(node *Node) bool {
			node.document = parent.document
			return true
		})
	}
	return child
}

// Remove detaches node and its subtree. When the active node was
// inside the subtree, the document is left with no active node.
func (doc *Document) Remove(node *Node) {
	if node == nil || node == doc.root {
		return
	}
	if node.parent != nil {
		node.parent.removeChild(node)
		node.parent = nil
	}
	node.walk(func(descendant *Node) bool {
		descendant.document = nil
		return true
	})
	if doc.active != nil && node.Contains(doc.active) {
		previous := doc.active
		doc.active = nil
		doc.notifyFocus(previous, nil)
	}
}

func (node *Node) removeChild(child *Node) {
	if index := slices.Index(node.children, child); index >= 0 {
		node.children = slices.Delete(node.children, index, index+1)
	}
}

// ByID returns the attached node with the given ID, or nil.
func (doc *Document) ByID(id string) *Node {
	var found *Node
	doc.root.walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.ID == id {
			found = node
		}
		return found == nil
	})
	return found
}

// Query resolves an "#id" selector. Other selector forms match
// nothing.
func (doc *Document) Query(selector string) *Node {
	id, ok := strings.CutPrefix(strings.TrimSpace(selector), "#")
	if !ok || id == "" {
		return nil
	}
	return doc.ByID(id)
}

// Focus makes node the active node and reports whether it could.
// Focusing the already active node succeeds without notifying.
func (doc *Document) Focus(node *Node) bool {
	if node == nil || node.document != doc || !node.Focusable() {
		return false
	}
	if doc.active == node {
		return true
	}
	previous := doc.active
	doc.active = node
	doc.notifyFocus(previous, node)
	return true
}

// Blur clears the active node.
func (doc *Document) Blur() {
	if doc.active == nil {
		return
	}
	previous := doc.active
	doc.active = nil
	doc.notifyFocus(previous, nil)
}

// Active returns the active node, or nil.
func (doc *Document) Active() *Node {
	return doc.active
}

// TabOrder returns the tabbable nodes inside within (the whole
// document when within is nil) in sequential navigation order:
// positive tabindex values ascending, then tabindex 0 in document
// order.
func (doc *Document) TabOrder(within *Node) []*Node {
	if within == nil {
		within = doc.root
	}
	var positive, natural []*Node
	within.walk(func(node *Node) bool {
		if !node.Visible() {
			return false
		}
		if node.Tabbable() {
			if index, _ := node.effectiveTabIndex(); index > 0 {
				positive = append(positive, node)
			} else {
				natural = append(natural, node)
			}
		}
		return true
	})
	slices.SortStableFunc(positive, func(a, b *Node) int {
		return a.tabIndex - b.tabIndex
	})
	return append(positive, natural...)
}

// PushInterceptor puts fn on top of the Tab interceptor stack.
func (doc *Document) PushInterceptor(fn Interceptor) InterceptorID {
	doc.nextInterceptorID++
	doc.interceptors = append(doc.interceptors, interceptorEntry{id: doc.nextInterceptorID, fn: fn})
	return doc.nextInterceptorID
}

// RemoveInterceptor removes a pushed interceptor. Unknown IDs are
// ignored.
func (doc *Document) RemoveInterceptor(id InterceptorID) {
	doc.interceptors = slices.DeleteFunc(doc.interceptors, func(entry interceptorEntry) bool {
		return entry.id == id
	})
}

// HandleTab processes a Tab (shift false) or Shift+Tab press.
// Interceptors run newest first; the first to claim the press ends
// it. Otherwise focus moves to the next or previous tabbable node,
// wrapping at the ends. It reports whether the press was consumed.
func (doc *Document) HandleTab(shift bool) bool {
	for index := len(doc.interceptors) - 1; index >= 0; index-- {
		if doc.interceptors[index].fn(shift) {
			return true
		}
	}
	return doc.traverse(shift)
}

func (doc *Document) traverse(shift bool) bool {
	order := doc.TabOrder(nil)
	if len(order) == 0 {
		return false
	}

	position := slices.Index(order, doc.active)
	if position >= 0 {
		if shift {
			return doc.Focus(order[(position-1+len(order))%len(order)])
		}
		return doc.Focus(order[(position+1)%len(order)])
	}

	// The active node is not itself tabbable (a skip-link target with
	// tabindex -1, say): continue from its place in document order.
	if doc.active != nil {
		rank := doc.documentRanks()
		activeRank := rank[doc.active]
		if shift {
			for index := len(order) - 1; index >= 0; index-- {
				if rank[order[index]] < activeRank {
					return doc.Focus(order[index])
				}
			}
			return doc.Focus(order[len(order)-1])
		}
		for _, candidate := range order {
			if rank[candidate] > activeRank {
				return doc.Focus(candidate)
			}
		}
		return doc.Focus(order[0])
	}

	if shift {
		return doc.Focus(order[len(order)-1])
	}
	return doc.Focus(order[0])
}

func (doc *Document) documentRanks() map[*Node]int {
	rank := make(map[*Node]int)
	doc.root.walk(func(node *Node) bool {
		rank[node] = len(rank)
		return true
	})
	return rank
}

// LockScroll suspends background scrolling until the returned release
// function is called. Locks nest: scrolling resumes when the last
// holder releases. Release is idempotent.
func (doc *Document) LockScroll() (release func()) {
	doc.scrollLocks++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		doc.scrollLocks--
	}
}

// ScrollLocked reports whether any scroll lock is held.
func (doc *Document) ScrollLocked() bool {
	return doc.scrollLocks > 0
}

// ScrollIntoView asks registered scroll handlers to bring node into
// view.
func (doc *Document) ScrollIntoView(node *Node) {
	doc.scrollListeners.each(func(fn func(*Node)) { fn(node) })
}

// OnScrollIntoView registers a scroll handler.
func (doc *Document) OnScrollIntoView(fn func(*Node)) (cancel func()) {
	return doc.scrollListeners.add(fn)
}

// OnFocusChange registers fn to run after the active node changes.
func (doc *Document) OnFocusChange(fn func(previous, current *Node)) (cancel func()) {
	return doc.focusListeners.add(fn)
}

func (doc *Document) notifyFocus(previous, current *Node) {
	doc.focusListeners.each(func(fn func(previous, current *Node)) { fn(previous, current) })
}
