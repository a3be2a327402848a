// Copyright 2026 The Waymark Authors
// SPDX-License-Identifier: Apache-2.0

package document

// Roles used by the widget layer. Role is informational: it shows up
// in screen-reader text and logs, and never changes focus behavior.
const (
	RoleGeneric  = ""
	RoleButton   = "button"
	RoleDialog   = "dialog"
	RoleTab      = "tab"
	RoleTabList  = "tablist"
	RoleTabPanel = "tabpanel"
	RoleListbox  = "listbox"
	RoleOption   = "option"
	RoleCombobox = "combobox"
	RoleRegion   = "region"
	RoleLink     = "link"
	RoleMain     = "main"
	RoleNav      = "navigation"
	RoleGroup    = "group"
)

// Node is one element of the document tree.
//
// A node is focusable when it is attached, enabled, not hidden (nor
// inside a hidden ancestor), and either Native or carrying a tabindex.
// It is tabbable, and so part of sequential Tab traversal, when it is
// focusable and its effective tabindex is not negative. Native nodes
// without an explicit tabindex behave as tabindex 0, like buttons and
// inputs do.
type Node struct {
	ID    string
	Label string
	Role  string

	// Native marks inherently focusable controls.
	Native bool

	Disabled bool
	Hidden   bool

	tabIndex    int
	hasTabIndex bool

	parent   *Node
	children []*Node
	document *Document
}

// NewNode returns a detached node.
func NewNode(id, label, role string) *Node {
	return &Node{ID: id, Label: label, Role: role}
}

// NewButton returns a detached natively focusable button node.
func NewButton(id, label string) *Node {
	return &Node{ID: id, Label: label, Role: RoleButton, Native: true}
}

// SetTabIndex sets an explicit tabindex.
func (node *Node) SetTabIndex(index int) {
	node.tabIndex = index
	node.hasTabIndex = true
}

// RemoveTabIndex clears the explicit tabindex.
func (node *Node) RemoveTabIndex() {
	node.tabIndex = 0
	node.hasTabIndex = false
}

// TabIndex returns the explicit tabindex and whether one is set.
func (node *Node) TabIndex() (int, bool) {
	return node.tabIndex, node.hasTabIndex
}

// effectiveTabIndex returns the tabindex used for traversal and
// whether the node takes part in focus at all.
func (node *Node) effectiveTabIndex() (int, bool) {
	if node.hasTabIndex {
		return node.tabIndex, true
	}
	if node.Native {
		return 0, true
	}
	return 0, false
}

// Parent returns the parent node, or nil for the root and detached
// nodes.
func (node *Node) Parent() *Node {
	return node.parent
}

// Children returns the node's children in document order. The slice
// must not be modified.
func (node *Node) Children() []*Node {
	return node.children
}

// Attached reports whether the node is part of a document.
func (node *Node) Attached() bool {
	return node != nil && node.document != nil
}

// Contains reports whether other is node or one of its descendants.
func (node *Node) Contains(other *Node) bool {
	for current := other; current != nil; current = current.parent {
		if current == node {
			return true
		}
	}
	return false
}

// Visible reports whether neither the node nor an ancestor is hidden.
func (node *Node) Visible() bool {
	for current := node; current != nil; current = current.parent {
		if current.Hidden {
			return false
		}
	}
	return true
}

// Focusable reports whether the node can receive focus.
func (node *Node) Focusable() bool {
	if !node.Attached() || node.Disabled || !node.Visible() {
		return false
	}
	_, participates := node.effectiveTabIndex()
	return participates
}

// Tabbable reports whether sequential Tab traversal visits the node.
func (node *Node) Tabbable() bool {
	if !node.Focusable() {
		return false
	}
	index, _ := node.effectiveTabIndex()
	return index >= 0
}

// Focused reports whether the node is its document's active node.
func (node *Node) Focused() bool {
	return node.Attached() && node.document.active == node
}

// walk visits node and its descendants in document order. Returning
// false from visit skips the node's subtree.
func (node *Node) walk(visit func(*Node) bool) {
	if !visit(node) {
		return
	}
	for _, child := range node.children {
		child.walk(visit)
	}
}
