// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"slices"

	"github.com/gogpu/scenegraph"
)

// Interface is implemented by every view node. Backend node types embed
// [Node] and inherit Base.
type Interface interface {
	Base() *Node
}

// Releaser is implemented by nodes holding backend resources.
// ReleaseResources is called once, children first, when the node is
// removed from the tree or explicitly released.
type Releaser interface {
	ReleaseResources()
}

// Node is the backend independent part of a view node.
type Node struct {
	self       Interface
	renderable scenegraph.Renderable
	parent     *Node
	children   []Interface
	index      map[scenegraph.Renderable]Interface
	tag        scenegraph.TypeTag
	tags       []scenegraph.TypeTag
	factory    *Factory
	context    any
	state      State
	visited    bool
	visitOrder int
	nextVisit  int
	stamp      scenegraph.Stamp
}

// Base returns n.
func (n *Node) Base() *Node { return n }

func (n *Node) init(self Interface, r scenegraph.Renderable, parent *Node, tag scenegraph.TypeTag, f *Factory) {
	n.self = self
	n.renderable = r
	n.parent = parent
	n.tag = tag
	n.tags = slices.Clone(r.TypeTags())
	n.factory = f
	n.state = StateUninitialized
	if parent != nil {
		n.context = parent.context
	}
	n.stamp.Modified()
}

// Self returns the backend node embedding n.
func (n *Node) Self() Interface { return n.self }

// Renderable returns the source renderable.
func (n *Node) Renderable() scenegraph.Renderable { return n.renderable }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the child nodes in order. The slice must not be
// modified.
func (n *Node) Children() []Interface { return n.children }

// Tag returns the tag the node was registered under.
func (n *Node) Tag() scenegraph.TypeTag { return n.tag }

// HasTag reports whether tag occurs in the node's tag chain.
func (n *Node) HasTag(tag scenegraph.TypeTag) bool {
	for _, t := range n.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Factory returns the factory that created the node.
func (n *Node) Factory() *Factory { return n.factory }

// Context returns the backend context shared across the tree.
func (n *Node) Context() any { return n.context }

// SetContext replaces the backend context of n. Nodes created afterwards
// below n inherit it.
func (n *Node) SetContext(ctx any) { n.context = ctx }

// State returns the lifecycle state.
func (n *Node) State() State { return n.state }

// Version returns the node's own modification version.
func (n *Node) Version() scenegraph.Version { return n.stamp.Version() }

// Modified marks the node as changed.
func (n *Node) Modified() { n.stamp.Modified() }

// Root returns the top of the tree n belongs to.
func (n *Node) Root() *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// FirstAncestorOfType returns the nearest ancestor whose tag chain contains
// tag, or nil.
func (n *Node) FirstAncestorOfType(tag scenegraph.TypeTag) Interface {
	for p := n.parent; p != nil; p = p.parent {
		if p.HasTag(tag) {
			return p.self
		}
	}
	return nil
}

// NodeFor returns the node wrapping r in the subtree rooted at n, or nil.
func (n *Node) NodeFor(r scenegraph.Renderable) Interface {
	if r == nil {
		return nil
	}
	if n.renderable == r {
		return n.self
	}
	if c, ok := n.index[r]; ok {
		return c
	}
	for _, c := range n.children {
		if found := c.Base().NodeFor(r); found != nil {
			return found
		}
	}
	return nil
}

// Walk calls fn for every node of the subtree in prepass order and stops
// when fn returns false.
func (n *Node) Walk(fn func(Interface) bool) bool {
	if !fn(n.self) {
		return false
	}
	for _, c := range n.children {
		if !c.Base().Walk(fn) {
			return false
		}
	}
	return true
}

// Release releases the subtree rooted at n, children first. Released
// nodes reject further passes. Releasing twice has no effect.
func (n *Node) Release() {
	if n.state == StateReleased {
		return
	}
	for _, c := range n.children {
		c.Base().Release()
	}
	if r, ok := n.self.(Releaser); ok {
		r.ReleaseResources()
	}
	n.children = nil
	n.index = nil
	n.state = StateReleased
	if n.factory != nil {
		n.factory.released.Add(1)
	}
}

// ReleaseChildren releases every child subtree of n and empties the child
// list. The next build recreates the children from scratch.
func (n *Node) ReleaseChildren() {
	if len(n.children) == 0 {
		return
	}
	for _, c := range n.children {
		c.Base().Release()
	}
	n.children = nil
	n.index = nil
	n.Modified()
}
