// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"errors"
	"slices"

	"github.com/gogpu/scenegraph"
)

// PrepareNodes marks every child unvisited. It starts a reconciliation.
func (n *Node) PrepareNodes() {
	for _, c := range n.children {
		c.Base().visited = false
	}
	n.nextVisit = 0
}

// AddMissingNode marks the child wrapping r visited, creating it through
// the factory when it does not exist. It returns nil when r is nil or no
// constructor is registered for it; such renderables are skipped together
// with their subtree.
func (n *Node) AddMissingNode(r scenegraph.Renderable) Interface {
	if r == nil {
		return nil
	}
	if c, ok := n.index[r]; ok {
		n.visit(c.Base())
		return c
	}
	if n.factory == nil {
		return nil
	}

	child, err := n.factory.Create(r, n)
	if err != nil {
		if errors.Is(err, ErrLookupMiss) {
			scenegraph.Logger().Debug("viewnode: renderable skipped", "parent", n.tag, "tags", r.TypeTags())
		} else {
			scenegraph.Logger().Warn("viewnode: node creation failed", "parent", n.tag, "err", err)
		}
		return nil
	}

	cb := child.Base()
	if n.index == nil {
		n.index = make(map[scenegraph.Renderable]Interface)
	}
	n.children = append(n.children, child)
	n.index[r] = child
	n.visit(cb)
	n.Modified()
	scenegraph.Logger().Debug("viewnode: node created", "parent", n.tag, "tag", cb.tag)
	return child
}

// AddMissingNodes calls AddMissingNode for each renderable in order.
func (n *Node) AddMissingNodes(rs []scenegraph.Renderable) {
	for _, r := range rs {
		n.AddMissingNode(r)
	}
}

// RemoveUnusedNodes releases every child not visited since PrepareNodes and
// orders the survivors by visit order.
func (n *Node) RemoveUnusedNodes() {
	kept := n.children[:0]
	removed := 0
	for _, c := range n.children {
		cb := c.Base()
		if cb.visited {
			kept = append(kept, c)
			continue
		}
		delete(n.index, cb.renderable)
		cb.Release()
		cb.parent = nil
		removed++
		scenegraph.Logger().Debug("viewnode: node removed", "parent", n.tag, "tag", cb.tag)
	}
	clear(n.children[len(kept):])
	n.children = kept

	sorted := slices.IsSortedFunc(n.children, byVisitOrder)
	if !sorted {
		slices.SortStableFunc(n.children, byVisitOrder)
	}
	if removed > 0 || !sorted {
		n.Modified()
	}
}

// ReconcileChildren runs a full mark and sweep against rs.
func (n *Node) ReconcileChildren(rs []scenegraph.Renderable) {
	n.PrepareNodes()
	n.AddMissingNodes(rs)
	n.RemoveUnusedNodes()
}

func (n *Node) visit(c *Node) {
	if c.visited {
		return
	}
	c.visited = true
	c.visitOrder = n.nextVisit
	n.nextVisit++
	if c.state == StateUninitialized {
		c.state = StateBuilt
	}
}

func byVisitOrder(a, b Interface) int {
	return a.Base().visitOrder - b.Base().visitOrder
}
