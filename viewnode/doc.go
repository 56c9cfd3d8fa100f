// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package viewnode mirrors a renderable graph into a tree of backend view
// nodes and drives that tree through ordered two-phase passes.
//
// # Factories
//
// Each backend owns a [Factory] mapping [scenegraph.TypeTag] values to
// constructors. A renderable is resolved by walking its tag chain from most
// to least specific; the first registered tag wins. Renderables without a
// registered tag are omitted together with their subtree.
//
// # Reconciliation
//
// Child nodes are kept in sync with the renderable graph by mark and sweep:
//
//	n.PrepareNodes()
//	n.AddMissingNodes(renderables)
//	n.RemoveUnusedNodes()
//
// This runs once per parent in every build pass. A renderable keeps its
// node for as long as it stays reachable.
//
// # Passes
//
// [Traverse] calls a node's prepass, traverses its children in order and
// finally calls its postpass. Nodes opt into passes by implementing the
// per-pass interfaces ([BuildPasser], [OpaquePasser] and so on). A [Frame]
// runs a configurable sequence of passes, stopping at the first failure.
package viewnode
