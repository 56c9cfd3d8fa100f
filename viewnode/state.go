// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

// State is the lifecycle state of a view node.
type State uint8

const (
	// StateUninitialized is the state of a node that was created but not
	// yet reconciled.
	StateUninitialized State = iota

	// StateBuilt is the state between draw passes.
	StateBuilt

	// StateBoundForFrame is the state while a draw pass is inside the
	// node's subtree.
	StateBoundForFrame

	// StateReleased is terminal.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateBuilt:
		return "Built"
	case StateBoundForFrame:
		return "BoundForFrame"
	case StateReleased:
		return "Released"
	default:
		return "Unknown"
	}
}
