// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import "errors"

// Traverse runs pass p over the subtree rooted at n: the prepass of n, the
// full traversal of each child in order, then the postpass of n.
//
// The first callback error stops the pass. The error is returned as a
// *PassError naming the pass and the failing node.
func Traverse(n Interface, p *Pass) error {
	b := n.Base()
	if b.state == StateReleased {
		return &PassError{Pass: p.ID, Tag: b.tag, Prepass: true, Err: ErrReleased}
	}

	if t, ok := n.(Traverser); ok {
		handled, err := t.TraversePass(p)
		if err != nil {
			return wrapPassError(p, b, true, err)
		}
		if handled {
			p.Visited++
			return nil
		}
	}

	p.Visited++
	draw := p.ID.IsDraw()
	if draw {
		b.state = StateBoundForFrame
	}

	if err := dispatch(n, p, true); err != nil {
		b.unbind(draw)
		return wrapPassError(p, b, true, err)
	}
	for _, c := range b.children {
		if err := Traverse(c, p); err != nil {
			b.unbind(draw)
			return err
		}
	}
	err := dispatch(n, p, false)
	b.unbind(draw)
	if err != nil {
		return wrapPassError(p, b, false, err)
	}
	return nil
}

func (n *Node) unbind(draw bool) {
	if draw && n.state == StateBoundForFrame {
		n.state = StateBuilt
	}
}

func wrapPassError(p *Pass, n *Node, prepass bool, err error) error {
	var pe *PassError
	if errors.As(err, &pe) {
		return err
	}
	return &PassError{Pass: p.ID, Tag: n.tag, Prepass: prepass, Err: err}
}
