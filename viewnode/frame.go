// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"time"

	"github.com/gogpu/scenegraph"
)

// Frame runs a sequence of passes over a view tree.
type Frame struct {
	// Passes is the pass sequence. Nil means DefaultSequence.
	Passes []PassID

	// AfterPass, if set, is called after each pass that completed without
	// error, before the next one starts.
	AfterPass func(p *Pass) error
}

// PassStats describes one completed or failed pass.
type PassStats struct {
	ID      PassID
	Visited int
}

// FrameStats summarizes one frame.
type FrameStats struct {
	Passes   []PassStats
	Volumes  int
	Created  int64
	Released int64
	Duration time.Duration
}

// NewFrame returns a frame running passes, or the default sequence when
// none are given.
func NewFrame(passes ...PassID) *Frame {
	if len(passes) == 0 {
		passes = DefaultSequence()
	}
	return &Frame{Passes: passes}
}

// Run executes every pass in order and stops at the first failure. Passes
// completed before the failure are not rolled back.
func (f *Frame) Run(root Interface) (stats FrameStats, err error) {
	if root == nil || root.Base() == nil {
		return stats, ErrNilRoot
	}
	start := time.Now()
	factory := root.Base().factory
	var created0, released0 int64
	if factory != nil {
		created0, released0 = factory.Stats()
	}
	defer func() {
		if factory != nil {
			c, r := factory.Stats()
			stats.Created, stats.Released = c-created0, r-released0
		}
		stats.Duration = time.Since(start)
	}()

	passes := f.Passes
	if passes == nil {
		passes = DefaultSequence()
	}
	for _, id := range passes {
		p := NewPass(id)
		err = Traverse(root, p)
		stats.Passes = append(stats.Passes, PassStats{ID: id, Visited: p.Visited})
		if id == PassQuery {
			stats.Volumes = p.Count(CounterVolumes)
		}
		if err != nil {
			scenegraph.Logger().Debug("viewnode: frame aborted", "pass", id, "err", err)
			return stats, err
		}
		if f.AfterPass != nil {
			if aerr := f.AfterPass(p); aerr != nil {
				return stats, &PassError{Pass: id, Tag: root.Base().tag, Err: aerr}
			}
		}
	}
	return stats, nil
}
