// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"errors"
	"fmt"

	"github.com/gogpu/scenegraph"
)

var (
	// ErrLookupMiss is returned when no tag in a renderable's chain has a
	// registered constructor. It is not fatal: the renderable is skipped.
	ErrLookupMiss = errors.New("viewnode: no constructor registered")

	// ErrNilRenderable is returned when creating a node for nil.
	ErrNilRenderable = errors.New("viewnode: nil renderable")

	// ErrNilNode is returned when a constructor produces no node.
	ErrNilNode = errors.New("viewnode: constructor returned nil node")

	// ErrReleased is returned when a pass reaches a released node.
	ErrReleased = errors.New("viewnode: node released")

	// ErrNilRoot is returned when a frame is run without a root node.
	ErrNilRoot = errors.New("viewnode: nil root")
)

// PassError reports a failed pass callback.
type PassError struct {
	Pass    PassID
	Tag     scenegraph.TypeTag
	Prepass bool
	Err     error
}

func (e *PassError) Error() string {
	phase := "postpass"
	if e.Prepass {
		phase = "prepass"
	}
	return fmt.Sprintf("viewnode: %s %s on %s: %v", e.Pass, phase, e.Tag, e.Err)
}

func (e *PassError) Unwrap() error { return e.Err }
