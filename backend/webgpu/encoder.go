// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/scenegraph"
)

// EncoderStats counts the work recorded by a RenderEncoder since its
// creation.
type EncoderStats struct {
	Passes   int
	Draws    int
	Vertices int
}

// RenderEncoder wraps the hal render pass a renderer records into during
// one draw pass. Nodes below the renderer draw through it between Begin
// and End.
type RenderEncoder struct {
	label      string
	window     *Window
	pass       hal.RenderPassEncoder
	depthWrite bool
	stats      EncoderStats
}

func newRenderEncoder(label string) *RenderEncoder {
	return &RenderEncoder{label: label, depthWrite: true}
}

// Begin starts a render pass on the targets of w.
func (e *RenderEncoder) Begin(w *Window, depthReadOnly bool) error {
	if e.pass != nil {
		e.End()
	}
	pass, err := w.beginRenderPass(e.label, depthReadOnly)
	if err != nil {
		return err
	}
	e.pass = pass
	e.window = w
	w.open = e
	e.depthWrite = !depthReadOnly
	e.stats.Passes++
	return nil
}

// Active reports whether a render pass is open.
func (e *RenderEncoder) Active() bool { return e.pass != nil }

// Handle returns the open hal render pass, or nil.
func (e *RenderEncoder) Handle() hal.RenderPassEncoder { return e.pass }

// SetViewport restricts drawing to a pixel rectangle with its origin at the
// top left, setting both the viewport and the scissor rectangle.
func (e *RenderEncoder) SetViewport(x, y, width, height int) {
	if e.pass == nil {
		return
	}
	e.pass.SetViewport(float32(x), float32(y), float32(width), float32(height), 0, 1)
	e.pass.SetScissorRect(uint32(max(x, 0)), uint32(max(y, 0)), uint32(max(width, 0)), uint32(max(height, 0))) //nolint:gosec // clamped
}

// SetDepthWrite records whether subsequent draws write depth.
func (e *RenderEncoder) SetDepthWrite(on bool) { e.depthWrite = on }

// DepthWrite reports whether draws write depth.
func (e *RenderEncoder) DepthWrite() bool { return e.depthWrite }

// Draw records a non-indexed draw of vertexCount vertices with the
// currently bound pipeline.
func (e *RenderEncoder) Draw(vertexCount uint32) {
	if e.pass == nil || vertexCount == 0 {
		return
	}
	e.pass.Draw(vertexCount, 1, 0, 0)
	e.stats.Draws++
	e.stats.Vertices += int(vertexCount)
}

// Count records a draw for geometry that has no pipeline bound.
func (e *RenderEncoder) Count(vertexCount int) {
	if e.pass == nil || vertexCount == 0 {
		return
	}
	e.stats.Draws++
	e.stats.Vertices += vertexCount
}

// Stats returns the counters.
func (e *RenderEncoder) Stats() EncoderStats { return e.stats }

// End closes the render pass.
func (e *RenderEncoder) End() {
	if e.pass == nil {
		return
	}
	e.pass.End()
	e.pass = nil
	if e.window != nil && e.window.open == e {
		e.window.open = nil
	}
	scenegraph.Logger().Debug("webgpu: render pass ended", "label", e.label)
}
