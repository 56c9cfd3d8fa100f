// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/viewnode"
)

// Window is the root view node of a render window. It owns the render
// targets and, for the duration of one frame, the command encoder lent to
// the nodes below it.
//
// Window is also the view returned by NewView: Render draws one frame and
// Release releases the whole tree.
type Window struct {
	viewnode.Node

	device    *Device
	frame     *viewnode.Frame
	threshold float64
	format    gputypes.TextureFormat

	width, height int
	color         *Target
	depth         *Target

	encoder      hal.CommandEncoder
	open         *RenderEncoder
	renderPasses int
	frames       int
	lost         error
}

func newWindow() viewnode.Interface { return &Window{} }

// NewView creates the view tree of win.
//
// Without a device option the view still builds, but the first pass that
// needs a device resource fails with ErrNoDevice.
func NewView(win scenegraph.Window, opts ...Option) (*Window, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.device == nil && o.provider != nil {
		d, err := NewDeviceFromProvider(o.provider)
		if err != nil {
			return nil, err
		}
		o.device = d
	}
	factory := o.factory
	if factory == nil {
		factory = NewFactory()
	}

	root, err := factory.NewRoot(win, nil)
	if err != nil {
		return nil, err
	}
	w, ok := root.(*Window)
	if !ok {
		root.Base().Release()
		return nil, fmt.Errorf("webgpu: root node for %v is %T, not *Window", root.Base().Tag(), root)
	}
	w.SetContext(w)
	w.device = o.device
	w.frame = viewnode.NewFrame(o.passes...)
	w.threshold = o.threshold
	w.format = o.format
	return w, nil
}

// Root returns w.
func (w *Window) Root() viewnode.Interface { return w }

// Device returns the device the view renders on, which may be nil.
func (w *Window) Device() *Device { return w.device }

// Size returns the size of the render targets in pixels, as of the last
// build pass.
func (w *Window) Size() (width, height int) { return w.width, w.height }

// ColorFormat returns the format of the color target.
func (w *Window) ColorFormat() gputypes.TextureFormat { return w.format }

// ColorTarget returns the color target, nil before the first draw pass.
func (w *Window) ColorTarget() *Target { return w.color }

// Frames returns the number of frames rendered successfully.
func (w *Window) Frames() int { return w.frames }

// RenderPasses returns the number of render passes begun in the current
// or last frame.
func (w *Window) RenderPasses() int { return w.renderPasses }

// Err returns the error that made the view lost, or nil.
func (w *Window) Err() error { return w.lost }

// NormalizedDisplayToDisplay maps normalized display coordinates to pixels.
func (w *Window) NormalizedDisplayToDisplay(x, y float64) (float64, float64) {
	return x * float64(w.width), y * float64(w.height)
}

// BuildPass reconciles the renderers and tracks window resizes.
func (w *Window) BuildPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	win, ok := w.Renderable().(scenegraph.Window)
	if !ok {
		return fmt.Errorf("webgpu: %T is not a window", w.Renderable())
	}
	width, height := win.Size()
	if width != w.width || height != w.height {
		w.width, w.height = width, height
		w.Modified()
	}
	w.ReconcileChildren(win.Children())
	return nil
}

// CommandEncoder returns the encoder of the current frame, creating it and
// the render targets on first use.
func (w *Window) CommandEncoder() (hal.CommandEncoder, error) {
	if w.encoder != nil {
		return w.encoder, nil
	}
	if err := w.ensureTargets(); err != nil {
		return nil, err
	}
	enc, err := w.device.newEncoder("scenegraph frame")
	if err != nil {
		return nil, err
	}
	w.encoder = enc
	return enc, nil
}

func (w *Window) ensureTargets() error {
	if w.width <= 0 || w.height <= 0 {
		return fmt.Errorf("webgpu: window size %dx%d", w.width, w.height)
	}
	width, height := uint32(w.width), uint32(w.height) //nolint:gosec // checked positive above
	if w.color != nil && w.color.Width == width && w.color.Height == height {
		return nil
	}
	w.destroyTargets()

	color, err := w.device.CreateTarget("scenegraph color", width, height, w.format,
		gputypes.TextureUsageRenderAttachment|gputypes.TextureUsageCopySrc)
	if err != nil {
		return err
	}
	depth, err := w.device.CreateTarget("scenegraph depth", width, height,
		gputypes.TextureFormatDepth24PlusStencil8, gputypes.TextureUsageRenderAttachment)
	if err != nil {
		w.device.DestroyTarget(color)
		return err
	}
	w.color, w.depth = color, depth
	scenegraph.Logger().Debug("webgpu: render targets created", "width", width, "height", height)
	return nil
}

func (w *Window) destroyTargets() {
	w.device.DestroyTarget(w.color)
	w.device.DestroyTarget(w.depth)
	w.color, w.depth = nil, nil
}

// beginRenderPass starts a render pass on the frame targets. The first
// pass of a frame clears color and depth, later ones load them.
func (w *Window) beginRenderPass(label string, depthReadOnly bool) (hal.RenderPassEncoder, error) {
	enc, err := w.CommandEncoder()
	if err != nil {
		return nil, err
	}
	load := gputypes.LoadOpLoad
	if w.renderPasses == 0 {
		load = gputypes.LoadOpClear
	}
	w.renderPasses++
	return enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: label,
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       w.color.View,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:            w.depth.View,
			DepthLoadOp:     load,
			DepthStoreOp:    gputypes.StoreOpStore,
			DepthClearValue: 1.0,
			DepthReadOnly:   depthReadOnly,
			StencilLoadOp:   load,
			StencilStoreOp:  gputypes.StoreOpDiscard,
		},
	}), nil
}

// Render runs one frame and submits the recorded commands.
//
// ctx is checked once before the frame starts. A frame that fails in a pass
// discards its commands. Once the device is lost every call fails with
// ErrDeviceLost until Rebuild.
func (w *Window) Render(ctx context.Context) (viewnode.FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return viewnode.FrameStats{}, err
	}
	if w.State() == viewnode.StateReleased {
		return viewnode.FrameStats{}, viewnode.ErrReleased
	}
	if w.lost != nil {
		return viewnode.FrameStats{}, w.lost
	}

	w.renderPasses = 0
	stats, err := w.frame.Run(w)
	if ferr := w.finishFrame(err == nil); err == nil {
		err = ferr
	}
	if err != nil {
		if errors.Is(err, ErrDeviceLost) {
			w.lost = err
		}
		return stats, err
	}
	w.frames++
	return stats, nil
}

func (w *Window) finishFrame(ok bool) error {
	if w.open != nil {
		w.open.End()
	}
	enc := w.encoder
	w.encoder = nil
	if enc == nil {
		return nil
	}
	if !ok {
		enc.DiscardEncoding()
		return nil
	}
	return w.device.submit(enc)
}

// Rebuild drops every node below the window together with its device
// resources and continues on dev. A nil dev keeps the current device.
func (w *Window) Rebuild(dev *Device) error {
	if w.State() == viewnode.StateReleased {
		return viewnode.ErrReleased
	}
	if dev == nil {
		dev = w.device
	}
	if err := dev.Err(); err != nil {
		return err
	}
	w.ReleaseChildren()
	w.ReleaseResources()
	w.device = dev
	w.lost = nil
	scenegraph.Logger().Info("webgpu: view rebuilt")
	return nil
}

// ReleaseResources destroys the render targets.
func (w *Window) ReleaseResources() {
	if w.open != nil {
		w.open.End()
	}
	if w.encoder != nil {
		w.encoder.DiscardEncoding()
		w.encoder = nil
	}
	w.destroyTargets()
}

// window returns the window a node belongs to.
func window(n *viewnode.Node) *Window {
	w, _ := n.Context().(*Window)
	return w
}

// deviceOf returns the device of the window n belongs to, or nil.
func deviceOf(n *viewnode.Node) *Device {
	if w := window(n); w != nil {
		return w.device
	}
	return nil
}
