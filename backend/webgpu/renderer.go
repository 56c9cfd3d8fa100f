// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/resource"
	"github.com/gogpu/scenegraph/stabilize"
	"github.com/gogpu/scenegraph/viewnode"
)

// TiledSize is the pixel rectangle of a renderer viewport.
type TiledSize struct {
	USize      int
	VSize      int
	LowerLeftU int
	LowerLeftV int
}

// Renderer is the view node of a renderer. It reconciles the camera and
// props, owns the stabilized frame of its scene and opens one render pass
// per draw pass.
type Renderer struct {
	viewnode.Node

	ubo        *resource.UniformBuffer
	camera     *Camera
	stabilizer *stabilize.Controller
	encoder    *RenderEncoder
	clear      *clearQuad

	// volumes seen below r by the last query pass, -1 before the first.
	volumes     int
	volumesSeen int

	// SuppressClear skips the background fill even for opaque renderers.
	SuppressClear bool
}

func newRenderer() viewnode.Interface {
	return &Renderer{
		ubo: resource.NewUniformBuffer("rendererUBO").MustAddEntries(
			resource.Entry{Name: "WCVCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "SCPCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "PCSCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "SCVCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "VCPCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "WCVCNormals", Type: resource.Mat4x4F32},
			resource.Entry{Name: "viewportSize", Type: resource.Vec2F32},
			resource.Entry{Name: "cameraParallel", Type: resource.U32},
		),
		encoder: newRenderEncoder("renderer pass"),
		volumes: -1,
	}
}

func (r *Renderer) source() (scenegraph.Renderer, error) {
	ren, ok := r.Renderable().(scenegraph.Renderer)
	if !ok {
		return nil, fmt.Errorf("webgpu: %T is not a renderer", r.Renderable())
	}
	return ren, nil
}

func (r *Renderer) window() *Window { return window(r.Base()) }

func (r *Renderer) stabilize() *stabilize.Controller {
	if r.stabilizer == nil {
		cfg := stabilize.DefaultConfig()
		if w := r.window(); w != nil && w.threshold > 0 {
			cfg.Threshold = w.threshold
		}
		r.stabilizer = stabilize.New(cfg)
	}
	return r.stabilizer
}

// BuildPass reconciles the active camera and the view props, makes sure a
// light is on and updates the stabilized frame.
func (r *Renderer) BuildPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	ren, err := r.source()
	if err != nil {
		return err
	}
	cam := ren.ActiveCamera()

	r.updateLights(ren)
	r.PrepareNodes()
	r.AddMissingNode(cam)
	r.AddMissingNodes(ren.ViewProps())
	r.RemoveUnusedNodes()

	r.camera, _ = r.NodeFor(cam).(*Camera)
	r.stabilize().UpdateFromCamera(cam)
	return nil
}

// updateLights creates a light when none is on and returns the number of
// lights that are on.
func (r *Renderer) updateLights(ren scenegraph.Renderer) int {
	count := 0
	for _, l := range ren.Lights() {
		if l.Switch() {
			count++
		}
	}
	if count == 0 {
		scenegraph.Logger().Warn("webgpu: no lights are on, creating one")
		ren.CreateLight()
	}
	return count
}

// CameraLightPass refreshes the renderer uniform block.
func (r *Renderer) CameraLightPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	return r.updateUBO()
}

// updateUBO uploads the camera matrices when the window, the renderer or
// its camera changed after the last upload.
func (r *Renderer) updateUBO() error {
	ren, err := r.source()
	if err != nil {
		return err
	}
	if r.camera == nil {
		return fmt.Errorf("webgpu: renderer has no camera node")
	}
	cam := ren.ActiveCamera()
	w := r.window()
	if w == nil {
		return ErrNoEncoder
	}

	sent := r.ubo.SendVersion()
	if r.ubo.Buffer() != nil && !resource.Stale(sent,
		w.Version(), r.Version(), cam.Version(), ren.Version(), r.StabilizedVersion()) {
		return nil
	}

	keys := r.camera.KeyMatrices(r)
	tsize := r.YInvertedTiledSizeAndOrigin()
	for _, e := range []struct {
		name string
		m    mgl64.Mat4
	}{
		{"WCVCMatrix", keys.WCVC},
		{"SCPCMatrix", keys.SCPC},
		{"PCSCMatrix", keys.PCSC},
		{"SCVCMatrix", keys.SCVC},
		{"VCPCMatrix", keys.VCPC},
		{"WCVCNormals", keys.Normal.Mat4()},
	} {
		if err := r.ubo.SetMat4(e.name, e.m); err != nil {
			return err
		}
	}
	if err := r.ubo.SetArray("viewportSize", []float32{float32(tsize.USize), float32(tsize.VSize)}); err != nil {
		return err
	}
	if err := r.ubo.SetBool("cameraParallel", cam.ParallelProjection()); err != nil {
		return err
	}
	_, err = r.ubo.SendIfNeeded(w.device)
	return err
}

// scissorAndViewport restricts the open render pass to the viewport.
func (r *Renderer) scissorAndViewport() {
	t := r.YInvertedTiledSizeAndOrigin()
	r.encoder.SetViewport(t.LowerLeftU, t.LowerLeftV, t.USize, t.VSize)
}

func (r *Renderer) begin(depthReadOnly bool) error {
	w := r.window()
	if w == nil {
		return ErrNoEncoder
	}
	return r.encoder.Begin(w, depthReadOnly)
}

// OpaquePass opens the render pass on the way down. On the way up it fills
// the background and closes the pass.
func (r *Renderer) OpaquePass(prepass bool, _ *viewnode.Pass) error {
	if prepass {
		if err := r.begin(false); err != nil {
			return err
		}
		if err := r.updateUBO(); err != nil {
			r.encoder.End()
			return err
		}
		return nil
	}
	defer r.encoder.End()
	r.scissorAndViewport()
	return r.fillBackground()
}

// fillBackground draws the background color unless the renderer is
// transparent or SuppressClear is set.
func (r *Renderer) fillBackground() error {
	ren, err := r.source()
	if err != nil {
		return err
	}
	if ren.Transparent() || r.SuppressClear {
		return nil
	}
	if r.clear == nil {
		r.clear = newClearQuad()
	}
	w := r.window()
	return r.clear.draw(w.device, w.format, r.encoder, ren.Background())
}

// TranslucentPass opens and closes a render pass around translucent props.
func (r *Renderer) TranslucentPass(prepass bool, _ *viewnode.Pass) error {
	if prepass {
		return r.begin(false)
	}
	r.scissorAndViewport()
	r.encoder.End()
	return nil
}

// TraversePass skips the volume depth range pass when the last query pass
// found no visible volume below r.
func (r *Renderer) TraversePass(p *viewnode.Pass) (bool, error) {
	return p.ID == viewnode.PassVolumeDepthRange && r.volumes == 0, nil
}

// QueryPass records how many volumes the pass counted below r.
func (r *Renderer) QueryPass(prepass bool, p *viewnode.Pass) error {
	if prepass {
		r.volumesSeen = p.Count(viewnode.CounterVolumes)
		return nil
	}
	r.volumes = p.Count(viewnode.CounterVolumes) - r.volumesSeen
	return nil
}

// Volumes returns the number of visible volumes the last query pass
// counted below r, or -1 if no query pass ran yet.
func (r *Renderer) Volumes() int { return r.volumes }

// VolumeDepthRangePass opens and closes a render pass around volumes.
func (r *Renderer) VolumeDepthRangePass(prepass bool, _ *viewnode.Pass) error {
	if prepass {
		return r.begin(false)
	}
	r.scissorAndViewport()
	r.encoder.End()
	return nil
}

// OverlayPass opens and closes a render pass for 2D annotations. The
// depth buffer is read only.
func (r *Renderer) OverlayPass(prepass bool, _ *viewnode.Pass) error {
	if prepass {
		return r.begin(true)
	}
	r.scissorAndViewport()
	r.encoder.End()
	return nil
}

// Encoder returns the render encoder nodes below r draw through.
func (r *Renderer) Encoder() *RenderEncoder { return r.encoder }

// UBO returns the renderer uniform block.
func (r *Renderer) UBO() *resource.UniformBuffer { return r.ubo }

// CameraNode returns the view node of the active camera, nil before the
// first build.
func (r *Renderer) CameraNode() *Camera { return r.camera }

// AspectRatio returns the width to height ratio of the viewport in pixels.
// A degenerate viewport yields 1.
func (r *Renderer) AspectRatio() float64 {
	ren, err := r.source()
	w := r.window()
	if err != nil || w == nil {
		return 1
	}
	vp := ren.Viewport()
	num := float64(w.width) * (vp[2] - vp[0])
	den := (vp[3] - vp[1]) * float64(w.height)
	if num <= 0 || den <= 0 {
		return 1
	}
	return num / den
}

// TiledSizeAndOrigin returns the viewport in pixels with the origin at the
// bottom left of the window.
func (r *Renderer) TiledSizeAndOrigin() TiledSize {
	ren, err := r.source()
	w := r.window()
	if err != nil || w == nil {
		return TiledSize{}
	}
	vp := ren.Viewport()
	u0, v0 := w.NormalizedDisplayToDisplay(vp[0], vp[1])
	u1, v1 := w.NormalizedDisplayToDisplay(vp[2], vp[3])

	t := TiledSize{LowerLeftU: round(u0), LowerLeftV: round(v0)}
	t.USize = max(round(u1)-t.LowerLeftU, 0)
	t.VSize = max(round(v1)-t.LowerLeftV, 0)
	return t
}

// YInvertedTiledSizeAndOrigin is TiledSizeAndOrigin with the origin at the
// top left, as render pass viewports expect.
func (r *Renderer) YInvertedTiledSizeAndOrigin() TiledSize {
	t := r.TiledSizeAndOrigin()
	if w := r.window(); w != nil {
		t.LowerLeftV = w.height - t.VSize - t.LowerLeftV
	}
	return t
}

func round(x float64) int { return int(math.Round(x)) }

// PropFromID returns the child node whose prop has the given ID, or nil.
func (r *Renderer) PropFromID(id int) viewnode.Interface {
	for _, c := range r.Children() {
		if p, ok := c.Base().Renderable().(scenegraph.Prop); ok && p.ID() == id {
			return c
		}
	}
	return nil
}

// StabilizedCenter returns the origin of the stabilized frame in world
// coordinates.
func (r *Renderer) StabilizedCenter() mgl64.Vec3 { return r.stabilize().Center() }

// StabilizedVersion returns the version of the last recenter.
func (r *Renderer) StabilizedVersion() scenegraph.Version { return r.stabilize().Version() }

// Stabilizer returns the stabilization controller.
func (r *Renderer) Stabilizer() *stabilize.Controller { return r.stabilize() }

// ReleaseResources destroys the uniform buffer and the clear helper.
func (r *Renderer) ReleaseResources() {
	r.encoder.End()
	var dev *Device
	if w := r.window(); w != nil {
		dev = w.device
	}
	r.ubo.Release(dev)
	if r.clear != nil {
		r.clear.release(dev)
		r.clear = nil
	}
}

// renderer returns the nearest renderer above n.
func renderer(n *viewnode.Node) (*Renderer, error) {
	r, ok := n.FirstAncestorOfType(scenegraph.TagRenderer).(*Renderer)
	if !ok {
		return nil, ErrNotRenderer
	}
	return r, nil
}
