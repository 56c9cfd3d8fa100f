// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/resource"
	"github.com/gogpu/scenegraph/viewnode"
)

// depthRemap maps clip space depth from [-1, 1] to [0, 1].
var depthRemap = mgl64.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// CameraMatrices are the transforms a renderer uploads for its camera.
// SC denotes the stabilized frame of the renderer.
type CameraMatrices struct {
	resource.Synced

	WCVC mgl64.Mat4 // world to view
	SCVC mgl64.Mat4 // stabilized to view
	VCPC mgl64.Mat4 // view to projection, depth in [0, 1]
	SCPC mgl64.Mat4 // stabilized to projection
	PCSC mgl64.Mat4 // projection to stabilized

	// Normal maps world normals to view normals.
	Normal mgl64.Mat3
}

// Camera is the view node of a camera.
type Camera struct {
	viewnode.Node
	keys CameraMatrices
}

func newCamera() viewnode.Interface { return &Camera{} }

// KeyMatrices returns the camera matrices for r, recomputing them when the
// camera, the stabilized frame, the renderer or the window changed.
func (c *Camera) KeyMatrices(r *Renderer) *CameraMatrices {
	cam, ok := c.Renderable().(scenegraph.Camera)
	if !ok {
		return &c.keys
	}
	watched := []scenegraph.Version{
		cam.Version(), r.StabilizedVersion(), r.Version(), r.Renderable().Version(),
	}
	if w := window(c.Base()); w != nil {
		watched = append(watched, w.Version())
	}
	c.keys.SyncIfStale(func() {
		cam.ComputeTransform()
		center := r.StabilizedCenter()

		c.keys.WCVC = cam.ViewMatrix()
		c.keys.Normal = resource.NormalMatrix(c.keys.WCVC)
		c.keys.SCVC = c.keys.WCVC.Mul4(mgl64.Translate3D(center[0], center[1], center[2]))
		c.keys.VCPC = depthRemap.Mul4(cam.ProjectionMatrix(r.AspectRatio()))
		c.keys.SCPC = c.keys.VCPC.Mul4(c.keys.SCVC)
		c.keys.PCSC = c.keys.SCPC.Inv()
	}, watched...)
	return &c.keys
}

// ConvertToOpenGLDepth maps a depth value in [0, 1] to [-1, 1].
func (c *Camera) ConvertToOpenGLDepth(v float64) float64 {
	return 2*v - 1
}
