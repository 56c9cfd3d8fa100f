// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/resource"
	"github.com/gogpu/scenegraph/viewnode"
)

// Actor is the view node of a surface prop. Opaque actors draw in the
// opaque pass, the others in the translucent pass.
type Actor struct {
	viewnode.Node
	keys resource.KeyMatrices
	ubo  *resource.UniformBuffer
}

func newActor() viewnode.Interface {
	return &Actor{
		ubo: resource.NewUniformBuffer("actorUBO").MustAddEntries(
			resource.Entry{Name: "MCSCMatrix", Type: resource.Mat4x4F32},
			resource.Entry{Name: "MCWCNormals", Type: resource.Mat4x4F32},
			resource.Entry{Name: "Opacity", Type: resource.F32},
		),
	}
}

func (a *Actor) prop() (scenegraph.Prop, bool) {
	p, ok := a.Renderable().(scenegraph.Prop)
	return p, ok
}

// TraversePass skips the actor and its mapper in the draw pass that does
// not match its opacity, and in every draw pass while it is hidden.
func (a *Actor) TraversePass(p *viewnode.Pass) (bool, error) {
	prop, ok := a.prop()
	if !ok {
		return false, nil
	}
	switch p.ID {
	case viewnode.PassOpaque:
		return !prop.Visible() || !prop.Opaque(), nil
	case viewnode.PassTranslucent:
		return !prop.Visible() || prop.Opaque(), nil
	}
	return false, nil
}

// KeyMatrices returns the model matrices in the stabilized frame of r,
// recomputing them when the prop moved or r recentered.
func (a *Actor) KeyMatrices(r *Renderer) *resource.KeyMatrices {
	if prop, ok := a.prop(); ok {
		a.keys.SyncStabilized(prop, r.StabilizedCenter(), prop.Version(), r.StabilizedVersion())
	}
	return &a.keys
}

func (a *Actor) update() error {
	r, err := renderer(a.Base())
	if err != nil {
		return err
	}
	keys := a.KeyMatrices(r)
	if err := a.ubo.SetMat4("MCSCMatrix", keys.MCSC); err != nil {
		return err
	}
	if err := a.ubo.SetMat4("MCWCNormals", keys.Normal.Mat4()); err != nil {
		return err
	}
	opacity := 1.0
	if o, ok := a.Renderable().(interface{ Opacity() float64 }); ok {
		opacity = o.Opacity()
	}
	if err := a.ubo.SetFloat32("Opacity", float32(opacity)); err != nil {
		return err
	}
	_, err = a.ubo.SendIfNeeded(deviceOf(a.Base()))
	return err
}

// OpaquePass uploads the actor uniforms before the mapper draws.
func (a *Actor) OpaquePass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	return a.update()
}

// TranslucentPass uploads the actor uniforms before the mapper draws.
func (a *Actor) TranslucentPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	return a.update()
}

// UBO returns the actor uniform block.
func (a *Actor) UBO() *resource.UniformBuffer { return a.ubo }

// ReleaseResources destroys the uniform buffer.
func (a *Actor) ReleaseResources() {
	a.ubo.Release(deviceOf(a.Base()))
}

// pointSource is implemented by mappers that provide point coordinates.
type pointSource interface {
	Points() []mgl64.Vec3
}

// Mapper is the view node of a point mapper. It keeps a vertex buffer with
// the points in the stabilized frame of the renderer.
type Mapper struct {
	viewnode.Node
	synced   resource.Synced
	vertices *Buffer
	count    int
	data     []byte
	uploads  int
}

func newMapper() viewnode.Interface { return &Mapper{} }

// sync uploads the points when the mapper changed or the actor matrices
// were recomputed after the last upload.
func (m *Mapper) sync(a *Actor) error {
	src, ok := m.Renderable().(pointSource)
	if !ok {
		return nil
	}
	var err error
	m.synced.SyncIfStale(func() {
		err = m.upload(src.Points(), a.keys.MCSC)
	}, m.Renderable().Version(), a.keys.Version())
	if err != nil {
		m.synced.Invalidate()
	}
	return err
}

func (m *Mapper) upload(points []mgl64.Vec3, mcsc mgl64.Mat4) error {
	m.count = len(points)
	if m.count == 0 {
		return nil
	}
	m.data = m.data[:0]
	for _, p := range points {
		v := mcsc.Mul4x1(p.Vec4(1))
		for _, c := range v.Vec3() {
			m.data = binary.LittleEndian.AppendUint32(m.data, math.Float32bits(float32(c)))
		}
	}

	dev := deviceOf(m.Base())
	if m.vertices == nil || m.vertices.Size() < uint64(len(m.data)) {
		if m.vertices != nil {
			dev.DestroyBuffer(m.vertices)
			m.vertices = nil
		}
		buf, err := dev.CreateBuffer(&resource.BufferDescriptor{
			Label: "mapper vertices",
			Size:  uint64(len(m.data)),
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return err
		}
		m.vertices = buf.(*Buffer)
	}
	if err := dev.WriteBuffer(m.vertices, 0, m.data); err != nil {
		return err
	}
	m.uploads++
	return nil
}

func (m *Mapper) draw() error {
	a, ok := m.Parent().Self().(*Actor)
	if !ok {
		return fmt.Errorf("webgpu: mapper parent is %T, not an actor", m.Parent().Self())
	}
	if err := m.sync(a); err != nil {
		return err
	}
	r, err := renderer(m.Base())
	if err != nil {
		return err
	}
	enc := r.Encoder()
	if m.vertices != nil && enc.Active() {
		enc.Handle().SetVertexBuffer(0, m.vertices.raw, 0)
	}
	enc.Count(m.count)
	return nil
}

// OpaquePass draws the points of an opaque actor.
func (m *Mapper) OpaquePass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	return m.draw()
}

// TranslucentPass draws the points of a translucent actor.
func (m *Mapper) TranslucentPass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	return m.draw()
}

// Uploads returns how many times the vertex buffer was written.
func (m *Mapper) Uploads() int { return m.uploads }

// ReleaseResources destroys the vertex buffer.
func (m *Mapper) ReleaseResources() {
	if m.vertices != nil {
		deviceOf(m.Base()).DestroyBuffer(m.vertices)
		m.vertices = nil
	}
	m.synced.Invalidate()
}
