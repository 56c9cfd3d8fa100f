// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/resource"
	"github.com/gogpu/scenegraph/viewnode"
)

// boxVertices is the vertex count of a bounding box drawn as triangles.
const boxVertices = 36

// Volume is the view node of a volumetric prop. Volumes only draw in the
// volume depth range pass, with depth writes off.
type Volume struct {
	viewnode.Node
	keys resource.KeyMatrices
}

func newVolume() viewnode.Interface { return &Volume{} }

// TraversePass keeps volumes out of the surface passes.
func (v *Volume) TraversePass(p *viewnode.Pass) (bool, error) {
	switch p.ID {
	case viewnode.PassOpaque, viewnode.PassTranslucent:
		return true, nil
	case viewnode.PassVolumeDepthRange:
		return !v.Renderable().Visible(), nil
	}
	return false, nil
}

// QueryPass counts the visible volumes of the frame.
func (v *Volume) QueryPass(prepass bool, p *viewnode.Pass) error {
	if prepass && v.Renderable().Visible() {
		p.Increment(viewnode.CounterVolumes)
	}
	return nil
}

// VolumeDepthRangePass turns depth writes off while the volume draws.
func (v *Volume) VolumeDepthRangePass(prepass bool, _ *viewnode.Pass) error {
	r, err := renderer(v.Base())
	if err != nil {
		return err
	}
	r.Encoder().SetDepthWrite(!prepass)
	if !prepass {
		return nil
	}
	if prop, ok := v.Renderable().(scenegraph.Prop); ok {
		v.keys.SyncStabilized(prop, r.StabilizedCenter(), prop.Version(), r.StabilizedVersion())
	}
	return nil
}

// KeyMatrices returns the model matrices of the volume.
func (v *Volume) KeyMatrices() *resource.KeyMatrices { return &v.keys }

// boundsSource is implemented by volume mappers.
type boundsSource interface {
	Bounds() (lo, hi mgl64.Vec3)
}

// VolumeMapper is the view node of a volume mapper. It draws the bounding
// box of the volume in stabilized coordinates.
type VolumeMapper struct {
	viewnode.Node
	synced resource.Synced
	lo, hi mgl64.Vec3
}

func newVolumeMapper() viewnode.Interface { return &VolumeMapper{} }

// VolumeDepthRangePass draws the bounding box.
func (m *VolumeMapper) VolumeDepthRangePass(prepass bool, _ *viewnode.Pass) error {
	if !prepass {
		return nil
	}
	vol, ok := m.Parent().Self().(*Volume)
	if !ok {
		return fmt.Errorf("webgpu: volume mapper parent is %T, not a volume", m.Parent().Self())
	}
	src, ok := m.Renderable().(boundsSource)
	if !ok {
		return nil
	}
	m.synced.SyncIfStale(func() {
		lo, hi := src.Bounds()
		m.lo, m.hi = transformBounds(vol.keys.MCSC, lo, hi)
	}, m.Renderable().Version(), vol.keys.Version())

	r, err := renderer(m.Base())
	if err != nil {
		return err
	}
	r.Encoder().Count(boxVertices)
	return nil
}

// Bounds returns the last computed bounding box in stabilized coordinates.
func (m *VolumeMapper) Bounds() (lo, hi mgl64.Vec3) { return m.lo, m.hi }

// transformBounds returns the axis aligned box enclosing the eight
// transformed corners of [lo, hi].
func transformBounds(mat mgl64.Mat4, lo, hi mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	inf := math.Inf(1)
	outLo := mgl64.Vec3{inf, inf, inf}
	outHi := mgl64.Vec3{-inf, -inf, -inf}
	for i := range 8 {
		c := lo
		if i&1 != 0 {
			c[0] = hi[0]
		}
		if i&2 != 0 {
			c[1] = hi[1]
		}
		if i&4 != 0 {
			c[2] = hi[2]
		}
		p := mat.Mul4x1(c.Vec4(1)).Vec3()
		for k := range 3 {
			outLo[k] = math.Min(outLo[k], p[k])
			outHi[k] = math.Max(outHi[k], p[k])
		}
	}
	return outLo, outHi
}
