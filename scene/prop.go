package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

var (
	actorTags  = []scenegraph.TypeTag{scenegraph.TagActor, scenegraph.TagProp, scenegraph.TagObject}
	volumeTags = []scenegraph.TypeTag{scenegraph.TagVolume, scenegraph.TagProp, scenegraph.TagObject}
)

// prop3D is a prop placed in the world by position, orientation and scale.
type prop3D struct {
	Object
	id          int
	position    mgl64.Vec3
	scale       mgl64.Vec3
	orientation mgl64.Quat
	mapper      scenegraph.Renderable

	matrix        mgl64.Mat4
	matrixVersion scenegraph.Version
	identity      bool
}

func newProp3D() prop3D {
	return prop3D{
		Object:      newObject(),
		scale:       mgl64.Vec3{1, 1, 1},
		orientation: mgl64.QuatIdent(),
		matrix:      mgl64.Ident4(),
		identity:    true,
	}
}

// ID returns the renderer-assigned identifier, 0 when unattached.
func (p *prop3D) ID() int { return p.id }

func (p *prop3D) setID(id int) { p.id = id }

// Position returns the world position.
func (p *prop3D) Position() mgl64.Vec3 { return p.position }

// SetPosition moves the prop.
func (p *prop3D) SetPosition(v mgl64.Vec3) {
	if p.position == v {
		return
	}
	p.position = v
	p.Modified()
}

// SetScale sets the per-axis scale.
func (p *prop3D) SetScale(v mgl64.Vec3) {
	if p.scale == v {
		return
	}
	p.scale = v
	p.Modified()
}

// RotateAxis rotates the prop by angle radians about axis.
func (p *prop3D) RotateAxis(angle float64, axis mgl64.Vec3) {
	if angle == 0 {
		return
	}
	p.orientation = mgl64.QuatRotate(angle, axis.Normalize()).Mul(p.orientation)
	p.Modified()
}

// ComputeMatrix rebuilds the model matrix as T * R * S when stale.
func (p *prop3D) ComputeMatrix() {
	if !p.Version().NewerThan(p.matrixVersion) {
		return
	}
	t := mgl64.Translate3D(p.position[0], p.position[1], p.position[2])
	s := mgl64.Scale3D(p.scale[0], p.scale[1], p.scale[2])
	p.matrix = t.Mul4(p.orientation.Mat4()).Mul4(s)
	p.identity = p.matrix.ApproxEqual(mgl64.Ident4())
	p.matrixVersion = p.Version()
}

// Matrix returns the model to world transform.
func (p *prop3D) Matrix() mgl64.Mat4 {
	p.ComputeMatrix()
	return p.matrix
}

// IsIdentity reports whether the model matrix is the identity.
func (p *prop3D) IsIdentity() bool {
	p.ComputeMatrix()
	return p.identity
}

// Mapper returns the data adapter, or nil.
func (p *prop3D) Mapper() scenegraph.Renderable { return p.mapper }

func (p *prop3D) setMapper(self scenegraph.Renderable, m scenegraph.Renderable) {
	if p.mapper == m {
		return
	}
	if p.mapper != nil {
		detach(p.mapper)
	}
	p.mapper = m
	if m != nil {
		attach(m, self)
	}
	p.Modified()
}

func (p *prop3D) children() []scenegraph.Renderable {
	if p.mapper == nil {
		return nil
	}
	return []scenegraph.Renderable{p.mapper}
}

// Actor draws surface geometry produced by a Mapper.
type Actor struct {
	prop3D
	opacity float64
}

// NewActor returns an opaque actor drawing m. m may be nil.
func NewActor(m *Mapper) *Actor {
	a := &Actor{prop3D: newProp3D(), opacity: 1}
	if m != nil {
		a.SetMapper(m)
	}
	return a
}

// SetMapper replaces the mapper.
func (a *Actor) SetMapper(m *Mapper) {
	if m == nil {
		a.setMapper(a, nil)
		return
	}
	a.setMapper(a, m)
}

// Opacity returns the opacity in [0, 1].
func (a *Actor) Opacity() float64 { return a.opacity }

// SetOpacity sets the opacity, clamped to [0, 1].
func (a *Actor) SetOpacity(o float64) {
	o = mgl64.Clamp(o, 0, 1)
	if a.opacity == o {
		return
	}
	a.opacity = o
	a.Modified()
}

// Opaque reports whether the actor belongs to the opaque pass.
func (a *Actor) Opaque() bool { return a.opacity >= 1 }

// Children returns the mapper, if any.
func (a *Actor) Children() []scenegraph.Renderable { return a.children() }

// TypeTags returns Actor, Prop, Object.
func (a *Actor) TypeTags() []scenegraph.TypeTag { return actorTags }

// Volume draws volumetric data produced by a VolumeMapper. Volumes are
// always composited after opaque geometry.
type Volume struct {
	prop3D
}

// NewVolume returns a volume drawing m. m may be nil.
func NewVolume(m *VolumeMapper) *Volume {
	v := &Volume{prop3D: newProp3D()}
	if m != nil {
		v.SetMapper(m)
	}
	return v
}

// SetMapper replaces the volume mapper.
func (v *Volume) SetMapper(m *VolumeMapper) {
	if m == nil {
		v.setMapper(v, nil)
		return
	}
	v.setMapper(v, m)
}

// Opaque returns false.
func (v *Volume) Opaque() bool { return false }

// Children returns the mapper, if any.
func (v *Volume) Children() []scenegraph.Renderable { return v.children() }

// TypeTags returns Volume, Prop, Object.
func (v *Volume) TypeTags() []scenegraph.TypeTag { return volumeTags }

var (
	_ scenegraph.Prop = (*Actor)(nil)
	_ scenegraph.Prop = (*Volume)(nil)
)
