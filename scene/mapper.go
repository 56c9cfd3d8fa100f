package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

var (
	mapperTags       = []scenegraph.TypeTag{scenegraph.TagMapper, scenegraph.TagObject}
	volumeMapperTags = []scenegraph.TypeTag{scenegraph.TagVolumeMapper, scenegraph.TagObject}
)

// Mapper turns data into drawable geometry. The reference mapper carries a
// point list in model coordinates.
type Mapper struct {
	Object
	points []mgl64.Vec3
}

// NewMapper returns a mapper for points.
func NewMapper(points ...mgl64.Vec3) *Mapper {
	return &Mapper{Object: newObject(), points: points}
}

// Points returns the model-space points. The slice must not be modified.
func (m *Mapper) Points() []mgl64.Vec3 { return m.points }

// SetPoints replaces the point list.
func (m *Mapper) SetPoints(points []mgl64.Vec3) {
	m.points = points
	m.Modified()
}

// Bounds returns the axis-aligned bounds of the points. ok is false when
// the mapper is empty.
func (m *Mapper) Bounds() (lo, hi mgl64.Vec3, ok bool) {
	if len(m.points) == 0 {
		return lo, hi, false
	}
	lo, hi = m.points[0], m.points[0]
	for _, p := range m.points[1:] {
		for i := range 3 {
			lo[i] = min(lo[i], p[i])
			hi[i] = max(hi[i], p[i])
		}
	}
	return lo, hi, true
}

// Children returns nil.
func (m *Mapper) Children() []scenegraph.Renderable { return nil }

// TypeTags returns Mapper, Object.
func (m *Mapper) TypeTags() []scenegraph.TypeTag { return mapperTags }

// VolumeMapper samples a regular grid of scalars.
type VolumeMapper struct {
	Object
	dims    [3]int
	spacing mgl64.Vec3
	origin  mgl64.Vec3
}

// NewVolumeMapper returns a mapper for a grid of dims samples with unit
// spacing at the origin.
func NewVolumeMapper(dims [3]int) *VolumeMapper {
	return &VolumeMapper{
		Object:  newObject(),
		dims:    dims,
		spacing: mgl64.Vec3{1, 1, 1},
	}
}

// Dimensions returns the grid size.
func (m *VolumeMapper) Dimensions() [3]int { return m.dims }

// SetSpacing sets the sample spacing.
func (m *VolumeMapper) SetSpacing(s mgl64.Vec3) {
	if m.spacing == s {
		return
	}
	m.spacing = s
	m.Modified()
}

// SetOrigin sets the position of the first sample.
func (m *VolumeMapper) SetOrigin(o mgl64.Vec3) {
	if m.origin == o {
		return
	}
	m.origin = o
	m.Modified()
}

// Bounds returns the world extent of the grid.
func (m *VolumeMapper) Bounds() (lo, hi mgl64.Vec3) {
	lo = m.origin
	for i := range 3 {
		hi[i] = lo[i] + float64(max(m.dims[i]-1, 0))*m.spacing[i]
	}
	return lo, hi
}

// Children returns nil.
func (m *VolumeMapper) Children() []scenegraph.Renderable { return nil }

// TypeTags returns VolumeMapper, Object.
func (m *VolumeMapper) TypeTags() []scenegraph.TypeTag { return volumeMapperTags }
