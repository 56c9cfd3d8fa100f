package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

var cameraTags = []scenegraph.TypeTag{scenegraph.TagCamera, scenegraph.TagObject}

// Camera is a look-at viewpoint with perspective or parallel projection.
type Camera struct {
	Object
	position   mgl64.Vec3
	focalPoint mgl64.Vec3
	viewUp     mgl64.Vec3
	viewAngle  float64
	near, far  float64
	parallel   bool
	scale      float64

	view        mgl64.Mat4
	viewVersion scenegraph.Version
}

// NewCamera returns a camera at (0, 0, 1) looking at the origin with a 30
// degree view angle.
func NewCamera() *Camera {
	return &Camera{
		Object:    newObject(),
		position:  mgl64.Vec3{0, 0, 1},
		viewUp:    mgl64.Vec3{0, 1, 0},
		viewAngle: 30,
		near:      0.01,
		far:       1000.01,
		scale:     1,
		view:      mgl64.Ident4(),
	}
}

// Position returns the eye position.
func (c *Camera) Position() mgl64.Vec3 { return c.position }

// SetPosition moves the eye.
func (c *Camera) SetPosition(p mgl64.Vec3) {
	if c.position == p {
		return
	}
	c.position = p
	c.Modified()
}

// FocalPoint returns the point the camera looks at.
func (c *Camera) FocalPoint() mgl64.Vec3 { return c.focalPoint }

// SetFocalPoint changes the look-at target.
func (c *Camera) SetFocalPoint(p mgl64.Vec3) {
	if c.focalPoint == p {
		return
	}
	c.focalPoint = p
	c.Modified()
}

// SetViewUp sets the up vector.
func (c *Camera) SetViewUp(up mgl64.Vec3) {
	if c.viewUp == up {
		return
	}
	c.viewUp = up
	c.Modified()
}

// Translate moves both the eye and the focal point by d.
func (c *Camera) Translate(d mgl64.Vec3) {
	c.position = c.position.Add(d)
	c.focalPoint = c.focalPoint.Add(d)
	c.Modified()
}

// DirectionOfProjection returns the unit vector from the eye to the focal
// point. A degenerate camera looks down -Z.
func (c *Camera) DirectionOfProjection() mgl64.Vec3 {
	d := c.focalPoint.Sub(c.position)
	if d.Len() == 0 {
		return mgl64.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

// ClippingRange returns the near and far plane distances.
func (c *Camera) ClippingRange() (near, far float64) { return c.near, c.far }

// SetClippingRange sets the near and far plane distances.
func (c *Camera) SetClippingRange(near, far float64) {
	if c.near == near && c.far == far {
		return
	}
	c.near, c.far = near, far
	c.Modified()
}

// ViewAngle returns the vertical field of view in degrees.
func (c *Camera) ViewAngle() float64 { return c.viewAngle }

// SetViewAngle sets the vertical field of view in degrees.
func (c *Camera) SetViewAngle(deg float64) {
	if c.viewAngle == deg {
		return
	}
	c.viewAngle = deg
	c.Modified()
}

// ParallelProjection reports whether the camera is orthographic.
func (c *Camera) ParallelProjection() bool { return c.parallel }

// SetParallelProjection switches between orthographic and perspective.
func (c *Camera) SetParallelProjection(on bool) {
	if c.parallel == on {
		return
	}
	c.parallel = on
	c.Modified()
}

// SetParallelScale sets the half height of the orthographic view volume.
func (c *Camera) SetParallelScale(s float64) {
	if c.scale == s {
		return
	}
	c.scale = s
	c.Modified()
}

// ComputeTransform rebuilds the cached view matrix when the camera changed.
func (c *Camera) ComputeTransform() {
	if !c.Version().NewerThan(c.viewVersion) {
		return
	}
	c.view = mgl64.LookAtV(c.position, c.position.Add(c.DirectionOfProjection()), c.viewUp)
	c.viewVersion = c.Version()
}

// ViewMatrix returns the world to view transform.
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	c.ComputeTransform()
	return c.view
}

// ProjectionMatrix returns the view to clip transform for aspect.
func (c *Camera) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	if c.parallel {
		w := c.scale * aspect
		return mgl64.Ortho(-w, w, -c.scale, c.scale, c.near, c.far)
	}
	return mgl64.Perspective(mgl64.DegToRad(c.viewAngle), aspect, c.near, c.far)
}

// Children returns nil; cameras are leaves.
func (c *Camera) Children() []scenegraph.Renderable { return nil }

// TypeTags returns Camera, Object.
func (c *Camera) TypeTags() []scenegraph.TypeTag { return cameraTags }

var _ scenegraph.Camera = (*Camera)(nil)
