package scenegraph

import "github.com/go-gl/mathgl/mgl64"

// Renderable is a client-owned scene object.
//
// Renderables are compared by identity when view trees are reconciled, so
// implementations must be comparable; pointer types are the norm.
// Renderables outlive any view node wrapping them.
type Renderable interface {
	// Version returns the version of the last modification.
	Version() Version

	// Visible reports whether the object should be drawn.
	Visible() bool

	// Parent returns the object this renderable is attached to, or nil.
	Parent() Renderable

	// Children returns the renderables a view of this object represents,
	// in order. The returned slice must not be modified.
	Children() []Renderable

	// TypeTags returns the tag chain from most to least specific.
	TypeTags() []TypeTag
}

// Window is the top-level renderable: a drawing surface holding renderers.
type Window interface {
	Renderable

	// Size returns the surface size in pixels.
	Size() (width, height int)

	// Renderers returns the attached renderers in draw order.
	Renderers() []Renderer
}

// Renderer is a viewport into a window with its own camera, lights and props.
type Renderer interface {
	Renderable

	// ActiveCamera returns the camera, creating a default one if needed.
	ActiveCamera() Camera

	// Lights returns all lights attached to the renderer.
	Lights() []Light

	// CreateLight attaches and returns a default headlight.
	CreateLight() Light

	// ViewProps returns the props drawn by the renderer.
	ViewProps() []Renderable

	// Viewport returns the normalized viewport (xmin, ymin, xmax, ymax).
	Viewport() [4]float64

	// Background returns the RGBA clear color.
	Background() [4]float64

	// Transparent reports whether the renderer is layered over another
	// one and must not clear the surface.
	Transparent() bool
}

// Camera is a renderable viewpoint.
type Camera interface {
	Renderable

	// Position returns the eye position in world coordinates.
	Position() mgl64.Vec3

	// DirectionOfProjection returns the unit view direction.
	DirectionOfProjection() mgl64.Vec3

	// ClippingRange returns the near and far plane distances.
	ClippingRange() (near, far float64)

	// ParallelProjection reports whether the camera is orthographic.
	ParallelProjection() bool

	// ComputeTransform recomputes the cached view transform.
	ComputeTransform()

	// ViewMatrix returns the world to view transform.
	ViewMatrix() mgl64.Mat4

	// ProjectionMatrix returns the view to clip transform for the given
	// aspect ratio with OpenGL depth conventions (z in [-1, 1]).
	ProjectionMatrix(aspect float64) mgl64.Mat4
}

// Light is a renderable light source.
type Light interface {
	Renderable

	// Switch reports whether the light is on.
	Switch() bool
}

// Transformable is a renderable placed in the world by a model matrix.
type Transformable interface {
	Renderable

	// ComputeMatrix recomputes the cached model matrix if needed.
	ComputeMatrix()

	// Matrix returns the model to world transform.
	Matrix() mgl64.Mat4

	// IsIdentity reports whether Matrix is the identity.
	IsIdentity() bool
}

// Prop is a renderable drawn through a mapper.
type Prop interface {
	Transformable

	// ID returns a renderer-unique identifier used for picking.
	ID() int

	// Mapper returns the data adapter, or nil.
	Mapper() Renderable

	// Opaque reports whether the prop is drawn in the opaque pass.
	Opaque() bool
}

// TextProp is a 2D text annotation in display coordinates.
type TextProp interface {
	Renderable

	// Text returns the label.
	Text() string

	// DisplayPosition returns the lower-left anchor in pixels.
	DisplayPosition() (x, y int)

	// FontSize returns the size in points.
	FontSize() float64

	// Color returns the RGBA text color.
	Color() [4]float64
}
