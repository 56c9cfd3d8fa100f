package scene

import "github.com/gogpu/scenegraph"

var rendererTags = []scenegraph.TypeTag{scenegraph.TagRenderer, scenegraph.TagObject}

// identified is implemented by props the renderer assigns IDs to.
type identified interface {
	setID(id int)
}

// Renderer is a viewport into a window. It owns the camera, lights and the
// props it draws.
type Renderer struct {
	Object
	camera      *Camera
	lights      []*Light
	props       []scenegraph.Renderable
	nextID      int
	viewport    [4]float64
	background  [4]float64
	transparent bool
}

// NewRenderer returns a renderer covering the whole window with a black
// background.
func NewRenderer() *Renderer {
	return &Renderer{
		Object:     newObject(),
		nextID:     1,
		viewport:   [4]float64{0, 0, 1, 1},
		background: [4]float64{0, 0, 0, 1},
	}
}

// ActiveCamera returns the camera, creating a default one on first use.
func (r *Renderer) ActiveCamera() scenegraph.Camera {
	return r.Camera()
}

// Camera is ActiveCamera with the concrete type.
func (r *Renderer) Camera() *Camera {
	if r.camera == nil {
		r.SetActiveCamera(NewCamera())
	}
	return r.camera
}

// SetActiveCamera replaces the camera.
func (r *Renderer) SetActiveCamera(c *Camera) {
	if r.camera == c {
		return
	}
	if r.camera != nil {
		detach(r.camera)
	}
	r.camera = c
	if c != nil {
		attach(c, r)
	}
	r.Modified()
}

// Lights returns all attached lights.
func (r *Renderer) Lights() []scenegraph.Light {
	out := make([]scenegraph.Light, len(r.lights))
	for i, l := range r.lights {
		out[i] = l
	}
	return out
}

// AddLight attaches l.
func (r *Renderer) AddLight(l *Light) {
	for _, existing := range r.lights {
		if existing == l {
			return
		}
	}
	r.lights = append(r.lights, l)
	attach(l, r)
	r.Modified()
}

// RemoveAllLights detaches every light.
func (r *Renderer) RemoveAllLights() {
	if len(r.lights) == 0 {
		return
	}
	for _, l := range r.lights {
		detach(l)
	}
	r.lights = nil
	r.Modified()
}

// CreateLight attaches and returns a default light.
func (r *Renderer) CreateLight() scenegraph.Light {
	l := NewLight()
	r.AddLight(l)
	return l
}

// AddViewProp attaches p and assigns it an ID. Adding a prop twice has no
// effect.
func (r *Renderer) AddViewProp(p scenegraph.Renderable) {
	if p == nil || r.HasViewProp(p) {
		return
	}
	if id, ok := p.(identified); ok {
		id.setID(r.nextID)
		r.nextID++
	}
	r.props = append(r.props, p)
	attach(p, r)
	r.Modified()
}

// RemoveViewProp detaches p and reports whether it was attached.
func (r *Renderer) RemoveViewProp(p scenegraph.Renderable) bool {
	for i, existing := range r.props {
		if existing == p {
			r.props = append(r.props[:i], r.props[i+1:]...)
			detach(p)
			r.Modified()
			return true
		}
	}
	return false
}

// HasViewProp reports whether p is attached.
func (r *Renderer) HasViewProp(p scenegraph.Renderable) bool {
	for _, existing := range r.props {
		if existing == p {
			return true
		}
	}
	return false
}

// ViewProps returns the attached props in insertion order. The slice must
// not be modified.
func (r *Renderer) ViewProps() []scenegraph.Renderable { return r.props }

// Viewport returns the normalized viewport (xmin, ymin, xmax, ymax).
func (r *Renderer) Viewport() [4]float64 { return r.viewport }

// SetViewport sets the normalized viewport.
func (r *Renderer) SetViewport(xmin, ymin, xmax, ymax float64) {
	v := [4]float64{xmin, ymin, xmax, ymax}
	if r.viewport == v {
		return
	}
	r.viewport = v
	r.Modified()
}

// Background returns the RGBA clear color.
func (r *Renderer) Background() [4]float64 { return r.background }

// SetBackground sets the RGBA clear color.
func (r *Renderer) SetBackground(c [4]float64) {
	if r.background == c {
		return
	}
	r.background = c
	r.Modified()
}

// Transparent reports whether the renderer is a layer that must not clear.
func (r *Renderer) Transparent() bool { return r.transparent }

// SetTransparent marks the renderer as a layer.
func (r *Renderer) SetTransparent(on bool) {
	if r.transparent == on {
		return
	}
	r.transparent = on
	r.Modified()
}

// Children returns the active camera followed by the view props.
func (r *Renderer) Children() []scenegraph.Renderable {
	out := make([]scenegraph.Renderable, 0, len(r.props)+1)
	out = append(out, r.Camera())
	return append(out, r.props...)
}

// TypeTags returns Renderer, Object.
func (r *Renderer) TypeTags() []scenegraph.TypeTag { return rendererTags }

var _ scenegraph.Renderer = (*Renderer)(nil)
