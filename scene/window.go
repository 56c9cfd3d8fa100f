package scene

import "github.com/gogpu/scenegraph"

var windowTags = []scenegraph.TypeTag{scenegraph.TagRenderWindow, scenegraph.TagObject}

// RenderWindow is the top-level drawing surface. It holds renderers drawn
// in insertion order.
type RenderWindow struct {
	Object
	width     int
	height    int
	renderers []*Renderer
}

// NewRenderWindow creates a window of the given pixel size.
func NewRenderWindow(width, height int) *RenderWindow {
	return &RenderWindow{
		Object: newObject(),
		width:  width,
		height: height,
	}
}

// Size returns the window size in pixels.
func (w *RenderWindow) Size() (width, height int) { return w.width, w.height }

// SetSize resizes the window.
func (w *RenderWindow) SetSize(width, height int) {
	if w.width == width && w.height == height {
		return
	}
	w.width, w.height = width, height
	w.Modified()
}

// AddRenderer appends r. Adding a renderer twice has no effect.
func (w *RenderWindow) AddRenderer(r *Renderer) {
	for _, existing := range w.renderers {
		if existing == r {
			return
		}
	}
	w.renderers = append(w.renderers, r)
	attach(r, w)
	w.Modified()
}

// RemoveRenderer detaches r and reports whether it was attached.
func (w *RenderWindow) RemoveRenderer(r *Renderer) bool {
	for i, existing := range w.renderers {
		if existing == r {
			w.renderers = append(w.renderers[:i], w.renderers[i+1:]...)
			detach(r)
			w.Modified()
			return true
		}
	}
	return false
}

// Renderers returns the attached renderers.
func (w *RenderWindow) Renderers() []scenegraph.Renderer {
	out := make([]scenegraph.Renderer, len(w.renderers))
	for i, r := range w.renderers {
		out[i] = r
	}
	return out
}

// Children returns the renderers as renderables.
func (w *RenderWindow) Children() []scenegraph.Renderable {
	out := make([]scenegraph.Renderable, len(w.renderers))
	for i, r := range w.renderers {
		out[i] = r
	}
	return out
}

// TypeTags returns RenderWindow, Object.
func (w *RenderWindow) TypeTags() []scenegraph.TypeTag { return windowTags }

var _ scenegraph.Window = (*RenderWindow)(nil)
