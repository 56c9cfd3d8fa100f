// Package scene is a reference implementation of the renderable graph.
//
// The types here are plain client-side objects: they know nothing about
// GPUs or view nodes. Every setter that changes observable state stamps the
// object with a fresh [scenegraph.Version], which is what backends compare
// against to decide whether derived GPU state is stale.
//
// Objects are not safe for concurrent mutation and must not be modified
// while a frame is being rendered.
package scene

import "github.com/gogpu/scenegraph"

// Object holds the state shared by every renderable: modification stamp,
// visibility and the parent back-reference.
type Object struct {
	stamp  scenegraph.Stamp
	hidden bool
	parent scenegraph.Renderable
}

func newObject() Object {
	var o Object
	o.stamp.Modified()
	return o
}

// Version returns the version of the last modification.
func (o *Object) Version() scenegraph.Version { return o.stamp.Version() }

// Modified marks the object as changed.
func (o *Object) Modified() { o.stamp.Modified() }

// Visible reports whether the object is drawn.
func (o *Object) Visible() bool { return !o.hidden }

// SetVisible shows or hides the object.
func (o *Object) SetVisible(visible bool) {
	if o.hidden == !visible {
		return
	}
	o.hidden = !visible
	o.Modified()
}

// Parent returns the renderable this object is attached to, or nil.
func (o *Object) Parent() scenegraph.Renderable { return o.parent }

func (o *Object) setParent(p scenegraph.Renderable) { o.parent = p }

// attachable is implemented by every type embedding Object.
type attachable interface {
	setParent(p scenegraph.Renderable)
}

func attach(child any, parent scenegraph.Renderable) {
	if a, ok := child.(attachable); ok {
		a.setParent(parent)
	}
}

func detach(child any) {
	if a, ok := child.(attachable); ok {
		a.setParent(nil)
	}
}
