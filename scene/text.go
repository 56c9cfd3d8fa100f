package scene

import "github.com/gogpu/scenegraph"

var textActorTags = []scenegraph.TypeTag{scenegraph.TagTextActor, scenegraph.TagProp, scenegraph.TagObject}

// TextActor is a text label anchored in display coordinates.
type TextActor struct {
	Object
	id    int
	text  string
	x, y  int
	size  float64
	color [4]float64
}

// NewTextActor returns a 12 point white label.
func NewTextActor(text string) *TextActor {
	return &TextActor{
		Object: newObject(),
		text:   text,
		size:   12,
		color:  [4]float64{1, 1, 1, 1},
	}
}

// ID returns the renderer-assigned identifier.
func (t *TextActor) ID() int { return t.id }

func (t *TextActor) setID(id int) { t.id = id }

// Text returns the label.
func (t *TextActor) Text() string { return t.text }

// SetText replaces the label.
func (t *TextActor) SetText(s string) {
	if t.text == s {
		return
	}
	t.text = s
	t.Modified()
}

// DisplayPosition returns the lower-left anchor in pixels.
func (t *TextActor) DisplayPosition() (x, y int) { return t.x, t.y }

// SetDisplayPosition moves the anchor.
func (t *TextActor) SetDisplayPosition(x, y int) {
	if t.x == x && t.y == y {
		return
	}
	t.x, t.y = x, y
	t.Modified()
}

// FontSize returns the size in points.
func (t *TextActor) FontSize() float64 { return t.size }

// SetFontSize sets the size in points.
func (t *TextActor) SetFontSize(pt float64) {
	if t.size == pt {
		return
	}
	t.size = pt
	t.Modified()
}

// Color returns the RGBA color.
func (t *TextActor) Color() [4]float64 { return t.color }

// SetColor sets the RGBA color.
func (t *TextActor) SetColor(c [4]float64) {
	if t.color == c {
		return
	}
	t.color = c
	t.Modified()
}

// Children returns nil.
func (t *TextActor) Children() []scenegraph.Renderable { return nil }

// TypeTags returns TextActor, Prop, Object.
func (t *TextActor) TypeTags() []scenegraph.TypeTag { return textActorTags }

var _ scenegraph.TextProp = (*TextActor)(nil)
