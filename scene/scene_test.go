package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

func TestSettersAdvanceVersion(t *testing.T) {
	a := NewActor(nil)
	before := a.Version()

	a.SetPosition(mgl64.Vec3{1, 2, 3})
	if !a.Version().NewerThan(before) {
		t.Fatalf("SetPosition did not advance version: %d <= %d", a.Version(), before)
	}

	same := a.Version()
	a.SetPosition(mgl64.Vec3{1, 2, 3})
	if a.Version() != same {
		t.Errorf("no-op SetPosition changed version %d -> %d", same, a.Version())
	}
}

func TestRendererChildrenOrder(t *testing.T) {
	ren := NewRenderer()
	a1 := NewActor(NewMapper())
	a2 := NewActor(NewMapper())
	vol := NewVolume(NewVolumeMapper([3]int{4, 4, 4}))
	ren.AddViewProp(a1)
	ren.AddViewProp(vol)
	ren.AddViewProp(a2)
	ren.AddViewProp(a1)

	kids := ren.Children()
	if len(kids) != 4 {
		t.Fatalf("len(Children()) = %d, want 4", len(kids))
	}
	if kids[0] != ren.ActiveCamera() {
		t.Errorf("Children()[0] = %v, want active camera", kids[0])
	}
	want := []scenegraph.Renderable{a1, vol, a2}
	for i, w := range want {
		if kids[i+1] != w {
			t.Errorf("Children()[%d] = %v, want %v", i+1, kids[i+1], w)
		}
	}
	if a1.Parent() != ren {
		t.Error("AddViewProp did not set parent")
	}
}

func TestPropIDs(t *testing.T) {
	ren := NewRenderer()
	a := NewActor(nil)
	txt := NewTextActor("hi")
	ren.AddViewProp(a)
	ren.AddViewProp(txt)
	if a.ID() != 1 || txt.ID() != 2 {
		t.Errorf("IDs = %d, %d, want 1, 2", a.ID(), txt.ID())
	}
}

func TestRemoveViewProp(t *testing.T) {
	ren := NewRenderer()
	a := NewActor(nil)
	ren.AddViewProp(a)
	if !ren.RemoveViewProp(a) {
		t.Fatal("RemoveViewProp() = false, want true")
	}
	if ren.RemoveViewProp(a) {
		t.Error("second RemoveViewProp() = true, want false")
	}
	if a.Parent() != nil {
		t.Error("removed prop still has a parent")
	}
}

func TestPropMatrix(t *testing.T) {
	a := NewActor(nil)
	if !a.IsIdentity() {
		t.Error("new actor IsIdentity() = false")
	}
	a.SetPosition(mgl64.Vec3{1, 2, 3})
	if a.IsIdentity() {
		t.Error("translated actor IsIdentity() = true")
	}
	got := a.Matrix().Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	if !got.ApproxEqual(mgl64.Vec4{1, 2, 3, 1}) {
		t.Errorf("Matrix()*origin = %v, want (1,2,3,1)", got)
	}
}

func TestCameraDefaults(t *testing.T) {
	c := NewCamera()
	dop := c.DirectionOfProjection()
	if !dop.ApproxEqual(mgl64.Vec3{0, 0, -1}) {
		t.Errorf("DirectionOfProjection() = %v, want (0,0,-1)", dop)
	}
	near, far := c.ClippingRange()
	if near >= far {
		t.Errorf("ClippingRange() = %v, %v, want near < far", near, far)
	}
	eye := c.ViewMatrix().Mul4x1(mgl64.Vec4{0, 0, 1, 1})
	if !eye.ApproxEqual(mgl64.Vec4{0, 0, 0, 1}) {
		t.Errorf("view(eye) = %v, want origin", eye)
	}
}

func TestCameraViewTracksChanges(t *testing.T) {
	c := NewCamera()
	_ = c.ViewMatrix()
	c.Translate(mgl64.Vec3{5, 0, 0})
	p := c.ViewMatrix().Mul4x1(mgl64.Vec4{5, 0, 1, 1})
	if !p.ApproxEqual(mgl64.Vec4{0, 0, 0, 1}) {
		t.Errorf("view(eye) after Translate = %v, want origin", p)
	}
}

func TestTypeTags(t *testing.T) {
	tests := []struct {
		r    scenegraph.Renderable
		want scenegraph.TypeTag
	}{
		{NewRenderWindow(1, 1), scenegraph.TagRenderWindow},
		{NewRenderer(), scenegraph.TagRenderer},
		{NewCamera(), scenegraph.TagCamera},
		{NewLight(), scenegraph.TagLight},
		{NewActor(nil), scenegraph.TagActor},
		{NewVolume(nil), scenegraph.TagVolume},
		{NewMapper(), scenegraph.TagMapper},
		{NewVolumeMapper([3]int{1, 1, 1}), scenegraph.TagVolumeMapper},
		{NewTextActor(""), scenegraph.TagTextActor},
	}
	for _, tt := range tests {
		tags := tt.r.TypeTags()
		if tags[0] != tt.want {
			t.Errorf("%T TypeTags()[0] = %v, want %v", tt.r, tags[0], tt.want)
		}
		if tags[len(tags)-1] != scenegraph.TagObject {
			t.Errorf("%T tag chain does not end in Object: %v", tt.r, tags)
		}
	}
}

func TestMapperBounds(t *testing.T) {
	m := NewMapper(mgl64.Vec3{-1, 2, 0}, mgl64.Vec3{3, -4, 5})
	lo, hi, ok := m.Bounds()
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if lo != (mgl64.Vec3{-1, -4, 0}) || hi != (mgl64.Vec3{3, 2, 5}) {
		t.Errorf("Bounds() = %v, %v", lo, hi)
	}
	if _, _, ok := NewMapper().Bounds(); ok {
		t.Error("empty Bounds() ok = true")
	}
}

func TestWindowRenderers(t *testing.T) {
	w := NewRenderWindow(300, 200)
	r := NewRenderer()
	w.AddRenderer(r)
	w.AddRenderer(r)
	if got := len(w.Renderers()); got != 1 {
		t.Fatalf("len(Renderers()) = %d, want 1", got)
	}
	if r.Parent() != w {
		t.Error("renderer parent not set")
	}
	if !w.RemoveRenderer(r) || len(w.Children()) != 0 {
		t.Error("RemoveRenderer did not detach")
	}
}

func TestVolumeNotOpaque(t *testing.T) {
	v := NewVolume(NewVolumeMapper([3]int{2, 2, 2}))
	if v.Opaque() {
		t.Error("Volume.Opaque() = true")
	}
	a := NewActor(nil)
	a.SetOpacity(0.5)
	if a.Opaque() {
		t.Error("translucent actor Opaque() = true")
	}
}
