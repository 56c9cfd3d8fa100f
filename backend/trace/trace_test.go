package trace

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/backend"
	"github.com/gogpu/scenegraph/scene"
	"github.com/gogpu/scenegraph/viewnode"
)

func newScene() (*scene.RenderWindow, *scene.Renderer, *scene.Actor, *scene.Volume) {
	win := scene.NewRenderWindow(320, 240)
	ren := scene.NewRenderer()
	win.AddRenderer(ren)
	actor := scene.NewActor(scene.NewMapper())
	vol := scene.NewVolume(scene.NewVolumeMapper([3]int{8, 8, 8}))
	ren.AddViewProp(actor)
	ren.AddViewProp(vol)
	return win, ren, actor, vol
}

func TestRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendTrace) {
		t.Fatal("trace backend not registered")
	}
	if b := backend.Get(backend.BackendTrace); b == nil || b.Name() != "trace" {
		t.Errorf("Get(trace) = %v", b)
	}
}

func TestOpaqueTraversalOrder(t *testing.T) {
	win, _, _, _ := newScene()
	view, err := New().View(win, viewnode.PassBuild, viewnode.PassOpaque)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := view.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, e := range view.Recorder.Filter(viewnode.PassOpaque) {
		got = append(got, e.String())
	}
	want := []string{
		"opaque.pre(RenderWindow)",
		"opaque.pre(Renderer)",
		"opaque.pre(Camera)",
		"opaque.post(Camera)",
		"opaque.pre(Actor)",
		"opaque.pre(Mapper)",
		"opaque.post(Mapper)",
		"opaque.post(Actor)",
		"opaque.pre(Volume)",
		"opaque.pre(VolumeMapper)",
		"opaque.post(VolumeMapper)",
		"opaque.post(Volume)",
		"opaque.post(Renderer)",
		"opaque.post(RenderWindow)",
	}
	if !slices.Equal(got, want) {
		t.Errorf("opaque events:\n got %v\nwant %v", got, want)
	}
}

func TestVolumeCount(t *testing.T) {
	win, ren, _, _ := newScene()
	ren.AddViewProp(scene.NewVolume(nil))
	view, err := New().View(win)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := view.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Volumes != 2 {
		t.Errorf("Volumes = %d, want 2", stats.Volumes)
	}
	if len(stats.Passes) != len(viewnode.DefaultSequence()) {
		t.Errorf("len(Passes) = %d", len(stats.Passes))
	}
}

func TestUnregisteredTypeSkipped(t *testing.T) {
	win, ren, _, _ := newScene()
	ren.AddViewProp(&custom{tag: scenegraph.NewTypeTag("trace.Custom")})

	view, err := New().View(win, viewnode.PassBuild)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := view.Render(context.Background())
	if err != nil {
		t.Fatalf("Render() error = %v, want lookup miss to be ignored", err)
	}
	// renderer, camera, actor, mapper, volume, volume mapper
	if stats.Created != 6 {
		t.Errorf("Created = %d, want 6", stats.Created)
	}
}

func TestRemoveProp(t *testing.T) {
	win, ren, actor, _ := newScene()
	view, _ := New().View(win)
	ctx := context.Background()
	if _, err := view.Render(ctx); err != nil {
		t.Fatal(err)
	}
	ren.RemoveViewProp(actor)
	view.Recorder.Reset()
	stats, err := view.Render(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Released != 2 {
		t.Errorf("Released = %d, want 2 (actor and mapper)", stats.Released)
	}
	for _, e := range view.Recorder.Events {
		if e.Tag == scenegraph.TagActor {
			t.Errorf("removed actor received %s", e)
		}
	}
}

func TestLightNodes(t *testing.T) {
	win, ren, _, _ := newScene()
	key := scene.NewLight()
	ren.AddLight(key)
	view, err := New().View(win, viewnode.PassBuild, viewnode.PassCameraLight)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := view.Render(context.Background()); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, e := range view.Recorder.Filter(viewnode.PassCameraLight) {
		if e.Prepass && e.Depth == 2 {
			got = append(got, e.String())
		}
	}
	want := []string{
		"cameraLight.pre(Camera)",
		"cameraLight.pre(Light)",
		"cameraLight.pre(Actor)",
		"cameraLight.pre(Volume)",
	}
	if !slices.Equal(got, want) {
		t.Errorf("renderer children:\n got %v\nwant %v", got, want)
	}

	ren.RemoveAllLights()
	stats, err := view.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Released != 1 {
		t.Errorf("Released = %d after removing the light, want 1", stats.Released)
	}
}

func TestWriteTo(t *testing.T) {
	win, _, _, _ := newScene()
	view, _ := New().View(win, viewnode.PassBuild)
	_, _ = view.Render(context.Background())

	var buf bytes.Buffer
	if _, err := view.Recorder.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "    build.pre(Actor)") {
		t.Errorf("WriteTo() missing indented actor line:\n%s", buf.String())
	}
}

func TestRenderCanceled(t *testing.T) {
	win, _, _, _ := newScene()
	view, _ := New().View(win)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := view.Render(ctx); err == nil {
		t.Error("Render(canceled) error = nil")
	}
}

// custom is a renderable no backend knows.
type custom struct {
	scenegraph.Stamp
	tag scenegraph.TypeTag
}

func (c *custom) Visible() bool                     { return true }
func (c *custom) Parent() scenegraph.Renderable     { return nil }
func (c *custom) Children() []scenegraph.Renderable { return nil }
func (c *custom) TypeTags() []scenegraph.TypeTag    { return []scenegraph.TypeTag{c.tag, scenegraph.TagObject} }
