package scenegraph_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/stabilize"
	"github.com/gogpu/scenegraph/viewnode"
)

func TestSubPackagesShareLogger(t *testing.T) {
	orig := scenegraph.Logger()
	t.Cleanup(func() { scenegraph.SetLogger(orig) })
	var buf bytes.Buffer
	scenegraph.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	f := viewnode.NewFactory()
	ctor := func() viewnode.Interface { return &viewnode.Node{} }
	f.Register(scenegraph.TagActor, ctor)
	f.Register(scenegraph.TagActor, ctor)

	c := stabilize.New(stabilize.DefaultConfig())
	if !c.Update(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{0, 0, -1}, 1, 11) {
		t.Fatal("Update did not recenter")
	}

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=\"viewnode: constructor registered\"",
		"level=WARN msg=\"viewnode: constructor replaced\"",
		"level=DEBUG msg=\"stabilize: recentered\"",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output lacks %q:\n%s", want, out)
		}
	}
}

func TestSubPackagesSilentByDefault(t *testing.T) {
	orig := scenegraph.Logger()
	t.Cleanup(func() { scenegraph.SetLogger(orig) })
	var buf bytes.Buffer
	scenegraph.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	scenegraph.SetLogger(nil)

	viewnode.NewFactory().Register(scenegraph.TagVolume, func() viewnode.Interface { return &viewnode.Node{} })
	stabilize.New(stabilize.DefaultConfig()).Update(mgl64.Vec3{1000, 0, 0}, mgl64.Vec3{0, 0, -1}, 1, 11)
	if buf.Len() != 0 {
		t.Errorf("silenced logger wrote %q", buf.String())
	}
}
