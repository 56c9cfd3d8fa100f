// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/scenegraph"
)

func twoChildTree(t *testing.T) (Interface, *journal) {
	t.Helper()
	r := newItem("root", scenegraph.TagRenderer)
	r.add(newItem("A", scenegraph.TagActor), newItem("B", scenegraph.TagActor))
	root, j := newTree(t, r)
	if _, err := NewFrame(PassBuild).Run(root); err != nil {
		t.Fatalf("build: %v", err)
	}
	j.entries = nil
	return root, j
}

func TestPassOrdering(t *testing.T) {
	root, j := twoChildTree(t)

	if err := Traverse(root, NewPass(PassOpaque)); err != nil {
		t.Fatalf("Traverse() error = %v", err)
	}
	want := []string{
		"opaque.pre(root)",
		"opaque.pre(A)",
		"opaque.post(A)",
		"opaque.pre(B)",
		"opaque.post(B)",
		"opaque.post(root)",
	}
	if !slices.Equal(j.entries, want) {
		t.Errorf("callbacks = %v, want %v", j.entries, want)
	}
}

func TestFailFast(t *testing.T) {
	root, j := twoChildTree(t)
	j.failOn = "opaque.pre(A)"

	frame := NewFrame(PassCameraLight, PassOpaque, PassOverlay)
	stats, err := frame.Run(root)
	if !errors.Is(err, errBoom) {
		t.Fatalf("Run() error = %v, want errBoom", err)
	}
	var pe *PassError
	if !errors.As(err, &pe) {
		t.Fatalf("Run() error %T is not *PassError", err)
	}
	if pe.Pass != PassOpaque || pe.Tag != scenegraph.TagActor || !pe.Prepass {
		t.Errorf("PassError = %+v, want opaque prepass on Actor", pe)
	}

	if got := len(j.filter(PassCameraLight)); got != 6 {
		t.Errorf("completed cameraLight pass has %d callbacks, want 6", got)
	}
	for _, e := range j.entries {
		if e == "opaque.pre(B)" || e == "opaque.post(B)" || e == "opaque.post(root)" {
			t.Errorf("callback %s ran after failure", e)
		}
	}
	if len(j.filter(PassOverlay)) != 0 {
		t.Error("overlay pass ran after failed opaque pass")
	}
	if len(stats.Passes) != 2 {
		t.Errorf("len(stats.Passes) = %d, want 2", len(stats.Passes))
	}
	for _, c := range root.Base().Children() {
		if c.Base().State() != StateBuilt {
			t.Errorf("%v state after failure = %v, want Built", c.Base().Renderable(), c.Base().State())
		}
	}
}

func TestFramePassSequence(t *testing.T) {
	r := newItem("root", scenegraph.TagRenderer)
	root, j := newTree(t, r)
	if _, err := NewFrame().Run(root); err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range j.entries {
		if strings.HasSuffix(e, ".pre(root)") {
			got = append(got, e)
		}
	}
	want := []string{
		"build.pre(root)",
		"query.pre(root)",
		"cameraLight.pre(root)",
		"opaque.pre(root)",
		"translucent.pre(root)",
		"volumeDepthRange.pre(root)",
		"overlay.pre(root)",
	}
	if !slices.Equal(got, want) {
		t.Errorf("pass order = %v, want %v", got, want)
	}
}

func TestQueryCounter(t *testing.T) {
	r := newItem("root", scenegraph.TagRenderer)
	r.add(
		newItem("v1", scenegraph.TagVolume),
		newItem("a", scenegraph.TagActor),
		newItem("v2", scenegraph.TagVolume),
	)
	root, _ := newTree(t, r)

	stats, err := NewFrame(PassBuild, PassQuery).Run(root)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Volumes != 2 {
		t.Errorf("Volumes = %d, want 2", stats.Volumes)
	}
	again, _ := NewFrame(PassQuery).Run(root)
	if again.Volumes != 2 {
		t.Errorf("Volumes on fresh pass = %d, want 2", again.Volumes)
	}
}

type stateProbe struct {
	Node
	seen []State
}

func (n *stateProbe) OpaquePass(prepass bool, p *Pass) error {
	n.seen = append(n.seen, n.State())
	return nil
}

func TestDrawPassBindsNodes(t *testing.T) {
	f := NewFactory()
	f.Register(scenegraph.TagRenderer, func() Interface { return &stateProbe{} })
	root, err := f.NewRoot(newItem("root", scenegraph.TagRenderer), nil)
	if err != nil {
		t.Fatal(err)
	}
	probe := root.(*stateProbe)

	if err := Traverse(root, NewPass(PassOpaque)); err != nil {
		t.Fatal(err)
	}
	want := []State{StateBoundForFrame, StateBoundForFrame}
	if !slices.Equal(probe.seen, want) {
		t.Errorf("states during opaque = %v, want %v", probe.seen, want)
	}
	if probe.State() != StateBuilt {
		t.Errorf("State() after pass = %v, want Built", probe.State())
	}

	probe.seen = nil
	if err := Traverse(root, NewPass(PassBuild)); err != nil {
		t.Fatal(err)
	}
	if probe.State() != StateBuilt {
		t.Errorf("State() after build = %v, want Built", probe.State())
	}
}

func TestReleasedNodeRejectsPasses(t *testing.T) {
	root, j := twoChildTree(t)
	root.Base().Release()

	err := Traverse(root, NewPass(PassOpaque))
	if !errors.Is(err, ErrReleased) {
		t.Errorf("Traverse(released) error = %v, want ErrReleased", err)
	}
	if len(j.entries) != 0 {
		t.Errorf("released tree received callbacks: %v", j.entries)
	}
	root.Base().Release()
	if _, released := root.Base().Factory().Stats(); released != 3 {
		t.Errorf("released = %d, want 3", released)
	}
}

// mapperOnly visits only its first child during translucent passes.
type mapperOnly struct {
	recNode
}

func (n *mapperOnly) TraversePass(p *Pass) (bool, error) {
	if p.ID != PassTranslucent {
		return false, nil
	}
	if kids := n.Children(); len(kids) > 0 {
		return true, Traverse(kids[0], p)
	}
	return true, nil
}

func TestTraverserTakesOver(t *testing.T) {
	f := newTestFactory(scenegraph.TagRenderer, scenegraph.TagVolumeMapper, scenegraph.TagActor)
	f.Register(scenegraph.TagVolume, func() Interface { return &mapperOnly{} })

	r := newItem("root", scenegraph.TagRenderer)
	r.add(newItem("vol", scenegraph.TagVolume).add(
		newItem("vmap", scenegraph.TagVolumeMapper),
		newItem("extra", scenegraph.TagActor),
	))
	j := &journal{}
	root, err := f.NewRoot(r, j)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewFrame(PassBuild).Run(root); err != nil {
		t.Fatal(err)
	}
	j.entries = nil

	if err := Traverse(root, NewPass(PassTranslucent)); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"translucent.pre(root)",
		"translucent.pre(vmap)",
		"translucent.post(vmap)",
		"translucent.post(root)",
	}
	if !slices.Equal(j.entries, want) {
		t.Errorf("callbacks = %v, want %v", j.entries, want)
	}
}

func TestCustomPass(t *testing.T) {
	root, j := twoChildTree(t)
	pick := RegisterPass("test.pick", false)
	if RegisterPass("test.pick", true) != pick {
		t.Fatal("RegisterPass is not idempotent")
	}
	if pick.String() != "test.pick" || pick.IsDraw() {
		t.Errorf("pick = %q draw=%v", pick.String(), pick.IsDraw())
	}

	if _, err := NewFrame(pick).Run(root); err != nil {
		t.Fatal(err)
	}
	if got := len(j.filter(pick)); got != 6 {
		t.Errorf("custom pass callbacks = %d, want 6", got)
	}
}

func TestRunNilRoot(t *testing.T) {
	if _, err := NewFrame().Run(nil); !errors.Is(err, ErrNilRoot) {
		t.Errorf("Run(nil) error = %v, want ErrNilRoot", err)
	}
}

func TestAfterPassHook(t *testing.T) {
	root, _ := twoChildTree(t)
	var order []PassID
	frame := NewFrame(PassQuery, PassOpaque)
	frame.AfterPass = func(p *Pass) error {
		order = append(order, p.ID)
		return nil
	}
	if _, err := frame.Run(root); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(order, []PassID{PassQuery, PassOpaque}) {
		t.Errorf("AfterPass order = %v", order)
	}
}
