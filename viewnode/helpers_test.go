// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/scenegraph"
)

// item is a minimal renderable for tests.
type item struct {
	name   string
	tags   []scenegraph.TypeTag
	kids   []scenegraph.Renderable
	parent scenegraph.Renderable
	stamp  scenegraph.Stamp
}

func newItem(name string, tags ...scenegraph.TypeTag) *item {
	it := &item{name: name, tags: append(tags, scenegraph.TagObject)}
	it.stamp.Modified()
	return it
}

func (it *item) add(kids ...*item) *item {
	for _, k := range kids {
		k.parent = it
		it.kids = append(it.kids, k)
	}
	it.stamp.Modified()
	return it
}

func (it *item) remove(k *item) {
	for i, c := range it.kids {
		if c == k {
			it.kids = append(it.kids[:i], it.kids[i+1:]...)
			break
		}
	}
	it.stamp.Modified()
}

func (it *item) Version() scenegraph.Version       { return it.stamp.Version() }
func (it *item) Visible() bool                     { return true }
func (it *item) Parent() scenegraph.Renderable     { return it.parent }
func (it *item) Children() []scenegraph.Renderable { return it.kids }
func (it *item) TypeTags() []scenegraph.TypeTag    { return it.tags }
func (it *item) String() string                    { return it.name }

// journal collects callback records across a tree.
type journal struct {
	entries []string
	failOn  string
}

func (j *journal) record(pass PassID, prepass bool, name string) error {
	phase := "post"
	if prepass {
		phase = "pre"
	}
	entry := fmt.Sprintf("%s.%s(%s)", pass, phase, name)
	j.entries = append(j.entries, entry)
	if entry == j.failOn {
		return errBoom
	}
	return nil
}

func (j *journal) String() string { return strings.Join(j.entries, " ") }

func (j *journal) filter(pass PassID) []string {
	prefix := pass.String() + "."
	var out []string
	for _, e := range j.entries {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

var errBoom = errors.New("boom")

// recNode records every callback into the journal held in the tree context.
type recNode struct {
	Node
	releasedResources int
}

func newRecNode() Interface { return &recNode{} }

func (n *recNode) rec(pass PassID, prepass bool) error {
	j := n.Context().(*journal)
	return j.record(pass, prepass, n.Renderable().(*item).name)
}

func (n *recNode) BuildPass(prepass bool, p *Pass) error {
	if prepass {
		n.ReconcileChildren(n.Renderable().Children())
	}
	return n.rec(p.ID, prepass)
}

func (n *recNode) QueryPass(prepass bool, p *Pass) error {
	if prepass && n.HasTag(scenegraph.TagVolume) {
		p.Increment(CounterVolumes)
	}
	return n.rec(p.ID, prepass)
}

func (n *recNode) CameraLightPass(prepass bool, p *Pass) error { return n.rec(p.ID, prepass) }
func (n *recNode) OpaquePass(prepass bool, p *Pass) error      { return n.rec(p.ID, prepass) }
func (n *recNode) TranslucentPass(prepass bool, p *Pass) error { return n.rec(p.ID, prepass) }
func (n *recNode) OverlayPass(prepass bool, p *Pass) error     { return n.rec(p.ID, prepass) }
func (n *recNode) CustomPass(prepass bool, p *Pass) error      { return n.rec(p.ID, prepass) }

func (n *recNode) VolumeDepthRangePass(prepass bool, p *Pass) error {
	return n.rec(p.ID, prepass)
}

func (n *recNode) ReleaseResources() { n.releasedResources++ }

// newTestFactory registers recNode for the given tags.
func newTestFactory(tags ...scenegraph.TypeTag) *Factory {
	f := NewFactory()
	for _, tag := range tags {
		f.Register(tag, newRecNode)
	}
	return f
}

func names(nodes []Interface) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Base().Renderable().(*item).name
	}
	return out
}
