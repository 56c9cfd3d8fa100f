// Package trace is a view backend that records pass callbacks instead of
// drawing.
//
// It registers a recording node for every built-in renderable type, so a
// trace of one frame shows the exact traversal order other backends will
// see. Importing the package registers the "trace" backend:
//
//	import _ "github.com/gogpu/scenegraph/backend/trace"
package trace

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/backend"
	"github.com/gogpu/scenegraph/viewnode"
)

func init() {
	backend.Register(backend.BackendTrace, func() backend.Backend {
		return New()
	})
}

// Tags lists the renderable types the trace backend creates nodes for.
var Tags = []scenegraph.TypeTag{
	scenegraph.TagRenderWindow,
	scenegraph.TagRenderer,
	scenegraph.TagCamera,
	scenegraph.TagLight,
	scenegraph.TagActor,
	scenegraph.TagVolume,
	scenegraph.TagTextActor,
	scenegraph.TagMapper,
	scenegraph.TagVolumeMapper,
}

// Event is one recorded callback.
type Event struct {
	Pass    viewnode.PassID
	Prepass bool
	Tag     scenegraph.TypeTag
	Depth   int
}

func (e Event) String() string {
	phase := "post"
	if e.Prepass {
		phase = "pre"
	}
	return fmt.Sprintf("%s.%s(%s)", e.Pass, phase, e.Tag)
}

// Recorder collects events. It is the context shared by a trace view tree.
type Recorder struct {
	Events []Event
}

// Reset drops all events.
func (r *Recorder) Reset() { r.Events = r.Events[:0] }

// Filter returns the events of pass id.
func (r *Recorder) Filter(id viewnode.PassID) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Pass == id {
			out = append(out, e)
		}
	}
	return out
}

// WriteTo writes one indented line per event.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Events {
		n, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", e.Depth), e)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Node records every pass callback it receives.
type Node struct {
	viewnode.Node
}

func newNode() viewnode.Interface { return &Node{} }

func (n *Node) depth() int {
	d := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		d++
	}
	return d
}

func (n *Node) record(p *viewnode.Pass, prepass bool) error {
	rec, ok := n.Context().(*Recorder)
	if !ok {
		return nil
	}
	e := Event{Pass: p.ID, Prepass: prepass, Tag: n.Tag(), Depth: n.depth()}
	rec.Events = append(rec.Events, e)
	scenegraph.Logger().Debug("trace: callback", "event", e.String())
	return nil
}

// BuildPass reconciles the children like the default build and records.
// Renderers also get a node per light, after the camera, so the trace
// shows what the camera and light pass visits.
func (n *Node) BuildPass(prepass bool, p *viewnode.Pass) error {
	if prepass {
		n.ReconcileChildren(n.children())
	}
	return n.record(p, prepass)
}

func (n *Node) children() []scenegraph.Renderable {
	children := n.Renderable().Children()
	ren, ok := n.Renderable().(scenegraph.Renderer)
	if !ok || len(ren.Lights()) == 0 {
		return children
	}
	out := make([]scenegraph.Renderable, 0, len(children)+len(ren.Lights()))
	rest := children
	if len(rest) > 0 && slices.Contains(rest[0].TypeTags(), scenegraph.TagCamera) {
		out, rest = append(out, rest[0]), rest[1:]
	}
	for _, l := range ren.Lights() {
		out = append(out, l)
	}
	return append(out, rest...)
}

// QueryPass counts visible volumes.
func (n *Node) QueryPass(prepass bool, p *viewnode.Pass) error {
	if prepass && n.HasTag(scenegraph.TagVolume) && n.Renderable().Visible() {
		p.Increment(viewnode.CounterVolumes)
	}
	return n.record(p, prepass)
}

func (n *Node) CameraLightPass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

func (n *Node) OpaquePass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

func (n *Node) TranslucentPass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

func (n *Node) VolumeDepthRangePass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

func (n *Node) OverlayPass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

func (n *Node) CustomPass(prepass bool, p *viewnode.Pass) error {
	return n.record(p, prepass)
}

// Backend is the trace backend.
type Backend struct {
	factory *viewnode.Factory
}

// New returns a trace backend with its node registered for Tags.
func New() *Backend {
	f := viewnode.NewFactory()
	for _, tag := range Tags {
		f.Register(tag, newNode)
	}
	return &Backend{factory: f}
}

// Name returns "trace".
func (b *Backend) Name() string { return backend.BackendTrace }

// Init does nothing.
func (b *Backend) Init() error { return nil }

// Close does nothing.
func (b *Backend) Close() {}

// Factory returns the node factory.
func (b *Backend) Factory() *viewnode.Factory { return b.factory }

// NewView creates a recording view of w running the default pass sequence.
func (b *Backend) NewView(w scenegraph.Window) (backend.View, error) {
	return b.View(w)
}

// View is NewView with the concrete type.
func (b *Backend) View(w scenegraph.Window, passes ...viewnode.PassID) (*View, error) {
	rec := &Recorder{}
	root, err := b.factory.NewRoot(w, rec)
	if err != nil {
		return nil, err
	}
	return &View{root: root, frame: viewnode.NewFrame(passes...), Recorder: rec}, nil
}

// View records the callbacks of every frame it renders.
type View struct {
	root     viewnode.Interface
	frame    *viewnode.Frame
	Recorder *Recorder
}

// Root returns the root node.
func (v *View) Root() viewnode.Interface { return v.root }

// Render runs one frame, appending its callbacks to the recorder.
func (v *View) Render(ctx context.Context) (viewnode.FrameStats, error) {
	if err := ctx.Err(); err != nil {
		return viewnode.FrameStats{}, err
	}
	return v.frame.Run(v.root)
}

// Release releases the view tree.
func (v *View) Release() { v.root.Base().Release() }

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.View    = (*View)(nil)
)
