// Package backend provides a pluggable view backend abstraction.
//
// A backend owns a [viewnode.Factory] populated with its node types and
// creates view trees for render windows. Several backends may view the same
// renderable graph at once because each keeps an independent factory.
//
// # Backend Registration
//
// Backends are registered via init() functions and selected at runtime:
//
//	import _ "github.com/gogpu/scenegraph/backend/webgpu"
//
// # Backend Selection
//
// Use Default() to get the best available backend, or Get() to request
// a specific backend by name:
//
//	b, err := backend.InitDefault()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	view, err := b.NewView(win)
//	if err != nil {
//		log.Fatal(err)
//	}
//	stats, err := view.Render(ctx)
//
// # Available Backends
//
// - "webgpu": GPU backend on gogpu/wgpu, headless noop device by default
// - "trace": records every pass callback, useful for debugging traversal
package backend
