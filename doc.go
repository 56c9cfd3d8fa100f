// Package scenegraph defines the contract between a client-owned scene graph
// and the backend-specific view trees that render it.
//
// # Overview
//
// A client builds a graph of renderables (render window, renderer, camera,
// lights, actors, volumes, mappers) and mutates it freely between frames.
// A backend mirrors that graph into a tree of view nodes, one node per
// reachable renderable whose type it knows how to draw, and drives the tree
// through an ordered sequence of two-phase passes every frame.
//
// This package holds only the shared vocabulary:
//
//   - Renderable and the richer Camera, Transformable, Renderer and Window
//     views that backends consume
//   - TypeTag, the explicit type identity used for node factory lookup
//   - Version and Stamp, the monotonic modification counters used for
//     dirty tracking
//   - the package-wide slog logger shared by all sub-packages
//
// # Packages
//
//   - scene: a reference implementation of the renderable graph
//   - viewnode: node factory, view node base, reconciliation, traversal
//   - resource: version-stamped matrix caches and uniform blocks
//   - stabilize: camera-centered floating origin for precision control
//   - backend: backend registry
//   - backend/webgpu: view nodes on top of gogpu/wgpu hal devices
//   - backend/trace: recording backend for debugging pass order
//
// # Quick Start
//
//	win := scene.NewRenderWindow(800, 600)
//	ren := scene.NewRenderer()
//	win.AddRenderer(ren)
//	ren.AddViewProp(scene.NewActor(scene.NewMapper()))
//
//	dev, _ := webgpu.OpenNoop()
//	view, _ := webgpu.NewView(win, webgpu.WithDevice(dev))
//	stats, err := view.Render(context.Background())
//
// # Thread Safety
//
// Rendering is single-threaded and frame-driven. The renderable graph must
// not be mutated while a frame is in flight. Versions and the logger are
// safe for concurrent use.
package scenegraph
