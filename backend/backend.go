package backend

import (
	"context"
	"errors"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/viewnode"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend turns renderable graphs into view trees for one rendering API.
//
// Every backend owns its own node factory, so several backends can view
// the same renderable graph at once. Backends must be registered via
// Register() and are selected via Get() or Default().
type Backend interface {
	// Name returns the backend identifier (e.g., "webgpu", "trace").
	Name() string

	// Init acquires backend resources such as a GPU device.
	// This should be called before NewView.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Factory returns the node factory of the backend.
	Factory() *viewnode.Factory

	// NewView creates the view tree root for a window.
	NewView(w scenegraph.Window) (View, error)
}

// View is a view tree bound to one window.
type View interface {
	// Root returns the root view node.
	Root() viewnode.Interface

	// Render runs one frame.
	Render(ctx context.Context) (viewnode.FrameStats, error)

	// Release releases every node of the view.
	Release()
}
