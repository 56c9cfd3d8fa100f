package backend

import (
	"slices"
	"testing"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/viewnode"
)

type stubBackend struct {
	name    string
	inited  bool
	factory *viewnode.Factory
}

func (b *stubBackend) Name() string               { return b.name }
func (b *stubBackend) Close()                     {}
func (b *stubBackend) Factory() *viewnode.Factory { return b.factory }

func (b *stubBackend) Init() error {
	b.inited = true
	return nil
}

func (b *stubBackend) NewView(w scenegraph.Window) (View, error) {
	return nil, ErrNotInitialized
}


func withRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := backends
	backends = make(map[string]BackendFactory)
	registryMu.Unlock()
	t.Cleanup(func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	})
}

func register(name string) {
	Register(name, func() Backend {
		return &stubBackend{name: name, factory: viewnode.NewFactory()}
	})
}

func TestRegistryBasics(t *testing.T) {
	withRegistry(t)
	register("zeta")
	register("alpha")

	if !IsRegistered("alpha") {
		t.Error("IsRegistered(alpha) = false")
	}
	if got := Available(); !slices.Equal(got, []string{"alpha", "zeta"}) {
		t.Errorf("Available() = %v", got)
	}
	if b := Get("alpha"); b == nil || b.Name() != "alpha" {
		t.Errorf("Get(alpha) = %v", b)
	}
	if Get("missing") != nil {
		t.Error("Get(missing) != nil")
	}

	Unregister("alpha")
	if IsRegistered("alpha") {
		t.Error("IsRegistered(alpha) after Unregister = true")
	}
}

func TestDefaultPriority(t *testing.T) {
	withRegistry(t)
	register("custom")
	if b := Default(); b == nil || b.Name() != "custom" {
		t.Fatalf("Default() with only custom = %v", b)
	}
	register(BackendTrace)
	if b := Default(); b.Name() != BackendTrace {
		t.Errorf("Default() = %q, want %q", b.Name(), BackendTrace)
	}
	register(BackendWebGPU)
	if b := Default(); b.Name() != BackendWebGPU {
		t.Errorf("Default() = %q, want %q", b.Name(), BackendWebGPU)
	}
}

func TestDefaultEmpty(t *testing.T) {
	withRegistry(t)
	if Default() != nil {
		t.Error("Default() on empty registry != nil")
	}
	if _, err := InitDefault(); err != ErrBackendNotAvailable {
		t.Errorf("InitDefault() error = %v, want ErrBackendNotAvailable", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("MustDefault() did not panic")
		}
	}()
	MustDefault()
}

func TestInitDefault(t *testing.T) {
	withRegistry(t)
	register(BackendTrace)
	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if !b.(*stubBackend).inited {
		t.Error("InitDefault() did not call Init")
	}
}

func TestBackendsHaveIsolatedFactories(t *testing.T) {
	withRegistry(t)
	register("a")
	a, b := Get("a"), Get("a")
	a.Factory().Register(scenegraph.TagActor, func() viewnode.Interface { return &viewnode.Node{} })
	if _, ok := b.Factory().Lookup(scenegraph.TagActor); ok {
		t.Error("factory registration leaked between backend instances")
	}
}
