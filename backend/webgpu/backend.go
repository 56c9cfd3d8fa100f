// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/backend"
	"github.com/gogpu/scenegraph/viewnode"
)

func init() {
	backend.Register(backend.BackendWebGPU, func() backend.Backend {
		return New()
	})
}

// Tags lists the renderable types the webgpu backend creates nodes for.
// Lights have no node: renderers read them directly.
var Tags = []scenegraph.TypeTag{
	scenegraph.TagRenderWindow,
	scenegraph.TagRenderer,
	scenegraph.TagCamera,
	scenegraph.TagActor,
	scenegraph.TagVolume,
	scenegraph.TagTextActor,
	scenegraph.TagMapper,
	scenegraph.TagVolumeMapper,
}

// NewFactory returns a node factory with the webgpu nodes registered.
func NewFactory() *viewnode.Factory {
	f := viewnode.NewFactory()
	f.Register(scenegraph.TagRenderWindow, newWindow)
	f.Register(scenegraph.TagRenderer, newRenderer)
	f.Register(scenegraph.TagCamera, newCamera)
	f.Register(scenegraph.TagActor, newActor)
	f.Register(scenegraph.TagVolume, newVolume)
	f.Register(scenegraph.TagTextActor, newText)
	f.Register(scenegraph.TagMapper, newMapper)
	f.Register(scenegraph.TagVolumeMapper, newVolumeMapper)
	return f
}

// Backend is the webgpu backend. Views created through it share one
// device and one node factory.
type Backend struct {
	factory  *viewnode.Factory
	device   *Device
	provider gpucontext.DeviceProvider
	opts     []Option

	// owned is set when Init created device, which Close then closes.
	owned bool
}

// New returns a webgpu backend. Init takes the device from WithDevice or
// WithHALDevice, else from WithDeviceProvider, else opens one on the noop
// hal backend.
func New(opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{factory: NewFactory(), device: o.device, provider: o.provider, opts: opts}
}

// Name returns "webgpu".
func (b *Backend) Name() string { return backend.BackendWebGPU }

// Init resolves the device of the backend.
func (b *Backend) Init() error {
	if b.device != nil {
		return nil
	}
	var (
		d   *Device
		err error
	)
	if b.provider != nil {
		d, err = NewDeviceFromProvider(b.provider)
	} else {
		d, err = OpenNoop()
	}
	if err != nil {
		return err
	}
	b.device, b.owned = d, true
	scenegraph.Logger().Info("webgpu: backend device", "adapter", d.AdapterInfo().Name)
	return nil
}

// Close closes the device if Init created it. A device passed with
// WithDevice stays open.
func (b *Backend) Close() {
	if b.owned {
		b.device.Close()
		b.device, b.owned = nil, false
	}
}

// Factory returns the node factory.
func (b *Backend) Factory() *viewnode.Factory { return b.factory }

// Device returns the device, nil before Init.
func (b *Backend) Device() *Device { return b.device }

// NewView creates a view of w on the backend device.
func (b *Backend) NewView(w scenegraph.Window) (backend.View, error) {
	if b.device == nil {
		return nil, backend.ErrNotInitialized
	}
	opts := append([]Option{WithFactory(b.factory)}, b.opts...)
	opts = append(opts, WithDevice(b.device))
	v, err := NewView(w, opts...)
	if err != nil {
		return nil, err
	}
	return v, nil
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.View    = (*Window)(nil)
)
