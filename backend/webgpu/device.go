// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/scenegraph"
	"github.com/gogpu/scenegraph/resource"
)

// DeviceStats counts device operations issued by the backend.
type DeviceStats struct {
	Buffers  int
	Writes   int
	Textures int
	Shaders  int
	Submits  int
}

// Device wraps a hal device and queue.
//
// A Device opened by this package owns its hal objects and destroys them on
// Close. A Device created with NewDevice or NewDeviceFromProvider borrows
// them. Once an upload or submission fails the device is considered lost
// and refuses further work.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	info     gputypes.AdapterInfo
	owned    bool

	shaders map[string]hal.ShaderModule
	lost    error
	stats   DeviceStats
}

// NewDevice wraps an existing device and queue. The caller keeps ownership.
func NewDevice(device hal.Device, queue hal.Queue) *Device {
	return &Device{device: device, queue: queue, shaders: make(map[string]hal.ShaderModule)}
}

// NewDeviceFromProvider borrows the hal device of a host application.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func NewDeviceFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoDevice)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoDevice)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoDevice)
	}
	d := NewDevice(device, queue)
	d.info.Name = provider.AdapterInfo().Name
	return d, nil
}

// OpenNoop opens a headless device on the noop backend. Every operation
// succeeds and nothing is drawn.
func OpenNoop() (*Device, error) {
	return openBackend(noop.API{})
}

// Open opens the first suitable adapter of a registered hal backend.
// The backend package must be imported for its side effects, for example
// github.com/gogpu/wgpu/hal/vulkan.
func Open(variant gputypes.Backend) (*Device, error) {
	b, ok := hal.GetBackend(variant)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend not registered", ErrNoDevice, variant)
	}
	return openBackend(b)
}

// OpenBest opens the most capable registered hal backend.
func OpenBest() (*Device, error) {
	b, err := hal.SelectBestBackend()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDevice, err)
	}
	return openBackend(b)
}

func openBackend(b hal.Backend) (*Device, error) {
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no adapters found", ErrNoDevice)
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	open, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("webgpu: open device: %w", err)
	}

	d := NewDevice(open.Device, open.Queue)
	d.instance = instance
	d.info = selected.Info
	d.owned = true
	scenegraph.Logger().Info("webgpu: device opened",
		"backend", b.Variant(), "adapter", selected.Info.Name)
	return d, nil
}

// HAL returns the wrapped device and queue.
func (d *Device) HAL() (hal.Device, hal.Queue) {
	if d == nil {
		return nil, nil
	}
	return d.device, d.queue
}

// AdapterInfo describes the adapter the device was opened on. It is empty
// for borrowed devices.
func (d *Device) AdapterInfo() gputypes.AdapterInfo { return d.info }

// Stats returns operation counters.
func (d *Device) Stats() DeviceStats { return d.stats }

// Err returns the error that made the device lost, or nil.
func (d *Device) Err() error {
	if d == nil {
		return nil
	}
	return d.lost
}

func (d *Device) check() error {
	if d == nil || d.device == nil || d.queue == nil {
		return ErrNoDevice
	}
	if d.lost != nil {
		return ErrDeviceLost
	}
	return nil
}

func (d *Device) markLost(op string, err error) error {
	d.lost = fmt.Errorf("%w: %s: %w", ErrDeviceLost, op, err)
	scenegraph.Logger().Warn("webgpu: device lost", "op", op, "err", err)
	return d.lost
}

// Buffer is a hal buffer with its descriptor.
type Buffer struct {
	raw   hal.Buffer
	label string
	size  uint64
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Raw returns the hal buffer.
func (b *Buffer) Raw() hal.Buffer { return b.raw }

// CreateBuffer creates a device buffer.
func (d *Device) CreateBuffer(desc *resource.BufferDescriptor) (resource.Buffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	raw, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: desc.Usage,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create buffer %s: %w", desc.Label, err)
	}
	d.stats.Buffers++
	return &Buffer{raw: raw, label: desc.Label, size: desc.Size}, nil
}

// WriteBuffer queues a write of data into buf at offset.
func (d *Device) WriteBuffer(buf resource.Buffer, offset uint64, data []byte) error {
	if err := d.check(); err != nil {
		return err
	}
	b, ok := buf.(*Buffer)
	if !ok || b == nil {
		return fmt.Errorf("webgpu: write buffer: foreign buffer %T", buf)
	}
	if err := d.queue.WriteBuffer(b.raw, offset, data); err != nil {
		return d.markLost("write "+b.label, err)
	}
	d.stats.Writes++
	return nil
}

// DestroyBuffer destroys buf.
func (d *Device) DestroyBuffer(buf resource.Buffer) {
	b, ok := buf.(*Buffer)
	if !ok || b == nil || d == nil || d.device == nil {
		return
	}
	d.device.DestroyBuffer(b.raw)
}

// Target is a 2D texture with a default view.
type Target struct {
	Texture hal.Texture
	View    hal.TextureView
	Format  gputypes.TextureFormat
	Width   uint32
	Height  uint32
}

// CreateTarget creates a 2D texture and its view.
func (d *Device) CreateTarget(label string, width, height uint32, format gputypes.TextureFormat, usage gputypes.TextureUsage) (*Target, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create texture %s: %w", label, err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + " view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("webgpu: create view %s: %w", label, err)
	}
	d.stats.Textures++
	return &Target{Texture: tex, View: view, Format: format, Width: width, Height: height}, nil
}

// DestroyTarget destroys t and its view.
func (d *Device) DestroyTarget(t *Target) {
	if t == nil || d == nil || d.device == nil {
		return
	}
	d.device.DestroyTextureView(t.View)
	d.device.DestroyTexture(t.Texture)
}

// WriteTarget uploads tightly packed RGBA8 pixels covering all of t.
func (d *Device) WriteTarget(t *Target, pixels []byte) error {
	if err := d.check(); err != nil {
		return err
	}
	err := d.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.Texture, Aspect: gputypes.TextureAspectAll},
		pixels,
		&hal.ImageDataLayout{BytesPerRow: 4 * t.Width, RowsPerImage: t.Height},
		&hal.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return d.markLost("write texture", err)
	}
	d.stats.Writes++
	return nil
}

// newEncoder creates a command encoder and begins recording.
func (d *Device) newEncoder(label string) (hal.CommandEncoder, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	enc, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("webgpu: create command encoder: %w", err)
	}
	if err := enc.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("webgpu: begin encoding: %w", err)
	}
	return enc, nil
}

// submit finishes enc, submits it and waits for the queue to drain.
func (d *Device) submit(enc hal.CommandEncoder) error {
	cmd, err := enc.EndEncoding()
	if err != nil {
		return fmt.Errorf("webgpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmd)

	if _, err := d.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return d.markLost("submit", err)
	}
	if err := d.device.WaitIdle(); err != nil {
		return d.markLost("wait idle", err)
	}
	d.stats.Submits++
	return nil
}

// Close destroys cached shader modules and, for devices opened by this
// package, the device itself.
func (d *Device) Close() {
	if d == nil || d.device == nil {
		return
	}
	for label, m := range d.shaders {
		d.device.DestroyShaderModule(m)
		delete(d.shaders, label)
	}
	if d.owned {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device, d.queue, d.instance = nil, nil, nil
}

var _ resource.Device = (*Device)(nil)
