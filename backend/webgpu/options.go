// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/scenegraph/stabilize"
	"github.com/gogpu/scenegraph/viewnode"
)

// Option configures a view created by NewView.
//
// Example:
//
//	// Headless view on the noop device
//	dev, _ := webgpu.OpenNoop()
//	view, _ := webgpu.NewView(win, webgpu.WithDevice(dev))
//
//	// Borrow the device of a host application
//	view, _ := webgpu.NewView(win, webgpu.WithDeviceProvider(app))
type Option func(*options)

type options struct {
	device    *Device
	provider  gpucontext.DeviceProvider
	passes    []viewnode.PassID
	threshold float64
	factory   *viewnode.Factory
	format    gputypes.TextureFormat
}

func defaultOptions() options {
	return options{
		threshold: stabilize.DefaultThreshold,
		format:    gputypes.TextureFormatRGBA8Unorm,
	}
}

// WithDevice renders on d. The view does not close d.
func WithDevice(d *Device) Option {
	return func(o *options) {
		o.device = d
	}
}

// WithHALDevice renders on an existing hal device and queue.
func WithHALDevice(device hal.Device, queue hal.Queue) Option {
	return func(o *options) {
		o.device = NewDevice(device, queue)
	}
}

// WithDeviceProvider renders on the device of a host application, such as
// a gogpu window. It is ignored when a device is also given.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(o *options) {
		o.provider = p
	}
}

// WithPasses replaces the default pass sequence.
func WithPasses(ids ...viewnode.PassID) Option {
	return func(o *options) {
		o.passes = ids
	}
}

// WithRecenterThreshold sets the ratio of camera travel to clipping range
// span above which renderers move their stabilized origin. The default is
// stabilize.DefaultThreshold.
func WithRecenterThreshold(t float64) Option {
	return func(o *options) {
		o.threshold = t
	}
}

// WithFactory builds the view tree with f instead of the package factory.
// f must map TagRenderWindow to a constructor returning *Window.
func WithFactory(f *viewnode.Factory) Option {
	return func(o *options) {
		o.factory = f
	}
}

// WithColorFormat sets the format of the color target. The default is
// RGBA8Unorm.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}
