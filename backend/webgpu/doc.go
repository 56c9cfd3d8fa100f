// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package webgpu is the GPU view backend, built on the gogpu/wgpu hal.
//
// NewView builds a view tree for a window. Each frame runs the standard
// passes over it:
//
//   - Build reconciles renderers, cameras and props with the scene and
//     moves the stabilized frame when the camera strays too far.
//   - CameraLight uploads the camera uniforms of each renderer.
//   - Opaque, Translucent and VolumeDepthRange each open one render pass
//     per renderer. Opaque props draw first, then the background is filled
//     behind them. A renderer whose props held no visible volume in the
//     Query pass skips VolumeDepthRange.
//   - Overlay draws text labels with the depth buffer read only. Labels
//     are shaped with HarfBuzz (go-text/typesetting), run by run in bidi
//     display order, and their glyph outlines filled on the CPU.
//
// The frame is submitted once, after the last pass. Uniform blocks are
// written only when a watched version is newer than the last upload.
//
// Geometry is uploaded in stabilized coordinates: model matrices are
// composed with a translation to the stabilized center in float64 before
// being narrowed to float32, so scenes far from the origin keep their
// precision.
//
// A device comes from OpenNoop, Open, OpenBest, a hal device pair
// (WithHALDevice) or a gpucontext.DeviceProvider. When the device is lost,
// Render keeps failing with ErrDeviceLost until Rebuild is given a working
// device.
//
// Importing the package registers the "webgpu" backend.
package webgpu
