// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package webgpu

import "errors"

var (
	// ErrNoDevice is returned when a node needs a device resource and the
	// view has no usable device.
	ErrNoDevice = errors.New("webgpu: no device")

	// ErrDeviceLost is returned once an upload or submission has failed.
	// Every later frame fails with it until the view is rebuilt.
	ErrDeviceLost = errors.New("webgpu: device lost")

	// ErrNoEncoder is returned when a draw pass runs outside a frame.
	ErrNoEncoder = errors.New("webgpu: no command encoder")

	// ErrNotRenderer is returned when a node that must live below a
	// renderer is reconciled elsewhere.
	ErrNotRenderer = errors.New("webgpu: no renderer ancestor")
)
