// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "github.com/gogpu/gputypes"

// BufferDescriptor describes a device buffer.
type BufferDescriptor struct {
	Label string
	Size  uint64
	Usage gputypes.BufferUsage
}

// Buffer is a device buffer handle.
type Buffer interface {
	Label() string
	Size() uint64
}

// Device is the subset of a GPU device used to upload synced resources.
type Device interface {
	CreateBuffer(desc *BufferDescriptor) (Buffer, error)
	WriteBuffer(buf Buffer, offset uint64, data []byte) error
	DestroyBuffer(buf Buffer)
}
