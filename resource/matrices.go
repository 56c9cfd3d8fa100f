// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

// TransformSource provides a model matrix.
type TransformSource interface {
	ComputeMatrix()
	Matrix() mgl64.Mat4
	IsIdentity() bool
}

// KeyMatrices caches the model matrices of a prop.
//
// Matrices are column major, which is the layout WGSL expects, so they are
// uploaded without transposition.
type KeyMatrices struct {
	Synced

	// MCWC maps model to world coordinates.
	MCWC mgl64.Mat4

	// MCSC maps model to stabilized coordinates.
	MCSC mgl64.Mat4

	// Normal maps model normals to world normals.
	Normal mgl64.Mat3
}

// SyncIfStale recomputes the matrices from src when a watched version is
// newer than the last computation.
func (k *KeyMatrices) SyncIfStale(src TransformSource, watched ...scenegraph.Version) bool {
	return k.SyncStabilized(src, mgl64.Vec3{}, watched...)
}

// SyncStabilized is SyncIfStale for a scene stabilized around center.
// Callers must include the stabilization version in watched.
func (k *KeyMatrices) SyncStabilized(src TransformSource, center mgl64.Vec3, watched ...scenegraph.Version) bool {
	return k.Synced.SyncIfStale(func() {
		src.ComputeMatrix()
		k.MCWC = src.Matrix()
		k.MCSC = mgl64.Translate3D(-center[0], -center[1], -center[2]).Mul4(k.MCWC)
		if src.IsIdentity() {
			k.Normal = mgl64.Ident3()
		} else {
			k.Normal = NormalMatrix(k.MCWC)
		}
	}, watched...)
}

// NormalMatrix returns the inverse transpose of the upper 3x3 of m.
// A singular m yields the identity.
func NormalMatrix(m mgl64.Mat4) mgl64.Mat3 {
	if m.Det() == 0 {
		return mgl64.Ident3()
	}
	return mgl64.Mat4Normal(m)
}

// Mat4ToFloat32 narrows m for upload.
func Mat4ToFloat32(m mgl64.Mat4) []float32 {
	out := make([]float32, 16)
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Mat3ToFloat32 widens m to a mat4x4 and narrows it for upload, matching
// how normal matrices are stored in uniform blocks.
func Mat3ToFloat32(m mgl64.Mat3) []float32 {
	return Mat4ToFloat32(m.Mat4())
}
