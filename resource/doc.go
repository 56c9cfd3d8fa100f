// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package resource keeps derived per-node state in sync with the
// renderable graph without redundant recomputation or uploads.
//
// Every synced resource remembers the version at which it was last
// computed or sent. It is refreshed only when one of the versions it
// watches is strictly greater:
//
//	ubo.SetMat4("WCVCMatrix", view) // marks dirty only if bytes change
//	ubo.SendIfNeeded(dev)           // uploads at most once per change
//
// [KeyMatrices] caches model matrices, [UniformBuffer] lays out a WGSL
// uniform block and uploads it through a [Device].
package resource
