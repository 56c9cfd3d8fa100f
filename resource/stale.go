// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "github.com/gogpu/scenegraph"

// Stale reports whether any watched version is newer than last.
func Stale(last scenegraph.Version, watched ...scenegraph.Version) bool {
	return scenegraph.MaxVersion(watched...).NewerThan(last)
}

// Synced records when derived state was last computed.
type Synced struct {
	version scenegraph.Version
}

// Version returns the version of the last recomputation, 0 if never.
func (s *Synced) Version() scenegraph.Version { return s.version }

// SyncIfStale calls recompute when a watched version is newer than the
// last recomputation and reports whether it did.
func (s *Synced) SyncIfStale(recompute func(), watched ...scenegraph.Version) bool {
	if !Stale(s.version, watched...) {
		return false
	}
	recompute()
	s.version = scenegraph.NextVersion()
	return true
}

// Invalidate forces the next SyncIfStale with any non-zero watched version
// to recompute.
func (s *Synced) Invalidate() { s.version = 0 }
