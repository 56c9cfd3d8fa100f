// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"fmt"
	"sync"
)

// PassID identifies a pass.
type PassID uint16

// Standard passes, in default frame order.
const (
	PassBuild PassID = iota
	PassQuery
	PassCameraLight
	PassOpaque
	PassTranslucent
	PassVolumeDepthRange
	PassOverlay

	// PassUser is the first ID handed out by RegisterPass.
	PassUser PassID = 0x100
)

type passInfo struct {
	name string
	draw bool
}

var (
	passMu    sync.RWMutex
	passInfos = map[PassID]passInfo{
		PassBuild:            {"build", false},
		PassQuery:            {"query", false},
		PassCameraLight:      {"cameraLight", false},
		PassOpaque:           {"opaque", true},
		PassTranslucent:      {"translucent", true},
		PassVolumeDepthRange: {"volumeDepthRange", true},
		PassOverlay:          {"overlay", true},
	}
	passByName = map[string]PassID{}
	nextPass   = PassUser
)

// RegisterPass returns the ID of a custom pass named name, allocating it on
// first use. Draw passes move nodes into StateBoundForFrame while they run.
// Nodes take part in custom passes by implementing [CustomPasser].
func RegisterPass(name string, draw bool) PassID {
	passMu.Lock()
	defer passMu.Unlock()
	if id, ok := passByName[name]; ok {
		return id
	}
	id := nextPass
	nextPass++
	passInfos[id] = passInfo{name: name, draw: draw}
	passByName[name] = id
	return id
}

func (id PassID) info() (passInfo, bool) {
	passMu.RLock()
	defer passMu.RUnlock()
	info, ok := passInfos[id]
	return info, ok
}

func (id PassID) String() string {
	if info, ok := id.info(); ok {
		return info.name
	}
	return fmt.Sprintf("PassID(%d)", uint16(id))
}

// IsDraw reports whether the pass binds nodes for drawing.
func (id PassID) IsDraw() bool {
	info, _ := id.info()
	return info.draw
}

// DefaultSequence returns the standard frame: build, query, camera and
// light update, opaque, translucent, volume depth range, overlay.
func DefaultSequence() []PassID {
	return []PassID{
		PassBuild,
		PassQuery,
		PassCameraLight,
		PassOpaque,
		PassTranslucent,
		PassVolumeDepthRange,
		PassOverlay,
	}
}

// Counter keys used by the standard nodes.
const (
	// CounterVolumes counts volume nodes seen by the query pass.
	CounterVolumes = "volumes"
)

// Pass is one traversal of the tree. Its counters are visible to every
// node visited during the pass and are discarded with it.
type Pass struct {
	ID      PassID
	Visited int

	counters map[string]int
}

// NewPass returns a pass with empty counters.
func NewPass(id PassID) *Pass {
	return &Pass{ID: id}
}

// Name returns the pass name.
func (p *Pass) Name() string { return p.ID.String() }

// Increment adds one to counter key.
func (p *Pass) Increment(key string) { p.Add(key, 1) }

// Add adds delta to counter key.
func (p *Pass) Add(key string, delta int) {
	if p.counters == nil {
		p.counters = make(map[string]int)
	}
	p.counters[key] += delta
}

// Count returns counter key.
func (p *Pass) Count(key string) int { return p.counters[key] }

// Per-pass callbacks. prepass is true on the way down and false on the way
// back up. A node that does not implement a pass is skipped for it, but its
// children are still traversed.
type (
	// BuildPasser overrides the default build, which reconciles the node's
	// children against Renderable().Children().
	BuildPasser interface {
		BuildPass(prepass bool, p *Pass) error
	}

	QueryPasser interface {
		QueryPass(prepass bool, p *Pass) error
	}

	CameraLightPasser interface {
		CameraLightPass(prepass bool, p *Pass) error
	}

	OpaquePasser interface {
		OpaquePass(prepass bool, p *Pass) error
	}

	TranslucentPasser interface {
		TranslucentPass(prepass bool, p *Pass) error
	}

	VolumeDepthRangePasser interface {
		VolumeDepthRangePass(prepass bool, p *Pass) error
	}

	OverlayPasser interface {
		OverlayPass(prepass bool, p *Pass) error
	}

	// CustomPasser receives every pass registered with RegisterPass.
	CustomPasser interface {
		CustomPass(prepass bool, p *Pass) error
	}
)

// Traverser lets a node replace the default traversal of its subtree. When
// handled is true the engine neither calls the node's pass callbacks nor
// descends into its children.
type Traverser interface {
	TraversePass(p *Pass) (handled bool, err error)
}

func dispatch(n Interface, p *Pass, prepass bool) error {
	switch p.ID {
	case PassBuild:
		if c, ok := n.(BuildPasser); ok {
			return c.BuildPass(prepass, p)
		}
		if prepass {
			b := n.Base()
			b.ReconcileChildren(b.renderable.Children())
		}
	case PassQuery:
		if c, ok := n.(QueryPasser); ok {
			return c.QueryPass(prepass, p)
		}
	case PassCameraLight:
		if c, ok := n.(CameraLightPasser); ok {
			return c.CameraLightPass(prepass, p)
		}
	case PassOpaque:
		if c, ok := n.(OpaquePasser); ok {
			return c.OpaquePass(prepass, p)
		}
	case PassTranslucent:
		if c, ok := n.(TranslucentPasser); ok {
			return c.TranslucentPass(prepass, p)
		}
	case PassVolumeDepthRange:
		if c, ok := n.(VolumeDepthRangePasser); ok {
			return c.VolumeDepthRangePass(prepass, p)
		}
	case PassOverlay:
		if c, ok := n.(OverlayPasser); ok {
			return c.OverlayPass(prepass, p)
		}
	default:
		if c, ok := n.(CustomPasser); ok {
			return c.CustomPass(prepass, p)
		}
	}
	return nil
}
