// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stabilize keeps a floating reference frame near the camera so
// geometry far from the origin can be uploaded in single precision.
//
// Vertex data is stored relative to a stabilized center. Moving that center
// forces every position dependent buffer to be rebased, so the [Controller]
// recenters only when the view frustum center has drifted further than
// Threshold times the depth of the clipping range.
package stabilize

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

// DefaultThreshold is the drift, in clipping range spans, that triggers a
// recenter.
const DefaultThreshold = 20.0

// Config configures a Controller.
type Config struct {
	// Threshold is the drift over clipping span ratio above which the
	// center moves. Zero or negative means DefaultThreshold.
	Threshold float64
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Threshold: DefaultThreshold}
}

// Controller tracks the stabilized center of one renderer.
type Controller struct {
	threshold float64
	center    mgl64.Vec3
	stamp     scenegraph.Stamp
	recenters int
}

// New returns a controller centered at the origin.
func New(cfg Config) *Controller {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	return &Controller{threshold: cfg.Threshold}
}

// Threshold returns the configured threshold.
func (c *Controller) Threshold() float64 { return c.threshold }

// SetThreshold changes the threshold. Values <= 0 restore the default.
func (c *Controller) SetThreshold(t float64) {
	if t <= 0 {
		t = DefaultThreshold
	}
	c.threshold = t
}

// Candidate returns the center of the view frustum for a camera at pos
// looking along dop with the given clipping range.
func Candidate(pos, dop mgl64.Vec3, near, far float64) mgl64.Vec3 {
	return pos.Add(dop.Mul(0.5 * (near + far)))
}

// Update moves the center to the frustum center when the drift exceeds the
// threshold and reports whether it did. A clipping range with far <= near
// never recenters.
func (c *Controller) Update(pos, dop mgl64.Vec3, near, far float64) bool {
	span := far - near
	if span <= 0 {
		// An unset or inverted range gives no scale to measure drift by;
		// dividing by it would recenter on any drift.
		return false
	}
	candidate := Candidate(pos, dop, near, far)
	drift := candidate.Sub(c.center).Len()
	if drift/span <= c.threshold {
		return false
	}
	c.center = candidate
	c.stamp.Modified()
	c.recenters++
	scenegraph.Logger().Debug("stabilize: recentered",
		"center", candidate, "drift", drift, "span", span)
	return true
}

// UpdateFromCamera is Update with the state of cam.
func (c *Controller) UpdateFromCamera(cam scenegraph.Camera) bool {
	near, far := cam.ClippingRange()
	return c.Update(cam.Position(), cam.DirectionOfProjection(), near, far)
}

// Center returns the current stabilized center.
func (c *Controller) Center() mgl64.Vec3 { return c.center }

// Version returns the version of the last recenter, 0 if never.
func (c *Controller) Version() scenegraph.Version { return c.stamp.Version() }

// Recenters returns how many times the center moved.
func (c *Controller) Recenters() int { return c.recenters }

// WorldToStabilized returns the translation from world to stabilized
// coordinates.
func (c *Controller) WorldToStabilized() mgl64.Mat4 {
	return mgl64.Translate3D(-c.center[0], -c.center[1], -c.center[2])
}

// StabilizedToWorld returns the inverse of WorldToStabilized.
func (c *Controller) StabilizedToWorld() mgl64.Mat4 {
	return mgl64.Translate3D(c.center[0], c.center[1], c.center[2])
}

// Rebase returns p in stabilized coordinates.
func (c *Controller) Rebase(p mgl64.Vec3) mgl64.Vec3 { return p.Sub(c.center) }
