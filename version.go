package scenegraph

import "sync/atomic"

// Version is a modification counter. Versions are drawn from a single
// process-wide monotonic clock, so versions of different entities can be
// compared directly: a derived value computed at version v is stale as soon
// as any of its sources reports a version strictly greater than v.
//
// The zero Version precedes every version handed out by NextVersion.
type Version uint64

var clock atomic.Uint64

// NextVersion advances the process-wide clock and returns the new value.
func NextVersion() Version {
	return Version(clock.Add(1))
}

// CurrentVersion returns the latest version handed out by NextVersion
// without advancing the clock.
func CurrentVersion() Version {
	return Version(clock.Load())
}

// NewerThan reports whether v is strictly greater than other.
// Equal versions are never newer.
func (v Version) NewerThan(other Version) bool {
	return v > other
}

// MaxVersion returns the greatest of the given versions, or zero if none.
func MaxVersion(versions ...Version) Version {
	var m Version
	for _, v := range versions {
		if v > m {
			m = v
		}
	}
	return m
}

// Stamp records the version at which an entity was last modified.
// The zero Stamp has never been modified.
type Stamp struct {
	v Version
}

// Modified stamps s with a fresh version.
func (s *Stamp) Modified() {
	s.v = NextVersion()
}

// Version returns the version of the last modification.
func (s *Stamp) Version() Version {
	return s.v
}
