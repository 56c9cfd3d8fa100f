// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package viewnode

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/scenegraph"
)

// Constructor creates an empty view node. The factory initializes the
// embedded [Node] after the constructor returns.
type Constructor func() Interface

// Factory maps type tags to view node constructors.
//
// Each backend owns one Factory, so backends and tests keep isolated
// registries. A Factory is safe for concurrent use.
type Factory struct {
	mu    sync.RWMutex
	ctors map[scenegraph.TypeTag]Constructor

	created  atomic.Int64
	released atomic.Int64
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{ctors: make(map[scenegraph.TypeTag]Constructor)}
}

// Register installs ctor for tag. Registering a tag again replaces the
// previous constructor. A nil ctor removes the registration.
func (f *Factory) Register(tag scenegraph.TypeTag, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ctor == nil {
		delete(f.ctors, tag)
		return
	}
	if _, ok := f.ctors[tag]; ok {
		scenegraph.Logger().Warn("viewnode: constructor replaced", "tag", tag)
	} else {
		scenegraph.Logger().Debug("viewnode: constructor registered", "tag", tag)
	}
	f.ctors[tag] = ctor
}

// Lookup returns the constructor registered for tag.
func (f *Factory) Lookup(tag scenegraph.TypeTag) (Constructor, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ctor, ok := f.ctors[tag]
	return ctor, ok
}

// Tags returns the registered tags in ascending order.
func (f *Factory) Tags() []scenegraph.TypeTag {
	f.mu.RLock()
	tags := make([]scenegraph.TypeTag, 0, len(f.ctors))
	for tag := range f.ctors {
		tags = append(tags, tag)
	}
	f.mu.RUnlock()
	slices.Sort(tags)
	return tags
}

// Resolve returns the most specific registered tag of r and its constructor.
func (f *Factory) Resolve(r scenegraph.Renderable) (scenegraph.TypeTag, Constructor, bool) {
	if r == nil {
		return scenegraph.TagNone, nil, false
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, tag := range r.TypeTags() {
		if ctor, ok := f.ctors[tag]; ok {
			return tag, ctor, true
		}
	}
	return scenegraph.TagNone, nil, false
}

// Create builds the view node for r as a child of parent, which may be nil
// for a root. The node is left unattached: callers append it to the parent
// themselves, as reconciliation does.
func (f *Factory) Create(r scenegraph.Renderable, parent *Node) (Interface, error) {
	if r == nil {
		return nil, ErrNilRenderable
	}
	tag, ctor, ok := f.Resolve(r)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrLookupMiss, r.TypeTags())
	}
	node := ctor()
	if node == nil || node.Base() == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilNode, tag)
	}
	node.Base().init(node, r, parent, tag, f)
	f.created.Add(1)
	return node, nil
}

// NewRoot creates the root node for r and attaches the backend context
// shared by every node in the tree.
func (f *Factory) NewRoot(r scenegraph.Renderable, context any) (Interface, error) {
	root, err := f.Create(r, nil)
	if err != nil {
		return nil, err
	}
	b := root.Base()
	b.context = context
	b.state = StateBuilt
	return root, nil
}

// Stats returns how many nodes the factory has created and how many of them
// have been released.
func (f *Factory) Stats() (created, released int64) {
	return f.created.Load(), f.released.Load()
}
