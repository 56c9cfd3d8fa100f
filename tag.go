package scenegraph

import (
	"fmt"
	"sync"
)

// TypeTag identifies the type of a renderable or view node.
//
// Renderables report a chain of tags from most to least specific (an actor
// reports TagActor, TagProp, TagObject). Node factories resolve a renderable
// by walking that chain, and view nodes compare tags when searching for an
// ancestor of a given type.
type TypeTag uint32

// Built-in tags. Values below TagUser are reserved.
const (
	// TagNone is the zero tag; it never matches a registration.
	TagNone TypeTag = iota

	// TagObject is the root of every tag chain.
	TagObject

	// TagRenderWindow identifies the top-level drawing surface.
	TagRenderWindow

	// TagRenderer identifies a viewport that owns a camera, lights and props.
	TagRenderer

	// TagCamera identifies a camera.
	TagCamera

	// TagLight identifies a light.
	TagLight

	// TagProp identifies anything that can be placed in a renderer.
	TagProp

	// TagActor identifies a surface geometry prop.
	TagActor

	// TagVolume identifies a volumetric prop.
	TagVolume

	// TagTextActor identifies a 2D text annotation drawn in the overlay pass.
	TagTextActor

	// TagMapper identifies the data-to-geometry adapter of an actor.
	TagMapper

	// TagVolumeMapper identifies the data adapter of a volume.
	TagVolumeMapper

	// TagUser is the first tag available to NewTypeTag.
	TagUser TypeTag = 0x100
)

var builtinTagNames = map[TypeTag]string{
	TagNone:         "None",
	TagObject:       "Object",
	TagRenderWindow: "RenderWindow",
	TagRenderer:     "Renderer",
	TagCamera:       "Camera",
	TagLight:        "Light",
	TagProp:         "Prop",
	TagActor:        "Actor",
	TagVolume:       "Volume",
	TagTextActor:    "TextActor",
	TagMapper:       "Mapper",
	TagVolumeMapper: "VolumeMapper",
}

// Registry of user tags.
var (
	userTagsMu sync.RWMutex
	userTags   = make(map[TypeTag]string)
	userByName = make(map[string]TypeTag)
	nextTag    = TagUser
)

// NewTypeTag returns the tag registered under name, minting a new one on
// first use. Calling NewTypeTag twice with the same name returns the same tag.
func NewTypeTag(name string) TypeTag {
	userTagsMu.Lock()
	defer userTagsMu.Unlock()
	if t, ok := userByName[name]; ok {
		return t
	}
	t := nextTag
	nextTag++
	userTags[t] = name
	userByName[name] = t
	return t
}

// String returns the tag name.
func (t TypeTag) String() string {
	if name, ok := builtinTagNames[t]; ok {
		return name
	}
	userTagsMu.RLock()
	name, ok := userTags[t]
	userTagsMu.RUnlock()
	if ok {
		return name
	}
	return fmt.Sprintf("TypeTag(%d)", uint32(t))
}

// IsBuiltin reports whether t is one of the predefined tags.
func (t TypeTag) IsBuiltin() bool {
	return t < TagUser
}

// HasTag reports whether tag occurs in the tag chain of r.
func HasTag(r Renderable, tag TypeTag) bool {
	if r == nil {
		return false
	}
	for _, t := range r.TypeTags() {
		if t == tag {
			return true
		}
	}
	return false
}
