package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gogpu/scenegraph"
)

var lightTags = []scenegraph.TypeTag{scenegraph.TagLight, scenegraph.TagObject}

// Light is a directional light. New lights are on.
type Light struct {
	Object
	on        bool
	color     mgl64.Vec3
	intensity float64
	direction mgl64.Vec3
}

// NewLight returns a white headlight that is switched on.
func NewLight() *Light {
	return &Light{
		Object:    newObject(),
		on:        true,
		color:     mgl64.Vec3{1, 1, 1},
		intensity: 1,
		direction: mgl64.Vec3{0, 0, -1},
	}
}

// Switch reports whether the light is on.
func (l *Light) Switch() bool { return l.on }

// SetSwitch turns the light on or off.
func (l *Light) SetSwitch(on bool) {
	if l.on == on {
		return
	}
	l.on = on
	l.Modified()
}

// Color returns the RGB color.
func (l *Light) Color() mgl64.Vec3 { return l.color }

// SetColor sets the RGB color.
func (l *Light) SetColor(c mgl64.Vec3) {
	if l.color == c {
		return
	}
	l.color = c
	l.Modified()
}

// Intensity returns the scalar intensity.
func (l *Light) Intensity() float64 { return l.intensity }

// SetIntensity sets the scalar intensity.
func (l *Light) SetIntensity(i float64) {
	if l.intensity == i {
		return
	}
	l.intensity = i
	l.Modified()
}

// Direction returns the light direction in view coordinates.
func (l *Light) Direction() mgl64.Vec3 { return l.direction }

// Children returns nil; lights are leaves.
func (l *Light) Children() []scenegraph.Renderable { return nil }

// TypeTags returns Light, Object.
func (l *Light) TypeTags() []scenegraph.TypeTag { return lightTags }

var _ scenegraph.Light = (*Light)(nil)
