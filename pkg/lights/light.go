package lights

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// LightType distinguishes positional from directional lights
type LightType string

const (
	LightTypePoint       LightType = "point"
	LightTypeDirectional LightType = "directional"
)

// Light is a point or directional light. Point lights do not fall off with
// distance; Intensity scales Color directly.
type Light struct {
	Type      LightType
	Position  core.Vec3 // Used by point lights
	Direction core.Vec3 // Unit direction the light travels, used by directional lights
	Color     core.Vec3
	Intensity float64
}

// LightSample describes how a light reaches a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction FROM the shading point TO the light
	Distance  float64   // Distance to the light, +Inf for directional lights
	Radiance  core.Vec3 // Colour times intensity arriving at the point
}

// NewPointLight creates a light radiating from position
func NewPointLight(position, color core.Vec3, intensity float64) Light {
	return Light{Type: LightTypePoint, Position: position, Color: color, Intensity: intensity}
}

// NewDirectionalLight creates a light arriving from infinitely far away,
// travelling along direction
func NewDirectionalLight(direction, color core.Vec3, intensity float64) Light {
	return Light{Type: LightTypeDirectional, Direction: direction.Normalize(), Color: color, Intensity: intensity}
}

// Illuminate returns the direction, distance and radiance of the light as seen
// from point. ok is false when the light cannot contribute (zero intensity,
// point light located at the shading point, or non-finite parameters).
func (l *Light) Illuminate(point core.Vec3) (LightSample, bool) {
	if l.Intensity <= 0 || math.IsNaN(l.Intensity) || math.IsInf(l.Intensity, 0) {
		return LightSample{}, false
	}
	radiance := l.Color.Multiply(l.Intensity)

	switch l.Type {
	case LightTypeDirectional:
		dir := l.Direction.Negate().Normalize()
		if dir.IsZero() || !dir.IsFinite() {
			return LightSample{}, false
		}
		return LightSample{Direction: dir, Distance: math.Inf(1), Radiance: radiance}, true
	default:
		toLight := l.Position.Subtract(point)
		dist := toLight.Length()
		if dist == 0 || math.IsNaN(dist) || math.IsInf(dist, 0) {
			return LightSample{}, false
		}
		return LightSample{Direction: toLight.Multiply(1 / dist), Distance: dist, Radiance: radiance}, true
	}
}

// MaxRadiance returns the brightest channel the light can deliver
func (l *Light) MaxRadiance() float64 {
	return l.Color.Multiply(max(0, l.Intensity)).MaxComponent()
}
