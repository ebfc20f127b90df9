package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
)

// Environment is the per-frame external state: simulation time for animated
// textures, the sun, and the sky gradient. A render pass copies it once and
// uses that copy for every pixel.
type Environment struct {
	Time      float64 // Simulation time in seconds, drives animated textures
	TimeOfDay float64 // Fraction of the day in [0,1), 0.5 is noon

	SunDirection core.Vec3 // Unit direction from the scene toward the sun
	SunColor     core.Vec3
	SunIntensity float64 // Zero disables the sun

	Zenith  core.Vec3 // Sky colour straight up
	Horizon core.Vec3 // Sky colour at the horizon
	Ground  core.Vec3 // Colour looking straight down
	Ambient core.Vec3 // Constant light added to every lit surface
}

// UniformSky returns an environment whose sky is a single colour, with no sun
// and no ambient light
func UniformSky(color core.Vec3) Environment {
	return Environment{
		Zenith:  color,
		Horizon: color,
		Ground:  color,
	}
}

// Sky returns the background colour seen along dir
func (e *Environment) Sky(dir core.Vec3) core.Vec3 {
	d := dir.Normalize()
	if d.IsZero() || !d.IsFinite() {
		return e.Horizon
	}
	if d.Y >= 0 {
		return e.Horizon.Lerp(e.Zenith, math.Pow(d.Y, 0.6))
	}
	return e.Horizon.Lerp(e.Ground, math.Pow(-d.Y, 0.8))
}

// Sun returns the sun as a directional light, or false when it is below the
// horizon or switched off
func (e *Environment) Sun() (lights.Light, bool) {
	if e.SunIntensity <= 0 || e.SunDirection.IsZero() || !e.SunDirection.IsFinite() {
		return lights.Light{}, false
	}
	return lights.NewDirectionalLight(e.SunDirection.Negate(), e.SunColor, e.SunIntensity), true
}

// WithTime returns a copy with the simulation time replaced
func (e Environment) WithTime(t float64) Environment {
	e.Time = t
	return e
}
