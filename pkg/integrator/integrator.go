package integrator

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Integrator computes the colour seen along a ray
type Integrator interface {
	// Shade returns the colour for ray. depth counts the bounces taken so far
	// and is 0 for camera rays. env carries the per-frame time and sky.
	Shade(ray core.Ray, sc *scene.Scene, env *scene.Environment, depth int) core.Vec3
}
