package integrator

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// DefaultMaxDepth is the number of reflection/refraction bounces allowed
	DefaultMaxDepth = 4
	// DefaultShadowBias offsets secondary ray origins off the surface
	DefaultShadowBias = 1e-4
)

// WhittedIntegrator implements recursive ray tracing: direct Phong lighting
// with hard shadows plus perfect mirror reflection and refraction
type WhittedIntegrator struct {
	MaxDepth   int
	ShadowBias float64
}

// NewWhittedIntegrator creates an integrator, substituting defaults for
// negative depth or non-positive bias
func NewWhittedIntegrator(maxDepth int, shadowBias float64) *WhittedIntegrator {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	if shadowBias <= 0 || math.IsNaN(shadowBias) {
		shadowBias = DefaultShadowBias
	}
	return &WhittedIntegrator{MaxDepth: maxDepth, ShadowBias: shadowBias}
}

// Shade returns the colour seen along ray, each channel in [0,1]
func (w *WhittedIntegrator) Shade(ray core.Ray, sc *scene.Scene, env *scene.Environment, depth int) core.Vec3 {
	if env == nil {
		env = &scene.Environment{}
	}
	if sc == nil || sc.BVH == nil || !ray.IsValid() {
		return finite(env.Sky(ray.Direction))
	}

	hit, isHit := sc.BVH.Intersect(ray, ray.TMax)
	if !isHit {
		return finite(env.Sky(ray.Direction))
	}

	mat := sc.Material(hit.Material)
	albedo := mat.Albedo(sc.Textures, hit.UV, env.Time, hit.Material)
	ambient := env.Ambient.MultiplyVec(albedo)

	if mat.Kind == material.KindEmissive {
		return finite(mat.Emission.Add(ambient))
	}

	local := ambient.Add(mat.Emission).Add(w.directLighting(ray, &hit, mat, albedo, sc, env))
	if depth >= w.MaxDepth {
		return finite(local)
	}

	reflectivity, transparency, localWeight := mat.Weights()
	color := local.Multiply(localWeight)
	if reflectivity > 0 {
		reflected := w.reflectRay(ray, &hit)
		color = color.Add(w.Shade(reflected, sc, env, depth+1).Multiply(reflectivity))
	}
	if transparency > 0 {
		refracted := w.refractRay(ray, &hit, mat.IOR())
		color = color.Add(w.Shade(refracted, sc, env, depth+1).Multiply(transparency))
	}
	return finite(color)
}

// directLighting sums the diffuse and specular contribution of every
// unoccluded light, including the environment sun
func (w *WhittedIntegrator) directLighting(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, albedo core.Vec3, sc *scene.Scene, env *scene.Environment) core.Vec3 {
	var total core.Vec3
	for i := range sc.Lights {
		total = total.Add(w.lightContribution(ray, hit, mat, albedo, &sc.Lights[i], sc))
	}
	if sun, ok := env.Sun(); ok {
		total = total.Add(w.lightContribution(ray, hit, mat, albedo, &sun, sc))
	}
	return total
}

// lightContribution returns the Phong term for one light, or zero when the
// light is behind the surface or blocked
func (w *WhittedIntegrator) lightContribution(ray core.Ray, hit *geometry.HitRecord, mat *material.Material, albedo core.Vec3, light *lights.Light, sc *scene.Scene) core.Vec3 {
	sample, ok := light.Illuminate(hit.Point)
	if !ok {
		return core.Vec3{}
	}
	cosine := hit.Normal.Dot(sample.Direction)
	if cosine <= 0 {
		return core.Vec3{}
	}

	// Any primitive between the point and the light blocks it completely
	origin := hit.Point.Add(hit.Normal.Multiply(w.ShadowBias))
	shadowRay := core.NewRay(origin, sample.Direction)
	if sc.BVH.AnyHit(shadowRay, sample.Distance-w.ShadowBias) {
		return core.Vec3{}
	}

	diffuse := albedo.MultiplyVec(sample.Radiance).Multiply(cosine * mat.DiffuseWeight)

	var specular core.Vec3
	if mat.SpecularWeight > 0 {
		mirrored := sample.Direction.Negate().Reflect(hit.Normal)
		if rv := mirrored.Dot(ray.Direction.Negate()); rv > 0 {
			specular = sample.Radiance.Multiply(math.Pow(rv, mat.SpecularExponent) * mat.SpecularWeight)
		}
	}
	return diffuse.Add(specular)
}

// reflectRay mirrors the incoming ray about the surface normal
func (w *WhittedIntegrator) reflectRay(ray core.Ray, hit *geometry.HitRecord) core.Ray {
	dir := ray.Direction.Reflect(hit.Normal)
	return core.NewRay(hit.Point.Add(hit.Normal.Multiply(w.ShadowBias)), dir)
}

// refractRay bends the ray into (or out of) the surface. On total internal
// reflection the reflected ray is returned instead.
func (w *WhittedIntegrator) refractRay(ray core.Ray, hit *geometry.HitRecord, ior float64) core.Ray {
	eta := ior
	if hit.FrontFace {
		eta = 1 / ior
	}
	dir, ok := ray.Direction.Refract(hit.Normal, eta)
	if !ok {
		return w.reflectRay(ray, hit)
	}
	return core.NewRay(hit.Point.Subtract(hit.Normal.Multiply(w.ShadowBias)), dir)
}

// finite clamps each channel to [0,1], replacing non-finite colours with black
func finite(c core.Vec3) core.Vec3 {
	if !c.IsFinite() {
		return core.Vec3{}
	}
	return c.Clamp(0, 1)
}
