package core

import "math"

// DefaultTMin is the smallest parametric distance a fresh ray accepts
const DefaultTMin = 1e-6

// Ray is a half-line with a unit direction and a valid parametric range [TMin, TMax]
type Ray struct {
	Origin    Vec3
	Direction Vec3
	TMin      float64
	TMax      float64
}

// NewRay creates a ray with a normalized direction over [DefaultTMin, +Inf)
func NewRay(origin, direction Vec3) Ray {
	return NewRayRange(origin, direction, DefaultTMin, math.Inf(1))
}

// NewRayRange creates a ray with a normalized direction and an explicit range
func NewRayRange(origin, direction Vec3, tMin, tMax float64) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction.Normalize(),
		TMin:      tMin,
		TMax:      tMax,
	}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// IsValid reports whether the ray can be traced: finite origin, finite
// non-zero direction and a non-empty range.
func (r Ray) IsValid() bool {
	if !r.Origin.IsFinite() || !r.Direction.IsFinite() {
		return false
	}
	if r.Direction.LengthSquared() == 0 {
		return false
	}
	return !math.IsNaN(r.TMin) && !math.IsNaN(r.TMax) && r.TMin <= r.TMax
}
