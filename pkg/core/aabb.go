package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// EmptyAABB returns the inverted box that acts as the identity for Union
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.Grow(p)
	}
	return box
}

// Grow returns the box extended to contain point p
func (aabb AABB) Grow(p Vec3) AABB {
	return AABB{
		Min: Vec3{min(aabb.Min.X, p.X), min(aabb.Min.Y, p.Y), min(aabb.Min.Z, p.Z)},
		Max: Vec3{max(aabb.Max.X, p.X), max(aabb.Max.Y, p.Y), max(aabb.Max.Z, p.Z)},
	}
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{min(aabb.Min.X, other.Min.X), min(aabb.Min.Y, other.Min.Y), min(aabb.Min.Z, other.Min.Z)},
		Max: Vec3{max(aabb.Max.X, other.Max.X), max(aabb.Max.Y, other.Max.Y), max(aabb.Max.Z, other.Max.Z)},
	}
}

// Hit tests the ray against the box using the slab method and returns the
// parametric distance at which the ray enters the box, clipped to [tMin, tMax].
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) (float64, bool) {
	for axis := 0; axis < 3; axis++ {
		lo := aabb.Min.Axis(axis)
		hi := aabb.Max.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Parallel to this slab: either always inside or never
		if direction == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}

		invDirection := 1.0 / direction
		t1 := (lo - origin) * invDirection
		t2 := (hi - origin) * invDirection
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = max(tMin, t1)
		tMax = min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}

// Contains reports whether p lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the extent of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// SurfaceArea returns the surface area of the AABB, zero for an empty box
func (aabb AABB) SurfaceArea() float64 {
	if !aabb.IsValid() {
		return 0
	}
	size := aabb.Size()
	return 2.0 * (size.X*size.Y + size.Y*size.Z + size.Z*size.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// IsValid returns true if min <= max on every axis and both corners are not NaN
func (aabb AABB) IsValid() bool {
	return aabb.Min.X <= aabb.Max.X &&
		aabb.Min.Y <= aabb.Max.Y &&
		aabb.Min.Z <= aabb.Max.Z
}

// IsFinite reports whether both corners are finite
func (aabb AABB) IsFinite() bool {
	return aabb.Min.IsFinite() && aabb.Max.IsFinite()
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := Splat(amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
