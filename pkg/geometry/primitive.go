package geometry

import (
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Kind enumerates the closed set of primitive shapes
type Kind uint8

const (
	KindSphere Kind = iota
	KindTriangle
	KindPlane
	KindBox
)

// String returns the lower-case shape name
func (k Kind) String() string {
	switch k {
	case KindSphere:
		return "sphere"
	case KindTriangle:
		return "triangle"
	case KindPlane:
		return "plane"
	case KindBox:
		return "box"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Primitive is a shape paired with a material index. Only the field selected by Kind is meaningful.
type Primitive struct {
	Kind     Kind
	Material int

	Sphere   Sphere
	Triangle Triangle
	Plane    Plane
	Box      Box
}

// SpherePrimitive wraps a sphere with its material
func SpherePrimitive(s Sphere, material int) Primitive {
	return Primitive{Kind: KindSphere, Sphere: s, Material: material}
}

// TrianglePrimitive wraps a triangle with its material
func TrianglePrimitive(t Triangle, material int) Primitive {
	return Primitive{Kind: KindTriangle, Triangle: t, Material: material}
}

// PlanePrimitive wraps a plane with its material
func PlanePrimitive(p Plane, material int) Primitive {
	return Primitive{Kind: KindPlane, Plane: p, Material: material}
}

// BoxPrimitive wraps a box with its material
func BoxPrimitive(b Box, material int) Primitive {
	return Primitive{Kind: KindBox, Box: b, Material: material}
}

// Hit tests the ray against the underlying shape and fills hit on success.
// hit is left untouched on a miss.
func (p *Primitive) Hit(ray core.Ray, tMin, tMax float64, hit *HitRecord) bool {
	var ok bool
	switch p.Kind {
	case KindSphere:
		ok = p.Sphere.Hit(ray, tMin, tMax, hit)
	case KindTriangle:
		ok = p.Triangle.Hit(ray, tMin, tMax, hit)
	case KindPlane:
		ok = p.Plane.Hit(ray, tMin, tMax, hit)
	case KindBox:
		ok = p.Box.Hit(ray, tMin, tMax, hit)
	}
	if ok {
		hit.Material = p.Material
	}
	return ok
}

// BoundingBox returns the world-space bounds of the shape
func (p *Primitive) BoundingBox() core.AABB {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.BoundingBox()
	case KindTriangle:
		return p.Triangle.BoundingBox()
	case KindPlane:
		return p.Plane.BoundingBox()
	case KindBox:
		return p.Box.BoundingBox()
	}
	return core.EmptyAABB()
}

// Centroid returns the point used to partition the primitive during BVH construction
func (p *Primitive) Centroid() core.Vec3 {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Center
	case KindPlane:
		return p.Plane.Point
	}
	return p.BoundingBox().Center()
}

// Unbounded reports whether the primitive is an infinite plane
func (p *Primitive) Unbounded() bool {
	return p.Kind == KindPlane && p.Plane.Extent == 0
}

// Valid reports whether the shape is well formed enough to be intersected.
// Invalid primitives are skipped by the BVH instead of producing NaN hits.
func (p *Primitive) Valid() bool {
	switch p.Kind {
	case KindSphere:
		return p.Sphere.Valid()
	case KindTriangle:
		return p.Triangle.Valid()
	case KindPlane:
		return p.Plane.Valid()
	case KindBox:
		return p.Box.Valid()
	}
	return false
}
