package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// unboundedExtent is the half size used to bound planes without an extent
const unboundedExtent = 1e6

// Plane is defined by a point and a normal. A positive Extent limits it to a
// square of side 2*Extent centered on Point; zero means unbounded.
type Plane struct {
	Point  core.Vec3
	Normal core.Vec3
	Extent float64

	tangent   core.Vec3
	bitangent core.Vec3
}

// NewPlane creates an unbounded plane
func NewPlane(point, normal core.Vec3) Plane {
	return NewBoundedPlane(point, normal, 0)
}

// NewBoundedPlane creates a square plane patch with the given half extent
func NewBoundedPlane(point, normal core.Vec3, extent float64) Plane {
	n := normal.Normalize()
	p := Plane{Point: point, Normal: n, Extent: extent}
	p.tangent, p.bitangent = tangentBasis(n)
	return p
}

// tangentBasis builds two unit vectors perpendicular to n and to each other
func tangentBasis(n core.Vec3) (core.Vec3, core.Vec3) {
	helper := core.NewVec3(0, 1, 0)
	if math.Abs(n.Y) > 0.9 {
		helper = core.NewVec3(0, 0, 1)
	}
	tangent := helper.Cross(n).Normalize()
	return tangent, n.Cross(tangent)
}

// Hit tests if a ray crosses the plane within range (and within Extent when bounded)
func (p Plane) Hit(ray core.Ray, tMin, tMax float64, hit *HitRecord) bool {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never cross the plane
	if math.Abs(denominator) < 1e-9 {
		return false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return false
	}

	point := ray.At(t)
	local := point.Subtract(p.Point)
	s := local.Dot(p.tangent)
	r := local.Dot(p.bitangent)

	if p.Extent > 0 {
		if math.Abs(s) > p.Extent || math.Abs(r) > p.Extent {
			return false
		}
		hit.UV = core.Vec2{U: s/(2*p.Extent) + 0.5, V: r/(2*p.Extent) + 0.5}
	} else {
		// One texture repeat per world unit
		hit.UV = core.Vec2{U: s, V: r}
	}

	hit.T = t
	hit.Point = point
	hit.SetFaceNormal(ray, p.Normal)
	return true
}

// BoundingBox returns the bounds of the plane patch. Unbounded planes are
// clipped to a large square and kept thin when axis aligned; the BVH keeps
// them out of the tree and never relies on this box.
func (p Plane) BoundingBox() core.AABB {
	const thickness = 1e-4

	extent := p.Extent
	if extent <= 0 {
		extent = unboundedExtent
	}

	s := p.tangent.Multiply(extent)
	r := p.bitangent.Multiply(extent)
	box := core.NewAABBFromPoints(
		p.Point.Add(s).Add(r),
		p.Point.Add(s).Subtract(r),
		p.Point.Subtract(s).Add(r),
		p.Point.Subtract(s).Subtract(r),
	)
	return box.Expand(thickness)
}

// Valid reports whether the plane has a finite point and a usable normal
func (p Plane) Valid() bool {
	return p.Point.IsFinite() && p.Normal.IsFinite() && p.Normal.LengthSquared() > 0 &&
		p.Extent >= 0 && !math.IsInf(p.Extent, 0)
}
