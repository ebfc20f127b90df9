package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Box is an axis-aligned cube or cuboid. HalfSize holds half-extents,
// so a HalfSize of (1,1,1) creates a 2x2x2 box.
type Box struct {
	Center   core.Vec3
	HalfSize core.Vec3
}

// NewBox creates a new axis-aligned box
func NewBox(center, halfSize core.Vec3) Box {
	return Box{Center: center, HalfSize: halfSize}
}

// NewCube creates an axis-aligned cube with the given edge length
func NewCube(center core.Vec3, edge float64) Box {
	return NewBox(center, core.Splat(edge/2))
}

// Min returns the minimum corner
func (b Box) Min() core.Vec3 {
	return b.Center.Subtract(b.HalfSize)
}

// Max returns the maximum corner
func (b Box) Max() core.Vec3 {
	return b.Center.Add(b.HalfSize)
}

// Hit intersects the ray with the box's six faces. Rays starting inside hit the exit face.
func (b Box) Hit(ray core.Ray, tMin, tMax float64, hit *HitRecord) bool {
	lo, hi := b.Min(), b.Max()

	tNear, tFar := math.Inf(-1), math.Inf(1)
	nearAxis, farAxis := -1, -1

	for axis := 0; axis < 3; axis++ {
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		if direction == 0 {
			if origin < lo.Axis(axis) || origin > hi.Axis(axis) {
				return false
			}
			continue
		}

		t1 := (lo.Axis(axis) - origin) / direction
		t2 := (hi.Axis(axis) - origin) / direction
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tNear {
			tNear, nearAxis = t1, axis
		}
		if t2 < tFar {
			tFar, farAxis = t2, axis
		}
		if tNear > tFar {
			return false
		}
	}

	t, axis := tNear, nearAxis
	if t < tMin || t > tMax {
		t, axis = tFar, farAxis
		if t < tMin || t > tMax {
			return false
		}
	}
	if axis < 0 {
		return false
	}

	point := ray.At(t)
	local := point.Subtract(b.Center)

	// Outward normal of the face along the chosen axis
	var outward core.Vec3
	sign := 1.0
	if local.Axis(axis) < 0 {
		sign = -1.0
	}
	switch axis {
	case 0:
		outward = core.NewVec3(sign, 0, 0)
	case 1:
		outward = core.NewVec3(0, sign, 0)
	default:
		outward = core.NewVec3(0, 0, sign)
	}

	hit.T = t
	hit.Point = point
	hit.SetFaceNormal(ray, outward)
	hit.UV = b.faceUV(local, axis)
	return true
}

// faceUV maps a local hit point onto [0,1]² of the face perpendicular to axis
func (b Box) faceUV(local core.Vec3, axis int) core.Vec2 {
	ua, va := (axis+1)%3, (axis+2)%3
	if axis == 1 {
		// Top and bottom faces use X for u and Z for v
		ua, va = 0, 2
	}
	u := 0.5
	if h := b.HalfSize.Axis(ua); h > 0 {
		u = local.Axis(ua)/(2*h) + 0.5
	}
	v := 0.5
	if h := b.HalfSize.Axis(va); h > 0 {
		v = local.Axis(va)/(2*h) + 0.5
	}
	return core.Vec2{U: u, V: v}
}

// BoundingBox returns the box itself
func (b Box) BoundingBox() core.AABB {
	return core.NewAABB(b.Min(), b.Max())
}

// Valid reports whether the box is finite with non-negative extents and some volume
func (b Box) Valid() bool {
	if !b.Center.IsFinite() || !b.HalfSize.IsFinite() {
		return false
	}
	return b.HalfSize.MinComponent() >= 0 && b.HalfSize.MaxComponent() > 0
}
