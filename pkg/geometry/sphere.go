package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Sphere is defined by its center and radius
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// Roots solves |O + tD - C|^2 = r^2 and returns the real roots in ascending
// order along with how many there are (0, 1 for a tangent ray, or 2).
func (s Sphere) Roots(ray core.Ray) (t0, t1 float64, count int) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic coefficients using the half-b form: at² + 2ht + c = 0
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	switch {
	case a == 0 || discriminant < 0:
		return 0, 0, 0
	case discriminant == 0:
		t := -halfB / a
		return t, t, 1
	}

	sqrtD := math.Sqrt(discriminant)
	return (-halfB - sqrtD) / a, (-halfB + sqrtD) / a, 2
}

// Hit tests if a ray intersects with the sphere, preferring the nearer root in range
func (s Sphere) Hit(ray core.Ray, tMin, tMax float64, hit *HitRecord) bool {
	t0, t1, count := s.Roots(ray)
	if count == 0 {
		return false
	}

	root := t0
	if root < tMin || root > tMax {
		root = t1
		if root < tMin || root > tMax {
			return false
		}
	}

	hit.T = root
	hit.Point = ray.At(root)

	// Outward normal points from the center through the hit point
	outwardNormal := hit.Point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	hit.SetFaceNormal(ray, outwardNormal)
	hit.UV = sphereUV(outwardNormal)
	return true
}

// sphereUV maps a point on the unit sphere to longitude/latitude texture coordinates
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(max(-1, min(1, -p.Y)))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.Vec2{U: phi / (2 * math.Pi), V: theta / math.Pi}
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s Sphere) BoundingBox() core.AABB {
	r := core.Splat(math.Abs(s.Radius))
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

// Valid reports whether the sphere has a finite center and positive radius
func (s Sphere) Valid() bool {
	return s.Center.IsFinite() && s.Radius > 0 && !math.IsInf(s.Radius, 0)
}
