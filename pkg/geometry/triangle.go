package geometry

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// degenerateArea is the smallest doubled area a triangle may have and still be intersected
const degenerateArea = 1e-12

// Triangle is defined by three vertices with optional per-vertex normals and UVs
type Triangle struct {
	V0, V1, V2 core.Vec3
	N0, N1, N2 core.Vec3 // Per-vertex normals, used when HasNormals is set
	UV0, UV1   core.Vec2
	UV2        core.Vec2
	HasNormals bool
	HasUVs     bool

	normal core.Vec3 // Cached unit face normal
	area2  float64   // Cached doubled area
}

// NewTriangle creates a flat-shaded triangle from three vertices
func NewTriangle(v0, v1, v2 core.Vec3) Triangle {
	t := Triangle{V0: v0, V1: v1, V2: v2}
	cross := v1.Subtract(v0).Cross(v2.Subtract(v0))
	t.area2 = cross.Length()
	t.normal = cross.Normalize()
	return t
}

// WithNormals returns a copy that interpolates the given vertex normals
func (t Triangle) WithNormals(n0, n1, n2 core.Vec3) Triangle {
	t.N0, t.N1, t.N2 = n0.Normalize(), n1.Normalize(), n2.Normalize()
	t.HasNormals = true
	return t
}

// WithUVs returns a copy that interpolates the given vertex texture coordinates
func (t Triangle) WithUVs(uv0, uv1, uv2 core.Vec2) Triangle {
	t.UV0, t.UV1, t.UV2 = uv0, uv1, uv2
	t.HasUVs = true
	return t
}

// Hit tests if a ray intersects with the triangle using the Möller-Trumbore algorithm
func (t Triangle) Hit(ray core.Ray, tMin, tMax float64, hit *HitRecord) bool {
	const epsilon = 1e-12

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in (or parallel to) the triangle's plane
	if a > -epsilon && a < epsilon {
		return false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return false
	}

	dist := f * edge2.Dot(q)
	if dist < tMin || dist > tMax || math.IsNaN(dist) {
		return false
	}

	hit.T = dist
	hit.Point = ray.At(dist)

	w := 1 - u - v
	outward := t.normal
	if t.HasNormals {
		interpolated := t.N0.Multiply(w).Add(t.N1.Multiply(u)).Add(t.N2.Multiply(v)).Normalize()
		if !interpolated.IsZero() {
			outward = interpolated
		}
	}
	hit.SetFaceNormal(ray, outward)

	if t.HasUVs {
		hit.UV = t.UV0.Multiply(w).Add(t.UV1.Multiply(u)).Add(t.UV2.Multiply(v))
	} else {
		hit.UV = core.Vec2{U: u, V: v}
	}
	return true
}

// BoundingBox returns the axis-aligned bounding box for this triangle
func (t Triangle) BoundingBox() core.AABB {
	return core.NewAABBFromPoints(t.V0, t.V1, t.V2)
}

// Normal returns the triangle's unit face normal
func (t Triangle) Normal() core.Vec3 {
	return t.normal
}

// Valid reports whether the vertices are finite and span a non-zero area
func (t Triangle) Valid() bool {
	if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
		return false
	}
	return t.area2 > degenerateArea && !math.IsInf(t.area2, 0)
}
