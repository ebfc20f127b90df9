package geometry

import "github.com/df07/go-whitted-raytracer/pkg/core"

// HitRecord describes a single ray/primitive intersection
type HitRecord struct {
	T         float64   // Distance along the ray
	Point     core.Vec3 // World-space hit point
	Normal    core.Vec3 // Unit normal, always facing against the incoming ray
	FrontFace bool      // True when the ray struck the outward side of the surface
	UV        core.Vec2 // Surface texture coordinates
	Material  int       // Index into the scene's material table
	Primitive int       // Index of the primitive that was hit
}

// SetFaceNormal orients the stored normal against the ray and records which side was hit.
// outwardNormal must be unit length.
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
