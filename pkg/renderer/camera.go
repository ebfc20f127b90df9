package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

const (
	// maxPitch keeps the orbit just short of the poles where the view flips
	maxPitch = 1.5
	// minDollyDistance is the closest the camera may get to its target
	minDollyDistance = 1e-3
)

// cameraPose is the state Reset returns to
type cameraPose struct {
	position, target, up core.Vec3
	vfov, zoom           float64
}

// Camera is an orbiting pinhole camera. It is changed between frames only;
// a render pass works from a snapshot taken when the pass starts.
type Camera struct {
	Position core.Vec3
	Target   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
	Zoom     float64 // Divides the field of view; 1 is no zoom

	home cameraPose
}

// NewCamera creates a camera from a scene's suggested viewpoint
func NewCamera(cfg scene.CameraConfig) *Camera {
	c := &Camera{
		Position: cfg.Center,
		Target:   cfg.LookAt,
		Up:       cfg.Up,
		VFov:     cfg.VFov,
		Zoom:     1,
	}
	if c.Up.IsZero() {
		c.Up = core.NewVec3(0, 1, 0)
	}
	if c.VFov <= 0 || c.VFov >= 180 {
		c.VFov = 60
	}
	c.home = cameraPose{position: c.Position, target: c.Target, up: c.Up, vfov: c.VFov, zoom: c.Zoom}
	return c
}

// Ray returns the primary ray through the centre of pixel (px, py), with
// (0, 0) the top-left pixel
func (c *Camera) Ray(px, py, width, height int) core.Ray {
	v := c.view(width, height)
	return v.ray(px, py)
}

// Orbit swings the camera around its target: yaw about the up axis, then
// pitch toward or away from it. Pitch is clamped to ±1.5 rad from the horizon.
func (c *Camera) Orbit(yaw, pitch float64) {
	if math.IsNaN(yaw) || math.IsNaN(pitch) || math.IsInf(yaw, 0) || math.IsInf(pitch, 0) {
		return
	}
	up := toMgl(c.Up.Normalize())
	offset := toMgl(c.Position.Subtract(c.Target))
	dist := offset.Len()
	if dist == 0 {
		return
	}

	offset = mgl64.QuatRotate(yaw, up).Rotate(offset)

	current := math.Asin(max(-1, min(1, offset.Dot(up)/dist)))
	target := max(-maxPitch, min(maxPitch, current+pitch))
	if axis := offset.Cross(up); axis.Len() > 1e-12 {
		offset = mgl64.QuatRotate(target-current, axis.Normalize()).Rotate(offset)
	}

	c.Position = c.Target.Add(fromMgl(offset))
}

// Dolly moves the camera toward (positive) or away from (negative) its target,
// stopping short of the target itself
func (c *Camera) Dolly(amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return
	}
	offset := c.Position.Subtract(c.Target)
	dist := offset.Length()
	if dist == 0 {
		return
	}
	newDist := max(minDollyDistance, dist-amount)
	c.Position = c.Target.Add(offset.Multiply(newDist / dist))
}

// Reset restores the viewpoint the camera was created with
func (c *Camera) Reset() {
	c.Position = c.home.position
	c.Target = c.home.target
	c.Up = c.home.up
	c.VFov = c.home.vfov
	c.Zoom = c.home.zoom
}

// Forward returns the unit view direction
func (c *Camera) Forward() core.Vec3 {
	return c.Target.Subtract(c.Position).Normalize()
}

// frameView is a camera snapshot prepared for one frame size
type frameView struct {
	origin        core.Vec3
	toWorld       mgl64.Mat4
	width, height float64
	halfHeight    float64 // tan(vfov/2) / zoom
	aspect        float64
}

// view snapshots the camera for a frame of the given size
func (c *Camera) view(width, height int) frameView {
	zoom := c.Zoom
	if zoom <= 0 || math.IsNaN(zoom) {
		zoom = 1
	}
	eye, target := toMgl(c.Position), toMgl(c.Target)
	up := viewUp(target.Sub(eye), toMgl(c.Up))
	return frameView{
		origin:     c.Position,
		toWorld:    mgl64.LookAtV(eye, target, up).Inv(),
		width:      float64(width),
		height:     float64(height),
		halfHeight: math.Tan(mgl64.DegToRad(c.VFov)/2) / zoom,
		aspect:     float64(width) / float64(height),
	}
}

// viewUp returns up, or a substitute perpendicular to forward when up is
// zero or parallel to it, so looking straight along the up axis stays defined
func viewUp(forward, up mgl64.Vec3) mgl64.Vec3 {
	if forward.Len() == 0 || up.Len() == 0 || forward.Normalize().Cross(up.Normalize()).Len() < 1e-9 {
		// Straight down puts -Z at the top of the image, straight up puts +Z
		if f := forward.Normalize(); math.Abs(f[2]) < 0.9 {
			return mgl64.Vec3{0, 0, math.Copysign(1, f[1])}
		}
		return mgl64.Vec3{0, 1, 0}
	}
	return up
}

// ray maps a pixel centre onto the image plane at z=-1 in camera space
func (v *frameView) ray(px, py int) core.Ray {
	x := (2*(float64(px)+0.5)/v.width - 1) * v.aspect * v.halfHeight
	y := (1 - 2*(float64(py)+0.5)/v.height) * v.halfHeight
	dir := v.toWorld.Mul4x1(mgl64.Vec4{x, y, -1, 0}).Vec3()
	return core.NewRay(v.origin, fromMgl(dir))
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
