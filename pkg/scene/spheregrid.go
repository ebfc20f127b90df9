package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// oklchToRGB converts OKLCH color values to RGB
// L: lightness (0-1), C: chroma (0-0.4+), H: hue (0-360 degrees)
func oklchToRGB(l, c, h float64) core.Vec3 {
	// Convert hue from degrees to radians
	hRad := h * math.Pi / 180.0

	// Convert from OKLCH to OKLAB
	a := c * math.Cos(hRad)
	b := c * math.Sin(hRad)

	// Convert from OKLAB to linear RGB
	// Using simplified approximation for OKLAB to RGB conversion
	// This is not perfectly accurate but good enough for our purposes

	// First convert to LMS
	l_ := l + 0.3963377774*a + 0.2158037573*b
	m_ := l - 0.1055613458*a - 0.0638541728*b
	s_ := l - 0.0894841775*a - 1.2914855480*b

	// Cube the values
	l_ = l_ * l_ * l_
	m_ = m_ * m_ * m_
	s_ = s_ * s_ * s_

	// Convert LMS to linear RGB
	r := +4.0767416621*l_ - 3.3077115913*m_ + 0.2309699292*s_
	g := -1.2684380046*l_ + 2.6097574011*m_ - 0.3413193965*s_
	blue := -0.0041960863*l_ - 0.7034186147*m_ + 1.7076147010*s_

	// Clamp to [0, 1] range
	r = math.Max(0, math.Min(1, r))
	g = math.Max(0, math.Min(1, g))
	blue = math.Max(0, math.Min(1, blue))

	return core.NewVec3(r, g, blue)
}

// NewSphereGridScene creates a 20x20 grid of mirrored spheres whose tint
// sweeps hue along X and chroma along Z
func NewSphereGridScene(textures *material.TextureStore) (*Scene, error) {
	b := NewBuilder("sphere-grid").UseTextures(textures)
	b.SetCamera(CameraConfig{
		Center: core.NewVec3(4.5, 6, 18),
		LookAt: core.NewVec3(4.5, 0.8, 4.5),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	})
	b.SetEnvironment(Daylight(0.4, 0))

	ground := b.AddMaterial(material.NewMatte(core.NewVec3(0.5, 0.5, 0.5)).WithName("ground"))
	b.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 0, ground)

	gridSize := 20

	// Fit the grid into roughly 9x9 units
	targetArea := 9.0
	spacing := targetArea / float64(gridSize-1)
	sphereRadius := math.Max(0.02, math.Min(0.35, spacing*0.35))

	baseLightness := 0.65
	minChroma := 0.05
	maxChroma := 0.25

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0 + 4.5
			z := float64(j)*spacing - targetArea/2.0 + 4.5
			position := core.NewVec3(x, sphereRadius, z)

			hue := (float64(i) / float64(gridSize-1)) * 360.0
			chroma := minChroma + (float64(j)/float64(gridSize-1))*(maxChroma-minChroma)
			lightness := baseLightness + 0.1*math.Sin(float64(i+j)*0.5)
			color := oklchToRGB(lightness, chroma, hue)

			// Vary reflectivity slightly across the grid
			reflectivity := 0.45 + 0.15*float64((i+j)%3)/2.0
			mat := b.AddMaterial(material.NewMirror(color, reflectivity))
			b.AddSphere(position, sphereRadius, mat)
		}
	}

	return b.Build(geometry.DefaultBVHOptions())
}
