package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Kind enumerates the fixed set of surface behaviours
type Kind uint8

const (
	// KindMatte is a diffuse surface with optional Phong highlight and partial reflection
	KindMatte Kind = iota
	// KindMirror is dominated by mirror reflection
	KindMirror
	// KindGlass transmits light through Snell refraction
	KindGlass
	// KindEmissive glows with its own colour and ignores scene lights
	KindEmissive
)

// String returns the lower-case kind name
func (k Kind) String() string {
	switch k {
	case KindMatte:
		return "matte"
	case KindMirror:
		return "mirror"
	case KindGlass:
		return "glass"
	case KindEmissive:
		return "emissive"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Default shading parameters
const (
	DefaultSpecularExponent = 32.0
	DefaultSpecularWeight   = 0.3
	DefaultRefractiveIndex  = 1.5
)

// Validation errors
var (
	ErrReflectivityRange    = errors.New("material: reflectivity must be in [0,1]")
	ErrTransparencyRange    = errors.New("material: transparency must be in [0,1]")
	ErrEnergyBudget         = errors.New("material: reflectivity + transparency must not exceed 1")
	ErrRefractiveIndex      = errors.New("material: refractive index must be positive")
	ErrSpecularExponent     = errors.New("material: specular exponent must be non-negative")
	ErrNonFiniteMaterialArg = errors.New("material: parameters must be finite")
)

// Material describes how a surface responds to light. Only the parameters
// that matter for Kind need to be set; the constructors fill sensible defaults.
type Material struct {
	Name string
	Kind Kind

	Color   core.Vec3 // Diffuse colour, or tint applied to Texture
	Texture TextureID // NoTexture for a solid colour

	Reflectivity     float64 // Weight of the mirror-reflected ray in [0,1]
	Transparency     float64 // Weight of the refracted ray in [0,1]
	RefractiveIndex  float64 // Index of refraction for transmitted rays, > 0
	SpecularExponent float64 // Phong exponent, >= 0
	DiffuseWeight    float64 // Scale on the Lambert term
	SpecularWeight   float64 // Scale on the Phong term
	Emission         core.Vec3
}

// NewMatte creates a diffuse material with a soft highlight
func NewMatte(color core.Vec3) Material {
	return Material{
		Kind:             KindMatte,
		Color:            color,
		Texture:          NoTexture,
		RefractiveIndex:  1,
		SpecularExponent: DefaultSpecularExponent,
		DiffuseWeight:    1,
		SpecularWeight:   DefaultSpecularWeight,
	}
}

// NewTextured creates a diffuse material whose colour comes from a texture
func NewTextured(texture TextureID) Material {
	m := NewMatte(core.Splat(1))
	m.Texture = texture
	return m
}

// NewMirror creates a reflective material. reflectivity 1 is a perfect mirror.
func NewMirror(tint core.Vec3, reflectivity float64) Material {
	m := NewMatte(tint)
	m.Kind = KindMirror
	m.Reflectivity = reflectivity
	m.SpecularExponent = 256
	m.SpecularWeight = 0.5
	return m
}

// NewGlass creates a transparent material with the given index of refraction
func NewGlass(tint core.Vec3, transparency, refractiveIndex float64) Material {
	m := NewMatte(tint)
	m.Kind = KindGlass
	m.Transparency = transparency
	m.RefractiveIndex = refractiveIndex
	m.SpecularExponent = 128
	m.SpecularWeight = 0.5
	return m
}

// NewEmissive creates a self-lit material
func NewEmissive(emission core.Vec3) Material {
	m := NewMatte(emission)
	m.Kind = KindEmissive
	m.Emission = emission
	m.DiffuseWeight = 0
	m.SpecularWeight = 0
	return m
}

// WithName returns a copy carrying the given name
func (m Material) WithName(name string) Material {
	m.Name = name
	return m
}

// WithTexture returns a copy sampling the given texture, tinted by Color
func (m Material) WithTexture(texture TextureID) Material {
	m.Texture = texture
	return m
}

// WithSpecular returns a copy with the given Phong exponent and weight
func (m Material) WithSpecular(exponent, weight float64) Material {
	m.SpecularExponent = exponent
	m.SpecularWeight = weight
	return m
}

// WithReflectivity returns a copy with the given mirror weight
func (m Material) WithReflectivity(reflectivity float64) Material {
	m.Reflectivity = reflectivity
	return m
}

// Textured reports whether the material samples a texture
func (m *Material) Textured() bool {
	return m.Texture != NoTexture
}

// Validate checks the parameter ranges the shader relies on
func (m *Material) Validate() error {
	for _, f := range []float64{m.Reflectivity, m.Transparency, m.RefractiveIndex, m.SpecularExponent, m.DiffuseWeight, m.SpecularWeight} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrNonFiniteMaterialArg
		}
	}
	if !m.Color.IsFinite() || !m.Emission.IsFinite() {
		return ErrNonFiniteMaterialArg
	}

	switch {
	case m.Reflectivity < 0 || m.Reflectivity > 1:
		return ErrReflectivityRange
	case m.Transparency < 0 || m.Transparency > 1:
		return ErrTransparencyRange
	case m.Reflectivity+m.Transparency > 1+1e-9:
		return ErrEnergyBudget
	case m.Transparency > 0 && m.RefractiveIndex <= 0:
		return ErrRefractiveIndex
	case m.SpecularExponent < 0:
		return ErrSpecularExponent
	}
	return nil
}

// Weights returns the reflection, transmission and local shading weights.
// Out-of-range parameters are clamped so the three always sum to 1.
func (m *Material) Weights() (reflect, transmit, local float64) {
	reflect = clamp01(m.Reflectivity)
	transmit = min(clamp01(m.Transparency), 1-reflect)
	local = 1 - reflect - transmit
	return reflect, transmit, local
}

// IOR returns a usable refractive index, defaulting non-positive values
func (m *Material) IOR() float64 {
	if m.RefractiveIndex <= 0 || math.IsNaN(m.RefractiveIndex) {
		return DefaultRefractiveIndex
	}
	return m.RefractiveIndex
}

// Albedo returns the diffuse colour at uv. Textures are tinted by Color;
// missing textures fall back to the checker keyed by fallbackKey.
func (m *Material) Albedo(store *TextureStore, uv core.Vec2, time float64, fallbackKey int) core.Vec3 {
	if !m.Textured() {
		return m.Color
	}
	return store.Sample(m.Texture, uv.U, uv.V, time, fallbackKey).MultiplyVec(m.Color)
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return max(0, min(1, f))
}
