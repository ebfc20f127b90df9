package material

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mat     Material
		wantErr error
	}{
		{"Matte", NewMatte(core.NewVec3(0.5, 0.5, 0.5)), nil},
		{"Perfect mirror", NewMirror(core.Splat(1), 1), nil},
		{"Glass", NewGlass(core.Splat(1), 0.9, 1.5), nil},
		{"Reflectivity above one", NewMirror(core.Splat(1), 1.2), ErrReflectivityRange},
		{"Negative transparency", NewGlass(core.Splat(1), -0.1, 1.5), ErrTransparencyRange},
		{"Budget exceeded", NewGlass(core.Splat(1), 0.8, 1.5).WithReflectivity(0.4), ErrEnergyBudget},
		{"Zero IOR", NewGlass(core.Splat(1), 0.5, 0), ErrRefractiveIndex},
		{"Negative exponent", NewMatte(core.Splat(1)).WithSpecular(-1, 0.5), ErrSpecularExponent},
		{"NaN colour", NewMatte(core.NewVec3(math.NaN(), 0, 0)), ErrNonFiniteMaterialArg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mat.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaterial_WeightsSumToOne(t *testing.T) {
	tests := []struct {
		name         string
		reflectivity float64
		transparency float64
	}{
		{"diffuse", 0, 0},
		{"half mirror", 0.5, 0},
		{"glass", 0.1, 0.85},
		{"overbudget is clamped", 0.9, 0.9},
		{"out of range is clamped", 2, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatte(core.Splat(1))
			m.Reflectivity = tt.reflectivity
			m.Transparency = tt.transparency

			r, tr, l := m.Weights()
			for _, w := range []float64{r, tr, l} {
				if w < 0 || w > 1 {
					t.Fatalf("weight %f outside [0,1]", w)
				}
			}
			if math.Abs(r+tr+l-1) > 1e-12 {
				t.Errorf("weights sum to %f, want 1", r+tr+l)
			}
		})
	}
}

func TestMaterial_Albedo(t *testing.T) {
	store := NewTextureStore()
	red := NewImage(1, 1, []core.Vec3{core.NewVec3(1, 0, 0)})
	id := store.Add(NewStaticTexture("red", red))

	solid := NewMatte(core.NewVec3(0.2, 0.4, 0.6))
	if got := solid.Albedo(store, core.Vec2{}, 0, 0); got != solid.Color {
		t.Errorf("Solid albedo = %v, want %v", got, solid.Color)
	}

	tinted := NewTextured(id)
	tinted.Color = core.NewVec3(0.5, 1, 1)
	if got := tinted.Albedo(store, core.NewVec2(0.3, 0.3), 0, 0); got != core.NewVec3(0.5, 0, 0) {
		t.Errorf("Tinted texture albedo = %v, want (0.5,0,0)", got)
	}

	missing := NewTextured(TextureID(42))
	got := missing.Albedo(store, core.NewVec2(0.01, 0.01), 0, 3)
	if want := Fallback(0.01, 0.01, 3); got != want {
		t.Errorf("Missing texture albedo = %v, want fallback %v", got, want)
	}
}
