package lights

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestLight_Illuminate(t *testing.T) {
	tests := []struct {
		name     string
		light    Light
		point    core.Vec3
		wantOK   bool
		wantDir  core.Vec3
		wantDist float64
	}{
		{
			name:     "point light above",
			light:    NewPointLight(core.NewVec3(0, 5, 0), core.Splat(1), 2),
			point:    core.NewVec3(0, 1, 0),
			wantOK:   true,
			wantDir:  core.NewVec3(0, 1, 0),
			wantDist: 4,
		},
		{
			name:     "directional sun shining down",
			light:    NewDirectionalLight(core.NewVec3(0, -2, 0), core.Splat(1), 1),
			point:    core.NewVec3(3, 0, 3),
			wantOK:   true,
			wantDir:  core.NewVec3(0, 1, 0),
			wantDist: math.Inf(1),
		},
		{
			name:   "zero intensity",
			light:  NewPointLight(core.NewVec3(0, 5, 0), core.Splat(1), 0),
			point:  core.Vec3{},
			wantOK: false,
		},
		{
			name:   "point light at shading point",
			light:  NewPointLight(core.NewVec3(1, 1, 1), core.Splat(1), 1),
			point:  core.NewVec3(1, 1, 1),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sample, ok := tt.light.Illuminate(tt.point)
			if ok != tt.wantOK {
				t.Fatalf("Illuminate ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if sample.Direction.Subtract(tt.wantDir).Length() > 1e-9 {
				t.Errorf("Direction = %v, want %v", sample.Direction, tt.wantDir)
			}
			if sample.Distance != tt.wantDist && math.Abs(sample.Distance-tt.wantDist) > 1e-9 {
				t.Errorf("Distance = %f, want %f", sample.Distance, tt.wantDist)
			}
			want := tt.light.Color.Multiply(tt.light.Intensity)
			if sample.Radiance != want {
				t.Errorf("Radiance = %v, want %v", sample.Radiance, want)
			}
		})
	}
}

func TestLight_MaxRadiance(t *testing.T) {
	l := NewPointLight(core.Vec3{}, core.NewVec3(0.5, 1, 0.25), 3)
	if got := l.MaxRadiance(); got != 3 {
		t.Errorf("MaxRadiance() = %f, want 3", got)
	}
}
