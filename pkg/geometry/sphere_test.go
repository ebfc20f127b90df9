package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestSphere_Roots(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
		wantCount int
		wantT0    float64
		wantT1    float64
	}{
		{"Through the interior", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 2, 4, 6},
		{"Tangent graze", core.NewVec3(1, 0, 5), core.NewVec3(0, 0, -1), 1, 5, 5},
		{"Clean miss", core.NewVec3(2, 0, 5), core.NewVec3(0, 0, -1), 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, count := sphere.Roots(core.NewRay(tt.origin, tt.direction))
			if count != tt.wantCount {
				t.Fatalf("Expected %d roots, got %d", tt.wantCount, count)
			}
			if count == 0 {
				return
			}
			if math.Abs(t0-tt.wantT0) > 1e-9 || math.Abs(t1-tt.wantT1) > 1e-9 {
				t.Errorf("Expected roots (%f, %f), got (%f, %f)", tt.wantT0, tt.wantT1, t0, t1)
			}
		})
	}
}

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	var hit HitRecord
	if sphere.Hit(ray, 0.001, 1000.0, &hit) {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit from inside",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			var hit HitRecord
			if !sphere.Hit(ray, 0.001, 1000.0, &hit) {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
		})
	}
}

func TestSphere_Hit_OutwardUnitNormals(t *testing.T) {
	center := core.NewVec3(1, -2, 3)
	sphere := NewSphere(center, 2.5)

	directions := []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(0.1, 0.05, -1),
		core.NewVec3(-0.15, 0.1, -1),
		core.NewVec3(0.05, -0.2, -1),
		core.NewVec3(0.2, 0.1, -1),
	}

	for _, d := range directions {
		// Aim from outside toward a point near the center
		origin := center.Add(core.NewVec3(0, 0, 10))
		ray := core.NewRay(origin, d)
		var hit HitRecord
		if !sphere.Hit(ray, core.DefaultTMin, math.Inf(1), &hit) {
			t.Fatalf("Expected hit for direction %v", d)
		}
		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Errorf("Normal not unit length: %f", hit.Normal.Length())
		}
		outward := hit.Point.Subtract(center).Normalize()
		if hit.Normal.Dot(outward) < 1-1e-9 {
			t.Errorf("Normal %v does not point outward (%v)", hit.Normal, outward)
		}
		if hit.UV.U < 0 || hit.UV.U > 1 || hit.UV.V < 0 || hit.UV.V > 1 {
			t.Errorf("UV out of range: %v", hit.UV)
		}
	}
}

func TestSphere_Hit_RespectsRange(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0)
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	var hit HitRecord
	if !sphere.Hit(ray, 4.5, 100, &hit) {
		t.Fatal("Expected far root when the near root is below tMin")
	}
	if math.Abs(hit.T-6) > 1e-9 {
		t.Errorf("Expected t=6, got %f", hit.T)
	}
	if sphere.Hit(ray, 0, 3.9, &hit) {
		t.Error("Expected miss when both roots are beyond tMax")
	}
}

func TestSphere_Valid(t *testing.T) {
	if NewSphere(core.Vec3{}, 0).Valid() {
		t.Error("Zero radius sphere should be invalid")
	}
	if NewSphere(core.NewVec3(math.NaN(), 0, 0), 1).Valid() {
		t.Error("NaN center sphere should be invalid")
	}
	if !NewSphere(core.Vec3{}, 0.5).Valid() {
		t.Error("Ordinary sphere should be valid")
	}
}
