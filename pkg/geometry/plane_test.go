package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	ground := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))

	tests := []struct {
		name      string
		origin    core.Vec3
		dir       core.Vec3
		wantHit   bool
		wantT     float64
		wantFront bool
	}{
		{"From above", core.NewVec3(3, 2, -4), core.NewVec3(0, -1, 0), true, 2, true},
		{"From below", core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0), true, 1, false},
		{"Parallel", core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), false, 0, false},
		{"Pointing away", core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hit HitRecord
			got := ground.Hit(core.NewRay(tt.origin, tt.dir), core.DefaultTMin, math.Inf(1), &hit)
			if got != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, got)
			}
			if !got {
				return
			}
			if math.Abs(hit.T-tt.wantT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.wantT, hit.T)
			}
			if hit.FrontFace != tt.wantFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.wantFront, hit.FrontFace)
			}
		})
	}
}

func TestPlane_BoundedExtent(t *testing.T) {
	patch := NewBoundedPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1)

	var hit HitRecord
	inside := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	if !patch.Hit(inside, core.DefaultTMin, math.Inf(1), &hit) {
		t.Fatal("Expected hit inside the patch")
	}
	if hit.UV.U < 0 || hit.UV.U > 1 || hit.UV.V < 0 || hit.UV.V > 1 {
		t.Errorf("Bounded plane UV should lie in [0,1], got %v", hit.UV)
	}

	outside := core.NewRay(core.NewVec3(1.5, 1, 0), core.NewVec3(0, -1, 0))
	if patch.Hit(outside, core.DefaultTMin, math.Inf(1), &hit) {
		t.Error("Expected miss outside the patch extent")
	}

	box := patch.BoundingBox()
	if !box.Contains(core.NewVec3(1, 0, 1)) || !box.Contains(core.NewVec3(-1, 0, -1)) {
		t.Errorf("Bounding box %v should contain the patch corners", box)
	}
}

func TestPlane_UnboundedBoundingBoxIsThin(t *testing.T) {
	ground := NewPlane(core.NewVec3(0, -2, 0), core.NewVec3(0, 1, 0))
	box := ground.BoundingBox()
	if size := box.Size(); size.Y > 1e-3 {
		t.Errorf("Axis aligned plane box should be thin along its normal, got height %f", size.Y)
	}
	if !box.Contains(core.NewVec3(1000, -2, -1000)) {
		t.Error("Unbounded plane box should cover distant points on the plane")
	}
}
