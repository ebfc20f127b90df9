package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// bruteForce finds the nearest hit by testing every primitive in order
func bruteForce(prims []Primitive, ray core.Ray, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	found := false
	limit := math.Min(tMax, ray.TMax)
	for i := range prims {
		if !prims[i].Valid() {
			continue
		}
		var hit HitRecord
		if prims[i].Hit(ray, ray.TMin, limit, &hit) {
			hit.Primitive = i
			closest = hit
			limit = hit.T
			found = true
		}
	}
	return closest, found
}

// randomScene scatters spheres, triangles and boxes inside a 20 unit cube
func randomScene(random *rand.Rand, n int) []Primitive {
	prims := make([]Primitive, 0, n)
	randomPoint := func() core.Vec3 {
		return core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, random.Float64()*20-10)
	}
	for i := 0; i < n; i++ {
		center := randomPoint()
		switch i % 3 {
		case 0:
			prims = append(prims, SpherePrimitive(NewSphere(center, 0.2+random.Float64()), i))
		case 1:
			offset := func() core.Vec3 {
				return core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
			}
			tri := NewTriangle(center, center.Add(offset()), center.Add(offset()))
			prims = append(prims, TrianglePrimitive(tri, i))
		case 2:
			prims = append(prims, BoxPrimitive(NewCube(center, 0.3+random.Float64()), i))
		}
	}
	return prims
}

func TestBVH_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(42))

	for _, size := range []int{1, 5, 37, 300} {
		prims := randomScene(random, size)
		bvh := NewBVH(prims, DefaultBVHOptions())

		for r := 0; r < 500; r++ {
			origin := core.NewVec3(random.Float64()*30-15, random.Float64()*30-15, random.Float64()*30-15)
			dir := core.NewVec3(random.NormFloat64(), random.NormFloat64(), random.NormFloat64())
			ray := core.NewRay(origin, dir)
			tMax := math.Inf(1)
			if r%4 == 0 {
				tMax = random.Float64() * 20
			}

			want, wantHit := bruteForce(prims, ray, tMax)
			got, gotHit := bvh.Intersect(ray, tMax)
			if gotHit != wantHit {
				t.Fatalf("size %d ray %d: BVH hit=%v, brute force hit=%v", size, r, gotHit, wantHit)
			}
			if !gotHit {
				if bvh.AnyHit(ray, tMax) {
					t.Fatalf("size %d ray %d: AnyHit true but no nearest hit exists", size, r)
				}
				continue
			}
			if math.Abs(got.T-want.T) > 1e-9 {
				t.Fatalf("size %d ray %d: BVH t=%f, brute force t=%f", size, r, got.T, want.T)
			}
			if got.Material != prims[got.Primitive].Material {
				t.Errorf("size %d ray %d: material %d does not match primitive %d", size, r, got.Material, got.Primitive)
			}
			if !bvh.AnyHit(ray, tMax) {
				t.Fatalf("size %d ray %d: AnyHit false but nearest hit exists", size, r)
			}
		}
	}
}

func TestBVH_EmptyNeverHits(t *testing.T) {
	bvh := NewBVH(nil, DefaultBVHOptions())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	if _, hit := bvh.Intersect(ray, math.Inf(1)); hit {
		t.Error("Empty BVH should never report a hit")
	}
	if bvh.AnyHit(ray, math.Inf(1)) {
		t.Error("Empty BVH should never report an occluder")
	}
	if stats := bvh.Stats(); stats.Nodes != 0 || stats.Leaves != 0 {
		t.Errorf("Empty BVH should have no nodes, got %+v", stats)
	}
	if bvh.Bounds().IsValid() {
		t.Error("Empty BVH bounds should be the empty box")
	}
}

func TestBVH_MissingAllBoxes(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	prims := randomScene(random, 100)
	bvh := NewBVH(prims, DefaultBVHOptions())

	// Rays far outside the scene bounds pointing away from it
	for i := 0; i < 50; i++ {
		origin := core.NewVec3(100+random.Float64()*10, random.Float64()*5, random.Float64()*5)
		ray := core.NewRay(origin, core.NewVec3(1, random.Float64()-0.5, random.Float64()-0.5))
		if _, hit := bvh.Intersect(ray, math.Inf(1)); hit {
			t.Fatalf("Ray %d should miss every primitive", i)
		}
		if bvh.AnyHit(ray, math.Inf(1)) {
			t.Fatalf("Ray %d should not find an occluder", i)
		}
	}
}

func TestBVH_SkipsInvalidPrimitivesAndRays(t *testing.T) {
	prims := []Primitive{
		SpherePrimitive(NewSphere(core.NewVec3(0, 0, -5), 1), 0),
		SpherePrimitive(NewSphere(core.NewVec3(0, 0, -2), -1), 1),
		TrianglePrimitive(NewTriangle(core.NewVec3(0, 0, -1), core.NewVec3(0, 0, -1), core.NewVec3(1, 1, -1)), 2),
		SpherePrimitive(NewSphere(core.NewVec3(math.NaN(), 0, 0), 1), 3),
	}
	bvh := NewBVH(prims, DefaultBVHOptions())

	if got := bvh.Stats().Skipped; got != 3 {
		t.Errorf("Expected 3 skipped primitives, got %d", got)
	}
	if bvh.Len() != 1 {
		t.Errorf("Expected 1 stored primitive, got %d", bvh.Len())
	}

	hit, ok := bvh.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), math.Inf(1))
	if !ok || hit.Primitive != 0 {
		t.Fatalf("Expected hit on primitive 0, got ok=%v primitive=%d", ok, hit.Primitive)
	}
	if math.IsNaN(hit.T) || !hit.Normal.IsFinite() {
		t.Errorf("Hit record should be finite, got %+v", hit)
	}

	zero := core.Ray{Origin: core.Vec3{}, Direction: core.Vec3{}, TMax: math.Inf(1)}
	if _, ok := bvh.Intersect(zero, math.Inf(1)); ok {
		t.Error("Zero-direction ray should be treated as a miss")
	}
	if bvh.AnyHit(zero, math.Inf(1)) {
		t.Error("Zero-direction ray should never be occluded")
	}
}

func TestBVH_UnboundedPlaneHitsFarAway(t *testing.T) {
	prims := randomScene(rand.New(rand.NewSource(11)), 30)
	ground := len(prims)
	prims = append(prims,
		PlanePrimitive(NewPlane(core.NewVec3(0, -20, 0), core.NewVec3(0, 1, 0)), ground),
		PlanePrimitive(NewBoundedPlane(core.NewVec3(0, 15, 0), core.NewVec3(0, -1, 0), 2), ground+1),
	)
	bvh := NewBVH(prims, DefaultBVHOptions())

	if stats := bvh.Stats(); stats.Unbounded != 1 || stats.Primitives != len(prims) || stats.Skipped != 0 {
		t.Errorf("Expected 1 unbounded of %d primitives, got %+v", len(prims), stats)
	}

	rays := []core.Ray{
		core.NewRay(core.NewVec3(0, 2e6, 0), core.NewVec3(0, -1, 0)),
		core.NewRay(core.NewVec3(5e6, 3, -4e6), core.NewVec3(0, -1, 0)),
		core.NewRay(core.NewVec3(0, 0, -15), core.NewVec3(1, -1e-7, 0)),
		core.NewRay(core.NewVec3(0, 5, 30), core.NewVec3(0.01, -0.3, -1)),
		core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
	}
	for i, ray := range rays {
		want, wantOK := bruteForce(prims, ray, math.Inf(1))
		got, ok := bvh.Intersect(ray, math.Inf(1))
		if ok != wantOK {
			t.Fatalf("Ray %d: BVH hit=%v, brute force hit=%v", i, ok, wantOK)
		}
		if ok && (math.Abs(got.T-want.T) > 1e-9*math.Max(1, want.T) || got.Primitive != want.Primitive) {
			t.Errorf("Ray %d: BVH hit primitive %d at %v, brute force hit %d at %v", i, got.Primitive, got.T, want.Primitive, want.T)
		}
		if bvh.AnyHit(ray, math.Inf(1)) != wantOK {
			t.Errorf("Ray %d: AnyHit should be %v", i, wantOK)
		}
	}

	// The grazing ray meets the ground 2e8 units out
	if hit, ok := bvh.Intersect(rays[2], math.Inf(1)); !ok || hit.Primitive != ground || hit.T < 1e8 {
		t.Errorf("Expected a far ground hit, got ok=%v %+v", ok, hit)
	}
}

func TestBVH_OnlyUnboundedPlanes(t *testing.T) {
	prims := []Primitive{PlanePrimitive(NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)), 0)}
	bvh := NewBVH(prims, DefaultBVHOptions())
	if bvh.Len() != 1 || bvh.Stats().Nodes != 0 {
		t.Errorf("Expected one plane and no tree nodes, got len %d, %+v", bvh.Len(), bvh.Stats())
	}

	down := core.NewRay(core.NewVec3(3e6, 1, 0), core.NewVec3(0, -1, 0))
	if hit, ok := bvh.Intersect(down, math.Inf(1)); !ok || math.Abs(hit.T-1) > 1e-9 {
		t.Errorf("Expected hit at t=1, got ok=%v t=%v", ok, hit.T)
	}
	if !bvh.AnyHit(down, math.Inf(1)) {
		t.Error("Plane should occlude the downward ray")
	}
	if bvh.AnyHit(down, 0.5) {
		t.Error("Plane at t=1 should be excluded by tMax=0.5")
	}
}

func TestBVH_TMaxExcludesFartherHits(t *testing.T) {
	prims := []Primitive{
		SpherePrimitive(NewSphere(core.NewVec3(0, 0, -10), 1), 0),
	}
	bvh := NewBVH(prims, DefaultBVHOptions())
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	if _, ok := bvh.Intersect(ray, 8.5); ok {
		t.Error("Hit at t=9 should be excluded by tMax=8.5")
	}
	if bvh.AnyHit(ray, 8.5) {
		t.Error("Occluder at t=9 should be excluded by tMax=8.5")
	}
	if !bvh.AnyHit(ray, 9.5) {
		t.Error("Occluder at t=9 should be found with tMax=9.5")
	}
}

func TestBVH_LeafSizeAndStats(t *testing.T) {
	tests := []struct {
		name       string
		count      int
		leafSize   int
		wantLeaves int
	}{
		{"At threshold stays single leaf", 4, 4, 1},
		{"One over threshold splits", 5, 4, 2},
		{"Leaf size one", 8, 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prims := make([]Primitive, tt.count)
			for i := range prims {
				prims[i] = SpherePrimitive(NewSphere(core.NewVec3(float64(i)*3, 0, 0), 1), i)
			}
			bvh := NewBVH(prims, BVHOptions{LeafSize: tt.leafSize})
			stats := bvh.Stats()

			if stats.Leaves != tt.wantLeaves {
				t.Errorf("Expected %d leaves, got %d", tt.wantLeaves, stats.Leaves)
			}
			if stats.MaxLeafSize > tt.leafSize {
				t.Errorf("Leaf holds %d primitives, threshold is %d", stats.MaxLeafSize, tt.leafSize)
			}
			if stats.Primitives != tt.count {
				t.Errorf("Expected %d primitives, got %d", tt.count, stats.Primitives)
			}
			if stats.Nodes != 2*stats.Leaves-1 {
				t.Errorf("Binary tree should have 2*leaves-1 nodes, got %d nodes for %d leaves", stats.Nodes, stats.Leaves)
			}
		})
	}
}

func TestBVH_NodeBoundsContainChildren(t *testing.T) {
	random := rand.New(rand.NewSource(3))
	prims := randomScene(random, 200)
	bvh := NewBVH(prims, DefaultBVHOptions())

	for i, node := range bvh.nodes {
		if node.isLeaf() {
			for j := node.Start; j < node.Start+node.Count; j++ {
				pb := bvh.prims[j].BoundingBox()
				if node.Bounds.Union(pb) != node.Bounds {
					t.Fatalf("Leaf %d does not contain primitive %d bounds", i, j)
				}
			}
			continue
		}
		union := bvh.nodes[node.Left].Bounds.Union(bvh.nodes[node.Right].Bounds)
		if union != node.Bounds {
			t.Fatalf("Interior node %d bounds %v differ from child union %v", i, node.Bounds, union)
		}
	}
}

func TestBVH_IdenticalCentroids(t *testing.T) {
	prims := make([]Primitive, 20)
	for i := range prims {
		prims[i] = SpherePrimitive(NewSphere(core.NewVec3(0, 0, -5), 1+float64(i)*0.01), i)
	}
	bvh := NewBVH(prims, BVHOptions{LeafSize: 2})

	hit, ok := bvh.Intersect(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), math.Inf(1))
	if !ok {
		t.Fatal("Expected a hit")
	}
	// Largest sphere is entered first
	if hit.Primitive != 19 {
		t.Errorf("Expected nearest primitive 19, got %d", hit.Primitive)
	}
}
