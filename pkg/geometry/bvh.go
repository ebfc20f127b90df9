package geometry

import (
	"math"
	"sort"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/log"
)

var logger = log.New("bvh")

const (
	// defaultLeafSize is the primitive count at or below which a node becomes a leaf
	defaultLeafSize = 4

	// maxTreeDepth caps recursion during build and sizes the traversal stack
	maxTreeDepth = 48
)

// BVHOptions tunes BVH construction
type BVHOptions struct {
	LeafSize int // Primitives per leaf before splitting stops
	MaxDepth int // Nodes at this depth become leaves regardless of size
}

// DefaultBVHOptions returns the options used when none are given
func DefaultBVHOptions() BVHOptions {
	return BVHOptions{LeafSize: defaultLeafSize, MaxDepth: maxTreeDepth}
}

// bvhNode is either an interior node (Left >= 0) or a leaf covering
// prims[Start:Start+Count]. Children are indices into the node arena.
type bvhNode struct {
	Bounds core.AABB
	Left   int32
	Right  int32
	Start  int32
	Count  int32
}

func (n *bvhNode) isLeaf() bool {
	return n.Left < 0
}

// BVHStats summarises the shape of a built hierarchy
type BVHStats struct {
	Primitives  int           // Primitives stored, including unbounded planes
	Unbounded   int           // Unbounded planes tested outside the tree
	Skipped     int           // Invalid primitives dropped during build
	Nodes       int           // Interior and leaf nodes
	Leaves      int           // Leaf nodes
	MaxDepth    int           // Deepest leaf
	MaxLeafSize int           // Largest leaf primitive count
	BuildTime   time.Duration // Wall time spent building
}

// BVH is a bounding volume hierarchy stored as a flat node arena. Unbounded
// planes have no useful box, so they sit after the leaf ranges in prims and
// are tested against every ray. It is immutable after NewBVH returns and safe
// for concurrent traversal.
type BVH struct {
	nodes     []bvhNode
	prims     []Primitive // Leaf-ordered copy of the valid primitives, unbounded planes last
	ids       []int32     // Original index of each entry in prims
	unbounded int32       // Index in prims of the first unbounded plane
	stats     BVHStats
}

// buildItem caches per-primitive data needed during construction
type buildItem struct {
	index    int32
	bounds   core.AABB
	centroid core.Vec3
}

// NewBVH builds a median-split BVH over the given primitives. Invalid
// primitives are skipped. An empty input yields a BVH that never reports hits.
func NewBVH(primitives []Primitive, opts BVHOptions) *BVH {
	start := time.Now()

	if opts.LeafSize < 1 {
		opts.LeafSize = defaultLeafSize
	}
	if opts.MaxDepth < 1 || opts.MaxDepth > maxTreeDepth {
		opts.MaxDepth = maxTreeDepth
	}

	items := make([]buildItem, 0, len(primitives))
	var planes []int32
	for i := range primitives {
		p := &primitives[i]
		if !p.Valid() {
			continue
		}
		if p.Unbounded() {
			planes = append(planes, int32(i))
			continue
		}
		bounds := p.BoundingBox()
		if !bounds.IsFinite() || !bounds.IsValid() {
			continue
		}
		items = append(items, buildItem{index: int32(i), bounds: bounds, centroid: p.Centroid()})
	}

	bvh := &BVH{
		prims: make([]Primitive, 0, len(items)+len(planes)),
		ids:   make([]int32, 0, len(items)+len(planes)),
	}
	bvh.stats.Skipped = len(primitives) - len(items) - len(planes)

	if len(items) > 0 {
		// Rough upper bound on node count for a binary tree with small leaves
		bvh.nodes = make([]bvhNode, 0, 2*len(items)/opts.LeafSize+1)
		bvh.build(primitives, items, 0, opts)
	}

	bvh.unbounded = int32(len(bvh.prims))
	for _, i := range planes {
		bvh.prims = append(bvh.prims, primitives[i])
		bvh.ids = append(bvh.ids, i)
	}

	bvh.stats.Primitives = len(bvh.prims)
	bvh.stats.Unbounded = len(planes)
	bvh.stats.Nodes = len(bvh.nodes)
	bvh.stats.BuildTime = time.Since(start)

	logger.Debugf("built BVH over %d primitives (%d unbounded, %d skipped): %d nodes, %d leaves, depth %d in %d ms",
		bvh.stats.Primitives, bvh.stats.Unbounded, bvh.stats.Skipped, bvh.stats.Nodes, bvh.stats.Leaves,
		bvh.stats.MaxDepth, bvh.stats.BuildTime.Milliseconds())

	return bvh
}

// build appends the subtree for items to the arena and returns its root index
func (bvh *BVH) build(primitives []Primitive, items []buildItem, depth int, opts BVHOptions) int32 {
	bounds := core.EmptyAABB()
	centroidBounds := core.EmptyAABB()
	for i := range items {
		bounds = bounds.Union(items[i].bounds)
		centroidBounds = centroidBounds.Grow(items[i].centroid)
	}

	nodeIndex := int32(len(bvh.nodes))
	bvh.nodes = append(bvh.nodes, bvhNode{Bounds: bounds, Left: -1, Right: -1})

	if len(items) <= opts.LeafSize || depth >= opts.MaxDepth {
		bvh.makeLeaf(nodeIndex, primitives, items, depth)
		return nodeIndex
	}

	// Split on the axis of greatest extent; if every centroid coincides
	// fall back to the bounds so the ordering is still deterministic.
	axis := centroidBounds.LongestAxis()
	if centroidBounds.Size().Axis(axis) == 0 {
		axis = bounds.LongestAxis()
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].centroid.Axis(axis) < items[j].centroid.Axis(axis)
	})
	mid := len(items) / 2

	left := bvh.build(primitives, items[:mid], depth+1, opts)
	right := bvh.build(primitives, items[mid:], depth+1, opts)

	// Re-index after recursion since appends may have reallocated the arena
	bvh.nodes[nodeIndex].Left = left
	bvh.nodes[nodeIndex].Right = right
	return nodeIndex
}

// makeLeaf copies items into the contiguous primitive range owned by the leaf
func (bvh *BVH) makeLeaf(nodeIndex int32, primitives []Primitive, items []buildItem, depth int) {
	node := &bvh.nodes[nodeIndex]
	node.Start = int32(len(bvh.prims))
	node.Count = int32(len(items))
	for _, item := range items {
		bvh.prims = append(bvh.prims, primitives[item.index])
		bvh.ids = append(bvh.ids, item.index)
	}

	bvh.stats.Leaves++
	bvh.stats.MaxDepth = max(bvh.stats.MaxDepth, depth)
	bvh.stats.MaxLeafSize = max(bvh.stats.MaxLeafSize, len(items))
}

// traversalEntry is a pending node together with the distance at which the ray enters it
type traversalEntry struct {
	node  int32
	entry float64
}

// Intersect returns the nearest hit closer than both tMax and the ray's own TMax.
// HitRecord.Primitive carries the index of the primitive in the slice passed to NewBVH.
func (bvh *BVH) Intersect(ray core.Ray, tMax float64) (HitRecord, bool) {
	var closest HitRecord
	found := false
	bvh.traverse(ray, tMax, func(i int32, tMin, limit float64) (float64, bool) {
		var hit HitRecord
		if !bvh.prims[i].Hit(ray, tMin, limit, &hit) {
			return limit, false
		}
		hit.Primitive = int(bvh.ids[i])
		closest = hit
		found = true
		return hit.T, false
	})
	return closest, found
}

// AnyHit reports whether anything intersects the ray before tMax, stopping at the first occluder
func (bvh *BVH) AnyHit(ray core.Ray, tMax float64) bool {
	occluded := false
	bvh.traverse(ray, tMax, func(i int32, tMin, limit float64) (float64, bool) {
		var hit HitRecord
		if bvh.prims[i].Hit(ray, tMin, limit, &hit) {
			occluded = true
			return hit.T, true
		}
		return limit, false
	})
	return occluded
}

// traverse visits the unbounded planes, then walks the tree depth first,
// nearer child first, calling visit for each primitive in a leaf the ray
// reaches. visit returns the new closest distance and whether traversal
// should stop.
func (bvh *BVH) traverse(ray core.Ray, tMax float64, visit func(i int32, tMin, limit float64) (float64, bool)) {
	if len(bvh.prims) == 0 || !ray.IsValid() {
		return
	}

	tMin := ray.TMin
	limit := math.Min(tMax, ray.TMax)
	if math.IsNaN(limit) || limit < tMin {
		return
	}

	for i := bvh.unbounded; i < int32(len(bvh.prims)); i++ {
		var stop bool
		limit, stop = visit(i, tMin, limit)
		if stop {
			return
		}
	}
	if len(bvh.nodes) == 0 {
		return
	}

	rootEntry, ok := bvh.nodes[0].Bounds.Hit(ray, tMin, limit)
	if !ok {
		return
	}

	var stack [maxTreeDepth + 2]traversalEntry
	stack[0] = traversalEntry{node: 0, entry: rootEntry}
	sp := 1

	for sp > 0 {
		sp--
		current := stack[sp]

		// A closer hit was found since this node was queued
		if current.entry > limit {
			continue
		}

		node := &bvh.nodes[current.node]
		if node.isLeaf() {
			end := node.Start + node.Count
			for i := node.Start; i < end; i++ {
				var stop bool
				limit, stop = visit(i, tMin, limit)
				if stop {
					return
				}
			}
			continue
		}

		leftEntry, hitLeft := bvh.nodes[node.Left].Bounds.Hit(ray, tMin, limit)
		rightEntry, hitRight := bvh.nodes[node.Right].Bounds.Hit(ray, tMin, limit)

		switch {
		case hitLeft && hitRight:
			// Push the farther child first so the nearer one pops next; ties go left
			if rightEntry < leftEntry {
				stack[sp] = traversalEntry{node.Left, leftEntry}
				stack[sp+1] = traversalEntry{node.Right, rightEntry}
			} else {
				stack[sp] = traversalEntry{node.Right, rightEntry}
				stack[sp+1] = traversalEntry{node.Left, leftEntry}
			}
			sp += 2
		case hitLeft:
			stack[sp] = traversalEntry{node.Left, leftEntry}
			sp++
		case hitRight:
			stack[sp] = traversalEntry{node.Right, rightEntry}
			sp++
		}
	}
}

// Bounds returns the bounds of the tree, or an empty box. Unbounded planes are not included.
func (bvh *BVH) Bounds() core.AABB {
	if len(bvh.nodes) == 0 {
		return core.EmptyAABB()
	}
	return bvh.nodes[0].Bounds
}

// Len returns the number of primitives stored in the hierarchy
func (bvh *BVH) Len() int {
	return len(bvh.prims)
}

// Stats returns construction statistics
func (bvh *BVH) Stats() BVHStats {
	return bvh.stats
}
