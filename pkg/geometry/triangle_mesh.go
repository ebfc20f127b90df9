package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// ErrFaceCount is returned when the face index list is not a multiple of three
var ErrFaceCount = errors.New("geometry: face indices must be a multiple of 3")

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals   []core.Vec3 // Optional per-vertex normals (one per vertex)
	UVs       []core.Vec2 // Optional per-vertex texture coordinates (one per vertex)
	Materials []int       // Optional per-triangle material indices
	Scale     float64     // Uniform scale applied before rotation, 0 means 1
	Rotation  *core.Vec3  // Optional rotation in radians applied around Center
	Center    *core.Vec3  // Optional pivot for scaling and rotation
	Offset    core.Vec3   // Translation applied last
}

// NewTriangleMesh turns already-parsed vertex and face arrays into triangle primitives.
// faces holds groups of three vertex indices. Degenerate triangles are kept and
// later skipped by the BVH; out-of-range indices are reported as errors.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material int, options *TriangleMeshOptions) ([]Primitive, error) {
	if len(faces)%3 != 0 {
		return nil, ErrFaceCount
	}
	if options == nil {
		options = &TriangleMeshOptions{}
	}

	numTriangles := len(faces) / 3
	if options.Normals != nil && len(options.Normals) != len(vertices) {
		return nil, fmt.Errorf("geometry: got %d normals for %d vertices", len(options.Normals), len(vertices))
	}
	if options.UVs != nil && len(options.UVs) != len(vertices) {
		return nil, fmt.Errorf("geometry: got %d uvs for %d vertices", len(options.UVs), len(vertices))
	}
	if options.Materials != nil && len(options.Materials) != numTriangles {
		return nil, fmt.Errorf("geometry: got %d materials for %d triangles", len(options.Materials), numTriangles)
	}

	working := transformVertices(vertices, options)

	prims := make([]Primitive, 0, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(working) {
				return nil, fmt.Errorf("geometry: face %d references vertex %d of %d", i, idx, len(working))
			}
		}

		tri := NewTriangle(working[i0], working[i1], working[i2])
		if options.Normals != nil {
			n0 := rotateVertex(options.Normals[i0], options.Rotation)
			n1 := rotateVertex(options.Normals[i1], options.Rotation)
			n2 := rotateVertex(options.Normals[i2], options.Rotation)
			tri = tri.WithNormals(n0, n1, n2)
		}
		if options.UVs != nil {
			tri = tri.WithUVs(options.UVs[i0], options.UVs[i1], options.UVs[i2])
		}

		triMaterial := material
		if options.Materials != nil {
			triMaterial = options.Materials[i]
		}
		prims = append(prims, TrianglePrimitive(tri, triMaterial))
	}

	return prims, nil
}

// transformVertices applies scale, rotation about the pivot, and offset
func transformVertices(vertices []core.Vec3, options *TriangleMeshOptions) []core.Vec3 {
	scale := options.Scale
	if scale == 0 {
		scale = 1
	}
	var pivot core.Vec3
	if options.Center != nil {
		pivot = *options.Center
	}

	out := make([]core.Vec3, len(vertices))
	for i, vertex := range vertices {
		vertex = vertex.Subtract(pivot).Multiply(scale)
		vertex = rotateVertex(vertex, options.Rotation)
		out[i] = vertex.Add(pivot).Add(options.Offset)
	}
	return out
}

// rotateVertex applies rotation around X, Y, Z axes (in that order); nil is identity
func rotateVertex(vertex core.Vec3, rotation *core.Vec3) core.Vec3 {
	if rotation == nil {
		return vertex
	}

	if rotation.X != 0 {
		cos, sin := math.Cos(rotation.X), math.Sin(rotation.X)
		vertex = core.NewVec3(vertex.X, vertex.Y*cos-vertex.Z*sin, vertex.Y*sin+vertex.Z*cos)
	}
	if rotation.Y != 0 {
		cos, sin := math.Cos(rotation.Y), math.Sin(rotation.Y)
		vertex = core.NewVec3(vertex.X*cos+vertex.Z*sin, vertex.Y, -vertex.X*sin+vertex.Z*cos)
	}
	if rotation.Z != 0 {
		cos, sin := math.Cos(rotation.Z), math.Sin(rotation.Z)
		vertex = core.NewVec3(vertex.X*cos-vertex.Y*sin, vertex.X*sin+vertex.Y*cos, vertex.Z)
	}
	return vertex
}
