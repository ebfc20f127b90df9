package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Helpers producing vertex and face arrays for Builder.AddMesh

// pyramidMesh returns a square-based pyramid centred on the origin
func pyramidMesh(baseSize, height float64) ([]core.Vec3, []int) {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}

	faces := []int{
		// Base
		0, 2, 1, 0, 3, 2,
		// Sides
		0, 1, 4,
		1, 2, 4,
		2, 3, 4,
		3, 0, 4,
	}
	return vertices, faces
}

// icosahedronMesh returns a 20-sided polyhedron of the given circumradius
// centred on the origin, with smooth per-vertex normals
func icosahedronMesh(radius float64) ([]core.Vec3, []int, []core.Vec3) {
	phi := (1 + math.Sqrt(5)) / 2
	scale := radius / math.Sqrt(1+phi*phi)

	vertices := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0),
		core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi),
		core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1),
		core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	normals := make([]core.Vec3, len(vertices))
	for i, v := range vertices {
		normals[i] = v.Normalize()
		vertices[i] = v.Multiply(scale)
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}
	return vertices, faces, normals
}
