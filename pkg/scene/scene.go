package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var logger = log.New("scene")

// ErrMaterialIndex is returned when a primitive refers to a material that was never added
var ErrMaterialIndex = errors.New("scene: primitive references unknown material")

// CameraConfig is the viewpoint a scene suggests for itself
type CameraConfig struct {
	Center core.Vec3 // Eye position
	LookAt core.Vec3 // Point the camera looks at
	Up     core.Vec3 // Up direction
	VFov   float64   // Vertical field of view in degrees
}

// Scene contains everything the integrator needs. A built scene is never
// modified, so it can be shared by all render workers without locking.
type Scene struct {
	Name        string
	Primitives  []geometry.Primitive
	Materials   []material.Material
	Textures    *material.TextureStore
	Lights      []lights.Light
	BVH         *geometry.BVH
	Camera      CameraConfig
	Environment Environment // Suggested environment when the caller supplies none
}

// Material returns the material for the given index, or a neutral grey matte for bad indices
func (s *Scene) Material(index int) *material.Material {
	if index < 0 || index >= len(s.Materials) {
		return &fallbackMaterial
	}
	return &s.Materials[index]
}

var fallbackMaterial = material.NewMatte(core.Splat(0.5))

// PrimitiveCount returns the number of primitives that made it into the BVH
func (s *Scene) PrimitiveCount() int {
	if s.BVH == nil {
		return 0
	}
	return s.BVH.Len()
}

// Builder assembles primitives, materials, textures and lights, then freezes
// them into a Scene with a BVH
type Builder struct {
	name       string
	primitives []geometry.Primitive
	materials  []material.Material
	textures   *material.TextureStore
	lights     []lights.Light
	camera     CameraConfig
	env        Environment
	err        error
}

// NewBuilder starts an empty scene with a default camera and daytime environment
func NewBuilder(name string) *Builder {
	return &Builder{
		name:     name,
		textures: material.NewTextureStore(),
		camera: CameraConfig{
			Center: core.NewVec3(0, 1, 4),
			LookAt: core.NewVec3(0, 0, 0),
			Up:     core.NewVec3(0, 1, 0),
			VFov:   60,
		},
		env: Daylight(0.5, 0),
	}
}

// UseTextures seeds the builder with the textures of store, e.g. ones loaded
// from disk. The store itself is not modified by later AddTexture calls.
func (b *Builder) UseTextures(store *material.TextureStore) *Builder {
	if store != nil {
		b.textures = store.Clone()
	}
	return b
}

// Textures returns the store textures are added to
func (b *Builder) Textures() *material.TextureStore {
	return b.textures
}

// AddTexture registers a texture, keeping any texture of the same name already loaded
func (b *Builder) AddTexture(tex *material.Texture) material.TextureID {
	if id, ok := b.textures.Lookup(tex.Name); ok {
		return id
	}
	return b.textures.Add(tex)
}

// AddMaterial registers a material and returns its index
func (b *Builder) AddMaterial(m material.Material) int {
	b.materials = append(b.materials, m)
	return len(b.materials) - 1
}

// Add appends an already constructed primitive
func (b *Builder) Add(p geometry.Primitive) *Builder {
	b.primitives = append(b.primitives, p)
	return b
}

// AddSphere adds a sphere
func (b *Builder) AddSphere(center core.Vec3, radius float64, mat int) *Builder {
	return b.Add(geometry.SpherePrimitive(geometry.NewSphere(center, radius), mat))
}

// AddTriangle adds a flat triangle
func (b *Builder) AddTriangle(v0, v1, v2 core.Vec3, mat int) *Builder {
	return b.Add(geometry.TrianglePrimitive(geometry.NewTriangle(v0, v1, v2), mat))
}

// AddPlane adds a plane; extent 0 makes it unbounded
func (b *Builder) AddPlane(point, normal core.Vec3, extent float64, mat int) *Builder {
	return b.Add(geometry.PlanePrimitive(geometry.NewBoundedPlane(point, normal, extent), mat))
}

// AddCube adds an axis-aligned cube
func (b *Builder) AddCube(center core.Vec3, edge float64, mat int) *Builder {
	return b.Add(geometry.BoxPrimitive(geometry.NewCube(center, edge), mat))
}

// AddBox adds an axis-aligned box with the given half extents
func (b *Builder) AddBox(center, halfSize core.Vec3, mat int) *Builder {
	return b.Add(geometry.BoxPrimitive(geometry.NewBox(center, halfSize), mat))
}

// AddMesh adds triangles from parsed vertex and face arrays. The first error is
// remembered and reported by Build.
func (b *Builder) AddMesh(vertices []core.Vec3, faces []int, mat int, opts *geometry.TriangleMeshOptions) *Builder {
	prims, err := geometry.NewTriangleMesh(vertices, faces, mat, opts)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.primitives = append(b.primitives, prims...)
	return b
}

// AddLight appends a light
func (b *Builder) AddLight(l lights.Light) *Builder {
	b.lights = append(b.lights, l)
	return b
}

// SetCamera sets the suggested camera
func (b *Builder) SetCamera(cfg CameraConfig) *Builder {
	b.camera = cfg
	return b
}

// SetEnvironment sets the suggested sky and sun
func (b *Builder) SetEnvironment(env Environment) *Builder {
	b.env = env
	return b
}

// Build validates materials and material references and constructs the BVH.
// Degenerate primitives are not an error; the BVH skips them.
func (b *Builder) Build(opts geometry.BVHOptions) (*Scene, error) {
	if b.err != nil {
		return nil, fmt.Errorf("scene %s: %w", b.name, b.err)
	}

	for i := range b.materials {
		if err := b.materials[i].Validate(); err != nil {
			return nil, fmt.Errorf("scene %s: material %d (%s): %w", b.name, i, b.materials[i].Name, err)
		}
	}
	for i, p := range b.primitives {
		if p.Material < 0 || p.Material >= len(b.materials) {
			return nil, fmt.Errorf("scene %s: primitive %d material %d: %w", b.name, i, p.Material, ErrMaterialIndex)
		}
	}

	bvh := geometry.NewBVH(b.primitives, opts)
	if skipped := bvh.Stats().Skipped; skipped > 0 {
		logger.Warningf("scene %s: skipped %d malformed primitives", b.name, skipped)
	}

	s := &Scene{
		Name:        b.name,
		Primitives:  b.primitives,
		Materials:   b.materials,
		Textures:    b.textures,
		Lights:      b.lights,
		BVH:         bvh,
		Camera:      b.camera,
		Environment: b.env,
	}
	logger.Infof("scene %s ready: %d primitives, %d materials, %d textures, %d lights",
		s.Name, s.PrimitiveCount(), len(s.Materials), s.Textures.Len(), len(s.Lights))
	return s, nil
}
