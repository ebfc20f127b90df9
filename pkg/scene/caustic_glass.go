package scene

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewGlassScene creates refractive spheres, a glass block and two glass
// meshes in front of a striped backdrop so the bending of rays is visible
func NewGlassScene(textures *material.TextureStore) (*Scene, error) {
	b := NewBuilder("glass").UseTextures(textures)
	b.SetCamera(CameraConfig{
		Center: core.NewVec3(0, 1.6, 5.5),
		LookAt: core.NewVec3(0, 0.8, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45,
	})
	b.SetEnvironment(Daylight(0.35, 0))

	stripes := b.AddTexture(material.NewStaticTexture("stripes",
		material.NewCheckerboardImage(256, 32, 16,
			core.NewVec3(0.95, 0.9, 0.3),
			core.NewVec3(0.15, 0.15, 0.2),
		)))
	tiles := b.AddTexture(material.NewStaticTexture("tiles",
		material.NewGradientImage(128, 128,
			core.NewVec3(0.8, 0.75, 0.7),
			core.NewVec3(0.35, 0.3, 0.3),
		)))

	backdrop := b.AddMaterial(material.NewTextured(stripes).WithName("backdrop"))
	floor := b.AddMaterial(material.NewTextured(tiles).WithName("floor").WithReflectivity(0.15))
	clearGlass := b.AddMaterial(material.NewGlass(core.NewVec3(1, 1, 1), 0.95, 1.5).WithName("clear"))
	water := b.AddMaterial(material.NewGlass(core.NewVec3(0.8, 0.95, 1), 0.9, 1.33).WithName("water"))
	diamond := b.AddMaterial(material.NewGlass(core.NewVec3(0.95, 0.95, 1), 0.85, 2.42).WithName("diamond"))
	amber := b.AddMaterial(material.NewGlass(core.NewVec3(1, 0.7, 0.3), 0.8, 1.55).WithName("amber"))
	pebble := b.AddMaterial(material.NewMatte(core.NewVec3(0.7, 0.15, 0.15)).WithName("pebble"))

	b.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 12, floor)
	b.AddPlane(core.NewVec3(0, 3, -3), core.NewVec3(0, 0, 1), 6, backdrop)

	b.AddSphere(core.NewVec3(-1.6, 0.7, 0), 0.7, clearGlass)
	b.AddSphere(core.NewVec3(1.6, 0.6, 0.2), 0.6, water)
	b.AddSphere(core.NewVec3(1.6, 0.15, -1.2), 0.15, pebble)
	b.AddCube(core.NewVec3(0, 0.35, 1.2), 0.7, amber)

	ico, icoFaces, icoNormals := icosahedronMesh(0.6)
	icoCenter := core.NewVec3(0, 0.6, -0.6)
	b.AddMesh(ico, icoFaces, diamond, &geometry.TriangleMeshOptions{
		Normals: icoNormals,
		Offset:  icoCenter,
	})

	pyramid, pyramidFaces := pyramidMesh(0.8, 1.0)
	rotation := core.NewVec3(0, math.Pi/4, 0)
	b.AddMesh(pyramid, pyramidFaces, clearGlass, &geometry.TriangleMeshOptions{
		Rotation: &rotation,
		Offset:   core.NewVec3(-0.9, 0.5, 1.6),
	})

	b.AddLight(lights.NewPointLight(core.NewVec3(0, 5, 9), core.NewVec3(1.0, 0.85, 0.75), 0.7))

	return b.Build(geometry.DefaultBVHOptions())
}
