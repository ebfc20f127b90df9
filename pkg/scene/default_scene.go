package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

// NewSpheresScene creates the default scene: matte, mirror and glass spheres
// resting on a checkered floor under the midday sun
func NewSpheresScene(textures *material.TextureStore) (*Scene, error) {
	b := NewBuilder("spheres").UseTextures(textures)
	b.SetCamera(CameraConfig{
		Center: core.NewVec3(0, 1.25, 3.5),
		LookAt: core.NewVec3(0, 0.5, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   40,
	})
	b.SetEnvironment(Daylight(0.45, 0))

	checker := b.AddTexture(material.NewStaticTexture("checker",
		material.NewCheckerboardImage(256, 256, 32,
			core.NewVec3(0.85, 0.85, 0.85),
			core.NewVec3(0.25, 0.3, 0.35),
		)))

	floor := b.AddMaterial(material.NewTextured(checker).WithName("floor").WithReflectivity(0.1))
	red := b.AddMaterial(material.NewMatte(core.NewVec3(0.65, 0.25, 0.2)).WithName("red"))
	blue := b.AddMaterial(material.NewMatte(core.NewVec3(0.1, 0.2, 0.5)).WithName("blue"))
	silver := b.AddMaterial(material.NewMirror(core.NewVec3(0.9, 0.9, 0.9), 0.85).WithName("silver"))
	gold := b.AddMaterial(material.NewMirror(core.NewVec3(0.8, 0.6, 0.2), 0.6).WithName("gold"))
	glass := b.AddMaterial(material.NewGlass(core.NewVec3(1, 1, 1), 0.9, 1.5).WithName("glass"))

	b.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 40, floor)
	b.AddSphere(core.NewVec3(0, 0.5, -1), 0.5, red)
	b.AddSphere(core.NewVec3(-1.1, 0.5, -1), 0.5, silver)
	b.AddSphere(core.NewVec3(1.1, 0.5, -1), 0.5, gold)
	b.AddSphere(core.NewVec3(0.5, 0.25, -0.2), 0.25, glass)
	b.AddSphere(core.NewVec3(-0.5, 0.2, -0.2), 0.2, blue)

	b.AddLight(lights.NewPointLight(core.NewVec3(3, 4, 2), core.NewVec3(1.0, 0.95, 0.9), 0.6))

	return b.Build(geometry.DefaultBVHOptions())
}
