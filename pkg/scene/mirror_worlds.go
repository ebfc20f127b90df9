package scene

import (
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/geometry"
	"github.com/df07/go-whitted-raytracer/pkg/lights"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

const (
	islandRadius = 4 // Blocks from the island centre to its edge
	islandHeight = 3 // Height of the top surface above the mirror
	waveSize     = 64
	waveFrames   = 8
)

// blockPalette holds the material index for every block type in a world
type blockPalette struct {
	top, under, trunk, leaves, liquid, light int
}

// NewMirrorWorldsScene creates a block island floating above a horizontal
// mirror, with a darker nether island hanging below it. Water and lava are
// animated textures; torches and glowstone are emissive blocks with a point
// light inside.
func NewMirrorWorldsScene(textures *material.TextureStore) (*Scene, error) {
	b := NewBuilder("mirror-worlds").UseTextures(textures)
	b.SetCamera(CameraConfig{
		Center: core.NewVec3(11, 7, 13),
		LookAt: core.NewVec3(0, 1.5, 0),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45,
	})
	b.SetEnvironment(Daylight(0.42, 0))

	over := blockPalette{
		top:    b.AddMaterial(blockMaterial(b, "grass", core.NewVec3(0.35, 0.6, 0.2), core.NewVec3(0.25, 0.5, 0.15))),
		under:  b.AddMaterial(blockMaterial(b, "dirt", core.NewVec3(0.5, 0.35, 0.2), core.NewVec3(0.4, 0.28, 0.15))),
		trunk:  b.AddMaterial(blockMaterial(b, "wood", core.NewVec3(0.45, 0.3, 0.15), core.NewVec3(0.35, 0.22, 0.1))),
		leaves: b.AddMaterial(blockMaterial(b, "leaves", core.NewVec3(0.2, 0.5, 0.15), core.NewVec3(0.1, 0.35, 0.1))),
		liquid: b.AddMaterial(liquidMaterial(b, "water", core.NewVec3(0.1, 0.3, 0.7), core.NewVec3(0.3, 0.55, 0.9), 0.3).
			WithReflectivity(0.4)),
		light: b.AddMaterial(material.NewEmissive(core.NewVec3(2.5, 1.2, 0.3)).WithName("torch")),
	}
	nether := blockPalette{
		top:    b.AddMaterial(blockMaterial(b, "netherrack", core.NewVec3(0.45, 0.12, 0.1), core.NewVec3(0.3, 0.08, 0.08))),
		under:  b.AddMaterial(blockMaterial(b, "nether_brick", core.NewVec3(0.25, 0.08, 0.1), core.NewVec3(0.15, 0.05, 0.06))),
		trunk:  b.AddMaterial(blockMaterial(b, "crimson_stem", core.NewVec3(0.5, 0.1, 0.2), core.NewVec3(0.3, 0.05, 0.12))),
		leaves: b.AddMaterial(blockMaterial(b, "wart", core.NewVec3(0.6, 0.05, 0.05), core.NewVec3(0.4, 0.02, 0.02))),
		liquid: b.AddMaterial(liquidMaterial(b, "lava", core.NewVec3(0.9, 0.3, 0.05), core.NewVec3(1.0, 0.7, 0.1), 0.2)),
		light:  b.AddMaterial(material.NewEmissive(core.NewVec3(1.2, 0.5, 0.1)).WithName("glowstone")),
	}

	addIsland(b, islandHeight, 1, over)
	addIsland(b, -islandHeight, -1, nether)

	mirror := b.AddMaterial(material.NewMirror(core.NewVec3(0.9, 0.9, 0.95), 0.75).WithName("mirror"))
	b.AddPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), islandRadius+3, mirror)

	b.AddLight(lights.NewPointLight(core.NewVec3(0, islandHeight+1.5, -2), core.NewVec3(1, 0.7, 0.3), 0.8))
	b.AddLight(lights.NewPointLight(core.NewVec3(0, -islandHeight-1.5, -2), core.NewVec3(1, 0.4, 0.1), 0.6))

	return b.Build(geometry.DefaultBVHOptions())
}

// addIsland lays out one world. up is +1 for the overworld and -1 for the
// nether, which grows downward from its surface at y.
func addIsland(b *Builder, y, up float64, p blockPalette) {
	for x := -islandRadius; x <= islandRadius; x++ {
		for z := -islandRadius; z <= islandRadius; z++ {
			fx, fz := float64(x), float64(z)
			surface := p.top
			if x >= 1 && x <= 2 && z >= 1 && z <= 2 {
				surface = p.liquid
			}
			b.AddCube(core.NewVec3(fx, y, fz), 1, surface)
			if abs(x)+abs(z) <= islandRadius+1 {
				b.AddCube(core.NewVec3(fx, y-up, fz), 1, p.under)
			}
			if abs(x)+abs(z) <= islandRadius-1 {
				b.AddCube(core.NewVec3(fx, y-2*up, fz), 1, p.under)
			}
		}
	}

	// Tree
	trunkX, trunkZ := -2.0, -2.0
	for h := 1; h <= 3; h++ {
		b.AddCube(core.NewVec3(trunkX, y+float64(h)*up, trunkZ), 1, p.trunk)
	}
	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			b.AddCube(core.NewVec3(trunkX+float64(dx), y+4*up, trunkZ+float64(dz)), 1, p.leaves)
		}
	}
	b.AddCube(core.NewVec3(trunkX, y+5*up, trunkZ), 1, p.leaves)

	// Light block on a short post
	b.AddCube(core.NewVec3(0, y+0.6*up, -2), 0.2, p.trunk)
	b.AddCube(core.NewVec3(0, y+0.85*up, -2), 0.3, p.light)
}

// blockMaterial returns a matte material using the named texture, creating a
// procedural checker when the store has no texture by that name
func blockMaterial(b *Builder, name string, c1, c2 core.Vec3) material.Material {
	id := b.AddTexture(material.NewStaticTexture(name, material.NewCheckerboardImage(16, 16, 4, c1, c2)))
	return material.NewTextured(id).WithName(name).WithSpecular(8, 0.05)
}

// liquidMaterial returns a matte material using the named animated texture,
// creating a procedural ripple when the store has no texture by that name
func liquidMaterial(b *Builder, name string, c1, c2 core.Vec3, frameDuration float64) material.Material {
	id := b.AddTexture(material.NewAnimatedTexture(name, material.NewWaveFrames(waveSize, waveFrames, c1, c2), frameDuration))
	return material.NewTextured(id).WithName(name)
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}
