package material

import (
	"math"
	"testing"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

func TestTextureStore_AddAndLookup(t *testing.T) {
	store := NewTextureStore()
	a := store.Add(NewStaticTexture("grass", quadrantImage()))
	b := store.Add(NewStaticTexture("sand", quadrantImage()))

	if a == b {
		t.Fatal("Distinct textures should receive distinct ids")
	}
	if id, ok := store.Lookup("sand"); !ok || id != b {
		t.Errorf("Lookup(sand) = %d, %v; want %d, true", id, ok, b)
	}
	if _, ok := store.Lookup("missing"); ok {
		t.Error("Lookup of unknown name should fail")
	}

	// Replacing keeps the id
	replacement := NewStaticTexture("grass", NewImage(1, 1, []core.Vec3{core.NewVec3(0, 1, 0)}))
	if id := store.Add(replacement); id != a {
		t.Errorf("Replacing texture changed id from %d to %d", a, id)
	}
	if store.Len() != 2 {
		t.Errorf("Expected 2 textures, got %d", store.Len())
	}
	names := store.Names()
	if len(names) != 2 || names[0] != "grass" || names[1] != "sand" {
		t.Errorf("Names() = %v, want [grass sand]", names)
	}
}

func TestTextureStore_CloneIsIndependent(t *testing.T) {
	store := NewTextureStore()
	grass := store.Add(NewStaticTexture("grass", quadrantImage()))

	clone := store.Clone()
	clone.Add(NewStaticTexture("water", quadrantImage()))

	if store.Len() != 1 {
		t.Errorf("Original store grew to %d textures", store.Len())
	}
	if _, ok := store.Lookup("water"); ok {
		t.Error("Texture added to clone is visible in original")
	}
	if id, ok := clone.Lookup("grass"); !ok || id != grass {
		t.Errorf("Clone lost grass: id=%d ok=%v", id, ok)
	}
	if clone.Get(grass) != store.Get(grass) {
		t.Error("Clone should share texture data")
	}
}

func TestTextureStore_SampleFallback(t *testing.T) {
	store := NewTextureStore()
	empty := store.Add(&Texture{Name: "unloaded"})

	tests := []struct {
		name string
		id   TextureID
	}{
		{"no texture", NoTexture},
		{"unknown id", TextureID(99)},
		{"texture without pixels", empty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, uv := range [][2]float64{{0.01, 0.01}, {0.2, 0.01}, {0.9, 0.7}} {
				got := store.Sample(tt.id, uv[0], uv[1], 3.5, 2)
				want := Fallback(uv[0], uv[1], 2)
				if got != want {
					t.Errorf("Sample(%v) = %v, want fallback %v", uv, got, want)
				}
			}
		})
	}
}

func TestFallback_DeterministicChecker(t *testing.T) {
	// Adjacent cells alternate
	a := Fallback(0.01, 0.01, 0)
	b := Fallback(0.01+1.0/fallbackCells, 0.01, 0)
	if a == b {
		t.Error("Adjacent checker cells should differ")
	}
	if a != core.NewVec3(1, 0, 1) {
		t.Errorf("Key 0 first cell should be magenta, got %v", a)
	}

	// Same inputs, same outputs; wrapped inputs agree
	for i := 0; i < 3; i++ {
		if Fallback(0.3, 0.7, 5) != Fallback(0.3, 0.7, 5) {
			t.Fatal("Fallback should be deterministic")
		}
	}
	if Fallback(0.3, 0.7, 1) != Fallback(2.3, -1.3, 1) {
		t.Error("Fallback should wrap UVs")
	}

	// Different keys pick different palettes
	if Fallback(0.01, 0.01, 0) == Fallback(0.01, 0.01, 1) {
		t.Error("Different fallback keys should be distinguishable")
	}
}

func TestFallback_AnyKeyPicksPaletteColour(t *testing.T) {
	inPalette := func(c core.Vec3) bool {
		for _, pair := range fallbackPalette {
			if c == pair[0] || c == pair[1] {
				return true
			}
		}
		return false
	}

	for _, key := range []int{math.MinInt, math.MinInt + 1, -7, -1, 0, 4, math.MaxInt} {
		for _, uv := range [][2]float64{{0.01, 0.01}, {0.2, 0.9}} {
			if got := Fallback(uv[0], uv[1], key); !inPalette(got) {
				t.Errorf("Fallback(%v, %v, %d) = %v, not a palette colour", uv[0], uv[1], key, got)
			}
		}
	}

	// Negative keys step through the palette like positive ones
	n := len(fallbackPalette)
	if Fallback(0.01, 0.01, -1) != Fallback(0.01, 0.01, n-1) {
		t.Error("Key -1 should wrap to the last palette entry")
	}
}

func TestNilStoreSamplesFallback(t *testing.T) {
	var store *TextureStore
	if got, want := store.Sample(0, 0.5, 0.5, 0, 1), Fallback(0.5, 0.5, 1); got != want {
		t.Errorf("nil store Sample = %v, want %v", got, want)
	}
}
