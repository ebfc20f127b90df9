package material

import (
	"math"
	"sort"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// TextureID identifies a texture inside a TextureStore
type TextureID int

// NoTexture marks a material that uses its solid colour
const NoTexture TextureID = -1

// fallbackCells is the number of checker cells along each UV axis of the fallback pattern
const fallbackCells = 8

// fallbackPalette holds the colour pairs used by the missing-texture checker.
// The pair is chosen by key so different materials stay distinguishable.
var fallbackPalette = [][2]core.Vec3{
	{core.NewVec3(1, 0, 1), core.NewVec3(0, 0, 0)},
	{core.NewVec3(0, 1, 1), core.NewVec3(0.1, 0.1, 0.1)},
	{core.NewVec3(1, 1, 0), core.NewVec3(0.2, 0, 0.2)},
	{core.NewVec3(1, 0.5, 0), core.NewVec3(0, 0, 0.3)},
	{core.NewVec3(0.5, 1, 0.5), core.NewVec3(0.3, 0, 0)},
}

// Fallback returns the deterministic checker colour used when a texture has no pixels
func Fallback(u, v float64, key int) core.Vec3 {
	n := len(fallbackPalette)
	pair := fallbackPalette[(key%n+n)%n]

	cu := int(math.Floor(wrap(u) * fallbackCells))
	cv := int(math.Floor(wrap(v) * fallbackCells))
	if (cu+cv)%2 == 0 {
		return pair[0]
	}
	return pair[1]
}

// TextureStore owns every texture used by a scene. It is filled before
// rendering and only read afterwards, so concurrent sampling needs no locks.
type TextureStore struct {
	textures []*Texture
	byName   map[string]TextureID
}

// NewTextureStore creates an empty store
func NewTextureStore() *TextureStore {
	return &TextureStore{byName: make(map[string]TextureID)}
}

// Add registers a texture under its name and returns its id. Adding a name
// that already exists replaces the earlier texture but keeps its id.
func (s *TextureStore) Add(tex *Texture) TextureID {
	if id, ok := s.byName[tex.Name]; ok {
		s.textures[id] = tex
		return id
	}
	id := TextureID(len(s.textures))
	s.textures = append(s.textures, tex)
	s.byName[tex.Name] = id
	return id
}

// Clone returns a store sharing the same textures whose name table can be
// extended independently of s
func (s *TextureStore) Clone() *TextureStore {
	c := NewTextureStore()
	if s == nil {
		return c
	}
	c.textures = append(c.textures, s.textures...)
	for name, id := range s.byName {
		c.byName[name] = id
	}
	return c
}

// Lookup returns the id of the named texture
func (s *TextureStore) Lookup(name string) (TextureID, bool) {
	if s == nil {
		return NoTexture, false
	}
	id, ok := s.byName[name]
	return id, ok
}

// Get returns the texture for id, or nil when the id is unknown
func (s *TextureStore) Get(id TextureID) *Texture {
	if s == nil || id < 0 || int(id) >= len(s.textures) {
		return nil
	}
	return s.textures[id]
}

// Len returns the number of registered textures
func (s *TextureStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.textures)
}

// Names returns the registered texture names in sorted order
func (s *TextureStore) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sample returns the texture colour at (u, v) for the given simulation time.
// Unknown ids and textures without pixels produce the fallback checker keyed
// by fallbackKey; sampling never fails.
func (s *TextureStore) Sample(id TextureID, u, v, time float64, fallbackKey int) core.Vec3 {
	if tex := s.Get(id); tex != nil {
		if c, ok := tex.Sample(u, v, time); ok {
			return c
		}
	}
	return Fallback(u, v, fallbackKey)
}
