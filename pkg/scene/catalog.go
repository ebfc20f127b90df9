package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var (
	// ErrUnknownScene is returned when a catalog has no scene with the requested id
	ErrUnknownScene = errors.New("scene: unknown scene")
	// ErrDuplicateScene is returned when registering an id twice
	ErrDuplicateScene = errors.New("scene: scene already registered")
)

// SceneInfo describes a catalog entry
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// Factory builds a scene. textures may be nil; textures the scene needs but
// the store lacks are generated procedurally.
type Factory func(textures *material.TextureStore) (*Scene, error)

type catalogEntry struct {
	info    SceneInfo
	factory Factory
}

// Catalog is a registry of named scene factories
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]catalogEntry
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]catalogEntry)}
}

// DefaultCatalog returns a catalog holding the built-in demo scenes
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	builtins := []struct {
		info    SceneInfo
		factory Factory
	}{
		{SceneInfo{ID: "spheres", DisplayName: "Spheres", Group: "Basic",
			Description: "Matte, mirror and glass spheres on a checkered floor"}, NewSpheresScene},
		{SceneInfo{ID: "mirror-worlds", DisplayName: "Mirror Worlds", Group: "Worlds",
			Description: "A block world floating over a mirror that reflects a second world below"}, NewMirrorWorldsScene},
		{SceneInfo{ID: "glass", DisplayName: "Glass", Group: "Basic",
			Description: "Refractive spheres and blocks in front of a striped backdrop"}, NewGlassScene},
		{SceneInfo{ID: "sphere-grid", DisplayName: "Sphere Grid", Group: "Stress",
			Description: "A 20x20 grid of mirrored spheres coloured by OKLCH hue"}, NewSphereGridScene},
	}
	for _, b := range builtins {
		if err := c.Register(b.info, b.factory); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a scene factory under info.ID
func (c *Catalog) Register(info SceneInfo, factory Factory) error {
	if info.ID == "" || factory == nil {
		return fmt.Errorf("scene: register %q: id and factory are required", info.ID)
	}
	if info.DisplayName == "" {
		info.DisplayName = titleCase(info.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[info.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateScene, info.ID)
	}
	c.entries[info.ID] = catalogEntry{info: info, factory: factory}
	return nil
}

// Lookup returns the factory registered under id
func (c *Catalog) Lookup(id string) (Factory, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e.factory, ok
}

// Info returns the metadata registered under id
func (c *Catalog) Info(id string) (SceneInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e.info, ok
}

// Names returns every registered id in sorted order
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for id := range c.entries {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// List returns the metadata of every scene sorted by display name
func (c *Catalog) List() []SceneInfo {
	c.mu.RLock()
	infos := make([]SceneInfo, 0, len(c.entries))
	for _, e := range c.entries {
		infos = append(infos, e.info)
	}
	c.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].DisplayName < infos[j].DisplayName
	})
	return infos
}

// Groups returns the scenes bucketed by group, groups in name order
func (c *Catalog) Groups() []SceneGroup {
	byGroup := make(map[string][]SceneInfo)
	for _, info := range c.List() {
		byGroup[info.Group] = append(byGroup[info.Group], info)
	}
	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]SceneGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, SceneGroup{Name: name, Scenes: byGroup[name]})
	}
	return groups
}

// Build runs the factory registered under id
func (c *Catalog) Build(id string, textures *material.TextureStore) (*Scene, error) {
	factory, ok := c.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return factory(textures)
}

// titleCase converts "mirror-worlds" or "sphere_grid" to "Mirror Worlds" / "Sphere Grid"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
