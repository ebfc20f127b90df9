package loaders

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/material"
)

var logger = log.New("loaders")

// frameName matches animation frames such as water_3.png
var frameName = regexp.MustCompile(`^(.+)_(\d+)$`)

// imageExtensions lists the file suffixes LoadTextureDir will try to decode
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// TextureDirOptions controls how a texture directory is turned into textures
type TextureDirOptions struct {
	// FrameDurations overrides the per-frame time of named animated textures
	FrameDurations map[string]float64
	// DefaultFrameDuration applies to animations missing from FrameDurations
	DefaultFrameDuration float64
}

// DefaultTextureDirOptions returns frame timings for the built-in animated surfaces
func DefaultTextureDirOptions() TextureDirOptions {
	return TextureDirOptions{
		FrameDurations: map[string]float64{
			"water":  0.3,
			"lava":   0.2,
			"portal": 0.15,
		},
		DefaultFrameDuration: material.DefaultFrameDuration,
	}
}

// frameFile is one decoded candidate for an animation
type frameFile struct {
	index int
	path  string
}

// LoadTextureDir decodes every image in dir into store. Files named name_N
// become frame N of an animated texture called name; other files become static
// textures named after the file. A missing directory loads nothing and is not
// an error; unreadable images are logged and skipped. Returns the number of
// textures added.
func LoadTextureDir(dir string, store *material.TextureStore, opts TextureDirOptions) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warningf("texture directory %q not found, using procedural fallback", dir)
			return 0, nil
		}
		return 0, err
	}

	static := make(map[string]string)
	animated := make(map[string][]frameFile)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !imageExtensions[ext] {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		path := filepath.Join(dir, entry.Name())

		if m := frameName.FindStringSubmatch(base); m != nil {
			idx, err := strconv.Atoi(m[2])
			if err == nil {
				animated[m[1]] = append(animated[m[1]], frameFile{index: idx, path: path})
				continue
			}
		}
		static[base] = path
	}

	loaded := 0
	for _, name := range sortedKeys(static) {
		// Animation frames win over a same-named still
		if _, ok := animated[name]; ok {
			continue
		}
		img, err := LoadImage(static[name])
		if err != nil {
			logger.Warningf("skipping texture %s: %v", name, err)
			continue
		}
		store.Add(material.NewStaticTexture(name, img))
		loaded++
	}

	for _, name := range sortedKeys(animated) {
		files := animated[name]
		sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

		frames := make([]*material.Image, 0, len(files))
		for _, f := range files {
			img, err := LoadImage(f.path)
			if err != nil {
				logger.Warningf("skipping frame %d of %s: %v", f.index, name, err)
				continue
			}
			frames = append(frames, img)
		}
		if len(frames) == 0 {
			continue
		}

		duration, ok := opts.FrameDurations[name]
		if !ok {
			duration = opts.DefaultFrameDuration
		}
		store.Add(material.NewAnimatedTexture(name, frames, duration))
		loaded++
	}

	logger.Infof("loaded %d textures from %s", loaded, dir)
	return loaded, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
