package material

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

// ToRGBA converts the image to 8-bit RGBA, clamping each channel to [0,1]
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y).Clamp(0, 1)
			out.SetRGBA(x, y, color.RGBA{
				R: uint8(c.X*255 + 0.5),
				G: uint8(c.Y*255 + 0.5),
				B: uint8(c.Z*255 + 0.5),
				A: 255,
			})
		}
	}
	return out
}

// ExportFileNames lists the files Export writes for a texture: name.png for a
// static texture, name_0.png ... name_N.png for an animated one
func ExportFileNames(tex *Texture) []string {
	if !tex.Animated() {
		return []string{tex.Name + ".png"}
	}
	names := make([]string, len(tex.Frames))
	for i := range tex.Frames {
		names[i] = fmt.Sprintf("%s_%d.png", tex.Name, i)
	}
	return names
}

// Export writes every texture with pixel data into dir as PNG files and
// returns the number of files written. The store itself is not modified.
func (s *TextureStore) Export(dir string) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("texture export: %w", err)
	}

	written := 0
	for _, tex := range s.textures {
		if tex == nil {
			continue
		}
		names := ExportFileNames(tex)
		for i, img := range tex.Frames {
			if !img.Valid() {
				continue
			}
			path := filepath.Join(dir, names[i])
			if err := writePNG(path, img); err != nil {
				return written, fmt.Errorf("texture export %s: %w", tex.Name, err)
			}
			written++
		}
	}
	return written, nil
}

func writePNG(path string, img *Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img.ToRGBA()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
