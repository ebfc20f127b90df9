package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// testPattern returns a 2x2 image with white, red, green and blue pixels
func testPattern() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(0, 1, color.RGBA{R: 0, G: 255, B: 0, A: 255})
	img.Set(1, 1, color.RGBA{R: 0, G: 0, B: 255, A: 255})
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
}

func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")
	writePNG(t, testFile, testPattern())

	img, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if img.Width != 2 || img.Height != 2 {
		t.Fatalf("Expected 2x2 image, got %dx%d", img.Width, img.Height)
	}

	expected := []core.Vec3{
		core.NewVec3(1, 1, 1),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1),
	}
	for i, want := range expected {
		if img.Pixels[i].Subtract(want).Length() > 1e-6 {
			t.Errorf("Pixel %d: expected %v, got %v", i, want, img.Pixels[i])
		}
	}
}

func TestDecodeImage_BMP(t *testing.T) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, testPattern()); err != nil {
		t.Fatalf("Failed to encode BMP: %v", err)
	}

	img, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage failed on BMP: %v", err)
	}
	if got := img.At(1, 0); math.Abs(got.X-1) > 1e-6 || got.Y != 0 || got.Z != 0 {
		t.Errorf("Expected red at (1,0), got %v", got)
	}
}

func TestLoadImage_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadImage(garbage)
	if err == nil {
		t.Fatal("Expected error for undecodable file")
	}
	if !strings.Contains(err.Error(), "garbage.png") {
		t.Errorf("Error should name the file, got %v", err)
	}
}
