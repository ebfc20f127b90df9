package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// PixelBuffer holds linear colours for one frame in row-major order
type PixelBuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewPixelBuffer allocates a black buffer
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{Width: width, Height: height, Pixels: make([]core.Vec3, width*height)}
}

// Set stores the colour of pixel (x, y)
func (b *PixelBuffer) Set(x, y int, c core.Vec3) {
	b.Pixels[y*b.Width+x] = c
}

// At returns the colour of pixel (x, y)
func (b *PixelBuffer) At(x, y int) core.Vec3 {
	return b.Pixels[y*b.Width+x]
}

// Row returns the pixels of row y. Workers write through it; rows never overlap.
func (b *PixelBuffer) Row(y int) []core.Vec3 {
	return b.Pixels[y*b.Width : (y+1)*b.Width]
}

// ToRGBA converts the buffer to 8-bit colour, applying gamma correction
func (b *PixelBuffer) ToRGBA(gamma float64) *image.RGBA {
	if gamma <= 0 {
		gamma = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x, c := range b.Row(y) {
			c = c.Clamp(0, 1).GammaCorrect(gamma)
			img.SetRGBA(x, y, color.RGBA{
				R: toByte(c.X),
				G: toByte(c.Y),
				B: toByte(c.Z),
				A: 255,
			})
		}
	}
	return img
}

// toByte maps [0,1] to [0,255] with rounding
func toByte(f float64) uint8 {
	if !(f > 0) {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}
