package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// NewCheckerboardImage creates a checkerboard pattern image
func NewCheckerboardImage(width, height, checkSize int, color1, color2 core.Vec3) *Image {
	img := NewBlankImage(width, height)
	if checkSize < 1 {
		checkSize = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				img.Set(x, y, color1)
			} else {
				img.Set(x, y, color2)
			}
		}
	}

	return img
}

// NewGradientImage creates a vertical gradient from color1 (top) to color2 (bottom)
func NewGradientImage(width, height int, color1, color2 core.Vec3) *Image {
	img := NewBlankImage(width, height)

	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		c := color1.Lerp(color2, t)
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	return img
}

// NewWaveFrames builds an animated ripple: each frame shifts a sine band
// between the two colours by one step of the cycle. Used for water, lava and
// portal style surfaces.
func NewWaveFrames(size, frames int, color1, color2 core.Vec3) []*Image {
	out := make([]*Image, frames)
	for f := 0; f < frames; f++ {
		phase := 2 * math.Pi * float64(f) / float64(frames)
		img := NewBlankImage(size, size)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				fx := float64(x) / float64(size)
				fy := float64(y) / float64(size)
				s := 0.5 + 0.25*math.Sin(2*math.Pi*fx*2+phase) + 0.25*math.Sin(2*math.Pi*fy*3-phase)
				img.Set(x, y, color1.Lerp(color2, s))
			}
		}
		out[f] = img
	}
	return out
}
