package material

import (
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/core"
)

// Image is a row-major grid of linear RGB colours, Pixels[y*Width + x], with row 0 at the top
type Image struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// NewImage creates an image from existing pixel data
func NewImage(width, height int, pixels []core.Vec3) *Image {
	return &Image{Width: width, Height: height, Pixels: pixels}
}

// NewBlankImage allocates a black image
func NewBlankImage(width, height int) *Image {
	return NewImage(width, height, make([]core.Vec3, width*height))
}

// Valid reports whether the image has pixels matching its dimensions
func (img *Image) Valid() bool {
	return img != nil && img.Width > 0 && img.Height > 0 && len(img.Pixels) >= img.Width*img.Height
}

// At returns the pixel at column x, row y
func (img *Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}

// Set writes the pixel at column x, row y
func (img *Image) Set(x, y int, c core.Vec3) {
	img.Pixels[y*img.Width+x] = c
}

// Sample looks up the nearest pixel. UV wraps into [0,1) so textures tile;
// v=0 is the bottom row and v→1 the top row.
func (img *Image) Sample(u, v float64) core.Vec3 {
	u = wrap(u)
	v = wrap(v)

	x := int(u * float64(img.Width))
	y := int((1.0 - v) * float64(img.Height))

	// v=0 maps to y=Height, and rounding can push u to Width
	x = min(max(x, 0), img.Width-1)
	y = min(max(y, 0), img.Height-1)

	return img.Pixels[y*img.Width+x]
}

// wrap maps any finite coordinate into [0,1); non-finite input maps to 0
func wrap(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	w := f - math.Floor(f)
	if w >= 1 {
		// f was a tiny negative number that rounded up
		w = 0
	}
	return w
}

// DefaultFrameDuration is the per-frame time for animated textures without an explicit duration
const DefaultFrameDuration = 0.25

// Texture is a static image or an animated sequence of images that loops in time
type Texture struct {
	Name          string
	Frames        []*Image
	FrameDuration float64 // Seconds each frame is shown; ignored for single-frame textures
}

// NewStaticTexture wraps a single image
func NewStaticTexture(name string, img *Image) *Texture {
	return &Texture{Name: name, Frames: []*Image{img}, FrameDuration: DefaultFrameDuration}
}

// NewAnimatedTexture creates a looping sequence showing each frame for frameDuration seconds
func NewAnimatedTexture(name string, frames []*Image, frameDuration float64) *Texture {
	if frameDuration <= 0 || math.IsNaN(frameDuration) || math.IsInf(frameDuration, 0) {
		frameDuration = DefaultFrameDuration
	}
	return &Texture{Name: name, Frames: frames, FrameDuration: frameDuration}
}

// Animated reports whether the texture has more than one frame
func (t *Texture) Animated() bool {
	return len(t.Frames) > 1
}

// SequenceLength returns the duration of one full animation loop, zero for static textures
func (t *Texture) SequenceLength() float64 {
	if !t.Animated() {
		return 0
	}
	return float64(len(t.Frames)) * t.FrameDuration
}

// frameSnap is the relative tolerance for treating a time as a frame boundary
const frameSnap = 1e-9

// FrameIndex returns the frame shown at the given simulation time.
// The sequence loops in both directions so negative times are valid.
func (t *Texture) FrameIndex(time float64) int {
	n := len(t.Frames)
	if n <= 1 || t.FrameDuration <= 0 || math.IsNaN(time) || math.IsInf(time, 0) {
		return 0
	}
	// Snap quotients within rounding error of a frame boundary onto it, so
	// time and time plus a whole sequence land on the same frame
	q := time / t.FrameDuration
	if r := math.Round(q); math.Abs(q-r) <= frameSnap*max(1, math.Abs(q)) {
		q = r
	}
	step := int64(math.Floor(q))
	idx := step % int64(n)
	if idx < 0 {
		idx += int64(n)
	}
	return int(idx)
}

// Frame returns the image shown at the given simulation time, or nil when the
// texture has no usable pixels
func (t *Texture) Frame(time float64) *Image {
	if t == nil || len(t.Frames) == 0 {
		return nil
	}
	img := t.Frames[t.FrameIndex(time)]
	if !img.Valid() {
		return nil
	}
	return img
}

// Sample returns the colour at (u, v) for the frame active at time, and false
// when the texture has no pixel data to sample
func (t *Texture) Sample(u, v, time float64) (core.Vec3, bool) {
	img := t.Frame(time)
	if img == nil {
		return core.Vec3{}, false
	}
	return img.Sample(u, v), true
}
