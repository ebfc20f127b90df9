package renderer

import (
	"fmt"
	"math"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
)

// maxFrameDimension bounds the width and height of a frame
const maxFrameDimension = 16384

// Options configures a FrameRenderer
type Options struct {
	Width      int     // Frame width in pixels
	Height     int     // Frame height in pixels
	NumWorkers int     // Render goroutines, 0 means one per CPU
	MaxDepth   int     // Reflection/refraction bounces
	ShadowBias float64 // Offset applied to secondary ray origins
	Gamma      float64 // Gamma used when converting to 8-bit, 1 leaves colours linear
}

// DefaultOptions returns the options used when nothing is specified
func DefaultOptions() Options {
	return Options{
		Width:      400,
		Height:     300,
		NumWorkers: 0,
		MaxDepth:   integrator.DefaultMaxDepth,
		ShadowBias: integrator.DefaultShadowBias,
		Gamma:      1.0,
	}
}

// Validate checks every option, wrapping ErrInvalidFrameSize or ErrInvalidOption
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 || o.Width > maxFrameDimension || o.Height > maxFrameDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrameSize, o.Width, o.Height)
	}
	switch {
	case o.NumWorkers < 0:
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidOption, o.NumWorkers)
	case o.MaxDepth < 0:
		return fmt.Errorf("%w: max depth must be >= 0, got %d", ErrInvalidOption, o.MaxDepth)
	case !(o.ShadowBias > 0) || math.IsInf(o.ShadowBias, 0):
		return fmt.Errorf("%w: shadow bias must be positive, got %g", ErrInvalidOption, o.ShadowBias)
	case !(o.Gamma > 0) || math.IsInf(o.Gamma, 0):
		return fmt.Errorf("%w: gamma must be positive, got %g", ErrInvalidOption, o.Gamma)
	}
	return nil
}
