package renderer

import (
	"time"
)

// WorkerStats records what one worker did during a pass
type WorkerStats struct {
	ID   int           // Worker index
	Rows int           // Rows rendered
	Busy time.Duration // Time spent shading
}

// FrameStats contains statistics about one rendered frame
type FrameStats struct {
	Scene      string        // Scene name
	Width      int           // Frame width in pixels
	Height     int           // Frame height in pixels
	Rows       int           // Rows completed
	Primitives int           // Primitives in the scene BVH
	MaxDepth   int           // Bounce limit used
	Time       float64       // Simulation time the frame was rendered at
	Duration   time.Duration // Wall-clock time for the pass
	Workers    []WorkerStats // Per-worker breakdown
}

// Pixels returns the number of pixels in the frame
func (s FrameStats) Pixels() int {
	return s.Width * s.Height
}

// PixelsPerSecond returns the shading throughput of the pass
func (s FrameStats) PixelsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Rows*s.Width) / s.Duration.Seconds()
}

// Complete reports whether every row was rendered
func (s FrameStats) Complete() bool {
	return s.Rows == s.Height
}
