package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

var logger = log.New("renderer")

// FrameRenderer renders whole frames, one row per worker task
type FrameRenderer struct {
	opts       Options
	integrator integrator.Integrator
	pool       *WorkerPool
}

// NewFrameRenderer validates opts and creates a renderer using the Whitted integrator
func NewFrameRenderer(opts Options) (*FrameRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &FrameRenderer{
		opts:       opts,
		integrator: integrator.NewWhittedIntegrator(opts.MaxDepth, opts.ShadowBias),
		pool:       NewWorkerPool(opts.NumWorkers),
	}, nil
}

// WithIntegrator returns a renderer sharing r's options that shades with in
func (r *FrameRenderer) WithIntegrator(in integrator.Integrator) *FrameRenderer {
	return &FrameRenderer{opts: r.opts, integrator: in, pool: r.pool}
}

// Options returns the renderer's options
func (r *FrameRenderer) Options() Options {
	return r.opts
}

// Render shades every pixel of one frame. env may be nil to use the scene's
// own environment; either way it is copied once and the copy is used for the
// whole pass. The scene must not be modified until Render returns. On
// cancellation the partial buffer is discarded and the error wraps both
// ErrInterrupted and the context error.
func (r *FrameRenderer) Render(ctx context.Context, sc *scene.Scene, cam *Camera, env *scene.Environment) (*PixelBuffer, FrameStats, error) {
	if sc == nil {
		return nil, FrameStats{}, ErrSceneNotDefined
	}
	if cam == nil {
		return nil, FrameStats{}, ErrCameraNotDefined
	}
	width, height := r.opts.Width, r.opts.Height

	frameEnv := sc.Environment
	if env != nil {
		frameEnv = *env
	}
	view := cam.view(width, height)

	stats := FrameStats{
		Scene:      sc.Name,
		Width:      width,
		Height:     height,
		Primitives: sc.PrimitiveCount(),
		MaxDepth:   r.opts.MaxDepth,
		Time:       frameEnv.Time,
	}
	logger.Debugf("render %s: %dx%d, %d workers, t=%.3f", sc.Name, width, height, r.pool.NumWorkers(), frameEnv.Time)

	buffer := NewPixelBuffer(width, height)
	start := time.Now()
	workers, err := r.pool.Run(ctx, height, func(y int) {
		row := buffer.Row(y)
		for x := range row {
			row[x] = r.integrator.Shade(view.ray(x, y), sc, &frameEnv, 0)
		}
	})
	stats.Duration = time.Since(start)
	stats.Workers = workers
	for _, w := range workers {
		stats.Rows += w.Rows
	}

	if err != nil {
		logger.Infof("render %s interrupted after %d of %d rows", sc.Name, stats.Rows, height)
		return nil, stats, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	logger.Infof("render %s finished in %v (%.0f px/s)", sc.Name, stats.Duration, stats.PixelsPerSecond())
	return buffer, stats, nil
}
