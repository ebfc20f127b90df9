package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/df07/go-whitted-raytracer/pkg/loaders"
	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame of a catalog scene and save it as a PNG.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	opts := renderer.Options{
		Width:      ctx.Int("width"),
		Height:     ctx.Int("height"),
		NumWorkers: ctx.Int("workers"),
		MaxDepth:   ctx.Int("depth"),
		ShadowBias: ctx.Float64("bias"),
		Gamma:      ctx.Float64("gamma"),
	}
	r, err := renderer.NewFrameRenderer(opts)
	if err != nil {
		return err
	}

	textures, err := loadTextures(ctx.String("textures"))
	if err != nil {
		return err
	}

	sceneID := ctx.String("scene")
	if ctx.NArg() > 0 {
		sceneID = ctx.Args().First()
	}
	sc, err := scene.DefaultCatalog().Build(sceneID, textures)
	if err != nil {
		return err
	}

	cam := renderer.NewCamera(sc.Camera)
	cam.Orbit(ctx.Float64("yaw"), ctx.Float64("pitch"))
	if zoom := ctx.Float64("zoom"); zoom > 0 {
		cam.Zoom = zoom
	}

	env := frameEnvironment(sc, ctx.IsSet("tod"), ctx.Float64("tod"), ctx.Float64("time"))

	// Ctrl+C abandons the frame instead of writing a partial image
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	buffer, stats, err := r.Render(sigCtx, sc, cam, &env)
	if err != nil {
		return err
	}

	imgFile := ctx.String("out")
	if err := writePNG(imgFile, buffer, opts.Gamma); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", imgFile)

	displayFrameStats(stats)
	return nil
}

// frameEnvironment picks the environment for a frame: the daylight cycle at
// timeOfDay when useDaylight is set, otherwise the scene's own environment.
func frameEnvironment(sc *scene.Scene, useDaylight bool, timeOfDay, simTime float64) scene.Environment {
	if useDaylight {
		return scene.Daylight(timeOfDay, simTime)
	}
	return sc.Environment.WithTime(simTime)
}

// loadTextures reads dir into a fresh store. An empty dir yields an empty
// store and scenes fall back to their procedural textures.
func loadTextures(dir string) (*material.TextureStore, error) {
	store := material.NewTextureStore()
	if dir == "" {
		return store, nil
	}
	if _, err := loaders.LoadTextureDir(dir, store, loaders.DefaultTextureDirOptions()); err != nil {
		return nil, fmt.Errorf("loading textures from %s: %w", dir, err)
	}
	return store, nil
}

func writePNG(path string, buffer *renderer.PixelBuffer, gamma float64) error {
	if buffer == nil {
		return errors.New("no frame to write")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, buffer.ToRGBA(gamma)); err != nil {
		return fmt.Errorf("encoding png file: %w", err)
	}
	return f.Close()
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of frame", "Busy time"})
	for _, w := range stats.Workers {
		percent := 0.0
		if stats.Height > 0 {
			percent = 100 * float64(w.Rows) / float64(stats.Height)
		}
		table.Append([]string{
			fmt.Sprintf("%d", w.ID),
			fmt.Sprintf("%d", w.Rows),
			fmt.Sprintf("%02.1f %%", percent),
			w.Busy.String(),
		})
	}
	table.SetFooter([]string{
		"TOTAL",
		fmt.Sprintf("%d", stats.Rows),
		fmt.Sprintf("%.0f px/s", stats.PixelsPerSecond()),
		stats.Duration.String(),
	})

	table.Render()
	logger.Noticef("frame statistics for %s (%dx%d, %d primitives, depth %d)\n%s",
		stats.Scene, stats.Width, stats.Height, stats.Primitives, stats.MaxDepth, buf.String())
}
