package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
	"github.com/urfave/cli"
)

// Serve the render, inspect and live-view API over HTTP until interrupted.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	textures, err := loadTextures(ctx.String("textures"))
	if err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Port = ctx.Int("port")
	cfg.NumWorkers = ctx.Int("workers")
	cfg.Textures = textures
	if id := ctx.String("scene"); id != "" {
		cfg.DefaultScene = id
	}
	catalog := scene.DefaultCatalog()
	if _, ok := catalog.Info(cfg.DefaultScene); !ok {
		return scene.ErrUnknownScene
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return server.NewServer(cfg, catalog).Start(sigCtx)
}
