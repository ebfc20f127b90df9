package main

import (
	"fmt"
	"os"

	"github.com/df07/go-whitted-raytracer/cmd"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	defaults := renderer.DefaultOptions()

	app := cli.NewApp()
	app.Name = "whitted"
	app.Usage = "render scenes with a Whitted-style ray tracer"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}

	texturesFlag := cli.StringFlag{
		Name:  "textures, t",
		Usage: "directory of PNG textures; name_N files become animation frames",
	}
	workersFlag := cli.IntFlag{
		Name:  "workers",
		Value: defaults.NumWorkers,
		Usage: "render goroutines, 0 for one per CPU",
	}

	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render one frame of a built-in scene and save it as a PNG. The scene may be
given with --scene or as the first argument.

Animated textures are sampled at --time. Passing --tod replaces the scene's
sky with the daylight cycle at that fraction of the day (0.5 is noon).`,
			ArgsUsage: "[scene]",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "spheres",
					Usage: "scene to render, see the scenes command",
				},
				cli.IntFlag{
					Name:  "width",
					Value: defaults.Width,
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Value: defaults.Height,
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "depth",
					Value: defaults.MaxDepth,
					Usage: "maximum reflection/refraction bounces",
				},
				cli.Float64Flag{
					Name:  "bias",
					Value: defaults.ShadowBias,
					Usage: "offset applied to shadow and secondary ray origins",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: defaults.Gamma,
					Usage: "gamma used when writing the PNG",
				},
				workersFlag,
				cli.Float64Flag{
					Name:  "time",
					Usage: "simulation time in seconds for animated textures",
				},
				cli.Float64Flag{
					Name:  "tod",
					Value: 0.5,
					Usage: "render under the daylight cycle at this fraction of the day",
				},
				cli.Float64Flag{
					Name:  "yaw",
					Usage: "orbit the camera around its target (radians)",
				},
				cli.Float64Flag{
					Name:  "pitch",
					Usage: "tilt the camera toward the up axis (radians)",
				},
				cli.Float64Flag{
					Name:  "zoom",
					Value: 1.0,
					Usage: "camera zoom factor",
				},
				texturesFlag,
				cli.StringFlag{
					Name:  "out, o",
					Value: "frame.png",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "textures",
			Usage: "inspect and export textures",
			Subcommands: []cli.Command{
				{
					Name:      "list",
					Usage:     "list the textures in a directory, or the built-in ones",
					ArgsUsage: "[dir]",
					Action:    cmd.ListTextures,
				},
				{
					Name:  "export",
					Usage: "write the built-in procedural textures as PNG files",
					Description: `
Build every scene and write the textures they generate into dir. Edit the
files and pass the directory to --textures to use them instead.`,
					ArgsUsage: "dir",
					Action:    cmd.ExportTextures,
				},
			},
		},
		{
			Name:  "serve",
			Usage: "serve the render API over HTTP",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "port, p",
					Value: 8080,
					Usage: "port to serve on",
				},
				cli.StringFlag{
					Name:  "scene, s",
					Value: "spheres",
					Usage: "scene used when a request names none",
				},
				workersFlag,
				texturesFlag,
			},
			Action: cmd.Serve,
		},
	}

	return app
}
