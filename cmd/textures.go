package cmd

import (
	"errors"
	"fmt"

	"github.com/df07/go-whitted-raytracer/pkg/material"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Write the procedural textures of every catalog scene into a directory so
// they can be edited and loaded back with --textures.
func ExportTextures(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() != 1 {
		return errors.New("missing output directory argument")
	}
	dir := ctx.Args().First()

	store, err := catalogTextures()
	if err != nil {
		return err
	}
	n, err := store.Export(dir)
	if err != nil {
		return err
	}
	logger.Noticef("exported %d texture files to %s", n, dir)
	return nil
}

// List the textures a directory provides, or the built-in ones when no
// directory is given.
func ListTextures(ctx *cli.Context) error {
	setupLogging(ctx)

	var (
		store *material.TextureStore
		err   error
	)
	if ctx.NArg() > 0 {
		store, err = loadTextures(ctx.Args().First())
	} else {
		store, err = catalogTextures()
	}
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Texture", "Frames", "Frame time", "Size"})
	for _, name := range store.Names() {
		id, _ := store.Lookup(name)
		tex := store.Get(id)
		size := "-"
		if len(tex.Frames) > 0 && tex.Frames[0].Valid() {
			size = fmt.Sprintf("%dx%d", tex.Frames[0].Width, tex.Frames[0].Height)
		}
		table.Append([]string{
			name,
			fmt.Sprintf("%d", len(tex.Frames)),
			fmt.Sprintf("%.2fs", tex.FrameDuration),
			size,
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d", store.Len()), "", ""})
	table.Render()
	return nil
}

// catalogTextures builds every catalog scene against one shared store and
// returns the store holding all the textures they generated.
func catalogTextures() (*material.TextureStore, error) {
	store := material.NewTextureStore()
	catalog := scene.DefaultCatalog()
	for _, id := range catalog.Names() {
		sc, err := catalog.Build(id, store)
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", id, err)
		}
		for _, name := range sc.Textures.Names() {
			if _, ok := store.Lookup(name); ok {
				continue
			}
			texID, _ := sc.Textures.Lookup(name)
			store.Add(sc.Textures.Get(texID))
		}
	}
	return store, nil
}
