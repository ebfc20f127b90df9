package cmd

import (
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the scenes the render and serve commands know about.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Group", "Name", "Description"})
	for _, group := range scene.DefaultCatalog().Groups() {
		for _, info := range group.Scenes {
			table.Append([]string{info.ID, group.Name, info.DisplayName, info.Description})
		}
	}
	table.Render()
	return nil
}
