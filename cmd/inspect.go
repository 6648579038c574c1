package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/objmesh"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.obj>",
	Short: "Print vertex and face counts, bounds and the likely extrusion axis of an OBJ",
	Long: `Parse an OBJ mesh without Blender and report its statistics. The axis
shown is the longest bounding-box dimension, the same rule the glb command
uses for extrusion detection.`,
	Args: exactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	if !domain.IsOBJ(path) {
		return domain.NewError(domain.KindUnsupportedFormat, "inspect", path, fmt.Errorf("expected an .obj file"))
	}

	stats, err := objmesh.ReadFile(path)
	if err != nil {
		return domain.NewError(domain.KindInput, "inspect", path, err)
	}

	dims := stats.Dimensions()
	fmt.Println(ui.FormatModel(domain.ModelID(path), path))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Objects", fmt.Sprintf("%d", stats.Objects)))
	fmt.Println(ui.RenderKeyValue("Vertices", fmt.Sprintf("%d", stats.Vertices)))
	fmt.Println(ui.RenderKeyValue("Faces", fmt.Sprintf("%d", stats.Faces)))
	if stats.Vertices == 0 {
		fmt.Println(ui.FormatWarning("Mesh has no vertices"))
		return nil
	}

	fmt.Println(ui.RenderKeyValue("Min", fmt.Sprintf("(%.4f, %.4f, %.4f)", stats.Bounds.Min.X, stats.Bounds.Min.Y, stats.Bounds.Min.Z)))
	fmt.Println(ui.RenderKeyValue("Max", fmt.Sprintf("(%.4f, %.4f, %.4f)", stats.Bounds.Max.X, stats.Bounds.Max.Y, stats.Bounds.Max.Z)))
	fmt.Println(ui.RenderKeyValue("Size", fmt.Sprintf("%.4f × %.4f × %.4f", dims.X, dims.Y, dims.Z)))
	fmt.Println(ui.RenderKeyValue("Extrusion axis", domain.InferAxis(dims).String()))
	return nil
}
