package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	glbLOD       string
	glbUnit      string
	glbCenter    bool
	glbNormalize bool
	glbCompress  bool
)

// glbCmd represents the glb command
var glbCmd = &cobra.Command{
	Use:   "glb <input_file> <output_file> <metadata_file>",
	Short: "Export an OBJ or STEP model to GLB with Blender and write its metadata",
	Long: `Import an OBJ or STEP model into Blender, detect its extrusion axis,
optionally rotate it onto X, decimate it for the requested level of detail,
apply the aluminum material and export a GLB. A metadata JSON record with
dimensions in inches is written next to it.

Flag defaults come from the defaults section of the config file.

Examples:
  extrude glb rail.obj rail.glb rail.json
  extrude glb rail.step rail.glb rail.json --lod=high --unit=mm --normalize --compress`,
	Args: exactArgs(3),
	RunE: runGLB,
}

func init() {
	glbCmd.Flags().StringVar(&glbLOD, "lod", "", "Level of detail: low, medium or high (default medium)")
	glbCmd.Flags().StringVar(&glbUnit, "unit", "", "Source unit: mm or inch (default inch)")
	glbCmd.Flags().BoolVar(&glbCenter, "center", false, "Move the model origin to (0,0,0)")
	glbCmd.Flags().BoolVar(&glbNormalize, "normalize", false, "Rotate the extrusion axis onto X")
	glbCmd.Flags().BoolVar(&glbCompress, "compress", false, "Enable Draco mesh compression")
}

func runGLB(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	req, err := glbRequest(cmd, args)
	if err != nil {
		return err
	}

	var resp *services.ExportResponse
	err = runWithSpinner("Exporting "+args[0], func() error {
		var err error
		resp, err = exportService.Execute(ctx, req)
		return err
	})
	if err != nil {
		return err
	}

	meta := resp.Metadata
	fmt.Println(ui.FormatSuccess("Model exported: " + req.Output))
	fmt.Println(ui.RenderKeyValue("Metadata", req.MetadataPath))
	fmt.Println(ui.RenderKeyValue("Extrusion axis", fmt.Sprintf("%s (detected %s)", meta.ExtrusionAxis, resp.DetectedAxis)))
	if resp.Plan.Rotates() {
		fmt.Println(ui.RenderKeyValue("Rotation", fmt.Sprintf("%g° about %s", resp.Plan.Rotation.Degrees, resp.Plan.Rotation.Axis)))
	}
	fmt.Println(ui.RenderKeyValue("Dimensions", fmt.Sprintf("%.3f × %.3f × %.3f in",
		meta.Dimensions.Width, meta.Dimensions.Height, meta.Dimensions.BaseLength)))
	fmt.Println(ui.RenderKeyValue("LOD", meta.LOD.String()))
	fmt.Println(ui.RenderKeyValue("Size", ui.FormatBytes(meta.FileSize)))
	fmt.Println(ui.RenderKeyValue("Time", ui.FormatDuration(resp.Duration)))
	return nil
}

// glbRequest merges flags with the configured defaults. Explicitly set
// flags win.
func glbRequest(cmd *cobra.Command, args []string) (services.ExportRequest, error) {
	defaults := appConfig.Defaults
	req := services.ExportRequest{
		Input:        args[0],
		Output:       args[1],
		MetadataPath: args[2],
		LOD:          defaults.LOD,
		Unit:         defaults.Unit,
		Center:       defaults.Center,
		Normalize:    defaults.Normalize,
		Compress:     defaults.Compress,
	}

	flags := cmd.Flags()
	if flags.Changed("lod") {
		lod, err := domain.ParseLOD(glbLOD)
		if err != nil {
			return req, domain.NewError(domain.KindUsage, "glb", "", err)
		}
		req.LOD = lod
	}
	if flags.Changed("unit") {
		unit, err := domain.ParseUnit(glbUnit)
		if err != nil {
			return req, domain.NewError(domain.KindUsage, "glb", "", err)
		}
		req.Unit = unit
	}
	if flags.Changed("center") {
		req.Center = glbCenter
	}
	if flags.Changed("normalize") {
		req.Normalize = glbNormalize
	}
	if flags.Changed("compress") {
		req.Compress = glbCompress
	}
	return req, nil
}
