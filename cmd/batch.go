package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	batchJobs      int
	batchLODs      []string
	batchForce     bool
	batchUnit      string
	batchCenter    bool
	batchNormalize bool
	batchCompress  bool
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch [files|dirs|archives...]",
	Short: "Convert many STEP files through the full pipeline concurrently",
	Long: `Run STEP -> OBJ -> GLB -> metadata for every STEP file in the given
files, directories and archives (zip, tar, 7z, rar), or in the workspace
source directory when none are given.

Meshes go to intermediate/<id>.obj and are reused while newer than their
STEP file. Each requested LOD is exported to processed/<lod>/<id>.glb with
its record in metadata/<lod>/<id>.json, and the catalog is rebuilt at the end.

Examples:
  extrude batch
  extrude batch ~/Downloads/profiles.zip --lods low,medium,high
  extrude batch parts/ --jobs 8 --force`,
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchJobs, "jobs", "j", 0, "Number of concurrent workers (default from config)")
	batchCmd.Flags().StringSliceVar(&batchLODs, "lods", nil, "Levels of detail to export (default from config)")
	batchCmd.Flags().BoolVarP(&batchForce, "force", "f", false, "Re-mesh even when the OBJ is up to date")
	batchCmd.Flags().StringVar(&batchUnit, "unit", "", "Source unit: mm or inch")
	batchCmd.Flags().BoolVar(&batchCenter, "center", false, "Move model origins to (0,0,0)")
	batchCmd.Flags().BoolVar(&batchNormalize, "normalize", false, "Rotate extrusion axes onto X")
	batchCmd.Flags().BoolVar(&batchCompress, "compress", false, "Enable Draco mesh compression")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)

	req, err := batchRequest(cmd, args)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatRocket("Converting models..."))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Workers", fmt.Sprintf("%d", req.MaxWorkers)))
	fmt.Println(ui.RenderKeyValue("LODs", fmt.Sprintf("%v", req.LODs)))
	fmt.Println()

	progressChan := make(chan services.BatchProgress, 16)
	resultChan := make(chan *services.BatchResponse, 1)
	errorChan := make(chan error, 1)

	go func() {
		resp, err := batchService.Execute(ctx, req, progressChan)
		if err != nil {
			errorChan <- err
			return
		}
		resultChan <- resp
	}()

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))
	interactive := isTerminal(os.Stdout)

	for p := range progressChan {
		status := ui.StyleSuccess.Render(ui.IconSuccess)
		if !p.Success {
			status = ui.StyleError.Render(ui.IconError)
		}
		percent := float64(p.Current) / float64(p.Total)

		if interactive {
			fmt.Printf("\r%s [%d/%d] %s %-30s", bar.ViewAs(percent), p.Current, p.Total, status, truncate(p.ID, 30))
		} else {
			fmt.Printf("[%d/%d] %s %s\n", p.Current, p.Total, status, p.ID)
		}
	}
	if interactive {
		fmt.Println()
	}

	var response *services.BatchResponse
	select {
	case err := <-errorChan:
		fmt.Println(ui.FormatError("Batch failed"))
		return err
	case response = <-resultChan:
	}

	fmt.Println()
	if response.Total == 0 {
		fmt.Println(ui.FormatWarning("No STEP files found"))
		return nil
	}

	fmt.Println(ui.FormatSuccess("Batch completed!"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Total", fmt.Sprintf("%d", response.Total)))
	fmt.Println(ui.RenderKeyValue("Succeeded", ui.StyleSuccess.Render(fmt.Sprintf("%d", response.Succeeded))))
	if response.Catalog != nil {
		fmt.Println(ui.RenderKeyValue("Catalog", fmt.Sprintf("%d models", len(response.Catalog.Models))))
	}

	if response.Failed > 0 {
		fmt.Println(ui.RenderKeyValue("Failed", ui.StyleError.Render(fmt.Sprintf("%d", response.Failed))))
		fmt.Println()
		fmt.Println(ui.FormatWarning("Failed conversions:"))
		for _, result := range response.Results {
			if !result.Success && result.Error != nil {
				fmt.Println(ui.FormatMuted("  • " + result.ID + ": " + result.Error.Error()))
			}
		}
		return fmt.Errorf("%d of %d conversions failed", response.Failed, response.Total)
	}

	return nil
}

// batchRequest merges flags with the configured batch settings
func batchRequest(cmd *cobra.Command, args []string) (services.BatchRequest, error) {
	defaults := appConfig.Defaults
	req := services.BatchRequest{
		Inputs:     args,
		LODs:       appConfig.Batch.LODs,
		Unit:       defaults.Unit,
		Center:     defaults.Center,
		Normalize:  defaults.Normalize,
		Compress:   defaults.Compress,
		MaxWorkers: appConfig.Batch.MaxWorkers,
		Force:      batchForce,
		CatalogLOD: defaults.LOD,
	}

	flags := cmd.Flags()
	if flags.Changed("jobs") {
		req.MaxWorkers = batchJobs
	}
	if flags.Changed("lods") {
		lods, err := parseLODs(batchLODs)
		if err != nil {
			return req, err
		}
		req.LODs = lods
	}
	if flags.Changed("unit") {
		unit, err := domain.ParseUnit(batchUnit)
		if err != nil {
			return req, domain.NewError(domain.KindUsage, "batch", "", err)
		}
		req.Unit = unit
	}
	if flags.Changed("center") {
		req.Center = batchCenter
	}
	if flags.Changed("normalize") {
		req.Normalize = batchNormalize
	}
	if flags.Changed("compress") {
		req.Compress = batchCompress
	}
	return req, nil
}

// parseLODs parses and de-duplicates LOD names
func parseLODs(names []string) ([]domain.LOD, error) {
	seen := make(map[domain.LOD]bool)
	var lods []domain.LOD
	for _, name := range names {
		lod, err := domain.ParseLOD(name)
		if err != nil {
			return nil, domain.NewError(domain.KindUsage, "batch", "", err)
		}
		if !seen[lod] {
			seen[lod] = true
			lods = append(lods, lod)
		}
	}
	return lods, nil
}
