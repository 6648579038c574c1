package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/atotto/clipboard"
	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/report"
	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	catalogLOD       string
	catalogOutDir    string
	catalogAllLODs   bool
	catalogCopy      bool
	catalogReportOut string
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build, prepare and browse the model catalog",
}

var catalogBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Aggregate metadata records into processed/catalog.json",
	Args:  cobra.NoArgs,
	RunE:  runCatalogBuild,
}

var catalogPrepareCmd = &cobra.Command{
	Use:   "prepare",
	Short: "Copy models and metadata into the web-public layout",
	Long: `Copy every catalogued model into <out>/<id>/<id>.glb (or
<out>/<id>/<lod>/<id>.glb with --all-lods), write <out>/<id>/metadata.json
and <out>/catalog.json. Models whose GLB is missing are skipped with a warning.`,
	Args: cobra.NoArgs,
	RunE: runCatalogPrepare,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one model's metadata (pick interactively when no id is given)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogShow,
}

var catalogReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write an HTML chart of model sizes per level of detail",
	Args:  cobra.NoArgs,
	RunE:  runCatalogReport,
}

func init() {
	catalogCmd.PersistentFlags().StringVar(&catalogLOD, "lod", "", "Level of detail (default from config)")

	catalogPrepareCmd.Flags().StringVarP(&catalogOutDir, "out", "o", "", "Output directory (default workspace public dir)")
	catalogPrepareCmd.Flags().BoolVar(&catalogAllLODs, "all-lods", false, "Copy low, medium and high models")

	catalogShowCmd.Flags().BoolVarP(&catalogCopy, "copy", "c", false, "Copy the metadata JSON to the clipboard")

	catalogReportCmd.Flags().StringVarP(&catalogReportOut, "out", "o", "", "Report path (default processed/report.html)")

	catalogCmd.AddCommand(catalogBuildCmd)
	catalogCmd.AddCommand(catalogPrepareCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogReportCmd)
}

// selectedLOD returns the --lod flag or the configured default
func selectedLOD() (domain.LOD, error) {
	if catalogLOD == "" {
		return appConfig.Defaults.LOD, nil
	}
	lod, err := domain.ParseLOD(catalogLOD)
	if err != nil {
		return "", domain.NewError(domain.KindUsage, "catalog", "", err)
	}
	return lod, nil
}

func runCatalogBuild(cmd *cobra.Command, args []string) error {
	lod, err := selectedLOD()
	if err != nil {
		return err
	}

	catalog, err := catalogService.Build(getContext(cmd), lod)
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Catalog built with %d models", len(catalog.Models))))
	fmt.Println(ui.RenderKeyValue("Path", appWorkspace.CatalogPath()))
	fmt.Println(ui.RenderKeyValue("Total size", ui.FormatBytes(catalog.TotalSize())))
	return nil
}

func runCatalogPrepare(cmd *cobra.Command, args []string) error {
	lod, err := selectedLOD()
	if err != nil {
		return err
	}

	resp, err := catalogService.Prepare(getContext(cmd), services.PrepareRequest{
		OutputDir: catalogOutDir,
		LOD:       lod,
		AllLODs:   catalogAllLODs,
	})
	if err != nil {
		return err
	}

	for _, missing := range resp.Missing {
		fmt.Println(ui.FormatWarning("Model file not found: " + missing))
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Prepared %d models", len(resp.Catalog.Models))))
	fmt.Println(ui.RenderKeyValue("Output", resp.OutputDir))
	fmt.Println(ui.RenderKeyValue("Files copied", fmt.Sprintf("%d", resp.Copied)))
	fmt.Println(ui.RenderKeyValue("Catalog", resp.CatalogPath))
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)
	lod, err := selectedLOD()
	if err != nil {
		return err
	}

	var meta *domain.Metadata
	if len(args) == 1 {
		meta, err = catalogService.Find(ctx, args[0], lod)
		if err != nil {
			return err
		}
	} else {
		catalog, err := catalogService.Load(ctx, lod)
		if err != nil {
			return err
		}
		if len(catalog.Models) == 0 {
			fmt.Println(ui.FormatWarning("No models in the catalog"))
			return nil
		}

		models := catalog.Models
		idx, err := fuzzyfinder.Find(
			models,
			func(i int) string { return models[i].ID + "  " + models[i].Name },
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				return modelSummary(&models[i])
			}),
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			return err
		}
		meta = &models[idx]
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	fmt.Println(ui.FormatModel(meta.ID, meta.LOD.String()))
	fmt.Println(string(data))

	if catalogCopy {
		if err := clipboard.WriteAll(string(data)); err != nil {
			fmt.Println(ui.FormatMuted("(Clipboard access failed)"))
		} else {
			fmt.Println(ui.FormatMuted("Copied to clipboard"))
		}
	}
	return nil
}

func runCatalogReport(cmd *cobra.Command, args []string) error {
	sizes, err := catalogService.SizesByLOD(getContext(cmd))
	if err != nil {
		return err
	}

	out := catalogReportOut
	if out == "" {
		out = filepath.Join(appWorkspace.ProcessedPath, "report.html")
	}
	if err := report.NewSizeChart("Model sizes").RenderFile(out, sizes); err != nil {
		return err
	}

	fmt.Println(ui.FormatSuccess("Report written: " + out))
	return nil
}

// modelSummary renders the preview shown while picking a model
func modelSummary(m *domain.Metadata) string {
	return fmt.Sprintf("%s\n\nID: %s\nAxis: %s\nWidth: %.3f in\nHeight: %.3f in\nLength: %.3f in\nLOD: %s\nSize: %s\nFile: %s",
		m.Name, m.ID, m.ExtrusionAxis,
		m.Dimensions.Width, m.Dimensions.Height, m.Dimensions.BaseLength,
		m.LOD, ui.FormatBytes(m.FileSize), m.ModelFile)
}
