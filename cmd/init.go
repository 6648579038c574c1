package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/freecad"
	"github.com/kamal-hamza/extrude-cli/pkg/config"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the extrude workspace",
	Long: `Initialize the workspace directory structure.

This creates the managed workspace at ~/.local/share/extrude/ (or the
configured location) with the following structure:
  - source/              : STEP files waiting to be converted
  - intermediate/        : OBJ meshes produced by FreeCAD
  - processed/<lod>/     : GLB models and catalog.json
  - metadata/<lod>/      : metadata records
  - public/              : web-ready layout written by 'catalog prepare'

A default config file is written when none exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if appWorkspace.Exists() {
		fmt.Println(ui.FormatWarning("Workspace already initialized"))
		fmt.Println(ui.FormatMuted("Location: " + appWorkspace.RootPath))
	} else {
		fmt.Println(ui.FormatRocket("Initializing extrude workspace..."))
		fmt.Println()
	}

	// Re-running fills in any directory that went missing
	if err := appWorkspace.Initialize(); err != nil {
		fmt.Println(ui.FormatError("Failed to initialize workspace"))
		return err
	}

	if err := createDefaultConfig(); err != nil {
		fmt.Println(ui.FormatWarning("Failed to create default config: " + err.Error()))
	}

	fmt.Println(ui.FormatSuccess("Workspace ready"))
	fmt.Println(ui.RenderKeyValue("Location", appWorkspace.RootPath))
	fmt.Println(ui.RenderKeyValue("Drop STEP files in", appWorkspace.SourcePath))
	return nil
}

// createDefaultConfig writes the default config unless one exists
func createDefaultConfig() error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := config.DefaultConfig()
	cfg.FreeCAD.Strategies = freecad.DefaultStrategies()
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Println(ui.FormatSuccess("Config created: " + path))
	return nil
}
