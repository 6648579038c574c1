package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/adapters/freecad"
	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of your extrude installation",
	Long: `Diagnose issues with your extrude setup.

Checks for:
  - Workspace directory layout
  - Configuration file existence
  - FreeCAD executables for every configured strategy
  - Blender
  - Storage settings used by 'extrude publish'`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	failed := 0
	check := func(name string, fn func() error) {
		if !checkStep(name, fn) {
			failed++
		}
	}

	fmt.Println(ui.FormatTitle("Extrude Doctor"))
	fmt.Println()

	// 1. Workspace
	check("Workspace Directory", func() error {
		if !appWorkspace.Exists() {
			return fmt.Errorf("not found at %s (created on first batch run)", appWorkspace.RootPath)
		}
		return nil
	})
	for _, lod := range domain.AllLODs {
		dir := appWorkspace.ModelDir(lod)
		check("Models ("+lod.String()+")", func() error {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("missing at %s", dir)
			}
			return nil
		})
	}

	// 2. Config
	checkStep("Configuration File", func() error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("missing at %s (using defaults)", path)
		}
		return nil
	})

	// 3. Tools
	strategies := appConfig.FreeCAD.Strategies
	if len(strategies) == 0 {
		strategies = freecad.DefaultStrategies()
	}
	check("FreeCAD", func() error {
		var found []string
		for _, exe := range freecad.Executables(strategies) {
			if path, err := execRunner.Resolve(exe); err == nil {
				found = append(found, path)
			}
		}
		if len(found) == 0 {
			return fmt.Errorf("no executable found (tried %s)", strings.Join(freecad.Executables(strategies), ", "))
		}
		fmt.Println(ui.FormatMuted("    " + strings.Join(found, ", ")))
		return nil
	})

	check("Blender", func() error {
		path, err := execRunner.Resolve(appConfig.Blender.Executable)
		if err != nil {
			return fmt.Errorf("%s not found", appConfig.Blender.Executable)
		}
		fmt.Println(ui.FormatMuted("    " + path))
		return nil
	})

	// 4. Publishing (optional)
	checkStep("Storage Endpoint", func() error {
		if appConfig.Storage.Endpoint == "" {
			return fmt.Errorf("not configured (needed for 'extrude publish')")
		}
		return nil
	})

	fmt.Println()
	if failed > 0 {
		return fmt.Errorf("%d checks failed", failed)
	}
	fmt.Println(ui.FormatSuccess("Ready to convert"))
	return nil
}

// checkStep runs a check function, prints the result and reports success
func checkStep(name string, check func() error) bool {
	err := check()
	if err == nil {
		fmt.Printf("%s %s\n", ui.FormatSuccess(""), name)
		return true
	}
	fmt.Printf("%s %s\n", ui.FormatError(""), name)
	fmt.Printf("    %s\n", ui.StyleMuted.Render(err.Error()))
	return false
}
