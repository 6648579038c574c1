package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	convertShowAttempts bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input.step> <output.obj>",
	Short: "Convert a STEP file to an OBJ mesh with FreeCAD",
	Long: `Convert a STEP file to an OBJ mesh by running FreeCAD headlessly.

Each invocation strategy (run-script, exec-string, macro, console and
alternative install paths) is tried in order until one writes a non-empty
mesh. Every attempt is logged; a missing FreeCAD install is reported once
every candidate has been tried.

Examples:
  extrude convert 8020-1010.step 8020-1010.obj
  extrude convert part.stp out/part.obj --attempts`,
	Args: exactArgs(2),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().BoolVar(&convertShowAttempts, "attempts", false, "Print every strategy attempt")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)
	req := domain.MeshRequest{Input: args[0], Output: args[1]}

	var result *domain.MeshResult
	err := runWithSpinner("Meshing "+args[0], func() error {
		var err error
		result, err = meshService.Mesh(ctx, req)
		return err
	})

	if result != nil && (err != nil || convertShowAttempts) && len(result.Attempts) > 0 {
		fmt.Println(ui.RenderAttempts(attemptRows(result.Attempts)))
	}
	if err != nil {
		if domain.KindOf(err) == domain.KindUnavailable {
			fmt.Println(ui.FormatInfo("Install FreeCAD or list its path under freecad.strategies in the config"))
		}
		return err
	}

	fmt.Println(ui.FormatSuccess("Mesh written: " + result.Output))
	fmt.Println(ui.RenderKeyValue("Strategy", result.Winner.Strategy+" ("+result.Winner.Executable+")"))
	fmt.Println(ui.RenderKeyValue("Faces", fmt.Sprintf("%d", result.Faces)))
	fmt.Println(ui.RenderKeyValue("Size", ui.FormatBytes(result.OutputSize)))
	return nil
}
