package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [id]",
	Short: "Remove intermediate meshes or one model's outputs",
	Long: `Remove conversion artifacts from the workspace.

Without an argument, every intermediate OBJ is removed so that the next
batch run re-meshes from the STEP sources. With a model id, its OBJ and
its GLB and metadata at every level of detail are removed.

Examples:
  extrude clean             # Force re-meshing of everything
  extrude clean 8020-1010   # Drop a single model`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Print(ui.StyleWarning.Render("Removing intermediate meshes... "))
		if err := appWorkspace.CleanIntermediate(); err != nil {
			fmt.Println(ui.FormatError("Failed"))
			return err
		}
		fmt.Println(ui.FormatSuccess("Done"))
		return nil
	}

	id := args[0]
	paths := []string{appWorkspace.IntermediateOBJ(id)}
	for _, lod := range domain.AllLODs {
		paths = append(paths, appWorkspace.ModelPath(lod, id), appWorkspace.MetadataFile(lod, id))
	}

	removed := 0
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case !os.IsNotExist(err):
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}

	if removed == 0 {
		fmt.Println(ui.FormatWarning("Nothing to remove for " + id))
		return nil
	}
	fmt.Println(ui.FormatSuccess(fmt.Sprintf("Removed %d files for %s", removed, id)))
	fmt.Println(ui.FormatMuted("Run 'extrude catalog build' to refresh the catalog"))
	return nil
}
