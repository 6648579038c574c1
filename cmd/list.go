package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/internal/core/services"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var (
	listLOD     string
	listAxis    string
	listSortBy  string
	listReverse bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list [query]",
	Short:   "List catalogued models",
	Aliases: []string{"ls"},
	Long: `List converted models in a table format. With a query, models are
fuzzy-matched by name and id instead.

Examples:
  extrude list
  extrude list --sort length --reverse
  extrude list --axis z
  extrude list rail`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listLOD, "lod", "", "Level of detail (default from config)")
	listCmd.Flags().StringVar(&listAxis, "axis", "", "Filter by extrusion axis (x, y, z)")
	listCmd.Flags().StringVar(&listSortBy, "sort", "id", "Sort by field (id, name, length, size)")
	listCmd.Flags().BoolVar(&listReverse, "reverse", false, "Reverse sort order")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := getContext(cmd)
	svc := services.NewListService(catalogService)

	lod := appConfig.Defaults.LOD
	if listLOD != "" {
		parsed, err := domain.ParseLOD(listLOD)
		if err != nil {
			return domain.NewError(domain.KindUsage, "list", "", err)
		}
		lod = parsed
	}

	var models []domain.Metadata
	if len(args) == 1 {
		resp, err := svc.Search(ctx, services.SearchRequest{Query: args[0], LOD: lod})
		if err != nil {
			return err
		}
		models = resp.Models
	} else {
		req := services.ListRequest{LOD: lod, SortBy: listSortBy, Reverse: listReverse}
		if listAxis != "" {
			axis, err := domain.ParseAxis(listAxis)
			if err != nil {
				return domain.NewError(domain.KindUsage, "list", "", err)
			}
			req.Axis = &axis
		}
		resp, err := svc.Execute(ctx, req)
		if err != nil {
			return err
		}
		models = resp.Models
	}

	if len(models) == 0 {
		fmt.Println(ui.FormatWarning("No models found"))
		fmt.Println(ui.FormatMuted("Convert some with 'extrude batch'"))
		return nil
	}

	table := ui.NewTable([]ui.TableColumn{
		{Header: "ID"},
		{Header: "NAME"},
		{Header: "AXIS", Align: ui.AlignCenter},
		{Header: "SECTION (in)", Align: ui.AlignRight},
		{Header: "LENGTH (in)", Align: ui.AlignRight},
		{Header: "SIZE", Align: ui.AlignRight},
	})

	var total int64
	for _, m := range models {
		table.AddRow([]string{
			m.ID,
			truncate(m.Name, 32),
			m.ExtrusionAxis.String(),
			fmt.Sprintf("%.3f × %.3f", m.Dimensions.Width, m.Dimensions.Height),
			fmt.Sprintf("%.3f", m.Dimensions.BaseLength),
			ui.FormatBytes(m.FileSize),
		})
		total += m.FileSize
	}

	fmt.Print(table.Render())
	fmt.Println()
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d models, %s (%s)", len(models), ui.FormatBytes(total), lod)))
	return nil
}
