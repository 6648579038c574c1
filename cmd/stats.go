package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
	"github.com/kamal-hamza/extrude-cli/pkg/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show workspace statistics",
	Long: `Analyze the workspace and display useful statistics.

Includes:
  - Models and total size per level of detail
  - Size reduction of low and medium against high
  - Extrusion axis distribution`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	sizes, err := catalogService.SizesByLOD(getContext(cmd))
	if err != nil {
		return err
	}

	fmt.Println(ui.FormatTitle("Workspace Statistics"))
	fmt.Println()

	totals := make(map[domain.LOD]int64)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	for _, lod := range domain.AllLODs {
		var total int64
		for _, m := range sizes[lod] {
			total += m.FileSize
		}
		totals[lod] = total
		fmt.Fprintf(w, "%s\t%d models\t%s\n", ui.StyleBold.Render(lod.String()+":"), len(sizes[lod]), ui.FormatBytes(total))
	}
	w.Flush()
	fmt.Println()

	if high := totals[domain.LODHigh]; high > 0 {
		for _, lod := range []domain.LOD{domain.LODLow, domain.LODMedium} {
			if totals[lod] == 0 {
				continue
			}
			saved := 100 * (1 - float64(totals[lod])/float64(high))
			fmt.Println(ui.RenderKeyValue(lod.String()+" vs high", fmt.Sprintf("%.0f%% smaller", saved)))
		}
		fmt.Println()
	}

	axes := make(map[string]int)
	for _, m := range sizes[appConfig.Defaults.LOD] {
		axes[m.ExtrusionAxis.String()]++
	}
	renderDistribution("Extrusion Axes", axes)
	return nil
}

// renderDistribution displays a horizontal bar chart
func renderDistribution(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	fmt.Println(ui.StyleHeader.Render(title))

	type pair struct {
		Name  string
		Count int
	}
	var sorted []pair
	for k, v := range counts {
		sorted = append(sorted, pair{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	maxCount := sorted[0].Count
	barWidth := 20

	for _, p := range sorted {
		length := int(math.Ceil(float64(p.Count) / float64(maxCount) * float64(barWidth)))
		bar := strings.Repeat("█", length)

		fmt.Printf("%s %-4s %s\n",
			ui.StyleAccent.Render(bar),
			p.Name,
			ui.StyleMuted.Render(fmt.Sprintf("%d", p.Count)),
		)
	}
}
