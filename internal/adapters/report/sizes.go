package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kamal-hamza/extrude-cli/internal/core/domain"
)

// SizeChart renders exported GLB sizes per model and LOD as an HTML bar chart
type SizeChart struct {
	Title string
}

// NewSizeChart creates a chart with the given page title
func NewSizeChart(title string) *SizeChart {
	if title == "" {
		title = "Model sizes"
	}
	return &SizeChart{Title: title}
}

// Render writes the chart page to w. Models missing at a LOD are plotted as 0.
func (c *SizeChart) Render(w io.Writer, sizes map[domain.LOD][]domain.Metadata) error {
	ids, series := sizeSeries(sizes)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: c.Title}),
		charts.WithTitleOpts(opts.Title{
			Title:    c.Title,
			Subtitle: fmt.Sprintf("%d models", len(ids)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "KiB"}),
	)

	bar.SetXAxis(ids)
	for _, lod := range domain.AllLODs {
		values, ok := series[lod]
		if !ok {
			continue
		}
		data := make([]opts.BarData, len(values))
		for i, v := range values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(lod.String(), data)
	}

	return bar.Render(w)
}

// RenderFile writes the chart page to path
func (c *SizeChart) RenderFile(path string, sizes map[domain.LOD][]domain.Metadata) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := c.Render(f, sizes); err != nil {
		f.Close()
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}

// sizeSeries returns the sorted model ids and, per LOD with any records,
// sizes in KiB aligned to those ids
func sizeSeries(sizes map[domain.LOD][]domain.Metadata) ([]string, map[domain.LOD][]float64) {
	seen := make(map[string]bool)
	byLOD := make(map[domain.LOD]map[string]int64)
	for lod, records := range sizes {
		if len(records) == 0 {
			continue
		}
		byLOD[lod] = make(map[string]int64, len(records))
		for _, m := range records {
			seen[m.ID] = true
			byLOD[lod][m.ID] = m.FileSize
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	series := make(map[domain.LOD][]float64, len(byLOD))
	for lod, bySize := range byLOD {
		values := make([]float64, len(ids))
		for i, id := range ids {
			values[i] = float64(bySize[id]) / 1024
		}
		series[lod] = values
	}
	return ids, series
}
