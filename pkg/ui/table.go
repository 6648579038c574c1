package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Alignment of a column's cells
type Alignment = lipgloss.Position

const (
	AlignLeft   = lipgloss.Left
	AlignCenter = lipgloss.Center
	AlignRight  = lipgloss.Right
)

const columnGap = "  "

// TableColumn describes one column. Width is a minimum; columns grow to
// fit their widest cell.
type TableColumn struct {
	Header string
	Width  int
	Align  Alignment
}

// Table renders rows of cells under a header and a rule
type Table struct {
	Columns []TableColumn
	Rows    [][]string
}

func NewTable(columns []TableColumn) *Table {
	return &Table{Columns: columns}
}

func (t *Table) AddRow(cells []string) {
	t.Rows = append(t.Rows, cells)
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = max(col.Width, lipgloss.Width(col.Header))
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// Render lays out the table. Cell widths are measured on the rendered
// text so styled cells line up.
func (t *Table) Render() string {
	if len(t.Columns) == 0 {
		return ""
	}
	widths := t.widths()

	line := func(cells []string, align func(i int) Alignment) string {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = lipgloss.PlaceHorizontal(widths[i], align(i), cell)
		}
		return strings.Join(parts, columnGap)
	}

	headers := make([]string, len(t.Columns))
	rules := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		rules[i] = strings.Repeat("─", widths[i])
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render(line(headers, func(int) Alignment { return AlignLeft })))
	b.WriteString("\n")
	b.WriteString(styleRule.Render(strings.Join(rules, columnGap)))
	b.WriteString("\n")
	for _, row := range t.Rows {
		b.WriteString(line(row, func(i int) Alignment { return t.Columns[i].Align }))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderAttempts renders one row per strategy attempt
func RenderAttempts(rows [][]string) string {
	table := NewTable([]TableColumn{
		{Header: "STRATEGY"},
		{Header: "EXECUTABLE"},
		{Header: "OUTCOME"},
		{Header: "EXIT", Align: AlignRight},
		{Header: "TIME", Align: AlignRight},
	})
	table.Rows = rows
	return table.Render()
}

// RenderSimpleList renders items as an indented bullet list
func RenderSimpleList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(StyleInfo.Render("  • ") + item + "\n")
	}
	return b.String()
}

// RenderKeyValue renders "key: value" with the key highlighted
func RenderKeyValue(key, value string) string {
	return StyleAccent.Render(key) + ": " + value
}
