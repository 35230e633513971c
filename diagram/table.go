package diagram

import "schematic/core"

// TableSpec declares a grid of labelled cells.
type TableSpec struct {
	Name   string
	Origin core.Point
	// Columns holds the width of each column.
	Columns   []float64
	RowHeight float64
	Rows      [][]string
	// Header sets the first row in the bold role.
	Header bool
	Font   core.Font
	Stroke core.Stroke
}

// Width returns the sum of the column widths.
func (s TableSpec) Width() float64 {
	total := 0.0
	for _, w := range s.Columns {
		total += w
	}
	return total
}

// AddTable appends a table: a stacked region with one row region per entry of
// Rows, each cell a box with a centered label. Missing cells are drawn empty.
func (h *RegionHandle) AddTable(spec TableSpec) *RegionHandle {
	table := h.AddRegion(RegionSpec{
		Name:   spec.Name,
		Origin: spec.Origin,
		Width:  spec.Width(),
		Sizing: SizeAuto,
		Flow:   FlowStack,
	})

	for i, row := range spec.Rows {
		r := table.AddRegion(RegionSpec{
			Width:  spec.Width(),
			Height: spec.RowHeight,
		})
		font := spec.Font
		if spec.Header && i == 0 {
			font.Role = core.Bold
		}
		x := 0.0
		for col, w := range spec.Columns {
			cell := Box{
				Origin: core.Point{X: x},
				Width:  w,
				Height: spec.RowHeight,
				Stroke: spec.Stroke,
			}
			if col < len(row) && row[col] != "" {
				cell.Labels = []Text{{
					Text:   row[col],
					Font:   font,
					Align:  core.AlignBox,
					Middle: true,
				}}
			}
			r.AddBox(cell)
			x += w
		}
	}
	return table
}
