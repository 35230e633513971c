// Package demo provides a built-in example figure: a patent-style device
// schematic on a US Letter page in PDF coordinates.
package demo

import (
	"schematic/core"
	"schematic/diagram"
)

// Page size in points.
const (
	PageWidth  = 612
	PageHeight = 792
)

var separator = core.Stroke{Color: core.Gray, Width: 0.5, Dash: []float64{3, 2}}

func label(text string, size float64) diagram.Text {
	return diagram.Text{
		Text:   text,
		Font:   core.Font{Size: size},
		Align:  core.AlignBox,
		Middle: true,
	}
}

func bold(text string, size float64, x, y float64) diagram.Text {
	return diagram.Text{
		Text:   text,
		Origin: core.Point{X: x, Y: y},
		Font:   core.Font{Role: core.Bold, Size: size},
	}
}

// Figure builds the example document.
func Figure() (*diagram.Document, error) {
	return Builder().Build()
}

// Builder returns the example declaration, unbuilt, so callers can extend it.
func Builder() *diagram.Builder {
	b := diagram.NewBuilder(PageWidth, PageHeight, diagram.WithOrientation(core.YUp))
	b.SetTitle(diagram.Text{
		Text:   "FIG. 5",
		Origin: core.Point{Y: 760},
		Font:   core.Font{Role: core.Bold, Size: 14},
		Align:  core.AlignPage,
	})

	addDevice(b)
	addSequence(b)
	addOutput(b)

	arrow := diagram.DefaultArrowStyle()
	b.AddArrowBetweenAnchors("deviceBody.right-center", "sequence600.left-center", arrow)
	b.AddArrowBetweenAnchors("step601.bottom-center", "step602.top-center", arrow)
	b.AddArrowBetweenAnchors("step602.bottom-center", "step603.top-center", arrow)
	b.AddArrowBetweenAnchors("step603.bottom-center", "step604.top-center", arrow)
	b.AddArrowBetweenAnchors("step604.bottom-center", "display700.top-center", arrow)
	b.AddArrowBetweenAnchors("deviceBody.bottom-center", "output.top-left", arrow)
	return b
}

// addDevice declares the device body: three numbered components, a control
// block and the reference table.
func addDevice(b *diagram.Builder) {
	border := core.Stroke{Color: core.Black, Width: 1.5}
	title := bold("DEVICE 500", 9, 6, -12)
	body := b.AddRegion(diagram.RegionSpec{
		Name:   "deviceBody",
		Origin: core.Point{X: 72, Y: 720},
		Width:  220,
		Height: 200,
		Border: &border,
		Title:  &title,
	})

	for _, c := range []struct {
		name, number string
		x, width     float64
	}{
		{"component501", "501", 12, 60},
		{"component502", "502", 84, 60},
		{"component503", "503", 156, 52},
	} {
		body.AddBox(diagram.Box{
			Name:   c.name,
			Origin: core.Point{X: c.x, Y: -24},
			Width:  c.width,
			Height: 30,
			Stroke: core.DefaultStroke,
			Labels: []diagram.Text{label(c.number, 9)},
		})
	}

	head := diagram.DefaultArrowHead
	body.AddLine(diagram.Line{
		Start:  core.Point{X: 42, Y: -54},
		End:    core.Point{X: 42, Y: -78},
		Stroke: core.DefaultStroke,
		Head:   &head,
	})
	body.AddBox(diagram.Box{
		Origin: core.Point{Y: -66},
		Width:  220,
		Stroke: separator,
	})

	controlTitle := bold("504", 6, 4, -10)
	control := body.AddRegion(diagram.RegionSpec{
		Name:   "control504",
		Origin: core.Point{X: 12, Y: -78},
		Width:  196,
		Height: 56,
		Flow:   diagram.FlowRow,
		Gap:    8,
		Border: &separator,
		Title:  &controlTitle,
	})
	for _, unit := range []string{"CPU", "MEM", "I/O"} {
		control.AddBox(diagram.Box{
			Origin: core.Point{Y: -16},
			Width:  56,
			Height: 30,
			Stroke: core.DefaultStroke,
			Labels: []diagram.Text{label(unit, 8)},
		})
	}

	body.AddTable(diagram.TableSpec{
		Name:      "refs",
		Origin:    core.Point{X: 12, Y: -140},
		Columns:   []float64{40, 156},
		RowHeight: 14,
		Header:    true,
		Font:      core.Font{Size: 7},
		Stroke:    core.Stroke{Color: core.Black, Width: 0.5},
		Rows: [][]string{
			{"Ref", "Part"},
			{"501", "Sensor"},
			{"502", "Amplifier"},
			{"503", "Filter"},
		},
	})
}

// addSequence declares the numbered steps, stacked and sized to fit.
func addSequence(b *diagram.Builder) {
	border := core.DefaultStroke
	steps := b.AddRegion(diagram.RegionSpec{
		Name:   "sequence600",
		Origin: core.Point{X: 340, Y: 720},
		Width:  200,
		Sizing: diagram.SizeAuto,
		Flow:   diagram.FlowStack,
		Gap:    14,
		Border: &border,
	})
	steps.AddText(bold("SEQUENCE 600", 9, 6, 0))
	for _, s := range []struct{ name, text string }{
		{"step601", "601 RECEIVE"},
		{"step602", "602 FILTER"},
		{"step603", "603 SAMPLE"},
		{"step604", "604 REPORT"},
	} {
		steps.AddBox(diagram.Box{
			Name:   s.name,
			Origin: core.Point{X: 20},
			Width:  160,
			Height: 24,
			Stroke: core.DefaultStroke,
			Labels: []diagram.Text{label(s.text, 8)},
		})
	}
}

// addOutput declares the output summary and the display it feeds.
func addOutput(b *diagram.Builder) {
	border := core.DefaultStroke
	out := b.AddRegion(diagram.RegionSpec{
		Name:   "output",
		Origin: core.Point{X: 72, Y: 480},
		Width:  468,
		Height: 90,
		Border: &border,
	})
	out.AddText(bold("OUTPUT SUMMARY", 9, 8, -14))
	out.AddText(diagram.Text{
		Text:   "Samples: 4096\nFiltered: 3950\nReported: 12",
		Origin: core.Point{X: 8, Y: -30},
		Font:   core.Font{Size: 8},
	})
	out.AddBox(diagram.Box{
		Name:   "display700",
		Origin: core.Point{X: 300, Y: -20},
		Width:  150,
		Height: 50,
		Stroke: core.DefaultStroke,
		Labels: []diagram.Text{label("700 DISPLAY", 9)},
	})
}
