package export

import (
	"schematic/canvas"
	"schematic/diagram"
	"schematic/render"
)

// ASCIIExporter writes the page as a grid of box-drawing characters.
type ASCIIExporter struct {
	opts Options
}

// Export renders d onto a character matrix.
func (e *ASCIIExporter) Export(d *diagram.Document) ([]byte, *render.Result, error) {
	if err := CheckPage(d, e.opts.MaxPageSize); err != nil {
		return nil, nil, err
	}
	m, err := e.Matrix(d)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.opts.renderer().Render(d, m)
	if err != nil {
		return nil, nil, err
	}
	return []byte(m.String()), res, nil
}

// Matrix returns an empty matrix sized for d.
func (e *ASCIIExporter) Matrix(d *diagram.Document) (*canvas.Matrix, error) {
	return canvas.NewMatrix(d.Width(), d.Height(), e.opts.CellWidth, e.opts.CellHeight)
}

func (e *ASCIIExporter) FileExtension() string { return ".txt" }
func (e *ASCIIExporter) FormatName() string { return "ASCII" }
func (e *ASCIIExporter) ContentType() string { return "text/plain; charset=utf-8" }
