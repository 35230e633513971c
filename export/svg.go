package export

import (
	"bytes"

	"schematic/canvas"
	"schematic/diagram"
	"schematic/render"
)

// SVGExporter writes a vector page.
type SVGExporter struct {
	opts Options
}

// Export renders d as an SVG document.
func (e *SVGExporter) Export(d *diagram.Document) ([]byte, *render.Result, error) {
	if err := CheckPage(d, e.opts.MaxPageSize); err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	c := canvas.NewSVG(&buf, d.Width(), d.Height())
	res, err := e.opts.renderer().Render(d, c)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}

func (e *SVGExporter) FileExtension() string { return ".svg" }
func (e *SVGExporter) FormatName() string { return "SVG" }
func (e *SVGExporter) ContentType() string { return "image/svg+xml" }
