package export

import (
	"bytes"

	"schematic/canvas"
	"schematic/diagram"
	"schematic/render"
)

// PNGExporter writes a raster page. Text is rasterized with the faces of the
// same provider that measured it.
type PNGExporter struct {
	opts Options
}

// Export renders d as a PNG image.
func (e *PNGExporter) Export(d *diagram.Document) ([]byte, *render.Result, error) {
	if err := CheckPage(d, e.opts.MaxPageSize); err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	c, err := canvas.NewPNG(&buf, d.Width(), d.Height(), e.opts.PNGScale, e.opts.Metrics)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.opts.renderer().Render(d, c)
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), res, nil
}

func (e *PNGExporter) FileExtension() string { return ".png" }
func (e *PNGExporter) FormatName() string { return "PNG" }
func (e *PNGExporter) ContentType() string { return "image/png" }
