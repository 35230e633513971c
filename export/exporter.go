// Package export renders documents into files: vector, raster, text grid and
// display-list formats.
package export

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"schematic/canvas"
	"schematic/diagram"
	"schematic/font"
	"schematic/render"
)

// Format represents an export format
type Format string

const (
	// FormatSVG exports a vector page sized in points
	FormatSVG Format = "svg"
	// FormatPNG exports a raster page
	FormatPNG Format = "png"
	// FormatASCII exports a box-drawing character grid
	FormatASCII Format = "ascii"
	// FormatJSON exports the recorded drawing calls as JSON
	FormatJSON Format = "json"
	// FormatMsgpack exports the recorded drawing calls as MessagePack
	FormatMsgpack Format = "msgpack"
)

// ErrPageTooLarge is returned when a page exceeds Options.MaxPageSize.
var ErrPageTooLarge = errors.New("page too large")

// Exporter renders a document into one format.
type Exporter interface {
	// Export renders d and returns the encoded page with the render result.
	Export(d *diagram.Document) ([]byte, *render.Result, error)
	// FileExtension returns the recommended file extension for this format
	FileExtension() string
	// FormatName returns a human-readable name for this format
	FormatName() string
	// ContentType returns the MIME type of the output
	ContentType() string
}

// Options configures every exporter.
type Options struct {
	// Metrics measures text; nil selects the Go fonts.
	Metrics font.Provider
	Strict  bool
	Logger  *slog.Logger
	// PNGScale is pixels per point.
	PNGScale float64
	// CellWidth and CellHeight size an ASCII cell in points.
	CellWidth  float64
	CellHeight float64
	// MaxPageSize bounds the page width and height in points. Zero means no
	// limit.
	MaxPageSize float64
}

// withDefaults fills unset options.
func (o Options) withDefaults() (Options, error) {
	if o.Metrics == nil {
		m, err := font.NewGoMetrics()
		if err != nil {
			return o, err
		}
		o.Metrics = m
	}
	if o.PNGScale <= 0 {
		o.PNGScale = 1
	}
	if o.CellWidth <= 0 {
		o.CellWidth = canvas.DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = canvas.DefaultCellHeight
	}
	return o, nil
}

// CheckPage returns ErrPageTooLarge when either page dimension of d exceeds
// limit. A limit of zero or less disables the check.
func CheckPage(d *diagram.Document, limit float64) error {
	if limit <= 0 || (d.Width() <= limit && d.Height() <= limit) {
		return nil
	}
	return fmt.Errorf("%w: %gx%g exceeds %gpt", ErrPageTooLarge, d.Width(), d.Height(), limit)
}

func (o Options) renderer() *render.Renderer {
	opts := []render.Option{render.WithLogger(o.Logger)}
	if o.Strict {
		opts = append(opts, render.WithStrict())
	}
	return render.New(o.Metrics, opts...)
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format, opts Options) (Exporter, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("failed to load metrics: %w", err)
	}
	switch format {
	case FormatSVG:
		return &SVGExporter{opts: opts}, nil
	case FormatPNG:
		return &PNGExporter{opts: opts}, nil
	case FormatASCII:
		return &ASCIIExporter{opts: opts}, nil
	case FormatJSON:
		return &DisplayListExporter{opts: opts, encoding: FormatJSON}, nil
	case FormatMsgpack:
		return &DisplayListExporter{opts: opts, encoding: FormatMsgpack}, nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats returns a list of all available export formats
func AvailableFormats() []Format {
	return []Format{
		FormatSVG,
		FormatPNG,
		FormatASCII,
		FormatJSON,
		FormatMsgpack,
	}
}

// FormatDescriptions returns human-readable descriptions of all formats
func FormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatSVG:     "SVG vector page, sized in points",
		FormatPNG:     "PNG raster page",
		FormatASCII:   "Box-drawing character grid",
		FormatJSON:    "Drawing calls as a JSON display list",
		FormatMsgpack: "Drawing calls as a MessagePack display list",
	}
}
