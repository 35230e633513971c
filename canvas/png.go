package canvas

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"schematic/core"
)

// FaceSource supplies font faces for raster text.
type FaceSource interface {
	Face(role core.FontRole, size float64) (font.Face, error)
}

// PNG is a raster canvas. Coordinates are multiplied by scale, so a scale of 2
// renders a 612pt page 1224 pixels wide.
type PNG struct {
	w        io.Writer
	dc       *gg.Context
	scale    float64
	faces    FaceSource
	finished bool
}

// NewPNG creates a white page of the given size in points. The image is encoded
// to w by FinishPage.
func NewPNG(w io.Writer, width, height, scale float64, faces FaceSource) (*PNG, error) {
	if !positive(width, height, scale) {
		return nil, ErrInvalidSize
	}
	dc := gg.NewContext(int(math.Ceil(width*scale)), int(math.Ceil(height*scale)))
	dc.SetColor(core.White)
	dc.Clear()
	return &PNG{w: w, dc: dc, scale: scale, faces: faces}, nil
}

func (p *PNG) stroke(s core.Stroke) bool {
	if s.Width <= 0 {
		return false
	}
	p.dc.SetColor(s.Color)
	p.dc.SetLineWidth(s.Width * p.scale)
	if len(s.Dash) > 0 {
		dash := make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = d * p.scale
		}
		p.dc.SetDash(dash...)
	} else {
		p.dc.SetDash()
	}
	return true
}

// DrawRect strokes a rectangle outline.
func (p *PNG) DrawRect(x, y, width, height float64, stroke core.Stroke) error {
	if p.finished {
		return ErrFinished
	}
	if !p.stroke(stroke) {
		return nil
	}
	s := p.scale
	p.dc.DrawRectangle(x*s, y*s, width*s, height*s)
	p.dc.Stroke()
	return nil
}

// DrawLine strokes a line.
func (p *PNG) DrawLine(x1, y1, x2, y2 float64, stroke core.Stroke) error {
	if p.finished {
		return ErrFinished
	}
	if !p.stroke(stroke) {
		return nil
	}
	s := p.scale
	p.dc.DrawLine(x1*s, y1*s, x2*s, y2*s)
	p.dc.Stroke()
	return nil
}

// DrawText draws a run with its baseline starting at (x, y).
func (p *PNG) DrawText(x, y float64, text string, f core.Font, color core.Color) error {
	if p.finished {
		return ErrFinished
	}
	face, err := p.faces.Face(f.Role, f.Size*p.scale)
	if err != nil {
		return fmt.Errorf("loading %s face: %w", f.Role, err)
	}
	p.dc.SetFontFace(face)
	p.dc.SetColor(color)
	p.dc.DrawString(text, x*p.scale, y*p.scale)
	return nil
}

// FinishPage encodes the image.
func (p *PNG) FinishPage() error {
	if p.finished {
		return ErrFinished
	}
	p.finished = true
	return p.dc.EncodePNG(p.w)
}

// Image returns the raster drawn so far.
func (p *PNG) Image() image.Image {
	return p.dc.Image()
}
