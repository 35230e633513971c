// Package font provides the text metrics used to lay out schematics, and the
// faces used to rasterise them.
package font

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/mattn/go-runewidth"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	"schematic/core"
)

// Provider names accepted by New.
const (
	ProviderGo   = "go"
	ProviderMono = "mono"
)

// Provider measures text and supplies raster faces.
type Provider interface {
	core.TextMetrics
	Face(role core.FontRole, size float64) (xfont.Face, error)
}

// New returns the named provider.
func New(name string) (Provider, error) {
	switch name {
	case "", ProviderGo:
		return NewGoMetrics()
	case ProviderMono:
		return NewMono()
	default:
		return nil, fmt.Errorf("unknown metrics provider: %s", name)
	}
}

// maxCachedFaces bounds the faces GoMetrics keeps for measuring. Documents use
// a handful of sizes; when the cache fills it is emptied and refilled.
const maxCachedFaces = 64

type faceKey struct {
	role core.FontRole
	size float64
}

// GoMetrics measures text with the Go font family: Go Regular, Go Bold and Go
// Italic, unhinted at 72 DPI so one unit is one point. It is safe for concurrent
// use.
type GoMetrics struct {
	fonts map[core.FontRole]*truetype.Font

	mu    sync.Mutex
	faces map[faceKey]xfont.Face
}

// NewGoMetrics parses the embedded Go fonts.
func NewGoMetrics() (*GoMetrics, error) {
	sources := map[core.FontRole][]byte{
		core.Regular: goregular.TTF,
		core.Bold:    gobold.TTF,
		core.Italic:  goitalic.TTF,
	}
	m := &GoMetrics{
		fonts: make(map[core.FontRole]*truetype.Font, len(sources)),
		faces: make(map[faceKey]xfont.Face),
	}
	for role, ttf := range sources {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parsing %s font: %w", role, err)
		}
		m.fonts[role] = f
	}
	return m, nil
}

// Face returns a new face for role at size points. Faces are not safe for
// concurrent use, so each caller gets its own.
func (m *GoMetrics) Face(role core.FontRole, size float64) (xfont.Face, error) {
	if !(size > 0) {
		return nil, fmt.Errorf("invalid font size %g", size)
	}
	f, ok := m.fonts[role]
	if !ok {
		return nil, fmt.Errorf("no font for role %s", role)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: xfont.HintingNone,
	}), nil
}

// Measure returns the advance width of text in points.
func (m *GoMetrics) Measure(text string, role core.FontRole, size float64) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{role: role, size: size}
	face, ok := m.faces[key]
	if !ok {
		var err error
		if face, err = m.Face(role, size); err != nil {
			return 0, err
		}
		if len(m.faces) >= maxCachedFaces {
			clear(m.faces)
		}
		m.faces[key] = face
	}
	return float64(xfont.MeasureString(face, text)) / 64, nil
}

// monoAdvance is the advance of one cell as a fraction of the font size.
const monoAdvance = 0.6

// Mono measures every cell at a fixed advance, counting wide runes as two
// cells. Its widths line up with the character grid canvas.
type Mono struct {
	regular *GoMetrics
}

// NewMono creates a monospace provider. Raster faces still come from the Go
// fonts.
func NewMono() (*Mono, error) {
	g, err := NewGoMetrics()
	if err != nil {
		return nil, err
	}
	return &Mono{regular: g}, nil
}

// Measure returns the width of text in points.
func (m *Mono) Measure(text string, role core.FontRole, size float64) (float64, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid font size %g", size)
	}
	return float64(runewidth.StringWidth(text)) * monoAdvance * size, nil
}

// Face returns a Go font face.
func (m *Mono) Face(role core.FontRole, size float64) (xfont.Face, error) {
	return m.regular.Face(role, size)
}
