package canvas

import (
	"errors"
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"schematic/core"
	"schematic/geometry"
)

// Common errors
var (
	ErrInvalidSize = errors.New("invalid canvas size")
	ErrFinished    = errors.New("page already finished")
)

// Default cell size in points. A monospace glyph is roughly twice as tall as
// it is wide.
const (
	DefaultCellWidth  = 6.0
	DefaultCellHeight = 12.0
)

// Matrix is a character grid canvas. Each cell covers CellWidth by CellHeight
// points of the page; strokes become box-drawing characters and text is written
// cell by cell.
//
// Matrix is NOT safe for concurrent use.
//
// Coordinate System:
//   - Drawing calls take page points, origin top-left, y down
//   - Cell (0,0) is top-left
//   - Wide runes take two cells; the second holds '\x00'
type Matrix struct {
	cells      [][]rune
	cols, rows int
	cellW      float64
	cellH      float64
	merger     *CharacterMerger
	finished   bool
}

// positive reports whether every value is a finite number above zero.
func positive(vs ...float64) bool {
	for _, v := range vs {
		if !(v > 0) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// NewMatrix creates a grid covering a page of the given size in points.
func NewMatrix(pageWidth, pageHeight, cellWidth, cellHeight float64) (*Matrix, error) {
	if !positive(pageWidth, pageHeight, cellWidth, cellHeight) {
		return nil, ErrInvalidSize
	}
	// One extra cell so strokes on the right and bottom page edges fit.
	cols := int(math.Ceil(pageWidth/cellWidth)) + 1
	rows := int(math.Ceil(pageHeight/cellHeight)) + 1

	cells := make([][]rune, rows)
	for y := range cells {
		cells[y] = make([]rune, cols)
		for x := range cells[y] {
			cells[y][x] = ' '
		}
	}
	return &Matrix{
		cells:  cells,
		cols:   cols,
		rows:   rows,
		cellW:  cellWidth,
		cellH:  cellHeight,
		merger: NewCharacterMerger(),
	}, nil
}

// Size returns the grid size in cells.
func (m *Matrix) Size() (cols, rows int) {
	return m.cols, m.rows
}

// Get returns the character at a cell, or ' ' outside the grid.
func (m *Matrix) Get(col, row int) rune {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return ' '
	}
	return m.cells[row][col]
}

func (m *Matrix) col(x float64) int {
	return int(math.Round(x / m.cellW))
}

func (m *Matrix) row(y float64) int {
	return int(math.Round(y / m.cellH))
}

// set merges a stroke character into a cell, clipping silently.
func (m *Matrix) set(col, row int, r rune) {
	if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
		return
	}
	m.cells[row][col] = m.merger.Merge(m.cells[row][col], r)
}

// DrawRect draws the outline of a rectangle. Rectangles smaller than a cell
// collapse to a line or a single corner.
func (m *Matrix) DrawRect(x, y, width, height float64, stroke core.Stroke) error {
	if m.finished {
		return ErrFinished
	}
	x1, y1 := m.col(x), m.row(y)
	x2, y2 := m.col(x+width), m.row(y+height)

	if y1 == y2 {
		m.hline(x1, x2, y1)
		return nil
	}
	if x1 == x2 {
		m.vline(x1, y1, y2)
		return nil
	}

	for cx := x1 + 1; cx < x2; cx++ {
		m.set(cx, y1, '─')
		m.set(cx, y2, '─')
	}
	for cy := y1 + 1; cy < y2; cy++ {
		m.set(x1, cy, '│')
		m.set(x2, cy, '│')
	}
	m.set(x1, y1, '┌')
	m.set(x2, y1, '┐')
	m.set(x1, y2, '└')
	m.set(x2, y2, '┘')
	return nil
}

// DrawLine draws a straight stroke. Horizontal and vertical strokes use line
// characters; anything else is traced with Bresenham's algorithm.
func (m *Matrix) DrawLine(x1, y1, x2, y2 float64, stroke core.Stroke) error {
	if m.finished {
		return ErrFinished
	}
	c1, r1 := m.col(x1), m.row(y1)
	c2, r2 := m.col(x2), m.row(y2)

	switch {
	case r1 == r2:
		m.hline(c1, c2, r1)
	case c1 == c2:
		m.vline(c1, r1, r2)
	default:
		ch := '╲'
		if (c2-c1)*(r2-r1) < 0 {
			ch = '╱'
		}
		m.trace(c1, r1, c2, r2, ch)
	}
	return nil
}

func (m *Matrix) hline(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		m.set(x, y, '─')
	}
}

func (m *Matrix) vline(x, y1, y2 int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		m.set(x, y, '│')
	}
}

// trace draws a diagonal with Bresenham's line algorithm.
func (m *Matrix) trace(x1, y1, x2, y2 int, ch rune) {
	dx := geometry.Abs(x2 - x1)
	dy := -geometry.Abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx + dy
	for {
		m.set(x1, y1, ch)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x1 += sx
		}
		if e2 <= dx {
			err += dx
			y1 += sy
		}
	}
}

// DrawText writes a run starting at the cell containing its baseline origin.
// Text overwrites strokes; runes falling outside the grid are dropped.
func (m *Matrix) DrawText(x, y float64, text string, font core.Font, color core.Color) error {
	if m.finished {
		return ErrFinished
	}
	// The baseline sits at the bottom of a glyph; the cell above it holds the
	// glyph body.
	row := int(math.Ceil(y/m.cellH)) - 1
	if row < 0 || row >= m.rows {
		return nil
	}
	col := m.col(x)
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 && col+w <= m.cols {
			m.cells[row][col] = r
			if w == 2 {
				m.cells[row][col+1] = '\x00'
			}
		}
		col += w
		if col >= m.cols {
			break
		}
	}
	return nil
}

// FinishPage freezes the grid.
func (m *Matrix) FinishPage() error {
	if m.finished {
		return ErrFinished
	}
	m.finished = true
	return nil
}

// Lines returns the grid rows with trailing spaces removed.
func (m *Matrix) Lines() []string {
	lines := make([]string, m.rows)
	for y, row := range m.cells {
		var sb strings.Builder
		for _, r := range row {
			if r == '\x00' {
				continue
			}
			sb.WriteRune(r)
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

// String returns the grid with newlines, trailing blank rows dropped.
func (m *Matrix) String() string {
	lines := m.Lines()
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}
