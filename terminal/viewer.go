// Package terminal previews a rendered page, drawn as box-drawing characters,
// in a scrollable full-screen view.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Viewer shows text-grid lines on a tcell screen. The last screen row is a
// status bar.
type Viewer struct {
	screen tcell.Screen
	lines  []string
	title  string
	top    int
	left   int
	width  int
}

// NewViewer creates a viewer over an initialised screen.
func NewViewer(screen tcell.Screen, lines []string, title string) *Viewer {
	width := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	return &Viewer{screen: screen, lines: lines, title: title, width: width}
}

// Offset returns the first visible row and column.
func (v *Viewer) Offset() (row, col int) {
	return v.top, v.left
}

func (v *Viewer) viewport() (cols, rows int) {
	cols, rows = v.screen.Size()
	rows--
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

// Draw paints the visible part of the page and the status bar.
func (v *Viewer) Draw() {
	v.screen.Clear()
	cols, rows := v.viewport()
	style := tcell.StyleDefault

	for y := 0; y < rows && v.top+y < len(v.lines); y++ {
		v.drawLine(y, v.lines[v.top+y], cols, style)
	}

	status := fmt.Sprintf(" %s  row %d/%d col %d  q quit ", v.title, v.top+1, len(v.lines), v.left+1)
	bar := style.Reverse(true)
	x := 0
	for _, r := range status {
		if x >= cols {
			break
		}
		v.screen.SetContent(x, rows, r, nil, bar)
		x += runewidth.RuneWidth(r)
	}
	for ; x < cols; x++ {
		v.screen.SetContent(x, rows, ' ', nil, bar)
	}
}

// drawLine draws one page row, skipping the columns scrolled off the left.
func (v *Viewer) drawLine(y int, line string, cols int, style tcell.Style) {
	col := 0
	for _, r := range line {
		w := runewidth.RuneWidth(r)
		x := col - v.left
		col += w
		if x < 0 {
			continue
		}
		if x+w > cols {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// HandleKey applies a key press and reports whether the viewer should close.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	_, rows := v.viewport()
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		v.scroll(-1, 0)
	case tcell.KeyDown:
		v.scroll(1, 0)
	case tcell.KeyLeft:
		v.scroll(0, -1)
	case tcell.KeyRight:
		v.scroll(0, 1)
	case tcell.KeyPgUp:
		v.scroll(-rows, 0)
	case tcell.KeyPgDn:
		v.scroll(rows, 0)
	case tcell.KeyHome:
		v.top, v.left = 0, 0
	case tcell.KeyEnd:
		v.scroll(len(v.lines), 0)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'k':
			v.scroll(-1, 0)
		case 'j':
			v.scroll(1, 0)
		case 'h':
			v.scroll(0, -1)
		case 'l':
			v.scroll(0, 1)
		case ' ':
			v.scroll(rows, 0)
		}
	}
	return false
}

// scroll moves the view, keeping it within the page.
func (v *Viewer) scroll(dRows, dCols int) {
	cols, rows := v.viewport()
	v.top = clamp(v.top+dRows, 0, len(v.lines)-rows)
	v.left = clamp(v.left+dCols, 0, v.width-cols)
}

func clamp(n, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// Run draws and handles events until the user quits.
func (v *Viewer) Run() {
	for {
		v.Draw()
		v.screen.Show()

		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.scroll(0, 0)
			v.screen.Sync()
		case *tcell.EventKey:
			if v.HandleKey(ev) {
				return
			}
		}
	}
}

// Preview opens the terminal, shows lines until the user quits, and restores
// the terminal.
func Preview(lines []string, title string) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialise terminal: %w", err)
	}
	defer screen.Fini()

	NewViewer(screen, lines, title).Run()
	return nil
}
