package terminal

import (
	"fmt"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func pageLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%02d│abcdefghijklmnopqrstuvwxyz", i)
	}
	return lines
}

func rowText(s tcell.SimulationScreen, row, width int) string {
	cells, cols, _ := s.GetContents()
	var out []rune
	for x := 0; x < width && x < cols; x++ {
		c := cells[row*cols+x]
		if len(c.Runes) == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.Runes[0])
	}
	return string(out)
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestViewerDraw(t *testing.T) {
	s := newScreen(t, 10, 4)
	v := NewViewer(s, pageLines(20), "FIG")
	v.Draw()
	s.Show()

	assert.Equal(t, "00│abcdefg", rowText(s, 0, 10))
	assert.Equal(t, "02│abcdefg", rowText(s, 2, 10))
	assert.Equal(t, " FIG  row ", rowText(s, 3, 10))
}

func TestViewerScrolling(t *testing.T) {
	tests := []struct {
		name    string
		keys    []*tcell.EventKey
		wantRow int
		wantCol int
	}{
		{"down", []*tcell.EventKey{key(tcell.KeyDown), char('j')}, 2, 0},
		{"up stops at top", []*tcell.EventKey{key(tcell.KeyUp)}, 0, 0},
		{"right", []*tcell.EventKey{key(tcell.KeyRight), char('l')}, 0, 2},
		{"page down", []*tcell.EventKey{key(tcell.KeyPgDn)}, 3, 0},
		{"end clamps to last page", []*tcell.EventKey{key(tcell.KeyEnd)}, 17, 0},
		{"home", []*tcell.EventKey{key(tcell.KeyEnd), key(tcell.KeyRight), key(tcell.KeyHome)}, 0, 0},
		{"right clamps to width", []*tcell.EventKey{key(tcell.KeyRight), key(tcell.KeyRight), key(tcell.KeyRight)}, 0, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Lines are 29 columns wide, so a 26-column screen scrolls by 3.
			s := newScreen(t, 26, 4)
			v := NewViewer(s, pageLines(20), "FIG")
			for _, k := range tt.keys {
				assert.False(t, v.HandleKey(k))
			}
			row, col := v.Offset()
			assert.Equal(t, tt.wantRow, row)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestViewerQuit(t *testing.T) {
	for _, k := range []*tcell.EventKey{char('q'), key(tcell.KeyEscape), key(tcell.KeyCtrlC)} {
		s := newScreen(t, 10, 4)
		v := NewViewer(s, pageLines(3), "FIG")
		assert.True(t, v.HandleKey(k))
	}
}

func TestViewerRun(t *testing.T) {
	s := newScreen(t, 10, 4)
	v := NewViewer(s, pageLines(20), "FIG")

	s.InjectKey(tcell.KeyDown, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	v.Run()

	row, _ := v.Offset()
	assert.Equal(t, 1, row)
}
