package core

// TextMetrics measures rendered text. Implementations must return the same width
// for the same arguments; the renderer's determinism depends on it.
type TextMetrics interface {
	// Measure returns the advance width of text, in points, set in the given role
	// at size points.
	Measure(text string, role FontRole, size float64) (float64, error)
}

// Canvas is a single page that accepts absolute drawing commands.
//
// Coordinates are in points with the origin at the top-left corner of the page
// and y growing downwards. Rectangles are given by their top-left corner, text
// runs by the left end of their baseline.
type Canvas interface {
	// DrawRect strokes the outline of a rectangle.
	DrawRect(x, y, width, height float64, stroke Stroke) error

	// DrawLine strokes a straight segment.
	DrawLine(x1, y1, x2, y2 float64, stroke Stroke) error

	// DrawText places a single-line text run.
	DrawText(x, y float64, text string, font Font, color Color) error

	// FinishPage flushes the page to the backend's output.
	FinishPage() error
}
