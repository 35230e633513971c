// Package canvas provides the drawing backends for rendered schematics: a
// call recorder, SVG and PNG writers, and a character grid for terminals.
package canvas

import (
	"schematic/core"
)

// Call ops recorded by Recorder.
const (
	OpRect   = "rect"
	OpLine   = "line"
	OpText   = "text"
	OpFinish = "finish"
)

// Call is one recorded drawing call. Fields not used by an op are zero.
type Call struct {
	Op string `json:"op" msgpack:"op"`

	// Rect: top-left corner and size. Line: both ends. Text: baseline origin.
	X      float64 `json:"x,omitempty" msgpack:"x,omitempty"`
	Y      float64 `json:"y,omitempty" msgpack:"y,omitempty"`
	X2     float64 `json:"x2,omitempty" msgpack:"x2,omitempty"`
	Y2     float64 `json:"y2,omitempty" msgpack:"y2,omitempty"`
	Width  float64 `json:"width,omitempty" msgpack:"width,omitempty"`
	Height float64 `json:"height,omitempty" msgpack:"height,omitempty"`

	Stroke *StrokeSpec `json:"stroke,omitempty" msgpack:"stroke,omitempty"`

	Text  string  `json:"text,omitempty" msgpack:"text,omitempty"`
	Font  string  `json:"font,omitempty" msgpack:"font,omitempty"`
	Size  float64 `json:"size,omitempty" msgpack:"size,omitempty"`
	Color string  `json:"color,omitempty" msgpack:"color,omitempty"`
}

// StrokeSpec is the serialisable form of core.Stroke.
type StrokeSpec struct {
	Color string    `json:"color" msgpack:"color"`
	Width float64   `json:"width" msgpack:"width"`
	Dash  []float64 `json:"dash,omitempty" msgpack:"dash,omitempty"`
}

func strokeSpec(s core.Stroke) *StrokeSpec {
	return &StrokeSpec{Color: s.Color.Hex(), Width: s.Width, Dash: s.Clone().Dash}
}

// DisplayList is a finished page as a list of calls.
type DisplayList struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
	Calls  []Call  `json:"calls" msgpack:"calls"`
}

// Recorder is a canvas that keeps every call. Two renders of the same document
// produce equal Calls.
type Recorder struct {
	Calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Finished reports whether FinishPage was called.
func (r *Recorder) Finished() bool {
	n := len(r.Calls)
	return n > 0 && r.Calls[n-1].Op == OpFinish
}

func (r *Recorder) add(c Call) error {
	if r.Finished() {
		return ErrFinished
	}
	r.Calls = append(r.Calls, c)
	return nil
}

// DrawRect records a rectangle outline.
func (r *Recorder) DrawRect(x, y, width, height float64, stroke core.Stroke) error {
	return r.add(Call{Op: OpRect, X: x, Y: y, Width: width, Height: height, Stroke: strokeSpec(stroke)})
}

// DrawLine records a line.
func (r *Recorder) DrawLine(x1, y1, x2, y2 float64, stroke core.Stroke) error {
	return r.add(Call{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Stroke: strokeSpec(stroke)})
}

// DrawText records a text run.
func (r *Recorder) DrawText(x, y float64, text string, font core.Font, color core.Color) error {
	return r.add(Call{
		Op:    OpText,
		X:     x,
		Y:     y,
		Text:  text,
		Font:  font.Role.String(),
		Size:  font.Size,
		Color: color.Hex(),
	})
}

// FinishPage records the end of the page.
func (r *Recorder) FinishPage() error {
	return r.add(Call{Op: OpFinish})
}

// Texts returns the recorded text calls in order.
func (r *Recorder) Texts() []Call {
	return r.filter(OpText)
}

// Lines returns the recorded line calls in order.
func (r *Recorder) Lines() []Call {
	return r.filter(OpLine)
}

// Rects returns the recorded rectangle calls in order.
func (r *Recorder) Rects() []Call {
	return r.filter(OpRect)
}

func (r *Recorder) filter(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// DisplayList returns the recorded page.
func (r *Recorder) DisplayList(width, height float64) DisplayList {
	calls := make([]Call, len(r.Calls))
	copy(calls, r.Calls)
	return DisplayList{Width: width, Height: height, Calls: calls}
}
