// Package render turns a schematic Document into primitive canvas calls.
//
// A render runs through a fixed sequence of states. Regions are placed first,
// depth first; anchors are resolved once every region has a position; only
// then is anything drawn, in a fixed order: the page title, each top-level
// region with its boxes, labels and nested regions in declaration order, and
// finally the document-level connectors so they sit on top of the boxes they
// join.
package render

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"schematic/core"
	"schematic/diagram"
	"schematic/layout"
)

// ErrLayoutOverflow is matched by the error returned in strict mode when a
// document overflows.
var ErrLayoutOverflow = errors.New("layout overflow")

// OverflowError carries the diagnostics that failed a strict render.
type OverflowError struct {
	Overflows []layout.Overflow
}

func (e *OverflowError) Error() string {
	if len(e.Overflows) == 1 {
		return fmt.Sprintf("layout overflow: %s", e.Overflows[0])
	}
	return fmt.Sprintf("layout overflow: %d diagnostics, first: %s", len(e.Overflows), e.Overflows[0])
}

func (e *OverflowError) Unwrap() error {
	return ErrLayoutOverflow
}

// BackendError wraps a failure of the text metrics or canvas implementation.
type BackendError struct {
	// Op is the failing call, e.g. "measure", "draw text", "finish page".
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Result describes a finished render.
type Result struct {
	// Frames are the resolved top-level regions, in document coordinates.
	Frames []*layout.Frame
	// Anchors maps every anchor reference ("owner.edge") to its absolute point.
	Anchors map[string]core.Point
	// Overflows lists layout diagnostics in the order they were found.
	Overflows []layout.Overflow
	// Calls counts the primitive drawing calls issued, FinishPage excluded.
	Calls int
}

// HasOverflow reports whether any diagnostic was recorded.
func (r *Result) HasOverflow() bool {
	return len(r.Overflows) > 0
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStrict makes any overflow fail the render before drawing starts.
func WithStrict() Option {
	return func(r *Renderer) {
		r.strict = true
	}
}

// WithLogger sets the logger used for pass transitions and diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.log = l
		}
	}
}

// Renderer resolves and draws documents. It holds no per-render state, so one
// Renderer can serve any number of documents and goroutines.
type Renderer struct {
	metrics core.TextMetrics
	strict  bool
	log     *slog.Logger
}

// New creates a renderer that measures text with metrics.
func New(metrics core.TextMetrics, opts ...Option) *Renderer {
	r := &Renderer{
		metrics: metrics,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render resolves doc and draws it on c, finishing the page. Each call works on
// freshly resolved coordinates; rendering the same document twice issues the
// same calls in the same order.
func (r *Renderer) Render(doc *diagram.Document, c core.Canvas) (*Result, error) {
	p := newPass(r, doc)

	p.placeRegions()
	r.log.Debug("regions placed", "frames", len(p.frames), "overflows", len(p.overflows))

	if err := p.resolveAnchors(); err != nil {
		return nil, err
	}
	r.log.Debug("anchors resolved", "anchors", len(p.anchors))

	if err := p.plan(); err != nil {
		return nil, err
	}
	for _, o := range p.overflows {
		r.log.Warn("layout overflow", "kind", o.Kind.String(), "region", o.Region, "child", o.Child, "amount", o.Amount)
	}
	if r.strict && len(p.overflows) > 0 {
		return nil, &OverflowError{Overflows: p.overflows}
	}

	if err := p.emit(c); err != nil {
		return nil, err
	}
	r.log.Debug("page emitted", "calls", len(p.ops))

	return &Result{
		Frames:    p.frames,
		Anchors:   p.anchors,
		Overflows: p.overflows,
		Calls:     len(p.ops),
	}, nil
}
