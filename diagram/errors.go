package diagram

import (
	"errors"
	"fmt"
)

// Construction failures. Build wraps them in a *ConstructionError.
var (
	ErrUnknownAnchor       = errors.New("unknown anchor")
	ErrUnknownEdge         = errors.New("unknown anchor edge")
	ErrDuplicateName       = errors.New("duplicate name")
	ErrNegativeSize        = errors.New("negative size")
	ErrInvalidFontSize     = errors.New("font size must be positive")
	ErrSeparatorLabel      = errors.New("separator box cannot hold labels")
	ErrDegenerateConnector = errors.New("connector has zero length")
	ErrInvalidPage         = errors.New("page size must be positive")
	ErrInvalidCoordinate   = errors.New("coordinate must be finite")
)

// ConstructionError reports a document that cannot be built. No drawing ever
// happens for such a document.
type ConstructionError struct {
	// Op is the element being checked, e.g. "region", "box", "connector".
	Op string
	// Name identifies the element: its name, anchor reference or index.
	Name string
	Err  error
}

func (e *ConstructionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

func constructionErr(op, name string, err error) error {
	return &ConstructionError{Op: op, Name: name, Err: err}
}
