package manifest

import (
	"errors"
	"fmt"
)

// Sentinel errors for template configuration failures. Rendering itself
// never fails: missing data and malformed quantities degrade to defaults. The
// only conditions surfaced to callers are structural template problems that
// make rendering impossible to start.
var (
	ErrNoCanvas       = errors.New("manifest: template has no canvas dimensions")
	ErrDuplicateField = errors.New("manifest: duplicate field id")
	ErrUnknownMode    = errors.New("manifest: unknown target mode")
	ErrNoBackground   = errors.New("manifest: background reference not readable")
)

// RenderError wraps an underlying error with the name of the operation that
// produced it.
type RenderError struct {
	Op  string // operation name, e.g. "LoadTemplate", "DetectCanvas"
	Err error  // underlying error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("manifest.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("manifest.%s: unknown error", e.Op)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// newRenderError creates a RenderError wrapping err with operation context.
func newRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}
