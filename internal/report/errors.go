package report

import "errors"

// RenderError reports a drawing or filesystem failure. No partial document
// is left behind when it is returned.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string { return "render report: " + e.Op + ": " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// IsRenderError reports whether err is or wraps a RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
