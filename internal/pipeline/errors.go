package pipeline

import "errors"

// ErrMissingInput signals that a required upload was absent.
var ErrMissingInput = errors.New("no file provided")

// IsMissingInput reports whether err is ErrMissingInput.
func IsMissingInput(err error) bool { return errors.Is(err, ErrMissingInput) }

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ reason string }

func (e tooBusyError) Error() string { return "too busy: " + e.reason }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var tb tooBusyError
	return errors.As(err, &tb)
}
