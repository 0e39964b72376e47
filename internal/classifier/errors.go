package classifier

import (
	"errors"
	"fmt"
)

// InferenceError reports a shape mismatch or a backend failure during predict.
type InferenceError struct {
	Msg string
	Err error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return "inference: " + e.Msg + ": " + e.Err.Error()
	}
	return "inference: " + e.Msg
}

func (e *InferenceError) Unwrap() error { return e.Err }

// IsInferenceError reports whether err is or wraps an InferenceError.
func IsInferenceError(err error) bool {
	var ie *InferenceError
	return errors.As(err, &ie)
}

func shapeMismatch(got, want []int64) error {
	return &InferenceError{Msg: fmt.Sprintf("tensor shape %v does not match model input %v", got, want)}
}

// modelUnavailableError signals that the model could not be loaded so the
// HTTP layer can answer 503 instead of 500.
type modelUnavailableError struct{ err error }

func (e modelUnavailableError) Error() string { return "model unavailable: " + e.err.Error() }

func (e modelUnavailableError) Unwrap() error { return e.err }

// IsModelUnavailable reports whether err indicates a failed model load.
func IsModelUnavailable(err error) bool {
	var mu modelUnavailableError
	return errors.As(err, &mu)
}
