package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"imgclassd/internal/classifier"
	"imgclassd/internal/pipeline"
	"imgclassd/internal/preprocess"
	"imgclassd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// badRequest is a client input error raised by the handlers themselves.
type badRequest struct{ msg string }

func (e badRequest) Error() string   { return e.msg }
func (e badRequest) StatusCode() int { return http.StatusBadRequest }

// statusFor maps well-known errors to HTTP status codes.
func statusFor(err error) int {
	var he HTTPError
	var mbe *http.MaxBytesError
	switch {
	case pipeline.IsMissingInput(err), preprocess.IsDecodeError(err):
		return http.StatusBadRequest
	case errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case pipeline.IsTooBusy(err):
		return http.StatusTooManyRequests
	case classifier.IsModelUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}
