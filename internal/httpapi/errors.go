package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"opinio/internal/app"
	"opinio/internal/effect"
	"opinio/internal/event"
	"opinio/internal/view"
	"opinio/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Code: status})
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var pe *app.PayloadError
	var he HTTPError
	switch {
	case errors.As(err, &he):
		return he.StatusCode()
	case event.IsUnknownKind(err), view.IsUnknownView(err):
		return http.StatusNotFound
	case errors.As(err, &pe):
		return http.StatusBadRequest
	case effect.IsTooBusy(err):
		return http.StatusTooManyRequests
	case errors.Is(err, app.ErrClosed), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusUnprocessableEntity
	}
}
