package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// StatusError is a non-2xx backend response.
type StatusError struct {
	Code int
	// Text is the status text, e.g. "Unauthorized".
	Text string
}

func (e *StatusError) Error() string { return e.Text }

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// statusText extracts the reason phrase from a response status line such as
// "401 Unauthorized", falling back to the canonical text for the code.
func statusText(resp *http.Response) string {
	s := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if s == "" {
		s = http.StatusText(resp.StatusCode)
	}
	return s
}
