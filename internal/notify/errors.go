package notify

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError represents a non-2xx response from the Discord API.
type HTTPError struct {
	Message    string
	StatusCode int
	Code       int
}

func (e *HTTPError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("HTTP %d (code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// IsNotFound reports whether err means the target message does not exist.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
