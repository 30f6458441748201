package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps failures where the request never completed.
	ErrTransport = errors.New("backend request failed")

	// ErrSessionExpired is reported when send-message answers 404 with an
	// error mentioning "expired".
	ErrSessionExpired = errors.New("session expired or not found")

	// ErrMissingData is returned when a response lacks its data field.
	ErrMissingData = errors.New("invalid response format from backend")

	ErrNoResponseBody = errors.New("no response body")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Status)
}

// IsStatus reports whether err is an HTTPError with the given status.
func IsStatus(err error, status int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.Status == status
}
