package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrSuperseded is returned by Plan when a newer Plan call started
	// before this one finished. Its result, if any, is discarded.
	ErrSuperseded = errors.New("plan request superseded by a newer one")
	// ErrNotSignedIn is returned when the session cannot be refreshed.
	ErrNotSignedIn = errors.New("not signed in")
)

// APIError is a non-2xx answer of the backend.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Body    string `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status=%d, code=%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (status=%d): %s", e.Status, e.Body)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsUnauthorized reports a 401 answer or a failed session refresh.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrNotSignedIn) || IsStatus(err, http.StatusUnauthorized)
}
