package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRejected     = errors.New("request rejected")
)

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap makes every APIError match ErrRejected and 401s also match ErrUnauthorized.
func (e *APIError) Unwrap() []error {
	if e.Status == http.StatusUnauthorized {
		return []error{ErrRejected, ErrUnauthorized}
	}
	return []error{ErrRejected}
}

// Message returns the server supplied message of err, if any.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
