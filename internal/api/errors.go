package api

import (
	"errors"
	"fmt"
)

// NetworkError is returned for any request that failed to reach the server
// or came back with a non-2xx status.
type NetworkError struct {
	// Op names the client call, e.g. "update progress".
	Op string
	// Status is the HTTP status code, or 0 when no response was received.
	Status int
	// Message is the server's error text when it sent one.
	Message string
	// Err is the underlying transport or decode error.
	Err error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

// Unwrap returns the underlying error
func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err (or any error in its chain) is a *NetworkError
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Status
	}
	return 0
}
