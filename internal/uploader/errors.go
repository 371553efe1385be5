package uploader

import (
	"errors"
	"fmt"
)

// ValidationError rejects a file locally, before a task or network call exists.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// AuthenticationError means the caller identity was absent. Raised before any
// network call.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "caller identity is missing"
}

// NetworkError is a connectivity failure with no HTTP status available.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network failure: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TransportError is a non-success response from the storage PUT.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("storage transfer failed with status %d", e.StatusCode)
}

// ServerError is a failed presign, finalize, mutation or listing call.
// Never retried.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// retryable reports whether the retry budget applies to err. Only transfer
// failures qualify; presign and finalize errors surface immediately.
func retryable(err error) bool {
	var netErr *NetworkError
	var transportErr *TransportError
	return errors.As(err, &netErr) || errors.As(err, &transportErr)
}
