package client

import (
	"errors"
	"fmt"
)

// Common errors returned by the client.
var (
	// ErrNetwork wraps connection-level failures (DNS, refused, timeout, cancellation).
	ErrNetwork = errors.New("network failure")

	// ErrMalformedResponse is returned when a response body is not the
	// expected {total, offset, count, data} envelope.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError is returned for any response whose status is not 200 OK.
type StatusError struct {
	StatusCode int
	ErrorClass ErrorClass
	Endpoint   string
	Message    string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected server response from %s: %s error (status %d): %s",
			e.Endpoint, e.ErrorClass, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected server response from %s: %s error (status %d)",
		e.Endpoint, e.ErrorClass, e.StatusCode)
}

// IsStatusError reports whether err is or wraps a *StatusError and returns it.
func IsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// MissingFieldError names the envelope field a response lacked.
type MissingFieldError struct {
	Field Field
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", ErrMalformedResponse, string(e.Field))
}

// Unwrap lets errors.Is match ErrMalformedResponse.
func (e *MissingFieldError) Unwrap() error {
	return ErrMalformedResponse
}
