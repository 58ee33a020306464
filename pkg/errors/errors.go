package errors

import (
	stderrors "errors"
	"fmt"
)

// TransportError is returned when a request to the catalog cannot be
// completed or the server answers with a non-success status.
type TransportError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsNetwork reports whether the request failed before a response arrived.
func (e *TransportError) IsNetwork() bool {
	return e.StatusCode == 0
}

// NewStatusError builds a TransportError for a non-success HTTP status.
func NewStatusError(url string, statusCode int, status string) *TransportError {
	return &TransportError{
		URL:        url,
		StatusCode: statusCode,
		Message:    status,
	}
}

// NewNetworkError builds a TransportError for a request that never got a
// response (DNS, connection refused, timeout, ...).
func NewNetworkError(url string, err error) *TransportError {
	return &TransportError{
		URL:     url,
		Message: err.Error(),
		Err:     err,
	}
}

// AsTransport extracts a TransportError from an error chain.
func AsTransport(err error) (*TransportError, bool) {
	var te *TransportError
	if stderrors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	_, ok := AsTransport(err)
	return ok
}
