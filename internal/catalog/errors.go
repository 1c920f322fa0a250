package catalog

import (
	"errors"
	"fmt"
)

// NetworkError is a transport failure or a non-2xx response
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog request %s failed with HTTP %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("catalog request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MalformedResponseError is a 2xx response whose body does not have the
// expected envelope, or whose status field is not "success".
type MalformedResponseError struct {
	URL    string
	Status string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed catalog response from %s: status %q", e.URL, e.Status)
	}
	return fmt.Sprintf("malformed catalog response from %s: %v", e.URL, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err should be handled as a network failure.
// Malformed responses are handled the same way.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	var malformed *MalformedResponseError
	return errors.As(err, &netErr) || errors.As(err, &malformed)
}

// IsMalformed reports whether err came from an unexpected response shape
func IsMalformed(err error) bool {
	var malformed *MalformedResponseError
	return errors.As(err, &malformed)
}
