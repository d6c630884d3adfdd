package remote

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when require-token mode is on and no credential
// token is stored. The request is never issued.
var ErrNoToken = errors.New("remote: no credential token stored")

// ConnectivityError wraps a transport-level failure: the request never
// reached the backend or the response never arrived (DNS, refused
// connection, timeout).
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("remote: connectivity: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// TransportError reports a non-2xx HTTP status from the backend.
type TransportError struct {
	StatusCode int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote: unexpected status %d", e.StatusCode)
}

// ParseError wraps a malformed response body.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("remote: parse response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrorKind classifies an error from a remote call for logging. The
// user-facing layers collapse all kinds into one message; the kind is kept
// for diagnostics only.
func ErrorKind(err error) string {
	var ce *ConnectivityError
	var te *TransportError
	var pe *ParseError
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &ce):
		return "connectivity"
	case errors.As(err, &te):
		return "transport"
	case errors.As(err, &pe):
		return "parse"
	case errors.Is(err, ErrNoToken):
		return "no-token"
	default:
		return "other"
	}
}
