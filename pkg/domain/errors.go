package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptySubmission is returned for input that is empty after trimming whitespace.
// It is never shown to the user.
var ErrEmptySubmission = errors.New("empty submission")

// ErrUnrecognizedResponse is returned when the backend replies with a well-formed
// payload of an unknown shape.
var ErrUnrecognizedResponse = errors.New("unrecognized response")

// ErrRelayClosed is returned when a turn is submitted to a closed relay.
var ErrRelayClosed = errors.New("relay closed")

// HTTPError is a non-success status returned by the backend.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d, message: %s", e.Status, e.Body)
}

// ConnectionKind subdivides transport failures.
type ConnectionKind string

const (
	ConnRefused ConnectionKind = "refused"
	ConnOther   ConnectionKind = "other"
)

// ConnectionError is a transport-level failure (refused, DNS, timeout, malformed body).
type ConnectionError struct {
	Kind ConnectionKind
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Kind == ConnRefused {
		return fmt.Sprintf("connection to %s refused", e.Addr)
	}
	return fmt.Sprintf("connection to %s failed: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ErrorKind returns a stable label for err, used in metrics and logs.
func ErrorKind(err error) string {
	var httpErr *HTTPError
	var connErr *ConnectionError
	switch {
	case err == nil:
		return "none"
	case errors.As(err, &httpErr):
		return "http"
	case errors.As(err, &connErr):
		return "connection_" + string(connErr.Kind)
	case errors.Is(err, ErrUnrecognizedResponse):
		return "unrecognized"
	default:
		return "internal"
	}
}

// IsHardFailure reports whether err should also be announced outside the reply
// placeholder. Unrecognized payloads are rendered in place only.
func IsHardFailure(err error) bool {
	var httpErr *HTTPError
	var connErr *ConnectionError
	return errors.As(err, &httpErr) || errors.As(err, &connErr)
}

// UserMessage converts an exchange error into the text shown in place of the reply.
func UserMessage(err error, cfg BackendConfig) string {
	var httpErr *HTTPError
	var connErr *ConnectionError
	switch {
	case errors.As(err, &httpErr):
		return fmt.Sprintf("Error: AIcode backend returned HTTP %d: %s", httpErr.Status, httpErr.Body)
	case errors.As(err, &connErr) && connErr.Kind == ConnRefused:
		return fmt.Sprintf("Error: Connection to AIcode backend refused. Please ensure the backend server is running at %s.", cfg.BaseURL())
	case errors.As(err, &connErr):
		return fmt.Sprintf("Error: Could not connect to AIcode backend. Is the server running? (%s)", causeText(connErr))
	case errors.Is(err, ErrUnrecognizedResponse):
		return "Received an unknown response type from AIcode backend."
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func causeText(e *ConnectionError) string {
	if e.Err == nil {
		return e.Error()
	}
	return strings.TrimSpace(e.Err.Error())
}
