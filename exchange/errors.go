package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/banky/go-hyperdeploy/rest"
)

// ConfigurationError reports invalid or ambiguous request fields. Fatal for
// the run; never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// SigningError reports a key or encoding failure while producing the
// submission payload.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("signing failed: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// TransportErrorKind classifies how a submission attempt failed before a
// usable response envelope was obtained.
type TransportErrorKind int

const (
	// TransportTimeout means the request deadline elapsed. The action may
	// still have been accepted server-side.
	TransportTimeout TransportErrorKind = iota
	// TransportHTTPError means the endpoint answered with a non-2xx status.
	TransportHTTPError
	// TransportNetworkError covers connection, DNS and similar failures.
	TransportNetworkError
	// TransportUnexpectedResponse means a 2xx body that is not a valid
	// {status, response} envelope.
	TransportUnexpectedResponse
)

func (k TransportErrorKind) String() string {
	switch k {
	case TransportTimeout:
		return "timeout"
	case TransportHTTPError:
		return "http error"
	case TransportNetworkError:
		return "network error"
	case TransportUnexpectedResponse:
		return "unexpected response"
	}
	return fmt.Sprintf("TransportErrorKind(%d)", int(k))
}

// TransportError is surfaced to the caller unretried: the actions in scope
// are not idempotent, so retry policy is an explicit caller decision.
type TransportError struct {
	Kind   TransportErrorKind
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("transport failure (%s): %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("transport failure (%s): %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// classifyTransportError maps a rest error onto the transport taxonomy.
func classifyTransportError(err error) *TransportError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{
			Kind:   TransportTimeout,
			Detail: "request timed out; the action may still have been accepted server-side",
			Err:    err,
		}
	}

	var clientErr *rest.ClientError
	if errors.As(err, &clientErr) {
		return &TransportError{
			Kind:   TransportHTTPError,
			Detail: clientErr.Msg,
			Err:    err,
		}
	}

	var serverErr *rest.ServerError
	if errors.As(err, &serverErr) {
		return &TransportError{
			Kind:   TransportHTTPError,
			Detail: serverErr.Text,
			Err:    err,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{
			Kind:   TransportTimeout,
			Detail: "request timed out; the action may still have been accepted server-side",
			Err:    err,
		}
	}

	// A 2xx body that could not be decoded into the response envelope
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &TransportError{
			Kind: TransportUnexpectedResponse,
			Err:  err,
		}
	}

	return &TransportError{
		Kind: TransportNetworkError,
		Err:  err,
	}
}
