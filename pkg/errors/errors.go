package errors

import (
	"errors"
	"fmt"
)

// Kind classifies every failure of the remote user service.
// The set is closed: callers switch on it exhaustively.
type Kind int

const (
	// KindUnknown is reported by KindOf for errors that did not come from the remote service.
	KindUnknown Kind = iota
	// KindInvalidURL means the request URL could not be built.
	KindInvalidURL
	// KindRequestFailed covers transport errors and, for deletes, any status other than 200.
	KindRequestFailed
	// KindNoData means the response carried an empty body.
	KindNoData
	// KindDecodingError means the body did not decode to the expected user shape.
	KindDecodingError
	// KindEncodingError means the outgoing user could not be serialized.
	KindEncodingError
)

// String returns the wire name of the kind, used in logs, metrics and HTTP bodies.
func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid_url"
	case KindRequestFailed:
		return "request_failed"
	case KindNoData:
		return "no_data"
	case KindDecodingError:
		return "decoding_error"
	case KindEncodingError:
		return "encoding_error"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching. Any *APIError of the same kind matches.
var (
	ErrInvalidURL    = &APIError{Kind: KindInvalidURL}
	ErrRequestFailed = &APIError{Kind: KindRequestFailed}
	ErrNoData        = &APIError{Kind: KindNoData}
	ErrDecoding      = &APIError{Kind: KindDecodingError}
	ErrEncoding      = &APIError{Kind: KindEncodingError}
)

// APIError is the single error type returned by the remote user service.
// Op names the failing operation; Err keeps the underlying cause for logging only.
type APIError struct {
	Kind Kind
	Op   string
	Err  error
}

// New creates an APIError of the given kind.
func New(kind Kind, op string, err error) *APIError {
	return &APIError{Kind: kind, Op: op, Err: err}
}

// Error implements the error interface
func (e *APIError) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an APIError of the same kind.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf extracts the kind from err, or KindUnknown if err is not an APIError.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
