package extract

import (
	"errors"
	"fmt"
)

// Kind distinguishes extraction failure classes. RateLimited is the only one
// the service retries; everything else surfaces to the caller immediately.
type Kind int

const (
	RateLimited Kind = iota
	MalformedResponse
	EmptyResponse
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case RateLimited:
		return "rate_limited"
	case MalformedResponse:
		return "malformed_response"
	case EmptyResponse:
		return "empty_response"
	case TransportFailure:
		return "transport_failure"
	}
	return "unknown"
}

// Error is an extraction failure. Raw carries the offending response text for
// diagnostics when one exists.
type Error struct {
	Kind  Kind
	Raw   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s: %v", e.Kind, e.Cause)
	}
	return fmt.Sprintf("extraction %s", e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind reports whether err is an extraction Error of the given kind.
func IsKind(err error, k Kind) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Kind == k
}
