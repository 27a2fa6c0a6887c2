package feed

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrTransport         = errors.New("feed transport failure")
	ErrMalformedResponse = errors.New("malformed feed response")
)

// TransportError is returned once every endpoint failed. It matches
// ErrTransport and unwraps to the error of the last attempt.
type TransportError struct {
	Endpoint string
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf(
		"%s: %d attempt(s), last endpoint %s: %v",
		ErrTransport,
		e.Attempts,
		e.Endpoint,
		e.Err,
	)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
