package internaltypes

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthExpired means the booking service rejected the session; it is fatal.
	ErrAuthExpired = errors.New("session rejected by booking service")
	ErrConfig      = errors.New("invalid configuration")
)

// FetchError is a recoverable failure reading the booking service: transport
// errors, non-2xx statuses and non-zero response codes.
type FetchError struct {
	Op   string
	Code int
	Err  error
}

func (e *FetchError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s: code %d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func ConfigErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
