package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotActive signals an operation that needs a loaded form (edit,
	// navigate, submit) was called before acquisition finished or after the
	// session ended.
	ErrNotActive = errors.New("session: no active form")
	// ErrLastSection signals Advance was called on the final section; that
	// case routes to Submit instead.
	ErrLastSection = errors.New("session: already at the last section")
	// ErrNotLastSection signals Submit was called before reaching the final
	// section.
	ErrNotLastSection = errors.New("session: submit is only valid on the last section")
	// ErrClosed signals the session was torn down; late acquisition results
	// are discarded with this error.
	ErrClosed = errors.New("session: closed")
	// ErrAlreadyStarted signals a second Start on a live session.
	ErrAlreadyStarted = errors.New("session: already started")
)

// AcquisitionError wraps a schema fetch or decode failure. It is the one
// failure class treated as exceptional: the session is unusable and the
// caller is expected to return the user to the login surface.
type AcquisitionError struct {
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("session: schema acquisition failed: %v", e.Err)
}

func (e *AcquisitionError) Unwrap() error {
	return e.Err
}
