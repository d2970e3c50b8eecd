package reconciler

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the Reconciler.
var (
	ErrNoActivity = errors.New("no activity selected")
	ErrNoRoom     = errors.New("no room selected")
	// ErrSuperseded is returned by an operation whose context changed while
	// its request was in flight. Its result was discarded.
	ErrSuperseded = errors.New("context changed while request was in flight")
)

// FetchError reports a failed load of lookups, roster or participants.
// The state that was loaded before the failure is kept.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SaveError reports a save the backend rejected. The grid is left untouched.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save participants: %v", e.Err)
}

func (e *SaveError) Unwrap() error {
	return e.Err
}
