// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an engine error into one of the expected business
// conditions, or Storage for anything the store threw at us.
type Kind int

const (
	KindValidation Kind = iota + 1 // malformed input: bad kind, self-target
	KindConflict                   // duplicate active swipe
	KindNotFound                   // nothing to undo, unknown user
	KindStorage                    // unexplained store failure, opaque to callers
)

// Error is the structured error every engine operation returns on failure.
// Business conditions (validation/conflict/not-found) carry a client-safe
// message; storage errors wrap the cause but never leak it to callers.
type Error struct {
	Kind Kind
	Msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.err }

// Validation flags malformed input the caller can correct.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// Conflict flags a duplicate active swipe (the idempotency guard).
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Msg: msg}
}

// NotFound flags lookups and undos with no matching row.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// Storage wraps an unexpected store failure. The cause stays attached for
// logging; callers only ever see the generic message.
func Storage(err error) error {
	return &Error{Kind: KindStorage, Msg: "storage failure", err: err}
}

// KindOf extracts the Kind from an error chain, or 0 if it carries none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsConflict reports whether err is a duplicate-swipe conflict.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
