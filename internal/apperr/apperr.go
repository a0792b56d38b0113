// Package apperr carries jsonai's error taxonomy and maps it to exit codes.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by what went wrong, not by a stack trace.
type Kind int

const (
	KindUsage Kind = iota
	KindInput
	KindParse
	KindPointer
	KindPatchTestFailed
	KindEngine
	KindNoMatch
)

func (k Kind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindInput:
		return "input"
	case KindParse:
		return "parse"
	case KindPointer:
		return "pointer"
	case KindPatchTestFailed:
		return "patch_test_failed"
	case KindEngine:
		return "engine"
	case KindNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Error wraps an underlying error with a Kind so callers can recover it
// with errors.As without string matching.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with the given kind and formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an existing error.
func Wrap(kind Kind, err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the Kind from err, defaulting to KindEngine for
// errors that never went through apperr (an internal bug, not a
// documented taxonomy member).
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindEngine
}

// ExitCode maps a Kind to the process exit code.
func ExitCode(k Kind) int {
	switch k {
	case KindNoMatch:
		return 1
	default:
		return 2
	}
}
