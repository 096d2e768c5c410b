// Package ecerr defines the error kinds used across the grammar graph
// engine. Every failure that is not itself a NOMATCH (which is data, not an
// error, and is represented by a sentinel return value rather than an error
// value) carries one of these kinds.
package ecerr

import "fmt"

// Kind identifies the category of a failure, mirroring the errno-style codes
// the engine is specified against.
type Kind int

const (
	// EINVAL means an argument or configuration was invalid.
	EINVAL Kind = iota
	// EEXIST means something that must be unique already existed (a
	// duplicate schema key, a duplicate registered type name).
	EEXIST
	// ENOENT means a named thing could not be found (an unregistered node
	// type, an unknown predicate function).
	ENOENT
	// EBADMSG means a value failed schema validation or a raw line could
	// not be tokenised.
	EBADMSG
	// EPERM means an operation was not permitted in the current state.
	EPERM
	// ERANGE means a numeric value fell outside its declared bounds.
	ERANGE
	// ENOMEM means an allocation-bearing operation could not complete.
	ENOMEM
)

func (k Kind) String() string {
	switch k {
	case EINVAL:
		return "EINVAL"
	case EEXIST:
		return "EEXIST"
	case ENOENT:
		return "ENOENT"
	case EBADMSG:
		return "EBADMSG"
	case EPERM:
		return "EPERM"
	case ERANGE:
		return "ERANGE"
	case ENOMEM:
		return "ENOMEM"
	default:
		return "EUNKNOWN"
	}
}

// Error is the error type returned by every fallible engine operation other
// than parse/complete's NOMATCH data sentinel.
type Error struct {
	kind Kind
	msg  string
	wrap error
}

func (e *Error) Error() string {
	if e.msg == "" {
		return e.kind.String()
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Kind returns the error's kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap gives the error that this Error wraps, if any.
func (e *Error) Unwrap() error {
	return e.wrap
}

// New returns a new Error of the given kind with a literal message.
func New(kind Kind, msg string) error {
	return &Error{kind: kind, msg: msg}
}

// Errorf returns a new Error of the given kind built from a format string.
func Errorf(kind Kind, format string, a ...interface{}) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap returns a new Error of the given kind that wraps another error.
func Wrap(kind Kind, wrapped error, msg string) error {
	return &Error{kind: kind, msg: msg, wrap: wrapped}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	return e.kind == kind
}
