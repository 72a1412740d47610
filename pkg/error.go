package pkg

// Sentinel errors shared by spyview packages.
// These errors can be tested using errors.Is for reliable error checking.

import (
	"fmt"
	"strings"
)

// Error represents a chain of errors, innermost first.
type Error []error

// ErrNoInterpreter is returned when no Python 3 interpreter can be found to
// install the sampler with.
var ErrNoInterpreter = MakeErrorf("Python 3 interpreter not found in PATH")

// ErrSamplerMissing is returned when the sampler is neither on PATH nor in
// the private cache and installation is disabled.
var ErrSamplerMissing = MakeErrorf("py-spy not found")

// ErrSamplerInstall is returned when installing the sampler fails.
//
// This error should be wrapped with the underlying command error.
var ErrSamplerInstall = MakeErrorf("py-spy install failed")

// ErrDump is returned when a stack dump invocation fails.
//
// This error should be wrapped with the sampler's failure message.
var ErrDump = MakeErrorf("stack dump failed")

// ErrProcessEnded is returned when the target process no longer exists or
// can no longer be inspected.
var ErrProcessEnded = MakeErrorf("process ended")

// ErrListProcesses is returned when the OS process listing command fails.
var ErrListProcesses = MakeErrorf("list processes")

// ErrInvalidFilter is returned when a candidate filter expression does not
// compile.
var ErrInvalidFilter = MakeErrorf("invalid filter expression")

// ErrJSONMarshal is returned when JSON marshaling fails.
var ErrJSONMarshal = MakeErrorf("JSON marshal error")

// ErrYAMLMarshal is returned when YAML marshaling fails.
var ErrYAMLMarshal = MakeErrorf("YAML marshal error")

// ErrInvalidFormat is returned when an invalid output format is specified.
var ErrInvalidFormat = MakeErrorf("invalid format")

// ErrHistory is returned when the snapshot history store fails.
var ErrHistory = MakeErrorf("history store")

// MakeError constructs an Error from the given errors.
// The first argument is the innermost error in the chain.
// Nil arguments are skipped.
func MakeError(errs ...error) Error {
	var e Error

	for _, err := range errs {
		if err != nil {
			e = append(e, UnwrapErrors(err)...)
		}
	}

	return e
}

// MakeErrorf constructs an Error from a formatted error message.
func MakeErrorf(format string, args ...any) Error {
	return MakeError(fmt.Errorf(format, args...))
}

// Error joins every message in the chain with ": ", innermost first.
func (e Error) Error() string {
	msg := make([]string, len(e))
	for i, err := range e {
		msg[i] = err.Error()
	}

	return strings.Join(msg, ": ")
}

// Wrap returns a copy of the receiver with err appended as the outermost
// element.
func (e Error) Wrap(err ...error) Error {
	return append(e[:len(e):len(e)], err...)
}

// Wrapf appends a formatted error to a copy of the receiver.
func (e Error) Wrapf(format string, args ...any) Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// Is reports whether every element of target also appears in the receiver,
// so that a chain built from a sentinel matches that sentinel.
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	if !ok || len(t) == 0 {
		return false
	}

	for _, want := range t {
		if _, nested := want.(Error); nested {
			continue
		}

		if !e.contains(want) {
			return false
		}
	}

	return true
}

func (e Error) contains(target error) bool {
	for _, err := range e {
		if _, nested := err.(Error); nested {
			continue
		}

		if err == target {
			return true
		}
	}

	return false
}

// Unwrap returns the errors contained in the receiver.
func (e Error) Unwrap() []error {
	return e
}

// UnwrapErrors flattens an error tree into a chain starting from the
// innermost error.
func UnwrapErrors(err error) Error {
	if err == nil {
		return nil
	}

	chain := Error{}

	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, wrapped := range e.Unwrap() {
			chain = append(chain, UnwrapErrors(wrapped)...)
		}

	case interface{ Unwrap() error }:
		chain = append(chain, UnwrapErrors(e.Unwrap())...)
	}

	return append(chain, err)
}
