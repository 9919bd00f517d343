// Package status implements CSP's flat status-code error model
// (spec.md §7): every engine operation returns an error built from one
// of these codes and hands it back to its caller. No package turns a
// send-side version mismatch into a Status reply in place of the Data
// message; that error is returned like any other.
package status

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Code is the flat status enum from spec.md §7.
type Code int32

const (
	NoError Code = iota
	// NoFurtherProcessingRequired is an internal sentinel: short-circuit
	// the current level without it being a real failure.
	NoFurtherProcessingRequired
	ErrorOverflow
	ErrorValueOverflow
	ErrorInvalidArgument
	ErrorNotSupportedProtocolVersion
	ErrorNotSupportedInterfaceVersion
	ErrorNotSupportedSerializationSettingsForStruct
	ErrorNoSuchHandler
	ErrorNotInited
	ErrorAlreadyInited
	ErrorInternal
)

var names = map[Code]string{
	NoError:                      "NoError",
	NoFurtherProcessingRequired:  "NoFurtherProcessingRequired",
	ErrorOverflow:                "ErrorOverflow",
	ErrorValueOverflow:           "ErrorValueOverflow",
	ErrorInvalidArgument:         "ErrorInvalidArgument",
	ErrorNotSupportedProtocolVersion:                "ErrorNotSupportedProtocolVersion",
	ErrorNotSupportedInterfaceVersion:                "ErrorNotSupportedInterfaceVersion",
	ErrorNotSupportedSerializationSettingsForStruct:  "ErrorNotSupportedSerializationSettingsForStruct",
	ErrorNoSuchHandler:           "ErrorNoSuchHandler",
	ErrorNotInited:               "ErrorNotInited",
	ErrorAlreadyInited:           "ErrorAlreadyInited",
	ErrorInternal:                "ErrorInternal",
}

func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", int32(c))
}

// Error is CSP's error type: a Code plus a human-readable message and
// an optional wrapped cause.
type Error struct {
	Code  Code
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Cause)
	}
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap allows errors.Is/errors.As to see through to Cause.
func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error with no wrapped cause.
func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error around an existing error, preserving it as
// Cause so errors.Cause (or Unwrap) can recover it across a transport
// boundary.
func Wrap(cause error, code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...), Cause: pkgerrors.WithStack(cause)}
}

// CodeOf extracts the Code carried by err, if any, defaulting to
// ErrorInternal for an error this package didn't produce.
func CodeOf(err error) Code {
	if err == nil {
		return NoError
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrorInternal
}
