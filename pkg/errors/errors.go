// Package errors provides structured error handling for bindings.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrTypeMismatch is matched by every TypeMismatchError via errors.Is.
var ErrTypeMismatch = stderrors.New("bindable: type mismatch")

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindTypeMismatch indicates a participant could not represent a value.
	KindTypeMismatch
	// KindBind indicates a failure while binding or propagating a value.
	KindBind
	// KindPlatform indicates a native view or bridge error.
	KindPlatform
	// KindParsing indicates a native event payload could not be decoded.
	KindParsing
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindTypeMismatch:
		return "type_mismatch"
	case KindBind:
		return "bind"
	case KindPlatform:
		return "platform"
	case KindParsing:
		return "parsing"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// KindOf classifies err. Type mismatches anywhere in the chain win over
// everything else.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	if stderrors.Is(err, ErrTypeMismatch) {
		return KindTypeMismatch
	}
	var parseErr *ParseError
	if stderrors.As(err, &parseErr) {
		return KindParsing
	}
	var bindErr *BindError
	if stderrors.As(err, &bindErr) {
		return bindErr.Kind
	}
	return KindUnknown
}

// BindError represents a structured error raised by a binder or participant.
type BindError struct {
	// Op is the operation that failed (e.g., "bind.Bind", "bind.forward").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Binder is the ID of the binder involved, if any.
	Binder string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BindError) Error() string {
	if e.Binder != "" {
		return fmt.Sprintf("%s [%s] binder=%s: %v", e.Op, e.Kind, e.Binder, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// TypeMismatchError reports that a participant's native state cannot hold
// the value it was asked to adopt.
type TypeMismatchError struct {
	// Participant names the participant type (e.g., "*platform.SliderView").
	Participant string
	// Value is the rejected value.
	Value any
	// Reason explains what the native state can represent.
	Reason string
}

func (e *TypeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s cannot represent %v: %s", e.Participant, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s cannot represent %v (%T)", e.Participant, e.Value, e.Value)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "bind.forward").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ParseError represents a failure to decode a native event payload.
type ParseError struct {
	// Source is the view type or channel that produced the event.
	Source string
	// DataType is the expected type name.
	DataType string
	// Got is the actual data received.
	Got any
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s from %s: got %T", e.DataType, e.Source, e.Got)
}

// ErrorHandler receives errors reported by binders.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *BindError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}

// Is, As and New re-export the standard helpers so callers importing this
// package under the name errors keep them at hand.
var (
	Is  = stderrors.Is
	As  = stderrors.As
	New = stderrors.New
)
