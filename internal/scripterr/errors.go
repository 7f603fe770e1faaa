// Package scripterr defines the error taxonomy surfaced to mod scripts.
//
// Every operation reachable from script code reports failures as *Error.
// The runtime adapter converts the Kind into the matching script exception
// type, so core packages never depend on the embedded engine.
package scripterr

import (
	"errors"
	"fmt"
)

// Kind categorizes script-visible errors.
type Kind string

const (
	// KindPolicy indicates the current execution phase forbids the call.
	KindPolicy Kind = "POLICY_VIOLATION"

	// KindArgument indicates a missing argument or an argument of the wrong shape.
	KindArgument Kind = "INVALID_ARGUMENT"

	// KindRange indicates a numeric argument outside its declared range.
	KindRange Kind = "OUT_OF_RANGE"

	// KindReference indicates an entity index that does not resolve.
	KindReference Kind = "REFERENCE"

	// KindCapacity indicates growth beyond a host hard maximum.
	KindCapacity Kind = "CAPACITY"

	// KindType indicates a value of the wrong runtime type (e.g. not a function).
	KindType Kind = "TYPE"

	// KindState indicates the operation is invalid for the current object or game state.
	KindState Kind = "STATE"

	// KindUnsupported indicates an opcode or feature the bridge does not assemble.
	KindUnsupported Kind = "UNSUPPORTED"
)

// Error is a script-visible error.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Message is the text shown to the mod author.
	Message string
}

// Error implements the error interface. Only the message is returned so the
// script sees exactly the text the bridge composed.
func (e *Error) Error() string {
	return e.Message
}

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Policy creates a phase policy violation.
func Policy(message string) *Error {
	return &Error{Kind: KindPolicy, Message: message}
}

// Argument creates an argument-shape error.
func Argument(format string, args ...any) *Error {
	return New(KindArgument, format, args...)
}

// Range creates a range validation error.
func Range(format string, args ...any) *Error {
	return New(KindRange, format, args...)
}

// Reference creates an unresolved-entity error.
func Reference(format string, args ...any) *Error {
	return New(KindReference, format, args...)
}

// Capacity creates a growth capacity error.
func Capacity(format string, args ...any) *Error {
	return New(KindCapacity, format, args...)
}

// Type creates a runtime type error.
func Type(format string, args ...any) *Error {
	return New(KindType, format, args...)
}

// State creates an invalid-state error.
func State(format string, args ...any) *Error {
	return New(KindState, format, args...)
}

// Unsupported creates an unsupported-opcode error.
func Unsupported(format string, args ...any) *Error {
	return New(KindUnsupported, format, args...)
}

// KindOf returns the Kind of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsPolicy returns true if err is a phase policy violation.
func IsPolicy(err error) bool { return KindOf(err) == KindPolicy }

// IsArgument returns true if err is an argument-shape error.
func IsArgument(err error) bool { return KindOf(err) == KindArgument }

// IsRange returns true if err is a range validation error.
func IsRange(err error) bool { return KindOf(err) == KindRange }

// IsReference returns true if err is an unresolved-entity error.
func IsReference(err error) bool { return KindOf(err) == KindReference }

// IsCapacity returns true if err is a growth capacity error.
func IsCapacity(err error) bool { return KindOf(err) == KindCapacity }

// IsType returns true if err is a runtime type error.
func IsType(err error) bool { return KindOf(err) == KindType }

// IsState returns true if err is an invalid-state error.
func IsState(err error) bool { return KindOf(err) == KindState }

// IsUnsupported returns true if err is an unsupported-opcode error.
func IsUnsupported(err error) bool { return KindOf(err) == KindUnsupported }
