package lex

import (
	"fmt"

	"github.com/dekarrin/wislex/internal/token"
)

// Error is the hard-failure payload produced by a lexer. It carries the
// source position at the point of failure and a message, following the
// teacher's convention of pairing a technical Error() string with the
// location needed to render a useful diagnostic
// (internal/tqerrors.interpreterError in the teacher repo).
type Error struct {
	Loc     token.Location
	Message string
	wrap    error
}

// NewError builds a lex Error at loc with the given message.
func NewError(loc token.Location, msg string) Error {
	return Error{Loc: loc, Message: msg}
}

// Errorf builds a lex Error at loc with a formatted message.
func Errorf(loc token.Location, format string, args ...interface{}) Error {
	return Error{Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// Unwrap supports errors.Is/errors.As against a wrapped cause.
func (e Error) Unwrap() error { return e.wrap }

// Wrap attaches a cause to e, returning a copy.
func (e Error) Wrap(cause error) Error {
	e.wrap = cause
	return e
}
