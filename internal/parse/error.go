package parse

import (
	"fmt"

	"github.com/dekarrin/wislex/internal/token"
)

// Error is the hard-failure payload produced by a parser. It has fields for
// the source location, a human message, the offending token's text, and a
// caller-opaque state snapshot for diagnostics. The combinators in this
// package set only Loc and Message; TokText and State are left empty
// unless the code building the Error fills them in. This mirrors the teacher's
// internal/tqerrors.interpreterError split between a technical Error() and
// a human-facing accessor.
type Error struct {
	Loc     token.Location
	Message string
	TokText string
	State   interface{}
	wrap    error
}

// NewError builds a parse Error at loc with the given message.
func NewError(loc token.Location, msg string) Error {
	return Error{Loc: loc, Message: msg}
}

// Errorf builds a parse Error at loc with a formatted message.
func Errorf(loc token.Location, format string, args ...interface{}) Error {
	return Error{Loc: loc, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// Human renders a player/operator-facing message, falling back to Error()
// if none was set.
func (e Error) Human() string {
	if e.Message == "" {
		return e.Error()
	}
	return e.Message
}

// Unwrap supports errors.Is/errors.As against a wrapped cause.
func (e Error) Unwrap() error { return e.wrap }

// WithLoc returns a copy of e with its location replaced by loc. Used by
// Marker to rewrite a Fail's starting location to the cursor at the
// marker's entry.
func (e Error) WithLoc(loc token.Location) Error {
	e.Loc = loc
	return e
}
