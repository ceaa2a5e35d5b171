// Package uierr separates the two faces every query-engine error needs:
// a technical message for logs and an operator-facing message for
// whatever is presenting results to a human (the REPL in cmd/wislex, in
// particular). It is the same split the teacher's interpreter-error type
// drew between a log message and an in-game message, adapted here to a
// query/REPL context instead of a game one.
package uierr

import "fmt"

type queryError struct {
	msg      string
	operator string
	wrap     error
}

func (e *queryError) Error() string {
	return e.msg
}

// Operator returns the message meant to be shown to whoever is driving
// the query (e.g. printed at a REPL prompt).
func (e *queryError) Operator() string {
	return e.operator
}

func (e *queryError) Unwrap() error {
	return e.wrap
}

// Query returns a new error carrying both an operator-facing message and
// a technical one. An empty technical message is filled in automatically.
func Query(operator, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("query error: %q", operator)
	}
	return &queryError{msg: technical, operator: operator}
}

// Queryf is Query with the operator message built via fmt.Sprintf.
func Queryf(operatorFormat string, a ...interface{}) error {
	return Query(fmt.Sprintf(operatorFormat, a...), "")
}

// WrapQuery is Query, additionally wrapping an underlying cause reachable
// via errors.Unwrap.
func WrapQuery(cause error, operator, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("query error: %q", operator)
	}
	return &queryError{msg: technical, operator: operator, wrap: cause}
}

// WrapQueryf is WrapQuery with the operator message built via fmt.Sprintf.
func WrapQueryf(cause error, operatorFormat string, a ...interface{}) error {
	return WrapQuery(cause, fmt.Sprintf(operatorFormat, a...), "")
}

// Operator extracts the operator-facing message from err if it is one of
// this package's error types, falling back to err.Error() otherwise.
func Operator(err error) string {
	if qe, ok := err.(*queryError); ok {
		return qe.Operator()
	}
	return err.Error()
}
