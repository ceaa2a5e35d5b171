// Package token holds the location and token types shared by the lexer
// (package lex) and the token-stream parser (package parse): Location,
// Token, Located, and LineTokens, as described in the data model shared by
// both halves of the grammar engine.
package token

import "fmt"

// Location is either "unknown" (the zero value) or a known span
// (StartLine, StartCol) to (EndLine, EndCol). Ordering is by uncertainty:
// known locations compare less than unknown ones, and among known
// locations, smaller spans compare less than larger ones.
type Location struct {
	known    bool
	startLn  int
	startCol int
	endLn    int
	endCol   int
}

// Unknown is the Location used when no source position information is
// available.
var Unknown = Location{}

// NewLocation builds a known Location spanning (startLn, startCol) to
// (endLn, endCol), all 1-indexed.
func NewLocation(startLn, startCol, endLn, endCol int) Location {
	return Location{known: true, startLn: startLn, startCol: startCol, endLn: endLn, endCol: endCol}
}

// Point builds a known, zero-width Location at (line, col).
func Point(line, col int) Location {
	return NewLocation(line, col, line, col)
}

// IsKnown reports whether l carries real position information.
func (l Location) IsKnown() bool { return l.known }

// Start returns the (line, col) the span starts at.
func (l Location) Start() (line, col int) { return l.startLn, l.startCol }

// End returns the (line, col) the span ends at.
func (l Location) End() (line, col int) { return l.endLn, l.endCol }

// width is used only for span-size comparisons; it need not be a real
// character count, only a consistent total order proxy.
func (l Location) width() int {
	return (l.endLn-l.startLn)*1_000_000 + (l.endCol - l.startCol)
}

// Less implements the spec's location ordering: known < unknown, and among
// known locations, smaller spans < larger ones (ties broken by start
// position).
func (l Location) Less(o Location) bool {
	if l.known != o.known {
		return l.known // known < unknown
	}
	if !l.known {
		return false // both unknown, neither is less
	}
	if lw, ow := l.width(), o.width(); lw != ow {
		return lw < ow
	}
	if l.startLn != o.startLn {
		return l.startLn < o.startLn
	}
	return l.startCol < o.startCol
}

// Join (the location monoid's mappend) returns the smallest known span
// containing both l and o. Joining with an Unknown location returns the
// other operand unchanged; joining two Unknowns is Unknown.
func (l Location) Join(o Location) Location {
	if !l.known {
		return o
	}
	if !o.known {
		return l
	}

	start := l
	if o.before(l) {
		start = o
	}
	end := l
	if l.after(o) {
		end = l
	} else {
		end = o
	}

	return NewLocation(start.startLn, start.startCol, end.endLn, end.endCol)
}

func (l Location) before(o Location) bool {
	if l.startLn != o.startLn {
		return l.startLn < o.startLn
	}
	return l.startCol < o.startCol
}

func (l Location) after(o Location) bool {
	if l.endLn != o.endLn {
		return l.endLn > o.endLn
	}
	return l.endCol > o.endCol
}

// String renders the location for diagnostics.
func (l Location) String() string {
	if !l.known {
		return "(unknown location)"
	}
	if l.startLn == l.endLn && l.startCol == l.endCol {
		return fmt.Sprintf("%d:%d", l.startLn, l.startCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", l.startLn, l.startCol, l.endLn, l.endCol)
}
