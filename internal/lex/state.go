package lex

import "github.com/dekarrin/wislex/internal/token"

// State is the mutable lexer state threaded through every combinator: the
// tab width used for column accounting, the current (line, column),
// monotonic token counter, the append-only emitted-token list, the
// in-progress character buffer, and the remaining input.
//
// Any character that has moved from Input to Buffer will either be
// committed (become part of an emitted token, advancing line/column) or
// discarded by ClearBuffer. Backtracking inside a combinator does not
// itself restore Buffer — LexBacktrack exists for that purpose.
type State[T token.Type] struct {
	TabWidth int

	Line   int
	Column int

	counter int

	Emitted []token.Located[T]

	buffer []rune
	input  []rune
}

// New builds a fresh lexer State reading input with the given tab width.
// Line/column start at 1/1, matching the teacher's 1-indexed position
// convention (internal/ictiobus/types.Token.LinePos/Line).
func New[T token.Type](input string, tabWidth int) *State[T] {
	if tabWidth <= 0 {
		tabWidth = 1
	}
	return &State[T]{
		TabWidth: tabWidth,
		Line:     1,
		Column:   1,
		input:    []rune(input),
	}
}

// Remaining returns the not-yet-consumed input as a string.
func (s *State[T]) Remaining() string { return string(s.input) }

// Buffered returns the characters currently held in the buffer, not yet
// committed to a token.
func (s *State[T]) Buffered() string { return string(s.buffer) }

// AtEOF reports whether there is no more input to read.
func (s *State[T]) AtEOF() bool { return len(s.input) == 0 }

// peek returns the first n runes of input without consuming them. It
// returns fewer than n if input is shorter.
func (s *State[T]) peek(n int) []rune {
	if n > len(s.input) {
		n = len(s.input)
	}
	return s.input[:n]
}

// take moves the first n runes of input into the buffer, returning them.
func (s *State[T]) take(n int) []rune {
	if n > len(s.input) {
		n = len(s.input)
	}
	moved := s.input[:n]
	s.buffer = append(s.buffer, moved...)
	s.input = s.input[n:]
	return moved
}

// advance moves (line, column) forward for each rune in rs, per the rule:
// tab => TabWidth columns, printable => 1 column, other => 0 columns,
// newline => line++, column<-1.
func (s *State[T]) advance(rs []rune) {
	for _, r := range rs {
		switch {
		case r == '\n':
			s.Line++
			s.Column = 1
		case r == '\t':
			s.Column += s.TabWidth
		case isPrintable(r):
			s.Column += columnsFor(r)
		}
	}
}

// isPrintable is a pragmatic printable-character test: anything that is not
// a control character other than the tab/newline handled specially above.
func isPrintable(r rune) bool {
	return r >= 0x20 && r != 0x7f
}

// clearBuffer discards the buffer without emitting a token, still advancing
// line/column for the discarded characters (e.g. whitespace skipping).
func (s *State[T]) clearBuffer() {
	s.advance(s.buffer)
	s.buffer = nil
}

// commitEmit forms a token of type t from the buffer (or, if keepText is
// false, an Empty token carrying no text), appends it to Emitted at the
// buffer's starting (line, column), advances position, and clears the
// buffer. Returns false if the buffer was empty (nothing to emit).
func (s *State[T]) commitEmit(t T, keepText bool) bool {
	if len(s.buffer) == 0 {
		return false
	}

	startLine, startCol := s.Line, s.Column
	text := string(s.buffer)

	var tok token.Token[T]
	switch {
	case !keepText:
		tok = token.Empty(t)
	case len(s.buffer) == 1:
		tok = token.FromChar(t, s.buffer[0])
	default:
		tok = token.FromString(t, text)
	}

	s.Emitted = append(s.Emitted, token.Located[T]{Line: startLine, Column: startCol, Tok: tok})
	s.counter++

	s.advance(s.buffer)
	s.buffer = nil
	return true
}

// prependBackBuffer restores the buffer to the front of input and clears
// it, implementing lex_backtrack. Position is NOT changed, since the
// buffer's characters were never committed (advance never ran on them).
func (s *State[T]) prependBackBuffer() {
	if len(s.buffer) == 0 {
		return
	}
	s.input = append(append([]rune{}, s.buffer...), s.input...)
	s.buffer = nil
}

// snapshot captures enough of the state to restore it after a failed
// speculative match that must leave state completely unchanged (used by
// combinators implemented via backtracking composition rather than via
// per-primitive undo).
type snapshot[T token.Type] struct {
	line, col int
	counter   int
	emittedN  int
	buffer    []rune
	input     []rune
}

func (s *State[T]) snapshot() snapshot[T] {
	return snapshot[T]{
		line: s.Line, col: s.Column,
		counter:  s.counter,
		emittedN: len(s.Emitted),
		buffer:   append([]rune{}, s.buffer...),
		input:    append([]rune{}, s.input...),
	}
}

func (s *State[T]) restore(sn snapshot[T]) {
	s.Line, s.Column = sn.line, sn.col
	s.counter = sn.counter
	s.Emitted = s.Emitted[:sn.emittedN]
	s.buffer = sn.buffer
	s.input = sn.input
}
