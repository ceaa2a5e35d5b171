package parse

import "github.com/dekarrin/wislex/internal/token"

// State is the mutable parser state: an opaque caller-supplied user state,
// the remaining token stream (kept internally as a flat, position-ordered
// slice derived from the lexer's line-grouped output), and a single-token
// lookahead/pushback slot.
type State[S any, T token.Type] struct {
	User S

	tokens []token.Located[T]
	pos    int

	lookahead    *token.Located[T]
	haveLookhead bool
}

// NewState builds a State from the lexer's line-grouped token stream and an
// initial user state.
func NewState[S any, T token.Type](lines []token.LineTokens[T], initial S) *State[S, T] {
	var flat []token.Located[T]
	for _, ln := range lines {
		for _, ct := range ln.Tokens {
			flat = append(flat, token.Located[T]{Line: ln.LineNumber, Column: ct.Column, Tok: ct.Tok})
		}
	}
	return &State[S, T]{User: initial, tokens: flat}
}

// Eof reports whether no tokens remain (consulting the lookahead slot
// first).
func (st *State[S, T]) Eof() bool {
	if st.haveLookhead {
		return false
	}
	return st.pos >= len(st.tokens)
}

// peekRaw returns the next token to be read, filling the lookahead cache
// from the underlying stream if it is empty. The second return is false iff
// the stream (and lookahead) are exhausted.
func (st *State[S, T]) peekRaw() (token.Located[T], bool) {
	if st.haveLookhead {
		return *st.lookahead, true
	}
	if st.pos >= len(st.tokens) {
		return token.Located[T]{}, false
	}
	next := st.tokens[st.pos]
	st.lookahead = &next
	st.haveLookhead = true
	return next, true
}

// shiftRaw consumes and returns the next token, invalidating the lookahead
// cache. The second return is false iff the stream is exhausted.
func (st *State[S, T]) shiftRaw() (token.Located[T], bool) {
	if st.haveLookhead {
		t := *st.lookahead
		st.haveLookhead = false
		st.lookahead = nil
		st.pos++
		return t, true
	}
	if st.pos >= len(st.tokens) {
		return token.Located[T]{}, false
	}
	t := st.tokens[st.pos]
	st.pos++
	return t, true
}

// pushBackRaw restores tok to the front of the stream. Only one token of
// pushback is supported at a time, matching the single-token lookahead
// slot described by the data model; pushing back over a token that was not
// just shifted is a caller error.
func (st *State[S, T]) pushBackRaw(tok token.Located[T]) {
	st.pos--
	st.lookahead = &tok
	st.haveLookhead = true
}

// cursorLoc returns the current position for diagnostics: the next
// token's location if one remains, else the location just past the last
// token consumed.
func (st *State[S, T]) cursorLoc() token.Location {
	if t, ok := st.peekRaw(); ok {
		return t.Loc()
	}
	if st.pos > 0 {
		last := st.tokens[st.pos-1]
		return token.Point(last.Line, last.Column+len([]rune(last.Tok.Text())))
	}
	return token.Unknown
}

// snapshot/restore let combinators implemented via backtracking
// composition undo a State's stream position (but NOT its user state,
// matching the documented caveat that backtracking does not roll back
// state mutations).
type snapshot[T token.Type] struct {
	pos          int
	lookahead    *token.Located[T]
	haveLookhead bool
}

func (st *State[S, T]) snapshot() snapshot[T] {
	return snapshot[T]{pos: st.pos, lookahead: st.lookahead, haveLookhead: st.haveLookhead}
}

func (st *State[S, T]) restore(sn snapshot[T]) {
	st.pos = sn.pos
	st.lookahead = sn.lookahead
	st.haveLookhead = sn.haveLookhead
}
