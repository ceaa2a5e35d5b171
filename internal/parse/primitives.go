package parse

import (
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// PeekToken returns the next token without consuming it. Idempotent:
// calling it twice in a row returns the same token and leaves state
// unchanged. Backtracks at EOF.
func PeekToken[S any, T token.Type]() *Parser[S, T, token.Located[T]] {
	return Func(func(st *State[S, T]) pval.PVal[token.Located[T], Error] {
		tok, ok := st.peekRaw()
		if !ok {
			return pval.Backtrack[token.Located[T], Error]()
		}
		return pval.Ok[token.Located[T], Error](tok)
	})
}

// ShiftToken returns the next token and advances the stream, invalidating
// the lookahead cache. Backtracks at EOF.
func ShiftToken[S any, T token.Type]() *Parser[S, T, token.Located[T]] {
	return Func(func(st *State[S, T]) pval.PVal[token.Located[T], Error] {
		tok, ok := st.shiftRaw()
		if !ok {
			return pval.Backtrack[token.Located[T], Error]()
		}
		return pval.Ok[token.Located[T], Error](tok)
	})
}

// PushBack restores tok to the front of the stream, for combinators that
// shifted a token speculatively and need to give it back.
func PushBack[S any, T token.Type](tok token.Located[T]) *Parser[S, T, struct{}] {
	return Func(func(st *State[S, T]) pval.PVal[struct{}, Error] {
		st.pushBackRaw(tok)
		return pval.Ok[struct{}, Error](struct{}{})
	})
}

// Cursor returns the current (line, column) location for diagnostics.
func Cursor[S any, T token.Type]() *Parser[S, T, token.Location] {
	return Func(func(st *State[S, T]) pval.PVal[token.Location, Error] {
		return pval.Ok[token.Location, Error](st.cursorLoc())
	})
}

// Eof succeeds (zero value) when no tokens remain; backtracks otherwise.
func Eof[S any, T token.Type]() *Parser[S, T, struct{}] {
	return Func(func(st *State[S, T]) pval.PVal[struct{}, Error] {
		if st.Eof() {
			return pval.Ok[struct{}, Error](struct{}{})
		}
		return pval.Backtrack[struct{}, Error]()
	})
}

// MatchType succeeds with the next token and consumes it iff its Class()
// equals t; backtracks (without consuming) otherwise.
func MatchType[S any, T token.Type](t T) *Parser[S, T, token.Located[T]] {
	return Func(func(st *State[S, T]) pval.PVal[token.Located[T], Error] {
		next, ok := st.peekRaw()
		if !ok || next.Tok.Class() != t {
			return pval.Backtrack[token.Located[T], Error]()
		}
		st.shiftRaw()
		return pval.Ok[token.Located[T], Error](next)
	})
}

// MatchText succeeds with the next token and consumes it iff its Text()
// equals text; backtracks (without consuming) otherwise.
func MatchText[S any, T token.Type](text string) *Parser[S, T, token.Located[T]] {
	return Func(func(st *State[S, T]) pval.PVal[token.Located[T], Error] {
		next, ok := st.peekRaw()
		if !ok || next.Tok.Text() != text {
			return pval.Backtrack[token.Located[T], Error]()
		}
		st.shiftRaw()
		return pval.Ok[token.Located[T], Error](next)
	})
}

// Bind sequences two parsers.
func Bind[S any, T token.Type, A any, B any](m *Parser[S, T, A], f func(A) *Parser[S, T, B]) *Parser[S, T, B] {
	return Func(func(st *State[S, T]) pval.PVal[B, Error] {
		r := Run(m, st)
		return pval.Bind(r, func(a A) pval.PVal[B, Error] {
			return Run(f(a), st)
		})
	})
}

// Then runs a then b, discarding a's result.
func Then[S any, T token.Type, A any, B any](a *Parser[S, T, A], b *Parser[S, T, B]) *Parser[S, T, B] {
	return Bind(a, func(A) *Parser[S, T, B] { return b })
}

// Map transforms a parser's success value.
func Map[S any, T token.Type, A any, B any](m *Parser[S, T, A], f func(A) B) *Parser[S, T, B] {
	return Bind(m, func(a A) *Parser[S, T, B] { return Pure[S, T, B](f(a)) })
}

// Pure lifts a plain value into the parser monad without consuming input.
func Pure[S any, T token.Type, A any](v A) *Parser[S, T, A] {
	return Func(func(*State[S, T]) pval.PVal[A, Error] {
		return pval.Ok[A, Error](v)
	})
}

// ReadState returns the current user state.
func ReadState[S any, T token.Type]() *Parser[S, T, S] {
	return Func(func(st *State[S, T]) pval.PVal[S, Error] {
		return pval.Ok[S, Error](st.User)
	})
}

// WriteState replaces the user state with v.
func WriteState[S any, T token.Type](v S) *Parser[S, T, struct{}] {
	return Func(func(st *State[S, T]) pval.PVal[struct{}, Error] {
		st.User = v
		return pval.Ok[struct{}, Error](struct{}{})
	})
}

// ModifyState applies f to the user state in place.
func ModifyState[S any, T token.Type](f func(S) S) *Parser[S, T, struct{}] {
	return Func(func(st *State[S, T]) pval.PVal[struct{}, Error] {
		st.User = f(st.User)
		return pval.Ok[struct{}, Error](struct{}{})
	})
}
