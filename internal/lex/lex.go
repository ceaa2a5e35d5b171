// Package lex implements the backtracking lexer monad (P2): a
// character-stream tokenizer over a State that tracks position, a
// character buffer, and an append-only emitted-token list.
//
// A Lexer is a function State -> PVal[A, Error], exactly instantiating the
// predicate-value monad (package pval) over mutable *State. Primitive
// combinators are the building blocks; Bind/Then/Alt/Choice/Many compose
// them, and derived.go builds the higher-level recognizers (scanners, operators,
// numbers, identifiers, comments, string/char literals) from those
// primitives.
package lex

import (
	"strings"

	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// Lexer is a lex combinator: given a State, it produces a PVal result and
// (via the shared *State) may have consumed characters into the buffer or
// committed/emitted tokens.
type Lexer[T token.Type, A any] func(s *State[T]) pval.PVal[A, Error]

// Run executes lexer once against input (any input the lexer does not
// consume stays in the State), returning its result and the State it produced (whose Emitted field holds every
// token committed along the way, win or lose).
func Run[T token.Type, A any](lexer Lexer[T, A], input string, tabWidth int) (pval.PVal[A, Error], *State[T]) {
	s := New[T](input, tabWidth)
	return lexer(s), s
}

// LookAheadChar peeks at the first character of input without consuming
// it. Backtracks at EOF.
func LookAheadChar[T token.Type]() Lexer[T, rune] {
	return func(s *State[T]) pval.PVal[rune, Error] {
		if s.AtEOF() {
			return pval.Backtrack[rune, Error]()
		}
		return pval.Ok[rune, Error](s.peek(1)[0])
	}
}

// TakeWhile moves the maximal prefix of input satisfying p into the
// buffer. Backtracks (and consumes nothing) if that prefix is empty.
func TakeWhile[T token.Type](p func(rune) bool) Lexer[T, string] {
	return func(s *State[T]) pval.PVal[string, Error] {
		n := 0
		for n < len(s.input) && p(s.input[n]) {
			n++
		}
		if n == 0 {
			return pval.Backtrack[string, Error]()
		}
		return pval.Ok[string, Error](string(s.take(n)))
	}
}

// TakeUntil moves the maximal prefix of input NOT satisfying p into the
// buffer (the dual of TakeWhile). Backtracks if that prefix is empty.
func TakeUntil[T token.Type](p func(rune) bool) Lexer[T, string] {
	return TakeWhile[T](func(r rune) bool { return !p(r) })
}

// MatchString moves len(s) characters into the buffer if input starts with
// s exactly. Backtracks (consuming nothing) otherwise.
func MatchString[T token.Type](match string) Lexer[T, string] {
	runes := []rune(match)
	return func(s *State[T]) pval.PVal[string, Error] {
		if len(runes) == 0 {
			return pval.Ok[string, Error]("")
		}
		got := s.peek(len(runes))
		if len(got) < len(runes) || string(got) != match {
			return pval.Backtrack[string, Error]()
		}
		s.take(len(runes))
		return pval.Ok[string, Error](match)
	}
}

// MatchChar moves exactly one character into the buffer if it equals c.
// Backtracks otherwise.
func MatchChar[T token.Type](c rune) Lexer[T, rune] {
	return MatchCharIf[T](func(r rune) bool { return r == c })
}

// MatchCharIf moves exactly one character into the buffer if p accepts it.
// Backtracks otherwise (including at EOF).
func MatchCharIf[T token.Type](p func(rune) bool) Lexer[T, rune] {
	return func(s *State[T]) pval.PVal[rune, Error] {
		if s.AtEOF() {
			return pval.Backtrack[rune, Error]()
		}
		r := s.peek(1)[0]
		if !p(r) {
			return pval.Backtrack[rune, Error]()
		}
		s.take(1)
		return pval.Ok[rune, Error](r)
	}
}

// AnyChar consumes exactly one character of input, whatever it is.
// Backtracks only at EOF.
func AnyChar[T token.Type]() Lexer[T, rune] {
	return MatchCharIf[T](func(rune) bool { return true })
}

// Emit forms a token of type t from the buffer, appends it to Emitted at
// the buffer's starting (line, column), clears the buffer, and advances
// line/column. If keepText is false the token carries only its type.
// Backtracks (emits nothing) if the buffer is empty.
func Emit[T token.Type](t T, keepText bool) Lexer[T, token.Token[T]] {
	return func(s *State[T]) pval.PVal[token.Token[T], Error] {
		if len(s.buffer) == 0 {
			return pval.Backtrack[token.Token[T], Error]()
		}
		ok := s.commitEmit(t, keepText)
		if !ok {
			return pval.Backtrack[token.Token[T], Error]()
		}
		return pval.Ok[token.Token[T], Error](s.Emitted[len(s.Emitted)-1].Tok)
	}
}

// ClearBuffer discards the buffer without emitting a token, still advancing
// line/column for the discarded characters (e.g. to skip whitespace).
func ClearBuffer[T token.Type]() Lexer[T, struct{}] {
	return func(s *State[T]) pval.PVal[struct{}, Error] {
		s.clearBuffer()
		return pval.Ok[struct{}, Error](struct{}{})
	}
}

// LexBacktrack prepends the buffer back onto input, clears the buffer, and
// then backtracks. Use this when a combinator has consumed characters
// speculatively into the buffer but must give up without committing them.
func LexBacktrack[T token.Type, A any]() Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		s.prependBackBuffer()
		return pval.Backtrack[A, Error]()
	}
}

// EOF succeeds (with a zero value) when input is exhausted; backtracks
// otherwise.
func EOF[T token.Type]() Lexer[T, struct{}] {
	return func(s *State[T]) pval.PVal[struct{}, Error] {
		if s.AtEOF() {
			return pval.Ok[struct{}, Error](struct{}{})
		}
		return pval.Backtrack[struct{}, Error]()
	}
}

// Fail produces a Fail predicate with the current (line, column)
// populated, per the spec's failure semantics.
func Fail[T token.Type, A any](format string, args ...interface{}) Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		return pval.Fail[A, Error](Errorf(posOf(s), format, args...))
	}
}

func posOf[T token.Type](s *State[T]) token.Location {
	return token.Point(s.Line, s.Column)
}

// Pure lifts a plain value into the lexer monad without consuming input.
func Pure[T token.Type, A any](v A) Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		return pval.Ok[A, Error](v)
	}
}

// Bind sequences two lex combinators: run m, and if it succeeds, feed its
// value to f and run the result. Backtrack/Fail from m propagate.
func Bind[T token.Type, A any, B any](m Lexer[T, A], f func(A) Lexer[T, B]) Lexer[T, B] {
	return func(s *State[T]) pval.PVal[B, Error] {
		r := m(s)
		return pval.Bind(r, func(a A) pval.PVal[B, Error] {
			return f(a)(s)
		})
	}
}

// Then runs a then b, discarding a's value.
func Then[T token.Type, A any, B any](a Lexer[T, A], b Lexer[T, B]) Lexer[T, B] {
	return Bind(a, func(A) Lexer[T, B] { return b })
}

// Map transforms a lexer's success value.
func Map[T token.Type, A any, B any](m Lexer[T, A], f func(A) B) Lexer[T, B] {
	return Bind(m, func(a A) Lexer[T, B] { return Pure[T, B](f(a)) })
}

// Alt tries a; if it backtracks, tries b. Any Ok or Fail from a is
// returned as-is (Fail is NOT caught by alternation).
func Alt[T token.Type, A any](a, b Lexer[T, A]) Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		r := a(s)
		return pval.MPlus(r, func() pval.PVal[A, Error] { return b(s) })
	}
}

// Choice tries each option in order, returning the first that is not a
// Backtrack.
func Choice[T token.Type, A any](opts ...Lexer[T, A]) Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		result := pval.Backtrack[A, Error]()
		for _, opt := range opts {
			o := opt
			result = pval.MPlus(result, func() pval.PVal[A, Error] { return o(s) })
			if !result.IsBacktrack() {
				return result
			}
		}
		return result
	}
}

// Optional runs m; if it backtracks, succeeds anyway with the zero value
// (consuming nothing).
func Optional[T token.Type, A any](m Lexer[T, A]) Lexer[T, A] {
	return func(s *State[T]) pval.PVal[A, Error] {
		r := m(s)
		if r.IsBacktrack() {
			var zero A
			return pval.Ok[A, Error](zero)
		}
		return r
	}
}

// Many runs m zero or more times, returning every collected success value.
// Stops (without failing) as soon as m backtracks; a Fail from m propagates
// immediately.
func Many[T token.Type, A any](m Lexer[T, A]) Lexer[T, []A] {
	return func(s *State[T]) pval.PVal[[]A, Error] {
		var out []A
		for {
			r := m(s)
			if r.IsBacktrack() {
				return pval.Ok[[]A, Error](out)
			}
			if r.IsFail() {
				return pval.Fail[[]A, Error](r.Err())
			}
			out = append(out, r.Value())
		}
	}
}

// Many1 is Many, but backtracks if m never succeeds at all.
func Many1[T token.Type, A any](m Lexer[T, A]) Lexer[T, []A] {
	return func(s *State[T]) pval.PVal[[]A, Error] {
		r := Many(m)(s)
		if r.IsOk() && len(r.Value()) == 0 {
			return pval.Backtrack[[]A, Error]()
		}
		return r
	}
}

// IsLetter reports whether r is a Unicode letter or underscore — the
// "alpha-or-underscore" class used by the keyword/identifier lexer.
func IsLetter(r rune) bool {
	return r == '_' || strings.ContainsRune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ", r) || isUnicodeLetter(r)
}

// IsAlnum reports whether r is a Unicode letter, digit, or underscore.
func IsAlnum(r rune) bool {
	return IsLetter(r) || isDigit(r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isBinDigit(r rune) bool { return r == '0' || r == '1' }
