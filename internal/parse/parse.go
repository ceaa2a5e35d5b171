// Package parse implements the token-stream parser (P3): it consumes the
// lexer's located token stream, offers single-token lookahead and
// combinator composition, and — the package's central algorithm —
// compiles alternations of "match this token-type / token-text" into a
// dispatch table indexed by token type or token text, so a grammar with
// many top-level alternatives compiles to O(1)-ish map lookup instead of a
// linear try-each chain.
package parse

import (
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// shape tags which of the three forms a Parser value currently takes.
type shape int

const (
	shapeFunc shape = iota
	shapeIndexMap
	shapeStringMap
)

// Parser is a token-stream parser combinator. It is one of three shapes:
//
//  1. a plain function (state -> state, result);
//  2. an index map, keyed by token type, used when every alternative
//     branch begins with a distinct token type;
//  3. a string map, keyed by literal token text, used when branches
//     discriminate on literal text instead of type.
//
// The shape is an implementation detail most callers never see directly —
// Func/OnType/OnText build leaves, Alt/Choice compile alternations, and Run
// evaluates a Parser of any shape uniformly.
type Parser[S any, T token.Type, A any] struct {
	kind   shape
	fn     func(*State[S, T]) pval.PVal[A, Error]
	byType map[T]*Parser[S, T, A]
	byText map[string]*Parser[S, T, A]
}

// Func wraps a plain function as a Parser.
func Func[S any, T token.Type, A any](f func(*State[S, T]) pval.PVal[A, Error]) *Parser[S, T, A] {
	return &Parser[S, T, A]{kind: shapeFunc, fn: f}
}

// OnType builds a single-entry index-map Parser: it matches only when the
// next token's Class() equals t, in which case it delegates to leaf.
func OnType[S any, T token.Type, A any](t T, leaf *Parser[S, T, A]) *Parser[S, T, A] {
	return &Parser[S, T, A]{kind: shapeIndexMap, byType: map[T]*Parser[S, T, A]{t: leaf}}
}

// OnText builds a single-entry string-map Parser: it matches only when the
// next token's Text() equals text, in which case it delegates to leaf.
func OnText[S any, T token.Type, A any](text string, leaf *Parser[S, T, A]) *Parser[S, T, A] {
	return &Parser[S, T, A]{kind: shapeStringMap, byText: map[string]*Parser[S, T, A]{text: leaf}}
}

// Run evaluates p against st, dispatching uniformly regardless of p's
// shape. A map-shaped Parser that misses on the current token's key
// backtracks WITHOUT consuming that token.
func Run[S any, T token.Type, A any](p *Parser[S, T, A], st *State[S, T]) pval.PVal[A, Error] {
	switch p.kind {
	case shapeFunc:
		return p.fn(st)
	case shapeIndexMap:
		next, ok := st.peekRaw()
		if !ok {
			return pval.Backtrack[A, Error]()
		}
		sub, found := p.byType[next.Tok.Class()]
		if !found {
			return pval.Backtrack[A, Error]()
		}
		return Run(sub, st)
	case shapeStringMap:
		next, ok := st.peekRaw()
		if !ok {
			return pval.Backtrack[A, Error]()
		}
		sub, found := p.byText[next.Tok.Text()]
		if !found {
			return pval.Backtrack[A, Error]()
		}
		return Run(sub, st)
	default:
		return pval.Backtrack[A, Error]()
	}
}

// asFunc demotes p to a plain function, for use when merging it with a
// Parser of an incompatible shape.
func asFunc[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, A] {
	if p.kind == shapeFunc {
		return p
	}
	captured := p
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		return Run(captured, st)
	})
}

// Alt implements mplus/alternation compilation, the package's central
// algorithm:
//
//   - two index-map Parsers merge into one map, keyed by token type; keys
//     present in both sides combine their leaves by recursing Alt on them.
//   - two string-map Parsers merge the same way, keyed by token text.
//   - anything else (a plain function on either side, or mismatched map
//     kinds) falls back to converting both sides to functions and running
//     "try a, else b" via pval.MPlus — exactly mirroring the spec's
//     mplus semantics (Backtrack tries b; Ok/Fail from a win outright).
func Alt[S any, T token.Type, A any](a, b *Parser[S, T, A]) *Parser[S, T, A] {
	if a.kind == shapeIndexMap && b.kind == shapeIndexMap {
		merged := make(map[T]*Parser[S, T, A], len(a.byType)+len(b.byType))
		for k, v := range a.byType {
			merged[k] = v
		}
		for k, v := range b.byType {
			if existing, ok := merged[k]; ok {
				merged[k] = Alt(existing, v)
			} else {
				merged[k] = v
			}
		}
		return &Parser[S, T, A]{kind: shapeIndexMap, byType: merged}
	}

	if a.kind == shapeStringMap && b.kind == shapeStringMap {
		merged := make(map[string]*Parser[S, T, A], len(a.byText)+len(b.byText))
		for k, v := range a.byText {
			merged[k] = v
		}
		for k, v := range b.byText {
			if existing, ok := merged[k]; ok {
				merged[k] = Alt(existing, v)
			} else {
				merged[k] = v
			}
		}
		return &Parser[S, T, A]{kind: shapeStringMap, byText: merged}
	}

	fa, fb := asFunc(a), asFunc(b)
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		r := Run(fa, st)
		return pval.MPlus(r, func() pval.PVal[A, Error] { return Run(fb, st) })
	})
}

// Choice tries each alternative via Alt, left to right.
func Choice[S any, T token.Type, A any](opts ...*Parser[S, T, A]) *Parser[S, T, A] {
	if len(opts) == 0 {
		return Func(func(*State[S, T]) pval.PVal[A, Error] { return pval.Backtrack[A, Error]() })
	}
	out := opts[0]
	for _, o := range opts[1:] {
		out = Alt(out, o)
	}
	return out
}
