// Package pval implements the three-state predicate value that is the
// substrate for both the lexer/parser core and the rule engine core: a
// result is either Ok (success, carries a value), Backtrack (soft failure,
// an alternative may still match), or Fail (hard failure, carries an error
// and is never consumed by alternation).
package pval

// Kind distinguishes the three states a PVal can be in.
type Kind int

const (
	// KindOk is a successful result carrying a value.
	KindOk Kind = iota
	// KindBacktrack is a soft, recoverable non-match.
	KindBacktrack
	// KindFail is a hard, unrecoverable failure carrying an error.
	KindFail
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "Ok"
	case KindBacktrack:
		return "Backtrack"
	case KindFail:
		return "Fail"
	default:
		return "Kind(?)"
	}
}

// PVal is the predicate value: Ok(T) | Backtrack | Fail(E). The zero value
// is Backtrack.
type PVal[T any, E any] struct {
	kind Kind
	ok   T
	err  E
}

// Ok builds a successful PVal carrying v.
func Ok[T any, E any](v T) PVal[T, E] {
	return PVal[T, E]{kind: KindOk, ok: v}
}

// Backtrack builds a soft-failure PVal.
func Backtrack[T any, E any]() PVal[T, E] {
	return PVal[T, E]{kind: KindBacktrack}
}

// Fail builds a hard-failure PVal carrying e.
func Fail[T any, E any](e E) PVal[T, E] {
	return PVal[T, E]{kind: KindFail, err: e}
}

// Kind returns which of the three states p is in.
func (p PVal[T, E]) Kind() Kind { return p.kind }

// IsOk returns whether p is a success.
func (p PVal[T, E]) IsOk() bool { return p.kind == KindOk }

// IsBacktrack returns whether p is a soft failure.
func (p PVal[T, E]) IsBacktrack() bool { return p.kind == KindBacktrack }

// IsFail returns whether p is a hard failure.
func (p PVal[T, E]) IsFail() bool { return p.kind == KindFail }

// Value returns the carried success value. It is the zero value of T unless
// Kind() == KindOk.
func (p PVal[T, E]) Value() T { return p.ok }

// Err returns the carried failure payload. It is the zero value of E unless
// Kind() == KindFail.
func (p PVal[T, E]) Err() E { return p.err }

// Bind implements the monadic bind: Ok(a) >>= f = f(a); Backtrack and Fail
// propagate unchanged, short-circuiting f.
func Bind[A any, B any, E any](p PVal[A, E], f func(A) PVal[B, E]) PVal[B, E] {
	switch p.kind {
	case KindOk:
		return f(p.ok)
	case KindBacktrack:
		return Backtrack[B, E]()
	default:
		return Fail[B, E](p.err)
	}
}

// Map transforms the carried success value, leaving Backtrack/Fail
// untouched.
func Map[A any, B any, E any](p PVal[A, E], f func(A) B) PVal[B, E] {
	return Bind(p, func(a A) PVal[B, E] { return Ok[B, E](f(a)) })
}

// MPlus implements alternation: Backtrack <|> b = b; any other kind on the
// left (Ok or Fail) is returned as-is without evaluating b. Fail therefore
// does NOT trigger alternation, matching the "hard failure" semantics.
func MPlus[T any, E any](a PVal[T, E], b func() PVal[T, E]) PVal[T, E] {
	if a.kind == KindBacktrack {
		return b()
	}
	return a
}

// Throw is an alias for Fail, matching the monadic-error-language naming
// (Throw/Catch) that the rule engine's Throw node also follows.
func Throw[T any, E any](e E) PVal[T, E] {
	return Fail[T, E](e)
}

// Catch runs handler on a Fail payload, converting it to whatever PVal the
// handler produces. It is a no-op (returns p unchanged) for Ok and
// Backtrack.
func Catch[T any, E any](p PVal[T, E], handler func(E) PVal[T, E]) PVal[T, E] {
	if p.kind == KindFail {
		return handler(p.err)
	}
	return p
}

// Reified is the value produced by CatchPVal: the three-way result reified
// as an ordinary value so it can be inspected without further binds.
type Reified[T any, E any] struct {
	Kind  Kind
	Value T
	Err   E
}

// CatchPVal reifies the three-way result of p as an always-Ok value,
// analogous to the original design's catch_pvalue: wraps whichever state p
// was in as data instead of control flow.
func CatchPVal[T any, E any](p PVal[T, E]) PVal[Reified[T, E], E] {
	return Ok[Reified[T, E], E](Reified[T, E]{Kind: p.kind, Value: p.ok, Err: p.err})
}
