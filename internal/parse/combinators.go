package parse

import (
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// Expect runs p; if p backtracks, converts that into a Fail with message
// "expecting " + msg at the current cursor. A Fail from p passes through
// unchanged.
func Expect[S any, T token.Type, A any](msg string, p *Parser[S, T, A]) *Parser[S, T, A] {
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		r := Run(p, st)
		if r.IsBacktrack() {
			return pval.Fail[A, Error](NewError(st.cursorLoc(), "expecting "+msg))
		}
		return r
	})
}

// Marker runs p; if p produces a Fail, rewrites the error's location to the
// cursor position at Marker's entry, improving error messages that would
// otherwise point deep inside a failed sub-parse.
func Marker[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, A] {
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		entry := st.cursorLoc()
		r := Run(p, st)
		if r.IsFail() {
			return pval.Fail[A, Error](r.Err().WithLoc(entry))
		}
		return r
	})
}

// Optional runs p; if it backtracks, succeeds anyway with the zero value
// (consuming nothing).
func Optional[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, A] {
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		r := Run(p, st)
		if r.IsBacktrack() {
			var zero A
			return pval.Ok[A, Error](zero)
		}
		return r
	})
}

// DefaultTo runs p; if it backtracks, succeeds anyway with def.
func DefaultTo[S any, T token.Type, A any](def A, p *Parser[S, T, A]) *Parser[S, T, A] {
	return Func(func(st *State[S, T]) pval.PVal[A, Error] {
		r := Run(p, st)
		if r.IsBacktrack() {
			return pval.Ok[A, Error](def)
		}
		return r
	})
}

// Ignore runs p and discards its success value.
func Ignore[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, struct{}] {
	return Map(p, func(A) struct{} { return struct{}{} })
}

// Many runs p zero or more times, collecting every success value. Stops
// (without failing) as soon as p backtracks; a Fail from p propagates
// immediately.
func Many[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, []A] {
	return Func(func(st *State[S, T]) pval.PVal[[]A, Error] {
		var out []A
		for {
			r := Run(p, st)
			if r.IsBacktrack() {
				return pval.Ok[[]A, Error](out)
			}
			if r.IsFail() {
				return pval.Fail[[]A, Error](r.Err())
			}
			out = append(out, r.Value())
		}
	})
}

// Many1 is Many, but backtracks if p never succeeds at all.
func Many1[S any, T token.Type, A any](p *Parser[S, T, A]) *Parser[S, T, []A] {
	return Func(func(st *State[S, T]) pval.PVal[[]A, Error] {
		r := Run(Many(p), st)
		if r.IsOk() && len(r.Value()) == 0 {
			return pval.Backtrack[[]A, Error]()
		}
		return r
	})
}

// SepBy parses zero or more occurrences of item separated by sep.
func SepBy[S any, T token.Type, A any, SEP any](item *Parser[S, T, A], sep *Parser[S, T, SEP]) *Parser[S, T, []A] {
	return Func(func(st *State[S, T]) pval.PVal[[]A, Error] {
		first := Run(item, st)
		if first.IsBacktrack() {
			return pval.Ok[[]A, Error](nil)
		}
		if first.IsFail() {
			return pval.Fail[[]A, Error](first.Err())
		}
		out := []A{first.Value()}
		for {
			sr := Run(sep, st)
			if sr.IsBacktrack() {
				return pval.Ok[[]A, Error](out)
			}
			if sr.IsFail() {
				return pval.Fail[[]A, Error](sr.Err())
			}
			ir := Run(item, st)
			if ir.IsFail() {
				return pval.Fail[[]A, Error](ir.Err())
			}
			if ir.IsBacktrack() {
				return pval.Fail[[]A, Error](NewError(st.cursorLoc(), "expecting item after separator"))
			}
			out = append(out, ir.Value())
		}
	})
}
