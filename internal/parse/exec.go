package parse

import (
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// Exec runs p against the given line-grouped token stream and initial user
// state, returning p's result and the final parser State (whose User field
// holds whatever mutations p made — note that backtracking does NOT roll
// those mutations back, per the documented caveat in state.go).
func Exec[S any, T token.Type, A any](p *Parser[S, T, A], lines []token.LineTokens[T], initial S) (pval.PVal[A, Error], *State[S, T]) {
	st := NewState[S, T](lines, initial)
	r := Run(p, st)
	return r, st
}
