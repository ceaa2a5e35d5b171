package lex

import "github.com/dekarrin/wislex/internal/token"

// ToLines regroups this State's emitted tokens (flat, line-ascending) into
// the Line-grouped form the parser consumes, avoiding a per-token line
// number in the parser phase.
func (s *State[T]) ToLines() []token.LineTokens[T] {
	return token.ToLines(s.Emitted)
}
