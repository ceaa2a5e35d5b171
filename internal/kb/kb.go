// Package kb turns a loaded profile.Profile into a queryable rule tree:
// Answer runs a complete line of words against it, Complete runs a
// possibly-incomplete line and returns what word(s) would extend it.
package kb

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dekarrin/wislex/internal/profile"
	"github.com/dekarrin/wislex/internal/rule"
	"github.com/dekarrin/wislex/internal/util"
)

// Session is the per-query state threaded through rule evaluation: just a
// running count of how many replies have been produced so far, incremented
// by each rule's reply leaf. Answer and Complete do not otherwise read it.
type Session struct {
	Replies int
}

// Engine is a compiled profile.Profile, ready to answer or complete
// space-separated word sequences. SessionID correlates every query this
// Engine runs (so a REPL's sequence of Complete/Resume calls can be tied
// together in logs); Trace, if set, receives a diagnostic event string at
// each notable evaluation step.
type Engine struct {
	tree      *rule.Tree[error, string, string, Session, string]
	SessionID uuid.UUID
	Trace     func(event string)
}

// Build compiles every rule in defs into a single trie, sharing prefixes
// across entries with common leading words (e.g. "good morning" and
// "good night" share the "good" branch), and mints a fresh SessionID for
// the returned Engine.
func Build(defs []profile.RuleDef) Engine {
	edges := make([]rule.Edge[error, string, string, Session, string], 0, len(defs))
	for _, rs := range defs {
		reply := rs.Reply
		edges = append(edges, rule.Edge[error, string, string, Session, string]{
			Path: rs.Words,
			Leaf: func([]string) *rule.Rule[error, string, string, Session, string] {
				return rule.State[error, string, string, Session, string](func(q rule.QueryState[Session, string]) (rule.QueryState[Session, string], *rule.Rule[error, string, string, Session, string]) {
					q.User.Replies++
					return q, rule.Return[error, string, string, Session, string](reply)
				})
			},
		})
	}
	return Engine{tree: rule.FromEdges(edges), SessionID: rule.NewSessionID()}
}

func wordMatch(pat string, remaining []string) (rule.Similarity, int) {
	if len(remaining) == 0 {
		return rule.Dissimilar, 0
	}
	if remaining[0] == pat {
		return rule.ExactlyEqual, 1
	}
	if strings.EqualFold(remaining[0], pat) {
		return rule.Similar(0.9), 1
	}
	return rule.Dissimilar, 0
}

func identityPredict(pat string) []string { return []string{pat} }

func (e Engine) queryState(words []string) rule.QueryState[Session, string] {
	return rule.QueryState[Session, string]{
		User: Session{}, Weight: rule.FullCertainty, Index: 0, Input: words,
		QueryID: e.SessionID, Trace: e.Trace,
	}
}

// Answer evaluates a complete line against the engine's rules, returning
// the best-weighted reply. BestMatch(1, ...) picks the single closest
// match when case-insensitive fuzzy matches compete with an exact one.
func (e Engine) Answer(line string) (string, bool) {
	words := strings.Fields(line)
	if len(words) == 0 {
		return "", false
	}
	ranked := rule.BestMatch(1, rule.FromTree(e.tree))
	succ, err := rule.QueryAll(ranked, wordMatch, e.queryState(words))
	if err != nil || len(succ) == 0 {
		return "", false
	}
	return succ[0].Value, true
}

// Complete evaluates a (possibly incomplete) line and returns the set of
// next words that would extend a currently-suspended dispatch, deduped
// via util.StringSet since the same word can be reachable through more
// than one trie branch.
func (e Engine) Complete(line string) []string {
	words := strings.Fields(line)
	result := rule.PartialQuery(rule.FromTree(e.tree), wordMatch, identityPredict, e.queryState(words))

	seen := util.NewStringSet()
	for _, p := range result.Predictions {
		seen.Add(p)
	}
	return seen.Elements()
}
