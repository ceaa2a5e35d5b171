package rule

import "github.com/google/uuid"

// RuleError is the hard-failure payload carried by a Throw node: an
// application error value plus the input index it was raised at.
type RuleError[E any] struct {
	Err   E
	Index int
}

// NewSessionID mints a fresh correlation ID for QueryState.QueryID, so a
// caller running a partial_query/resume sequence across several turns of
// a REPL (or any other incremental-input session) can tag every state in
// that sequence with the same ID, mirroring the teacher's use of uuid for
// per-request correlation.
func NewSessionID() uuid.UUID { return uuid.New() }

// QueryState is the ambient state threaded through rule evaluation: the
// caller's own state value, the accumulated match weight, the cursor into
// the input token slice, and the input itself. QueryID is an optional
// session/query correlation ID (see NewSessionID); Trace, if non-nil, is
// invoked with a short description at each notable evaluation step
// (dispatch candidate selection, Op application, partial-query
// suspension). It is a diagnostic hook only, never consulted for control
// flow.
type QueryState[St any, Tok any] struct {
	User    St
	Weight  Certainty
	Index   int
	Input   []Tok
	QueryID uuid.UUID
	Trace   func(event string)
}

// trace invokes q.Trace with event if a listener is registered; a no-op
// otherwise.
func (q QueryState[St, Tok]) trace(event string) {
	if q.Trace != nil {
		q.Trace(event)
	}
}

// Advance returns a copy of q moved n tokens forward with weight
// multiplied by sim (Mul with Dissimilar collapses the whole branch, which
// callers detect via the returned weight).
func (q QueryState[St, Tok]) Advance(n int, sim Similarity) QueryState[St, Tok] {
	q.Index += n
	q.Weight = Certainty(sim.Mul(Similar(float64(q.Weight))).x)
	return q
}

// Remaining returns the unconsumed suffix of the input.
func (q QueryState[St, Tok]) Remaining() []Tok {
	if q.Index >= len(q.Input) {
		return nil
	}
	return q.Input[q.Index:]
}

// AtEnd reports whether the cursor has consumed all input tokens.
func (q QueryState[St, Tok]) AtEnd() bool {
	return q.Index >= len(q.Input)
}

type ruleKind int

const (
	kindEmpty ruleKind = iota
	kindReturn
	kindThrow
	kindLift
	kindState
	kindOp
	kindChoice
	kindTree
)

type opKind int

const (
	opResetWeight opKind = iota
	opBestMatch
	opPrune
)

// Rule is the sum-type IR node described by the rule tree: Empty, Return,
// Throw, Lift, State, Op (ResetWeight/BestMatch(k)/Prune), Choice, and
// Tree. Go has no native sum types, so Rule is a single tagged struct;
// exactly one of its payload fields is meaningful for a given Kind(), as
// selected by the constructors below — callers never set fields directly.
type Rule[E any, Pat comparable, Tok any, St any, A any] struct {
	kind ruleKind

	retVal A
	errVal RuleError[E]

	liftFn  func() *Rule[E, Pat, Tok, St, A]
	stateFn func(QueryState[St, Tok]) (QueryState[St, Tok], *Rule[E, Pat, Tok, St, A])

	opKind      opKind
	opBestK     int
	opPruneKeep func(St) bool
	child       *Rule[E, Pat, Tok, St, A]

	left, right *Rule[E, Pat, Tok, St, A]

	tree *Tree[E, Pat, Tok, St, A]
}

// Branch is a single trie edge: a leaf continuation reached by consuming
// the matched tokens, and/or a subtree of further edges reachable from the
// same node (both may be populated at once, e.g. a pattern that is both a
// complete rule and a prefix of longer ones).
type Branch[E any, Pat comparable, Tok any, St any, A any] struct {
	Leaf     func(matched []Tok) *Rule[E, Pat, Tok, St, A]
	Children *Tree[E, Pat, Tok, St, A]

	// order records the edge's insertion position so that evaluation can
	// break similarity ties deterministically (source order) instead of
	// depending on Go's randomized map iteration.
	order int
}

// Tree holds the two parallel dispatch maps a Tree node carries: DF is
// walked depth-first (each matched branch's subtree is explored before
// that branch's own leaf is tried), BF is walked breadth-first (each
// matched branch's leaf is tried before its subtree). A Tree node may
// populate either or both maps; R2's evaluator walks every matched DF
// branch first, then every matched BF branch.
type Tree[E any, Pat comparable, Tok any, St any, A any] struct {
	DF map[Pat]*Branch[E, Pat, Tok, St, A]
	BF map[Pat]*Branch[E, Pat, Tok, St, A]
}

// Kind exposes the node's variant tag, primarily for GetStruct/Trim/Mask.
func (r *Rule[E, Pat, Tok, St, A]) Kind() string {
	switch r.kind {
	case kindEmpty:
		return "Empty"
	case kindReturn:
		return "Return"
	case kindThrow:
		return "Throw"
	case kindLift:
		return "Lift"
	case kindState:
		return "State"
	case kindOp:
		return "Op"
	case kindChoice:
		return "Choice"
	case kindTree:
		return "Tree"
	default:
		return "?"
	}
}

// Empty is the rule that matches nothing and produces no successes: the
// identity element of Choice.
func Empty[E any, Pat comparable, Tok any, St any, A any]() *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindEmpty}
}

// Return lifts a plain value into a single, immediate success.
func Return[E any, Pat comparable, Tok any, St any, A any](a A) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindReturn, retVal: a}
}

// Throw raises a hard application error. Unlike a trie miss or an empty
// Choice branch (which are soft, recoverable non-matches), a thrown error
// is not swallowed by an enclosing Choice: it propagates past alternation
// exactly as pval.Fail does.
func Throw[E any, Pat comparable, Tok any, St any, A any](err RuleError[E]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindThrow, errVal: err}
}

// Lift embeds an ambient action as a deferred continuation. The original
// design parameterizes Rule over an arbitrary monad M; per §9's note that
// this may be simplified to a synchronous embedding, Lift here is just
// "compute the next Rule synchronously when reached" — effectively a thunk
// — which is sufficient for every use in this package since nothing here
// needs true concurrency or IO interleaving mid-rule.
func Lift[E any, Pat comparable, Tok any, St any, A any](fn func() *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindLift, liftFn: fn}
}

// State reads and/or rewrites the ambient QueryState, then continues as
// the Rule the callback returns. It is the node through which a rule can
// inspect or rewrite weight, cursor, or user state itself; ResetWeight,
// BestMatch and Prune are separate Op nodes handled by the evaluator, and
// Tree dispatch advances the cursor via QueryState.Advance.
func State[E any, Pat comparable, Tok any, St any, A any](fn func(QueryState[St, Tok]) (QueryState[St, Tok], *Rule[E, Pat, Tok, St, A])) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindState, stateFn: fn}
}

// ResetWeight runs child but restores the entering weight afterward,
// discarding whatever Similarity multipliers it accumulated. Used to mark
// a subtree whose internal confidence shouldn't leak into the caller's
// overall score.
func ResetWeight[E any, Pat comparable, Tok any, St any, A any](child *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindOp, opKind: opResetWeight, child: child}
}

// BestMatch keeps only the k highest-weight successes child produces at
// this point, discarding the rest (and their associated state) before
// continuing evaluation outward. k<=0 keeps every success unranked-truncated
// (still sorted by descending weight, just not cut down).
func BestMatch[E any, Pat comparable, Tok any, St any, A any](k int, child *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindOp, opKind: opBestMatch, opBestK: k, child: child}
}

// Prune discards every success branch whose user state does not satisfy
// keep. Discarded branches are dropped along with their state — they are
// not retried or merged back in.
func Prune[E any, Pat comparable, Tok any, St any, A any](keep func(St) bool, child *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindOp, opKind: opPrune, opPruneKeep: keep, child: child}
}

// Choice tries a, then b, collecting successes from both (mplus-style
// alternation): a Throw from either side propagates immediately rather
// than falling through to the other.
func Choice[E any, Pat comparable, Tok any, St any, A any](a, b *Rule[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindChoice, left: a, right: b}
}

// FromTree wraps a prebuilt Tree as a Rule node.
func FromTree[E any, Pat comparable, Tok any, St any, A any](t *Tree[E, Pat, Tok, St, A]) *Rule[E, Pat, Tok, St, A] {
	return &Rule[E, Pat, Tok, St, A]{kind: kindTree, tree: t}
}

// NewTree builds an empty Tree ready to receive edges via FromEdges.
func NewTree[E any, Pat comparable, Tok any, St any, A any]() *Tree[E, Pat, Tok, St, A] {
	return &Tree[E, Pat, Tok, St, A]{
		DF: map[Pat]*Branch[E, Pat, Tok, St, A]{},
		BF: map[Pat]*Branch[E, Pat, Tok, St, A]{},
	}
}

// Edge is one caller-supplied (pattern-path, leaf) pair fed to FromEdges.
// Path is the sequence of pattern atoms leading to the leaf; DepthFirst
// selects which of the Tree's two parallel maps the leaf's own atom is
// placed in. An intermediate atom along the path that is new at its level
// is placed in the depth-first map; an atom that an earlier edge already
// placed keeps the map it was first put in, in either role.
type Edge[E any, Pat comparable, Tok any, St any, A any] struct {
	Path       []Pat
	Leaf       func(matched []Tok) *Rule[E, Pat, Tok, St, A]
	DepthFirst bool
}

// lookupBranch finds the branch for atom in either of t's two maps,
// since a single atom is only ever placed in one of them.
func lookupBranch[E any, Pat comparable, Tok any, St any, A any](t *Tree[E, Pat, Tok, St, A], atom Pat) (*Branch[E, Pat, Tok, St, A], bool) {
	if br, ok := t.DF[atom]; ok {
		return br, true
	}
	if br, ok := t.BF[atom]; ok {
		return br, true
	}
	return nil, false
}

// FromEdges builds a multi-level trie from a flat list of pattern-path/leaf
// pairs, creating intermediate Tree nodes as needed so that two edges
// sharing a path prefix share the same Branch chain.
func FromEdges[E any, Pat comparable, Tok any, St any, A any](edges []Edge[E, Pat, Tok, St, A]) *Tree[E, Pat, Tok, St, A] {
	root := NewTree[E, Pat, Tok, St, A]()
	nextOrder := 0
	for _, e := range edges {
		cur := root
		for i, atom := range e.Path {
			last := i == len(e.Path)-1

			br, ok := lookupBranch(cur, atom)
			if !ok {
				br = &Branch[E, Pat, Tok, St, A]{order: nextOrder}
				nextOrder++
				if last && !e.DepthFirst {
					cur.BF[atom] = br
				} else {
					cur.DF[atom] = br
				}
			}
			if last {
				br.Leaf = e.Leaf
				continue
			}
			if br.Children == nil {
				br.Children = NewTree[E, Pat, Tok, St, A]()
			}
			cur = br.Children
		}
	}
	return root
}
