package rule

import "sort"

// Success is one successful derivation: the value it produced and the
// QueryState at the point the derivation stopped (cursor position, final
// weight, and whatever the caller's state callbacks left behind).
type Success[St any, Tok any, A any] struct {
	Value A
	State QueryState[St, Tok]
}

// MatchFn tells the evaluator how well a single pattern atom matches the
// token(s) at the front of remaining, and how many tokens it consumes if
// so. A Dissimilar result means the atom does not match at all; the
// consumed count is ignored in that case.
type MatchFn[Pat comparable, Tok any] func(pat Pat, remaining []Tok) (Similarity, int)

// QueryAll evaluates r against match and the initial QueryState,
// returning every success it derives (the list-of-successes
// interpretation of R2) in the order Choice/Tree branches were tried. If
// any Throw is reached, evaluation stops immediately and the error is
// returned alongside whatever successes had already been collected from
// branches tried strictly before the one that threw.
func QueryAll[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], init QueryState[St, Tok]) ([]Success[St, Tok, A], *RuleError[E]) {
	return evalRule(r, match, init)
}

// Query1 returns the first success QueryAll derives, if any — not the
// highest-weighted one. Callers wanting the best of several competing
// successes should wrap r in BestMatch(1, r) before calling Query1 (or
// QueryAll directly, as kb.Engine.Answer does).
func Query1[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], init QueryState[St, Tok]) (Success[St, Tok, A], bool, *RuleError[E]) {
	all, err := QueryAll(r, match, init)
	if err != nil || len(all) == 0 {
		var zero Success[St, Tok, A]
		return zero, false, err
	}
	return all[0], true, nil
}

func evalRule[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], *RuleError[E]) {
	if r == nil {
		return nil, nil
	}
	switch r.kind {
	case kindEmpty:
		return nil, nil

	case kindReturn:
		return []Success[St, Tok, A]{{Value: r.retVal, State: q}}, nil

	case kindThrow:
		e := r.errVal
		return nil, &e

	case kindLift:
		return evalRule(r.liftFn(), match, q)

	case kindState:
		nq, next := r.stateFn(q)
		return evalRule(next, match, nq)

	case kindOp:
		return evalOp(r, match, q)

	case kindChoice:
		left, err := evalRule(r.left, match, q)
		if err != nil {
			return left, err
		}
		right, err := evalRule(r.right, match, q)
		return append(left, right...), err

	case kindTree:
		return evalTree(r.tree, match, q)

	default:
		return nil, nil
	}
}

func evalOp[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], *RuleError[E]) {
	switch r.opKind {
	case opResetWeight:
		q.trace("reset-weight: enter")
		enterWeight := q.Weight
		succ, err := evalRule(r.child, match, q)
		for i := range succ {
			succ[i].State.Weight = enterWeight
		}
		return succ, err

	case opBestMatch:
		succ, err := evalRule(r.child, match, q)
		if err != nil {
			return succ, err
		}
		sort.SliceStable(succ, func(i, j int) bool {
			return succ[i].State.Weight > succ[j].State.Weight
		})
		if r.opBestK > 0 && r.opBestK < len(succ) {
			succ = succ[:r.opBestK]
		}
		q.trace("best-match: kept top candidates")
		return succ, nil

	case opPrune:
		succ, err := evalRule(r.child, match, q)
		if err != nil {
			return succ, err
		}
		var kept []Success[St, Tok, A]
		for _, s := range succ {
			if r.opPruneKeep(s.State.User) {
				kept = append(kept, s)
			} else {
				q.trace("prune: dropped a branch")
			}
		}
		return kept, nil

	default:
		return nil, nil
	}
}

type candidate[E any, Pat comparable, Tok any, St any, A any] struct {
	branch   *Branch[E, Pat, Tok, St, A]
	sim      Similarity
	consumed int
}

// collectCandidates finds every atom in m whose match against q's
// remaining input is not Dissimilar, then applies the exact-masks-similar
// tie-break: if any candidate achieves ExactlyEqual, every merely-Similar
// candidate is discarded, since an exact match is always preferred to a
// fuzzy one at the same dispatch point. Surviving candidates are ordered
// by descending similarity, with ties broken by source (insertion) order
// so that evaluation order does not depend on Go's randomized map
// iteration, per the ordering guarantee that Similar matches are tried in
// descending-similarity order with a stable tie-break.
func collectCandidates[E any, Pat comparable, Tok any, St any, A any](m map[Pat]*Branch[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], q QueryState[St, Tok]) []candidate[E, Pat, Tok, St, A] {
	var cands []candidate[E, Pat, Tok, St, A]
	haveExact := false
	for atom, br := range m {
		sim, n := match(atom, q.Remaining())
		if sim.IsDissimilar() {
			continue
		}
		if sim.IsExact() {
			haveExact = true
		}
		cands = append(cands, candidate[E, Pat, Tok, St, A]{branch: br, sim: sim, consumed: n})
	}
	if haveExact {
		filtered := cands[:0]
		for _, c := range cands {
			if c.sim.IsExact() {
				filtered = append(filtered, c)
			}
		}
		cands = filtered
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[j].sim.Less(cands[i].sim) {
			return true
		}
		if cands[i].sim.Less(cands[j].sim) {
			return false
		}
		return cands[i].branch.order < cands[j].branch.order
	})
	return cands
}

func evalTree[E any, Pat comparable, Tok any, St any, A any](t *Tree[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], *RuleError[E]) {
	if t == nil {
		return nil, nil
	}

	var all []Success[St, Tok, A]

	dfCands := collectCandidates(t.DF, match, q)
	if len(dfCands) > 0 {
		q.trace("tree-dispatch: depth-first candidates matched")
	}
	for _, c := range dfCands {
		nq := q.Advance(c.consumed, c.sim)
		if c.branch.Children != nil {
			succ, err := evalTree(c.branch.Children, match, nq)
			all = append(all, succ...)
			if err != nil {
				return all, err
			}
		}
		if c.branch.Leaf != nil {
			succ, err := evalRule(c.branch.Leaf(q.Remaining()[:c.consumed]), match, nq)
			all = append(all, succ...)
			if err != nil {
				return all, err
			}
		}
	}

	bfCands := collectCandidates(t.BF, match, q)
	if len(bfCands) > 0 {
		q.trace("tree-dispatch: breadth-first candidates matched")
	}
	for _, c := range bfCands {
		nq := q.Advance(c.consumed, c.sim)
		if c.branch.Leaf != nil {
			succ, err := evalRule(c.branch.Leaf(q.Remaining()[:c.consumed]), match, nq)
			all = append(all, succ...)
			if err != nil {
				return all, err
			}
		}
		if c.branch.Children != nil {
			succ, err := evalTree(c.branch.Children, match, nq)
			all = append(all, succ...)
			if err != nil {
				return all, err
			}
		}
	}

	return all, nil
}
