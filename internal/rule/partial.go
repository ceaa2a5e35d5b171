package rule

import "sort"

// PredictFn synthesizes example tokens for a pattern atom, so a Tree
// dispatch that ran out of input before it could pick a branch can still
// tell the caller what it would have accepted. Typical callers (e.g. a
// REPL's tab-completion) use this to turn "pattern that means the KEYWORD
// token class" into the literal keyword text.
type PredictFn[Pat comparable, Tok any] func(pat Pat) []Tok

// Continuation is a suspended evaluation point reached when a Tree
// dispatch ran out of input tokens before it could choose a branch. It
// captures everything Resume needs to carry on once more input arrives.
type Continuation[E any, Pat comparable, Tok any, St any, A any] struct {
	rule    *Rule[E, Pat, Tok, St, A]
	state   QueryState[St, Tok]
	match   MatchFn[Pat, Tok]
	predict PredictFn[Pat, Tok]
}

// Resume extends the continuation's input with more tokens and continues
// evaluating from exactly the suspended point. Resuming twice in a row is
// associative with resuming once on the concatenation:
//
//	c.Resume(a).Branches[i].Resume(b)  ==  c.Resume(append(a, b...))
//
// because a Continuation never discards or reorders input it has not yet
// looked at; it only ever extends QueryState.Input and re-dispatches.
func (c Continuation[E, Pat, Tok, St, A]) Resume(more []Tok) PartialResult[E, Pat, Tok, St, A] {
	ns := c.state
	extended := make([]Tok, len(c.state.Input), len(c.state.Input)+len(more))
	copy(extended, c.state.Input)
	ns.Input = append(extended, more...)
	return PartialQuery(c.rule, c.match, c.predict, ns)
}

// PartialResult is the (predictions, results, branches) triple produced
// by evaluating a Rule against input that may be incomplete: Results are
// derivations that completed within the given input, Predictions are the
// token forms that would extend any currently-suspended dispatch,
// Branches are the suspended Continuations themselves (for Resume), and
// Err is set if a Throw was reached before suspension.
type PartialResult[E any, Pat comparable, Tok any, St any, A any] struct {
	Results     []Success[St, Tok, A]
	Predictions []Tok
	Branches    []Continuation[E, Pat, Tok, St, A]
	Err         *RuleError[E]
}

// PartialQuery is QueryAll's incomplete-input counterpart: instead of
// treating "not enough tokens left to pick a Tree branch" as a dead end,
// it records the dispatch point as a Continuation and the atoms it was
// choosing between as Predictions, so the caller can later supply more
// input (Resume) or offer the predictions to a user (e.g. completion
// candidates in a REPL).
func PartialQuery[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], predict PredictFn[Pat, Tok], q QueryState[St, Tok]) PartialResult[E, Pat, Tok, St, A] {
	results, preds, branches, err := partialEval(r, match, predict, q)
	return PartialResult[E, Pat, Tok, St, A]{Results: results, Predictions: preds, Branches: branches, Err: err}
}

func partialEval[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], predict PredictFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], []Tok, []Continuation[E, Pat, Tok, St, A], *RuleError[E]) {
	if r == nil {
		return nil, nil, nil, nil
	}

	switch r.kind {
	case kindEmpty:
		return nil, nil, nil, nil

	case kindReturn:
		return []Success[St, Tok, A]{{Value: r.retVal, State: q}}, nil, nil, nil

	case kindThrow:
		e := r.errVal
		return nil, nil, nil, &e

	case kindLift:
		return partialEval(r.liftFn(), match, predict, q)

	case kindState:
		nq, next := r.stateFn(q)
		return partialEval(next, match, predict, nq)

	case kindOp:
		return partialEvalOp(r, match, predict, q)

	case kindChoice:
		lr, lp, lb, err := partialEval(r.left, match, predict, q)
		if err != nil {
			return lr, lp, lb, err
		}
		rr, rp, rb, err := partialEval(r.right, match, predict, q)
		return append(lr, rr...), append(lp, rp...), append(lb, rb...), err

	case kindTree:
		return partialEvalTree(r.tree, match, predict, q)

	default:
		return nil, nil, nil, nil
	}
}

func partialEvalOp[E any, Pat comparable, Tok any, St any, A any](r *Rule[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], predict PredictFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], []Tok, []Continuation[E, Pat, Tok, St, A], *RuleError[E]) {
	succ, preds, branches, err := partialEval(r.child, match, predict, q)
	switch r.opKind {
	case opResetWeight:
		for i := range succ {
			succ[i].State.Weight = q.Weight
		}
		return succ, preds, branches, err
	case opBestMatch:
		if err != nil {
			return succ, preds, branches, err
		}
		// Ranking only applies to completed results; suspended branches
		// are left untouched since their eventual weight isn't known yet.
		best := append([]Success[St, Tok, A]{}, succ...)
		for i := 0; i < len(best); i++ {
			for j := i + 1; j < len(best); j++ {
				if best[j].State.Weight > best[i].State.Weight {
					best[i], best[j] = best[j], best[i]
				}
			}
		}
		if r.opBestK > 0 && r.opBestK < len(best) {
			best = best[:r.opBestK]
		}
		return best, preds, branches, nil
	case opPrune:
		if err != nil {
			return succ, preds, branches, err
		}
		var kept []Success[St, Tok, A]
		for _, s := range succ {
			if r.opPruneKeep(s.State.User) {
				kept = append(kept, s)
			}
		}
		return kept, preds, branches, nil
	default:
		return succ, preds, branches, err
	}
}

func partialEvalTree[E any, Pat comparable, Tok any, St any, A any](t *Tree[E, Pat, Tok, St, A], match MatchFn[Pat, Tok], predict PredictFn[Pat, Tok], q QueryState[St, Tok]) ([]Success[St, Tok, A], []Tok, []Continuation[E, Pat, Tok, St, A], *RuleError[E]) {
	if t == nil {
		return nil, nil, nil, nil
	}

	if q.AtEnd() {
		q.trace("partial-query: suspended at exhausted input")
		type atomBranch struct {
			atom Pat
			br   *Branch[E, Pat, Tok, St, A]
		}
		var all []atomBranch
		for atom, br := range t.DF {
			all = append(all, atomBranch{atom, br})
		}
		for atom, br := range t.BF {
			all = append(all, atomBranch{atom, br})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].br.order < all[j].br.order })

		var preds []Tok
		for _, ab := range all {
			preds = append(preds, predict(ab.atom)...)
		}
		branch := Continuation[E, Pat, Tok, St, A]{rule: FromTree(t), state: q, match: match, predict: predict}
		return nil, preds, []Continuation[E, Pat, Tok, St, A]{branch}, nil
	}

	var all []Success[St, Tok, A]
	var preds []Tok
	var branches []Continuation[E, Pat, Tok, St, A]

	walk := func(m map[Pat]*Branch[E, Pat, Tok, St, A], leafFirst bool) *RuleError[E] {
		for _, c := range collectCandidates(m, match, q) {
			nq := q.Advance(c.consumed, c.sim)

			doLeaf := func() *RuleError[E] {
				if c.branch.Leaf == nil {
					return nil
				}
				succ, p, b, err := partialEval(c.branch.Leaf(q.Remaining()[:c.consumed]), match, predict, nq)
				all = append(all, succ...)
				preds = append(preds, p...)
				branches = append(branches, b...)
				return err
			}
			doChildren := func() *RuleError[E] {
				if c.branch.Children == nil {
					return nil
				}
				succ, p, b, err := partialEvalTree(c.branch.Children, match, predict, nq)
				all = append(all, succ...)
				preds = append(preds, p...)
				branches = append(branches, b...)
				return err
			}

			if leafFirst {
				if err := doLeaf(); err != nil {
					return err
				}
				if err := doChildren(); err != nil {
					return err
				}
			} else {
				if err := doChildren(); err != nil {
					return err
				}
				if err := doLeaf(); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(t.DF, false); err != nil {
		return all, preds, branches, err
	}
	if err := walk(t.BF, true); err != nil {
		return all, preds, branches, err
	}

	return all, preds, branches, nil
}
