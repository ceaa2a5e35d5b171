package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// testState is the minimal QueryState.User payload used across these
// tests: a counter the rules under test can read and increment.
type testState struct {
	Hits int
}

func wordMatch(pat string, remaining []string) (Similarity, int) {
	if len(remaining) == 0 {
		return Dissimilar, 0
	}
	if remaining[0] == pat {
		return ExactlyEqual, 1
	}
	if len(remaining[0]) == len(pat) {
		// crude case-insensitive-ish fuzzy match for test purposes
		same := 0
		for i := range pat {
			if pat[i] == remaining[0][i] {
				same++
			}
		}
		if same > 0 {
			return Similar(float64(same) / float64(len(pat))), 1
		}
	}
	return Dissimilar, 0
}

func identityPredict(pat string) []string { return []string{pat} }

func greetingTree() *Rule[string, string, string, testState, string] {
	edges := []Edge[string, string, string, testState, string]{
		{Path: []string{"hi"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("greeting")
		}},
		{Path: []string{"bye"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("farewell")
		}},
	}
	return FromTree(FromEdges(edges))
}

func freshState(input []string) QueryState[testState, string] {
	return QueryState[testState, string]{User: testState{}, Weight: FullCertainty, Index: 0, Input: input}
}

func Test_QueryAll_matchesExactBranch(t *testing.T) {
	r := greetingTree()
	succ, err := QueryAll(r, wordMatch, freshState([]string{"hi"}))

	assert.Nil(t, err)
	assert.Len(t, succ, 1)
	assert.Equal(t, "greeting", succ[0].Value)
	assert.True(t, succ[0].State.Weight == FullCertainty)
}

func Test_QueryAll_noMatchYieldsNoSuccesses(t *testing.T) {
	r := greetingTree()
	succ, err := QueryAll(r, wordMatch, freshState([]string{"what"}))

	assert.Nil(t, err)
	assert.Empty(t, succ)
}

func Test_Throw_isNotSwallowedByChoice(t *testing.T) {
	boom := Throw[string, string, string, testState, string](RuleError[string]{Err: "boom"})
	ok := Return[string, string, string, testState, string]("never reached")
	r := Choice(boom, ok)

	succ, err := QueryAll(r, wordMatch, freshState(nil))

	assert.NotNil(t, err)
	assert.Equal(t, "boom", err.Err)
	assert.Empty(t, succ)
}

func Test_Choice_collectsBothBranchesWhenNeitherThrows(t *testing.T) {
	a := Return[string, string, string, testState, string]("a")
	b := Return[string, string, string, testState, string]("b")
	r := Choice(a, b)

	succ, err := QueryAll(r, wordMatch, freshState(nil))

	assert.Nil(t, err)
	assert.Len(t, succ, 2)
	assert.Equal(t, "a", succ[0].Value)
	assert.Equal(t, "b", succ[1].Value)
}

func Test_BestMatch_keepsHighestWeighted(t *testing.T) {
	low := State[string, string, string, testState, string](func(q QueryState[testState, string]) (QueryState[testState, string], *Rule[string, string, string, testState, string]) {
		q.Weight = Certainty(0.2)
		return q, Return[string, string, string, testState, string]("low")
	})
	high := State[string, string, string, testState, string](func(q QueryState[testState, string]) (QueryState[testState, string], *Rule[string, string, string, testState, string]) {
		q.Weight = Certainty(0.9)
		return q, Return[string, string, string, testState, string]("high")
	})
	r := BestMatch(1, Choice(low, high))

	succ, err := QueryAll(r, wordMatch, freshState(nil))

	assert.Nil(t, err)
	assert.Len(t, succ, 1)
	assert.Equal(t, "high", succ[0].Value)
}

func Test_ResetWeight_restoresEnteringWeight(t *testing.T) {
	drop := State[string, string, string, testState, string](func(q QueryState[testState, string]) (QueryState[testState, string], *Rule[string, string, string, testState, string]) {
		q.Weight = Certainty(0.1)
		return q, Return[string, string, string, testState, string]("x")
	})
	r := ResetWeight(drop)

	start := freshState(nil)
	start.Weight = FullCertainty
	succ, _ := QueryAll(r, wordMatch, start)

	assert.Len(t, succ, 1)
	assert.Equal(t, FullCertainty, succ[0].State.Weight)
}

func Test_Prune_dropsNonMatchingState(t *testing.T) {
	bumpA := State[string, string, string, testState, string](func(q QueryState[testState, string]) (QueryState[testState, string], *Rule[string, string, string, testState, string]) {
		q.User.Hits = 1
		return q, Return[string, string, string, testState, string]("a")
	})
	bumpB := State[string, string, string, testState, string](func(q QueryState[testState, string]) (QueryState[testState, string], *Rule[string, string, string, testState, string]) {
		q.User.Hits = 2
		return q, Return[string, string, string, testState, string]("b")
	})
	r := Prune(func(s testState) bool { return s.Hits == 1 }, Choice(bumpA, bumpB))

	succ, err := QueryAll(r, wordMatch, freshState(nil))

	assert.Nil(t, err)
	assert.Len(t, succ, 1)
	assert.Equal(t, "a", succ[0].Value)
}

func Test_NewSessionID_producesDistinctIDs(t *testing.T) {
	a := NewSessionID()
	b := NewSessionID()

	assert.NotEqual(t, a, b)
}

func Test_QueryState_Trace_firesOnTreeDispatch(t *testing.T) {
	r := greetingTree()
	var events []string

	q := freshState([]string{"hi"})
	q.Trace = func(event string) { events = append(events, event) }

	succ, err := QueryAll(r, wordMatch, q)

	assert.Nil(t, err)
	assert.Len(t, succ, 1)
	assert.NotEmpty(t, events)
}

func Test_FromEdges_multiLevelTrieSharesPrefix(t *testing.T) {
	edges := []Edge[string, string, string, testState, string]{
		{Path: []string{"good", "morning"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("gm")
		}},
		{Path: []string{"good", "night"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("gn")
		}},
	}
	r := FromTree(FromEdges(edges))

	succ1, _ := QueryAll(r, wordMatch, freshState([]string{"good", "morning"}))
	succ2, _ := QueryAll(r, wordMatch, freshState([]string{"good", "night"}))

	assert.Len(t, succ1, 1)
	assert.Equal(t, "gm", succ1[0].Value)
	assert.Len(t, succ2, 1)
	assert.Equal(t, "gn", succ2[0].Value)
}

func Test_Trim_ofGetStruct_isEmpty(t *testing.T) {
	r := greetingTree()
	structure := GetStruct(r)
	trimmed := Trim(structure, r)

	succ, _ := QueryAll(trimmed, wordMatch, freshState([]string{"hi"}))
	assert.Empty(t, succ)
}

// Test_Tree_exactMatchMasksSimilar covers spec scenario 5: given a token X
// that matches one branch's pattern ExactlyEqual and a second branch's
// pattern only Similar, the Similar branch must not be tried at all.
func Test_Tree_exactMatchMasksSimilar(t *testing.T) {
	edges := []Edge[string, string, string, testState, string]{
		{Path: []string{"X"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("exact")
		}},
		{Path: []string{"Y"}, Leaf: func([]string) *Rule[string, string, string, testState, string] {
			return Return[string, string, string, testState, string]("fuzzy")
		}},
	}
	match := func(pat string, remaining []string) (Similarity, int) {
		if len(remaining) == 0 {
			return Dissimilar, 0
		}
		if remaining[0] == pat {
			return ExactlyEqual, 1
		}
		if pat == "Y" && remaining[0] == "X" {
			return Similar(0.9), 1
		}
		return Dissimilar, 0
	}
	r := FromTree(FromEdges(edges))

	succ, err := QueryAll(r, match, freshState([]string{"X"}))

	assert.Nil(t, err)
	assert.Len(t, succ, 1)
	assert.Equal(t, "exact", succ[0].Value)
}

// Test_Tree_similarCandidatesOrderedByDescendingSimilarity checks that when
// no exact match exists, Similar branches are visited in descending
// similarity order regardless of map iteration order.
func Test_Tree_similarCandidatesOrderedByDescendingSimilarity(t *testing.T) {
	var visited []string
	record := func(name string) func([]string) *Rule[string, string, string, testState, string] {
		return func([]string) *Rule[string, string, string, testState, string] {
			visited = append(visited, name)
			return Return[string, string, string, testState, string](name)
		}
	}
	edges := []Edge[string, string, string, testState, string]{
		{Path: []string{"low"}, Leaf: record("low")},
		{Path: []string{"high"}, Leaf: record("high")},
		{Path: []string{"mid"}, Leaf: record("mid")},
	}
	sims := map[string]float64{"low": 0.2, "high": 0.9, "mid": 0.5}
	match := func(pat string, remaining []string) (Similarity, int) {
		if len(remaining) == 0 {
			return Dissimilar, 0
		}
		return Similar(sims[pat]), 1
	}
	r := FromTree(FromEdges(edges))

	_, err := QueryAll(r, match, freshState([]string{"anything"}))

	assert.Nil(t, err)
	assert.Equal(t, []string{"high", "mid", "low"}, visited)
}

func Test_Mask_ofGetStruct_reproducesOriginal(t *testing.T) {
	r := greetingTree()
	structure := GetStruct(r)
	masked := Mask(structure, r)

	succOrig, _ := QueryAll(r, wordMatch, freshState([]string{"bye"}))
	succMasked, _ := QueryAll(masked, wordMatch, freshState([]string{"bye"}))

	assert.Equal(t, succOrig, succMasked)
}
