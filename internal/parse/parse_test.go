package parse

import (
	"testing"

	"github.com/dekarrin/wislex/internal/token"
	"github.com/stretchr/testify/assert"
)

type ptok int

func (t ptok) Ordinal() int { return int(t) }

const (
	pDigit ptok = iota
	pPlus
	pMinus
	pIdent
)

func oneLine(toks ...token.Token[ptok]) []token.LineTokens[ptok] {
	var cts []token.ColumnToken[ptok]
	col := 1
	for _, tk := range toks {
		cts = append(cts, token.ColumnToken[ptok]{Column: col, Tok: tk})
		col++
	}
	return []token.LineTokens[ptok]{{LineNumber: 1, Tokens: cts}}
}

func Test_PeekToken_isIdempotent(t *testing.T) {
	lines := oneLine(token.FromString(pDigit, "5"))
	st := NewState[struct{}, ptok](lines, struct{}{})

	r1 := Run(PeekToken[struct{}, ptok](), st)
	r2 := Run(PeekToken[struct{}, ptok](), st)

	assert.True(t, r1.IsOk())
	assert.Equal(t, r1.Value(), r2.Value())
	assert.False(t, st.Eof())
}

func Test_ShiftThenPushBack_restoresStream(t *testing.T) {
	lines := oneLine(token.FromString(pDigit, "5"), token.FromString(pPlus, "+"))
	st := NewState[struct{}, ptok](lines, struct{}{})

	before := st.snapshot()
	shifted := Run(ShiftToken[struct{}, ptok](), st)
	assert.True(t, shifted.IsOk())

	Run(PushBack[struct{}, ptok](shifted.Value()), st)
	after := st.snapshot()

	assert.Equal(t, before.pos, after.pos)

	again := Run(ShiftToken[struct{}, ptok](), st)
	assert.True(t, again.IsOk())
	assert.Equal(t, shifted.Value(), again.Value())
}

func Test_Expect_failsIffBacktrack(t *testing.T) {
	lines := oneLine(token.FromString(pIdent, "abc"))

	t.Run("backtrack becomes fail", func(t *testing.T) {
		st := NewState[struct{}, ptok](lines, struct{}{})
		r := Run(Expect[struct{}, ptok]("digit", MatchType[struct{}, ptok](pDigit)), st)
		assert.True(t, r.IsFail())
		assert.Contains(t, r.Err().Message, "expecting digit")
	})

	t.Run("ok passes through", func(t *testing.T) {
		st := NewState[struct{}, ptok](lines, struct{}{})
		r := Run(Expect[struct{}, ptok]("identifier", MatchType[struct{}, ptok](pIdent)), st)
		assert.True(t, r.IsOk())
	})
}

func Test_EndToEnd_expectErrorLocation(t *testing.T) {
	lines := oneLine(token.FromString(pIdent, "abc"))
	st := NewState[struct{}, ptok](lines, struct{}{})

	p := Expect[struct{}, ptok]("digit", MatchType[struct{}, ptok](pDigit))
	r := Run(p, st)

	assert.True(t, r.IsFail())
	assert.Equal(t, token.Point(1, 1), r.Err().Loc)
	assert.Equal(t, "expecting digit", r.Err().Message)
}

func Test_Alt_indexMapsWithDisjointKeys_equalsTryElse(t *testing.T) {
	plus := OnType[struct{}, ptok, string](pPlus, Map(ShiftToken[struct{}, ptok](), func(lt token.Located[ptok]) string { return "plus" }))
	minus := OnType[struct{}, ptok, string](pMinus, Map(ShiftToken[struct{}, ptok](), func(lt token.Located[ptok]) string { return "minus" }))
	compiled := Alt(plus, minus)

	lines1 := oneLine(token.FromString(pPlus, "+"))
	st1 := NewState[struct{}, ptok](lines1, struct{}{})
	r1 := Run(compiled, st1)
	assert.True(t, r1.IsOk())
	assert.Equal(t, "plus", r1.Value())

	lines2 := oneLine(token.FromString(pMinus, "-"))
	st2 := NewState[struct{}, ptok](lines2, struct{}{})
	r2 := Run(compiled, st2)
	assert.True(t, r2.IsOk())
	assert.Equal(t, "minus", r2.Value())

	lines3 := oneLine(token.FromString(pIdent, "x"))
	st3 := NewState[struct{}, ptok](lines3, struct{}{})
	r3 := Run(compiled, st3)
	assert.True(t, r3.IsBacktrack())
}

func Test_Alt_mergesSameKeyBranches(t *testing.T) {
	a := OnType[struct{}, ptok, string](pPlus, Pure[struct{}, ptok, string]("a"))
	b := OnType[struct{}, ptok, string](pPlus, Pure[struct{}, ptok, string]("b"))
	merged := Alt(a, b)

	lines := oneLine(token.FromString(pPlus, "+"))
	st := NewState[struct{}, ptok](lines, struct{}{})
	r := Run(merged, st)

	// a's branch is tried first (source order), so "a" wins.
	assert.True(t, r.IsOk())
	assert.Equal(t, "a", r.Value())
}

func Test_Alt_mapMissBacktracksWithoutConsuming(t *testing.T) {
	plus := OnType[struct{}, ptok, string](pPlus, Pure[struct{}, ptok, string]("plus"))

	lines := oneLine(token.FromString(pIdent, "x"))
	st := NewState[struct{}, ptok](lines, struct{}{})

	r := Run(plus, st)
	assert.True(t, r.IsBacktrack())

	// token must still be there, unconsumed
	peek := Run(PeekToken[struct{}, ptok](), st)
	assert.True(t, peek.IsOk())
	assert.Equal(t, pIdent, peek.Value().Tok.Class())
}

func Test_Eof(t *testing.T) {
	lines := oneLine(token.FromString(pIdent, "x"))
	st := NewState[struct{}, ptok](lines, struct{}{})

	assert.True(t, Run(Eof[struct{}, ptok](), st).IsBacktrack())
	Run(ShiftToken[struct{}, ptok](), st)
	assert.True(t, Run(Eof[struct{}, ptok](), st).IsOk())
}
