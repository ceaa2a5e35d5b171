package pval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Bind_propagatesOkBacktrackFail(t *testing.T) {
	testCases := []struct {
		name   string
		in     PVal[int, string]
		expect Kind
	}{
		{name: "ok binds into f", in: Ok[int, string](2), expect: KindOk},
		{name: "backtrack short-circuits", in: Backtrack[int, string](), expect: KindBacktrack},
		{name: "fail short-circuits", in: Fail[int, string]("boom"), expect: KindFail},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			out := Bind(tc.in, func(v int) PVal[int, string] {
				called = true
				return Ok[int, string](v + 1)
			})

			assert.Equal(t, tc.expect, out.Kind())
			assert.Equal(t, tc.expect == KindOk, called)
		})
	}
}

func Test_Bind_okAppliesF(t *testing.T) {
	out := Bind(Ok[int, string](41), func(v int) PVal[int, string] {
		return Ok[int, string](v + 1)
	})

	assert.True(t, out.IsOk())
	assert.Equal(t, 42, out.Value())
}

func Test_MPlus_lawTable(t *testing.T) {
	okA := Ok[int, string](1)
	failA := Fail[int, string]("bad")
	btA := Backtrack[int, string]()
	b := Ok[int, string](2)

	t.Run("backtrack <|> b == b", func(t *testing.T) {
		out := MPlus(btA, func() PVal[int, string] { return b })
		assert.Equal(t, b, out)
	})

	t.Run("ok <|> _ == ok, b not evaluated", func(t *testing.T) {
		evaluated := false
		out := MPlus(okA, func() PVal[int, string] {
			evaluated = true
			return b
		})
		assert.Equal(t, okA, out)
		assert.False(t, evaluated)
	})

	t.Run("fail <|> _ == fail, b not evaluated", func(t *testing.T) {
		evaluated := false
		out := MPlus(failA, func() PVal[int, string] {
			evaluated = true
			return b
		})
		assert.Equal(t, failA, out)
		assert.False(t, evaluated)
	})
}

func Test_Catch(t *testing.T) {
	t.Run("catch on fail runs handler", func(t *testing.T) {
		out := Catch(Fail[int, string]("oops"), func(e string) PVal[int, string] {
			return Ok[int, string](len(e))
		})
		assert.True(t, out.IsOk())
		assert.Equal(t, 4, out.Value())
	})

	t.Run("catch on ok is no-op", func(t *testing.T) {
		in := Ok[int, string](9)
		out := Catch(in, func(e string) PVal[int, string] {
			t.Fatal("handler must not run")
			return PVal[int, string]{}
		})
		assert.Equal(t, in, out)
	})

	t.Run("catch on backtrack is no-op", func(t *testing.T) {
		in := Backtrack[int, string]()
		out := Catch(in, func(e string) PVal[int, string] {
			t.Fatal("handler must not run")
			return PVal[int, string]{}
		})
		assert.Equal(t, in, out)
	})
}

func Test_CatchPVal_reifiesAllThreeStates(t *testing.T) {
	ok := CatchPVal(Ok[int, string](5))
	assert.True(t, ok.IsOk())
	assert.Equal(t, KindOk, ok.Value().Kind)
	assert.Equal(t, 5, ok.Value().Value)

	bt := CatchPVal(Backtrack[int, string]())
	assert.True(t, bt.IsOk())
	assert.Equal(t, KindBacktrack, bt.Value().Kind)

	fl := CatchPVal(Fail[int, string]("e"))
	assert.True(t, fl.IsOk())
	assert.Equal(t, KindFail, fl.Value().Kind)
	assert.Equal(t, "e", fl.Value().Err)
}

func Test_Map(t *testing.T) {
	out := Map(Ok[int, string](3), func(v int) string { return "n=" + string(rune('0'+v)) })
	assert.True(t, out.IsOk())
	assert.Equal(t, "n=3", out.Value())

	bt := Map(Backtrack[int, string](), func(v int) string { return "x" })
	assert.True(t, bt.IsBacktrack())
}
