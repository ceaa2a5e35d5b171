package cfg

import (
	"strconv"
	"testing"

	"github.com/dekarrin/wislex/internal/lex"
	"github.com/dekarrin/wislex/internal/parse"
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
	"github.com/stretchr/testify/assert"
)

type cTok int

func (t cTok) Ordinal() int { return int(t) }

const (
	cNumber cTok = iota
	cPlus
)

// arithLexer tokenizes a tiny "N + N (+ N)*" grammar, skipping literal
// spaces between tokens and failing hard on anything it does not
// recognize.
func arithLexer(s *lex.State[cTok]) pval.PVal[[]token.Token[cTok], lex.Error] {
	numberLex := lex.NumberLex[cTok](func(lex.NumberClass) cTok { return cNumber })
	opLex := lex.OperatorLex[cTok]("+", cPlus)

	var all []token.Token[cTok]
	for {
		lex.TakeWhile[cTok](func(r rune) bool { return r == ' ' })(s)
		lex.ClearBuffer[cTok]()(s)

		if s.AtEOF() {
			return pval.Ok[[]token.Token[cTok], lex.Error](all)
		}

		r := lex.Choice[cTok, token.Token[cTok]](numberLex, opLex)(s)
		if r.IsBacktrack() {
			next := []rune(s.Remaining())[0]
			return lex.Fail[cTok, []token.Token[cTok]]("unexpected character %q", next)(s)
		}
		if r.IsFail() {
			return pval.Fail[[]token.Token[cTok], lex.Error](r.Err())
		}
		all = append(all, r.Value())
	}
}

func buildArithCFG() CFG[struct{}, cTok, int] {
	parser := parse.Bind(
		parse.Expect[struct{}, cTok, token.Located[cTok]]("number", parse.MatchType[struct{}, cTok](cNumber)),
		func(left token.Located[cTok]) *parse.Parser[struct{}, cTok, int] {
			return parse.Bind(
				parse.Expect[struct{}, cTok, token.Located[cTok]]("'+'", parse.MatchType[struct{}, cTok](cPlus)),
				func(token.Located[cTok]) *parse.Parser[struct{}, cTok, int] {
					return parse.Map(
						parse.Expect[struct{}, cTok, token.Located[cTok]]("number", parse.MatchType[struct{}, cTok](cNumber)),
						func(right token.Located[cTok]) int {
							l, _ := strconv.Atoi(left.Tok.Text())
							r, _ := strconv.Atoi(right.Tok.Text())
							return l + r
						},
					)
				},
			)
		},
	)

	return New[struct{}, cTok, int](4, arithLexer, parser)
}

func Test_CFG_ParsesArithmeticExpression(t *testing.T) {
	c := buildArithCFG()
	result := Parse(c, "2 + 40", struct{}{})

	assert.True(t, result.IsOk())
	assert.Equal(t, 42, result.Value())
}

func Test_CFG_LexFailurePropagatesWithoutParsing(t *testing.T) {
	c := buildArithCFG()
	result := Parse(c, "2 + @@@", struct{}{})

	assert.True(t, result.IsFail())
}
