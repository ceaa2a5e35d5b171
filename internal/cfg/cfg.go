// Package cfg implements the CFG driver (P4): it glues a lexer, a parser,
// and a tab width into a single parse(input) -> Result<SynTree, Error>,
// exactly as described in §4.4. It is deliberately thin — lexing and
// parsing remain independent, composable pieces; cfg only sequences them.
package cfg

import (
	"github.com/dekarrin/wislex/internal/lex"
	"github.com/dekarrin/wislex/internal/parse"
	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// CFG is the record { tab_width, main_lexer, main_parser } from §6's
// external interface: a complete recipe for turning source text into a
// syntax tree (or a structured error).
type CFG[S any, T token.Type, A any] struct {
	TabWidth   int
	MainLexer  lex.Lexer[T, []token.Token[T]]
	MainParser *parse.Parser[S, T, A]
}

// New builds a CFG from its three parts.
func New[S any, T token.Type, A any](tabWidth int, lexer lex.Lexer[T, []token.Token[T]], parser *parse.Parser[S, T, A]) CFG[S, T, A] {
	return CFG[S, T, A]{TabWidth: tabWidth, MainLexer: lexer, MainParser: parser}
}

// Error is the union of a lex.Error and a parse.Error, letting Parse
// return one structured error type regardless of which phase failed.
type Error struct {
	Loc     token.Location
	Message string
	FromLex bool
}

func (e Error) Error() string {
	return e.Message
}

func fromLexErr(e lex.Error) Error {
	return Error{Loc: e.Loc, Message: e.Error(), FromLex: true}
}

func fromParseErr(e parse.Error) Error {
	return Error{Loc: e.Loc, Message: e.Error(), FromLex: false}
}

// Parse runs the full two-phase pipeline:
//
//  1. initialize lexer state and run the supplied lexer to exhaustion;
//  2. if lexing failed, convert its error's location into a cfg.Error and
//     return Fail without ever invoking the parser;
//  3. otherwise regroup the emitted tokens into lines and run the parser
//     with the supplied initial state, returning its result translated the
//     same way.
func Parse[S any, T token.Type, A any](c CFG[S, T, A], input string, initialState S) pval.PVal[A, Error] {
	lexResult, lexState := lex.Run(c.MainLexer, input, c.TabWidth)
	if lexResult.IsFail() {
		return pval.Fail[A, Error](fromLexErr(lexResult.Err()))
	}
	if lexResult.IsBacktrack() {
		return pval.Fail[A, Error](Error{Loc: token.Point(lexState.Line, lexState.Column), Message: "lexer did not consume all input", FromLex: true})
	}

	lines := lexState.ToLines()
	parseResult, _ := parse.Exec(c.MainParser, lines, initialState)

	switch parseResult.Kind() {
	case pval.KindOk:
		return pval.Ok[A, Error](parseResult.Value())
	case pval.KindFail:
		return pval.Fail[A, Error](fromParseErr(parseResult.Err()))
	default:
		return pval.Fail[A, Error](Error{Message: "parse did not match any alternative"})
	}
}

// Stream is the streaming counterpart described in §4.4's note on lazy
// pipelining: it lexes input to completion (package lex has no
// incremental/coroutine mode of its own, mirroring the teacher's
// buffered-io approach in internal/ictiobus/lex) and hands the parser an
// already-materialized token stream. A truly lazy pipeline would instead
// interleave the two phases via an iterator or channel per token; Stream
// documents that seam without implementing true streaming, since nothing
// in this core's callers requires it yet.
func Stream[S any, T token.Type, A any](c CFG[S, T, A], input string, initialState S) pval.PVal[A, Error] {
	return Parse(c, input, initialState)
}
