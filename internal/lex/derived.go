package lex

import (
	"sort"
	"strings"

	"github.com/dekarrin/wislex/internal/pval"
	"github.com/dekarrin/wislex/internal/token"
)

// ScanUntilTermChar repeatedly tries eof | term | (escape; term|escape|any)
// | anyChar until term is seen or input is exhausted. It returns true if
// term was found (and consumed) before EOF, false if EOF was hit first (in
// which case everything scanned is still sitting in the buffer for the
// caller to Emit or discard as it sees fit).
func ScanUntilTermChar[T token.Type](escape, term rune) Lexer[T, bool] {
	return func(s *State[T]) pval.PVal[bool, Error] {
		for {
			if s.AtEOF() {
				return pval.Ok[bool, Error](false)
			}
			if MatchChar[T](term)(s).IsOk() {
				return pval.Ok[bool, Error](true)
			}
			if MatchChar[T](escape)(s).IsOk() {
				// consume exactly one more char, whatever it is (escaped
				// term, escaped escape, or anything else)
				if s.AtEOF() {
					return pval.Ok[bool, Error](false)
				}
				AnyChar[T]()(s)
				continue
			}
			AnyChar[T]()(s)
		}
	}
}

// ScanUntilTermString is ScanUntilTermChar's string-terminator
// specialization: escape and term are (possibly multi-character) strings.
// The scan predicate is chosen based on the terminator's first character
// to avoid re-testing MatchString at every position when a cheap
// single-rune check already rules most positions out.
func ScanUntilTermString[T token.Type](escape, term string) Lexer[T, bool] {
	var termFirst, escFirst rune
	if len(term) > 0 {
		termFirst = []rune(term)[0]
	}
	if len(escape) > 0 {
		escFirst = []rune(escape)[0]
	}

	return func(s *State[T]) pval.PVal[bool, Error] {
		for {
			if s.AtEOF() {
				return pval.Ok[bool, Error](false)
			}
			next := s.peek(1)[0]

			if term != "" && next == termFirst && MatchString[T](term)(s).IsOk() {
				return pval.Ok[bool, Error](true)
			}
			if escape != "" && next == escFirst && MatchString[T](escape)(s).IsOk() {
				if s.AtEOF() {
					return pval.Ok[bool, Error](false)
				}
				AnyChar[T]()(s)
				continue
			}
			AnyChar[T]()(s)
		}
	}
}

// OperatorLex builds a lexer that recognizes the longest matching operator
// from ops (a whitespace-separated list, e.g. "+ += - -= == ="). Operators
// are deduped and sorted longest-first (ties broken lexically) before
// matching, guaranteeing "+=" lexes as one token rather than "+" then "=".
func OperatorLex[T token.Type](ops string, tokType T) Lexer[T, token.Token[T]] {
	fields := strings.Fields(ops)
	seen := map[string]bool{}
	var uniq []string
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			uniq = append(uniq, f)
		}
	}
	sort.Slice(uniq, func(i, j int) bool {
		if len(uniq[i]) != len(uniq[j]) {
			return len(uniq[i]) > len(uniq[j])
		}
		return uniq[i] < uniq[j]
	})

	var alts []Lexer[T, string]
	for _, op := range uniq {
		alts = append(alts, MatchString[T](op))
	}

	return Bind(Choice(alts...), func(string) Lexer[T, token.Token[T]] {
		return Emit[T](tokType, true)
	})
}

// NumberClass tags which flavor of numeric literal a NumberLex run emitted.
type NumberClass int

const (
	NumberInt NumberClass = iota
	NumberHex
	NumberBin
	NumberDecimal
	NumberDecimalExp
)

// NumberLex recognizes an optional 0x/0X or 0b/0B prefix, digits, an
// optional '.' plus digits, and an optional e/E exponent with optional
// sign and digits, and emits the type corresponding to the most specific
// form matched via classify. Semantic validity (e.g. "0b2") is NOT checked
// here, matching the spec: the parser phase is responsible for rejecting
// it.
func NumberLex[T token.Type](classify func(NumberClass) T) Lexer[T, token.Token[T]] {
	return func(s *State[T]) pval.PVal[token.Token[T], Error] {
		sn := s.snapshot()

		if MatchString[T]("0x")(s).IsOk() || MatchString[T]("0X")(s).IsOk() {
			if TakeWhile[T](isHexDigit)(s).IsOk() {
				return Emit[T](classify(NumberHex), true)(s)
			}
			s.restore(sn)
			return pval.Backtrack[token.Token[T], Error]()
		}
		if MatchString[T]("0b")(s).IsOk() || MatchString[T]("0B")(s).IsOk() {
			if TakeWhile[T](isBinDigit)(s).IsOk() {
				return Emit[T](classify(NumberBin), true)(s)
			}
			s.restore(sn)
			return pval.Backtrack[token.Token[T], Error]()
		}

		if !TakeWhile[T](isDigit)(s).IsOk() {
			s.restore(sn)
			return pval.Backtrack[token.Token[T], Error]()
		}

		class := NumberInt
		if MatchChar[T]('.')(s).IsOk() {
			TakeWhile[T](isDigit)(s)
			class = NumberDecimal
		}
		if MatchCharIf[T](func(r rune) bool { return r == 'e' || r == 'E' })(s).IsOk() {
			MatchCharIf[T](func(r rune) bool { return r == '+' || r == '-' })(s)
			TakeWhile[T](isDigit)(s)
			class = NumberDecimalExp
		}

		return Emit[T](classify(class), true)(s)
	}
}

// KeywordOrIdentLex recognizes an identifier (first char alpha-or-
// underscore, remaining alnum-or-underscore) and emits it as keyword(s)
// when its text appears in keywords, or as ident otherwise.
func KeywordOrIdentLex[T token.Type](keywords map[string]T, ident T) Lexer[T, token.Token[T]] {
	return func(s *State[T]) pval.PVal[token.Token[T], Error] {
		if !MatchCharIf[T](IsLetter)(s).IsOk() {
			return pval.Backtrack[token.Token[T], Error]()
		}
		Many[T, rune](MatchCharIf[T](IsAlnum))(s)

		text := s.Buffered()
		if kw, ok := keywords[text]; ok {
			return Emit[T](kw, true)(s)
		}
		return Emit[T](ident, true)(s)
	}
}

// LineComment matches a line-ending comment introduced by start (e.g.
// "//", "--", "#") through end of line or EOF, discarding its contents.
func LineComment[T token.Type](start string) Lexer[T, struct{}] {
	return Bind(MatchString[T](start), func(string) Lexer[T, struct{}] {
		return func(s *State[T]) pval.PVal[struct{}, Error] {
			TakeUntil[T](func(r rune) bool { return r == '\n' })(s)
			ClearBuffer[T]()(s)
			return pval.Ok[struct{}, Error](struct{}{})
		}
	})
}

// BlockComment matches a start...end delimited block comment, discarding
// its contents. Fails hard if the input ends before end is found.
func BlockComment[T token.Type](start, end string) Lexer[T, struct{}] {
	return Bind(MatchString[T](start), func(string) Lexer[T, struct{}] {
		return func(s *State[T]) pval.PVal[struct{}, Error] {
			terminated := ScanUntilTermString[T]("", end)(s)
			ClearBuffer[T]()(s)
			if terminated.IsOk() && !terminated.Value() {
				return pval.Fail[struct{}, Error](Errorf(posOf(s), "unterminated block comment (expected %q)", end))
			}
			return pval.Ok[struct{}, Error](struct{}{})
		}
	})
}

// quotedBody scans characters up to (but not including) an unescaped
// quote, leaving exactly the body in the buffer and the closing quote
// still unconsumed in input. Returns false if EOF was hit first.
func quotedBody[T token.Type](quote rune) Lexer[T, bool] {
	return func(s *State[T]) pval.PVal[bool, Error] {
		for {
			if s.AtEOF() {
				return pval.Ok[bool, Error](false)
			}
			next := s.peek(1)[0]
			if next == quote {
				return pval.Ok[bool, Error](true)
			}
			if next == '\\' {
				AnyChar[T]()(s)
				if s.AtEOF() {
					return pval.Ok[bool, Error](false)
				}
				AnyChar[T]()(s)
				continue
			}
			AnyChar[T]()(s)
		}
	}
}

// StringLiteral matches a quote...quote span where '\' escapes the quote,
// emitting tokType with the text between (not including) the quotes. An
// unterminated string literal is a hard Fail.
func StringLiteral[T token.Type](quote rune, tokType T) Lexer[T, token.Token[T]] {
	return func(s *State[T]) pval.PVal[token.Token[T], Error] {
		if !MatchChar[T](quote)(s).IsOk() {
			return pval.Backtrack[token.Token[T], Error]()
		}
		ClearBuffer[T]()(s) // drop the opening quote from the emitted text

		found := quotedBody[T](quote)(s)
		if !found.Value() {
			return pval.Fail[token.Token[T], Error](Errorf(posOf(s), "unterminated string literal"))
		}

		// emit the body as a token directly rather than through Emit,
		// since an empty body (the "" literal) is legal here but would
		// otherwise look like "nothing to emit" to Emit's buffer check.
		body := s.Buffered()
		startLine, startCol := s.Line, s.Column
		s.advance([]rune(body))
		s.buffer = nil
		tok := token.FromString(tokType, body)
		s.Emitted = append(s.Emitted, token.Located[T]{Line: startLine, Column: startCol, Tok: tok})

		MatchChar[T](quote)(s)
		ClearBuffer[T]()(s) // consume and discard the closing quote
		return pval.Ok[token.Token[T], Error](tok)
	}
}

// CharLiteral matches a '...'-delimited character literal. Per the
// resolved open question recorded in SPEC_FULL.md, an unterminated char
// literal is treated the SAME as an unterminated string literal: a hard
// Fail, not silent EOF truncation.
func CharLiteral[T token.Type](tokType T) Lexer[T, token.Token[T]] {
	return StringLiteral[T]('\'', tokType)
}
