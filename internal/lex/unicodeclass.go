package lex

import (
	"unicode"

	"golang.org/x/text/width"
)

// isUnicodeLetter classifies r using the standard Unicode letter category,
// backing IsLetter's "alpha-or-underscore" rule for identifiers/keywords.
func isUnicodeLetter(r rune) bool {
	return unicode.IsLetter(r)
}

// columnsFor returns how many terminal columns r occupies, used by
// State.advance for the "printable => 1 column" rule in the spec. East
// Asian fullwidth and wide runes occupy two columns; everything else that
// is printable occupies one. This keeps column accounting correct for
// non-ASCII source text, following the teacher's use of golang.org/x/text
// for Unicode-aware text handling.
func columnsFor(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
