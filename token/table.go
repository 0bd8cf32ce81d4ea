package token

// WeakestPrecedence is the sentinel "outer" precedence used when parsing
// begins a fresh expression. It is looser than every real operator,
// including the right-associative ternary at 16.
const WeakestPrecedence = 1 << 30

// Info holds a code's description together with the precedence it binds
// at in prefix and postfix/infix position. A precedence of 0 means "not
// an operator in that position".
type Info struct {
	Code               Code
	Description        string
	PrefixPrecedence   int
	PostfixPrecedence  int
	PostfixLeftToRight bool
}

var descriptions = map[Code]string{
	EOF:                "end of input",
	None:                "none",
	String:              "string literal",
	UnterminatedString:  "unterminated string constant",
	Integer:             "integer literal",
	Number:              "number literal",
	Identifier:          "identifier",
	TwoDot:              "..",
	Ellipsis:            "...",
	Arrow:                "=>",
	EqEq:                 "==",
	NotEq:                "!=",
	AndAnd:               "&&",
	OrOr:                 "||",
	GtEq:                 ">=",
	LtEq:                 "<=",
	StarStar:             "**",
	KwImport:             "import",
	KwDef:                "def",
	KwIf:                 "if",
	KwElse:               "else",
	KwFor:                "for",
	KwTurtle:             "turtle",
	KwUnique:             "unique",
	KwBreakpoint:         "breakpoint",
}

var keywords = map[string]Code{
	"import":     KwImport,
	"def":        KwDef,
	"if":         KwIf,
	"else":       KwElse,
	"for":        KwFor,
	"turtle":     KwTurtle,
	"unique":     KwUnique,
	"breakpoint": KwBreakpoint,
}

// TranslateKeyword maps identifier text to its keyword code, or returns
// (None, false) when text is an ordinary identifier.
func TranslateKeyword(text string) (Code, bool) {
	c, ok := keywords[text]
	if !ok {
		return None, false
	}
	return c, true
}

// operators holds prefix/postfix precedence metadata for every operator
// token, keyed by code. Single-character operators are keyed by their
// rune value.
//
// Smaller numeric precedence binds tighter; all are left-associative
// except "**" and the ternary, which are right-to-left.
var operators = map[Code]Info{
	Code('*'): {PostfixPrecedence: 5, PostfixLeftToRight: true},
	Code('/'): {PostfixPrecedence: 5, PostfixLeftToRight: true},

	Code('+'): {PrefixPrecedence: 3, PostfixPrecedence: 6, PostfixLeftToRight: true},
	Code('-'): {PrefixPrecedence: 3, PostfixPrecedence: 6, PostfixLeftToRight: true},
	Code('!'): {PrefixPrecedence: 3},

	Code('<'): {PostfixPrecedence: 9, PostfixLeftToRight: true},
	Code('>'): {PostfixPrecedence: 9, PostfixLeftToRight: true},
	LtEq:      {PostfixPrecedence: 9, PostfixLeftToRight: true},
	GtEq:      {PostfixPrecedence: 9, PostfixLeftToRight: true},

	EqEq:  {PostfixPrecedence: 10, PostfixLeftToRight: true},
	NotEq: {PostfixPrecedence: 10, PostfixLeftToRight: true},

	AndAnd: {PostfixPrecedence: 14, PostfixLeftToRight: true},
	OrOr:   {PostfixPrecedence: 15, PostfixLeftToRight: true},

	StarStar:     {PostfixPrecedence: 2, PostfixLeftToRight: false},
	Code('?'):    {PostfixPrecedence: 16, PostfixLeftToRight: false},
}

// PrefixInfo returns the prefix-position operator metadata for code, if any.
func PrefixInfo(c Code) (Info, bool) {
	info, ok := operators[c]
	if !ok || info.PrefixPrecedence == 0 {
		return Info{}, false
	}
	info.Code = c
	return info, true
}

// PostfixInfo returns the postfix/infix-position operator metadata for
// code, if any.
func PostfixInfo(c Code) (Info, bool) {
	info, ok := operators[c]
	if !ok || info.PostfixPrecedence == 0 {
		return Info{}, false
	}
	info.Code = c
	return info, true
}

// PostfixBindsMoreTightly reports whether a postfix/infix operator
// continues the current expression: only when it binds more tightly than
// the precedence it was entered with, or equally tightly for a
// right-associative operator (left_to_right false).
func PostfixBindsMoreTightly(info Info, outer int) bool {
	if info.PostfixPrecedence == 0 {
		return false
	}
	if info.PostfixPrecedence < outer {
		return true
	}
	return info.PostfixPrecedence == outer && !info.PostfixLeftToRight
}
