package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// None marks the absence of a token. It is the sentinel returned by
	// token lookups that find nothing and is never produced by the lexer.
	None Kind = iota
	// EOF marks the end of the source input.
	EOF
	// EndOfDirective is the zero-width token closing a # directive line.
	EndOfDirective

	// Ident represents an identifier token.
	Ident

	// KwUsing represents the 'using' keyword.
	KwUsing // using
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwCase represents the 'case' keyword.
	KwCase // case
	// KwDefault represents the 'default' keyword.
	KwDefault // default
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwVar represents the 'var' keyword.
	KwVar // var
	// KwFn represents the 'fn' keyword.
	KwFn // fn
	// KwGoto represents the 'goto' keyword.
	KwGoto // goto
	// KwSelect represents the reserved query keyword 'select'.
	KwSelect // select
	// KwWhere represents the reserved query keyword 'where'.
	KwWhere // where
	// KwFrom represents the reserved query keyword 'from'.
	KwFrom // from
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false

	// KwRegion represents 'region' inside a # directive line.
	KwRegion // region
	// KwEndRegion represents 'endregion' inside a # directive line.
	KwEndRegion // endregion

	// IntLit represents an integer literal token.
	IntLit
	// StringLit represents a string literal token.
	StringLit

	// Plus represents the plus operator token.
	Plus // +
	// Minus represents the minus operator token.
	Minus // -
	// Star represents the star operator token.
	Star // *
	// Slash represents the slash operator token.
	Slash // /
	// Percent represents the percent operator token.
	Percent // %
	// Assign represents the assignment operator token.
	Assign // =
	// EqEq represents the equality operator token.
	EqEq // ==
	// Bang represents the logical-not operator token.
	Bang // !
	// BangEq represents the inequality operator token.
	BangEq // !=
	// Lt represents the less-than operator token.
	Lt // <
	// LtEq represents the less-or-equal operator token.
	LtEq // <=
	// Gt represents the greater-than operator token.
	Gt // >
	// GtEq represents the greater-or-equal operator token.
	GtEq // >=
	// AndAnd represents the logical-and operator token.
	AndAnd // &&
	// OrOr represents the logical-or operator token.
	OrOr // ||
	// Question represents the question-mark token.
	Question // ?
	// Colon represents the colon token.
	Colon // :
	// Semicolon represents the semicolon token.
	Semicolon // ;
	// Comma represents the comma token.
	Comma // ,
	// Dot represents the dot token.
	Dot // .
	// Arrow represents the arrow token.
	Arrow // ->
	// Hash represents the directive-introducing hash token.
	Hash // #
	// LParen represents the open parenthesis token.
	LParen // (
	// RParen represents the close parenthesis token.
	RParen // )
	// LBrace represents the open brace token.
	LBrace // {
	// RBrace represents the close brace token.
	RBrace // }
	// LBracket represents the open bracket token.
	LBracket // [
	// RBracket represents the close bracket token.
	RBracket // ]

	kindCount
)

var kindNames = [kindCount]string{
	None:           "None",
	EOF:            "EOF",
	EndOfDirective: "EndOfDirective",
	Ident:          "Ident",
	KwUsing:        "KwUsing",
	KwIf:           "KwIf",
	KwElse:         "KwElse",
	KwFor:          "KwFor",
	KwWhile:        "KwWhile",
	KwSwitch:       "KwSwitch",
	KwCase:         "KwCase",
	KwDefault:      "KwDefault",
	KwBreak:        "KwBreak",
	KwContinue:     "KwContinue",
	KwReturn:       "KwReturn",
	KwVar:          "KwVar",
	KwFn:           "KwFn",
	KwGoto:         "KwGoto",
	KwSelect:       "KwSelect",
	KwWhere:        "KwWhere",
	KwFrom:         "KwFrom",
	KwTrue:         "KwTrue",
	KwFalse:        "KwFalse",
	KwRegion:       "KwRegion",
	KwEndRegion:    "KwEndRegion",
	IntLit:         "IntLit",
	StringLit:      "StringLit",
	Plus:           "Plus",
	Minus:          "Minus",
	Star:           "Star",
	Slash:          "Slash",
	Percent:        "Percent",
	Assign:         "Assign",
	EqEq:           "EqEq",
	Bang:           "Bang",
	BangEq:         "BangEq",
	Lt:             "Lt",
	LtEq:           "LtEq",
	Gt:             "Gt",
	GtEq:           "GtEq",
	AndAnd:         "AndAnd",
	OrOr:           "OrOr",
	Question:       "Question",
	Colon:          "Colon",
	Semicolon:      "Semicolon",
	Comma:          "Comma",
	Dot:            "Dot",
	Arrow:          "Arrow",
	Hash:           "Hash",
	LParen:         "LParen",
	RParen:         "RParen",
	LBrace:         "LBrace",
	RBrace:         "RBrace",
	LBracket:       "LBracket",
	RBracket:       "RBracket",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
