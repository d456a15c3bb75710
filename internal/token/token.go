package token

import (
	"reflow/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// Missing is the sentinel returned by lookups that find no token.
var Missing = Token{Kind: None}

// IsMissing reports whether the token is the "no token here" sentinel.
func (t Token) IsMissing() bool { return t.Kind == None }

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwUsing, KwIf, KwElse, KwFor, KwWhile, KwSwitch, KwCase, KwDefault,
		KwBreak, KwContinue, KwReturn, KwVar, KwFn, KwGoto, KwSelect, KwWhere,
		KwFrom, KwTrue, KwFalse, KwRegion, KwEndRegion:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, EqEq, Bang, BangEq,
		Lt, LtEq, Gt, GtEq, AndAnd, OrOr, Question, Colon, Semicolon, Comma,
		Dot, Arrow, Hash, LParen, RParen, LBrace, RBrace, LBracket, RBracket:
		return true
	default:
		return false
	}
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}
