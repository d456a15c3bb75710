package lexer

import (
	"reflow/internal/token"
)

func (lx *Lexer) scanIdent(start Mark, leading []token.Trivia) token.Token {
	for !lx.cursor.EOF() && isIdentPart(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.tok(token.Ident, start, leading)
	if lx.inDirective {
		if kind, ok := token.LookupDirectiveKeyword(tok.Text); ok {
			tok.Kind = kind
		}
		return tok
	}
	if kind, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = kind
	}
	return tok
}

func (lx *Lexer) scanNumber(start Mark, leading []token.Trivia) token.Token {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if (b < '0' || b > '9') && b != '_' {
			break
		}
		lx.cursor.Bump()
	}
	return lx.tok(token.IntLit, start, leading)
}

func (lx *Lexer) scanString(start Mark, leading []token.Trivia) token.Token {
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' && !lx.cursor.EOF() {
			lx.cursor.Bump()
			continue
		}
		if b == '"' || b == '\n' {
			break
		}
	}
	return lx.tok(token.StringLit, start, leading)
}

func (lx *Lexer) scanOperator(start Mark, leading []token.Trivia) token.Token {
	b := lx.cursor.Bump()
	kind := token.None
	switch b {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
		if lx.cursor.Eat('>') {
			kind = token.Arrow
		}
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '%':
		kind = token.Percent
	case '=':
		kind = token.Assign
		if lx.cursor.Eat('=') {
			kind = token.EqEq
		}
	case '!':
		kind = token.Bang
		if lx.cursor.Eat('=') {
			kind = token.BangEq
		}
	case '<':
		kind = token.Lt
		if lx.cursor.Eat('=') {
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Eat('=') {
			kind = token.GtEq
		}
	case '&':
		if lx.cursor.Eat('&') {
			kind = token.AndAnd
		}
	case '|':
		if lx.cursor.Eat('|') {
			kind = token.OrOr
		}
	case '?':
		kind = token.Question
	case ':':
		kind = token.Colon
	case ';':
		kind = token.Semicolon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
	case '#':
		// Mid-line hash is not a directive; keep the token anyway.
		kind = token.Hash
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	}
	tok := lx.tok(kind, start, leading)
	if kind == token.None {
		// Unknown byte: surface it as an identifier-shaped token so the
		// stream stays contiguous.
		tok.Kind = token.Ident
	}
	return tok
}
