// Package lexer turns source bytes into tokens with leading trivia.
// Lexing is best-effort: malformed input (unterminated strings or block
// comments) is truncated at end of file instead of reported, because the
// formatter must degrade silently on broken documents.
package lexer

import (
	"reflow/internal/source"
	"reflow/internal/token"
)

// Lexer scans a single file into a token stream.
type Lexer struct {
	file        *source.File
	cursor      Cursor
	hold        []token.Trivia
	inDirective bool
}

// New creates a lexer over the file.
func New(f *source.File) *Lexer {
	return &Lexer{
		file:   f,
		cursor: NewCursor(f),
		hold:   make([]token.Trivia, 0, 4),
	}
}

// Scan lexes the whole file. The returned slice always ends with an EOF token.
func Scan(f *source.File) []token.Token {
	lx := New(f)
	toks := make([]token.Token, 0, len(f.Content)/4+1)
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

// Next returns the next token in the stream.
func (lx *Lexer) Next() token.Token {
	lx.collectLeadingTrivia()
	leading := lx.takeHold()

	if lx.inDirective && (lx.cursor.EOF() || lx.cursor.Peek() == '\n') {
		lx.inDirective = false
		return lx.zeroWidth(token.EndOfDirective, leading)
	}
	if lx.cursor.EOF() {
		return lx.zeroWidth(token.EOF, leading)
	}

	start := lx.cursor.Mark()
	b := lx.cursor.Peek()

	switch {
	case b == '#' && lx.atLineStart():
		lx.cursor.Bump()
		lx.inDirective = true
		return lx.tok(token.Hash, start, leading)
	case isIdentStart(b):
		return lx.scanIdent(start, leading)
	case b >= '0' && b <= '9':
		return lx.scanNumber(start, leading)
	case b == '"':
		return lx.scanString(start, leading)
	default:
		return lx.scanOperator(start, leading)
	}
}

func (lx *Lexer) takeHold() []token.Trivia {
	if len(lx.hold) == 0 {
		return nil
	}
	out := make([]token.Trivia, len(lx.hold))
	copy(out, lx.hold)
	lx.hold = lx.hold[:0]
	return out
}

func (lx *Lexer) tok(kind token.Kind, start Mark, leading []token.Trivia) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:    kind,
		Span:    sp,
		Text:    string(lx.file.Content[sp.Start:sp.End]),
		Leading: leading,
	}
}

func (lx *Lexer) zeroWidth(kind token.Kind, leading []token.Trivia) token.Token {
	return token.Token{
		Kind:    kind,
		Span:    source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
		Leading: leading,
	}
}

// atLineStart reports whether nothing but blanks precedes the cursor on its line.
func (lx *Lexer) atLineStart() bool {
	off := lx.cursor.Off
	for off > 0 {
		b := lx.file.Content[off-1]
		if b == '\n' {
			return true
		}
		if b != ' ' && b != '\t' {
			return false
		}
		off--
	}
	return true
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
