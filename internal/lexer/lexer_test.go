package lexer

import (
	"testing"

	"reflow/internal/source"
	"reflow/internal/token"
)

func scanText(t *testing.T, text string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.rf", []byte(text))
	return Scan(fs.Get(id))
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func expectKinds(t *testing.T, text string, want ...token.Kind) []token.Token {
	t.Helper()
	toks := scanText(t, text)
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("scan %q: got %v, want %v", text, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scan %q: token %d = %v, want %v", text, i, got[i], want[i])
		}
	}
	return toks
}

func TestScanStatement(t *testing.T) {
	expectKinds(t, "var x = 1;",
		token.KwVar, token.Ident, token.Assign, token.IntLit, token.Semicolon, token.EOF)
}

func TestScanUsingHeader(t *testing.T) {
	expectKinds(t, "using (res) { }",
		token.KwUsing, token.LParen, token.Ident, token.RParen,
		token.LBrace, token.RBrace, token.EOF)
}

func TestScanQueryKeywords(t *testing.T) {
	expectKinds(t, "from x where y select z",
		token.KwFrom, token.Ident, token.KwWhere, token.Ident,
		token.KwSelect, token.Ident, token.EOF)
}

func TestScanDirective(t *testing.T) {
	toks := expectKinds(t, "#region name\nx;",
		token.Hash, token.KwRegion, token.Ident, token.EndOfDirective,
		token.Ident, token.Semicolon, token.EOF)
	eod := toks[3]
	if !eod.Span.Empty() {
		t.Fatalf("EndOfDirective span = %v, want zero width", eod.Span)
	}
	if eod.Span.Start != 12 {
		t.Fatalf("EndOfDirective offset = %d, want 12", eod.Span.Start)
	}
}

func TestScanDirectiveAtEOF(t *testing.T) {
	expectKinds(t, "#endregion",
		token.Hash, token.KwEndRegion, token.EndOfDirective, token.EOF)
}

func TestRegionIsIdentOutsideDirective(t *testing.T) {
	expectKinds(t, "region;", token.Ident, token.Semicolon, token.EOF)
}

func TestMidLineHashIsNotDirective(t *testing.T) {
	expectKinds(t, "x # y", token.Ident, token.Hash, token.Ident, token.EOF)
}

func TestLeadingTriviaSpans(t *testing.T) {
	toks := scanText(t, "  // note\n\nfoo")
	foo := toks[0]
	if foo.Kind != token.Ident || foo.Text != "foo" {
		t.Fatalf("first token = %v %q", foo.Kind, foo.Text)
	}
	if len(foo.Leading) != 3 {
		t.Fatalf("leading trivia = %d pieces, want 3", len(foo.Leading))
	}
	wantKinds := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline}
	for i, w := range wantKinds {
		if foo.Leading[i].Kind != w {
			t.Fatalf("trivia %d = %v, want %v", i, foo.Leading[i].Kind, w)
		}
	}
	// Trivia spans tile the gap before the token.
	if foo.Leading[0].Span.Start != 0 || foo.Leading[2].Span.End != foo.Span.Start {
		t.Fatalf("trivia spans do not tile: %v .. %v, token at %v",
			foo.Leading[0].Span, foo.Leading[2].Span, foo.Span)
	}
}

func TestBlockCommentNesting(t *testing.T) {
	toks := scanText(t, "/* a /* b */ c */x")
	if toks[0].Kind != token.Ident || toks[0].Text != "x" {
		t.Fatalf("token after nested comment = %v %q", toks[0].Kind, toks[0].Text)
	}
}

func TestUnterminatedStringStopsAtEOF(t *testing.T) {
	toks := scanText(t, `"abc`)
	if toks[0].Kind != token.StringLit || toks[0].Text != `"abc` {
		t.Fatalf("unterminated string = %v %q", toks[0].Kind, toks[0].Text)
	}
	if toks[1].Kind != token.EOF {
		t.Fatalf("missing EOF after unterminated string")
	}
}

func TestTokenTextMatchesSpan(t *testing.T) {
	text := "using (r) { call(a, b); }"
	toks := scanText(t, text)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if got := text[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Fatalf("span text %q != token text %q", got, tok.Text)
		}
	}
}
