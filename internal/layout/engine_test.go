package layout

import (
	"context"
	"testing"

	"reflow/internal/edit"
	"reflow/internal/source"
	"reflow/internal/syntax"
)

type widthRule int

func (widthRule) Name() string          { return "test-width" }
func (w widthRule) Apply(lc *Context)   { lc.ClaimIndentWidth(int(w)) }

type trimRule struct{}

func (trimRule) Name() string        { return "test-trim" }
func (trimRule) Apply(lc *Context)   { lc.ClaimTrimTrailing(true) }

func parseText(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.rf", []byte(text))
	return syntax.Parse(fs.Get(id))
}

func format(t *testing.T, text string, chain []Rule) string {
	t.Helper()
	tree := parseText(t, text)
	edits, err := NewEngine().ComputeEdits(context.Background(), tree, []source.Span{tree.File.FullSpan()}, chain)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	out, err := edit.Apply(tree.File.Content, edits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return string(out)
}

func TestIndentBlocks(t *testing.T) {
	in := "using (res) {\nwork();\n}\n"
	want := "using (res) {\n    work();\n}\n"
	if got := format(t, in, nil); got != want {
		t.Fatalf("format = %q, want %q", got, want)
	}
}

func TestIndentIsIdempotent(t *testing.T) {
	in := "using (res) {\nwork();\nif (x) {\nmore();\n}\n}\n"
	once := format(t, in, nil)
	twice := format(t, once, nil)
	if once != twice {
		t.Fatalf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
	// A formatted document yields no edits at all.
	tree := parseText(t, once)
	edits, err := NewEngine().ComputeEdits(context.Background(), tree, []source.Span{tree.File.FullSpan()}, nil)
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if len(edits) != 0 {
		t.Fatalf("formatted document produced %d edits", len(edits))
	}
}

func TestIndentWidthRule(t *testing.T) {
	in := "{\nx();\n}\n"
	want := "{\n  x();\n}\n"
	if got := format(t, in, []Rule{widthRule(2)}); got != want {
		t.Fatalf("format = %q, want %q", got, want)
	}
}

func TestSwitchSectionIndent(t *testing.T) {
	in := "switch (x) {\ncase 1:\nwork();\ndefault:\nrest();\n}\n"
	want := "switch (x) {\n    case 1:\n        work();\n    default:\n        rest();\n}\n"
	if got := format(t, in, nil); got != want {
		t.Fatalf("format = %q, want %q", got, want)
	}
}

func TestContinuationLinesUntouched(t *testing.T) {
	in := "call(a,\n         b);\n"
	if got := format(t, in, nil); got != in {
		t.Fatalf("continuation line changed: %q", got)
	}
}

func TestTrimTrailing(t *testing.T) {
	in := "x();   \ny();\t\n"
	want := "x();\ny();\n"
	if got := format(t, in, []Rule{trimRule{}}); got != want {
		t.Fatalf("format = %q, want %q", got, want)
	}
}

func TestComputeTokenEditsSingleLine(t *testing.T) {
	text := "{\nwrong();\nalso_wrong();\n}\n"
	tree := parseText(t, text)
	// Index of the token starting "also_wrong".
	idx := tree.FindToken(uint32(len("{\nwrong();\n")), true)
	edits, err := NewEngine().ComputeTokenEdits(context.Background(), tree, idx, nil)
	if err != nil {
		t.Fatalf("ComputeTokenEdits: %v", err)
	}
	if len(edits) != 1 {
		t.Fatalf("edits = %d, want 1", len(edits))
	}
	out, err := edit.Apply(tree.File.Content, edits)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := "{\nwrong();\n    also_wrong();\n}\n"
	if string(out) != want {
		t.Fatalf("token format = %q, want %q", out, want)
	}
}

func TestComputeTokenEditsMidLineNoEdits(t *testing.T) {
	text := "x();  y();\n"
	tree := parseText(t, text)
	idx := tree.FindToken(6, true) // the 'y' token
	edits, err := NewEngine().ComputeTokenEdits(context.Background(), tree, idx, nil)
	if err != nil || len(edits) != 0 {
		t.Fatalf("mid-line token edits = %v, %v", edits, err)
	}
}

func TestCancelledContext(t *testing.T) {
	tree := parseText(t, "{\nx();\n}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewEngine().ComputeEdits(ctx, tree, []source.Span{tree.File.FullSpan()}, nil); err == nil {
		t.Fatalf("cancelled context not propagated")
	}
}
