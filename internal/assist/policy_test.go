package assist

import (
	"context"
	"errors"
	"strings"
	"testing"

	"reflow/internal/edit"
	"reflow/internal/layout"
	"reflow/internal/options"
	"reflow/internal/source"
	"reflow/internal/syntax"
)

func newDoc(t *testing.T, text string) Document {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.rf", []byte(text))
	return Document{File: fs.Get(id)}
}

// countingEngine wraps the reference engine and counts invocations, so tests
// can assert that short-circuit paths never reach the engine.
type countingEngine struct {
	inner      layout.Engine
	rangeCalls int
	tokenCalls int
}

func (c *countingEngine) ComputeEdits(ctx context.Context, tree *syntax.Tree, spans []source.Span, chain []layout.Rule) ([]edit.Edit, error) {
	c.rangeCalls++
	return c.inner.ComputeEdits(ctx, tree, spans, chain)
}

func (c *countingEngine) ComputeTokenEdits(ctx context.Context, tree *syntax.Tree, tokIdx int, chain []layout.Rule) ([]edit.Edit, error) {
	c.tokenCalls++
	return c.inner.ComputeTokenEdits(ctx, tree, tokIdx, chain)
}

type countingTrees struct {
	calls int
}

func (c *countingTrees) TreeFor(_ context.Context, doc Document) (*syntax.Tree, error) {
	c.calls++
	return syntax.Parse(doc.File), nil
}

type failingOptions struct{}

func (failingOptions) OptionsFor(context.Context, string) (options.Set, error) {
	return options.Set{}, errors.New("store unreachable")
}

func testServices(opts options.Set) (Services, *countingEngine, *countingTrees) {
	eng := &countingEngine{inner: layout.NewEngine()}
	trees := &countingTrees{}
	svc := Services{
		Trees:   trees,
		Options: options.Static(opts),
		Ranges:  TreeRanges{},
		Rules:   StandardRules{},
		Engine:  eng,
	}
	return svc, eng, trees
}

func apply(t *testing.T, doc Document, edits []edit.Edit) string {
	t.Helper()
	out, err := edit.Apply(doc.File.Content, edits)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return string(out)
}

// caretAfter returns the offset just past the first occurrence of sub.
func caretAfter(t *testing.T, text, sub string) uint32 {
	t.Helper()
	i := strings.Index(text, sub)
	if i < 0 {
		t.Fatalf("substring %q not found", sub)
	}
	return uint32(i + len(sub))
}

func TestTypedSemicolonFormatsStatement(t *testing.T) {
	src := "using (res) {\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ';', caretAfter(t, src, "x = 1;"))
	if err != nil {
		t.Fatalf("OnTypedChar: %v", err)
	}
	got := apply(t, doc, edits)
	want := "using (res) {\n    x = 1;\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTypedUnsupportedCharDoesNothing(t *testing.T) {
	src := "x = 1;\n"
	doc := newDoc(t, src)
	svc, eng, trees := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, 'q', caretAfter(t, src, "x"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked %d times", eng.rangeCalls+eng.tokenCalls)
	}
	if trees.calls != 0 {
		t.Fatalf("tree built for unsupported char")
	}
}

func TestSemicolonGateBlocksBeforeTreeBuild(t *testing.T) {
	src := "x = 1;\n"
	doc := newDoc(t, src)
	opts := options.Default()
	opts.AutoFormatOnSemicolon = false
	svc, eng, trees := testServices(opts)
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ';', caretAfter(t, src, ";"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if trees.calls != 0 || eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("gated trigger still did work: trees=%d engine=%d", trees.calls, eng.rangeCalls+eng.tokenCalls)
	}
}

func TestTypedNOnIdentifierDoesNothing(t *testing.T) {
	src := "{\nrun = 1;\n}\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, 'n', caretAfter(t, src, "run"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked for identifier suffix")
	}
}

func TestTypedNOnEndRegionFormatsRegion(t *testing.T) {
	src := "#region a\n    x = 1;\n#endregion\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, 'n', caretAfter(t, src, "#endregion"))
	if err != nil {
		t.Fatalf("OnTypedChar: %v", err)
	}
	got := apply(t, doc, edits)
	want := "#region a\nx = 1;\n#endregion\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCloseBraceOptionOffSmartOnTouchesBraceLineOnly(t *testing.T) {
	src := "using (res) {\nx = 1;\n    }\n"
	doc := newDoc(t, src)
	opts := options.Default()
	opts.AutoFormatOnCloseBrace = false
	svc, eng, _ := testServices(opts)
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, '}', caretAfter(t, src, "    }"))
	if err != nil {
		t.Fatalf("OnTypedChar: %v", err)
	}
	if eng.rangeCalls != 0 {
		t.Fatalf("range format ran with close-brace option off")
	}
	if len(edits) != 1 {
		t.Fatalf("got %d edits, want 1", len(edits))
	}
	braceLine := caretAfter(t, src, "x = 1;\n")
	if edits[0].Span.Start < braceLine {
		t.Fatalf("edit %v escapes the brace line (line starts at %d)", edits[0].Span, braceLine)
	}
	got := apply(t, doc, edits)
	want := "using (res) {\nx = 1;\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCloseBraceOptionOnFormatsWholeBlock(t *testing.T) {
	src := "using (res) {\nx = 1;\n    }\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, '}', caretAfter(t, src, "    }"))
	if err != nil {
		t.Fatalf("OnTypedChar: %v", err)
	}
	got := apply(t, doc, edits)
	want := "using (res) {\n    x = 1;\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCloseBraceBothOff(t *testing.T) {
	src := "using (res) {\nx = 1;\n    }\n"
	doc := newDoc(t, src)
	opts := options.Default()
	opts.AutoFormatOnCloseBrace = false
	opts.SmartIndent = options.IndentBlock
	svc, eng, _ := testServices(opts)
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, '}', caretAfter(t, src, "    }"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked with both close-brace paths disabled")
	}
}

func TestOpenBraceMidLineDoesNothing(t *testing.T) {
	src := "using (res) {\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, '{', caretAfter(t, src, "{"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked for mid-line open brace")
	}
}

func TestColonOutsideLabelDoesNothing(t *testing.T) {
	src := "f(a : b);\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ':', caretAfter(t, src, ":"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked for non-label colon")
	}
}

func TestColonOnLabelFormats(t *testing.T) {
	src := "using (res) {\ndone:\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ':', caretAfter(t, src, "done:"))
	if err != nil {
		t.Fatalf("OnTypedChar: %v", err)
	}
	if len(edits) == 0 {
		t.Fatalf("expected edits for label colon")
	}
	got := apply(t, doc, edits)
	if !strings.Contains(got, "\n    done:\n") {
		t.Fatalf("label line not indented: %q", got)
	}
}

func TestReturnAfterNonUsingParenDoesNothing(t *testing.T) {
	src := "f(x)\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnReturn(context.Background(), doc, caretAfter(t, src, ")"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked for ordinary close paren")
	}
}

func TestReturnAfterUsingParenMatchesEngineOutput(t *testing.T) {
	src := "    using (res)\n{\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)
	ctx := context.Background()

	edits, err := f.OnReturn(ctx, doc, caretAfter(t, src, ")"))
	if err != nil {
		t.Fatalf("OnReturn: %v", err)
	}

	// The trigger must hand the resolved header range to the engine
	// unchanged: its output equals a direct engine call over that range.
	tree := syntax.Parse(doc.File)
	endIdx := tree.FindToken(caretAfter(t, src, ")")-1, true)
	start, end, ok := tree.AppropriateRange(endIdx)
	if !ok {
		t.Fatalf("no range for using close paren")
	}
	span := source.Span{
		File:  doc.File.ID,
		Start: tree.TokenAt(start).Span.Start,
		End:   tree.TokenAt(end).Span.End,
	}
	want, err := layout.NewEngine().ComputeEdits(ctx, tree, []source.Span{span}, StandardRules{}.Defaults(doc, options.Default()))
	if err != nil {
		t.Fatalf("ComputeEdits: %v", err)
	}
	if len(edits) != len(want) {
		t.Fatalf("got %d edits, want %d", len(edits), len(want))
	}
	for i := range edits {
		if edits[i] != want[i] {
			t.Fatalf("edit %d: got %+v, want %+v", i, edits[i], want[i])
		}
	}
}

func TestOnDemandIdempotent(t *testing.T) {
	src := "using (res) {\nx = 1;\ndone:\ny = 2;\n    }\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)
	ctx := context.Background()

	edits, err := f.OnDemand(ctx, doc, nil)
	if err != nil {
		t.Fatalf("OnDemand: %v", err)
	}
	if len(edits) == 0 {
		t.Fatalf("expected edits for messy document")
	}
	formatted := apply(t, doc, edits)

	again, err := f.OnDemand(ctx, newDoc(t, formatted), nil)
	if err != nil {
		t.Fatalf("second OnDemand: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("formatting not idempotent, second pass produced %v", again)
	}
}

func TestOnDemandSelectionStaysInSpan(t *testing.T) {
	src := "using (a) {\nx = 1;\n}\nusing (b) {\ny = 2;\n}\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	// Select only the second using block.
	start := caretAfter(t, src, "}\n")
	span := source.Span{File: doc.File.ID, Start: start, End: doc.File.Len()}
	edits, err := f.OnDemand(context.Background(), doc, &span)
	if err != nil {
		t.Fatalf("OnDemand: %v", err)
	}
	for _, e := range edits {
		if e.Span.Start < start {
			t.Fatalf("edit %v escapes selection starting at %d", e.Span, start)
		}
	}
	got := apply(t, doc, edits)
	want := "using (a) {\nx = 1;\n}\nusing (b) {\n    y = 2;\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmptyDocumentNeverReachesEngine(t *testing.T) {
	doc := newDoc(t, "")
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ';', 0)
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked without a real anchor token")
	}
}

func TestNonUserCodeSuppressed(t *testing.T) {
	src := "using (res) {\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	svc.Trees = markedTrees{span: source.Span{File: doc.File.ID, Start: 0, End: doc.File.Len()}}
	f := New(svc)

	edits, err := f.OnTypedChar(context.Background(), doc, ';', caretAfter(t, src, ";"))
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked inside generated code")
	}
}

type markedTrees struct {
	span source.Span
}

func (m markedTrees) TreeFor(_ context.Context, doc Document) (*syntax.Tree, error) {
	tree := syntax.Parse(doc.File)
	tree.MarkNonUser(m.span)
	return tree, nil
}

func TestPasteWithoutResolverDoesNothing(t *testing.T) {
	src := "using (res) {\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	svc.Ranges = nil
	f := New(svc)

	edits, err := f.OnPaste(context.Background(), doc, doc.File.FullSpan())
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked without range services")
	}
}

func TestPasteIndentsAndTrims(t *testing.T) {
	src := "using (res) {\nx = 1;   \n}\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	f := New(svc)

	edits, err := f.OnPaste(context.Background(), doc, doc.File.FullSpan())
	if err != nil {
		t.Fatalf("OnPaste: %v", err)
	}
	got := apply(t, doc, edits)
	want := "using (res) {\n    x = 1;\n}\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if eng.tokenCalls != 0 {
		t.Fatalf("paste fell back to token formatting")
	}
}

func TestUnavailableServicesYieldNoEdits(t *testing.T) {
	src := "x = 1;\n"
	doc := newDoc(t, src)
	f := New(Services{})
	ctx := context.Background()

	for name, run := range map[string]func() ([]edit.Edit, error){
		"typed":  func() ([]edit.Edit, error) { return f.OnTypedChar(ctx, doc, ';', 1) },
		"return": func() ([]edit.Edit, error) { return f.OnReturn(ctx, doc, 1) },
		"paste":  func() ([]edit.Edit, error) { return f.OnPaste(ctx, doc, doc.File.FullSpan()) },
		"demand": func() ([]edit.Edit, error) { return f.OnDemand(ctx, doc, nil) },
	} {
		edits, err := run()
		if err != nil || edits != nil {
			t.Fatalf("%s: got (%v, %v), want (nil, nil)", name, edits, err)
		}
	}
}

func TestOptionStoreFailureIsSilent(t *testing.T) {
	src := "x = 1;\n"
	doc := newDoc(t, src)
	svc, eng, _ := testServices(options.Default())
	svc.Options = failingOptions{}
	f := New(svc)

	edits, err := f.OnDemand(context.Background(), doc, nil)
	if err != nil || edits != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", edits, err)
	}
	if eng.rangeCalls+eng.tokenCalls != 0 {
		t.Fatalf("engine invoked without options")
	}
}

func TestCancellationPropagates(t *testing.T) {
	src := "using (res) {\nx = 1;\n}\n"
	doc := newDoc(t, src)
	svc, _, _ := testServices(options.Default())
	f := New(svc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.OnDemand(ctx, doc, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if _, err := f.OnTypedChar(ctx, doc, ';', caretAfter(t, src, ";")); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestSupportsChar(t *testing.T) {
	doc := newDoc(t, "x = 1;\n")
	svc, _, _ := testServices(options.Default())
	f := New(svc)
	ctx := context.Background()

	if !f.SupportsChar(ctx, doc, ';') {
		t.Fatalf("semicolon should be supported with defaults")
	}
	if f.SupportsChar(ctx, doc, 'q') {
		t.Fatalf("q should never be supported")
	}

	opts := options.Default()
	opts.AutoFormatOnSemicolon = false
	svc2, _, _ := testServices(opts)
	if New(svc2).SupportsChar(ctx, doc, ';') {
		t.Fatalf("semicolon must be gated by its option")
	}
}
