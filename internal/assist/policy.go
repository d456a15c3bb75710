package assist

import (
	"context"

	"reflow/internal/edit"
	"reflow/internal/layout"
	"reflow/internal/options"
	"reflow/internal/rules"
	"reflow/internal/source"
	"reflow/internal/syntax"
	"reflow/internal/token"
)

// evaluate runs one trigger evaluation. All variants share the skeleton
// validate -> resolve range -> range format -> single-token fallback; the
// variant-specific pre-checks live in the eval functions below.
func (f *Formatter) evaluate(ctx context.Context, doc Document, ev Event) ([]edit.Edit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.File == nil {
		return nil, nil
	}
	switch ev.Kind {
	case EventTypedChar:
		return f.evalTypedChar(ctx, doc, ev)
	case EventReturn:
		return f.evalReturn(ctx, doc, ev)
	case EventPaste:
		return f.evalPaste(ctx, doc, ev)
	case EventDemand:
		return f.evalDemand(ctx, doc, ev)
	}
	return nil, nil
}

func (f *Formatter) evalTypedChar(ctx context.Context, doc Document, ev Event) ([]edit.Edit, error) {
	if !isSupportedChar(ev.Ch) {
		return nil, nil
	}
	opts, ok, err := f.optionsFor(ctx, doc)
	if err != nil || !ok {
		return nil, err
	}
	if !charGatePasses(ev.Ch, opts) {
		return nil, nil
	}
	tree, err := f.treeFor(ctx, doc)
	if err != nil || tree == nil {
		return nil, err
	}
	idx, tok := locateTokenBeforeCaret(tree, ev.Caret)
	if tok.IsMissing() || isInvalidAnchor(tok) {
		return nil, nil
	}
	if !charMatchesToken(ev.Ch, tok) {
		return nil, nil
	}
	if tree.IsInNonUserCode(ev.Caret) {
		return nil, nil
	}
	chain := f.chainFor(doc, opts, ev.Caret)

	// Close brace with the format option off still smart-indents the brace's
	// own line; it just never runs a full range reformat.
	if tok.Kind == token.RBrace && !opts.AutoFormatOnCloseBrace {
		return f.formatToken(ctx, tree, idx, chain)
	}

	if !contextAllows(tree, idx, tok) {
		return nil, nil
	}
	return f.rangeThenFallback(ctx, tree, idx, chain)
}

func (f *Formatter) evalReturn(ctx context.Context, doc Document, ev Event) ([]edit.Edit, error) {
	opts, ok, err := f.optionsFor(ctx, doc)
	if err != nil || !ok {
		return nil, err
	}
	tree, err := f.treeFor(ctx, doc)
	if err != nil || tree == nil {
		return nil, err
	}
	idx, tok := locateTokenBeforeCaret(tree, ev.Caret)
	if tok.IsMissing() || isInvalidAnchor(tok) {
		return nil, nil
	}
	// Deliberately narrow: only the close paren of a using header warrants a
	// return-triggered reformat.
	if tok.Kind != token.RParen || tree.ParentKindOf(idx) != syntax.NodeUsing {
		return nil, nil
	}
	chain := f.chainFor(doc, opts, ev.Caret)
	return f.rangeThenFallback(ctx, tree, idx, chain)
}

func (f *Formatter) evalPaste(ctx context.Context, doc Document, ev Event) ([]edit.Edit, error) {
	// Paste formatting needs the range machinery; without it there is
	// nothing to do.
	if f.svc.Ranges == nil {
		return nil, nil
	}
	opts, ok, err := f.optionsFor(ctx, doc)
	if err != nil || !ok {
		return nil, err
	}
	tree, err := f.treeFor(ctx, doc)
	if err != nil || tree == nil {
		return nil, err
	}
	span := ev.Span.Clamp(doc.File.Len())
	if span.Empty() {
		return nil, nil
	}
	// Paste uses only the default set plus the paste rule; host rules are
	// not consulted.
	chain := rules.PasteChain(f.defaults(doc, opts))
	edits, err := f.computeRange(ctx, tree, []source.Span{span}, chain)
	if err != nil {
		return nil, err
	}
	// Paste is a bulk operation, not token-anchored: no fallback.
	return edits, nil
}

func (f *Formatter) evalDemand(ctx context.Context, doc Document, ev Event) ([]edit.Edit, error) {
	opts, ok, err := f.optionsFor(ctx, doc)
	if err != nil || !ok {
		return nil, err
	}
	tree, err := f.treeFor(ctx, doc)
	if err != nil || tree == nil {
		return nil, err
	}
	span := doc.File.FullSpan()
	if !ev.Whole {
		span = ev.Span.Clamp(doc.File.Len())
	}
	chain := f.defaults(doc, opts)
	return f.computeRange(ctx, tree, []source.Span{span}, chain)
}

// rangeThenFallback attempts a range format anchored at the validated end
// token and falls back to single-token formatting when the resolver yields
// nothing, the bounds are degenerate or invalid, or the engine produced no
// edits.
func (f *Formatter) rangeThenFallback(ctx context.Context, tree *syntax.Tree, endIdx int, chain []layout.Rule) ([]edit.Edit, error) {
	if start, end, ok := f.appropriateRange(tree, endIdx); ok {
		edits, err := f.computeRange(ctx, tree, []source.Span{pairSpan(tree, start, end)}, chain)
		if err != nil {
			return nil, err
		}
		if len(edits) > 0 {
			return edits, nil
		}
	}
	return f.formatToken(ctx, tree, endIdx, chain)
}

// appropriateRange consults the resolver and enforces the result invariants:
// a null result, equal bounds, inverted bounds, or an invalid bound token
// all mean "no range".
func (f *Formatter) appropriateRange(tree *syntax.Tree, endIdx int) (int, int, bool) {
	if f.svc.Ranges == nil {
		return 0, 0, false
	}
	start, end, ok := f.svc.Ranges.AppropriateRange(tree, endIdx)
	if !ok || start >= end {
		return 0, 0, false
	}
	if isInvalidAnchor(tree.TokenAt(start)) || isInvalidAnchor(tree.TokenAt(end)) {
		return 0, 0, false
	}
	return start, end, true
}

func (f *Formatter) formatToken(ctx context.Context, tree *syntax.Tree, idx int, chain []layout.Rule) ([]edit.Edit, error) {
	if f.svc.Engine == nil {
		return nil, nil
	}
	edits, err := f.svc.Engine.ComputeTokenEdits(ctx, tree, idx, chain)
	return f.engineResult(ctx, edits, err)
}

func (f *Formatter) computeRange(ctx context.Context, tree *syntax.Tree, spans []source.Span, chain []layout.Rule) ([]edit.Edit, error) {
	if f.svc.Engine == nil {
		return nil, nil
	}
	edits, err := f.svc.Engine.ComputeEdits(ctx, tree, spans, chain)
	return f.engineResult(ctx, edits, err)
}

// engineResult maps engine failures onto the silent no-edits contract while
// letting cancellation through.
func (f *Formatter) engineResult(ctx context.Context, edits []edit.Edit, err error) ([]edit.Edit, error) {
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	}
	return edits, nil
}

func (f *Formatter) optionsFor(ctx context.Context, doc Document) (options.Set, bool, error) {
	if f.svc.Options == nil {
		return options.Set{}, false, nil
	}
	opts, err := f.svc.Options.OptionsFor(ctx, doc.Path())
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return options.Set{}, false, cerr
		}
		return options.Set{}, false, nil
	}
	return opts, true, nil
}

func (f *Formatter) treeFor(ctx context.Context, doc Document) (*syntax.Tree, error) {
	if f.svc.Trees == nil {
		return nil, nil
	}
	tree, err := f.svc.Trees.TreeFor(ctx, doc)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		return nil, nil
	}
	return tree, nil
}

func (f *Formatter) defaults(doc Document, opts options.Set) []layout.Rule {
	if f.svc.Rules == nil {
		return rules.Defaults(opts)
	}
	return f.svc.Rules.Defaults(doc, opts)
}

// chainFor builds host rules ahead of the default set for the token-anchored
// triggers.
func (f *Formatter) chainFor(doc Document, opts options.Set, caret uint32) []layout.Rule {
	var host []layout.Rule
	if f.svc.Rules != nil {
		host = f.svc.Rules.HostRules(doc, caret)
	}
	return rules.Chain(host, f.defaults(doc, opts))
}

func pairSpan(tree *syntax.Tree, start, end int) source.Span {
	return source.Span{
		File:  tree.File.ID,
		Start: tree.TokenAt(start).Span.Start,
		End:   tree.TokenAt(end).Span.End,
	}
}
