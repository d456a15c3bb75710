package layout

import (
	"context"

	"reflow/internal/edit"
	"reflow/internal/source"
	"reflow/internal/syntax"
)

// Engine computes whitespace edits. ComputeEdits reformats every line whose
// first token falls inside one of the spans; ComputeTokenEdits adjusts only
// the line of a single token. Both return nil edits when the text already
// matches the computed layout.
type Engine interface {
	ComputeEdits(ctx context.Context, tree *syntax.Tree, spans []source.Span, chain []Rule) ([]edit.Edit, error)
	ComputeTokenEdits(ctx context.Context, tree *syntax.Tree, tokIdx int, chain []Rule) ([]edit.Edit, error)
}

type engine struct{}

// NewEngine returns the reference layout engine.
func NewEngine() Engine {
	return engine{}
}

func (engine) ComputeEdits(ctx context.Context, tree *syntax.Tree, spans []source.Span, chain []Rule) ([]edit.Edit, error) {
	if tree == nil || len(spans) == 0 {
		return nil, nil
	}
	lc := chainContext(chain)
	var edits []edit.Edit
	for i := range tree.Tokens {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !tree.FirstOnLine(i) {
			continue
		}
		start := tree.Tokens[i].Span.Start
		if !anyContains(spans, start) {
			continue
		}
		if e, ok := indentLineEdit(tree, i, lc); ok {
			edits = append(edits, e)
		}
	}
	if lc.TrimTrailing() {
		edits = append(edits, trimTrailingEdits(tree, spans)...)
	}
	if len(edits) == 0 {
		return nil, nil
	}
	edit.Sort(edits)
	return edits, nil
}

func (engine) ComputeTokenEdits(ctx context.Context, tree *syntax.Tree, tokIdx int, chain []Rule) ([]edit.Edit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tree == nil || tree.TokenAt(tokIdx).IsMissing() {
		return nil, nil
	}
	if !tree.FirstOnLine(tokIdx) {
		return nil, nil
	}
	lc := chainContext(chain)
	if e, ok := indentLineEdit(tree, tokIdx, lc); ok {
		return []edit.Edit{e}, nil
	}
	return nil, nil
}

func chainContext(chain []Rule) *Context {
	lc := &Context{}
	for _, r := range chain {
		r.Apply(lc)
	}
	return lc
}

func anyContains(spans []source.Span, off uint32) bool {
	for _, sp := range spans {
		if sp.Contains(off) {
			return true
		}
	}
	return false
}
