package assist

import (
	"context"

	"reflow/internal/layout"
	"reflow/internal/options"
	"reflow/internal/rules"
	"reflow/internal/source"
	"reflow/internal/syntax"
)

// Document is an immutable snapshot of the text being edited.
type Document struct {
	File *source.File
}

// Path returns the document's path for option lookups.
func (d Document) Path() string {
	if d.File == nil {
		return ""
	}
	return d.File.Path
}

// TreeProvider supplies the syntax tree for a document snapshot.
type TreeProvider interface {
	TreeFor(ctx context.Context, doc Document) (*syntax.Tree, error)
}

// RangeResolver computes the bounding token pair for a validated end token.
// The policy enforces the result invariants; it never computes ranges itself.
type RangeResolver interface {
	AppropriateRange(tree *syntax.Tree, endIdx int) (start, end int, ok bool)
}

// RuleProvider assembles rule sets. Defaults returns the fixed default set
// for a document; HostRules returns session-specific rules, possibly none.
type RuleProvider interface {
	Defaults(doc Document, opts options.Set) []layout.Rule
	HostRules(doc Document, caret uint32) []layout.Rule
}

// Services bundles the external collaborators a Formatter consults. A nil
// member means the service is unavailable; evaluations then produce no edits.
type Services struct {
	Trees   TreeProvider
	Options options.Provider
	Ranges  RangeResolver
	Rules   RuleProvider
	Engine  layout.Engine
}

// ParseTrees is the TreeProvider that parses the snapshot directly.
type ParseTrees struct{}

// TreeFor implements TreeProvider.
func (ParseTrees) TreeFor(_ context.Context, doc Document) (*syntax.Tree, error) {
	return syntax.Parse(doc.File), nil
}

// TreeRanges resolves ranges from the tree's own structural nodes.
type TreeRanges struct{}

// AppropriateRange implements RangeResolver.
func (TreeRanges) AppropriateRange(tree *syntax.Tree, endIdx int) (int, int, bool) {
	return tree.AppropriateRange(endIdx)
}

// StandardRules provides the default rule set and no host rules.
type StandardRules struct{}

// Defaults implements RuleProvider.
func (StandardRules) Defaults(_ Document, opts options.Set) []layout.Rule {
	return rules.Defaults(opts)
}

// HostRules implements RuleProvider.
func (StandardRules) HostRules(Document, uint32) []layout.Rule { return nil }

// DefaultServices wires the in-process collaborators: direct parsing,
// tree-based range resolution, standard rules, the reference engine, and the
// given option provider.
func DefaultServices(opts options.Provider) Services {
	return Services{
		Trees:   ParseTrees{},
		Options: opts,
		Ranges:  TreeRanges{},
		Rules:   StandardRules{},
		Engine:  layout.NewEngine(),
	}
}
