// Package rules assembles the ordered rule chains consumed by the layout
// engine. Rules are opaque to the rest of the system; only their order
// matters. Host rules precede the default set, and paste formatting uses the
// default set with a paste rule prepended and no host rules at all.
package rules

import (
	"reflow/internal/layout"
	"reflow/internal/options"
)

type indentRule struct {
	width int
	tabs  bool
}

func (indentRule) Name() string { return "indent" }

func (r indentRule) Apply(lc *layout.Context) {
	lc.ClaimIndentWidth(r.width)
	lc.ClaimUseTabs(r.tabs)
}

type caseIndentRule struct {
	indent bool
}

func (caseIndentRule) Name() string { return "case-indent" }

func (r caseIndentRule) Apply(lc *layout.Context) {
	lc.ClaimIndentCaseLabels(r.indent)
}

type pasteRule struct{}

func (pasteRule) Name() string { return "paste" }

func (pasteRule) Apply(lc *layout.Context) {
	lc.ClaimTrimTrailing(true)
}

// Defaults builds the fixed default rule set for a document's options.
func Defaults(opts options.Set) []layout.Rule {
	return []layout.Rule{
		indentRule{width: opts.IndentWidth, tabs: opts.UseTabs},
		caseIndentRule{indent: opts.IndentCaseLabels},
	}
}

// TabSettings builds a host rule carrying the editor session's tab settings.
// Hosts place it ahead of the defaults so the session wins.
func TabSettings(width int, useTabs bool) layout.Rule {
	return indentRule{width: width, tabs: useTabs}
}

// Chain concatenates host rules with the default set. Host rules come first
// so their claims land before the defaults'.
func Chain(host, defaults []layout.Rule) []layout.Rule {
	out := make([]layout.Rule, 0, len(host)+len(defaults))
	out = append(out, host...)
	out = append(out, defaults...)
	return out
}

// PasteChain prepends the paste rule to the default set. Host rules are
// deliberately absent: paste formatting uses only the defaults plus the
// paste-specific rule.
func PasteChain(defaults []layout.Rule) []layout.Rule {
	out := make([]layout.Rule, 0, len(defaults)+1)
	out = append(out, pasteRule{})
	out = append(out, defaults...)
	return out
}
