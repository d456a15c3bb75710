// Package layout computes whitespace edits for a span of tokens. The trigger
// policy treats the engine as a black box: it hands over a span (or a single
// token) and an ordered rule chain and receives edits back.
package layout

// Rule is an opaque, ordered layout policy. Rules customize the layout
// context in chain order; the first rule to claim a parameter wins, so
// host-specific rules placed ahead of the defaults take precedence.
type Rule interface {
	Name() string
	Apply(*Context)
}

// Context carries the layout parameters a rule chain produces. Parameters
// are claim-once: later rules cannot overwrite an earlier claim.
type Context struct {
	indentWidth      *int
	useTabs          *bool
	indentCaseLabels *bool
	trimTrailing     *bool
}

// ClaimIndentWidth sets the indent width unless already claimed.
func (c *Context) ClaimIndentWidth(w int) {
	if c.indentWidth == nil && w > 0 {
		c.indentWidth = &w
	}
}

// ClaimUseTabs sets tab indentation unless already claimed.
func (c *Context) ClaimUseTabs(v bool) {
	if c.useTabs == nil {
		c.useTabs = &v
	}
}

// ClaimIndentCaseLabels sets switch-section indenting unless already claimed.
func (c *Context) ClaimIndentCaseLabels(v bool) {
	if c.indentCaseLabels == nil {
		c.indentCaseLabels = &v
	}
}

// ClaimTrimTrailing enables trailing-blank trimming unless already claimed.
func (c *Context) ClaimTrimTrailing(v bool) {
	if c.trimTrailing == nil {
		c.trimTrailing = &v
	}
}

// IndentWidth returns the claimed width, defaulting to 4.
func (c *Context) IndentWidth() int {
	if c.indentWidth == nil {
		return 4
	}
	return *c.indentWidth
}

// UseTabs reports whether indentation uses tabs. Defaults to false.
func (c *Context) UseTabs() bool {
	return c.useTabs != nil && *c.useTabs
}

// IndentCaseLabels reports whether switch-section statements indent one level
// past their labels. Defaults to true.
func (c *Context) IndentCaseLabels() bool {
	return c.indentCaseLabels == nil || *c.indentCaseLabels
}

// TrimTrailing reports whether trailing blanks are removed. Defaults to false.
func (c *Context) TrimTrailing() bool {
	return c.trimTrailing != nil && *c.trimTrailing
}
