package syntax

import (
	"sort"

	"reflow/internal/token"
)

// FindToken locates the token at a byte offset. With includeTrivia, an offset
// inside whitespace or a comment resolves to the nearest preceding token
// instead of failing. Returns -1 when no token is found.
func (t *Tree) FindToken(off uint32, includeTrivia bool) int {
	idx := sort.Search(len(t.Tokens), func(i int) bool { return t.Tokens[i].Span.End > off })
	if idx < len(t.Tokens) && t.Tokens[idx].Span.Start <= off {
		return idx
	}
	if !includeTrivia {
		return -1
	}
	return idx - 1
}

// FirstOnLine reports whether only blanks precede the token on its line.
func (t *Tree) FirstOnLine(idx int) bool {
	tok := t.TokenAt(idx)
	if tok.IsMissing() {
		return false
	}
	content := t.File.Content
	for off := tok.Span.Start; off > 0; off-- {
		b := content[off-1]
		if b == '\n' {
			return true
		}
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

// BlockDepth returns the number of blocks enclosing the token, counting a
// block the token itself opens or closes as entered/left respectively.
func (t *Tree) BlockDepth(idx int) int {
	depth := 0
	id := t.ParentOf(idx)
	tok := t.TokenAt(idx)
	for id != NoNode {
		n := t.Node(id)
		if n == nil {
			break
		}
		if n.Kind == NodeBlock {
			depth++
		}
		id = n.Parent
	}
	// The braces of a block sit at the depth outside it.
	if tok.Kind == token.LBrace || tok.Kind == token.RBrace {
		if t.ParentKindOf(idx) == NodeBlock && depth > 0 {
			depth--
		}
	}
	return depth
}

// EnclosingSection returns the switch section owning the token, if any.
func (t *Tree) EnclosingSection(idx int) (NodeID, bool) {
	id := t.ParentOf(idx)
	for id != NoNode {
		n := t.Node(id)
		if n == nil {
			break
		}
		if n.Kind == NodeSwitchSection {
			return id, true
		}
		id = n.Parent
	}
	return NoNode, false
}

// InsideParens reports whether the token sits inside an unclosed parenthesis
// run on the token stream (continuation position).
func (t *Tree) InsideParens(idx int) bool {
	depth := 0
	for i := 0; i < idx && i < len(t.Tokens); i++ {
		switch t.Tokens[i].Kind {
		case token.LParen:
			depth++
		case token.RParen:
			if depth > 0 {
				depth--
			}
		}
	}
	return depth > 0
}
