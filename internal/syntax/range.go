package syntax

import (
	"reflow/internal/token"
)

// AppropriateRange computes the bounding token pair for the minimal
// syntactic construct worth reformatting when the token at endIdx is the
// formatting anchor. Callers must treat equal bounds as "no range".
func (t *Tree) AppropriateRange(endIdx int) (int, int, bool) {
	tok := t.TokenAt(endIdx)
	if tok.IsMissing() {
		return 0, 0, false
	}

	switch tok.Kind {
	case token.RBrace:
		return t.blockRange(endIdx)

	case token.Semicolon:
		start := t.statementStart(endIdx)
		return start, endIdx, true

	case token.RParen:
		if id := t.ParentOf(endIdx); t.nodeKindOf(id) == NodeUsing {
			return t.Node(id).FirstTok, endIdx, true
		}
		return 0, 0, false

	case token.Colon:
		id := t.ParentOf(endIdx)
		switch t.nodeKindOf(id) {
		case NodeLabel, NodeCaseLabel:
			return t.Node(id).FirstTok, endIdx, true
		}
		return 0, 0, false

	case token.LBrace:
		id := t.ParentOf(endIdx)
		if t.nodeKindOf(id) != NodeBlock {
			return 0, 0, false
		}
		parent := t.Node(id).Parent
		switch t.nodeKindOf(parent) {
		case NodeUsing, NodeSwitch:
			return t.Node(parent).FirstTok, endIdx, true
		}
		return t.statementStart(endIdx), endIdx, true

	case token.Hash, token.KwRegion, token.KwEndRegion, token.EndOfDirective:
		return t.directiveRange(endIdx)
	}

	return 0, 0, false
}

func (t *Tree) blockRange(closeIdx int) (int, int, bool) {
	id := t.ParentOf(closeIdx)
	if t.nodeKindOf(id) != NodeBlock {
		return 0, 0, false
	}
	construct := id
	// Fold the header (using, switch) into the range.
	if parent := t.Node(id).Parent; parent != NoNode {
		switch t.nodeKindOf(parent) {
		case NodeUsing, NodeSwitch:
			construct = parent
		}
	}
	return t.Node(construct).FirstTok, closeIdx, true
}

// statementStart walks backward to the first token of the statement that
// ends at endIdx: the token after the previous terminator, brace, or label
// colon at the same structural level.
func (t *Tree) statementStart(endIdx int) int {
	for j := endIdx - 1; j >= 0; j-- {
		switch t.Tokens[j].Kind {
		case token.Semicolon, token.LBrace, token.RBrace, token.EndOfDirective:
			return j + 1
		case token.Colon:
			switch t.nodeKindOf(t.ParentOf(j)) {
			case NodeLabel, NodeCaseLabel:
				return j + 1
			}
		}
	}
	return 0
}

func (t *Tree) directiveRange(endIdx int) (int, int, bool) {
	id := t.ParentOf(endIdx)
	node := t.Node(id)
	if node == nil {
		return 0, 0, false
	}
	switch node.Kind {
	case NodeEndRegionDirective:
		// Reformat the whole region when the closing directive completes.
		if open, ok := t.MatchingRegion(id); ok {
			return t.Node(open).FirstTok, endIdx, true
		}
		return node.FirstTok, endIdx, true
	case NodeRegionDirective, NodeDirective:
		return node.FirstTok, endIdx, true
	}
	return 0, 0, false
}

func (t *Tree) nodeKindOf(id NodeID) NodeKind {
	n := t.Node(id)
	if n == nil {
		return NodeFile
	}
	return n.Kind
}
