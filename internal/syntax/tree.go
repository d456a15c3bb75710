// Package syntax builds a lightweight structural tree over the token stream.
// It is not a full parser: it tracks only the node shapes the formatting
// policy needs to ask about (blocks, using statements, labels, switch
// sections, directives) and leaves expression structure flat.
package syntax

import (
	"reflow/internal/source"
	"reflow/internal/token"
)

// NodeKind classifies a structural node.
type NodeKind uint8

const (
	// NodeFile is the root node covering the whole file.
	NodeFile NodeKind = iota
	// NodeBlock is a brace-delimited block.
	NodeBlock
	// NodeUsing is a resource-acquisition statement: using (...) body.
	NodeUsing
	// NodeLabel is a label declaration: ident ':'.
	NodeLabel
	// NodeSwitch is a switch statement header plus its block.
	NodeSwitch
	// NodeSwitchSection groups one case label run with its statements.
	NodeSwitchSection
	// NodeCaseLabel is a 'case expr:' or 'default:' label.
	NodeCaseLabel
	// NodeDirective is a generic # directive line.
	NodeDirective
	// NodeRegionDirective is a #region line.
	NodeRegionDirective
	// NodeEndRegionDirective is a #endregion line.
	NodeEndRegionDirective
)

var nodeKindNames = [...]string{
	NodeFile:               "File",
	NodeBlock:              "Block",
	NodeUsing:              "Using",
	NodeLabel:              "Label",
	NodeSwitch:             "Switch",
	NodeSwitchSection:      "SwitchSection",
	NodeCaseLabel:          "CaseLabel",
	NodeDirective:          "Directive",
	NodeRegionDirective:    "RegionDirective",
	NodeEndRegionDirective: "EndRegionDirective",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return "NodeKind(?)"
}

// NodeID indexes a node inside its Tree.
type NodeID int32

// NoNode marks the absence of a node reference.
const NoNode NodeID = -1

// Node is a structural tree node. Parent is a back-reference only; nodes do
// not own their children.
type Node struct {
	Kind     NodeKind
	Span     source.Span
	Parent   NodeID
	FirstTok int
	LastTok  int
}

// Tree is an immutable parse result: the token stream plus structural nodes
// and a per-token parent link.
type Tree struct {
	File    *source.File
	Tokens  []token.Token
	nodes   []Node
	parents []NodeID // one entry per token
	regions map[NodeID]NodeID
	nonUser []source.Span
}

// Root returns the file node.
func (t *Tree) Root() NodeID { return 0 }

// Node returns the node by ID, or nil when the ID is NoNode or out of range.
func (t *Tree) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// TokenAt returns the token at the index, or the missing sentinel.
func (t *Tree) TokenAt(idx int) token.Token {
	if idx < 0 || idx >= len(t.Tokens) {
		return token.Missing
	}
	return t.Tokens[idx]
}

// ParentOf returns the node owning the token at idx.
func (t *Tree) ParentOf(idx int) NodeID {
	if idx < 0 || idx >= len(t.parents) {
		return NoNode
	}
	return t.parents[idx]
}

// ParentKindOf returns the kind of the node owning the token at idx.
// Tokens outside any construct report NodeFile.
func (t *Tree) ParentKindOf(idx int) NodeKind {
	n := t.Node(t.ParentOf(idx))
	if n == nil {
		return NodeFile
	}
	return n.Kind
}

// MatchingRegion returns the paired region node for an endregion directive
// (and vice versa).
func (t *Tree) MatchingRegion(id NodeID) (NodeID, bool) {
	other, ok := t.regions[id]
	return other, ok
}

// MarkNonUser records a span as non-user code (generated or hidden text).
// Hosts call this; the parser never does.
func (t *Tree) MarkNonUser(span source.Span) {
	t.nonUser = append(t.nonUser, span)
}

// IsInNonUserCode reports whether the offset lies inside a non-user span.
func (t *Tree) IsInNonUserCode(off uint32) bool {
	for _, sp := range t.nonUser {
		if sp.Contains(off) {
			return true
		}
	}
	return false
}
