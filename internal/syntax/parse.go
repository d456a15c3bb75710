package syntax

import (
	"reflow/internal/lexer"
	"reflow/internal/source"
	"reflow/internal/token"
)

// Parse lexes the file and builds its structural tree.
func Parse(f *source.File) *Tree {
	return Build(f, lexer.Scan(f))
}

// Build constructs a tree over an existing token stream. The stream must end
// with an EOF token.
func Build(f *source.File, toks []token.Token) *Tree {
	t := &Tree{
		File:    f,
		Tokens:  toks,
		nodes:   make([]Node, 0, len(toks)/4+1),
		parents: make([]NodeID, len(toks)),
		regions: make(map[NodeID]NodeID),
	}
	p := &builder{t: t}
	p.run()
	return t
}

type frame struct {
	id NodeID
	// using header bookkeeping
	baseParen    int
	headerClosed bool
}

type builder struct {
	t           *Tree
	stack       []frame
	parenDepth  int
	regionStack []NodeID
}

func (p *builder) run() {
	toks := p.t.Tokens
	root := p.push(NodeFile, 0, NoNode)
	if len(toks) > 0 {
		p.t.nodes[root].Span = p.t.File.FullSpan()
	}

	for i := 0; i < len(toks); i++ {
		tok := toks[i]
		switch tok.Kind {
		case token.EOF:
			p.t.parents[i] = root
			last := i - 1
			if last < 0 {
				last = 0
			}
			for len(p.stack) > 1 {
				p.closeTop(last)
			}
			p.t.nodes[root].LastTok = i

		case token.Hash:
			if p.directiveFollows(i) {
				i = p.parseDirective(i)
			} else {
				p.t.parents[i] = p.top()
			}

		case token.LBrace:
			id := p.push(NodeBlock, i, p.top())
			p.t.parents[i] = id

		case token.RBrace:
			p.closeBrace(i)

		case token.KwUsing:
			if p.parenDepth == 0 {
				id := p.push(NodeUsing, i, p.top())
				p.topFrame().baseParen = p.parenDepth
				p.t.parents[i] = id
			} else {
				p.t.parents[i] = p.top()
			}

		case token.KwSwitch:
			if p.parenDepth == 0 {
				id := p.push(NodeSwitch, i, p.top())
				p.t.parents[i] = id
			} else {
				p.t.parents[i] = p.top()
			}

		case token.LParen:
			p.parenDepth++
			p.t.parents[i] = p.top()

		case token.RParen:
			if p.parenDepth > 0 {
				p.parenDepth--
			}
			p.t.parents[i] = p.top()
			if fr := p.topFrame(); fr != nil && p.node(fr.id).Kind == NodeUsing && p.parenDepth == fr.baseParen {
				fr.headerClosed = true
			}

		case token.KwCase, token.KwDefault:
			p.openCase(i)

		case token.Colon:
			p.handleColon(i)

		case token.Semicolon:
			p.t.parents[i] = p.top()
			if fr := p.topFrame(); fr != nil && p.node(fr.id).Kind == NodeUsing && fr.headerClosed {
				p.closeTop(i)
			}

		default:
			p.t.parents[i] = p.top()
		}
	}
}

// directiveFollows reports whether the hash at idx opens a directive line:
// the lexer emits EndOfDirective only for line-start hashes, so a matching
// terminator before the next Hash/EOF identifies one.
func (p *builder) directiveFollows(idx int) bool {
	for j := idx + 1; j < len(p.t.Tokens); j++ {
		switch p.t.Tokens[j].Kind {
		case token.EndOfDirective:
			return true
		case token.Hash, token.EOF:
			return false
		}
	}
	return false
}

func (p *builder) parseDirective(idx int) int {
	kind := NodeDirective
	if idx+1 < len(p.t.Tokens) {
		switch p.t.Tokens[idx+1].Kind {
		case token.KwRegion:
			kind = NodeRegionDirective
		case token.KwEndRegion:
			kind = NodeEndRegionDirective
		}
	}
	id := p.push(kind, idx, p.top())
	last := idx
	for j := idx; j < len(p.t.Tokens); j++ {
		if p.t.Tokens[j].Kind == token.EOF {
			break
		}
		p.t.parents[j] = id
		last = j
		if p.t.Tokens[j].Kind == token.EndOfDirective {
			break
		}
	}
	p.closeTop(last)

	switch kind {
	case NodeRegionDirective:
		p.regionStack = append(p.regionStack, id)
	case NodeEndRegionDirective:
		if n := len(p.regionStack); n > 0 {
			open := p.regionStack[n-1]
			p.regionStack = p.regionStack[:n-1]
			p.t.regions[open] = id
			p.t.regions[id] = open
		}
	}
	return last
}

func (p *builder) closeBrace(idx int) {
	blockAt := -1
	for s := len(p.stack) - 1; s > 0; s-- {
		if p.node(p.stack[s].id).Kind == NodeBlock {
			blockAt = s
			break
		}
	}
	if blockAt < 0 {
		// Stray close brace.
		p.t.parents[idx] = p.top()
		return
	}
	for len(p.stack)-1 > blockAt {
		p.closeTop(idx - 1)
	}
	p.t.parents[idx] = p.stack[blockAt].id
	p.closeTop(idx)

	// A block completes the header construct below it.
	if fr := p.topFrame(); fr != nil {
		switch p.node(fr.id).Kind {
		case NodeUsing, NodeSwitch:
			p.closeTop(idx)
		}
	}
}

func (p *builder) openCase(idx int) {
	if p.parenDepth != 0 {
		p.t.parents[idx] = p.top()
		return
	}
	if fr := p.topFrame(); fr != nil && p.node(fr.id).Kind == NodeSwitchSection {
		p.closeTop(idx - 1)
	}
	top := p.top()
	topNode := p.node(top)
	inSwitchBlock := topNode.Kind == NodeBlock && p.nodeKind(topNode.Parent) == NodeSwitch
	if !inSwitchBlock {
		p.t.parents[idx] = top
		return
	}
	section := p.push(NodeSwitchSection, idx, top)
	label := p.push(NodeCaseLabel, idx, section)
	p.t.parents[idx] = label
}

func (p *builder) handleColon(idx int) {
	if fr := p.topFrame(); fr != nil && p.node(fr.id).Kind == NodeCaseLabel {
		p.t.parents[idx] = fr.id
		p.closeTop(idx)
		return
	}
	if p.parenDepth == 0 && idx > 0 && p.isLabelHead(idx-1) {
		id := p.push(NodeLabel, idx-1, p.top())
		p.t.parents[idx-1] = id
		p.t.parents[idx] = id
		p.closeTop(idx)
		return
	}
	p.t.parents[idx] = p.top()
}

// isLabelHead reports whether the token at idx is an identifier opening a
// label declaration: first non-blank on its line, directly inside a file,
// block, or switch section.
func (p *builder) isLabelHead(idx int) bool {
	if p.t.Tokens[idx].Kind != token.Ident {
		return false
	}
	switch p.nodeKind(p.top()) {
	case NodeFile, NodeBlock, NodeSwitchSection:
	default:
		return false
	}
	return p.t.FirstOnLine(idx)
}

func (p *builder) push(kind NodeKind, firstTok int, parent NodeID) NodeID {
	id := NodeID(len(p.t.nodes))
	span := source.Span{File: p.t.File.ID}
	if firstTok < len(p.t.Tokens) {
		span = p.t.Tokens[firstTok].Span
	}
	p.t.nodes = append(p.t.nodes, Node{
		Kind:     kind,
		Span:     span,
		Parent:   parent,
		FirstTok: firstTok,
		LastTok:  firstTok,
	})
	p.stack = append(p.stack, frame{id: id})
	return id
}

func (p *builder) closeTop(lastTok int) {
	n := len(p.stack)
	if n <= 1 {
		return
	}
	fr := p.stack[n-1]
	p.stack = p.stack[:n-1]
	node := p.node(fr.id)
	if lastTok < node.FirstTok {
		lastTok = node.FirstTok
	}
	node.LastTok = lastTok
	if lastTok < len(p.t.Tokens) {
		node.Span.End = p.t.Tokens[lastTok].Span.End
	}
}

func (p *builder) top() NodeID {
	return p.stack[len(p.stack)-1].id
}

func (p *builder) topFrame() *frame {
	if len(p.stack) <= 1 {
		return nil
	}
	return &p.stack[len(p.stack)-1]
}

func (p *builder) node(id NodeID) *Node {
	return p.t.Node(id)
}

func (p *builder) nodeKind(id NodeID) NodeKind {
	n := p.t.Node(id)
	if n == nil {
		return NodeFile
	}
	return n.Kind
}
