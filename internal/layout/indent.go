package layout

import (
	"strings"

	"reflow/internal/edit"
	"reflow/internal/source"
	"reflow/internal/syntax"
)

// indentLineEdit computes the indentation edit for the line whose first
// token is at idx. Returns ok=false when the line already matches or the
// line is a continuation (inside parentheses).
func indentLineEdit(tree *syntax.Tree, idx int, lc *Context) (edit.Edit, bool) {
	if tree.InsideParens(idx) {
		return edit.Edit{}, false
	}
	tok := tree.TokenAt(idx)
	want := indentString(desiredLevel(tree, idx, lc), lc)

	lineStart := source.LineStart(tree.File.LineIdx, tok.Span.Start)
	current := string(tree.File.Content[lineStart:tok.Span.Start])
	if current == want {
		return edit.Edit{}, false
	}
	return edit.Edit{
		Span:    source.Span{File: tree.File.ID, Start: lineStart, End: tok.Span.Start},
		NewText: want,
	}, true
}

// desiredLevel derives the indent level for the line's first token from the
// structural tree.
func desiredLevel(tree *syntax.Tree, idx int, lc *Context) int {
	depth := tree.BlockDepth(idx)
	if _, inSection := tree.EnclosingSection(idx); inSection {
		if isCaseLabelToken(tree, idx) {
			return depth
		}
		if lc.IndentCaseLabels() {
			return depth + 1
		}
	}
	return depth
}

func isCaseLabelToken(tree *syntax.Tree, idx int) bool {
	id := tree.ParentOf(idx)
	for id != syntax.NoNode {
		n := tree.Node(id)
		if n == nil {
			break
		}
		if n.Kind == syntax.NodeCaseLabel {
			return true
		}
		if n.Kind == syntax.NodeBlock {
			break
		}
		id = n.Parent
	}
	return false
}

func indentString(level int, lc *Context) string {
	if level <= 0 {
		return ""
	}
	if lc.UseTabs() {
		return strings.Repeat("\t", level)
	}
	return strings.Repeat(" ", level*lc.IndentWidth())
}

// trimTrailingEdits removes blanks before every newline inside the spans.
func trimTrailingEdits(tree *syntax.Tree, spans []source.Span) []edit.Edit {
	content := tree.File.Content
	var edits []edit.Edit
	for _, sp := range spans {
		sp = sp.Clamp(uint32(len(content)))
		for off := sp.Start; off < sp.End; off++ {
			if content[off] != '\n' {
				continue
			}
			wsStart := off
			for wsStart > sp.Start {
				b := content[wsStart-1]
				if b != ' ' && b != '\t' {
					break
				}
				wsStart--
			}
			if wsStart < off {
				edits = append(edits, edit.Edit{
					Span: source.Span{File: tree.File.ID, Start: wsStart, End: off},
				})
			}
		}
	}
	return edits
}
