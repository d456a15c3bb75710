package assist

import (
	"reflow/internal/syntax"
	"reflow/internal/token"
)

// locateTokenBeforeCaret finds the token immediately preceding the caret,
// tolerant of the caret sitting inside trivia. The lookup offset clamps to
// max(0, caret-1). Returns the token index, or -1 with the missing sentinel.
func locateTokenBeforeCaret(tree *syntax.Tree, caret uint32) (int, token.Token) {
	off := caret
	if off > 0 {
		off--
	}
	idx := tree.FindToken(off, true)
	if idx < 0 {
		return -1, token.Missing
	}
	tok := tree.TokenAt(idx)
	// Zero-width tokens (EndOfDirective) can land here via the trivia path;
	// they are real anchors and flow through the usual validity checks.
	return idx, tok
}
