package assist

import (
	"reflow/internal/options"
	"reflow/internal/syntax"
	"reflow/internal/token"
)

// triggerChars is the fixed set of characters that can trigger formatting
// when typed. Anything else never triggers.
const triggerChars = ";{}#nte:)"

func isSupportedChar(ch byte) bool {
	for i := 0; i < len(triggerChars); i++ {
		if triggerChars[i] == ch {
			return true
		}
	}
	return false
}

// isInvalidAnchor rejects token kinds that are never meaningful formatting
// anchors, regardless of the trigger.
func isInvalidAnchor(tok token.Token) bool {
	switch tok.Kind {
	case token.None, token.EndOfDirective, token.EOF:
		return true
	default:
		return false
	}
}

// charMatchesToken applies the per-character keyword-suffix rule. The
// characters n, t, and e occur inside ordinary identifiers, so they only
// count as triggers when they complete a specific keyword. Every other
// supported character must be the literal, single-character token the
// keystroke produced.
func charMatchesToken(ch byte, tok token.Token) bool {
	switch ch {
	case 'n':
		return tok.Kind == token.KwRegion || tok.Kind == token.KwEndRegion
	case 't':
		return tok.Kind == token.KwSelect
	case 'e':
		return tok.Kind == token.KwWhere
	default:
		return len(tok.Text) == 1 && tok.Text[0] == ch
	}
}

// charGatePasses applies the option gating that is independent of token
// validity.
func charGatePasses(ch byte, opts options.Set) bool {
	switch ch {
	case '}':
		return opts.AutoFormatOnCloseBrace || opts.SmartIndent == options.IndentSmart
	case ';':
		return opts.AutoFormatOnSemicolon
	case '#', 'n':
		return opts.SmartIndent == options.IndentSmart
	default:
		return true
	}
}

// contextAllows applies the context exclusions shared by the typed-character
// and return triggers:
//   - a close paren triggers only when it closes a using header
//   - a colon triggers only on a label declaration or switch-case label
//   - an open brace triggers only when it starts its line
func contextAllows(tree *syntax.Tree, idx int, tok token.Token) bool {
	switch tok.Kind {
	case token.RParen:
		return tree.ParentKindOf(idx) == syntax.NodeUsing
	case token.Colon:
		switch tree.ParentKindOf(idx) {
		case syntax.NodeLabel, syntax.NodeCaseLabel:
			return true
		}
		return false
	case token.LBrace:
		return tree.FirstOnLine(idx)
	default:
		return true
	}
}
