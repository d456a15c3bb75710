// Package token defines lexical token kinds and trivia for reflow.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - The zero value of Kind is None: the "missing token" sentinel returned
//     by lookups that find nothing. The lexer never emits it.
//   - Directives (# at the start of a line) produce a Hash token, a directive
//     keyword token, and a zero-width EndOfDirective token at end of line.
//   - select/where are reserved query keywords; region/endregion are keywords
//     only inside a directive line and plain identifiers everywhere else.
package token
