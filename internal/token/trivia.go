package token

import "reflow/internal/source"

// TriviaKind classifies non-semantic text attached to a token.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

// Trivia is a run of non-semantic text preceding a token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
