// Package options holds the formatting option set consumed by the trigger
// policy and the layout engine.
package options

import (
	"context"
	"fmt"
)

// SmartIndentStyle selects how indentation is derived while editing.
type SmartIndentStyle uint8

const (
	// IndentNone performs no automatic indentation.
	IndentNone SmartIndentStyle = iota
	// IndentBlock copies the previous line's indentation.
	IndentBlock
	// IndentSmart computes indentation from the surrounding syntax.
	IndentSmart
)

func (s SmartIndentStyle) String() string {
	switch s {
	case IndentNone:
		return "none"
	case IndentBlock:
		return "block"
	case IndentSmart:
		return "smart"
	}
	return "smart-indent(?)"
}

// ParseSmartIndentStyle parses the textual form used in config files.
func ParseSmartIndentStyle(s string) (SmartIndentStyle, error) {
	switch s {
	case "none":
		return IndentNone, nil
	case "block":
		return IndentBlock, nil
	case "smart", "":
		return IndentSmart, nil
	}
	return IndentSmart, fmt.Errorf("options: unknown smart indent style %q", s)
}

// Set is an immutable snapshot of the formatting options for one document.
type Set struct {
	SmartIndent            SmartIndentStyle
	AutoFormatOnCloseBrace bool
	AutoFormatOnSemicolon  bool

	IndentWidth      int
	UseTabs          bool
	IndentCaseLabels bool
}

// Default returns the option set used when no configuration is present.
func Default() Set {
	return Set{
		SmartIndent:            IndentSmart,
		AutoFormatOnCloseBrace: true,
		AutoFormatOnSemicolon:  true,
		IndentWidth:            4,
		UseTabs:                false,
		IndentCaseLabels:       true,
	}
}

// Provider supplies the option set for a document. A provider that cannot
// reach its backing store returns an error; the trigger policy treats that
// as "no edits", never as a failure.
type Provider interface {
	OptionsFor(ctx context.Context, path string) (Set, error)
}

// Static is a Provider that always returns the same set.
type Static Set

// OptionsFor implements Provider.
func (s Static) OptionsFor(context.Context, string) (Set, error) {
	return Set(s), nil
}
