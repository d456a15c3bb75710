// Package edit defines text edits and their atomic application. The trigger
// policy only ever requests edits from the layout engine; it never builds
// them itself.
package edit

import (
	"fmt"
	"sort"

	"reflow/internal/source"
)

// Edit replaces the text of a span with NewText.
type Edit struct {
	Span    source.Span
	NewText string
}

// Sort orders edits by span start, earliest first.
func Sort(edits []Edit) {
	sort.SliceStable(edits, func(i, j int) bool {
		return edits[i].Span.Start < edits[j].Span.Start
	})
}

// Validate checks that the edits are sorted, in range, and non-overlapping.
func Validate(contentLen uint32, edits []Edit) error {
	var prevEnd uint32
	for i, e := range edits {
		if e.Span.End < e.Span.Start {
			return fmt.Errorf("edit %d: inverted span %v", i, e.Span)
		}
		if e.Span.End > contentLen {
			return fmt.Errorf("edit %d: span %v beyond content length %d", i, e.Span, contentLen)
		}
		if i > 0 && e.Span.Start < prevEnd {
			return fmt.Errorf("edit %d: overlaps previous edit", i)
		}
		prevEnd = e.Span.End
	}
	return nil
}

// Apply produces new content with all edits applied. The edit list is applied
// atomically: any invalid edit leaves the input untouched and returns an
// error.
func Apply(content []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return content, nil
	}
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	Sort(sorted)
	if err := Validate(uint32(len(content)), sorted); err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(content))
	var prev uint32
	for _, e := range sorted {
		out = append(out, content[prev:e.Span.Start]...)
		out = append(out, e.NewText...)
		prev = e.Span.End
	}
	out = append(out, content[prev:]...)
	return out, nil
}
