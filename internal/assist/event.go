package assist

import (
	"reflow/internal/source"
)

// EventKind tags a trigger event variant.
type EventKind uint8

const (
	// EventTypedChar fires after the user types a single character.
	EventTypedChar EventKind = iota
	// EventReturn fires after the user presses return.
	EventReturn
	// EventPaste fires after a paste lands in the document.
	EventPaste
	// EventDemand is an explicit format request over a span or the whole
	// document.
	EventDemand
)

// Event is the tagged trigger variant consumed by the policy. One sum type
// replaces four near-identical entry paths; each variant keeps its own
// pre-checks inside the policy.
type Event struct {
	Kind  EventKind
	Ch    byte        // EventTypedChar only
	Caret uint32      // EventTypedChar, EventReturn
	Span  source.Span // EventPaste, EventDemand with a selection
	Whole bool        // EventDemand without a selection
}

// TypedChar builds a typed-character event.
func TypedChar(ch byte, caret uint32) Event {
	return Event{Kind: EventTypedChar, Ch: ch, Caret: caret}
}

// ReturnKey builds a return-key event.
func ReturnKey(caret uint32) Event {
	return Event{Kind: EventReturn, Caret: caret}
}

// Pasted builds a paste event over the pasted span.
func Pasted(span source.Span) Event {
	return Event{Kind: EventPaste, Span: span}
}

// Demand builds an on-demand event over a selection.
func Demand(span source.Span) Event {
	return Event{Kind: EventDemand, Span: span}
}

// DemandWhole builds an on-demand event covering the whole document.
func DemandWhole() Event {
	return Event{Kind: EventDemand, Whole: true}
}
