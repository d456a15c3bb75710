package assist

import (
	"context"

	"reflow/internal/edit"
	"reflow/internal/source"
)

// Formatter evaluates trigger events against a service bundle. It holds no
// mutable state; concurrent evaluations are independent.
type Formatter struct {
	svc Services
}

// New creates a Formatter over the given services.
func New(svc Services) *Formatter {
	return &Formatter{svc: svc}
}

// SupportsChar is the cheap pre-check hosts run before building a full
// typed-character trigger: the character must be in the supported set and
// pass the session's option gating.
func (f *Formatter) SupportsChar(ctx context.Context, doc Document, ch byte) bool {
	if !isSupportedChar(ch) {
		return false
	}
	opts, ok, err := f.optionsFor(ctx, doc)
	if err != nil || !ok {
		return false
	}
	return charGatePasses(ch, opts)
}

// OnTypedChar evaluates the typed-character trigger.
func (f *Formatter) OnTypedChar(ctx context.Context, doc Document, ch byte, caret uint32) ([]edit.Edit, error) {
	return f.evaluate(ctx, doc, TypedChar(ch, caret))
}

// OnReturn evaluates the return-key trigger.
func (f *Formatter) OnReturn(ctx context.Context, doc Document, caret uint32) ([]edit.Edit, error) {
	return f.evaluate(ctx, doc, ReturnKey(caret))
}

// OnPaste evaluates the paste trigger over the pasted span.
func (f *Formatter) OnPaste(ctx context.Context, doc Document, span source.Span) ([]edit.Edit, error) {
	return f.evaluate(ctx, doc, Pasted(span))
}

// OnDemand formats the selection, or the whole document when span is nil.
func (f *Formatter) OnDemand(ctx context.Context, doc Document, span *source.Span) ([]edit.Edit, error) {
	if span == nil {
		return f.evaluate(ctx, doc, DemandWhole())
	}
	return f.evaluate(ctx, doc, Demand(*span))
}
