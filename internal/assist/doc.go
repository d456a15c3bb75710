// Package assist decides when an automatic formatting pass should run for a
// live editing session and which minimal span it should touch. It gates and
// scopes calls into the layout engine; it never computes whitespace itself.
//
// Every trigger evaluation is stateless: it reads an immutable document
// snapshot, consults its services, and returns the engine's edits or nothing.
// A service that cannot be reached silently produces "no edits" — automatic
// formatting must never surface failures to the user. Only context
// cancellation propagates as an error.
package assist
