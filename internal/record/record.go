// Package record defines the call record shared by the reconciliation engine
// and its canonical, comparison-stable serialization.
//
// A Record is created when a console call is intercepted or an expectation
// is declared, and never changes afterwards. Two records are the same call
// exactly when their canonical forms are byte-identical; no other equality
// is used anywhere in consolemock.
package record

import (
	"log/slog"

	"github.com/roach88/consolemock/console"
	"github.com/roach88/consolemock/internal/callsite"
)

// Record is one console call, actual or expected.
type Record struct {
	Severity console.Severity
	Args     []any
	Trace    callsite.Trace
}

// New creates a record. The argument slice is copied so later mutation by
// the caller cannot change a queued record.
func New(sev console.Severity, args []any, trace callsite.Trace) Record {
	return Record{
		Severity: sev,
		Args:     append([]any(nil), args...),
		Trace:    trace,
	}
}

// Canonical returns the canonical form as a string.
func (r Record) Canonical() string {
	return string(MarshalCanonical(r))
}

// LogValue renders the record as its canonical form. Serialization only
// happens when a handler actually emits the attribute.
func (r Record) LogValue() slog.Value {
	return slog.StringValue(r.Canonical())
}
