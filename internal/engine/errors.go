package engine

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/consolemock/internal/callsite"
)

// ReconcileErrorCode categorizes reconciliation failures.
type ReconcileErrorCode string

const (
	// ErrCodeMismatch indicates an expectation and an actual call were paired
	// but their canonical forms differ.
	ErrCodeMismatch ReconcileErrorCode = "MISMATCH"

	// ErrCodeUnreconciled indicates records were still pending when the
	// session was finalized.
	ErrCodeUnreconciled ReconcileErrorCode = "UNRECONCILED"
)

// MismatchError is returned when the head of one queue does not match the
// record that just arrived on the other side.
//
// Error() carries the two canonical forms. Formatting with %+v appends the
// call-site traces: the expectation's trace with frames shared with the
// actual call removed, then the actual call's full trace.
type MismatchError struct {
	Code ReconcileErrorCode

	// Expected and Actual are canonical forms.
	Expected string
	Actual   string

	// HadReceived is true when the actual call was already pending and the
	// expectation arrived second.
	HadReceived bool

	// ExpectedTrace holds only the frames unique to the expectation.
	ExpectedTrace callsite.Trace

	// CommonFramesRemoved reports whether Diff dropped any expected frames.
	CommonFramesRemoved bool

	ActualTrace callsite.Trace

	// NormalizationOnly is set when the two forms differ only in Unicode
	// normalization, for example a decomposed and a precomposed accent.
	NormalizationOnly bool
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	received := "But received message:"
	if e.HadReceived {
		received = "But had received message:"
	}
	return fmt.Sprintf("Log error, expected message:\n> %s\n%s\n> %s", e.Expected, received, e.Actual)
}

// Format supports %+v for the full diagnostic including traces.
func (e *MismatchError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		io.WriteString(s, e.Error())
		if s.Flag('+') {
			fmt.Fprintf(s, "\nExpected:\n%s\nReceived:\n%s",
				callsite.Format(e.ExpectedTrace, e.CommonFramesRemoved),
				e.ActualTrace.String())
			if e.NormalizationOnly {
				io.WriteString(s, "\nThe messages differ only in Unicode normalization.")
			}
		}
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

// UnreconciledError is returned by a checked finalize when expected or
// received records are left over. Entries are canonical forms in queue order.
type UnreconciledError struct {
	Code     ReconcileErrorCode
	Received []string
	Expected []string

	// Trace is the call site that finalized the session.
	Trace callsite.Trace
}

// Error implements the error interface.
func (e *UnreconciledError) Error() string {
	var sections []string
	if len(e.Received) > 0 {
		sections = append(sections, listing("Messages received but not expected:", e.Received))
	}
	if len(e.Expected) > 0 {
		sections = append(sections, listing("Messages expected but not received:", e.Expected))
	}
	return strings.Join(sections, "\n")
}

// Format supports %+v to append the finalizing call site.
func (e *UnreconciledError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		io.WriteString(s, e.Error())
		if s.Flag('+') && len(e.Trace) > 0 {
			fmt.Fprintf(s, "\n%s", e.Trace.String())
		}
	case 's':
		io.WriteString(s, e.Error())
	case 'q':
		fmt.Fprintf(s, "%q", e.Error())
	}
}

func listing(header string, entries []string) string {
	var buf strings.Builder
	buf.WriteString(header)
	for i, entry := range entries {
		fmt.Fprintf(&buf, "\n%d: %s", i, entry)
	}
	return buf.String()
}

// IsMismatch returns true if err is, or wraps, a MismatchError.
func IsMismatch(err error) bool {
	var me *MismatchError
	return errors.As(err, &me)
}

// IsUnreconciled returns true if err is, or wraps, an UnreconciledError.
func IsUnreconciled(err error) bool {
	var ue *UnreconciledError
	return errors.As(err, &ue)
}
