package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/consolemock/internal/record"
)

// Assertion validates the trace after a scenario ran.
type Assertion struct {
	// Type specifies the assertion type:
	// - "trace_contains": an event of Kind with the canonical form of Call exists
	// - "trace_order": events of Kind carrying Calls appear in that order
	// - "trace_count": exactly Count events of Kind exist (matching Call if set)
	Type string `yaml:"type" json:"type"`

	// Kind is the trace event kind. Defaults to "emit".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`

	// Call is used by trace_contains and optionally trace_count.
	Call *Call `yaml:"call,omitempty" json:"call,omitempty"`

	// Calls is the expected order (used by trace_order).
	Calls []Call `yaml:"calls,omitempty" json:"calls,omitempty"`

	// Count is the expected number of events (used by trace_count).
	Count int `yaml:"count,omitempty" json:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %s\n", event.Seq, event.Kind, event.Canonical)
	}

	return buf.String()
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Call == nil {
			return fmt.Errorf("assertions[%d]: call is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Calls) == 0 {
			return fmt.Errorf("assertions[%d]: calls list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Call != nil {
		if err := validateCall(a.Call); err != nil {
			return fmt.Errorf("assertions[%d].call: %w", index, err)
		}
	}
	for j := range a.Calls {
		if err := validateCall(&a.Calls[j]); err != nil {
			return fmt.Errorf("assertions[%d].calls[%d]: %w", index, j, err)
		}
	}
	return nil
}

// canonicalOf renders a scenario call the way the mock compares it.
func canonicalOf(c *Call) string {
	sev, err := c.Severity()
	if err != nil {
		return ""
	}
	return record.New(sev, c.Args, nil).Canonical()
}

func (a *Assertion) kind() string {
	if a.Kind == "" {
		return KindEmit
	}
	return a.Kind
}

func assertTraceContains(trace []TraceEvent, a Assertion) error {
	want := canonicalOf(a.Call)
	for _, event := range trace {
		if event.Kind == a.kind() && event.Canonical == want {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s event %s", a.kind(), want),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the calls appear in order among events of the
// assertion's kind. Intervening events are allowed.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next == len(a.Calls) {
			break
		}
		if event.Kind == a.kind() && event.Canonical == canonicalOf(&a.Calls[next]) {
			next++
		}
	}

	if next < len(a.Calls) {
		return &AssertionError{
			Type:     AssertTraceOrder,
			Expected: fmt.Sprintf("%d %s events in order", len(a.Calls), a.kind()),
			Actual:   fmt.Sprintf("missing or out of order: %s", canonicalOf(&a.Calls[next])),
			Trace:    trace,
		}
	}
	return nil
}

func assertTraceCount(trace []TraceEvent, a Assertion) error {
	want := ""
	if a.Call != nil {
		want = canonicalOf(a.Call)
	}

	count := 0
	for _, event := range trace {
		if event.Kind == a.kind() && (want == "" || event.Canonical == want) {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s events", a.Count, a.kind()),
			Actual:   fmt.Sprintf("%d events", count),
			Trace:    trace,
		}
	}
	return nil
}

// EvaluateAssertions checks all assertions and returns failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
