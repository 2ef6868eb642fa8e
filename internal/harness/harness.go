package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/consolemock"
	"github.com/roach88/consolemock/console"
	"github.com/roach88/consolemock/internal/engine"
	"github.com/roach88/consolemock/internal/record"
	"github.com/roach88/consolemock/internal/testutil"
)

// Harness executes one scenario. It owns a mock installed on a private slot
// whose original console is a Recorder, so every call that reaches the
// original console shows up in the trace.
type Harness struct {
	mock     *consolemock.Mock
	slot     *console.Slot
	original *console.Recorder
	seq      *testutil.Sequence
	logger   *slog.Logger

	result  *Result
	step    int
	seen    int   // recorder calls already traced
	failure error // last failure handed to the mock's FailFunc
}

// Option configures a scenario run.
type Option func(*Harness)

// WithLogger sets the logger used by the harness and the mock under test.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh mock and slot. A fixed session id and a
// deterministic sequence make the trace reproducible for golden comparison.
//
// Execution flow:
//  1. Install a mock on a private recording slot
//  2. Execute steps, checking each raises exactly its declared failure
//  3. Finish with a strict uninstall if the scenario left the mock installed
//  4. Evaluate assertions against the trace
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	slot, original := testutil.NewRecordingSlot()
	h := &Harness{
		slot:     slot,
		original: original,
		seq:      testutil.NewSequence(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		result:   NewResult(),
	}
	for _, opt := range opts {
		opt(h)
	}

	h.mock = consolemock.New(
		consolemock.WithVerbose(scenario.Verbose),
		consolemock.WithIDGenerator(testutil.NewFixedSession(scenario.SessionID)),
		consolemock.WithLogger(h.logger),
		consolemock.WithFailFunc(func(err error) { h.failure = err }),
	)
	h.mock.Install(slot)
	h.result.SessionID = h.mock.SessionID()
	h.logger.Debug("scenario started", "scenario", scenario.Name, "session", h.result.SessionID)

	for i, step := range scenario.Steps {
		h.step = i
		if err := h.executeStep(step); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	if h.mock.Active() {
		h.step = len(scenario.Steps)
		err := h.mock.Uninstall(false)
		h.traceOriginal(KindReplay)
		if err != nil {
			h.traceFailure(err)
			h.result.AddError(fmt.Sprintf("scenario ended with unreconciled calls: %v", err))
		}
	}

	for _, msg := range EvaluateAssertions(h.result, scenario.Assertions) {
		h.result.AddError(msg)
	}

	h.logger.Debug("scenario finished", "scenario", scenario.Name, "pass", h.result.Pass)
	return h.result, nil
}

// executeStep runs one step and checks the failure it raised against the
// declared one.
func (h *Harness) executeStep(step Step) error {
	h.failure = nil
	passthrough := KindEcho
	if !h.mock.Active() {
		passthrough = KindPassthrough
	}

	switch {
	case step.Expect != nil:
		sev, err := step.Expect.Severity()
		if err != nil {
			return err
		}
		h.traceCall(KindExpect, step.Expect)
		h.mock.Expect(sev, step.Expect.Args...)

	case step.Emit != nil:
		sev, err := step.Emit.Severity()
		if err != nil {
			return err
		}
		h.traceCall(KindEmit, step.Emit)
		console.Dispatch(h.slot.Load(), sev, step.Emit.Args...)
		h.traceOriginal(passthrough)

	case step.OnceEmpty != "":
		label := step.OnceEmpty
		h.mock.OnceEmpty(func() {
			// Drains only happen while installed, so anything pending on the
			// original console is an echo of the call that drained.
			h.traceOriginal(KindEcho)
			h.result.addEvent(TraceEvent{Seq: h.seq.Next(), Step: h.step, Kind: KindDrain, Label: label})
		})

	case step.Uninstall != nil:
		h.result.addEvent(TraceEvent{Seq: h.seq.Next(), Step: h.step, Kind: KindUninstall})
		before := h.original.Calls()
		if err := h.mock.Uninstall(step.Uninstall.IgnoreChecks); err != nil {
			h.failure = err
		}
		h.result.Replayed += len(h.original.Calls()) - len(before)
		h.traceOriginal(KindReplay)

	default:
		return fmt.Errorf("step has no action")
	}

	got := ErrorNone
	if h.failure != nil {
		got = errorKind(h.failure)
		h.traceFailure(h.failure)
	}
	if got != step.Error {
		h.result.AddError(fmt.Sprintf("step %d: expected error %q, got %q", h.step, step.Error, got))
		if h.failure != nil {
			h.result.AddError(h.failure.Error())
		}
	}
	return nil
}

func (h *Harness) traceCall(kind string, c *Call) {
	sev, _ := c.Severity()
	h.result.addEvent(TraceEvent{
		Seq:       h.seq.Next(),
		Step:      h.step,
		Kind:      kind,
		Type:      sev.String(),
		Canonical: canonicalOf(c),
	})
}

// traceOriginal records calls that reached the original console since the
// last time it was traced.
func (h *Harness) traceOriginal(kind string) {
	calls := h.original.Calls()
	for _, call := range calls[h.seen:] {
		h.result.addEvent(TraceEvent{
			Seq:       h.seq.Next(),
			Step:      h.step,
			Kind:      kind,
			Type:      call.Severity.String(),
			Canonical: record.New(call.Severity, call.Args, nil).Canonical(),
		})
	}
	h.seen = len(calls)
}

func (h *Harness) traceFailure(err error) {
	h.result.addEvent(TraceEvent{
		Seq:   h.seq.Next(),
		Step:  h.step,
		Kind:  KindFailure,
		Error: errorKind(err),
	})
}

func errorKind(err error) string {
	switch {
	case engine.IsMismatch(err):
		return ErrorMismatch
	case engine.IsUnreconciled(err):
		return ErrorUnreconciled
	default:
		return err.Error()
	}
}
