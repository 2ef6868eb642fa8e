package engine

import (
	"io"
	"log/slog"

	"github.com/roach88/consolemock/internal/callsite"
	"github.com/roach88/consolemock/internal/record"
)

// Reconciler pairs expected calls with actual calls in strict FIFO order.
//
// INVARIANTS:
//   - Between operations at most one of the two queues is non-empty.
//   - The N-th expectation is compared with the N-th actual call, whichever
//     side arrived first.
//   - A mismatch clears both queues before the error is returned.
//
// A Reconciler is not safe for concurrent use.
type Reconciler struct {
	expected *recordQueue
	received *recordQueue
	drain    DrainNotifier
	logger   *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for queue and match diagnostics.
// Everything is logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReconciler creates a reconciler with empty queues.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		expected: newRecordQueue(),
		received: newRecordQueue(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnActual handles a call the unit under test just made. If an expectation
// is pending, the oldest one is compared with it; otherwise the call is
// queued until an expectation arrives.
func (r *Reconciler) OnActual(actual record.Record) error {
	expected, ok := r.expected.Pop()
	if !ok {
		r.received.Push(actual)
		r.logger.Debug("call queued", "record", actual, "received", r.received.Len())
		return nil
	}

	if err := r.compare(expected, actual, false); err != nil {
		return err
	}
	if r.expected.Len() == 0 {
		r.drained()
	}
	return nil
}

// OnExpectation handles a call the test just declared. If an actual call is
// pending, the oldest one is compared with it; otherwise the expectation is
// queued until a call arrives.
func (r *Reconciler) OnExpectation(expected record.Record) error {
	actual, ok := r.received.Pop()
	if !ok {
		r.expected.Push(expected)
		r.logger.Debug("expectation queued", "record", expected, "expected", r.expected.Len())
		return nil
	}

	if err := r.compare(expected, actual, true); err != nil {
		return err
	}
	if r.received.Len() == 0 {
		r.drained()
	}
	return nil
}

// compare checks one expected/actual pair. hadReceived reports that the
// actual call was already pending when the expectation arrived.
func (r *Reconciler) compare(expected, actual record.Record, hadReceived bool) error {
	expectedForm := expected.Canonical()
	actualForm := actual.Canonical()

	if expectedForm == actualForm {
		r.logger.Debug("call matched", "record", actualForm)
		return nil
	}

	// Reset both sides so one divergence is reported once instead of
	// cascading through every later pair.
	r.expected.Clear()
	r.received.Clear()

	unique, removed := callsite.Diff(actual.Trace, expected.Trace)
	r.logger.Debug("call mismatched", "expected", expectedForm, "actual", actualForm)

	return &MismatchError{
		Code:                ErrCodeMismatch,
		Expected:            expectedForm,
		Actual:              actualForm,
		HadReceived:         hadReceived,
		ExpectedTrace:       unique,
		CommonFramesRemoved: removed,
		ActualTrace:         actual.Trace,
		NormalizationOnly:   record.NormalizationVariants(expectedForm, actualForm),
	}
}

func (r *Reconciler) drained() {
	r.logger.Debug("queues drained", "subscribers", r.drain.Pending())
	r.drain.Notify()
}

// OnceEmpty calls cb immediately if both queues are empty, otherwise the next
// time a match leaves both queues empty. Each registration fires once.
func (r *Reconciler) OnceEmpty(cb func()) {
	if r.Empty() {
		cb()
		return
	}
	r.drain.Subscribe(cb)
}

// Empty reports whether both queues are empty.
func (r *Reconciler) Empty() bool {
	return r.expected.Len() == 0 && r.received.Len() == 0
}

// Len returns the number of pending expected and received records.
func (r *Reconciler) Len() (expected, received int) {
	return r.expected.Len(), r.received.Len()
}

// Pending returns copies of both queues, front first.
func (r *Reconciler) Pending() (expected, received []record.Record) {
	return r.expected.Snapshot(), r.received.Snapshot()
}

// Flush returns both queues and leaves them empty.
func (r *Reconciler) Flush() (expected, received []record.Record) {
	expected, received = r.Pending()
	r.expected.Clear()
	r.received.Clear()
	return expected, received
}

// ClearSubscriptions drops pending OnceEmpty callbacks without firing them.
func (r *Reconciler) ClearSubscriptions() {
	r.drain.Clear()
}

// Reset empties both queues and drops every OnceEmpty callback.
func (r *Reconciler) Reset() {
	r.expected.Clear()
	r.received.Clear()
	r.drain.Clear()
}

// Finalize flushes both queues. Unless ignoreChecks is set, leftovers are
// reported as an UnreconciledError tagged with trace. The queues are empty
// afterwards either way; the flushed received records are returned so the
// caller can replay them.
func (r *Reconciler) Finalize(ignoreChecks bool, trace callsite.Trace) ([]record.Record, error) {
	expected, received := r.Flush()
	if ignoreChecks || (len(expected) == 0 && len(received) == 0) {
		return received, nil
	}

	r.logger.Debug("unreconciled records at finalize", "expected", len(expected), "received", len(received))
	return received, &UnreconciledError{
		Code:     ErrCodeUnreconciled,
		Received: canonicalForms(received),
		Expected: canonicalForms(expected),
		Trace:    trace,
	}
}

func canonicalForms(records []record.Record) []string {
	if len(records) == 0 {
		return nil
	}
	out := make([]string, len(records))
	for i, rec := range records {
		out[i] = rec.Canonical()
	}
	return out
}
