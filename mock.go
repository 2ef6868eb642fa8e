package consolemock

import (
	"io"
	"log/slog"

	"github.com/roach88/consolemock/console"
	"github.com/roach88/consolemock/internal/callsite"
	"github.com/roach88/consolemock/internal/engine"
	"github.com/roach88/consolemock/internal/record"
)

// Frames trimmed from captured traces so they start at the caller of the
// public method. The console path is one layer deeper than the expectation
// path: <console method> -> intercept -> onActual, versus
// Expect<Severity> -> onExpectation.
const (
	actualSkip      = 3
	expectationSkip = 2
	uninstallSkip   = 1
)

// Mock is a console that reconciles the calls it receives against
// expectations declared by the test.
//
// A Mock is not safe for concurrent use: calls are reconciled in exactly the
// order they are made.
type Mock struct {
	engine *engine.Reconciler

	slot     *console.Slot
	original console.Console
	verbose  bool

	sessionID string

	defaultVerbose bool
	ids            IDGenerator
	logger         *slog.Logger
	fail           FailFunc
}

var _ console.Console = (*Mock)(nil)

// New creates an inactive mock.
func New(opts ...Option) *Mock {
	m := &Mock{
		ids:    UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		fail:   func(err error) { panic(err) },
	}
	for _, opt := range opts {
		opt(m)
	}
	m.engine = engine.NewReconciler(engine.WithLogger(m.logger))
	return m
}

// Install creates a mock and installs it on slot. A nil slot means the
// global slot. The caller owns the returned mock and must Uninstall it.
func Install(slot *console.Slot, opts ...Option) *Mock {
	m := New(opts...)
	m.Install(slot)
	return m
}

// Install saves slot's active console, starts a fresh session and makes the
// mock the active console. A nil slot means console.Global().
//
// Installing again on the slot the mock is already active on resets the
// session and keeps the saved original. Installing on a different slot first
// uninstalls from the old one without checks.
func (m *Mock) Install(slot *console.Slot) {
	if slot == nil {
		slot = console.Global()
	}

	if m.slot != nil && m.slot.Is(m) {
		if m.slot == slot {
			m.startSession()
			return
		}
		_ = m.Uninstall(true)
	}

	m.original = slot.Swap(m)
	m.slot = slot
	m.startSession()
}

func (m *Mock) startSession() {
	m.engine.Reset()
	m.verbose = m.defaultVerbose
	m.sessionID = m.ids.Generate()
	m.logger.Debug("console mock installed", "session", m.sessionID, "verbose", m.verbose)
}

// Uninstall restores the original console and ends the session.
//
// If the slot's active console is no longer this mock, Uninstall does
// nothing. With ignoreChecks false, leftover expected or received calls are
// returned as an *engine.UnreconciledError tagged with the caller's trace.
// With ignoreChecks true, received calls are replayed in order to the
// restored console and no error is ever returned. Both queues are empty
// afterwards either way.
func (m *Mock) Uninstall(ignoreChecks bool) error {
	if m.slot == nil || !m.slot.CompareAndSwap(m, m.original) {
		return nil
	}

	original := m.original
	session := m.sessionID
	m.slot = nil
	m.original = nil
	m.verbose = false
	m.sessionID = ""
	m.engine.ClearSubscriptions()

	var trace callsite.Trace
	if !ignoreChecks {
		trace = callsite.Capture(uninstallSkip)
	}

	received, err := m.engine.Finalize(ignoreChecks, trace)
	if ignoreChecks {
		for _, rec := range received {
			console.Dispatch(original, rec.Severity, rec.Args...)
		}
		m.logger.Debug("console mock uninstalled", "session", session, "replayed", len(received))
		return nil
	}

	m.logger.Debug("console mock uninstalled", "session", session, "error", err)
	return err
}

// Verify reports leftover calls the same way a checked Uninstall does, without
// touching any slot. Use it when the mock is passed to the code under test
// directly instead of being installed.
func (m *Mock) Verify() error {
	_, err := m.engine.Finalize(false, callsite.Capture(1))
	return err
}

// OnceEmpty calls cb now if nothing is pending, otherwise the next time a
// match leaves both queues empty. Each registration fires once.
func (m *Mock) OnceEmpty(cb func()) {
	m.engine.OnceEmpty(cb)
}

// SetVerbose turns forwarding to the original console on or off for the
// current session.
func (m *Mock) SetVerbose(verbose bool) {
	m.verbose = verbose
}

// Active reports whether the mock is the active console of the slot it was
// installed on.
func (m *Mock) Active() bool {
	return m.slot != nil && m.slot.Is(m)
}

// SessionID returns the id of the current session, or "" when not installed.
func (m *Mock) SessionID() string {
	return m.sessionID
}

// Pending returns how many expected and received calls are waiting.
func (m *Mock) Pending() (expected, received int) {
	return m.engine.Len()
}

func (m *Mock) intercept(sev console.Severity, args []any) {
	if m.verbose && m.original != nil {
		console.Dispatch(m.original, sev, args...)
	}
	m.onActual(sev, args)
}

func (m *Mock) onActual(sev console.Severity, args []any) {
	rec := record.New(sev, args, callsite.Capture(actualSkip))
	if err := m.engine.OnActual(rec); err != nil {
		m.report(err)
	}
}

func (m *Mock) onExpectation(sev console.Severity, args []any) {
	rec := record.New(sev, args, callsite.Capture(expectationSkip))
	if err := m.engine.OnExpectation(rec); err != nil {
		m.report(err)
	}
}

func (m *Mock) report(err error) {
	m.logger.Debug("reconciliation failed", "session", m.sessionID, "error", err)
	m.fail(err)
}

// Console methods.

func (m *Mock) Log(args ...any)       { m.intercept(console.SeverityLog, args) }
func (m *Mock) Trace(args ...any)     { m.intercept(console.SeverityTrace, args) }
func (m *Mock) Warn(args ...any)      { m.intercept(console.SeverityWarn, args) }
func (m *Mock) Error(args ...any)     { m.intercept(console.SeverityError, args) }
func (m *Mock) Info(args ...any)      { m.intercept(console.SeverityInfo, args) }
func (m *Mock) Exception(args ...any) { m.intercept(console.SeverityException, args) }
func (m *Mock) Dirxml(args ...any)    { m.intercept(console.SeverityDirxml, args) }
func (m *Mock) Dir(args ...any)       { m.intercept(console.SeverityDir, args) }
func (m *Mock) Debug(args ...any)     { m.intercept(console.SeverityDebug, args) }
func (m *Mock) Assert(args ...any)    { m.intercept(console.SeverityAssert, args) }

// Expect declares the next call the code under test must make. It is the
// severity-generic form of the Expect<Severity> methods.
func (m *Mock) Expect(sev console.Severity, args ...any) {
	m.onExpectation(sev, args)
}

// Expectations, one per catalog severity.

func (m *Mock) ExpectLog(args ...any)       { m.onExpectation(console.SeverityLog, args) }
func (m *Mock) ExpectTrace(args ...any)     { m.onExpectation(console.SeverityTrace, args) }
func (m *Mock) ExpectWarn(args ...any)      { m.onExpectation(console.SeverityWarn, args) }
func (m *Mock) ExpectError(args ...any)     { m.onExpectation(console.SeverityError, args) }
func (m *Mock) ExpectInfo(args ...any)      { m.onExpectation(console.SeverityInfo, args) }
func (m *Mock) ExpectException(args ...any) { m.onExpectation(console.SeverityException, args) }
func (m *Mock) ExpectDirxml(args ...any)    { m.onExpectation(console.SeverityDirxml, args) }
func (m *Mock) ExpectDir(args ...any)       { m.onExpectation(console.SeverityDir, args) }
func (m *Mock) ExpectDebug(args ...any)     { m.onExpectation(console.SeverityDebug, args) }
func (m *Mock) ExpectAssert(args ...any)    { m.onExpectation(console.SeverityAssert, args) }
