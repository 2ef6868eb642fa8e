package consolemock

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/consolemock/console"
	"github.com/roach88/consolemock/internal/engine"
)

// newTestMock installs a mock on a private slot whose original console is a
// Recorder. Failures are collected instead of panicking.
func newTestMock(t *testing.T, opts ...Option) (*Mock, *console.Slot, *console.Recorder, *[]error) {
	t.Helper()

	rec := console.NewRecorder()
	slot := console.NewSlot(rec)
	var failures []error
	opts = append([]Option{
		WithFailFunc(func(err error) { failures = append(failures, err) }),
		WithIDGenerator(NewFixedIDGenerator("session-1", "session-2")),
	}, opts...)

	m := New(opts...)
	m.Install(slot)
	return m, slot, rec, &failures
}

func TestMock_ExpectationBeforeCall(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.ExpectLog("hello", 1)
	m.Log("hello", 1)

	assert.Empty(t, *failures)
	require.NoError(t, m.Uninstall(false))
}

func TestMock_CallBeforeExpectation(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.Warn("a")
	m.Error("b")
	m.ExpectWarn("a")
	m.ExpectError("b")

	assert.Empty(t, *failures)
	require.NoError(t, m.Uninstall(false))
}

func TestMock_InterleavedOrder(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.ExpectInfo("one")
	m.Info("one")
	m.Info("two")
	m.ExpectInfo("two")
	m.ExpectDebug("three")
	m.Debug("three")

	assert.Empty(t, *failures)
	require.NoError(t, m.Uninstall(false))
}

func TestMock_SeverityMismatch(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.ExpectLog("x")
	m.Warn("x")

	require.Len(t, *failures, 1)
	var mismatch *engine.MismatchError
	require.True(t, errors.As((*failures)[0], &mismatch))
	assert.Equal(t, `{"type":"log","arguments":["x"]}`, mismatch.Expected)
	assert.Equal(t, `{"type":"warn","arguments":["x"]}`, mismatch.Actual)
	assert.False(t, mismatch.HadReceived)

	// Both queues are reset after a mismatch.
	e, r := m.Pending()
	assert.Zero(t, e)
	assert.Zero(t, r)
	require.NoError(t, m.Uninstall(false))
}

func TestMock_ArgumentsCompareByCanonicalForm(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.ExpectLog("1")
	m.Log(1)
	m.ExpectDir(map[string]int{"b": 2, "a": 1})
	m.Dir(map[string]int{"a": 1, "b": 2})

	assert.Empty(t, *failures)
	require.NoError(t, m.Uninstall(false))
}

func TestMock_ArityMismatch(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.Log("a", "b")
	m.ExpectLog("a")

	require.Len(t, *failures, 1)
	assert.True(t, engine.IsMismatch((*failures)[0]))
	assert.Contains(t, (*failures)[0].Error(), "But had received message:")
}

func TestMock_TracesStartAtCaller(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.ExpectLog("expected")
	m.Log("actual")

	require.Len(t, *failures, 1)
	var mismatch *engine.MismatchError
	require.True(t, errors.As((*failures)[0], &mismatch))

	const self = "consolemock.TestMock_TracesStartAtCaller"
	require.NotEmpty(t, mismatch.ActualTrace)
	require.NotEmpty(t, mismatch.ExpectedTrace)
	assert.True(t, strings.HasSuffix(mismatch.ActualTrace[0].Function, self), mismatch.ActualTrace[0].Function)
	assert.True(t, strings.HasSuffix(mismatch.ExpectedTrace[0].Function, self), mismatch.ExpectedTrace[0].Function)

	// Only the test frame differs; the frames below it are shared.
	assert.Len(t, mismatch.ExpectedTrace, 1)
	assert.True(t, mismatch.CommonFramesRemoved)

	full := fmt.Sprintf("%+v", mismatch)
	assert.Contains(t, full, "Expected:\n")
	assert.Contains(t, full, "(...common frames removed)")
	assert.Contains(t, full, "Received:\n")
}

func TestMock_UninstallReportsLeftovers(t *testing.T) {
	m, slot, rec, _ := newTestMock(t)

	m.Log("unexpected")
	m.Info("unexpected too")

	err := m.Uninstall(false)
	require.Error(t, err)
	assert.True(t, engine.IsUnreconciled(err))
	assert.Contains(t, err.Error(), "Messages received but not expected:")
	assert.Contains(t, err.Error(), `0: {"type":"log","arguments":["unexpected"]}`)
	assert.Contains(t, err.Error(), `1: {"type":"info","arguments":["unexpected too"]}`)

	var unreconciled *engine.UnreconciledError
	require.True(t, errors.As(err, &unreconciled))
	require.NotEmpty(t, unreconciled.Trace)
	assert.True(t, strings.HasSuffix(unreconciled.Trace[0].Function, "consolemock.TestMock_UninstallReportsLeftovers"))

	assert.True(t, slot.Is(rec))
	assert.False(t, m.Active())
	assert.Empty(t, rec.Calls())
}

func TestMock_UninstallReportsMissingExpectations(t *testing.T) {
	m, _, _, _ := newTestMock(t)

	m.ExpectError("never logged")

	err := m.Uninstall(false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Messages expected but not received:")
	assert.NotContains(t, err.Error(), "Messages received but not expected:")
}

func TestMock_UninstallIgnoringChecksReplays(t *testing.T) {
	m, slot, rec, failures := newTestMock(t)

	m.Log("first", 1)
	m.Warn("second")

	require.NoError(t, m.Uninstall(true))
	assert.Empty(t, *failures)
	assert.True(t, slot.Is(rec))
	assert.Equal(t, []console.Call{
		{Severity: console.SeverityLog, Args: []any{"first", 1}},
		{Severity: console.SeverityWarn, Args: []any{"second"}},
	}, rec.Calls())

	e, r := m.Pending()
	assert.Zero(t, e)
	assert.Zero(t, r)
}

func TestMock_UninstallIdentityGuard(t *testing.T) {
	m, slot, _, _ := newTestMock(t)
	other := console.NewRecorder()

	m.Log("pending")
	slot.Swap(other)

	require.NoError(t, m.Uninstall(false))
	assert.True(t, slot.Is(other))

	// The session was not touched.
	_, r := m.Pending()
	assert.Equal(t, 1, r)
}

func TestMock_UninstallWithoutInstallIsNoop(t *testing.T) {
	m := New()
	assert.NoError(t, m.Uninstall(false))
	assert.False(t, m.Active())
}

func TestMock_ReinstallResetsSession(t *testing.T) {
	m, slot, rec, _ := newTestMock(t)
	assert.Equal(t, "session-1", m.SessionID())

	m.Log("left over")
	m.ExpectWarn("ignored")
	m.Install(slot)

	assert.Equal(t, "session-2", m.SessionID())
	e, r := m.Pending()
	assert.Zero(t, e)
	assert.Zero(t, r)

	require.NoError(t, m.Uninstall(false))
	assert.True(t, slot.Is(rec))
	assert.Empty(t, m.SessionID())
}

func TestMock_InstallOnAnotherSlotRestoresFirst(t *testing.T) {
	m, first, rec, _ := newTestMock(t)
	second := console.NewSlot(console.NewRecorder())

	m.Log("replayed")
	m.Install(second)

	assert.True(t, first.Is(rec))
	assert.True(t, second.Is(m))
	assert.Equal(t, []console.Call{{Severity: console.SeverityLog, Args: []any{"replayed"}}}, rec.Calls())
	require.NoError(t, m.Uninstall(false))
}

func TestMock_InstallNilUsesGlobal(t *testing.T) {
	previous := console.Global().Load()
	m := Install(nil, WithFailFunc(func(error) {}))
	assert.True(t, console.Global().Is(m))

	require.NoError(t, m.Uninstall(false))
	assert.True(t, console.Global().Is(previous))
}

func TestMock_VerboseEchoesToOriginal(t *testing.T) {
	m, _, rec, failures := newTestMock(t, WithVerbose(true))

	m.ExpectInfo("seen")
	m.Info("seen")

	assert.Empty(t, *failures)
	assert.Equal(t, []console.Call{{Severity: console.SeverityInfo, Args: []any{"seen"}}}, rec.Calls())

	m.SetVerbose(false)
	m.Log("quiet")
	assert.Len(t, rec.Calls(), 1)

	require.NoError(t, m.Uninstall(true))
}

func TestMock_VerboseOffByDefault(t *testing.T) {
	m, _, rec, _ := newTestMock(t)

	m.Log("quiet")
	assert.Empty(t, rec.Calls())
	m.ExpectLog("quiet")
	require.NoError(t, m.Uninstall(false))
}

func TestMock_OnceEmpty(t *testing.T) {
	m, _, _, _ := newTestMock(t)

	immediate := false
	m.OnceEmpty(func() { immediate = true })
	assert.True(t, immediate)

	fired := 0
	m.ExpectLog("a")
	m.ExpectLog("b")
	m.OnceEmpty(func() { fired++ })

	m.Log("a")
	assert.Equal(t, 0, fired)
	m.Log("b")
	assert.Equal(t, 1, fired)

	m.ExpectLog("c")
	m.Log("c")
	assert.Equal(t, 1, fired)

	require.NoError(t, m.Uninstall(false))
}

func TestMock_UninstallDropsOnceEmptyCallbacks(t *testing.T) {
	m, _, _, _ := newTestMock(t)

	fired := false
	m.ExpectLog("never")
	m.OnceEmpty(func() { fired = true })

	require.NoError(t, m.Uninstall(true))
	assert.False(t, fired)
}

func TestMock_DefaultFailurePanics(t *testing.T) {
	m := New()
	m.ExpectLog("a")

	assert.PanicsWithError(t,
		"Log error, expected message:\n> {\"type\":\"log\",\"arguments\":[\"a\"]}\nBut received message:\n> {\"type\":\"log\",\"arguments\":[\"b\"]}",
		func() { m.Log("b") })
}

func TestMock_VerifyWithoutInstall(t *testing.T) {
	m := New()

	m.Assert(false, "broken")
	m.ExpectAssert(false, "broken")
	assert.NoError(t, m.Verify())

	m.Exception("late")
	err := m.Verify()
	require.Error(t, err)
	assert.True(t, engine.IsUnreconciled(err))
}

func TestMock_AllSeverities(t *testing.T) {
	m, _, _, failures := newTestMock(t)

	m.Log(1)
	m.Trace(2)
	m.Warn(3)
	m.Error(4)
	m.Info(5)
	m.Exception(6)
	m.Dirxml(7)
	m.Dir(8)
	m.Debug(9)
	m.Assert(10)

	m.ExpectLog(1)
	m.ExpectTrace(2)
	m.ExpectWarn(3)
	m.ExpectError(4)
	m.ExpectInfo(5)
	m.ExpectException(6)
	m.ExpectDirxml(7)
	m.ExpectDir(8)
	m.ExpectDebug(9)
	m.ExpectAssert(10)

	assert.Empty(t, *failures)
	require.NoError(t, m.Uninstall(false))
}

type fakeT struct {
	testing.TB
	fatals  []string
	errs    []string
	cleanup []func()
}

func (f *fakeT) Helper() {}

func (f *fakeT) Fatalf(format string, args ...any) {
	f.fatals = append(f.fatals, fmt.Sprintf(format, args...))
}

func (f *fakeT) Errorf(format string, args ...any) {
	f.errs = append(f.errs, fmt.Sprintf(format, args...))
}

func (f *fakeT) Cleanup(fn func()) { f.cleanup = append(f.cleanup, fn) }

func TestWithT_ReportsFullDiagnostic(t *testing.T) {
	ft := &fakeT{TB: t}
	m := New(WithT(ft))

	m.ExpectLog("a")
	m.Log("b")

	require.Len(t, ft.fatals, 1)
	assert.Contains(t, ft.fatals[0], "Log error, expected message:")
	assert.Contains(t, ft.fatals[0], "Received:\n")
}

func TestStart_ChecksAtCleanup(t *testing.T) {
	ft := &fakeT{TB: t}
	previous := console.Global().Load()

	m := Start(ft)
	assert.True(t, m.Active())
	console.Warn("left over")

	require.Len(t, ft.cleanup, 1)
	ft.cleanup[0]()

	require.Len(t, ft.errs, 1)
	assert.Contains(t, ft.errs[0], "Messages received but not expected:")
	assert.True(t, console.Global().Is(previous))
}

func TestStart_PassingSession(t *testing.T) {
	m := Start(t)

	m.ExpectLog("ready", 3)
	console.Log("ready", 3)
}
