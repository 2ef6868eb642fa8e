package console

import "sync"

// Call is one call captured by a Recorder.
type Call struct {
	Severity Severity
	Args     []any
}

// Recorder is a Console that keeps every call in memory.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(sev Severity, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Severity: sev, Args: append([]any(nil), args...)})
}

// Calls returns a copy of the recorded calls in call order.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}

func (r *Recorder) Log(args ...any)       { r.record(SeverityLog, args) }
func (r *Recorder) Trace(args ...any)     { r.record(SeverityTrace, args) }
func (r *Recorder) Warn(args ...any)      { r.record(SeverityWarn, args) }
func (r *Recorder) Error(args ...any)     { r.record(SeverityError, args) }
func (r *Recorder) Info(args ...any)      { r.record(SeverityInfo, args) }
func (r *Recorder) Exception(args ...any) { r.record(SeverityException, args) }
func (r *Recorder) Dirxml(args ...any)    { r.record(SeverityDirxml, args) }
func (r *Recorder) Dir(args ...any)       { r.record(SeverityDir, args) }
func (r *Recorder) Debug(args ...any)     { r.record(SeverityDebug, args) }
func (r *Recorder) Assert(args ...any)    { r.record(SeverityAssert, args) }
