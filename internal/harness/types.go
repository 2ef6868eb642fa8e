package harness

// Trace event kinds.
const (
	KindExpect      = "expect"      // expectation declared
	KindEmit        = "emit"        // call made through the slot
	KindDrain       = "drain"       // OnceEmpty callback fired
	KindEcho        = "echo"        // verbose forward to the original console
	KindReplay      = "replay"      // received call replayed by an unchecked uninstall
	KindPassthrough = "passthrough" // call reached the original console with no mock installed
	KindUninstall   = "uninstall"   // session ended
	KindFailure     = "failure"     // mismatch or unreconciled error raised
)

// TraceEvent is one observable effect of a scenario step.
type TraceEvent struct {
	Seq       int64  `json:"seq"`
	Step      int    `json:"step"`
	Kind      string `json:"kind"`
	Type      string `json:"type,omitempty"`
	Canonical string `json:"canonical,omitempty"`
	Label     string `json:"label,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every step raised exactly the declared failures and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace contains every event in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// SessionID is the id of the session the scenario ran in.
	SessionID string `json:"session_id"`

	// Replayed counts calls forwarded to the original console by an
	// unchecked uninstall.
	Replayed int `json:"replayed"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// addEvent appends an event to the trace.
func (r *Result) addEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
