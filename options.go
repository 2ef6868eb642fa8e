package consolemock

import (
	"log/slog"
	"testing"
)

// FailFunc receives every reconciliation failure raised from a console call
// or an Expect method.
type FailFunc func(err error)

// Option configures a Mock.
type Option func(*Mock)

// WithVerbose forwards every intercepted call to the original console before
// it is reconciled. Applies to each session started by Install.
func WithVerbose(verbose bool) Option {
	return func(m *Mock) {
		m.defaultVerbose = verbose
	}
}

// WithLogger sets the logger for session and reconciliation diagnostics.
// Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mock) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFailFunc sets where failures go. Default: panic with the error.
func WithFailFunc(fail FailFunc) Option {
	return func(m *Mock) {
		if fail != nil {
			m.fail = fail
		}
	}
}

// WithT reports failures through t.Fatalf with the full diagnostic
// (canonical forms and call-site traces).
func WithT(t testing.TB) Option {
	return WithFailFunc(func(err error) {
		t.Helper()
		t.Fatalf("%+v", err)
	})
}

// WithIDGenerator sets the session id source. Default: UUIDv7Generator.
func WithIDGenerator(gen IDGenerator) Option {
	return func(m *Mock) {
		if gen != nil {
			m.ids = gen
		}
	}
}
