package consolemock

import (
	"testing"

	"github.com/roach88/consolemock/console"
)

// Start installs a mock on the global slot for the duration of a test.
//
// Failures raised by console calls or expectations stop the test through
// t.Fatalf. At cleanup the mock is uninstalled with checks and leftover calls
// are reported through t.Errorf.
func Start(t testing.TB, opts ...Option) *Mock {
	t.Helper()

	m := New(append([]Option{WithT(t)}, opts...)...)
	m.Install(console.Global())
	t.Cleanup(func() {
		if err := m.Uninstall(false); err != nil {
			t.Errorf("%+v", err)
		}
	})
	return m
}
