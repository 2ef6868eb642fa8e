package testutil

import "github.com/roach88/consolemock/console"

// DefaultSessionID is used by FixedSession when no id is configured.
const DefaultSessionID = "test-session-default"

// FixedSession returns the same session id on every Install.
//
// The id is typically set in the scenario file:
//
//	session_id: "scenario-0001"
//
// Thread-safety: FixedSession is immutable and safe for concurrent use.
type FixedSession struct {
	id string
}

// NewFixedSession creates a generator for id, or DefaultSessionID if id is
// empty.
func NewFixedSession(id string) *FixedSession {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedSession{id: id}
}

// Generate returns the fixed id.
func (g *FixedSession) Generate() string {
	return g.id
}

// NewRecordingSlot returns a private slot whose active console is a fresh
// Recorder, so tests can install a mock without touching the global slot and
// inspect what reaches the original console.
func NewRecordingSlot() (*console.Slot, *console.Recorder) {
	rec := console.NewRecorder()
	return console.NewSlot(rec), rec
}
