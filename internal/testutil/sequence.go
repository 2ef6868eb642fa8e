package testutil

import "sync"

// Sequence numbers events in the order a scenario produces them, so two runs
// of the same scenario yield byte-identical traces.
//
// Thread-safety: all methods are safe for concurrent use.
type Sequence struct {
	mu  sync.Mutex
	seq int64
}

// NewSequence creates a sequence whose first Next returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next advances and returns the sequence number.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}
