package engine

import (
	"github.com/roach88/consolemock/internal/record"
)

// recordQueue is an unbounded FIFO of call records.
//
// It is not synchronized: the reconciler owns both of its queues and every
// operation runs to completion on the caller's goroutine.
type recordQueue struct {
	records []record.Record
}

// newRecordQueue creates an empty queue.
func newRecordQueue() *recordQueue {
	return &recordQueue{
		records: make([]record.Record, 0, 8),
	}
}

// Push adds a record to the back of the queue.
func (q *recordQueue) Push(r record.Record) {
	q.records = append(q.records, r)
}

// Pop removes and returns the front record.
// Returns (record.Record{}, false) if the queue is empty.
func (q *recordQueue) Pop() (record.Record, bool) {
	if len(q.records) == 0 {
		return record.Record{}, false
	}

	r := q.records[0]

	// Nil out the slot so the backing array does not pin the record's
	// arguments after it has been matched.
	q.records[0] = record.Record{}

	if len(q.records) == 1 {
		q.records = q.records[:0]
	} else {
		q.records = q.records[1:]
	}

	return r, true
}

// Len returns the current queue length.
func (q *recordQueue) Len() int {
	return len(q.records)
}

// Snapshot returns a copy of the queued records, front first.
func (q *recordQueue) Snapshot() []record.Record {
	out := make([]record.Record, len(q.records))
	copy(out, q.records)
	return out
}

// Clear drops every queued record.
func (q *recordQueue) Clear() {
	for i := range q.records {
		q.records[i] = record.Record{}
	}
	q.records = q.records[:0]
}
