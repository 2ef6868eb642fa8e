// Package engine implements the consolemock reconciliation engine.
//
// The engine owns two FIFO queues: calls a test has declared it expects,
// and calls the unit under test has actually made. Every new item first
// tries to match the head of the opposite queue and is only queued when
// that queue is empty.
//
// ARCHITECTURE:
//
// Matching:
// 1. OnActual / OnExpectation receive a record.Record
// 2. The head of the opposite queue is popped, if any
// 3. Both canonical forms are compared byte for byte
// 4. On a match that empties the queue, the DrainNotifier fires
// 5. On a mismatch both queues are cleared and a MismatchError is returned
//
// Finalize flushes whatever is left. A checked finalize turns leftovers into
// an UnreconciledError; an unchecked one hands the received records back for
// replay.
//
// CRITICAL PATTERNS:
//
// Synchronous:
// Every operation runs to completion on the caller's goroutine. Drain
// callbacks run inside the OnActual/OnExpectation call that caused the drain.
//
// Fail fast:
// A single mismatch voids the rest of the session instead of producing a
// cascade of follow-on mismatches from stale queue state.
package engine
