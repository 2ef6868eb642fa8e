// Package harness runs scripted scenarios against a console mock and
// records what happened as a deterministic trace.
//
// # Scenario Format
//
// Scenarios are YAML (.yaml, .yml) or CUE (.cue) files:
//
//	name: fifo_match
//	description: "expectations matched in order"
//	session_id: test-session-fifo
//	verbose: false
//	steps:
//	  - expect: {type: log, args: ["a"]}
//	  - once_empty: drained
//	  - emit: {type: log, args: ["a"]}
//	  - uninstall: {ignore_checks: false}
//	    error: unreconciled
//	assertions:
//	  - type: trace_count
//	    kind: drain
//	    count: 1
//
// Each step performs exactly one action. error names the failure the step
// must raise ("mismatch" or "unreconciled"); a step that raises anything else
// fails the scenario. A scenario that ends with the mock still installed is
// finished with a strict uninstall.
//
// # Assertion Types
//
//   - trace_contains: an event of the given kind carries the call
//   - trace_order: the calls appear in order among events of the given kind
//   - trace_count: exactly count events of the given kind (and call) exist
//
// # Deterministic Testing
//
// The mock runs on a private slot whose original console is a Recorder,
// with a fixed session id and a logical sequence (internal/testutil), so a
// scenario always yields byte-identical traces for golden comparison.
package harness
