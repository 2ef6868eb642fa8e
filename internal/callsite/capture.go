// Package callsite records where a console call or an expectation came from
// and trims shared ancestry when two call sites are reported together.
//
// Traces are structured frames, not stack text: diffing compares frames by
// identity and formatting is a separate step.
package callsite

import (
	"fmt"
	"runtime"
)

// maxDepth bounds how many program counters are read per capture.
const maxDepth = 64

// Frame is one entry of a captured trace.
type Frame struct {
	Function string `json:"function"`
	File     string `json:"file"`
	Line     int    `json:"line"`
}

// Location renders the frame's source position as file:line.
func (f Frame) Location() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Trace is an ordered call stack, innermost frame first.
type Trace []Frame

// Capture records the current call stack, dropping skip frames above the
// function that calls Capture. Capture(0) starts at that function itself.
//
// Inlined calls are expanded before trimming so skip always counts logical
// frames.
func Capture(skip int) Trace {
	pcs := make([]uintptr, maxDepth)
	// 2 = runtime.Callers + Capture
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	trace := make(Trace, 0, n)
	for {
		f, more := frames.Next()
		if skip > 0 {
			skip--
		} else if f.Function != "" {
			trace = append(trace, Frame{Function: f.Function, File: f.File, Line: f.Line})
		}
		if !more {
			break
		}
	}
	return trace
}
