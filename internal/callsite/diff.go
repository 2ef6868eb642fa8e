package callsite

import (
	"fmt"
	"strings"
)

// CommonFramesMarker is appended to a formatted trace whose shared frames
// were removed by Diff.
const CommonFramesMarker = "    (...common frames removed)"

// Diff removes from expected every frame that also appears anywhere in
// actual, keeping the remaining frames in order. The boolean reports whether
// any frame was removed.
func Diff(actual, expected Trace) (Trace, bool) {
	seen := make(map[Frame]struct{}, len(actual))
	for _, f := range actual {
		seen[f] = struct{}{}
	}

	unique := make(Trace, 0, len(expected))
	removed := false
	for _, f := range expected {
		if _, ok := seen[f]; ok {
			removed = true
			continue
		}
		unique = append(unique, f)
	}
	return unique, removed
}

// Format renders a trace one frame per line. When removed is true the
// common-frames marker is appended as the last line.
func Format(trace Trace, removed bool) string {
	lines := make([]string, 0, len(trace)+1)
	for _, f := range trace {
		lines = append(lines, fmt.Sprintf("    at %s (%s)", f.Function, f.Location()))
	}
	if removed {
		lines = append(lines, CommonFramesMarker)
	}
	return strings.Join(lines, "\n")
}

// String renders the full trace without a marker.
func (t Trace) String() string {
	return Format(t, false)
}
