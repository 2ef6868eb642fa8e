package callsite

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:noinline
func captureHere() Trace {
	return Capture(0)
}

//go:noinline
func captureCaller() Trace {
	return Capture(1)
}

func TestCapture_StartsAtCallingFunction(t *testing.T) {
	trace := captureHere()

	require.NotEmpty(t, trace)
	assert.True(t, strings.HasSuffix(trace[0].Function, ".captureHere"), trace[0].Function)
	assert.True(t, strings.HasSuffix(trace[1].Function, ".TestCapture_StartsAtCallingFunction"), trace[1].Function)
}

func TestCapture_SkipDropsFrames(t *testing.T) {
	trace := captureCaller()

	require.NotEmpty(t, trace)
	assert.True(t, strings.HasSuffix(trace[0].Function, ".TestCapture_SkipDropsFrames"), trace[0].Function)
	assert.True(t, strings.HasSuffix(trace[0].File, "callsite_test.go"), trace[0].File)
	assert.Positive(t, trace[0].Line)
}

func TestFrame_Location(t *testing.T) {
	f := Frame{Function: "pkg.fn", File: "/src/pkg/file.go", Line: 12}
	assert.Equal(t, "/src/pkg/file.go:12", f.Location())
}

func TestDiff_RemovesSharedFrames(t *testing.T) {
	shared := Frame{Function: "pkg.helper", File: "h.go", Line: 3}
	root := Frame{Function: "pkg.TestX", File: "x_test.go", Line: 9}
	actual := Trace{{Function: "pkg.emit", File: "e.go", Line: 1}, shared, root}
	expected := Trace{{Function: "pkg.expect", File: "x_test.go", Line: 7}, shared, root}

	unique, removed := Diff(actual, expected)

	assert.True(t, removed)
	if diff := cmp.Diff(Trace{{Function: "pkg.expect", File: "x_test.go", Line: 7}}, unique); diff != "" {
		t.Errorf("unexpected trace (-want +got):\n%s", diff)
	}
}

func TestDiff_SameFunctionDifferentLineIsDistinct(t *testing.T) {
	actual := Trace{{Function: "pkg.TestX", File: "x_test.go", Line: 10}}
	expected := Trace{{Function: "pkg.TestX", File: "x_test.go", Line: 11}}

	unique, removed := Diff(actual, expected)

	assert.False(t, removed)
	assert.Equal(t, expected, unique)
}

func TestDiff_PreservesOrder(t *testing.T) {
	a := Frame{Function: "a", File: "a.go", Line: 1}
	b := Frame{Function: "b", File: "b.go", Line: 2}
	c := Frame{Function: "c", File: "c.go", Line: 3}

	unique, removed := Diff(Trace{b}, Trace{c, b, a})

	assert.True(t, removed)
	assert.Equal(t, Trace{c, a}, unique)
}

func TestDiff_EmptyActual(t *testing.T) {
	expected := Trace{{Function: "a", File: "a.go", Line: 1}}

	unique, removed := Diff(nil, expected)

	assert.False(t, removed)
	assert.Equal(t, expected, unique)
}

func TestFormat(t *testing.T) {
	trace := Trace{
		{Function: "pkg.expect", File: "x_test.go", Line: 7},
		{Function: "pkg.TestX", File: "x_test.go", Line: 20},
	}

	assert.Equal(t,
		"    at pkg.expect (x_test.go:7)\n    at pkg.TestX (x_test.go:20)",
		Format(trace, false))
	assert.Equal(t,
		"    at pkg.expect (x_test.go:7)\n    at pkg.TestX (x_test.go:20)\n    (...common frames removed)",
		Format(trace, true))
	assert.Equal(t, CommonFramesMarker, Format(nil, true))
	assert.Equal(t, Format(trace, false), trace.String())
}
