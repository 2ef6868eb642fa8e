package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// valueConsole is a non-comparable Console used to exercise identity checks.
type valueConsole struct {
	*Recorder
	tags []string
}

func TestSlot_SwapReturnsPrevious(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()
	slot := NewSlot(first)

	old := slot.Swap(second)

	assert.Same(t, first, old)
	assert.Same(t, second, slot.Load())
}

func TestSlot_CompareAndSwap(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()
	third := NewRecorder()
	slot := NewSlot(first)

	assert.False(t, slot.CompareAndSwap(second, third), "second is not active")
	assert.Same(t, first, slot.Load())

	assert.True(t, slot.CompareAndSwap(first, third))
	assert.Same(t, third, slot.Load())
	assert.True(t, slot.Is(third))
	assert.False(t, slot.Is(first))
}

func TestSame(t *testing.T) {
	a := NewRecorder()
	b := NewRecorder()

	assert.True(t, Same(a, a))
	assert.False(t, Same(a, b))
	assert.True(t, Same(nil, nil))
	assert.False(t, Same(a, nil))
	assert.False(t, Same(NewSlog(nil), a), "different dynamic types")
}

func TestSame_NonComparableNeverIdentical(t *testing.T) {
	v := valueConsole{Recorder: NewRecorder(), tags: []string{"x"}}

	assert.NotPanics(t, func() {
		assert.False(t, Same(v, v))
	})
}

func TestGlobal_HelpersForwardToActiveConsole(t *testing.T) {
	rec := NewRecorder()
	old := Global().Swap(rec)
	defer Global().Swap(old)

	Log("one")
	Warn("two")
	Assert(false, "three")

	calls := rec.Calls()
	assert.Equal(t, []Call{
		{Severity: SeverityLog, Args: []any{"one"}},
		{Severity: SeverityWarn, Args: []any{"two"}},
		{Severity: SeverityAssert, Args: []any{false, "three"}},
	}, calls)
}
