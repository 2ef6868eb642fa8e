package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequence_NextIsMonotonic(t *testing.T) {
	seq := NewSequence()

	assert.Equal(t, int64(1), seq.Next())
	assert.Equal(t, int64(2), seq.Next())
	assert.Equal(t, int64(3), seq.Next())
}

func TestSequence_Independent(t *testing.T) {
	a, b := NewSequence(), NewSequence()
	a.Next()
	a.Next()

	assert.Equal(t, int64(1), b.Next())
}

func TestSequence_ThreadSafe(t *testing.T) {
	seq := NewSequence()
	const workers, calls = 50, 100

	var wg sync.WaitGroup
	seen := make(chan int64, workers*calls)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				seen <- seq.Next()
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for v := range seen {
		require.False(t, unique[v], "duplicate %d", v)
		unique[v] = true
	}
	assert.Len(t, unique, workers*calls)
	assert.Equal(t, int64(workers*calls+1), seq.Next())
}

func TestFixedSession(t *testing.T) {
	assert.Equal(t, "scenario-1", NewFixedSession("scenario-1").Generate())
	assert.Equal(t, "scenario-1", NewFixedSession("scenario-1").Generate())
	assert.Equal(t, DefaultSessionID, NewFixedSession("").Generate())
}

func TestNewRecordingSlot(t *testing.T) {
	slot, rec := NewRecordingSlot()
	assert.True(t, slot.Is(rec))

	slot.Load().Warn("hi")
	require.Len(t, rec.Calls(), 1)
	assert.Equal(t, []any{"hi"}, rec.Calls()[0].Args)
}
