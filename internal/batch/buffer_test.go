package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferFlushesInChunks(t *testing.T) {
	var chunks [][]int
	buf := NewBuffer(3, func(rows []int) error {
		copied := make([]int, len(rows))
		copy(copied, rows)
		chunks = append(chunks, copied)
		return nil
	})

	for i := 1; i <= 7; i++ {
		require.NoError(t, buf.Add(i))
	}
	require.NoError(t, buf.Flush())

	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2, 3}, chunks[0])
	assert.Equal(t, []int{4, 5, 6}, chunks[1])
	assert.Equal(t, []int{7}, chunks[2])
	assert.Equal(t, int64(7), buf.Added())
	assert.Equal(t, int64(7), buf.Flushed())
}

func TestBufferFlushEmptyIsNoop(t *testing.T) {
	calls := 0
	buf := NewBuffer(3, func(rows []string) error {
		calls++
		return nil
	})
	require.NoError(t, buf.Flush())
	assert.Equal(t, 0, calls)
}

func TestBufferPropagatesFlushError(t *testing.T) {
	buf := NewBuffer(2, func(rows []int) error {
		return assert.AnError
	})
	require.NoError(t, buf.Add(1))
	err := buf.Add(2)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, int64(0), buf.Flushed())
}

func TestBufferThresholdFloor(t *testing.T) {
	calls := 0
	buf := NewBuffer(0, func(rows []int) error {
		calls++
		assert.Len(t, rows, 1)
		return nil
	})
	require.NoError(t, buf.Add(10))
	assert.Equal(t, 1, calls)
}
