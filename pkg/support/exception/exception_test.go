package exception

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMissingMethodMapping(t *testing.T) {
	err := NewMissingMethodMapping("simulator", "mbway")

	assert.True(t, IsMissingMethodMapping(err))
	assert.True(t, IsBatchError(err))
	assert.True(t, err.IsSkippable())
	assert.False(t, err.IsRetryable())
	assert.Equal(t, "payment method 'mbway' has no storage id", ExtractErrorMessage(err))
}

func TestClassifiersDistinguishSentinels(t *testing.T) {
	dist := NewInvalidDistribution("sampling", "empty")
	storage := NewStorageFailure("writer", "insert failed", errors.New("duplicate key"))

	assert.True(t, IsInvalidDistribution(dist))
	assert.False(t, IsInvalidDistribution(storage))
	assert.True(t, IsStorageFailure(storage))
	assert.False(t, IsMissingMethodMapping(dist))

	// Wrapping preserves classification.
	wrapped := fmt.Errorf("job failed: %w", NewMissingMethodMapping("payments", "ghost"))
	assert.True(t, IsMissingMethodMapping(wrapped))
	assert.False(t, IsStorageFailure(wrapped))
}
