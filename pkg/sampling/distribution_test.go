package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopseed/shopseed/pkg/sampling"
	"github.com/shopseed/shopseed/pkg/support/exception"
)

func TestNormalizeMap(t *testing.T) {
	// Valid distribution is divided by its total.
	norm, err := sampling.NormalizeMap(map[string]float64{"A": 1, "B": 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, norm["A"], 1e-9)
	assert.InDelta(t, 0.75, norm["B"], 1e-9)

	// Zero-sum distribution is rejected.
	_, err = sampling.NormalizeMap(map[string]float64{"A": 0, "B": 0})
	assert.ErrorIs(t, err, exception.ErrInvalidDistribution)

	// Negative weights are rejected.
	_, err = sampling.NormalizeMap(map[string]float64{"A": -1, "B": 2})
	assert.ErrorIs(t, err, exception.ErrInvalidDistribution)

	// Empty distribution is rejected.
	_, err = sampling.NormalizeMap(map[string]float64{})
	assert.ErrorIs(t, err, exception.ErrInvalidDistribution)
}

func TestNormalizePreservesOrder(t *testing.T) {
	dist := sampling.Distribution[string]{
		{Key: "card", Weight: 58},
		{Key: "paypal", Weight: 18},
		{Key: "mbway", Weight: 18},
		{Key: "bank_transfer", Weight: 6},
	}
	norm, err := sampling.Normalize(dist)
	require.NoError(t, err)
	require.Len(t, norm, 4)
	assert.Equal(t, "card", norm[0].Key)
	assert.Equal(t, "bank_transfer", norm[3].Key)

	total := 0.0
	for _, e := range norm {
		total += e.Weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestDrawKey(t *testing.T) {
	src := sampling.NewSource(42)

	// A single positive weight always wins.
	key, err := sampling.DrawKey(src, sampling.Distribution[string]{{Key: "card", Weight: 1.0}})
	require.NoError(t, err)
	assert.Equal(t, "card", key)

	// Zero-weight entries are never selected.
	for i := 0; i < 200; i++ {
		key, err := sampling.DrawKey(src, sampling.Distribution[string]{
			{Key: "never", Weight: 0},
			{Key: "always", Weight: 5},
		})
		require.NoError(t, err)
		assert.Equal(t, "always", key)
	}

	// Invalid distributions fail with the sentinel.
	_, err = sampling.DrawKey(src, sampling.Distribution[string]{})
	assert.ErrorIs(t, err, exception.ErrInvalidDistribution)
	_, err = sampling.DrawKey(src, sampling.Distribution[string]{{Key: "x", Weight: -1}})
	assert.ErrorIs(t, err, exception.ErrInvalidDistribution)
}

func TestDrawKeyDeterministic(t *testing.T) {
	dist := sampling.FromMap(map[int]float64{1: 45, 2: 32, 3: 18, 4: 5})

	first := make([]int, 0, 50)
	src := sampling.NewSource(7)
	for i := 0; i < 50; i++ {
		k, err := sampling.DrawKey(src, dist)
		require.NoError(t, err)
		first = append(first, k)
	}

	second := make([]int, 0, 50)
	src = sampling.NewSource(7)
	for i := 0; i < 50; i++ {
		k, err := sampling.DrawKey(src, dist)
		require.NoError(t, err)
		second = append(second, k)
	}

	assert.Equal(t, first, second)
}

func TestDrawDistinctWeighted(t *testing.T) {
	src := sampling.NewSource(42)
	candidates := []int{10, 20, 30, 40, 50}
	weightOf := func(int) float64 { return 1.0 }

	// Never more than min(k, len(candidates)), never duplicates.
	got := sampling.DrawDistinctWeighted(src, candidates, weightOf, 3)
	assert.Len(t, got, 3)
	seen := map[int]bool{}
	for _, v := range got {
		assert.False(t, seen[v], "duplicate element %d", v)
		seen[v] = true
	}

	got = sampling.DrawDistinctWeighted(src, candidates, weightOf, 99)
	assert.Len(t, got, 5)

	// k <= 0 and empty pools yield nothing.
	assert.Empty(t, sampling.DrawDistinctWeighted(src, candidates, weightOf, 0))
	assert.Empty(t, sampling.DrawDistinctWeighted(src, nil, weightOf, 3))
}

func TestDrawDistinctWeightedStopsOnZeroWeight(t *testing.T) {
	src := sampling.NewSource(42)
	candidates := []string{"a", "b", "c", "d"}
	weights := map[string]float64{"a": 1, "b": 2, "c": 0, "d": 0}

	got := sampling.DrawDistinctWeighted(src, candidates, func(k string) float64 { return weights[k] }, 4)

	// Only the positively weighted candidates can be drawn; the pool's weight
	// is exhausted after them and the draw stops early.
	assert.Len(t, got, 2)
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestDrawDistinctWeightedFractionalWeights(t *testing.T) {
	// Fractional weights do not sum exactly in floating point; the leftover
	// must not keep the draw alive once the positive weight is spent.
	candidates := []string{"a", "b", "zero"}
	weights := map[string]float64{"a": 0.1, "b": 0.2, "zero": 0}

	for seed := int64(0); seed < 100; seed++ {
		src := sampling.NewSource(seed)
		got := sampling.DrawDistinctWeighted(src, candidates, func(k string) float64 { return weights[k] }, 3)

		assert.NotContains(t, got, "zero", "seed %d", seed)
		assert.ElementsMatch(t, []string{"a", "b"}, got, "seed %d", seed)
	}
}
