package sampling

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopseed/shopseed/pkg/support/exception"
)

const moduleName = "sampling"

// Entry pairs a key with its non-negative weight.
type Entry[K comparable] struct {
	Key    K
	Weight float64
}

// Distribution is an ordered list of weighted keys. The order is part of the
// value: together with a fixed seed it pins down which key a draw selects, so
// two runs over the same distribution consume the random stream identically.
type Distribution[K comparable] []Entry[K]

// FromMap builds a Distribution from a weight map, ordered by ascending key.
// Sorting makes the result independent of Go's randomized map iteration.
func FromMap[K cmp.Ordered](weights map[K]float64) Distribution[K] {
	keys := make([]K, 0, len(weights))
	for k := range weights {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	dist := make(Distribution[K], 0, len(keys))
	for _, k := range keys {
		dist = append(dist, Entry[K]{Key: k, Weight: weights[k]})
	}
	return dist
}

// validate rejects empty distributions, negative weights and non-positive
// totals, returning the total weight otherwise.
func validate[K comparable](dist Distribution[K]) (float64, error) {
	if len(dist) == 0 {
		return 0, exception.NewInvalidDistribution(moduleName, "distribution is empty")
	}
	total := 0.0
	for _, e := range dist {
		if e.Weight < 0 {
			return 0, exception.NewInvalidDistribution(moduleName,
				fmt.Sprintf("distribution weights cannot be negative (key %v has weight %g)", e.Key, e.Weight))
		}
		total += e.Weight
	}
	if total <= 0 {
		return 0, exception.NewInvalidDistribution(moduleName, "distribution must have positive weights")
	}
	return total, nil
}

// Normalize returns a copy of dist with every weight divided by the total, so
// the weights sum to 1.0. It fails with exception.ErrInvalidDistribution if
// the distribution is empty, any weight is negative, or the total is not
// positive.
func Normalize[K comparable](dist Distribution[K]) (Distribution[K], error) {
	total, err := validate(dist)
	if err != nil {
		return nil, err
	}
	out := make(Distribution[K], len(dist))
	for i, e := range dist {
		out[i] = Entry[K]{Key: e.Key, Weight: e.Weight / total}
	}
	return out, nil
}

// NormalizeMap normalizes a weight map to probabilities summing to 1.0, under
// the same failure conditions as Normalize.
func NormalizeMap[K cmp.Ordered](weights map[K]float64) (map[K]float64, error) {
	norm, err := Normalize(FromMap(weights))
	if err != nil {
		return nil, err
	}
	out := make(map[K]float64, len(norm))
	for _, e := range norm {
		out[e.Key] = e.Weight
	}
	return out, nil
}

// DrawKey performs a single weighted categorical draw over dist. Raw positive
// weights are accepted; pre-normalization is not required. Exactly one uniform
// value is consumed from src per call (cumulative sum plus one uniform draw),
// which keeps random-stream consumption fixed regardless of weight values.
// It fails with exception.ErrInvalidDistribution under the same conditions as
// Normalize.
func DrawKey[K comparable](src *Source, dist Distribution[K]) (K, error) {
	var zero K
	total, err := validate(dist)
	if err != nil {
		return zero, err
	}

	target := src.Float64() * total
	cum := 0.0
	for _, e := range dist {
		cum += e.Weight
		if target < cum {
			return e.Key, nil
		}
	}
	// Floating point slack: target can land on the extreme right edge.
	return dist[len(dist)-1].Key, nil
}

// DrawDistinctWeighted draws up to min(k, len(candidates)) distinct elements
// without replacement, each round drawing one element proportionally to the
// remaining weights among the remaining candidates. Removal uses the swap-pop
// technique on parallel pool/weight slices, so each round costs O(pool) for
// the weighted index draw and O(1) for the removal.
//
// The draw stops early when the remaining weights sum to zero, even if fewer
// than k elements were selected. Returning fewer than k elements is not an
// error. Candidates with no positive weight are never selected.
func DrawDistinctWeighted[K comparable](src *Source, candidates []K, weightOf func(K) float64, k int) []K {
	if k <= 0 || len(candidates) == 0 {
		return nil
	}

	pool := make([]K, len(candidates))
	copy(pool, candidates)
	weights := make([]float64, len(pool))
	for i, c := range pool {
		w := weightOf(c)
		if w < 0 {
			w = 0
		}
		weights[i] = w
	}

	if k > len(pool) {
		k = len(pool)
	}

	chosen := make([]K, 0, k)
	for n := 0; n < k; n++ {
		// The total is re-summed each round rather than decremented: a
		// running difference accumulates floating-point residue that can
		// keep the loop alive after the positive weight is exhausted.
		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total <= 0 {
			break
		}

		// One weighted index draw over the remaining pool. Zero-weight
		// entries are skipped so the right-edge fallback lands on the last
		// positive-weight candidate.
		target := src.Float64() * total
		idx := -1
		cum := 0.0
		for i, w := range weights {
			if w <= 0 {
				continue
			}
			idx = i
			cum += w
			if target < cum {
				break
			}
		}
		chosen = append(chosen, pool[idx])

		// Swap with the last element and shrink the pool (O(1) removal).
		last := len(pool) - 1
		pool[idx], pool[last] = pool[last], pool[idx]
		weights[idx], weights[last] = weights[last], weights[idx]
		pool = pool[:last]
		weights = weights[:last]
	}
	return chosen
}
