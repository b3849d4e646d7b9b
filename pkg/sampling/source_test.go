package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopseed/shopseed/pkg/sampling"
)

func TestSourceReproducible(t *testing.T) {
	a := sampling.NewSource(42)
	b := sampling.NewSource(42)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Int63n(1_000_000), b.Int63n(1_000_000))
	}
}

func TestSourceSeedsDiffer(t *testing.T) {
	a := sampling.NewSource(1)
	b := sampling.NewSource(2)

	same := true
	for i := 0; i < 10; i++ {
		if a.Float64() != b.Float64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should not produce identical streams")
}
