package configbinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nestedSettings struct {
	BatchSize     int  `yaml:"batch_size"`
	ClearExisting bool `yaml:"clear_existing"`
}

type testSettings struct {
	Seed      int64          `yaml:"seed"`
	Name      string         `yaml:"name"`
	Generator nestedSettings `yaml:"generator"`
}

func TestBindPropertiesWeaklyTyped(t *testing.T) {
	target := testSettings{Seed: 42, Name: "default", Generator: nestedSettings{BatchSize: 1000, ClearExisting: true}}

	err := BindProperties(map[string]interface{}{
		"seed": "7",
		"generator": map[string]interface{}{
			"batch_size":     "5000",
			"clear_existing": "false",
		},
	}, &target)
	require.NoError(t, err)

	assert.Equal(t, int64(7), target.Seed)
	assert.Equal(t, 5000, target.Generator.BatchSize)
	assert.False(t, target.Generator.ClearExisting)
	// Absent keys keep their previous value.
	assert.Equal(t, "default", target.Name)
}

func TestBindPropertiesRejectsBadValue(t *testing.T) {
	var target testSettings
	err := BindProperties(map[string]interface{}{"seed": "not-a-number"}, &target)
	assert.Error(t, err)
}
