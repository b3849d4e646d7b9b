package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsFromFloat(t *testing.T) {
	assert.Equal(t, int64(1999), CentsFromFloat(19.99))
	assert.Equal(t, int64(100), CentsFromFloat(1.0))
	assert.Equal(t, int64(0), CentsFromFloat(0))
	// 29.085 rounds half away from zero
	assert.Equal(t, int64(2909), CentsFromFloat(29.085))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "19.99", FormatCents(1999))
	assert.Equal(t, "0.00", FormatCents(0))
	assert.Equal(t, "1.05", FormatCents(105))
	assert.Equal(t, "0.07", FormatCents(7))
	assert.Equal(t, "-3.50", FormatCents(-350))
	assert.Equal(t, "120.00", FormatCents(12000))
}
