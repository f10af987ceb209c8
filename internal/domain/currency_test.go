package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBRL(t *testing.T) {
	tests := map[int64]string{
		0:          "R$ 0,00",
		5:          "R$ 0,05",
		500:        "R$ 5,00",
		123456:     "R$ 1.234,56",
		100000000:  "R$ 1.000.000,00",
		-1000:      "-R$ 10,00",
		99999999:   "R$ 999.999,99",
		1234567890: "R$ 12.345.678,90",
	}
	for cents, want := range tests {
		assert.Equal(t, want, FormatBRL(cents), "cents=%d", cents)
	}
}

func TestFormatBRL_Extremes(t *testing.T) {
	assert.Equal(t, "-R$ 92.233.720.368.547.758,08", FormatBRL(math.MinInt64))
	assert.Equal(t, "R$ 92.233.720.368.547.758,07", FormatBRL(math.MaxInt64))
	assert.Equal(t, "-R$ 0,01", FormatBRL(-1))
}

func TestReaisToCents(t *testing.T) {
	assert.Equal(t, int64(500), ReaisToCents(5.0))
	assert.Equal(t, int64(1999), ReaisToCents(19.99))
	assert.Equal(t, int64(1), ReaisToCents(0.005))
	assert.Equal(t, "12.34", CentsToReais(1234).StringFixed(2))
}
