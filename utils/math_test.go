package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    uint64
		expected string
	}{
		{0, "0 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1.000 KB"},
		{1536, "1.500 KB"},
		{50 * 1024 * 1024, "50.000 MB"},
		{1073741823, "1024.000 MB"},
		{3 * 1024 * 1024 * 1024, "3.000 GB"},
		{5 * 1024 * 1024 * 1024 * 1024, "5120.000 GB"},
		{math.MaxUint64, "17179869184.000 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatBytes(tt.bytes), "bytes=%d", tt.bytes)
	}
}
