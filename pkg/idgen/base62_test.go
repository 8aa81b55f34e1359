package idgen

import (
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		input    uint64
		expected string
	}{
		{0, "0"},
		{61, "z"},
		{62, "10"},
		{12345, "3D7"},
		{916132831, "zzzzz"}, // 62^5 - 1
		{^uint64(0), "LygHa16AHYF"},
	}

	for _, tt := range tests {
		result := Encode(tt.input)
		if result != tt.expected {
			t.Errorf("Encode(%d) = %s; want %s", tt.input, result, tt.expected)
		}
	}
}

func TestEncodePadded(t *testing.T) {
	tests := []struct {
		n        uint64
		width    int
		expected string
	}{
		{1, 6, "000001"},
		{12345, 4, "03D7"},
		{916132831, 3, "zzzzz"},
	}

	for _, tt := range tests {
		if got := EncodePadded(tt.n, tt.width); got != tt.expected {
			t.Errorf("EncodePadded(%d, %d) = %s; want %s", tt.n, tt.width, got, tt.expected)
		}
	}
}
