package wave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"b", "d", "u", "x", "X"} {
		f, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), f)
	}

	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, f)

	_, err = ParseFormat("q")
	assert.Error(t, err)
}

func TestFormat_Render(t *testing.T) {
	tests := []struct {
		format Format
		bits   string
		width  int
		want   string
	}{
		{FormatHex, "1010", 4, "a"},
		{FormatHex, "0000", 4, "0"},
		{FormatHex, "11111111", 8, "ff"},
		{FormatHex, "00011111", 8, "1f"},
		{FormatHex, "10100", 5, "14"},
		{FormatHexUpper, "11111111", 8, "FF"},
		{FormatBinary, "0101", 4, "0101"},
		{FormatBinary, "1", 4, "0001"},
		{FormatUnsigned, "1010", 4, "10"},
		{FormatSigned, "0110", 4, "6"},
		{FormatSigned, "1010", 4, "-6"},
		{FormatSigned, "1111", 4, "-1"},
		{FormatSigned, "10000000", 8, "-128"},
	}

	for _, tt := range tests {
		got := tt.format.Render(tt.bits, tt.width)
		assert.Equal(t, tt.want, got, "%s of %s", tt.format, tt.bits)
	}
}

// Widths beyond 64 bits must not overflow.
func TestFormat_RenderWide(t *testing.T) {
	wide := "1"
	for len(wide) < 72 {
		wide += "0"
	}
	got := FormatHex.Render(wide, 72)
	assert.Equal(t, "800000000000000000", got)

	signed := FormatSigned.Render(wide, 72)
	assert.Equal(t, "-2361183241434822606848", signed)
}
