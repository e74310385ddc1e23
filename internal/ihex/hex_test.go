package ihex

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadHex(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		digits int
		want   uint32
	}{
		{name: "upper case", text: "AB", digits: 2, want: 0xAB},
		{name: "lower case", text: "ab", digits: 2, want: 0xAB},
		{name: "mixed case", text: "3eFf", digits: 4, want: 0x3EFF},
		{name: "only the first digits", text: "12345678", digits: 4, want: 0x1234},
		{name: "non-hex counts as zero", text: "1G2z", digits: 4, want: 0x1020},
		{name: "zero digits", text: "", digits: 0, want: 0},
		{name: "eight digits", text: "DEADBEEF", digits: 8, want: 0xDEADBEEF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadHex(tt.text, tt.digits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadHexShortInput(t *testing.T) {
	_, err := ReadHex("123", 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}

func TestReadHexTooWide(t *testing.T) {
	_, err := ReadHex("123456789", 9)
	assert.Error(t, err)
}
