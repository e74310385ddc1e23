package ihex

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    *Record
		wantOK  bool
		wantErr bool
	}{
		{
			name:   "data record",
			line:   ":0404000001020304EE",
			want:   &Record{Count: 4, Address: 0x0400, Type: Data, Data: []byte{1, 2, 3, 4}},
			wantOK: true,
		},
		{
			name:   "data record without checksum",
			line:   ":02040000ABCD",
			want:   &Record{Count: 2, Address: 0x0400, Type: Data, Data: []byte{0xAB, 0xCD}},
			wantOK: true,
		},
		{
			name:   "extended linear address",
			line:   ":020000040001F9",
			want:   &Record{Count: 2, Address: 0, Type: ExtendedLinearAddress, Data: []byte{0x00, 0x01}},
			wantOK: true,
		},
		{
			name:   "end of file",
			line:   ":00000001FF",
			want:   &Record{Count: 0, Address: 0, Type: EOF},
			wantOK: true,
		},
		{
			name:   "start linear address is passed through without payload",
			line:   ":0400000500000000F7",
			want:   &Record{Count: 4, Address: 0, Type: RecordType(5)},
			wantOK: true,
		},
		{
			name:   "type with a non-hex digit",
			line:   ":020400G0ABCD00",
			want:   &Record{Count: 2, Address: 0x0400, Type: Unknown},
			wantOK: true,
		},
		{
			name:   "lower case type digits",
			line:   ":0000000a",
			want:   &Record{Count: 0, Address: 0, Type: RecordType(0x0A)},
			wantOK: true,
		},
		{
			name:   "no marker",
			line:   "0404000001020304EE",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
		{
			name:    "truncated header",
			line:    ":040400",
			wantOK:  true,
			wantErr: true,
		},
		{
			name:    "truncated payload",
			line:    ":0404000001",
			wantOK:  true,
			wantErr: true,
		},
		{
			name:    "truncated extended address",
			line:    ":0200000400",
			wantOK:  true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok, err := ParseRecord(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRecord))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
		})
	}
}

func TestRecordUpperAddress(t *testing.T) {
	rec, _, err := ParseRecord(":02000004ABCDF9")
	require.NoError(t, err)
	assert.Equal(t, uint16(0xABCD), rec.UpperAddress())

	data, _, err := ParseRecord(":02000000ABCD86")
	require.NoError(t, err)
	assert.Zero(t, data.UpperAddress())
}

func TestReader(t *testing.T) {
	input := "; comment\n" +
		":0404000001020304EE\r\n" +
		"\n" +
		":020000040001F9\n" +
		":00000001FF\n"

	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Data, rec.Type)
	assert.Equal(t, 2, r.Line())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, ExtendedLinearAddress, rec.Type)
	assert.Equal(t, 4, r.Line())

	rec, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, EOF, rec.Type)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderLongLine(t *testing.T) {
	input := strings.Repeat("x", 70000) + "\n" +
		":0404000001020304EE\n"

	r := NewReader(strings.NewReader(input))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, Data, rec.Type)
	assert.Equal(t, 2, r.Line())

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReaderMalformedLine(t *testing.T) {
	r := NewReader(strings.NewReader(":00000001FF\n:1004000000\n"))

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Contains(t, err.Error(), "line 2")
}

func TestRecordTypeString(t *testing.T) {
	assert.Equal(t, "data", Data.String())
	assert.Equal(t, "end of file", EOF.String())
	assert.Equal(t, "extended linear address", ExtendedLinearAddress.String())
	assert.Equal(t, "type 05", RecordType(5).String())
	assert.Equal(t, "type FF", Unknown.String())
}
