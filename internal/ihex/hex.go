package ihex

import (
	"github.com/pkg/errors"
)

// ReadHex decodes the first digits characters of text as a big-endian hex
// number. Upper and lower case are accepted; any other character counts as 0.
func ReadHex(text string, digits int) (uint32, error) {
	if digits > 8 {
		return 0, errors.Errorf("can't decode %d hex digits into 32 bits", digits)
	}
	if len(text) < digits {
		return 0, errors.Wrapf(ErrMalformedRecord, "need %d hex digits, have %d", digits, len(text))
	}

	var v uint32
	for i := 0; i < digits; i++ {
		v = v<<4 | uint32(hexDigit(text[i]))
	}
	return v, nil
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}
