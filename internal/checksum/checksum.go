// Package checksum implements the two integrity checks of a DFU flash
// image: the bootloader's modified CRC-14 over program memory words and the
// raw CRC-32 required by the DFU suffix.
package checksum

import (
	"github.com/snksoft/crc"
)

const (
	// CRC14Polynomial is folded into the state for every set feedback bit.
	CRC14Polynomial = 0x23B1

	// CRC14Mask limits the state to 14 bits.
	CRC14Mask = 0x3FFF

	// CRC32Seed is the starting value used for the DFU suffix.
	CRC32Seed = 0xFFFFFFFF
)

// CRC14 shifts one 16-bit word, least significant bit first, into a 14-bit
// CRC state. Unlike a plain CRC-14 all 16 data bits are shifted in.
func CRC14(word uint16, state uint16) uint16 {
	for bit := 0; bit < 16; bit++ {
		feedback := (word ^ state) & 1
		state >>= 1
		if feedback != 0 {
			state ^= CRC14Polynomial
		}
		word >>= 1
	}
	return state & CRC14Mask
}

// CRC14Words folds words into state in order and returns the new state.
func CRC14Words(state uint16, words []uint16) uint16 {
	for _, w := range words {
		state = CRC14(w, state)
	}
	return state
}

// dfuCRC32 is the reflected 0x04C11DB7 CRC with no final XOR, which is what
// DFU tooling stores in dwCRC.
var dfuCRC32 = crc.NewTable(&crc.Parameters{
	Width:      32,
	Polynomial: 0x04C11DB7,
	ReflectIn:  true,
	ReflectOut: true,
	Init:       CRC32Seed,
	FinalXor:   0,
})

// CRC32 updates seed with p, one byte at a time through a lookup table.
// No final XOR is applied, so CRC32(CRC32(s, a), b) == CRC32(s, a+b).
func CRC32(seed uint32, p []byte) uint32 {
	return uint32(dfuCRC32.CRC(dfuCRC32.UpdateCrc(uint64(seed), p)))
}
