// Package flash builds the program memory image of a PIC16F1454-class
// device from Intel HEX records and seals it with the checksum the USB DFU
// bootloader checks before starting the application.
//
// Program memory holds 14-bit words. A HEX file addresses them as byte
// pairs, low byte first, so word address w lives at byte address 2*w.
package flash

// Memory layout, in HEX byte addresses.
const (
	// Size is the program memory size in bytes (8K words).
	Size = 16384

	// CodeStart is the first byte the application may occupy. Everything
	// below belongs to the bootloader.
	CodeStart = 0x200 << 1

	// AddressLimit is the exclusive upper bound of data record addresses.
	AddressLimit = 0x8000

	// ChecksumEnd is the start of high endurance flash. The checksummed
	// window ends here.
	ChecksumEnd = 0x1F80 << 1

	// ChecksumAddress is the reserved word holding the checksum, the last
	// word before ChecksumEnd.
	ChecksumAddress = ChecksumEnd - 2
)

// Erased flash reads back as 0x3FFF, stored low byte first.
const (
	ErasedLow  = 0xFF
	ErasedHigh = 0x3F
)

// Image is a program memory image. The zero value is not usable; use
// NewImage.
type Image struct {
	buf []byte
}

// NewImage returns an image with every word erased.
func NewImage() *Image {
	buf := make([]byte, Size)
	for i := 0; i < Size; i += 2 {
		buf[i] = ErasedLow
		buf[i+1] = ErasedHigh
	}
	return &Image{buf: buf}
}

// ImageFromBytes wraps an existing program memory dump. b must be exactly
// Size bytes long and is not copied.
func ImageFromBytes(b []byte) (*Image, bool) {
	if len(b) != Size {
		return nil, false
	}
	return &Image{buf: b}, true
}

// Bytes returns the underlying buffer. It is Size bytes long.
func (img *Image) Bytes() []byte {
	return img.buf
}

// Word returns the 16-bit word at byte address addr.
func (img *Image) Word(addr uint32) uint16 {
	return uint16(img.buf[addr]) | uint16(img.buf[addr+1])<<8
}

func (img *Image) putWord(addr uint32, w uint16) {
	img.buf[addr] = byte(w)
	img.buf[addr+1] = byte(w >> 8)
}

// Erased reports whether the word at byte address addr still holds the
// erased pattern.
func (img *Image) Erased(addr uint32) bool {
	return img.buf[addr] == ErasedLow && img.buf[addr+1] == ErasedHigh
}

// Words returns the words in [from, to) in ascending address order.
func (img *Image) Words(from, to uint32) []uint16 {
	words := make([]uint16, 0, (to-from)/2)
	for addr := from; addr < to; addr += 2 {
		words = append(words, img.Word(addr))
	}
	return words
}
