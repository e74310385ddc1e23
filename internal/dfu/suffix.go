// Package dfu appends and checks the DFU file suffix defined in the USB
// Device Firmware Upgrade specification 1.1, appendix B.
//
// The suffix is 16 bytes at the very end of the file, stored little-endian:
//
//	bcdDevice(2) idProduct(2) idVendor(2) bcdDFU(2) ucDfuSignature(3) bLength(1) dwCRC(4)
//
// dwCRC covers the whole file except dwCRC itself.
package dfu

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/yath/hex2dfu/internal/checksum"
)

const (
	// SuffixLength is the bLength of every suffix this package writes.
	SuffixLength = 16

	// headerLength is the part of the suffix covered by dwCRC.
	headerLength = SuffixLength - 4

	// Version is the bcdDFU value for DFU 1.0/1.1 files.
	Version = 0x0100

	// UnspecifiedDevice is the bcdDevice value meaning "any release".
	UnspecifiedDevice = 0xFFFF
)

// Signature is ucDfuSignature, "DFU" stored backwards.
var Signature = [3]byte{'U', 'F', 'D'}

var (
	ErrTooShort       = errors.New("file too short for a DFU suffix")
	ErrBadSignature   = errors.New("bad DFU suffix signature")
	ErrBadLength      = errors.New("unsupported DFU suffix length")
	ErrCRCMismatch    = errors.New("DFU suffix CRC mismatch")
	ErrDeviceMismatch = errors.New("DFU suffix is for a different device")
)

// Suffix holds the fields of a DFU suffix.
type Suffix struct {
	Device    uint16 // bcdDevice
	Product   uint16 // idProduct
	Vendor    uint16 // idVendor
	DFU       uint16 // bcdDFU
	Signature [3]byte
	Length    byte
	CRC       uint32
}

// NewSuffix returns the suffix for a device; the remaining fields are
// filled in by Append.
func NewSuffix(vendor, product, device uint16) Suffix {
	return Suffix{
		Device:  device,
		Product: product,
		Vendor:  vendor,
	}
}

func (s *Suffix) appendHeader(b []byte) []byte {
	b = binary.LittleEndian.AppendUint16(b, s.Device)
	b = binary.LittleEndian.AppendUint16(b, s.Product)
	b = binary.LittleEndian.AppendUint16(b, s.Vendor)
	b = binary.LittleEndian.AppendUint16(b, s.DFU)
	b = append(b, s.Signature[:]...)
	return append(b, s.Length)
}

// Append appends the suffix to image and returns the extended slice along
// with the suffix as written. The CRC is computed over image and the suffix
// header, seeded with checksum.CRC32Seed. The memory behind image is never
// written to, even if it has spare capacity.
func Append(image []byte, s Suffix) ([]byte, Suffix, error) {
	image = image[:len(image):len(image)]
	s.DFU = Version
	s.Signature = Signature
	s.Length = SuffixLength

	start := len(image)
	out := s.appendHeader(image)
	s.CRC = checksum.CRC32(checksum.CRC32Seed, out)
	out = binary.LittleEndian.AppendUint32(out, s.CRC)

	if n := len(out) - start; n != SuffixLength {
		return nil, Suffix{}, errors.Errorf("wrote %d suffix bytes, want %d", n, SuffixLength)
	}
	return out, s, nil
}

// Parse decodes the suffix at the end of file without checking it.
func Parse(file []byte) (Suffix, error) {
	if len(file) < SuffixLength {
		return Suffix{}, errors.Wrapf(ErrTooShort, "%d bytes", len(file))
	}
	b := file[len(file)-SuffixLength:]

	s := Suffix{
		Device:  binary.LittleEndian.Uint16(b[0:]),
		Product: binary.LittleEndian.Uint16(b[2:]),
		Vendor:  binary.LittleEndian.Uint16(b[4:]),
		DFU:     binary.LittleEndian.Uint16(b[6:]),
		Length:  b[11],
		CRC:     binary.LittleEndian.Uint32(b[12:]),
	}
	copy(s.Signature[:], b[8:11])
	return s, nil
}

// Verify parses the suffix of file and checks its signature, length and
// CRC. It returns the payload in front of the suffix.
func Verify(file []byte) (Suffix, []byte, error) {
	s, err := Parse(file)
	if err != nil {
		return s, nil, err
	}
	if s.Signature != Signature {
		return s, nil, errors.Wrapf(ErrBadSignature, "%q", s.Signature[:])
	}
	if s.Length != SuffixLength {
		return s, nil, errors.Wrapf(ErrBadLength, "bLength %d", s.Length)
	}
	if crc := checksum.CRC32(checksum.CRC32Seed, file[:len(file)-4]); crc != s.CRC {
		return s, nil, errors.Wrapf(ErrCRCMismatch, "stored 0x%08x, computed 0x%08x", s.CRC, crc)
	}
	return s, file[:len(file)-SuffixLength], nil
}

// Matches checks that the suffix targets vendor:product. A device release
// of UnspecifiedDevice on either side matches any release.
func (s *Suffix) Matches(vendor, product, device uint16) error {
	if s.Vendor != vendor || s.Product != product {
		return errors.Wrapf(ErrDeviceMismatch, "file is for %04x:%04x, want %04x:%04x", s.Vendor, s.Product, vendor, product)
	}
	if s.Device != UnspecifiedDevice && device != UnspecifiedDevice && s.Device != device {
		return errors.Wrapf(ErrDeviceMismatch, "file is for release %04x, want %04x", s.Device, device)
	}
	return nil
}
