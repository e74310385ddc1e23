package flash

import (
	"github.com/pkg/errors"

	"github.com/yath/hex2dfu/internal/checksum"
)

var (
	// ErrChecksumConflict is returned when the application occupies the
	// word reserved for the checksum.
	ErrChecksumConflict = errors.New("checksum address occupied; application conflicts with bootloader")

	// ErrChecksumMismatch is returned by Verify when the stored checksum
	// does not match the image.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// Checksum computes the bootloader checksum: the modified CRC-14, seeded
// with zero, over every word from CodeStart up to but excluding the
// checksum word.
func (img *Image) Checksum() uint16 {
	return checksum.CRC14Words(0, img.Words(CodeStart, ChecksumAddress))
}

// Seal stores the checksum at ChecksumAddress. The reserved word must still
// be erased; otherwise the image is left untouched and ErrChecksumConflict
// is returned.
func (img *Image) Seal() (uint16, error) {
	if !img.Erased(ChecksumAddress) {
		return 0, errors.Wrapf(ErrChecksumConflict, "word at 0x%04x is 0x%04x", ChecksumAddress, img.Word(ChecksumAddress))
	}
	sum := img.Checksum()
	img.putWord(ChecksumAddress, sum)
	return sum, nil
}

// Verify checks a sealed image against its stored checksum.
func (img *Image) Verify() error {
	stored, computed := img.Word(ChecksumAddress), img.Checksum()
	if stored != computed {
		return errors.Wrapf(ErrChecksumMismatch, "stored 0x%04x, computed 0x%04x", stored, computed)
	}
	return nil
}
