package flash

import (
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/yath/hex2dfu/internal/ihex"
)

// ErrOutOfBounds is returned when a data record addresses memory outside
// the application window.
var ErrOutOfBounds = errors.New("address out of bounds")

// writable reports whether a data byte may be stored at addr. The HEX window
// ends at AddressLimit, but nothing past the end of program memory can be
// represented in the image.
func writable(addr uint32) bool {
	return addr >= CodeStart && addr < AddressLimit && addr < Size
}

type loader struct {
	img *Image

	// upper is the latched extended linear address. Data records are only
	// applied while it is zero.
	upper uint16

	rejected      int
	firstRejected uint32
	firstLine     int
	skipped       int
}

// apply applies one record. It returns true once an EOF record is seen.
func (l *loader) apply(rec *ihex.Record, line int) bool {
	switch rec.Type {
	case ihex.Data:
		if l.upper != 0 {
			l.skipped += len(rec.Data)
			glog.V(1).Infof("line %d: skipping %d bytes at 0x%04x%04x, not program memory", line, len(rec.Data), l.upper, rec.Address)
			return false
		}
		addr := uint32(rec.Address)
		for _, b := range rec.Data {
			if !writable(addr) {
				if l.rejected == 0 {
					l.firstRejected, l.firstLine = addr, line
				}
				l.rejected++
			} else {
				l.img.buf[addr] = b
			}
			addr++
		}

	case ihex.ExtendedLinearAddress:
		l.upper = rec.UpperAddress()
		glog.V(2).Infof("line %d: upper address 0x%04x", line, l.upper)

	case ihex.EOF:
		return true

	default:
		glog.V(1).Infof("line %d: ignoring %s record", line, rec.Type)
	}
	return false
}

// Load reads HEX records from r into a freshly erased image. Reading stops
// at the first EOF record or at the end of r.
//
// Data bytes outside [CodeStart, AddressLimit) are not written; if there
// were any, Load returns ErrOutOfBounds after the whole input is read.
// A truncated record fails immediately with ihex.ErrMalformedRecord.
func Load(r io.Reader) (*Image, error) {
	l := &loader{img: NewImage()}
	rd := ihex.NewReader(r)
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if l.apply(rec, rd.Line()) {
			glog.V(1).Infof("line %d: end of file record", rd.Line())
			break
		}
	}

	if l.skipped > 0 {
		glog.Infof("skipped %d data bytes outside program memory", l.skipped)
	}
	if l.rejected > 0 {
		return nil, errors.Wrapf(ErrOutOfBounds, "%d data bytes outside program memory [0x%04x, 0x%04x) (HEX window ends at 0x%04x), first at 0x%04x on line %d",
			l.rejected, CodeStart, Size, AddressLimit, l.firstRejected, l.firstLine)
	}
	return l.img, nil
}
