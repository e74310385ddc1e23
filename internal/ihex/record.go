package ihex

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// RecordType is the two-digit type field of a HEX record.
type RecordType byte

const (
	Data                  RecordType = 0x00
	EOF                   RecordType = 0x01
	ExtendedLinearAddress RecordType = 0x04

	// Unknown marks a type field that is not one of the above spelled
	// with plain digits, e.g. "0G".
	Unknown RecordType = 0xFF
)

func (t RecordType) String() string {
	switch t {
	case Data:
		return "data"
	case EOF:
		return "end of file"
	case ExtendedLinearAddress:
		return "extended linear address"
	}
	return fmt.Sprintf("type %02X", byte(t))
}

// recordType matches the type field as text, so that only "00", "01" and
// "04" select the types that change the image.
func recordType(field string) RecordType {
	switch field {
	case "00":
		return Data
	case "01":
		return EOF
	case "04":
		return ExtendedLinearAddress
	}
	t, _ := ReadHex(field, 2)
	switch RecordType(t) {
	case Data, EOF, ExtendedLinearAddress:
		return Unknown
	}
	return RecordType(t)
}

// ErrMalformedRecord is returned for record lines that end before their
// declared fields do.
var ErrMalformedRecord = errors.New("malformed record")

const (
	marker       = ':'
	headerDigits = 9 // ':' + count(2) + address(4) + type(2)

	// maxLine bounds a single input line. Lines are buffered whole before
	// the marker is checked, so it must allow long non-record lines.
	maxLine = math.MaxInt32
)

// Record is one parsed HEX line. Data holds Count bytes for data records and
// the two latch bytes for extended linear address records.
type Record struct {
	Count   byte
	Address uint16
	Type    RecordType
	Data    []byte
}

// UpperAddress returns the upper 16 address bits carried by an extended
// linear address record.
func (r *Record) UpperAddress() uint16 {
	if r.Type != ExtendedLinearAddress || len(r.Data) < 2 {
		return 0
	}
	return uint16(r.Data[0])<<8 | uint16(r.Data[1])
}

func readField(line string, off, digits int) (uint32, error) {
	if len(line) < off {
		return ReadHex("", digits)
	}
	return ReadHex(line[off:], digits)
}

// ParseRecord parses a single line. ok is false if the line does not carry
// the record marker and should be skipped.
func ParseRecord(line string) (rec *Record, ok bool, err error) {
	if len(line) == 0 || line[0] != marker {
		return nil, false, nil
	}
	if len(line) < headerDigits {
		return nil, true, errors.Wrapf(ErrMalformedRecord, "record header needs %d characters, have %d", headerDigits, len(line))
	}

	count, _ := readField(line, 1, 2)
	addr, _ := readField(line, 3, 4)
	rec = &Record{
		Count:   byte(count),
		Address: uint16(addr),
		Type:    recordType(line[7:9]),
	}

	var n int
	switch rec.Type {
	case Data:
		n = int(rec.Count)
	case ExtendedLinearAddress:
		n = 2
	default:
		return rec, true, nil
	}

	rec.Data = make([]byte, n)
	for i := range rec.Data {
		b, err := readField(line, headerDigits+2*i, 2)
		if err != nil {
			return nil, true, errors.Wrapf(err, "%s record declares %d bytes, line ends at byte %d", rec.Type, n, i)
		}
		rec.Data[i] = byte(b)
	}
	return rec, true, nil
}

// Reader returns the records of a HEX text stream in order.
type Reader struct {
	sc     *bufio.Scanner
	lineno int
}

func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	return &Reader{sc: sc}
}

// Line is the number of the line the last record came from.
func (r *Reader) Line() int {
	return r.lineno
}

// Next returns the next record, or io.EOF once the input is exhausted.
// An EOF record is returned like any other; stopping on it is up to the
// caller.
func (r *Reader) Next() (*Record, error) {
	for r.sc.Scan() {
		r.lineno++
		rec, ok, err := ParseRecord(r.sc.Text())
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", r.lineno)
		}
		if !ok {
			glog.V(3).Infof("line %d: no record marker, skipped", r.lineno)
			continue
		}
		glog.V(2).Infof("line %d: %s record, %d bytes at 0x%04x", r.lineno, rec.Type, rec.Count, rec.Address)
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "can't read line %d", r.lineno+1)
	}
	return nil, io.EOF
}
