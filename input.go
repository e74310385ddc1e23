package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/blacktop/lzss"
	"github.com/golang/glog"
	"github.com/marcinbor85/gohex"
)

type inputError struct {
	path string
	err  error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("unable to open input file %s: %v", e.path, e.err)
}

func (e *inputError) Unwrap() error {
	return e.err
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &inputError{path, err}
	}
	glog.Infof("read %d bytes from %s", len(data), path)
	return data, nil
}

// readInput returns the HEX text of the input file, decompressing it first
// if it is LZSS packed.
func readInput(path string, opts *options) ([]byte, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if opts.lzss {
		n := len(data)
		data = lzss.Decompress(data)
		glog.Infof("decompressed %d LZSS bytes to %d", n, len(data))
		if err := maybeWriteIntermediate(opts, data, "hex"); err != nil {
			return nil, fmt.Errorf("can't write decompressed input: %w", err)
		}
	}

	if opts.strict {
		if err := checkStrict(data); err != nil {
			return nil, fmt.Errorf("strict check of %s failed: %w", path, err)
		}
	}
	return data, nil
}

// checkStrict runs the input through a full Intel HEX parser, which rejects
// bad record checksums, wrong record lengths, overlapping data and a missing
// EOF record. The conversion itself never looks at any of those.
func checkStrict(data []byte) error {
	mem := gohex.NewMemory()
	if err := mem.ParseIntelHex(bytes.NewReader(data)); err != nil {
		return err
	}
	for _, s := range mem.GetDataSegments() {
		glog.V(1).Infof("segment [0x%08x-0x%08x]", s.Address, s.Address+uint32(len(s.Data))-1)
	}
	return nil
}
