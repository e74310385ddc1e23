package main

import (
	"bytes"
	"fmt"

	"github.com/golang/glog"

	"github.com/yath/hex2dfu/config"
	"github.com/yath/hex2dfu/internal/dfu"
	"github.com/yath/hex2dfu/internal/flash"
)

type options struct {
	cfg                 *config.Config
	lzss                bool
	strict              bool
	intermediatesPrefix string
}

// hex2dfu turns HEX text into a sealed program memory image followed by a
// DFU suffix. Nothing is returned unless every stage succeeds.
func hex2dfu(hex []byte, opts *options) ([]byte, error) {
	img, err := flash.Load(bytes.NewReader(hex))
	if err != nil {
		return nil, fmt.Errorf("supplied input file is faulty: %w", err)
	}

	sum, err := img.Seal()
	if err != nil {
		return nil, err
	}
	glog.Infof("application checksum 0x%04x at 0x%04x", sum, flash.ChecksumAddress)

	if err := maybeWriteIntermediate(opts, img.Bytes(), "flash.bin"); err != nil {
		return nil, fmt.Errorf("can't write flash image: %w", err)
	}

	cfg := opts.cfg
	out, suffix, err := dfu.Append(img.Bytes(), dfu.NewSuffix(cfg.VendorID, cfg.ProductID, cfg.DeviceVersion))
	if err != nil {
		return nil, err
	}
	glog.Infof("DFU suffix for %04x:%04x, CRC 0x%08x", suffix.Vendor, suffix.Product, suffix.CRC)
	return out, nil
}

// convertFile converts in to out. out is created before any processing and
// is only replaced once the whole conversion has succeeded.
func convertFile(in, out string, opts *options) error {
	hex, err := readInput(in, opts)
	if err != nil {
		return err
	}

	o, err := createOutput(out)
	if err != nil {
		return err
	}

	data, err := hex2dfu(hex, opts)
	if err != nil {
		o.abort()
		return err
	}
	return o.commit(data)
}

// verifyFile checks an existing DFU file: suffix signature, length and CRC,
// the USB IDs it was built for, and the application checksum inside.
func verifyFile(path string, opts *options) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}

	suffix, payload, err := dfu.Verify(data)
	if err != nil {
		return err
	}
	cfg := opts.cfg
	if err := suffix.Matches(cfg.VendorID, cfg.ProductID, cfg.DeviceVersion); err != nil {
		return err
	}
	glog.Infof("DFU suffix OK: %04x:%04x release %04x, CRC 0x%08x", suffix.Vendor, suffix.Product, suffix.Device, suffix.CRC)

	img, ok := flash.ImageFromBytes(payload)
	if !ok {
		return fmt.Errorf("image is %d bytes, want %d", len(payload), flash.Size)
	}
	if err := img.Verify(); err != nil {
		return err
	}
	glog.Infof("application checksum OK: 0x%04x", img.Word(flash.ChecksumAddress))
	return nil
}
