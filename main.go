// Command hex2dfu converts an Intel HEX image for a PIC16F1454 into a binary
// for the USB DFU bootloader: program memory sealed with the bootloader's
// application checksum, followed by a DFU suffix.
//
//	hex2dfu [flags] <input_ihex> <output_dfu>
//	hex2dfu -verify [flags] <input_dfu>
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/yath/hex2dfu/config"
)

var configFile = flag.String("config", "", "optional config file with vendor-id, product-id and device-version")
var strict = flag.Bool("strict", false, "reject input with bad record checksums, lengths or a missing EOF record")
var lzssInput = flag.Bool("lzss", false, "input file is LZSS compressed")
var intermediatesPrefix = flag.String("intermediates_prefix", "", "if nonempty, writes intermediate files with this prefix")
var verify = flag.Bool("verify", false, "verify an existing DFU file instead of converting")

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <input_ihex> <output_dfu>\n       %s -verify [flags] <input_dfu>\n", os.Args[0], os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Set("logtostderr", "true")
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load(*configFile)
	if err != nil {
		glog.Exitf("can't load configuration: %v", err)
	}

	opts := &options{
		cfg:                 cfg,
		lzss:                *lzssInput,
		strict:              *strict,
		intermediatesPrefix: *intermediatesPrefix,
	}

	if *verify {
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(2)
		}
		if err := verifyFile(flag.Arg(0), opts); err != nil {
			glog.Exitf("ERROR: %v", err)
		}
		return
	}

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	if err := convertFile(flag.Arg(0), flag.Arg(1), opts); err != nil {
		glog.Exitf("ERROR: %v", err)
	}
}
