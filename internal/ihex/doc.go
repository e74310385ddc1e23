// Package ihex reads Intel HEX records the way small bootloader tools do:
// leniently, one line at a time.
//
// Lines that do not start with ':' are skipped. The trailing record checksum
// is not checked, and characters that are not hex digits decode as zero.
// A line that claims to be a record but is too short for its declared
// byte count is reported as ErrMalformedRecord instead of being read past.
//
// Only the record types a 16-bit flash image needs are interpreted:
//
//	00  Data
//	01  EOF
//	04  ExtendedLinearAddress
//
// Everything else is returned with its raw type and no payload.
package ihex
