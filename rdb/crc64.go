package rdb

import "hash/crc64"

// crc64Table uses the stdlib ISO polynomial. No pack example provides a
// CRC64 implementation (the closest available hashing dependency, xxhash,
// is not CRC-based and would not interoperate with the snapshot format's
// documented trailer), so this one area is hand-rolled from the standard
// library per spec §4.2 "an 8-byte little-endian CRC64 of every preceding
// byte".
var crc64Table = crc64.MakeTable(crc64.ISO)

// crcWriter maintains a running CRC64 over the bytes passed to update
// (spec §4.2 "Save pipeline" step 1). It wraps no writer: callers feed it
// each chunk they write.
type crcWriter struct {
	sum uint64
}

func (c *crcWriter) update(p []byte) {
	c.sum = crc64.Update(c.sum, crc64Table, p)
}

func (c *crcWriter) value() uint64 { return c.sum }
