package rdb

import (
	"strconv"

	"github.com/kvengine/store/internal/buf"
)

// appendString writes a byte string per spec §4.2 "String encoding":
// prefer the integer special encoding when the bytes are a short decimal
// integer, else try LZF compression when enabled and the string is long
// enough to be worth it, else fall back to length-prefixed raw bytes.
func appendString(b *buf.Builder, s []byte, compress bool) {
	if appendIntegerEncoding(b, s) {
		return
	}
	if compress && len(s) > 20 {
		if appendLZFEncoding(b, s) {
			return
		}
	}
	appendLength(b, uint64(len(s)))
	b.AppendRaw(s)
}

// appendIntegerEncoding attempts the integer special encoding (spec §4.2
// step 1): applies only when the string IS the canonical decimal form of
// an integer fitting in 8/16/32 bits and is at most 11 bytes long.
func appendIntegerEncoding(b *buf.Builder, s []byte) bool {
	if len(s) == 0 || len(s) > 11 {
		return false
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return false
	}
	if strconv.FormatInt(n, 10) != string(s) {
		return false // not canonical (leading zero, "+5", etc.)
	}

	switch {
	case n >= -128 && n <= 127:
		appendSpecialEncoding(b, EncInt8)
		b.AppendByte(byte(int8(n)))
	case n >= -32768 && n <= 32767:
		appendSpecialEncoding(b, EncInt16)
		b.AppendLE16(uint16(int16(n)))
	case n >= -2147483648 && n <= 2147483647:
		appendSpecialEncoding(b, EncInt32)
		b.AppendLE32(uint32(int32(n)))
	default:
		return false
	}
	return true
}

func appendLZFEncoding(b *buf.Builder, s []byte) bool {
	compressed := lzfCompress(s)
	if compressed == nil || len(compressed) >= len(s) {
		return false
	}
	appendSpecialEncoding(b, EncLZF)
	appendLength(b, uint64(len(compressed)))
	appendLength(b, uint64(len(s)))
	b.AppendRaw(compressed)
	return true
}

// readString decodes a byte string written by appendString.
func readString(d *buf.Decoder) ([]byte, error) {
	lr, err := readLength(d)
	if err != nil {
		return nil, err
	}
	if !lr.IsSpecial {
		return d.Raw(int(lr.Value))
	}

	switch lr.SpecialID {
	case EncInt8:
		v, err := d.Byte()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int8(v)), 10)), nil

	case EncInt16:
		v, err := d.LE16()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int16(v)), 10)), nil

	case EncInt32:
		v, err := d.LE32()
		if err != nil {
			return nil, err
		}
		return []byte(strconv.FormatInt(int64(int32(v)), 10)), nil

	case EncLZF:
		clen, err := readLength(d)
		if err != nil {
			return nil, err
		}
		ulen, err := readLength(d)
		if err != nil {
			return nil, err
		}
		compressed, err := d.Raw(int(clen.Value))
		if err != nil {
			return nil, err
		}
		return lzfDecompress(compressed, int(ulen.Value))

	default:
		return nil, ErrUnknownOpcode
	}
}
