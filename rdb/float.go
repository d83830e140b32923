package rdb

import (
	"math"
	"strconv"

	"github.com/kvengine/store/internal/buf"
)

const (
	legacyFloatNaN    = 253
	legacyFloatPosInf = 254
	legacyFloatNegInf = 255
)

// appendLegacyFloat writes the historical ASCII-decimal float encoding
// (spec §4.2 "Floating-point encoding", legacy variant): a one-byte
// sentinel for NaN/+Inf/-Inf, else a length byte followed by the `%.17g`
// ASCII rendering.
func appendLegacyFloat(b *buf.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		b.AppendByte(legacyFloatNaN)
		return
	case math.IsInf(f, 1):
		b.AppendByte(legacyFloatPosInf)
		return
	case math.IsInf(f, -1):
		b.AppendByte(legacyFloatNegInf)
		return
	}
	s := strconv.FormatFloat(f, 'g', 17, 64)
	b.AppendByte(byte(len(s)))
	b.AppendRaw([]byte(s))
}

func readLegacyFloat(d *buf.Decoder) (float64, error) {
	n, err := d.Byte()
	if err != nil {
		return 0, err
	}
	switch n {
	case legacyFloatNaN:
		return math.NaN(), nil
	case legacyFloatPosInf:
		return math.Inf(1), nil
	case legacyFloatNegInf:
		return math.Inf(-1), nil
	}
	raw, err := d.Raw(int(n))
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(string(raw), 64)
}

// appendBinaryFloat writes the binary64 variant used by writers targeting
// version >= 8 (spec §4.2 "Writers choose binary in version >= 8").
func appendBinaryFloat(b *buf.Builder, f float64) {
	b.AppendFloat64LE(f)
}

func readBinaryFloat(d *buf.Decoder) (float64, error) {
	return d.Float64LE()
}
