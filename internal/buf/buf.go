// Package buf provides the low-level append/decode byte-buffer helpers
// used by the snapshot serializer. Adapted from the
// teacher's byteutil.go: the same grow-by-doubling Builder/Decoder pair,
// generalized with the fixed-width big/little-endian and float64 accessors
// the RDB wire format needs (network order for length fields, little-endian
// for timestamps and binary doubles, per spec §6).
package buf

import (
	"encoding/binary"
	"errors"
	"math"
)

var ErrShortRead = errors.New("buf: short read")
var ErrInvalidVarint = errors.New("buf: invalid uvarint")

func ensureCapacity(b []byte, minCap int) []byte {
	c := cap(b)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := b
		b = make([]byte, len(old), c)
		copy(b, old)
	}
	return b
}

func grow(b []byte, n int) (int, []byte) {
	off := len(b)
	newLen := off + n
	b = ensureCapacity(b, newLen)
	return off, b[:newLen]
}

// Builder is an append-only byte buffer that grows by doubling.
type Builder struct {
	Buf []byte
}

func (bb *Builder) Len() int { return len(bb.Buf) }

func (bb *Builder) Grow(n int) (off int) {
	off, bb.Buf = grow(bb.Buf, n)
	return
}

func (bb *Builder) Write(b []byte) (int, error) {
	off := bb.Grow(len(b))
	copy(bb.Buf[off:], b)
	return len(b), nil
}

func (bb *Builder) WriteByte(v byte) error {
	off := bb.Grow(1)
	bb.Buf[off] = v
	return nil
}

func (bb *Builder) AppendByte(v byte) {
	off := bb.Grow(1)
	bb.Buf[off] = v
}

func (bb *Builder) AppendRaw(v []byte) {
	off := bb.Grow(len(v))
	copy(bb.Buf[off:], v)
}

// AppendBE32/64 append in network byte order, for RDB's 32/64-bit length
// fields (spec §4.2 compact length encoding, "10" prefix forms).
func (bb *Builder) AppendBE32(v uint32) {
	off := bb.Grow(4)
	binary.BigEndian.PutUint32(bb.Buf[off:], v)
}

func (bb *Builder) AppendBE64(v uint64) {
	off := bb.Grow(8)
	binary.BigEndian.PutUint64(bb.Buf[off:], v)
}

// AppendLE16/32/64 append in little-endian order, used for RDB integer
// special encodings and the binary-double value encoding.
func (bb *Builder) AppendLE16(v uint16) {
	off := bb.Grow(2)
	binary.LittleEndian.PutUint16(bb.Buf[off:], v)
}

func (bb *Builder) AppendLE32(v uint32) {
	off := bb.Grow(4)
	binary.LittleEndian.PutUint32(bb.Buf[off:], v)
}

func (bb *Builder) AppendLE64(v uint64) {
	off := bb.Grow(8)
	binary.LittleEndian.PutUint64(bb.Buf[off:], v)
}

func (bb *Builder) AppendFloat64LE(f float64) {
	bb.AppendLE64(math.Float64bits(f))
}

func (bb *Builder) AppendUvarint(v uint64) {
	off := bb.Grow(binary.MaxVarintLen64)
	n := binary.PutUvarint(bb.Buf[off:], v)
	bb.Buf = bb.Buf[:off+n]
}

// Decoder reads sequentially from a fixed byte slice, tracking the offset
// into the original buffer for error reporting.
type Decoder struct {
	Orig []byte
	Buf  []byte
}

func NewDecoder(b []byte) Decoder {
	return Decoder{Orig: b, Buf: b}
}

func (d *Decoder) Off() int { return len(d.Orig) - len(d.Buf) }

func (d *Decoder) Remaining() int { return len(d.Buf) }

func (d *Decoder) Byte() (byte, error) {
	if len(d.Buf) < 1 {
		return 0, ErrShortRead
	}
	v := d.Buf[0]
	d.Buf = d.Buf[1:]
	return v, nil
}

func (d *Decoder) Raw(n int) ([]byte, error) {
	if len(d.Buf) < n {
		return nil, ErrShortRead
	}
	v := d.Buf[:n]
	d.Buf = d.Buf[n:]
	return v, nil
}

func (d *Decoder) BE32() (uint32, error) {
	v, err := d.Raw(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(v), nil
}

func (d *Decoder) BE64() (uint64, error) {
	v, err := d.Raw(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(v), nil
}

func (d *Decoder) LE16() (uint16, error) {
	v, err := d.Raw(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(v), nil
}

func (d *Decoder) LE32() (uint32, error) {
	v, err := d.Raw(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v), nil
}

func (d *Decoder) LE64() (uint64, error) {
	v, err := d.Raw(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(v), nil
}

func (d *Decoder) Float64LE() (float64, error) {
	v, err := d.LE64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (d *Decoder) Uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.Buf)
	if n <= 0 {
		return 0, ErrInvalidVarint
	}
	d.Buf = d.Buf[n:]
	return v, nil
}

func (d *Decoder) Uvarinti() (int, error) {
	v, err := d.Uvarint()
	if err != nil {
		return 0, err
	}
	if v > math.MaxInt {
		return 0, errors.New("buf: value does not fit into int")
	}
	return int(v), nil
}
