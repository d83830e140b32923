package rdb

import (
	"fmt"
	"io"

	"github.com/kvengine/store"
	"github.com/kvengine/store/internal/buf"
)

const (
	magicPrefix    = "REDIS"
	currentVersion = "0011"
)

// AuxFields carries the snapshot preamble's named metadata (spec §4.2
// "Auxiliary section"): server version, pointer width, creation time,
// memory usage, and replication identifiers, plus a residual map for any
// other keys the host wants to round-trip without this package knowing
// their meaning.
type AuxFields struct {
	ServerVersion string
	PointerWidth  string // "32" or "64"
	CreationTime  int64  // unix seconds
	UsedMemory    int64
	ReplStreamID  string
	ReplOffset    string
	ReplRunID     string

	Extra map[string]string
}

func (a AuxFields) pairs() [][2]string {
	var out [][2]string
	add := func(k, v string) {
		if v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	add("redis-ver", a.ServerVersion)
	add("redis-bits", a.PointerWidth)
	if a.CreationTime != 0 {
		add("ctime", fmt.Sprintf("%d", a.CreationTime))
	}
	if a.UsedMemory != 0 {
		add("used-mem", fmt.Sprintf("%d", a.UsedMemory))
	}
	add("repl-stream-db", a.ReplStreamID)
	add("repl-offset", a.ReplOffset)
	add("repl-id", a.ReplRunID)
	for k, v := range a.Extra {
		out = append(out, [2]string{k, v})
	}
	return out
}

// WriteOptions configures one save pass.
type WriteOptions struct {
	Compress bool // attempt LZF compression of long strings

	// DisableChecksum writes a zero CRC64 trailer instead of a real one
	// (spec §4.2 "zero if checksum disabled on write"). The zero value
	// keeps the checksum enabled; set this explicitly to turn it off.
	DisableChecksum bool
}

func (o WriteOptions) norm() WriteOptions {
	return o
}

func (o WriteOptions) checksumEnabled() bool {
	return !o.DisableChecksum
}

// Save runs the full save pipeline (spec §4.2 "Save pipeline"): magic,
// aux fields, then each non-empty database's entries via a safe iterator
// (suspending rehash for the database's duration), then EOF and CRC64.
func Save(w io.Writer, st *store.Store, aux AuxFields, opts WriteOptions) error {
	opts = opts.norm()
	crc := &crcWriter{}

	writeChunk := func(p []byte) error {
		if _, err := w.Write(p); err != nil {
			return err
		}
		if opts.checksumEnabled() {
			crc.update(p)
		}
		return nil
	}

	var hdr buf.Builder
	hdr.AppendRaw([]byte(magicPrefix + currentVersion))
	if err := writeChunk(hdr.Buf); err != nil {
		return err
	}

	for _, kv := range aux.pairs() {
		var b buf.Builder
		b.AppendByte(byte(OpAux))
		appendString(&b, []byte(kv[0]), opts.Compress)
		appendString(&b, []byte(kv[1]), opts.Compress)
		if err := writeChunk(b.Buf); err != nil {
			return err
		}
	}

	for i := 0; i < st.NumDatabases(); i++ {
		db := st.DB(i)
		if db.Main.Len() == 0 {
			continue
		}
		if err := saveDatabase(writeChunk, db, opts); err != nil {
			return err
		}
	}

	var tail buf.Builder
	tail.AppendByte(byte(OpEOF))
	if err := writeChunk(tail.Buf); err != nil {
		return err
	}

	var crcBuf buf.Builder
	if opts.checksumEnabled() {
		crcBuf.AppendLE64(crc.value())
	} else {
		crcBuf.AppendLE64(0)
	}
	_, err := w.Write(crcBuf.Buf)
	return err
}

func saveDatabase(writeChunk func([]byte) error, db *store.Database, opts WriteOptions) error {
	var sel buf.Builder
	sel.AppendByte(byte(OpSelectDB))
	appendLength(&sel, uint64(db.Index))
	if err := writeChunk(sel.Buf); err != nil {
		return err
	}

	var resize buf.Builder
	resize.AppendByte(byte(OpResizeDB))
	appendLength(&resize, uint64(db.Main.Len()))
	appendLength(&resize, uint64(db.Expires.Len()))
	if err := writeChunk(resize.Buf); err != nil {
		return err
	}

	it := db.Main.NewSafeIterator()
	defer it.Release()

	for it.Next() {
		e := it.Entry()
		var b buf.Builder

		if at, ok := db.ExpireAt(e.Key()); ok {
			b.AppendByte(byte(OpExpireMS))
			b.AppendLE64(uint64(at.UnixMilli()))
		}
		if idle, ok := e.Idle(); ok {
			b.AppendByte(byte(OpIdle))
			appendLength(&b, idle)
		}
		if freq, ok := e.Freq(); ok {
			b.AppendByte(byte(OpFreq))
			b.AppendByte(freq)
		}

		typ, err := ValueTypeOf(e.Value())
		if err != nil {
			return err
		}
		b.AppendByte(byte(typ))
		appendString(&b, e.Key(), opts.Compress)
		if err := EncodeValue(&b, e.Value(), opts.Compress); err != nil {
			return err
		}

		if err := writeChunk(b.Buf); err != nil {
			return err
		}
	}

	return nil
}
