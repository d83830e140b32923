package rdb

import (
	"fmt"
	"io"
	"time"

	"github.com/kvengine/store"
	"github.com/kvengine/store/internal/buf"
)

// Load runs the full load pipeline (spec §4.2 "Load pipeline") against a
// freshly read buffer and returns the reconstructed Store and the
// auxiliary fields recognized from the preamble. Integrity failures
// (bad magic, unknown required opcode, CRC mismatch) are returned as
// errors wrapping the sentinels in errors.go; per spec §7 these are
// supposed to be fatal for a real server, so callers embedding this in a
// server's startup path should treat any returned error as fatal rather
// than attempt to continue serving a partial database. MustLoad does
// that for callers that want the spec's literal behavior.
func Load(r io.Reader, opts Options) (*store.Store, AuxFields, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, AuxFields{}, err
	}
	return loadBytes(raw, opts)
}

// MustLoad calls Load and panics on any error, matching spec §4.2's
// "terminate the process" load-failure behavior literally.
func MustLoad(r io.Reader, opts Options) (*store.Store, AuxFields) {
	st, aux, err := Load(r, opts)
	if err != nil {
		panic(err)
	}
	return st, aux
}

// Options configures loading, chiefly the database count to pre-allocate
// (a Store is fixed-size once constructed).
type Options struct {
	Databases int
	HashSeed  uint64
}

func (o Options) norm() Options {
	if o.Databases <= 0 {
		o.Databases = 16
	}
	return o
}

func loadBytes(raw []byte, opts Options) (*store.Store, AuxFields, error) {
	opts = opts.norm()
	if len(raw) < 9 {
		return nil, AuxFields{}, decodeErrf(0, ErrBadMagic)
	}
	if string(raw[:5]) != magicPrefix {
		return nil, AuxFields{}, decodeErrf(0, ErrBadMagic)
	}
	version := string(raw[5:9])

	if len(raw) < 9+8 {
		return nil, AuxFields{}, decodeErrf(9, io.ErrUnexpectedEOF)
	}
	payload := raw[9 : len(raw)-8]
	trailer := raw[len(raw)-8:]

	d := buf.NewDecoder(payload)
	st := store.NewStore(store.Options{Databases: opts.Databases, HashSeed: opts.HashSeed})
	aux := AuxFields{Extra: map[string]string{}}

	var (
		curDB        *store.Database
		pendingExAt  *time.Time
		pendingIdle  *uint64
		pendingFreq  *byte
	)
	resetScratch := func() {
		pendingExAt = nil
		pendingIdle = nil
		pendingFreq = nil
	}

	for {
		off := int64(d.Off())
		opByte, err := d.Byte()
		if err != nil {
			return nil, AuxFields{}, decodeErrf(off, err)
		}

		switch Opcode(opByte) {
		case OpEOF:
			goto eof

		case OpSelectDB:
			lr, err := readLength(&d)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			if int(lr.Value) >= st.NumDatabases() {
				return nil, AuxFields{}, decodeErrf(off, fmt.Errorf("rdb: database index %d out of range", lr.Value))
			}
			curDB = st.DB(int(lr.Value))

		case OpResizeDB:
			if _, err := readLength(&d); err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			if _, err := readLength(&d); err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			// Hints only; this implementation does not pre-size.

		case OpAux:
			k, err := readString(&d)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			v, err := readString(&d)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			applyAux(&aux, string(k), string(v))

		case OpExpireMS:
			ms, err := d.LE64()
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			t := time.UnixMilli(int64(ms))
			pendingExAt = &t

		case OpExpireSec:
			sec, err := d.LE32()
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			t := time.Unix(int64(sec), 0)
			pendingExAt = &t

		case OpIdle:
			lr, err := readLength(&d)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			pendingIdle = &lr.Value

		case OpFreq:
			f, err := d.Byte()
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			pendingFreq = &f

		default:
			typ := ValueType(opByte)
			if curDB == nil {
				return nil, AuxFields{}, decodeErrf(off, ErrUnknownOpcode)
			}
			key, err := readString(&d)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			val, err := DecodeValue(&d, typ)
			if err != nil {
				return nil, AuxFields{}, decodeErrf(off, err)
			}
			curDB.Main.Replace(key, val)
			if pendingExAt != nil {
				curDB.SetExpireAt(key, *pendingExAt)
			}
			if pendingIdle != nil || pendingFreq != nil {
				if e, ok := curDB.Main.Find(key); ok {
					if pendingIdle != nil {
						e.SetIdle(*pendingIdle)
					}
					if pendingFreq != nil {
						e.SetFreq(*pendingFreq)
					}
				}
			}
			resetScratch()
		}
	}

eof:
	if version >= "0005" {
		var crc crcWriter
		crc.update(raw[:9])
		crc.update(payload)
		recorded := buf.NewDecoder(trailer)
		got, _ := recorded.LE64()
		if got != 0 && got != crc.value() {
			return nil, AuxFields{}, decodeErrf(int64(len(raw)-8), ErrChecksumMismatch)
		}
	}

	return st, aux, nil
}

func applyAux(aux *AuxFields, k, v string) {
	switch k {
	case "redis-ver":
		aux.ServerVersion = v
	case "redis-bits":
		aux.PointerWidth = v
	case "repl-stream-db":
		aux.ReplStreamID = v
	case "repl-offset":
		aux.ReplOffset = v
	case "repl-id":
		aux.ReplRunID = v
	default:
		aux.Extra[k] = v
	}
}
