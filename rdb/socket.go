package rdb

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/kvengine/store"
)

const eofMarkerLen = 40 // 40 hex bytes, spec §6 "Socket-based snapshot transfer"

// WriteSocketSnapshot writes the `$EOF:` framed form of the save pipeline
// used for replication-follower transfer (spec §6): a prologue of
// "$EOF:" followed by 40 random hex bytes and "\r\n", then the ordinary
// RDB payload, then the same 40 hex bytes repeated so the receiver can
// find the end of the stream without parsing RDB opcodes.
func WriteSocketSnapshot(w io.Writer, st *store.Store, aux AuxFields, opts WriteOptions) error {
	marker, err := randomHexMarker()
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "$EOF:%s\r\n", marker); err != nil {
		return err
	}
	if err := Save(w, st, aux, opts); err != nil {
		return err
	}
	_, err = io.WriteString(w, marker)
	return err
}

// ReadSocketSnapshot reads a `$EOF:`-framed snapshot written by
// WriteSocketSnapshot: it reads the prologue to learn the marker, then
// reads the RDB payload up to (but not including) the trailing repeat of
// that marker.
func ReadSocketSnapshot(r io.Reader, opts Options) (*store.Store, AuxFields, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, AuxFields{}, err
	}

	const prefix = "$EOF:"
	if len(raw) < len(prefix)+eofMarkerLen+2 || string(raw[:len(prefix)]) != prefix {
		return nil, AuxFields{}, ErrBadMagic
	}
	marker := raw[len(prefix) : len(prefix)+eofMarkerLen]
	rest := raw[len(prefix)+eofMarkerLen:]
	if len(rest) < 2 || rest[0] != '\r' || rest[1] != '\n' {
		return nil, AuxFields{}, ErrBadMagic
	}
	rest = rest[2:]

	if len(rest) < eofMarkerLen || string(rest[len(rest)-eofMarkerLen:]) != string(marker) {
		return nil, AuxFields{}, ErrBadMagic
	}
	payload := rest[:len(rest)-eofMarkerLen]

	return loadBytes(payload, opts)
}

func randomHexMarker() (string, error) {
	raw := make([]byte, eofMarkerLen/2)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
