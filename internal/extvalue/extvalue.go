// Package extvalue implements the opaque extension-module value envelope
// referenced by spec §4.2's "extension-module opaque" value-encoding
// variant. The source format simply hands a length-prefixed blob to
// whatever extension module registered the numeric type identifier; here
// that blob is a msgpack-encoded envelope, following the teacher's own
// pattern in encoding.go of msgpack-marshaling opaque values before they
// hit a byte-oriented store.
package extvalue

import "github.com/vmihailenco/msgpack/v5"

// Envelope is the decoded form of an extension value's payload: a schema
// version tag plus an arbitrary field map, so unknown extension modules
// can still be carried through a save/load cycle without this package
// understanding their internal shape.
type Envelope struct {
	SchemaVersion int            `msgpack:"v"`
	Fields        map[string]any `msgpack:"f"`
}

// Encode marshals an Envelope to the bytes stored as an extension value's
// payload.
func Encode(e Envelope) ([]byte, error) {
	return msgpack.Marshal(e)
}

// Decode unmarshals a payload previously produced by Encode. Unknown
// extension-module identifiers are the caller's concern (spec §4.2
// "Failure semantics": "unknown extension-module identifiers during load
// abort") — Decode itself only fails on malformed msgpack.
func Decode(payload []byte) (Envelope, error) {
	var e Envelope
	err := msgpack.Unmarshal(payload, &e)
	return e, err
}
