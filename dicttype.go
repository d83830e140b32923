package store

import "github.com/cespare/xxhash/v2"

// DictType is the capability interface a Dict consults for everything that
// depends on what its keys and values mean: hashing, comparison, and
// destruction (spec §6 "Dictionary callback interface"). The methods are
// called unconditionally; passing a nil DictType to Create selects
// BytesDictType (byte-wise key compare, no value destructor).
// Runtime polymorphism here is unavoidable because the main table, the
// expires table, and any host-defined side table share this container with
// different key/value semantics (spec §9 "Type descriptor").
type DictType interface {
	// HashKey computes the bucket hash for key. Implementations are expected
	// to mix in the dictionary's seed (the one passed to Create) for keyed
	// hashing.
	HashKey(seed uint64, key []byte) uint64

	// CompareKeys reports whether a and b are the same key.
	CompareKeys(a, b []byte) bool

	// DestroyValue releases resources held by a value when an entry holding
	// it is released.
	DestroyValue(value any)
}

// BytesDictType is the default DictType for plain []byte-keyed dictionaries
// with no value destructor: byte-wise key comparison, xxhash
// for hashing (keyed by XOR-mixing the dictionary's seed in, since the
// vendored xxhash implementation does not expose a seeded variant), and no
// value destructor. This is what Store uses for both the main and the
// expires dictionary of every database.
type BytesDictType struct{}

func (BytesDictType) HashKey(seed uint64, key []byte) uint64 {
	return xxhash.Sum64(key) ^ seed
}

func (BytesDictType) CompareKeys(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (BytesDictType) DestroyValue(any) {}
