package store

// Find looks up key and returns its entry (spec §4.1 "find(key)"). Probes
// t0 first, then t1 if a rehash is in progress, matching the original's
// "lookup must check the table being migrated into" rule.
func (d *Dict) Find(key []byte) (*Entry, bool) {
	d.maybeRehashStep()
	return d.find(key)
}

// find is the non-mutating, non-rehashing-step probe used internally by
// Insert/Replace/PutOrGet so they can check existence without triggering a
// second piggyback step.
func (d *Dict) find(key []byte) (*Entry, bool) {
	if d.t0.allocated() {
		h := d.typ.HashKey(d.seed, key)
		if e := probeBucket(d.t0.heads[d.t0.bucketIndex(h)], key, d.typ); e != nil {
			return e, true
		}
		if d.isRehashing() {
			if e := probeBucket(d.t1.heads[d.t1.bucketIndex(h)], key, d.typ); e != nil {
				return e, true
			}
		}
	}
	return nil, false
}

// Get is a convenience wrapper returning just the value.
func (d *Dict) Get(key []byte) (any, bool) {
	e, ok := d.Find(key)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Contains reports whether key is present, without piggybacking a rehash
// step (used by code that already called Find/Insert this request and
// doesn't want a second step).
func (d *Dict) Contains(key []byte) bool {
	_, ok := d.find(key)
	return ok
}

func probeBucket(head *Entry, key []byte, typ DictType) *Entry {
	for e := head; e != nil; e = e.next {
		if typ.CompareKeys(e.key, key) {
			return e
		}
	}
	return nil
}
