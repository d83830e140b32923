package store

// Remove deletes key and destroys its value via DictType.DestroyValue (spec
// §4.1 "remove(key)"). Returns ErrKeyNotFound if the key is absent.
func (d *Dict) Remove(key []byte) error {
	e, err := d.unlinkEntry(key)
	if err != nil {
		return err
	}
	d.typ.DestroyValue(e.value)
	return nil
}

// Unlink deletes key without destroying its value, returning the detached
// Entry so the caller can take ownership of it (spec §4.1 "unlink(key)":
// "hands the entry to the caller instead of destroying the value",
// typically so a bio free-value job can finalize it off the request path).
func (d *Dict) Unlink(key []byte) (*Entry, error) {
	return d.unlinkEntry(key)
}

func (d *Dict) unlinkEntry(key []byte) (*Entry, error) {
	d.maybeRehashStep()

	if tbl := &d.t0; tbl.allocated() {
		h := d.typ.HashKey(d.seed, key)
		if e := unlinkFromBucket(tbl, tbl.bucketIndex(h), key, d.typ); e != nil {
			return e, nil
		}
		if d.isRehashing() {
			if e := unlinkFromBucket(&d.t1, d.t1.bucketIndex(h), key, d.typ); e != nil {
				return e, nil
			}
		}
	}
	return nil, keyErrf("remove", key, ErrKeyNotFound)
}

func unlinkFromBucket(tbl *bucketTable, idx uint64, key []byte, typ DictType) *Entry {
	var prev *Entry
	for e := tbl.heads[idx]; e != nil; e = e.next {
		if typ.CompareKeys(e.key, key) {
			if prev == nil {
				tbl.heads[idx] = e.next
			} else {
				prev.next = e.next
			}
			e.next = nil
			tbl.used--
			return e
		}
		prev = e
	}
	return nil
}

// Release destroys an entry previously detached via Unlink: it runs
// DestroyValue on its value. Release does not touch the dictionary, since
// the entry is already unlinked (spec §4.1 "release(entry)").
func (d *Dict) Release(e *Entry) {
	if e == nil {
		return
	}
	d.typ.DestroyValue(e.value)
}

// Empty removes every entry from both tables, freeing their backing
// storage (spec §4.1 "empty()": used by FLUSHDB-equivalent operations).
// DestroyValue is invoked for every remaining value.
func (d *Dict) Empty() {
	for _, tbl := range []*bucketTable{&d.t0, &d.t1} {
		if !tbl.allocated() {
			continue
		}
		for _, head := range tbl.heads {
			for e := head; e != nil; {
				next := e.next
				d.typ.DestroyValue(e.value)
				e = next
			}
		}
		tbl.free()
	}
	d.rehashIdx = -1
}
