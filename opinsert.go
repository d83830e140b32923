package store

// Insert adds a new key/value pair. Returns ErrKeyExists if the key is
// already present (spec §4.1 "insert(key, value)": "fails if the key is
// already present").
func (d *Dict) Insert(key []byte, value any) error {
	d.maybeRehashStep()

	if _, ok := d.find(key); ok {
		return keyErrf("insert", key, ErrKeyExists)
	}
	if err := d.autoExpandCheck(); err != nil {
		return err
	}

	d.addNew(key, value)
	return nil
}

// Replace inserts a new key or overwrites the value of an existing one
// (spec §4.1 "replace(key, value)"). Returns true if the key was added,
// false if an existing value was overwritten. The old value is passed to
// DictType.DestroyValue before being dropped.
func (d *Dict) Replace(key []byte, value any) bool {
	d.maybeRehashStep()

	if e, ok := d.find(key); ok {
		old := e.value
		e.value = value
		d.typ.DestroyValue(old)
		return false
	}

	if err := d.autoExpandCheck(); err != nil {
		// Mirrors the original's behavior under OOM during forced resize:
		// propagate via panic, since Replace's signature carries no error.
		panic(err)
	}
	d.addNew(key, value)
	return true
}

// PutOrGet either inserts key/value and returns (value, true), or, if the
// key already exists, leaves the dictionary untouched and returns the
// existing entry's current value and false (spec §4.1 "put-or-get(key,
// value)").
func (d *Dict) PutOrGet(key []byte, value any) (any, bool) {
	d.maybeRehashStep()

	if e, ok := d.find(key); ok {
		return e.value, false
	}
	if err := d.autoExpandCheck(); err != nil {
		panic(err)
	}
	d.addNew(key, value)
	return value, true
}

// addNew allocates a new Entry and links it at the head of the active
// table's target bucket. Rehashing entries are always added to t1 (spec §3
// "Insertion policy: new keys always land in the table currently being
// grown into").
func (d *Dict) addNew(key []byte, value any) {
	tbl := &d.t0
	if d.isRehashing() {
		tbl = &d.t1
	}

	h := d.typ.HashKey(d.seed, key)
	idx := tbl.bucketIndex(h)

	owned := append([]byte(nil), key...)
	e := &Entry{key: owned, value: value, next: tbl.heads[idx]}
	tbl.heads[idx] = e
	tbl.used++
}
