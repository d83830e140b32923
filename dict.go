package store

import "reflect"

const (
	initialDictSize = 4 // spec §4.1 "Auto-expand check": "allocate it at initial size (4)"

	// forceResizeRatio is dict_force_resize_ratio in the original: even with
	// resizing disabled, a load factor above this forces a grow anyway
	// (spec §3 "Rehash policy").
	forceResizeRatio = 5
)

// Dict is the incrementally-rehashing hash dictionary of spec §4.1. It is
// NOT safe for concurrent use: like the server it backs, it is
// single-writer, single-reader (spec §5) — every method must be called from
// the one goroutine that owns it, the same discipline the teacher's
// memStorage applies to its single writer lock.
type Dict struct {
	typ  DictType
	seed uint64

	t0, t1 bucketTable

	// rehashIdx is -1 when idle, else the next t0 bucket index awaiting
	// migration (spec §3 "Rehash cursor").
	rehashIdx int

	// safeIterators counts live safe iterators; while non-zero, incremental
	// rehash is suspended (spec §4.1 "Piggyback policy").
	safeIterators int

	// canResize mirrors dict_can_resize: when false, auto-expand only fires
	// once the load ratio exceeds forceResizeRatio (spec §3 "Rehash
	// policy").
	canResize bool
}

// Create returns an empty dictionary using the given type descriptor and
// seed (spec §4.1 "create(type)"). The seed feeds DictType.HashKey for keyed
// hashing (spec §6).
func Create(typ DictType, seed uint64) *Dict {
	if typ == nil {
		typ = BytesDictType{}
	}
	return &Dict{
		typ:       typ,
		seed:      seed,
		rehashIdx: -1,
		canResize: true,
	}
}

// Len returns the logical element count: used(t0) + used(t1) (spec §3
// Dictionary invariant, and testable property #2).
func (d *Dict) Len() int { return d.t0.used + d.t1.used }

func (d *Dict) isRehashing() bool { return d.rehashIdx != -1 }

// IsRehashing reports whether an incremental rehash is currently in
// progress.
func (d *Dict) IsRehashing() bool { return d.isRehashing() }

// SetResizable toggles whether the dictionary may auto-expand based on load
// factor alone, versus only once the load factor exceeds forceResizeRatio
// (used by hosts that want to suppress resizing while forking, the way
// Redis disables it mid-BGSAVE in the original).
func (d *Dict) SetResizable(v bool) { d.canResize = v }

// Expand grows the dictionary to the smallest power of two >= size (spec
// §4.1 "expand(size)"). Returns ErrRehashInProgress if a rehash is already
// active, or ErrResizeDisabled if size is smaller than the number of
// entries already stored, or if the rounded target equals the current
// table size (rehash-to-same-size is rejected per spec §3 "Rehash
// policy").
func (d *Dict) Expand(size int) error {
	if d.isRehashing() {
		return keyErrf("expand", nil, ErrRehashInProgress)
	}
	if size < d.t0.used {
		return keyErrf("expand", nil, ErrResizeDisabled)
	}

	target := nextPow2(size)
	if !d.t0.allocated() {
		d.t0 = newBucketTable(target)
		return nil
	}
	if target == d.t0.size() {
		return keyErrf("expand", nil, ErrResizeDisabled)
	}

	d.t1 = newBucketTable(target)
	d.rehashIdx = 0
	return nil
}

// ResizeToFit shrinks the dictionary to the smallest power of two that
// keeps the load ratio <= 1 (spec §4.1 "resize-to-fit()"). Returns
// ErrRehashInProgress or ErrResizeDisabled as appropriate.
func (d *Dict) ResizeToFit() error {
	if !d.canResize {
		return keyErrf("resize-to-fit", nil, ErrResizeDisabled)
	}
	if d.isRehashing() {
		return keyErrf("resize-to-fit", nil, ErrRehashInProgress)
	}
	if !d.t0.allocated() || d.t0.used == 0 {
		return nil
	}
	return d.Expand(d.t0.used)
}

// autoExpandCheck implements spec §4.1's "Auto-expand check", run before
// every insert's bucket computation.
func (d *Dict) autoExpandCheck() error {
	if d.isRehashing() {
		return nil // work already pending
	}
	if !d.t0.allocated() {
		d.t0 = newBucketTable(initialDictSize)
		return nil
	}
	if d.t0.used >= d.t0.size() {
		if d.canResize || d.t0.used/d.t0.size() > forceResizeRatio {
			return d.Expand(d.t0.used * 2)
		}
	}
	return nil
}

// rehashStep advances the incremental rehash by a bounded amount (spec
// §4.1 "Incremental rehash (single step)"). n is the caller's requested
// step count (number of non-empty buckets to migrate); the empty-bucket
// skip scan is bounded to 10*n probes. Returns true if the rehash finished
// (cursor reset to -1).
func (d *Dict) rehashStep(n int) bool {
	if !d.isRehashing() {
		return true
	}

	emptyVisits := 10 * n
	for i := 0; i < n; i++ {
		for d.rehashIdx < d.t0.size() && d.t0.heads[d.rehashIdx] == nil {
			d.rehashIdx++
			emptyVisits--
			if emptyVisits <= 0 {
				return false
			}
		}
		if d.rehashIdx >= d.t0.size() {
			break
		}

		// Migrate every entry in this bucket.
		e := d.t0.heads[d.rehashIdx]
		for e != nil {
			next := e.next
			idx := d.typ.HashKey(d.seed, e.key) & d.t1.mask
			e.next = d.t1.heads[idx]
			d.t1.heads[idx] = e
			d.t0.used--
			d.t1.used++
			e = next
		}
		d.t0.heads[d.rehashIdx] = nil
		d.rehashIdx++
	}

	if d.t0.used == 0 {
		d.t0.free()
		d.t0 = d.t1
		d.t1 = bucketTable{}
		d.rehashIdx = -1
		return true
	}
	return false
}

// maybeRehashStep performs exactly one single-step rehash if rehashing is
// active and no safe iterator is live (spec §4.1 "Piggyback policy").
// Called by lookup, insert, and remove.
func (d *Dict) maybeRehashStep() {
	if d.isRehashing() && d.safeIterators == 0 {
		d.rehashStep(1)
	}
}

// RehashForMs performs bounded chunks of 100 bucket migrations until either
// the rehash completes or the wall-clock budget elapses (spec §5
// "Cancellation / timeouts": "the only time-bounded primitive in C1").
// Returns the number of chunks performed.
func (d *Dict) RehashForMs(budget func() bool) int {
	chunks := 0
	for d.isRehashing() {
		if budget != nil && !budget() {
			break
		}
		chunks++
		if d.rehashStep(100) {
			break
		}
	}
	return chunks
}

// fingerprint derives a 64-bit value from the two table pointers, sizes,
// and used counts (spec §6 "Fingerprint"), used by fast iterators to detect
// forbidden concurrent mutation.
func (d *Dict) fingerprint() uint64 {
	var h uint64
	mix := func(x uint64) {
		h ^= x
		h *= 0x9E3779B185EBCA87
		h ^= h >> 29
	}
	mix(tablePointer(d.t0.heads))
	mix(uint64(d.t0.size()))
	mix(uint64(d.t0.used))
	mix(tablePointer(d.t1.heads))
	mix(uint64(d.t1.size()))
	mix(uint64(d.t1.used))
	return h
}

func tablePointer(heads []*Entry) uint64 {
	if heads == nil {
		return 0
	}
	return uint64(reflect.ValueOf(heads).Pointer())
}
