package store

// Entry holds one key and one value plus the forward link to the next
// entry sharing its bucket (spec §3 "Entry"). Key bytes and value storage
// are owned by the entry; releasing it passes the value to the owning
// Dict's DictType.DestroyValue. There is no key destructor: the key bytes
// are simply dropped.
//
// idle and freq carry the snapshot's optional per-entry IDLE/FREQ metadata
// (spec §4.2 "Entries"): pointers rather than bare values so "never set"
// is distinguishable from "set to zero" (testable property #8 requires an
// exact round trip of the tuple, idle/freq included).
type Entry struct {
	key   []byte
	value any
	next  *Entry

	idle *uint64
	freq *byte
}

// Key returns the entry's key. The returned slice must not be mutated.
func (e *Entry) Key() []byte { return e.key }

// Value returns the entry's current value. Concrete shapes are []byte
// (string), int64 (small integer), float64, or a pointer to one of the
// aggregate types of package store/values; entries of the expires
// dictionary hold a time.Time.
func (e *Entry) Value() any { return e.value }

// SetValue replaces the entry's value in place, without touching the key or
// bucket placement. The caller is responsible for destroying the old value
// if the DictType requires it (Replace does this automatically).
func (e *Entry) SetValue(v any) { e.value = v }

// Idle returns the entry's recorded seconds-since-last-access, if any was
// ever set (via SetIdle or a snapshot load that carried an IDLE opcode).
func (e *Entry) Idle() (uint64, bool) {
	if e.idle == nil {
		return 0, false
	}
	return *e.idle, true
}

// SetIdle records seconds-since-last-access for this entry.
func (e *Entry) SetIdle(seconds uint64) { e.idle = &seconds }

// Freq returns the entry's recorded logarithmic access frequency, if any
// was ever set (via SetFreq or a snapshot load that carried a FREQ
// opcode).
func (e *Entry) Freq() (byte, bool) {
	if e.freq == nil {
		return 0, false
	}
	return *e.freq, true
}

// SetFreq records a logarithmic access-frequency counter for this entry.
func (e *Entry) SetFreq(f byte) { e.freq = &f }
