// Package values defines the aggregate value shapes a dictionary entry may
// hold beyond a plain string: list, set, hash, sorted set, stream, and
// extension-module payload (spec §1 "concrete value-type containers...
// referenced only by interface", §3 "Entry"). These are deliberately
// simple, internally-consistent holders rather than a byte-compatible
// reimplementation of the source's compact-list/skip-list/integer-set
// encodings, which the spec explicitly places out of scope.
package values

// List is an ordered sequence of elements (spec's quicklist-of-compact-
// list-nodes collapsed to a single flat slice, since the node-chunking
// strategy is an out-of-scope storage optimization, not an observable
// semantic).
type List struct {
	Elems [][]byte
}

// Set holds unique members. AllInts records whether every member is
// currently an ASCII-decimal integer, mirroring the source's "intset"
// fast path without reimplementing the packed integer array itself. The
// serializer does not consult it: a Set is always written with the plain
// set type tag.
type Set struct {
	Members map[string]struct{}
	AllInts bool
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{Members: make(map[string]struct{}), AllInts: true}
}

// Add inserts member, updating AllInts.
func (s *Set) Add(member []byte) {
	if _, ok := s.Members[string(member)]; ok {
		return
	}
	s.Members[string(member)] = struct{}{}
	if s.AllInts && !isDecimalInt(member) {
		s.AllInts = false
	}
}

func isDecimalInt(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	i := 0
	if b[0] == '-' {
		i = 1
	}
	if i == len(b) {
		return false
	}
	for ; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return false
		}
	}
	return true
}

// HashField is one field/value pair. Hash keeps pairs in insertion order
// (a plain Go map would not) so that save/load round trips byte-for-byte,
// which the spec's round-trip testable property (#8) requires.
type HashField struct {
	Field []byte
	Value []byte
}

// Hash is an ordered field/value container.
type Hash struct {
	Fields []HashField
}

// Set installs or overwrites a field's value, preserving its original
// position if it already existed.
func (h *Hash) Set(field, value []byte) {
	for i := range h.Fields {
		if string(h.Fields[i].Field) == string(field) {
			h.Fields[i].Value = value
			return
		}
	}
	h.Fields = append(h.Fields, HashField{Field: field, Value: value})
}

// ZSetMember is one member/score pair of a sorted set.
type ZSetMember struct {
	Member []byte
	Score  float64
}

// ZSet is an ordered-by-insertion sorted set container; the serializer is
// responsible for emitting members in score order when the target
// encoding requires it.
type ZSet struct {
	Members []ZSetMember
}

// Add installs or overwrites a member's score.
func (z *ZSet) Add(member []byte, score float64) {
	for i := range z.Members {
		if string(z.Members[i].Member) == string(member) {
			z.Members[i].Score = score
			return
		}
	}
	z.Members = append(z.Members, ZSetMember{Member: member, Score: score})
}

// StreamEntry is one append-only log record within a Stream.
type StreamEntry struct {
	ID     StreamID
	Fields []HashField
}

// StreamID is a (milliseconds, sequence) pair, the source format's entry
// identifier.
type StreamID struct {
	Ms  uint64
	Seq uint64
}

// ConsumerGroup tracks one named consumer group's last-delivered ID and
// pending-entries list (simplified: no consumer-level ownership tracking,
// since that is not exercised by the snapshot format's byte contract).
type ConsumerGroup struct {
	Name        string
	LastID      StreamID
	PendingIDs  []StreamID
}

// Stream is a simplified append-log: entries plus consumer groups. This is
// explicitly not byte-compatible with the source's radix-tree-of-
// listpacks representation (spec §1 Non-goals places the concrete
// container formats out of scope); it preserves the logical shape needed
// to save and reload stream state.
type Stream struct {
	Entries       []StreamEntry
	LastID        StreamID
	Groups        []ConsumerGroup
	MaxDeletedID  StreamID
	EntriesAdded  uint64
}

// Extension wraps an opaque extension-module value: a numeric module
// identifier plus an encoded payload produced by package extvalue. The
// snapshot serializer treats the payload as an opaque blob; only the
// extension module itself (out of scope here) would know how to interpret
// it.
type Extension struct {
	ModuleID uint64
	Payload  []byte
}
