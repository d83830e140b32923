package store

import (
	"sync/atomic"
	"time"
)

// Database pairs a dictionary's main key/value table with a parallel
// expires table keyed identically (spec §3 "Snapshot record": "per-entry
// expire"; the expires table's shape is left unspecified by the source
// spec, so it is modeled here the same way the main table is — a second
// *Dict sharing BytesDictType — since that is exactly how the original
// stores per-key TTLs alongside the main dictionary).
type Database struct {
	Index   int
	Main    *Dict
	Expires *Dict
}

func newDatabase(index int, seed uint64) *Database {
	return &Database{
		Index:   index,
		Main:    Create(BytesDictType{}, seed),
		Expires: Create(BytesDictType{}, seed),
	}
}

// ExpireAt returns the absolute expiry time for key, if one is set.
func (db *Database) ExpireAt(key []byte) (time.Time, bool) {
	v, ok := db.Expires.Get(key)
	if !ok {
		return time.Time{}, false
	}
	return v.(time.Time), true
}

// SetExpireAt installs or overwrites key's absolute expiry.
func (db *Database) SetExpireAt(key []byte, at time.Time) {
	db.Expires.Replace(key, at)
}

// ClearExpire removes any TTL previously set on key; a no-op if none was
// set.
func (db *Database) ClearExpire(key []byte) {
	_ = db.Expires.Remove(key)
}

// SaveRule pairs a duration window with a minimum number of changes, the
// unit used by Store.ShouldSave (the original's "save points": "save after
// 900 sec if at least 1 key changed").
type SaveRule struct {
	After   time.Duration
	Changes int
}

// Options configures a Store. Zero value is valid; norm fills defaults,
// following the teacher's Options-struct-plus-norm() convention.
type Options struct {
	// Databases is the number of numbered databases to create (default 16,
	// matching the source's default `databases` config directive).
	Databases int

	// HashSeed seeds every database's dictionaries (spec §6 "hash
	// computation (keyed seed, supplied via a separate API)"). Zero means
	// "pick one", which Store does via a fixed, non-cryptographic default
	// so behavior is reproducible across runs unless the host supplies its
	// own.
	HashSeed uint64

	// SaveRules are consulted by ShouldSave. A nil slice disables automatic
	// background-save scheduling (the host must trigger saves explicitly).
	SaveRules []SaveRule
}

func (o Options) norm() Options {
	if o.Databases <= 0 {
		o.Databases = 16
	}
	if o.HashSeed == 0 {
		o.HashSeed = 0x5eed5eed5eed5eed
	}
	return o
}

// Store is the top-level multi-database container (spec's "Per-database
// sections", supplemented since the distilled spec is silent on the
// multi-database structure the snapshot format otherwise presupposes via
// SELECT-DB/RESIZE-DB opcodes). It owns nothing beyond the in-memory
// dictionaries: serialization lives in package store/rdb, deferred
// destruction in package store/bio.
type Store struct {
	opts Options
	dbs  []*Database

	dirty    atomic.Int64 // changes since last successful save
	lastSave atomic.Int64 // unix seconds
}

// NewStore allocates a Store with opts.Databases empty databases.
func NewStore(opts Options) *Store {
	opts = opts.norm()
	s := &Store{opts: opts, dbs: make([]*Database, opts.Databases)}
	for i := range s.dbs {
		s.dbs[i] = newDatabase(i, opts.HashSeed)
	}
	s.lastSave.Store(timeNowUnix())
	return s
}

// DB returns the database at the given index, panicking if out of range
// (mirrors the source's ASSERT-on-bad-index behavior for an internal,
// already-validated index).
func (s *Store) DB(index int) *Database {
	return s.dbs[index]
}

// NumDatabases returns the configured database count.
func (s *Store) NumDatabases() int { return len(s.dbs) }

// MarkDirty increments the dirty counter by n, the same accounting the
// source uses to decide whether scheduled saves have anything to do.
func (s *Store) MarkDirty(n int64) { s.dirty.Add(n) }

// DirtySinceSave returns the number of changes recorded since the last
// successful save.
func (s *Store) DirtySinceSave() int64 { return s.dirty.Load() }

// ResetDirty clears the dirty counter and records now as the last-save
// time; called once a background save completes successfully (spec §4.2
// "Fork-based background save", parent-side step 3).
func (s *Store) ResetDirty(now time.Time) {
	s.dirty.Store(0)
	s.lastSave.Store(now.Unix())
}

// LastSave returns the time of the last successful save.
func (s *Store) LastSave() time.Time {
	return time.Unix(s.lastSave.Load(), 0)
}

// ShouldSave reports whether any configured SaveRule is currently
// satisfied: enough time has elapsed since the last save AND at least that
// many changes have accumulated.
func (s *Store) ShouldSave(now time.Time) bool {
	dirty := s.dirty.Load()
	if dirty == 0 {
		return false
	}
	elapsed := now.Sub(s.LastSave())
	for _, r := range s.opts.SaveRules {
		if elapsed >= r.After && dirty >= int64(r.Changes) {
			return true
		}
	}
	return false
}

// FlushDB empties a single database's main and expires dictionaries
// (FLUSHDB-equivalent).
func (db *Database) FlushDB() {
	db.Main.Empty()
	db.Expires.Empty()
}

// FlushAll empties every database (FLUSHALL-equivalent).
func (s *Store) FlushAll() {
	for _, db := range s.dbs {
		db.FlushDB()
	}
}

func timeNowUnix() int64 { return time.Now().Unix() }
