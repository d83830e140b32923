package store

import (
	"testing"
	"time"
)

func TestStore_DatabasesDefaultCount(t *testing.T) {
	s := NewStore(Options{})
	if s.NumDatabases() != 16 {
		t.Fatalf("NumDatabases() = %d, want 16", s.NumDatabases())
	}
}

func TestStore_ExpireRoundTrip(t *testing.T) {
	s := NewStore(Options{Databases: 1})
	db := s.DB(0)
	db.Main.Insert([]byte("k"), []byte("v"))

	if _, ok := db.ExpireAt([]byte("k")); ok {
		t.Fatal("expected no expiry set")
	}
	at := time.Unix(1700000000, 0)
	db.SetExpireAt([]byte("k"), at)

	got, ok := db.ExpireAt([]byte("k"))
	if !ok || !got.Equal(at) {
		t.Fatalf("ExpireAt = %v, %v, want %v", got, ok, at)
	}

	db.ClearExpire([]byte("k"))
	if _, ok := db.ExpireAt([]byte("k")); ok {
		t.Fatal("expected expiry cleared")
	}
}

func TestStore_ShouldSave(t *testing.T) {
	s := NewStore(Options{Databases: 1, SaveRules: []SaveRule{{After: time.Minute, Changes: 3}}})
	if s.ShouldSave(time.Now()) {
		t.Fatal("expected no save needed with zero dirty count")
	}

	s.MarkDirty(5)
	if s.ShouldSave(time.Now()) {
		t.Fatal("expected no save needed before the time window elapses")
	}
	if !s.ShouldSave(s.LastSave().Add(2 * time.Minute)) {
		t.Fatal("expected save needed once window elapses with enough changes")
	}

	s.ResetDirty(time.Now())
	if s.DirtySinceSave() != 0 {
		t.Fatal("expected dirty counter reset")
	}
}

func TestStore_FlushAll(t *testing.T) {
	s := NewStore(Options{Databases: 2})
	s.DB(0).Main.Insert([]byte("a"), 1)
	s.DB(1).Main.Insert([]byte("b"), 2)

	s.FlushAll()

	if s.DB(0).Main.Len() != 0 || s.DB(1).Main.Len() != 0 {
		t.Fatal("expected every database emptied by FlushAll")
	}
}

func TestStore_Stats(t *testing.T) {
	s := NewStore(Options{Databases: 3})
	s.DB(1).Main.Insert([]byte("k"), 1)

	stats := s.Stats()
	if len(stats.Databases) != 1 {
		t.Fatalf("expected exactly one non-empty database in stats, got %d", len(stats.Databases))
	}
	if stats.Databases[0].Index != 1 {
		t.Fatalf("expected database index 1, got %d", stats.Databases[0].Index)
	}
}
