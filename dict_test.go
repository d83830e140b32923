package store

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestDict_InsertFindRemove(t *testing.T) {
	d := Create(BytesDictType{}, 1)

	if err := d.Insert([]byte("a"), []byte("1")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := d.Insert([]byte("a"), []byte("2")); err == nil {
		t.Fatal("expected ErrKeyExists on duplicate insert")
	}

	e, ok := d.Find([]byte("a"))
	if !ok || string(e.Value().([]byte)) != "1" {
		t.Fatalf("Find returned %v, %v", e, ok)
	}

	if err := d.Remove([]byte("a")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := d.Remove([]byte("a")); err == nil {
		t.Fatal("expected ErrKeyNotFound on double remove")
	}
	if _, ok := d.Find([]byte("a")); ok {
		t.Fatal("expected absent after remove")
	}
}

func TestDict_Replace(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	if added := d.Replace([]byte("k"), []byte("1")); !added {
		t.Fatal("expected added=true for new key")
	}
	if added := d.Replace([]byte("k"), []byte("2")); added {
		t.Fatal("expected added=false for overwrite")
	}
	v, _ := d.Get([]byte("k"))
	if string(v.([]byte)) != "2" {
		t.Fatalf("value = %v, want 2", v)
	}
}

func TestDict_PutOrGet(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	v, added := d.PutOrGet([]byte("k"), []byte("1"))
	if !added || string(v.([]byte)) != "1" {
		t.Fatalf("unexpected first PutOrGet result: %v %v", v, added)
	}
	v, added = d.PutOrGet([]byte("k"), []byte("2"))
	if added || string(v.([]byte)) != "1" {
		t.Fatalf("expected existing value preserved, got %v %v", v, added)
	}
}

// TestDict_S1RehashDuringInsert is spec §8 scenario S1.
func TestDict_S1RehashDuringInsert(t *testing.T) {
	d := Create(BytesDictType{}, 7)
	for i := 0; i < 100; i++ {
		key := []byte(fmt.Sprintf("k%d", i))
		if err := d.Insert(key, i); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if got := d.Len(); got != i+1 {
			t.Fatalf("after insert %d: Len() = %d, want %d", i, got, i+1)
		}
		for j := 0; j <= i; j++ {
			jk := []byte(fmt.Sprintf("k%d", j))
			if _, ok := d.Find(jk); !ok {
				t.Fatalf("after insert %d: key %d missing", i, j)
			}
		}
	}
}

func TestDict_UnlinkRelease(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	d.Insert([]byte("a"), 42)

	e, err := d.Unlink([]byte("a"))
	if err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if d.Len() != 0 {
		t.Fatalf("expected Len()==0 after unlink, got %d", d.Len())
	}
	d.Release(e) // must not panic

	if _, err := d.Unlink([]byte("a")); err == nil {
		t.Fatal("expected ErrKeyNotFound on double unlink")
	}
}

func TestDict_Empty(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	for i := 0; i < 50; i++ {
		d.Insert([]byte(fmt.Sprintf("k%d", i)), i)
	}
	d.Empty()
	if d.Len() != 0 {
		t.Fatalf("Len() = %d after Empty, want 0", d.Len())
	}
	if _, ok := d.Find([]byte("k0")); ok {
		t.Fatal("expected no entries to survive Empty")
	}
}

// TestDict_RehashInvariants checks property #2 at every step of a forced
// expand, and that T1 is released once the rehash completes.
func TestDict_RehashInvariants(t *testing.T) {
	d := Create(BytesDictType{}, 3)
	for i := 0; i < 20; i++ {
		d.Insert([]byte(fmt.Sprintf("key-%03d", i)), i)
	}
	// The inserts leave an automatic grow in progress, and Expand is
	// rejected while one is running, so finish it first.
	for d.IsRehashing() {
		d.rehashStep(1)
	}
	if err := d.Expand(64); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	for d.IsRehashing() {
		if d.t0.used+d.t1.used != d.Len() {
			t.Fatal("used(T0)+used(T1) != Len() mid-rehash")
		}
		d.rehashStep(1)
	}
	if d.t1.allocated() {
		t.Fatal("expected T1 unallocated once rehash completes")
	}
}

func TestDict_SafeIteratorBlocksRehash(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	for i := 0; i < 10; i++ {
		d.Insert([]byte(fmt.Sprintf("k%d", i)), i)
	}
	d.Expand(64)

	it := d.NewSafeIterator()
	cursorBefore := d.rehashIdx
	d.maybeRehashStep()
	if d.rehashIdx != cursorBefore {
		t.Fatal("rehash advanced while safe iterator was live")
	}
	count := 0
	for it.Next() {
		count++
	}
	it.Release()
	if count != 10 {
		t.Fatalf("safe iterator visited %d entries, want 10", count)
	}
}

func TestDict_FastIteratorFingerprintMismatch(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	d.Insert([]byte("a"), 1)

	it := d.NewFastIterator()
	d.Insert([]byte("b"), 2)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on fingerprint mismatch")
		}
	}()
	it.Release()
}

func TestDict_ScanVisitsEveryKey(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	want := map[string]bool{}
	for i := 0; i < 200; i++ {
		k := fmt.Sprintf("x%d", i)
		d.Insert([]byte(k), i)
		want[k] = true
	}

	seen := map[string]bool{}
	var cursor uint64
	for {
		cursor = d.Scan(cursor, func(e *Entry) {
			seen[string(e.Key())] = true
		})
		if cursor == 0 {
			break
		}
	}

	for k := range want {
		if !seen[k] {
			t.Fatalf("scan missed key %q", k)
		}
	}
}

func TestDict_RandomEntry(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	if _, ok := d.RandomEntry(nil); ok {
		t.Fatal("expected false on empty dict")
	}
	d.Insert([]byte("only"), 1)
	e, ok := d.RandomEntry(nil)
	if !ok || string(e.Key()) != "only" {
		t.Fatalf("RandomEntry = %v, %v", e, ok)
	}
}

func TestDict_Sample(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	for i := 0; i < 1000; i++ {
		d.Insert([]byte(fmt.Sprintf("s%d", i)), i)
	}
	out := d.Sample(100, nil)
	if len(out) == 0 || len(out) > 100 {
		t.Fatalf("Sample returned %d entries, want 1..100", len(out))
	}
	for _, e := range out {
		if _, ok := d.Find(e.Key()); !ok {
			t.Fatalf("sampled entry %q not present in dict", e.Key())
		}
	}
}

// TestDict_SampleDuringRehash guards against sampling from only the larger
// table: a Sample that only ever probes the larger table finds almost
// nothing right after a rehash starts, since t1 (freshly grown much
// bigger) holds only the handful of buckets migrated so far while t0 still
// holds nearly everything.
func TestDict_SampleDuringRehash(t *testing.T) {
	d := Create(BytesDictType{}, 1)
	for i := 0; i < 500; i++ {
		d.Insert([]byte(fmt.Sprintf("k%d", i)), i)
	}
	for d.IsRehashing() {
		d.rehashStep(1)
	}

	if err := d.Expand(4096); err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if !d.IsRehashing() {
		t.Fatal("Expand should have started a rehash")
	}

	out := d.Sample(50, rand.New(rand.NewSource(42)))
	if len(out) < 40 {
		t.Fatalf("Sample returned only %d/50 entries mid-rehash; t0's still-resident entries should still be reachable", len(out))
	}
	for _, e := range out {
		if _, ok := d.Find(e.Key()); !ok {
			t.Fatalf("sampled entry %q not present in dict", e.Key())
		}
	}
}
