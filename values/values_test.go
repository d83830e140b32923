package values

import "testing"

func TestSet_AllInts(t *testing.T) {
	s := NewSet()
	s.Add([]byte("1"))
	s.Add([]byte("2"))
	if !s.AllInts {
		t.Fatal("expected AllInts=true for all-integer set")
	}
	s.Add([]byte("not-an-int"))
	if s.AllInts {
		t.Fatal("expected AllInts=false once a non-integer member is added")
	}
}

func TestHash_SetPreservesOrderAndOverwrites(t *testing.T) {
	h := &Hash{}
	h.Set([]byte("a"), []byte("1"))
	h.Set([]byte("b"), []byte("2"))
	h.Set([]byte("a"), []byte("3"))

	if len(h.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(h.Fields))
	}
	if string(h.Fields[0].Field) != "a" || string(h.Fields[0].Value) != "3" {
		t.Fatalf("field a not overwritten in place: %+v", h.Fields[0])
	}
	if string(h.Fields[1].Field) != "b" {
		t.Fatalf("field order not preserved: %+v", h.Fields)
	}
}

func TestZSet_AddOverwritesScore(t *testing.T) {
	z := &ZSet{}
	z.Add([]byte("m"), 1.5)
	z.Add([]byte("m"), 2.5)

	if len(z.Members) != 1 {
		t.Fatalf("len(Members) = %d, want 1", len(z.Members))
	}
	if z.Members[0].Score != 2.5 {
		t.Fatalf("Score = %v, want 2.5", z.Members[0].Score)
	}
}
