package rdb

import (
	"bytes"
	"testing"
	"time"

	"github.com/kvengine/store"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	st := store.NewStore(store.Options{Databases: 2})
	db0 := st.DB(0)
	db0.Main.Insert([]byte("greeting"), []byte("hello world"))
	db0.Main.Insert([]byte("counter"), []byte("42"))
	at := time.Unix(2000000000, 0)
	db0.SetExpireAt([]byte("counter"), at)

	db1 := st.DB(1)
	db1.Main.Insert([]byte("other"), []byte("value"))

	var buf bytes.Buffer
	if err := Save(&buf, st, AuxFields{ServerVersion: "7.0"}, WriteOptions{Compress: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, aux, err := Load(bytes.NewReader(buf.Bytes()), Options{Databases: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if aux.ServerVersion != "7.0" {
		t.Fatalf("aux.ServerVersion = %q, want 7.0", aux.ServerVersion)
	}

	v, ok := loaded.DB(0).Main.Get([]byte("greeting"))
	if !ok || string(v.([]byte)) != "hello world" {
		t.Fatalf("greeting = %v, %v", v, ok)
	}
	v, ok = loaded.DB(0).Main.Get([]byte("counter"))
	if !ok || string(v.([]byte)) != "42" {
		t.Fatalf("counter = %v, %v", v, ok)
	}
	gotExpire, ok := loaded.DB(0).ExpireAt([]byte("counter"))
	if !ok || !gotExpire.Equal(at) {
		t.Fatalf("expire = %v, %v, want %v", gotExpire, ok, at)
	}

	v, ok = loaded.DB(1).Main.Get([]byte("other"))
	if !ok || string(v.([]byte)) != "value" {
		t.Fatalf("other = %v, %v", v, ok)
	}
}

// TestSnapshot_S3IntegerStringEncoding is spec §8 scenario S3.
func TestSnapshot_S3IntegerStringEncoding(t *testing.T) {
	st := store.NewStore(store.Options{Databases: 1})
	st.DB(0).Main.Insert([]byte("n"), []byte("12345"))

	var buf bytes.Buffer
	if err := Save(&buf, st, AuxFields{}, WriteOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw := buf.Bytes()
	idx := bytes.Index(raw, []byte("n"))
	if idx < 0 {
		t.Fatal("could not locate key byte in output")
	}
	// The value bytes immediately follow the 1-byte key-length prefix and
	// the 1-byte key.
	valueStart := idx + 1
	if valueStart >= len(raw) {
		t.Fatal("truncated output")
	}
	tag := raw[valueStart]
	if tag != 0xC1 {
		t.Fatalf("value tag = %#x, want 0xC1 (EncInt16 special encoding)", tag)
	}
	if raw[valueStart+1] != 0x39 || raw[valueStart+2] != 0x30 {
		t.Fatalf("encoded int16 bytes = %#x %#x, want 0x39 0x30", raw[valueStart+1], raw[valueStart+2])
	}

	loaded, _, err := Load(bytes.NewReader(raw), Options{Databases: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, ok := loaded.DB(0).Main.Get([]byte("n"))
	if !ok || string(v.([]byte)) != "12345" {
		t.Fatalf("n = %v, %v, want 12345", v, ok)
	}
}

// TestSnapshot_S4ChecksumMismatch is spec §8 scenario S4.
func TestSnapshot_S4ChecksumMismatch(t *testing.T) {
	st := store.NewStore(store.Options{Databases: 1})
	st.DB(0).Main.Insert([]byte("k"), []byte("v"))

	var buf bytes.Buffer
	if err := Save(&buf, st, AuxFields{}, WriteOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw := buf.Bytes()
	mid := len(raw) / 2
	raw[mid] ^= 0xFF

	if _, _, err := Load(bytes.NewReader(raw), Options{Databases: 1}); err == nil {
		t.Fatal("expected Load to fail after flipping a byte")
	}
}

// TestSnapshot_IdleFreqRoundTrip is testable property #8: save(D) then
// load(D) must produce the same (key, value, expire, idle, freq) tuples,
// not just (key, value, expire).
func TestSnapshot_IdleFreqRoundTrip(t *testing.T) {
	st := store.NewStore(store.Options{Databases: 1})
	st.DB(0).Main.Insert([]byte("hot"), []byte("v1"))
	st.DB(0).Main.Insert([]byte("cold"), []byte("v2"))

	hot, ok := st.DB(0).Main.Find([]byte("hot"))
	if !ok {
		t.Fatal("hot key not found after insert")
	}
	hot.SetIdle(7)
	hot.SetFreq(200)

	var buf bytes.Buffer
	if err := Save(&buf, st, AuxFields{}, WriteOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := Load(bytes.NewReader(buf.Bytes()), Options{Databases: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	gotHot, ok := loaded.DB(0).Main.Find([]byte("hot"))
	if !ok {
		t.Fatal("hot key missing after load")
	}
	idle, ok := gotHot.Idle()
	if !ok || idle != 7 {
		t.Fatalf("hot idle = %v, %v, want 7, true", idle, ok)
	}
	freq, ok := gotHot.Freq()
	if !ok || freq != 200 {
		t.Fatalf("hot freq = %v, %v, want 200, true", freq, ok)
	}

	gotCold, ok := loaded.DB(0).Main.Find([]byte("cold"))
	if !ok {
		t.Fatal("cold key missing after load")
	}
	if _, ok := gotCold.Idle(); ok {
		t.Fatal("cold entry should have no idle metadata")
	}
	if _, ok := gotCold.Freq(); ok {
		t.Fatal("cold entry should have no freq metadata")
	}
}

func TestSnapshot_CompressedLongStringRoundTrips(t *testing.T) {
	st := store.NewStore(store.Options{Databases: 1})
	long := bytes.Repeat([]byte("abcdefgh"), 100)
	st.DB(0).Main.Insert([]byte("big"), append([]byte(nil), long...))

	var buf bytes.Buffer
	if err := Save(&buf, st, AuxFields{}, WriteOptions{Compress: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, _, err := Load(bytes.NewReader(buf.Bytes()), Options{Databases: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	v, ok := loaded.DB(0).Main.Get([]byte("big"))
	if !ok || !bytes.Equal(v.([]byte), long) {
		t.Fatal("compressed long string did not round-trip")
	}
}
