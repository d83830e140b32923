package rdb

import (
	"testing"

	"github.com/kvengine/store/internal/buf"
)

func TestLength_RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 63, 64, 16383, 16384, 1 << 20, 0xFFFFFFFF, 0xFFFFFFFF + 1, 1 << 40, ^uint64(0)}
	for _, v := range values {
		var b buf.Builder
		appendLength(&b, v)

		d := buf.NewDecoder(b.Buf)
		got, err := readLength(&d)
		if err != nil {
			t.Fatalf("readLength(%d): %v", v, err)
		}
		if got.IsSpecial {
			t.Fatalf("readLength(%d): unexpectedly special", v)
		}
		if got.Value != v {
			t.Fatalf("readLength(%d) = %d", v, got.Value)
		}
	}
}

func TestLength_DistinctEncodingsAreInjective(t *testing.T) {
	seen := map[string]uint64{}
	for _, v := range []uint64{0, 1, 100, 16383, 16384, 1 << 20, 1 << 40} {
		var b buf.Builder
		appendLength(&b, v)
		key := string(b.Buf)
		if other, ok := seen[key]; ok && other != v {
			t.Fatalf("lengths %d and %d encoded identically", v, other)
		}
		seen[key] = v
	}
}

func TestSpecialEncoding_RoundTrip(t *testing.T) {
	var b buf.Builder
	appendSpecialEncoding(&b, EncInt16)

	d := buf.NewDecoder(b.Buf)
	got, err := readLength(&d)
	if err != nil {
		t.Fatalf("readLength: %v", err)
	}
	if !got.IsSpecial || got.SpecialID != EncInt16 {
		t.Fatalf("got %+v, want special EncInt16", got)
	}
}
