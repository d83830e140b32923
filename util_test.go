package store

import (
	"log/slog"
	"testing"
)

func TestRpad(t *testing.T) {
	if got := rpad("abc", 5, '.'); got != "abc.." {
		t.Fatalf("rpad = %q, wanted %q", got, "abc..")
	}
	if got := rpad("abc", 1, '.'); got != "abc" {
		t.Fatalf("rpad = %q, wanted %q", got, "abc")
	}
}

func TestHexHelpers(t *testing.T) {
	if got := hexstr(nil); got != "<nil>" {
		t.Fatalf("hexstr(nil) = %q, wanted <nil>", got)
	}
	if got := hexstr([]byte{}); got != "<empty>" {
		t.Fatalf("hexstr(empty) = %q, wanted <empty>", got)
	}
	if got := hexstr([]byte{0xAA, 0xBB}); got != "aabb" {
		t.Fatalf("hexstr = %q, wanted aabb", got)
	}
	a := hexAttr("k", []byte{0xAA})
	if a.Key != "k" || a.Value.Kind() != slog.KindString {
		t.Fatalf("hexAttr returned unexpected attr: %+v", a)
	}
}
