package extvalue

import "testing"

func TestEnvelope_RoundTrip(t *testing.T) {
	e := Envelope{SchemaVersion: 1, Fields: map[string]any{"count": int64(3), "name": "widget"}}

	payload, err := Encode(e)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(payload)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.SchemaVersion != 1 {
		t.Fatalf("SchemaVersion = %d, want 1", got.SchemaVersion)
	}
	if got.Fields["name"] != "widget" {
		t.Fatalf("Fields[name] = %v, want widget", got.Fields["name"])
	}
}

func TestDecode_MalformedPayload(t *testing.T) {
	if _, err := Decode([]byte{0xFF, 0xFF, 0xFF}); err == nil {
		t.Fatal("expected error decoding malformed msgpack")
	}
}
