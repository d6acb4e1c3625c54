// Copyright 2025 Certen Protocol

package opaque

import (
	"encoding/json"
	"testing"
)

type sample struct {
	A string
	B int
}

func TestEncodeBinaryRoundTrip(t *testing.T) {
	want := sample{A: "hello", B: 7}
	raw, err := EncodeBinary("Sample", want)
	if err != nil {
		t.Fatalf("EncodeBinary: %v", err)
	}
	if raw.WrapperName() != "Sample" {
		t.Errorf("WrapperName = %q, want Sample", raw.WrapperName())
	}
	var got sample
	if err := DecodeBinary(raw, &got); err != nil {
		t.Fatalf("DecodeBinary: %v", err)
	}
	if got != want {
		t.Errorf("DecodeBinary = %+v, want %+v", got, want)
	}
}

func TestEncodeTextRoundTrip(t *testing.T) {
	want := sample{A: "world", B: 42}
	raw, err := EncodeText("Sample", want)
	if err != nil {
		t.Fatalf("EncodeText: %v", err)
	}
	var got sample
	if err := DecodeText(raw, &got); err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if got != want {
		t.Errorf("DecodeText = %+v, want %+v", got, want)
	}
}

func TestRawJSONIsBareBase64String(t *testing.T) {
	raw := NewRawFromBytes("Sample", []byte("abc"))
	b, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("wrapper JSON is not a bare string: %v (%s)", err, b)
	}
	if s != raw.Payload() {
		t.Errorf("decoded string = %q, want %q", s, raw.Payload())
	}

	var back Raw
	back.name = "Sample"
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("json.Unmarshal into Raw: %v", err)
	}
	gotBytes, err := back.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if string(gotBytes) != "abc" {
		t.Errorf("round-tripped bytes = %q, want %q", gotBytes, "abc")
	}
}

func TestBytesRejectsInvalidBase64(t *testing.T) {
	raw := NewRawFromPayload("Sample", "not-valid-base64!!")
	if _, err := raw.Bytes(); err == nil {
		t.Fatal("Bytes: want error for invalid base64 payload, got nil")
	}
}
