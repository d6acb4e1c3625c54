// Copyright 2025 Certen Protocol
//
// Package opaque implements the Opaque Serialization Layer (section 4.1):
// every cryptographic artifact that crosses the VCP core boundary is
// wrapped in a distinct newtype carrying a base64-encoded byte payload.
//
// Two encodings are supported, mirroring the split between the
// "self-describing textual form" (JSON, EncodeText/DecodeText) and the
// "compact binary form" (CBOR, via github.com/fxamacker/cbor/v2,
// EncodeBinary/DecodeBinary). The ac2c and dnc backends encode all of their
// artifacts with the binary form; neither calls EncodeText.
package opaque

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/certen/vcp/pkg/vcp/vcperr"
)

// Wrapper is a named opaque artifact. The WrapperName is carried into any
// SerializationError raised while decoding it, per section 7.
type Wrapper interface {
	WrapperName() string
	Payload() string // base64 of the underlying serialized bytes
}

// Raw is the common representation backing every opaque wrapper type: a
// base64-of-bytes payload plus the name used for error reporting.
type Raw struct {
	name    string
	payload string
}

func (r Raw) WrapperName() string { return r.name }
func (r Raw) Payload() string     { return r.payload }

// NewRawFromBytes base64-encodes raw bytes into a named wrapper payload.
func NewRawFromBytes(name string, b []byte) Raw {
	return Raw{name: name, payload: base64.StdEncoding.EncodeToString(b)}
}

// NewRawFromPayload wraps an already-base64 payload string.
func NewRawFromPayload(name, payload string) Raw {
	return Raw{name: name, payload: payload}
}

// Bytes decodes the base64 payload back to raw bytes.
func (r Raw) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(r.payload)
	if err != nil {
		return nil, vcperr.NewSerializationError(r.name, err.Error())
	}
	return b, nil
}

// MarshalJSON renders the wrapper as its base64 payload alone, matching the
// wire envelope rule that "all complex cryptographic types are transmitted
// as base64 strings inside JSON" (section 6).
func (r Raw) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.payload)
}

// UnmarshalJSON accepts a bare base64 string for the payload.
func (r *Raw) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return vcperr.NewSerializationError(r.name, fmt.Sprintf("json decode: %v", err))
	}
	r.payload = s
	return nil
}

// EncodeBinary CBOR-encodes v and wraps it as a named opaque artifact using
// the compact binary form.
func EncodeBinary(name string, v any) (Raw, error) {
	b, err := cbor.Marshal(v)
	if err != nil {
		return Raw{}, vcperr.NewSerializationError(name, fmt.Sprintf("cbor encode: %v", err))
	}
	return NewRawFromBytes(name, b), nil
}

// DecodeBinary reverses EncodeBinary into out.
func DecodeBinary(r Raw, out any) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := cbor.Unmarshal(b, out); err != nil {
		return vcperr.NewSerializationError(r.WrapperName(), fmt.Sprintf("cbor decode: %v", err))
	}
	return nil
}

// EncodeText JSON-encodes v and wraps it as a named opaque artifact using
// the self-describing textual form, then base64s the JSON bytes so every
// wrapper crosses the boundary uniformly (section 4.1's "payload is
// base64-of-serialized-bytes" invariant applies to both encodings).
func EncodeText(name string, v any) (Raw, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Raw{}, vcperr.NewSerializationError(name, fmt.Sprintf("json encode: %v", err))
	}
	return NewRawFromBytes(name, b), nil
}

// DecodeText reverses EncodeText into out.
func DecodeText(r Raw, out any) error {
	b, err := r.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, out); err != nil {
		return vcperr.NewSerializationError(r.WrapperName(), fmt.Sprintf("json decode: %v", err))
	}
	return nil
}
