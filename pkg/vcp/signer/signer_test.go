// Copyright 2025 Certen Protocol

package signer

import (
	"testing"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// fakeCI is a no-op CryptoInterface whose delegate functions return zero
// values and no error, so any error a test sees comes from the driver's own
// validation rather than from the backend.
func fakeCI() cryptoiface.CryptoInterface {
	return cryptoiface.CryptoInterface{
		Name: "fake",
		CreateSignerData: func(seed cryptoiface.RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (opaque.SignerPublicSetupData, opaque.SignerSecretData, error) {
			return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, nil
		},
		Sign: func(seed cryptoiface.RNGSeed, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error) {
			return opaque.Signature{}, nil
		},
	}
}

func TestCreateSignerDataSortsBlindedIndices(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt, vcptypes.CTText}
	sd, err := CreateSignerData(fakeCI(), vcptypes.Strict, 1, schema, []vcptypes.CredAttrIndex{2, 0})
	if err != nil {
		t.Fatalf("CreateSignerData: %v", err)
	}
	want := []vcptypes.CredAttrIndex{0, 2}
	if len(sd.Public.BlindedIdx) != len(want) || sd.Public.BlindedIdx[0] != want[0] || sd.Public.BlindedIdx[1] != want[1] {
		t.Errorf("BlindedIdx = %v, want %v", sd.Public.BlindedIdx, want)
	}
}

func TestCreateSignerDataRejectsOutOfRangeBlindedIndex(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText}
	if _, err := CreateSignerData(fakeCI(), vcptypes.Strict, 1, schema, []vcptypes.CredAttrIndex{5}); err == nil {
		t.Fatal("CreateSignerData: want error for out-of-range blinded index, got nil")
	}
}

func TestCreateSignerDataRejectsDuplicateBlindedIndex(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}
	if _, err := CreateSignerData(fakeCI(), vcptypes.Strict, 1, schema, []vcptypes.CredAttrIndex{0, 0}); err == nil {
		t.Fatal("CreateSignerData: want error for duplicate blinded index, got nil")
	}
}

func TestSignRejectsValuesLengthMismatch(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}
	values := []vcptypes.DataValue{vcptypes.Text("only one")}
	if _, err := Sign(fakeCI(), vcptypes.Strict, 1, schema, values, vcptypes.SignerData{}); err == nil {
		t.Fatal("Sign: want error for values/schema length mismatch, got nil")
	}
}

func TestSignRejectsIncompatibleValueType(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTInt}
	values := []vcptypes.DataValue{vcptypes.Text("not an int")}
	if _, err := Sign(fakeCI(), vcptypes.Strict, 1, schema, values, vcptypes.SignerData{}); err == nil {
		t.Fatal("Sign: want error for type-incompatible value, got nil")
	}
}

func TestSignAcceptsMatchingSchema(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}
	values := []vcptypes.DataValue{vcptypes.Text("alice"), vcptypes.Int(30)}
	if _, err := Sign(fakeCI(), vcptypes.Strict, 1, schema, values, vcptypes.SignerData{}); err != nil {
		t.Fatalf("Sign: %v", err)
	}
}

func TestSignTestBackendModeSkipsValidation(t *testing.T) {
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}
	values := []vcptypes.DataValue{vcptypes.Text("only one")}
	if _, err := Sign(fakeCI(), vcptypes.TestBackend, 1, schema, values, vcptypes.SignerData{}); err != nil {
		t.Fatalf("Sign in TestBackend mode: %v", err)
	}
}
