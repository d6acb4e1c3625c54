// Copyright 2025 Certen Protocol

package ac2c

import (
	"testing"

	"github.com/certen/vcp/pkg/vcp/accumulator"
	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/platform"
	"github.com/certen/vcp/pkg/vcp/resolver"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// TestEndToEndDisclosure exercises the ac2c backend's BLS12-381 signature
// and disclosure proof through the Platform API.
func TestEndToEndDisclosure(t *testing.T) {
	ci := Backend
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}

	var seed cryptoiface.RNGSeed = 1
	setup, secret, err := ci.CreateSignerData(seed, schema, nil)
	if err != nil {
		t.Fatalf("CreateSignerData: %v", err)
	}
	signerData := vcptypes.SignerData{
		Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema},
		Secret: secret,
	}

	values := []vcptypes.DataValue{vcptypes.Text("Alice"), vcptypes.Int(30)}
	sig, err := ci.Sign(seed, values, signerData)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	lk := resolver.Lookups{
		Signer: func(vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) {
			return signerData.Public, nil
		},
		Accumulator: func(vcptypes.SharedParamKey) (accumulator.State, error) {
			return accumulator.State{}, nil
		},
		MembershipProvingKey: func(vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return opaque.MembershipProvingKey{}, nil
		},
		RangeProvingKey: func(vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) {
			return opaque.RangeProofProvingKey{}, nil
		},
		AuthorityPublicData: func(vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return opaque.AuthorityPublicData{}, nil
		},
	}
	api := platform.New(ci, lk)

	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {Disclosed: []vcptypes.CredAttrIndex{0}},
	}
	sigs := map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData{
		"alice": {Signature: sig, Values: values},
	}

	wp, err := api.CreateProof(reqs, vcptypes.SharedParams{}, sigs, vcptypes.Strict, vcptypes.NonceDefault)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	revealed, ok := wp.Data.RevealedIdxsAndVals["alice"][0]
	if !ok || revealed.Text != "Alice" {
		t.Fatalf("revealed value = %+v, want Text(Alice)", revealed)
	}

	if _, err := api.VerifyProof(reqs, vcptypes.SharedParams{}, wp.Data, nil, vcptypes.Strict, vcptypes.NonceDefault); err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
}

// TestEndToEndWrongNonceRejected checks that a verifier who supplies a
// different nonce than the one the proof was created under rejects it.
func TestEndToEndWrongNonceRejected(t *testing.T) {
	ci := Backend
	schema := vcptypes.Schema{vcptypes.CTText}
	var seed cryptoiface.RNGSeed = 1
	setup, secret, err := ci.CreateSignerData(seed, schema, nil)
	if err != nil {
		t.Fatalf("CreateSignerData: %v", err)
	}
	signerData := vcptypes.SignerData{Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema}, Secret: secret}
	values := []vcptypes.DataValue{vcptypes.Text("Alice")}
	sig, err := ci.Sign(seed, values, signerData)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	lk := resolver.Lookups{
		Signer: func(vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) { return signerData.Public, nil },
		Accumulator: func(vcptypes.SharedParamKey) (accumulator.State, error) {
			return accumulator.State{}, nil
		},
		MembershipProvingKey: func(vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return opaque.MembershipProvingKey{}, nil
		},
		RangeProvingKey: func(vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) {
			return opaque.RangeProofProvingKey{}, nil
		},
		AuthorityPublicData: func(vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return opaque.AuthorityPublicData{}, nil
		},
	}
	api := platform.New(ci, lk)
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{"alice": {Disclosed: []vcptypes.CredAttrIndex{0}}}
	sigs := map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData{"alice": {Signature: sig, Values: values}}

	wp, err := api.CreateProof(reqs, vcptypes.SharedParams{}, sigs, vcptypes.Strict, "nonce-a")
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if _, err := api.VerifyProof(reqs, vcptypes.SharedParams{}, wp.Data, nil, vcptypes.Strict, "nonce-b"); err == nil {
		t.Fatal("VerifyProof: want error for mismatched nonce, got nil")
	}
}

// equalToFixture issues two credentials sharing the same signer and returns
// everything needed to exercise an EqualTo clause between them; aliceAge is
// the attribute alice actually signed for the shared index.
func equalToFixture(t *testing.T, aliceAge, bobAge uint64) (*platform.PlatformApi, map[vcptypes.CredentialLabel]vcptypes.CredentialReqs, map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData) {
	t.Helper()
	ci := Backend
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt}
	var seed cryptoiface.RNGSeed = 1
	setup, secret, err := ci.CreateSignerData(seed, schema, nil)
	if err != nil {
		t.Fatalf("CreateSignerData: %v", err)
	}
	signerData := vcptypes.SignerData{Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema}, Secret: secret}

	aliceValues := []vcptypes.DataValue{vcptypes.Text("Alice"), vcptypes.Int(aliceAge)}
	aliceSig, err := ci.Sign(seed, aliceValues, signerData)
	if err != nil {
		t.Fatalf("Sign(alice): %v", err)
	}
	bobValues := []vcptypes.DataValue{vcptypes.Text("Bob"), vcptypes.Int(bobAge)}
	bobSig, err := ci.Sign(seed, bobValues, signerData)
	if err != nil {
		t.Fatalf("Sign(bob): %v", err)
	}

	lk := resolver.Lookups{
		Signer: func(vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) { return signerData.Public, nil },
		Accumulator: func(vcptypes.SharedParamKey) (accumulator.State, error) {
			return accumulator.State{}, nil
		},
		MembershipProvingKey: func(vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return opaque.MembershipProvingKey{}, nil
		},
		RangeProvingKey: func(vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) {
			return opaque.RangeProofProvingKey{}, nil
		},
		AuthorityPublicData: func(vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return opaque.AuthorityPublicData{}, nil
		},
	}
	api := platform.New(ci, lk)

	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {EqualTo: []vcptypes.EqInfo{{FromIndex: 1, ToLabel: "bob", ToIndex: 1}}},
		"bob":   {},
	}
	sigs := map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData{
		"alice": {Signature: aliceSig, Values: aliceValues},
		"bob":   {Signature: bobSig, Values: bobValues},
	}
	return api, reqs, sigs
}

// TestEndToEndEqualToSameValueVerifies checks scenario 2: two credentials
// asserting their ages are equal, and actually holding the same age, produce
// a proof that verifies.
func TestEndToEndEqualToSameValueVerifies(t *testing.T) {
	api, reqs, sigs := equalToFixture(t, 30, 30)
	wp, err := api.CreateProof(reqs, vcptypes.SharedParams{}, sigs, vcptypes.Strict, vcptypes.NonceDefault)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if _, err := api.VerifyProof(reqs, vcptypes.SharedParams{}, wp.Data, nil, vcptypes.Strict, vcptypes.NonceDefault); err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
}

// TestEndToEndEqualToDifferentValueRejected checks scenario 3: two
// credentials asserting equality over attributes that actually hold
// different values must be rejected at verification.
func TestEndToEndEqualToDifferentValueRejected(t *testing.T) {
	api, reqs, sigs := equalToFixture(t, 30, 31)
	wp, err := api.CreateProof(reqs, vcptypes.SharedParams{}, sigs, vcptypes.Strict, vcptypes.NonceDefault)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if _, err := api.VerifyProof(reqs, vcptypes.SharedParams{}, wp.Data, nil, vcptypes.Strict, vcptypes.NonceDefault); err == nil {
		t.Fatal("VerifyProof: want error for equality class members holding different values, got nil")
	}
}
