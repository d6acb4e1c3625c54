// Copyright 2025 Certen Protocol

package dnc

import (
	"testing"

	"github.com/certen/vcp/pkg/vcp/accumulator"
	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/platform"
	"github.com/certen/vcp/pkg/vcp/resolver"
	"github.com/certen/vcp/pkg/vcp/sharedparams"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// TestEndToEndDisclosureRangeAndAccum exercises the dnc backend through the
// Platform API: issue a credential, disclose one attribute, prove an age is
// within range without revealing it, and prove accumulator membership.
func TestEndToEndDisclosureRangeAndAccum(t *testing.T) {
	ci := Backend
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt, vcptypes.CTAccumulatorMember}

	var seed cryptoiface.RNGSeed = 1
	setup, secret, err := ci.CreateSignerData(seed, schema, nil)
	if err != nil {
		t.Fatalf("CreateSignerData: %v", err)
	}
	signerData := vcptypes.SignerData{
		Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema},
		Secret: secret,
	}

	accumMgr, err := accumulator.NewManager(ci, seed)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	elem, err := ci.CreateAccumulatorElement("member-1")
	if err != nil {
		t.Fatalf("CreateAccumulatorElement: %v", err)
	}
	addResp, err := accumMgr.AddRemove(map[vcptypes.HolderID]opaque.AccumulatorElement{"holder": elem}, nil)
	if err != nil {
		t.Fatalf("AddRemove: %v", err)
	}

	values := []vcptypes.DataValue{vcptypes.Text("Alice"), vcptypes.Int(30), vcptypes.Text("member-1")}
	sig, err := ci.Sign(seed, values, signerData)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	mpk, err := ci.CreateMembershipProvingKey(seed)
	if err != nil {
		t.Fatalf("CreateMembershipProvingKey: %v", err)
	}
	rpk, err := ci.CreateRangeProofProvingKey(seed)
	if err != nil {
		t.Fatalf("CreateRangeProofProvingKey: %v", err)
	}

	shared := vcptypes.SharedParams{}
	sharedparams.PutOne(shared, "age-min", vcptypes.Int(18))
	sharedparams.PutOne(shared, "age-max", vcptypes.Int(65))

	snapshot := accumMgr.Snapshot()
	lk := resolver.Lookups{
		Signer: func(vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) {
			return signerData.Public, nil
		},
		Accumulator: func(vcptypes.SharedParamKey) (accumulator.State, error) { return snapshot, nil },
		MembershipProvingKey: func(vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return mpk, nil
		},
		RangeProvingKey: func(vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) { return rpk, nil },
		AuthorityPublicData: func(vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return opaque.AuthorityPublicData{}, nil
		},
	}

	api := platform.New(ci, lk)

	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {
			Disclosed: []vcptypes.CredAttrIndex{0},
			InRange:   []vcptypes.InRangeInfo{{Index: 1, MinLbl: "age-min", MaxLbl: "age-max"}},
			InAccum:   []vcptypes.InAccumInfo{{Index: 2}},
		},
	}
	sigs := map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData{
		"alice": {
			Signature: sig,
			Values:    values,
			AccumWits: map[vcptypes.CredAttrIndex]opaque.AccumulatorMembershipWitness{2: addResp.WitnessesForNew["holder"]},
		},
	}

	wp, err := api.CreateProof(reqs, shared, sigs, vcptypes.Strict, vcptypes.NonceDefault)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if _, ok := wp.Data.RevealedIdxsAndVals["alice"][0]; !ok {
		t.Fatal("CreateProof: expected revealed value for alice[0]")
	}

	wv, err := api.VerifyProof(reqs, shared, wp.Data, nil, vcptypes.Strict, vcptypes.NonceDefault)
	if err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
	_ = wv
}

// TestEndToEndRejectsTamperedRevealedValue ensures a verifier who is handed
// a different revealed value than what the holder actually disclosed gets
// rejected rather than silently accepted.
func TestEndToEndRejectsTamperedRevealedValue(t *testing.T) {
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
	tampered := wp.Data
	tampered.RevealedIdxsAndVals["alice"][0] = vcptypes.Text("Mallory")

	if _, err := api.VerifyProof(reqs, vcptypes.SharedParams{}, tampered, nil, vcptypes.Strict, vcptypes.NonceDefault); err == nil {
		t.Fatal("VerifyProof: want error for tampered revealed value, got nil")
	}
}

// equalToFixture issues two credentials sharing the same signer and returns
// everything needed to exercise an EqualTo clause between them.
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
