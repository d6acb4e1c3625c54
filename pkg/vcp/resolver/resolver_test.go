// Copyright 2025 Certen Protocol

package resolver

import (
	"testing"

	"github.com/certen/vcp/pkg/vcp/accumulator"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

func testSchema() vcptypes.Schema {
	return vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt, vcptypes.CTAccumulatorMember}
}

func testLookups(t *testing.T) Lookups {
	t.Helper()
	signerPub := vcptypes.SignerPublicData{Schema: testSchema()}
	return Lookups{
		Signer: func(label vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) {
			return signerPub, nil
		},
		Accumulator: func(label vcptypes.SharedParamKey) (accumulator.State, error) {
			return accumulator.State{SeqNum: 1}, nil
		},
		MembershipProvingKey: func(label vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return opaque.MembershipProvingKey{}, nil
		},
		RangeProvingKey: func(label vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) {
			return opaque.RangeProofProvingKey{}, nil
		},
		AuthorityPublicData: func(label vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return opaque.AuthorityPublicData{}, nil
		},
	}
}

func TestResolveOrdersByCredentialLabelThenKindThenIndex(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"bob": {
			Disclosed: []vcptypes.CredAttrIndex{0},
		},
		"alice": {
			Disclosed: []vcptypes.CredAttrIndex{0},
			InAccum:   []vcptypes.InAccumInfo{{Index: 2}},
		},
	}

	resolved, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.Instructions) != 3 {
		t.Fatalf("got %d instructions, want 3", len(resolved.Instructions))
	}
	// alice (RelatedPiIdx 0) sorts before bob (RelatedPiIdx 1); within
	// alice, the credential instruction (kind 0) sorts before the accum
	// clause (kind 2).
	if got := resolved.Instructions[0].CredLabel; got != "alice" {
		t.Errorf("instruction 0 cred = %q, want alice", got)
	}
	if got := resolved.Instructions[0].Disclosure.Kind; got != vcptypes.DisclosureCredential {
		t.Errorf("instruction 0 kind = %v, want DisclosureCredential", got)
	}
	if got := resolved.Instructions[1].Disclosure.Kind; got != vcptypes.DisclosureInAccum {
		t.Errorf("instruction 1 kind = %v, want DisclosureInAccum", got)
	}
	if got := resolved.Instructions[2].CredLabel; got != "bob" {
		t.Errorf("instruction 2 cred = %q, want bob", got)
	}
}

func TestResolveIsDeterministicAcrossMapIterationOrder(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"zebra": {Disclosed: []vcptypes.CredAttrIndex{0}},
		"alpha": {Disclosed: []vcptypes.CredAttrIndex{0}},
		"mango": {Disclosed: []vcptypes.CredAttrIndex{0}},
	}
	lk := testLookups(t)

	var first []vcptypes.CredentialLabel
	for i := 0; i < 20; i++ {
		resolved, err := Resolve(reqs, vcptypes.SharedParams{}, lk)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		var order []vcptypes.CredentialLabel
		for _, instr := range resolved.Instructions {
			order = append(order, instr.CredLabel)
		}
		if first == nil {
			first = order
			continue
		}
		if len(order) != len(first) {
			t.Fatalf("iteration %d: length changed", i)
		}
		for j := range order {
			if order[j] != first[j] {
				t.Fatalf("iteration %d: order[%d] = %q, want %q", i, j, order[j], first[j])
			}
		}
	}
}

func TestResolveBuildsEqualityClassAcrossCredentials(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {
			EqualTo: []vcptypes.EqInfo{{FromIndex: 1, ToLabel: "bob", ToIndex: 1}},
		},
		"bob": {},
	}
	resolved, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolved.EqualityReqs) != 1 {
		t.Fatalf("got %d equality classes, want 1", len(resolved.EqualityReqs))
	}
	class := resolved.EqualityReqs[0]
	if len(class) != 2 {
		t.Fatalf("got %d members, want 2", len(class))
	}
	if class[0].Label != "alice" || class[1].Label != "bob" {
		t.Errorf("class members = %+v, want sorted [alice bob]", class)
	}
}

func TestResolveRejectsUnknownEqualToCredential(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {
			EqualTo: []vcptypes.EqInfo{{FromIndex: 1, ToLabel: "ghost", ToIndex: 1}},
		},
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for equal_to referencing unknown credential, got nil")
	}
}

func TestResolveRejectsOutOfRangeIndex(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {Disclosed: []vcptypes.CredAttrIndex{99}},
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for out-of-range disclosed index, got nil")
	}
}

func TestResolveRejectsOutOfRangeEqualToIndex(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {EqualTo: []vcptypes.EqInfo{{FromIndex: 99, ToLabel: "bob", ToIndex: 1}}},
		"bob":   {},
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for out-of-range equal_to FromIndex, got nil")
	}

	reqs = map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {EqualTo: []vcptypes.EqInfo{{FromIndex: 1, ToLabel: "bob", ToIndex: 99}}},
		"bob":   {},
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for out-of-range equal_to ToIndex, got nil")
	}
}

func TestResolveRejectsMismatchedEqualToClaimTypes(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		// index 0 is CTText, index 1 is CTInt in testSchema.
		"alice": {EqualTo: []vcptypes.EqInfo{{FromIndex: 0, ToLabel: "bob", ToIndex: 1}}},
		"bob":   {},
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for equal_to spanning different claim types, got nil")
	}
}

func TestResolveRejectsNonAccumulatorMemberClaimType(t *testing.T) {
	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		"alice": {InAccum: []vcptypes.InAccumInfo{{Index: 0}}}, // index 0 is CTText
	}
	if _, err := Resolve(reqs, vcptypes.SharedParams{}, testLookups(t)); err == nil {
		t.Fatal("Resolve: want error for InAccum on non-AccumulatorMember attribute, got nil")
	}
}
