// VCP Demo CLI
// Assembles a PlatformApi for one backend selection, issues a pair of
// credentials, builds a presentation request exercising disclosure, a range
// clause, an accumulator-membership clause, a verifiable-encryption clause,
// and a cross-credential equality clause, then creates and verifies the
// resulting proof. The non-HTTP analog of the harness/test-vector flows
// spec.md places out of scope.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/certen/vcp/pkg/vcp/accumulator"
	"github.com/certen/vcp/pkg/vcp/authority"
	"github.com/certen/vcp/pkg/vcp/backend/ac2c"
	"github.com/certen/vcp/pkg/vcp/backend/dnc"
	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/platform"
	"github.com/certen/vcp/pkg/vcp/resolver"
	"github.com/certen/vcp/pkg/vcp/sharedparams"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
	"github.com/certen/vcp/pkg/vcpconfig"
)

const (
	lblIssuer     = "issuer-1"
	lblAccumPub   = "accum-1-pub"
	lblAccumVal   = "accum-1-val"
	lblAccumSeq   = "accum-1-seq"
	lblMembership = "membership-pk"
	lblRange      = "range-pk"
	lblAuthority  = "authority-1"
	lblMin        = "age-min"
	lblMax        = "age-max"

	credAlice = "alice"
	credBob   = "bob"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := vcpconfig.Load()
	if err != nil {
		return err
	}

	var ci cryptoiface.CryptoInterface
	switch cfg.UnderlyingCryptoInterface() {
	case "ac2c":
		ci = ac2c.Backend
	case "dnc":
		ci = dnc.Backend
	default:
		return fmt.Errorf("vcp-demo: no backend wired for %q", cfg.Backend)
	}
	log.Printf("vcp-demo: running backend %q (%s)", cfg.Backend, ci.Name)

	// Schema: 0=name (Text), 1=age (Int), 2=membership id (AccumulatorMember),
	// 3=ssn (EncryptableText).
	schema := vcptypes.Schema{vcptypes.CTText, vcptypes.CTInt, vcptypes.CTAccumulatorMember, vcptypes.CTEncryptableText}

	var seed cryptoiface.RNGSeed = 1
	setup, secret, err := ci.CreateSignerData(seed, schema, nil)
	if err != nil {
		return fmt.Errorf("create signer data: %w", err)
	}
	signerData := vcptypes.SignerData{
		Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema},
		Secret: secret,
	}

	accumMgr, err := accumulator.NewManager(ci, seed)
	if err != nil {
		return fmt.Errorf("create accumulator: %w", err)
	}

	authReg := authority.NewRegistry()
	authData, err := authority.CreateAuthorityData(ci, seed)
	if err != nil {
		return fmt.Errorf("create authority data: %w", err)
	}
	authReg.Put(lblAuthority, authData)

	aliceElem, err := ci.CreateAccumulatorElement("member-alice")
	if err != nil {
		return fmt.Errorf("create accumulator element: %w", err)
	}
	bobElem, err := ci.CreateAccumulatorElement("member-bob")
	if err != nil {
		return fmt.Errorf("create accumulator element: %w", err)
	}
	addResp, err := accumMgr.AddRemove(map[vcptypes.HolderID]opaque.AccumulatorElement{
		"alice": aliceElem,
		"bob":   bobElem,
	}, nil)
	if err != nil {
		return fmt.Errorf("accumulator add: %w", err)
	}

	aliceValues := []vcptypes.DataValue{
		vcptypes.Text("Alice Example"),
		vcptypes.Int(30),
		vcptypes.Text("member-alice"),
		vcptypes.Text("555-00-1234"),
	}
	bobValues := []vcptypes.DataValue{
		vcptypes.Text("Bob Example"),
		vcptypes.Int(30), // same age as Alice, proved equal without disclosure
		vcptypes.Text("member-bob"),
		vcptypes.Text("555-00-5678"),
	}

	aliceSig, err := ci.Sign(seed, aliceValues, signerData)
	if err != nil {
		return fmt.Errorf("sign alice: %w", err)
	}
	bobSig, err := ci.Sign(seed, bobValues, signerData)
	if err != nil {
		return fmt.Errorf("sign bob: %w", err)
	}

	sigs := map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData{
		credAlice: {
			Signature: aliceSig,
			Values:    aliceValues,
			AccumWits: map[vcptypes.CredAttrIndex]opaque.AccumulatorMembershipWitness{
				2: addResp.WitnessesForNew["alice"],
			},
		},
		credBob: {
			Signature: bobSig,
			Values:    bobValues,
			AccumWits: map[vcptypes.CredAttrIndex]opaque.AccumulatorMembershipWitness{
				2: addResp.WitnessesForNew["bob"],
			},
		},
	}

	mpk, err := ci.CreateMembershipProvingKey(seed)
	if err != nil {
		return fmt.Errorf("create membership proving key: %w", err)
	}
	rpk, err := ci.CreateRangeProofProvingKey(seed)
	if err != nil {
		return fmt.Errorf("create range proving key: %w", err)
	}

	shared := vcptypes.SharedParams{}
	sharedparams.PutOne(shared, lblMin, vcptypes.Int(18))
	sharedparams.PutOne(shared, lblMax, vcptypes.Int(65))

	signerPub := signerData.Public
	accumSnapshot := accumMgr.Snapshot()

	lk := resolver.Lookups{
		Signer: func(label vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error) {
			return signerPub, nil
		},
		Accumulator: func(label vcptypes.SharedParamKey) (accumulator.State, error) {
			return accumSnapshot, nil
		},
		MembershipProvingKey: func(label vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error) {
			return mpk, nil
		},
		RangeProvingKey: func(label vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error) {
			return rpk, nil
		},
		AuthorityPublicData: func(label vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
			return authReg.PublicData(lblAuthority)
		},
	}

	api := platform.New(ci, lk)

	reqs := map[vcptypes.CredentialLabel]vcptypes.CredentialReqs{
		credAlice: {
			SignerLabel: lblIssuer,
			Disclosed:   []vcptypes.CredAttrIndex{0},
			InAccum: []vcptypes.InAccumInfo{{
				Index: 2, AccumulatorPublicDataLbl: lblAccumPub, MembershipProvingKeyLbl: lblMembership,
				AccumulatorLbl: lblAccumVal, AccumulatorSeqNumLbl: lblAccumSeq,
			}},
			InRange: []vcptypes.InRangeInfo{{
				Index: 1, MinLbl: lblMin, MaxLbl: lblMax, RangeProvingKeyLbl: lblRange,
			}},
			EncryptedFor: []vcptypes.IndexAndLabel{{Index: 3, Label: lblAuthority}},
			EqualTo:      []vcptypes.EqInfo{{FromIndex: 1, ToLabel: credBob, ToIndex: 1}},
		},
		credBob: {
			SignerLabel: lblIssuer,
			InAccum: []vcptypes.InAccumInfo{{
				Index: 2, AccumulatorPublicDataLbl: lblAccumPub, MembershipProvingKeyLbl: lblMembership,
				AccumulatorLbl: lblAccumVal, AccumulatorSeqNumLbl: lblAccumSeq,
			}},
		},
	}

	nonce := vcptypes.NonceDefault

	wp, err := api.CreateProof(reqs, shared, sigs, vcptypes.Strict, nonce)
	if err != nil {
		return fmt.Errorf("create proof: %w", err)
	}
	printJSON("create_proof", wp)

	wv, err := api.VerifyProof(reqs, shared, wp.Data, nil, vcptypes.Strict, nonce)
	if err != nil {
		return fmt.Errorf("verify proof: %w", err)
	}
	printJSON("verify_proof", wv)

	log.Printf("vcp-demo: proof created and verified successfully")
	return nil
}

func printJSON(label string, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("%s: marshal error: %v", label, err)
		return
	}
	fmt.Printf("%s:\n%s\n", label, b)
}
