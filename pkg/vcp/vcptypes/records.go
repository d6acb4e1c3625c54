// Copyright 2025 Certen Protocol

package vcptypes

import "github.com/certen/vcp/pkg/vcp/opaque"

// SignerPublicData is the public material an Issuer publishes for a
// schema-bound signer: the backend's public setup data, the schema itself,
// and the indices that are blinded at issuance time.
type SignerPublicData struct {
	Setup      opaque.SignerPublicSetupData `json:"setup"`
	Schema     Schema                       `json:"schema"`
	BlindedIdx []CredAttrIndex              `json:"blinded_idxs"`
}

// SignerData bundles an Issuer's public and secret signer material.
type SignerData struct {
	Public SignerPublicData            `json:"public"`
	Secret opaque.SignerSecretData     `json:"secret"`
}

// AccumulatorData bundles an Accumulator Manager's public and secret
// material.
type AccumulatorData struct {
	Public opaque.AccumulatorPublicData `json:"public"`
	Secret opaque.AccumulatorSecretData `json:"secret"`
}

// CreateAccumulatorResponse is returned by create_accumulator_data.
type CreateAccumulatorResponse struct {
	Data  AccumulatorData    `json:"data"`
	Value opaque.Accumulator `json:"value"`
}

// AccumulatorAddRemoveResponse is returned by accumulator_add_remove.
type AccumulatorAddRemoveResponse struct {
	WitnessUpdateInfo opaque.AccumulatorWitnessUpdateInfo              `json:"witness_update_info"`
	WitnessesForNew   map[HolderID]opaque.AccumulatorMembershipWitness `json:"witnesses_for_new"`
	Data              AccumulatorData                                 `json:"data"`
	Value             opaque.Accumulator                               `json:"value"`
}

// SignatureAndRelatedData is what a holder stores for a credential once
// issued: the signature itself, the attribute values, and (for any
// attributes that are revocation members) the accumulator witnesses keyed
// by attribute index.
type SignatureAndRelatedData struct {
	Signature  opaque.Signature                                      `json:"signature"`
	Values     []DataValue                                           `json:"values"`
	AccumWits  map[CredAttrIndex]opaque.AccumulatorMembershipWitness `json:"accum_wits"`
}

// InAccumInfo names the shared-param keys a verifier uses to resolve an
// accumulator-membership clause for one attribute.
type InAccumInfo struct {
	Index                     CredAttrIndex  `json:"index"`
	AccumulatorPublicDataLbl  SharedParamKey `json:"accumulator_public_data_label"`
	MembershipProvingKeyLbl   SharedParamKey `json:"membership_proving_key_label"`
	AccumulatorLbl            SharedParamKey `json:"accumulator_label"`
	AccumulatorSeqNumLbl      SharedParamKey `json:"accumulator_seq_num_label"`
}

// InRangeInfo names the shared-param keys for a range clause on one
// attribute.
type InRangeInfo struct {
	Index          CredAttrIndex  `json:"index"`
	MinLbl         SharedParamKey `json:"min_label"`
	MaxLbl         SharedParamKey `json:"max_label"`
	RangeProvingKeyLbl SharedParamKey `json:"range_proving_key_label"`
}

// IndexAndLabel names the shared-param key for a verifiable-encryption
// clause on one attribute.
type IndexAndLabel struct {
	Index CredAttrIndex  `json:"index"`
	Label SharedParamKey `json:"label"`
}

// EqInfo asserts that attribute FromIndex of the credential it is attached
// to equals attribute ToIndex of credential ToLabel.
type EqInfo struct {
	FromIndex CredAttrIndex   `json:"from_index"`
	ToLabel   CredentialLabel `json:"to_label"`
	ToIndex   CredAttrIndex   `json:"to_index"`
}

// CredentialReqs is everything a proof request asks of one credential.
type CredentialReqs struct {
	SignerLabel  SharedParamKey  `json:"signer_label"`
	Disclosed    []CredAttrIndex `json:"disclosed"`
	InAccum      []InAccumInfo   `json:"in_accum"`
	NotInAccum   []InAccumInfo   `json:"not_in_accum"`
	InRange      []InRangeInfo   `json:"in_range"`
	EncryptedFor []IndexAndLabel `json:"encrypted_for"`
	EqualTo      []EqInfo        `json:"equal_to"`
}

// ProofMode selects between the General Signer Driver's production
// validation (Strict) and a relaxed mode that lets backend fuzz tests
// exercise deliberately malformed inputs (TestBackend). Section 4.4, point 4.
type ProofMode int

const (
	Strict ProofMode = iota
	TestBackend
)

// BlindSigningInfo is produced by create_blind_signing_info and carried by
// the holder through sign_with_blinded_attributes.
type BlindSigningInfo struct {
	BlindInfoForSigner opaque.BlindInfoForSigner   `json:"blind_info_for_signer"`
	BlindedAttributes  []CredAttrIndexAndDataValue `json:"blinded_attributes"`
	InfoForUnblinding  opaque.InfoForUnblinding    `json:"info_for_unblinding"`
}

// DecryptRequest/DecryptResponse model the per-authority verifiable
// decryption exchange: a verifier asks for a plaintext under a given
// authority, and gets back a claimed plaintext plus a decryption proof.
type DecryptRequest struct {
	AuthorityLabel SharedParamKey `json:"authority_label"`
}

type DecryptResponse struct {
	Value DataValue              `json:"value"`
	Proof opaque.DecryptionProof `json:"proof"`
}

// DecryptRequests/DecryptResponses index by credential, then attribute,
// then authority — matching the nested maps in the specification's
// VerifyProof/VerifyDecryption signatures.
type DecryptRequests = map[CredentialLabel]map[CredAttrIndex]map[AuthorityLabel]DecryptRequest
type DecryptResponses = map[CredentialLabel]map[CredAttrIndex]map[AuthorityLabel]DecryptResponse

// WarningKind discriminates the Warning union. Today the only variant is
// RevealPrivacyWarning; the type keeps room to grow per spec's open
// questions without breaking callers that switch on Kind.
type WarningKind string

const RevealPrivacyWarning WarningKind = "reveal_privacy_warning"

// Warning is a non-fatal advisory carried alongside a successful result;
// warnings never cause failure (section 7).
type Warning struct {
	Kind           WarningKind     `json:"kind"`
	CredLabel      CredentialLabel `json:"cred_label"`
	AttrIdx        CredAttrIndex   `json:"attr_idx"`
	Detail         string          `json:"detail"`
}

// DataForVerifier is what a holder sends a verifier alongside a proof: the
// attribute values it chose to reveal, and the proof itself.
type DataForVerifier struct {
	RevealedIdxsAndVals map[CredentialLabel]map[CredAttrIndex]DataValue `json:"revealed_idxs_and_vals"`
	Proof               opaque.Proof                                   `json:"proof"`
}

// WarningsAndDataForVerifier is create_proof's result.
type WarningsAndDataForVerifier struct {
	Warnings []Warning        `json:"warnings"`
	Data     DataForVerifier  `json:"data"`
}

// WarningsAndDecryptResponses is verify_proof's result.
type WarningsAndDecryptResponses struct {
	Warnings         []Warning         `json:"warnings"`
	DecryptResponses DecryptResponses `json:"decrypt_responses"`
}
