// Copyright 2025 Certen Protocol
//
// Package cryptoiface defines the Crypto-Interface Contract (section 4.3):
// the narrow primitive surface any concrete ZKP backend must implement so
// the Proof Driver can stay library-agnostic. Following the pattern in
// pkg/attestation/strategy/interface.go (a record of scheme-specific
// behavior implementations plug into) generalized to a record of function
// values rather than an interface, because — as in the original
// implementation — the same backend composes several unrelated primitive
// groups (signer, accumulator, authority, prover/verifier) that don't share
// a receiver type.
//
// CryptoInterface is immutable once built and safe to share across
// goroutines (section 5): no field keeps backend state between calls, so
// concurrent callers never contend on it.
package cryptoiface

import (
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// RNGSeed is the seed argument every randomized primitive takes. The ac2c
// and dnc backends do not read it and draw fresh randomness from
// crypto/rand, so reusing a seed with identical other inputs does not
// reproduce identical output.
type RNGSeed uint64

type (
	CreateSignerData func(seed RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (opaque.SignerPublicSetupData, opaque.SignerSecretData, error)

	Sign func(seed RNGSeed, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error)

	CreateBlindSigningInfo func(seed RNGSeed, setup opaque.SignerPublicSetupData, schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue) (vcptypes.BlindSigningInfo, error)

	SignWithBlindedAttributes func(seed RNGSeed, schema vcptypes.Schema, nonBlindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindInfo opaque.BlindInfoForSigner, setup opaque.SignerPublicSetupData, secret opaque.SignerSecretData) (opaque.BlindSignature, error)

	UnblindBlindedSignature func(schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindSig opaque.BlindSignature, unblinder opaque.InfoForUnblinding) (opaque.Signature, error)

	CreateAccumulatorData func(seed RNGSeed) (vcptypes.CreateAccumulatorResponse, error)

	CreateAccumulatorElement func(text string) (opaque.AccumulatorElement, error)

	AccumulatorAddRemove func(data vcptypes.AccumulatorData, current opaque.Accumulator, adds map[vcptypes.HolderID]opaque.AccumulatorElement, removes []opaque.AccumulatorElement) (vcptypes.AccumulatorAddRemoveResponse, error)

	GetAccumulatorWitness func(data vcptypes.AccumulatorData, current opaque.Accumulator, element opaque.AccumulatorElement) (opaque.AccumulatorMembershipWitness, error)

	UpdateAccumulatorWitness func(witness opaque.AccumulatorMembershipWitness, element opaque.AccumulatorElement, update opaque.AccumulatorWitnessUpdateInfo) (opaque.AccumulatorMembershipWitness, error)

	CreateMembershipProvingKey func(seed RNGSeed) (opaque.MembershipProvingKey, error)

	CreateRangeProofProvingKey func(seed RNGSeed) (opaque.RangeProofProvingKey, error)

	GetRangeProofMaxValue func() uint64

	CreateAuthorityData func(seed RNGSeed) (AuthorityDataResponse, error)

	SpecificProver func(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData, nonce vcptypes.Nonce) (vcptypes.WarningsAndProof, error)

	SpecificVerifier func(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, proof opaque.Proof, decryptReqs vcptypes.DecryptRequests, nonce vcptypes.Nonce) (vcptypes.WarningsAndDecryptResponses, error)

	SpecificVerifyDecryption func(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, proof opaque.Proof, keys map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, responses vcptypes.DecryptResponses) ([]vcptypes.Warning, error)
)

// AuthorityDataResponse is create_authority_data's result: the keypair for
// verifiable encryption plus the decryption key handed to the authority.
type AuthorityDataResponse struct {
	Public        opaque.AuthorityPublicData
	Secret        opaque.AuthoritySecretData
	DecryptionKey opaque.AuthorityDecryptionKey
}

// CryptoInterface is the full function-object record a backend populates.
// Built once per backend selection (section 6, "Backend selector") and
// shared by value across the platform assembly and any number of parallel
// callers.
type CryptoInterface struct {
	Name string

	CreateSignerData          CreateSignerData
	Sign                       Sign
	CreateBlindSigningInfo     CreateBlindSigningInfo
	SignWithBlindedAttributes SignWithBlindedAttributes
	UnblindBlindedSignature    UnblindBlindedSignature

	CreateAccumulatorData      CreateAccumulatorData
	CreateAccumulatorElement   CreateAccumulatorElement
	AccumulatorAddRemove       AccumulatorAddRemove
	GetAccumulatorWitness      GetAccumulatorWitness
	UpdateAccumulatorWitness   UpdateAccumulatorWitness
	CreateMembershipProvingKey CreateMembershipProvingKey

	CreateRangeProofProvingKey CreateRangeProofProvingKey
	GetRangeProofMaxValue      GetRangeProofMaxValue

	CreateAuthorityData CreateAuthorityData

	SpecificProver           SpecificProver
	SpecificVerifier         SpecificVerifier
	SpecificVerifyDecryption SpecificVerifyDecryption
}
