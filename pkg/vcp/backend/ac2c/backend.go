// Copyright 2025 Certen Protocol

package ac2c

import "github.com/certen/vcp/pkg/vcp/cryptoiface"

// Backend is this package's cryptoiface.CryptoInterface value: a
// Pointcheval-Sanders signer, a pairing-checked revocation accumulator, a
// Groth16 range-proof circuit, and a hybrid ElGamal/AEAD verifiable
// encryption authority, bound together by the compound Fiat-Shamir proof
// driver in prover.go/verifier.go.
var Backend = cryptoiface.CryptoInterface{
	Name: "ac2c",

	CreateSignerData:          CreateSignerData,
	Sign:                      Sign,
	CreateBlindSigningInfo:    CreateBlindSigningInfo,
	SignWithBlindedAttributes: SignWithBlindedAttributes,
	UnblindBlindedSignature:   UnblindBlindedSignature,

	CreateAccumulatorData:      CreateAccumulatorData,
	CreateAccumulatorElement:   CreateAccumulatorElement,
	AccumulatorAddRemove:       AccumulatorAddRemove,
	GetAccumulatorWitness:      GetAccumulatorWitness,
	UpdateAccumulatorWitness:   UpdateAccumulatorWitness,
	CreateMembershipProvingKey: CreateMembershipProvingKey,

	CreateRangeProofProvingKey: CreateRangeProofProvingKey,
	GetRangeProofMaxValue:      GetRangeProofMaxValue,

	CreateAuthorityData: CreateAuthorityData,

	SpecificProver:           SpecificProver,
	SpecificVerifier:         SpecificVerifier,
	SpecificVerifyDecryption: SpecificVerifyDecryption,
}
