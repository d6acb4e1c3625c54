// Copyright 2025 Certen Protocol

package dnc

import "github.com/certen/vcp/pkg/vcp/cryptoiface"

// Backend assembles the dnc reference backend's CryptoInterface, the
// ristretto255/blake3 counterpart to the ac2c backend's BLS12-381/gnark
// assembly in backend.go.
var Backend = cryptoiface.CryptoInterface{
	Name: "dnc",

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
