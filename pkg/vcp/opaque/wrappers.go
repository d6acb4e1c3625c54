// Copyright 2025 Certen Protocol

package opaque

// Each wrapper below is a distinct newtype over Raw so the Go type system
// enforces "a proof produced by backend B must be consumed only by backend
// B" at the boundary between, e.g., SignerPublicSetupData and
// AccumulatorPublicData even though both are base64 payloads underneath.

type SignerPublicSetupData struct{ Raw }
type SignerSecretData struct{ Raw }
type Signature struct{ Raw }
type BlindSignature struct{ Raw }
type BlindInfoForSigner struct{ Raw }
type InfoForUnblinding struct{ Raw }
type AccumulatorPublicData struct{ Raw }
type AccumulatorSecretData struct{ Raw }
type Accumulator struct{ Raw }
type AccumulatorElement struct{ Raw }
type AccumulatorMembershipWitness struct{ Raw }
type AccumulatorWitnessUpdateInfo struct{ Raw }
type MembershipProvingKey struct{ Raw }
type RangeProofProvingKey struct{ Raw }
type AuthorityPublicData struct{ Raw }
type AuthoritySecretData struct{ Raw }
type AuthorityDecryptionKey struct{ Raw }
type DecryptionProof struct{ Raw }
type Proof struct{ Raw }

// Constructors — one per wrapper — so callers never build a Raw by hand and
// mislabel it with the wrong WrapperName.

func NewSignerPublicSetupData(r Raw) SignerPublicSetupData {
	return SignerPublicSetupData{Raw: NewRawFromPayload("SignerPublicSetupData", r.Payload())}
}
func NewSignerSecretData(r Raw) SignerSecretData {
	return SignerSecretData{Raw: NewRawFromPayload("SignerSecretData", r.Payload())}
}
func NewSignature(r Raw) Signature {
	return Signature{Raw: NewRawFromPayload("Signature", r.Payload())}
}
func NewBlindSignature(r Raw) BlindSignature {
	return BlindSignature{Raw: NewRawFromPayload("BlindSignature", r.Payload())}
}
func NewBlindInfoForSigner(r Raw) BlindInfoForSigner {
	return BlindInfoForSigner{Raw: NewRawFromPayload("BlindInfoForSigner", r.Payload())}
}
func NewInfoForUnblinding(r Raw) InfoForUnblinding {
	return InfoForUnblinding{Raw: NewRawFromPayload("InfoForUnblinding", r.Payload())}
}
func NewAccumulatorPublicData(r Raw) AccumulatorPublicData {
	return AccumulatorPublicData{Raw: NewRawFromPayload("AccumulatorPublicData", r.Payload())}
}
func NewAccumulatorSecretData(r Raw) AccumulatorSecretData {
	return AccumulatorSecretData{Raw: NewRawFromPayload("AccumulatorSecretData", r.Payload())}
}
func NewAccumulator(r Raw) Accumulator {
	return Accumulator{Raw: NewRawFromPayload("Accumulator", r.Payload())}
}
func NewAccumulatorElement(r Raw) AccumulatorElement {
	return AccumulatorElement{Raw: NewRawFromPayload("AccumulatorElement", r.Payload())}
}
func NewAccumulatorMembershipWitness(r Raw) AccumulatorMembershipWitness {
	return AccumulatorMembershipWitness{Raw: NewRawFromPayload("AccumulatorMembershipWitness", r.Payload())}
}
func NewAccumulatorWitnessUpdateInfo(r Raw) AccumulatorWitnessUpdateInfo {
	return AccumulatorWitnessUpdateInfo{Raw: NewRawFromPayload("AccumulatorWitnessUpdateInfo", r.Payload())}
}
func NewMembershipProvingKey(r Raw) MembershipProvingKey {
	return MembershipProvingKey{Raw: NewRawFromPayload("MembershipProvingKey", r.Payload())}
}
func NewRangeProofProvingKey(r Raw) RangeProofProvingKey {
	return RangeProofProvingKey{Raw: NewRawFromPayload("RangeProofProvingKey", r.Payload())}
}
func NewAuthorityPublicData(r Raw) AuthorityPublicData {
	return AuthorityPublicData{Raw: NewRawFromPayload("AuthorityPublicData", r.Payload())}
}
func NewAuthoritySecretData(r Raw) AuthoritySecretData {
	return AuthoritySecretData{Raw: NewRawFromPayload("AuthoritySecretData", r.Payload())}
}
func NewAuthorityDecryptionKey(r Raw) AuthorityDecryptionKey {
	return AuthorityDecryptionKey{Raw: NewRawFromPayload("AuthorityDecryptionKey", r.Payload())}
}
func NewDecryptionProof(r Raw) DecryptionProof {
	return DecryptionProof{Raw: NewRawFromPayload("DecryptionProof", r.Payload())}
}
func NewProof(r Raw) Proof {
	return Proof{Raw: NewRawFromPayload("Proof", r.Payload())}
}
