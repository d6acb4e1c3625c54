// Copyright 2025 Certen Protocol

package vcptypes

import "github.com/certen/vcp/pkg/vcp/opaque"

// DisclosureKind discriminates ResolvedDisclosure, the variants of a
// resolved proof instruction (section 3, "Resolved instruction (internal)").
type DisclosureKind int

const (
	DisclosureCredential DisclosureKind = iota
	DisclosureInRange
	DisclosureInAccum
	DisclosureEncryptedFor
)

// CredentialResolved is the signature-possession-plus-disclosure
// instruction emitted once per credential.
type CredentialResolved struct {
	IssuerPublic   SignerPublicData
	RevIdxsAndVals map[CredAttrIndex]RevealedValue
}

// RevealedValue pairs a disclosed value with the claim type of the schema
// slot it came from, so a backend adapter never has to re-look-up the
// schema to build its disclosure set.
type RevealedValue struct {
	Value     DataValue
	ClaimType ClaimType
}

// InRangeResolved is a resolved range clause.
type InRangeResolved struct {
	Min, Max   uint64
	ProvingKey opaque.RangeProofProvingKey
}

// InAccumResolved is a resolved accumulator-membership clause. Member
// distinguishes a membership clause (InAccum, true) from a non-membership
// clause (NotInAccum, false); both share the same resolved shape because a
// backend's accumulator proving key and witness handling cover either
// direction.
type InAccumResolved struct {
	PublicData           opaque.AccumulatorPublicData
	MembershipProvingKey opaque.MembershipProvingKey
	Accumulator          opaque.Accumulator
	SeqNum               AccumulatorBatchSeqNo
	Member               bool
}

// EncryptedForResolved is a resolved verifiable-encryption clause.
type EncryptedForResolved struct {
	AuthorityLabel SharedParamKey
	AuthorityPub   opaque.AuthorityPublicData
}

// ResolvedDisclosure is the sum type over the four resolved-clause kinds.
// Exactly one of the typed fields is populated, selected by Kind — the Go
// analog of the original's enum-of-structs ResolvedDisclosure.
type ResolvedDisclosure struct {
	Kind         DisclosureKind
	Credential   *CredentialResolved
	InRange      *InRangeResolved
	InAccum      *InAccumResolved
	EncryptedFor *EncryptedForResolved
}

// ProofInstructionGeneral is one resolved, totally-ordered instruction
// feeding a backend's prover/verifier (section 3, invariants 4-5).
type ProofInstructionGeneral struct {
	CredLabel    CredentialLabel
	AttrIdx      CredAttrIndex // POKOfSignatureAppliesToAllAttributes for the credential instruction
	RelatedPiIdx RelatedIndex
	Disclosure   ResolvedDisclosure
}

// POKOfSignatureAppliesToAllAttributes is the sentinel attribute index used
// on the one CredentialResolved instruction per credential, which is not
// about a single attribute but the whole schema's proof of knowledge of
// signature.
const POKOfSignatureAppliesToAllAttributes CredAttrIndex = 0

// EqualityReq is one equivalence class: a sorted list of (label, index)
// pairs asserted equal.
type EqualityReq []EqPair

// EqPair is one member of an equality class.
type EqPair struct {
	Label CredentialLabel
	Index CredAttrIndex
}

// EqualityReqs is the sorted list of equality classes (section 3, invariant 6).
type EqualityReqs []EqualityReq

// WarningsAndProof is the output of a backend's specific_prover.
type WarningsAndProof struct {
	Warnings []Warning
	Proof    opaque.Proof
}
