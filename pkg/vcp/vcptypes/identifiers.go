// Copyright 2025 Certen Protocol
//
// Package vcptypes holds the backend-agnostic data model of the VCP core:
// identifiers, claim types, data values, opaque artifact wrappers, and the
// composite records exchanged by the Platform API.
//
// Per section 3 of the Verifiable Credential Platform specification.

package vcptypes

// CredentialLabel names a credential within a single proof request.
type CredentialLabel = string

// IssuerLabel names the issuer of a credential's signer data.
type IssuerLabel = string

// HolderLabel names a holder.
type HolderLabel = string

// AuthorityLabel names a decryption authority.
type AuthorityLabel = string

// SharedParamKey names an entry in the shared-parameters registry.
type SharedParamKey = string

// CredAttrIndex addresses an attribute by its 0-based position in a schema.
type CredAttrIndex = uint64

// AccumulatorBatchSeqNo is a monotonic counter over accumulator batch
// updates, starting at 0.
type AccumulatorBatchSeqNo = uint64

// HolderID identifies a holder for the purposes of accumulator membership
// (e.g. which holder received a witness for a newly added element).
type HolderID = string

// Nonce is arbitrary transcript-binding text.
type Nonce = string

// NonceDefault is the fixed literal used when a caller supplies no nonce.
// Matches the original implementation's NONCE_DEFAULT lazy_static exactly.
const NonceDefault Nonce = "XXXDefaultDeterministicNonce"

// RelatedIndex is the dense, sorted-key position assigned to a credential
// label when resolving a proof request (section 4.5, step 1).
type RelatedIndex uint64
