// Copyright 2025 Certen Protocol
//
// Package proof implements the Proof Driver (section 4.6): the thin layer
// between a resolved presentation request and a backend's three entry
// points (specific_prover, specific_verifier, specific_verify_decryption).
// It is also where panics originating inside backend code are contained —
// per section 7, a panic anywhere in a crypto backend becomes an
// UnexpectedError at the driver boundary rather than crashing the caller.
//
// Grounded on the original implementation's vcp::impl::general::proof
// module and on pkg/attestation/strategy's narrow entry-point wrappers.
package proof

import (
	"fmt"
	"runtime/debug"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/resolver"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// CreateProof resolves nonce (NonceDefault if empty) and delegates to the
// backend's specific_prover, recovering any panic into an UnexpectedError.
func CreateProof(ci cryptoiface.CryptoInterface, resolved resolver.Resolved, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData, nonce vcptypes.Nonce) (result vcptypes.WarningsAndProof, err error) {
	defer containPanic(&err)
	if nonce == "" {
		nonce = vcptypes.NonceDefault
	}
	return ci.SpecificProver(resolved.Instructions, resolved.EqualityReqs, sigs, nonce)
}

// VerifyProof delegates to the backend's specific_verifier, recovering any
// panic into an UnexpectedError.
func VerifyProof(ci cryptoiface.CryptoInterface, resolved resolver.Resolved, p opaque.Proof, decryptReqs vcptypes.DecryptRequests, nonce vcptypes.Nonce) (result vcptypes.WarningsAndDecryptResponses, err error) {
	defer containPanic(&err)
	if nonce == "" {
		nonce = vcptypes.NonceDefault
	}
	return ci.SpecificVerifier(resolved.Instructions, resolved.EqualityReqs, p, decryptReqs, nonce)
}

// VerifyDecryption delegates to the backend's specific_verify_decryption,
// recovering any panic into an UnexpectedError. Per section 7, warnings
// returned here are concatenated by the caller as
// [warnings_from_verify_proof, warnings_from_verify_decryption] — this
// function returns only its own slice.
func VerifyDecryption(ci cryptoiface.CryptoInterface, resolved resolver.Resolved, p opaque.Proof, keys map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, responses vcptypes.DecryptResponses) (warnings []vcptypes.Warning, err error) {
	defer containPanic(&err)
	return ci.SpecificVerifyDecryption(resolved.Instructions, resolved.EqualityReqs, p, keys, responses)
}

func containPanic(errp *error) {
	if r := recover(); r != nil {
		*errp = &vcperr.UnexpectedError{
			Reason: fmt.Sprintf("%v", r),
			Stack:  debug.Stack(),
		}
	}
}
