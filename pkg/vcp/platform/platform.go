// Copyright 2025 Certen Protocol
//
// Package platform assembles one backend's CryptoInterface, the
// Presentation-Request Resolver's Lookups, and the General Signer Driver and
// Proof Driver into the full Platform API (spec.md section 6): the single
// surface a caller drives to issue credentials, maintain accumulators and
// authorities, and create/verify/audit proofs.
//
// PlatformApi also owns the one step none of the lower layers can do on
// their own: filling a resolved instruction's revealed attribute values in
// from the holder's signed values (create_proof) or the verifier's claimed
// disclosure (verify_proof/verify_decryption), since resolver.Resolve only
// has access to public signer/accumulator/authority data, never a
// credential's actual attribute values.
package platform

import (
	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/proof"
	"github.com/certen/vcp/pkg/vcp/resolver"
	"github.com/certen/vcp/pkg/vcp/signer"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// PlatformApi is the full Platform API for one backend selection. It is
// immutable once built and safe to share across goroutines, following
// CryptoInterface's own concurrency contract (section 5).
type PlatformApi struct {
	CI      cryptoiface.CryptoInterface
	Lookups resolver.Lookups
}

// New builds a PlatformApi from a backend selection and its Resolver
// Lookups.
func New(ci cryptoiface.CryptoInterface, lk resolver.Lookups) *PlatformApi {
	return &PlatformApi{CI: ci, Lookups: lk}
}

// CreateSignerData is issuer keygen + schema binding (spec.md section 6).
func (p *PlatformApi) CreateSignerData(mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (vcptypes.SignerData, error) {
	return signer.CreateSignerData(p.CI, mode, seed, schema, blindedIdxs)
}

// Sign issues a credential over values under signerData.
func (p *PlatformApi) Sign(mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, schema vcptypes.Schema, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error) {
	return signer.Sign(p.CI, mode, seed, schema, values, signerData)
}

// CreateBlindSigningInfo is the holder-side first step of the blind-issuance
// flow.
func (p *PlatformApi) CreateBlindSigningInfo(mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, signerPublic vcptypes.SignerPublicData, blindedAttrs []vcptypes.CredAttrIndexAndDataValue) (vcptypes.BlindSigningInfo, error) {
	return signer.CreateBlindSigningInfo(p.CI, mode, seed, signerPublic, blindedAttrs)
}

// SignWithBlindedAttributes is the issuer-side second step of the
// blind-issuance flow.
func (p *PlatformApi) SignWithBlindedAttributes(mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, signerData vcptypes.SignerData, nonBlindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindInfo opaque.BlindInfoForSigner) (opaque.BlindSignature, error) {
	return signer.SignWithBlindedAttributes(p.CI, mode, seed, signerData, nonBlindedAttrs, blindInfo)
}

// UnblindBlindedSignature is the holder-side third step of the
// blind-issuance flow.
func (p *PlatformApi) UnblindBlindedSignature(schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindSig opaque.BlindSignature, unblinder opaque.InfoForUnblinding) (opaque.Signature, error) {
	return signer.UnblindBlindedSignature(p.CI, schema, blindedAttrs, blindSig, unblinder)
}

// CreateAccumulatorData creates a fresh accumulator and its manager keys.
func (p *PlatformApi) CreateAccumulatorData(seed cryptoiface.RNGSeed) (vcptypes.CreateAccumulatorResponse, error) {
	return p.CI.CreateAccumulatorData(seed)
}

// CreateAccumulatorElement hashes text to an accumulator element.
func (p *PlatformApi) CreateAccumulatorElement(text string) (opaque.AccumulatorElement, error) {
	return p.CI.CreateAccumulatorElement(text)
}

// AccumulatorAddRemove applies one batch registry update.
func (p *PlatformApi) AccumulatorAddRemove(data vcptypes.AccumulatorData, current opaque.Accumulator, adds map[vcptypes.HolderID]opaque.AccumulatorElement, removes []opaque.AccumulatorElement) (vcptypes.AccumulatorAddRemoveResponse, error) {
	return p.CI.AccumulatorAddRemove(data, current, adds, removes)
}

// GetAccumulatorWitness fetches a fresh membership witness.
func (p *PlatformApi) GetAccumulatorWitness(data vcptypes.AccumulatorData, current opaque.Accumulator, element opaque.AccumulatorElement) (opaque.AccumulatorMembershipWitness, error) {
	return p.CI.GetAccumulatorWitness(data, current, element)
}

// UpdateAccumulatorWitness advances a holder-held witness through one
// batch's update info.
func (p *PlatformApi) UpdateAccumulatorWitness(witness opaque.AccumulatorMembershipWitness, element opaque.AccumulatorElement, update opaque.AccumulatorWitnessUpdateInfo) (opaque.AccumulatorMembershipWitness, error) {
	return p.CI.UpdateAccumulatorWitness(witness, element, update)
}

// CreateMembershipProvingKey is verifier/prover setup for accumulator
// membership clauses.
func (p *PlatformApi) CreateMembershipProvingKey(seed cryptoiface.RNGSeed) (opaque.MembershipProvingKey, error) {
	return p.CI.CreateMembershipProvingKey(seed)
}

// CreateRangeProofProvingKey is verifier/prover setup for range clauses.
func (p *PlatformApi) CreateRangeProofProvingKey(seed cryptoiface.RNGSeed) (opaque.RangeProofProvingKey, error) {
	return p.CI.CreateRangeProofProvingKey(seed)
}

// GetRangeProofMaxValue reports the backend-advertised range-proof ceiling.
func (p *PlatformApi) GetRangeProofMaxValue() uint64 {
	return p.CI.GetRangeProofMaxValue()
}

// CreateAuthorityData generates a verifiable-encryption authority's keypair.
func (p *PlatformApi) CreateAuthorityData(seed cryptoiface.RNGSeed) (cryptoiface.AuthorityDataResponse, error) {
	return p.CI.CreateAuthorityData(seed)
}

// CreateProof is the holder-side presentation operation: resolve reqs
// against shared, fill each revealed attribute's value in from sigs, and
// delegate to the Proof Driver.
func (p *PlatformApi) CreateProof(reqs map[vcptypes.CredentialLabel]vcptypes.CredentialReqs, shared vcptypes.SharedParams, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData, mode vcptypes.ProofMode, nonce vcptypes.Nonce) (vcptypes.WarningsAndDataForVerifier, error) {
	resolved, err := resolver.Resolve(reqs, shared, p.Lookups)
	if err != nil {
		return vcptypes.WarningsAndDataForVerifier{}, err
	}
	if mode == vcptypes.Strict {
		for label := range reqs {
			if _, ok := sigs[label]; !ok {
				return vcptypes.WarningsAndDataForVerifier{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "no signature supplied for credential %q", label)
			}
		}
	}
	if err := fillRevealedFromSignatures(resolved.Instructions, sigs); err != nil {
		return vcptypes.WarningsAndDataForVerifier{}, err
	}

	wp, err := proof.CreateProof(p.CI, resolved, sigs, nonce)
	if err != nil {
		return vcptypes.WarningsAndDataForVerifier{}, err
	}

	return vcptypes.WarningsAndDataForVerifier{
		Warnings: wp.Warnings,
		Data: vcptypes.DataForVerifier{
			RevealedIdxsAndVals: collectRevealed(resolved.Instructions),
			Proof:               wp.Proof,
		},
	}, nil
}

// VerifyProof is the verifier-side operation: resolve reqs against shared,
// fill each revealed attribute's value in from dfv, and delegate to the
// Proof Driver.
func (p *PlatformApi) VerifyProof(reqs map[vcptypes.CredentialLabel]vcptypes.CredentialReqs, shared vcptypes.SharedParams, dfv vcptypes.DataForVerifier, decryptReqs vcptypes.DecryptRequests, mode vcptypes.ProofMode, nonce vcptypes.Nonce) (vcptypes.WarningsAndDecryptResponses, error) {
	resolved, err := resolver.Resolve(reqs, shared, p.Lookups)
	if err != nil {
		return vcptypes.WarningsAndDecryptResponses{}, err
	}
	if err := fillRevealedFromClaims(resolved.Instructions, dfv.RevealedIdxsAndVals, mode); err != nil {
		return vcptypes.WarningsAndDecryptResponses{}, err
	}
	return proof.VerifyProof(p.CI, resolved, dfv.Proof, decryptReqs, nonce)
}

// VerifyDecryption is the authority/audit operation. Per the original
// implementation's verify_decryption, it re-verifies the base proof before
// checking any claimed decryption, and returns the two phases' warnings
// concatenated in that order.
func (p *PlatformApi) VerifyDecryption(reqs map[vcptypes.CredentialLabel]vcptypes.CredentialReqs, shared vcptypes.SharedParams, revealedIdxsAndVals map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex]vcptypes.DataValue, pf opaque.Proof, decryptReqs vcptypes.DecryptRequests, keys map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, responses vcptypes.DecryptResponses, mode vcptypes.ProofMode, nonce vcptypes.Nonce) ([]vcptypes.Warning, error) {
	resolved, err := resolver.Resolve(reqs, shared, p.Lookups)
	if err != nil {
		return nil, err
	}
	if err := fillRevealedFromClaims(resolved.Instructions, revealedIdxsAndVals, mode); err != nil {
		return nil, err
	}

	verified, err := proof.VerifyProof(p.CI, resolved, pf, decryptReqs, nonce)
	if err != nil {
		return nil, err
	}
	decryptWarnings, err := proof.VerifyDecryption(p.CI, resolved, pf, keys, responses)
	if err != nil {
		return nil, err
	}
	return append(append([]vcptypes.Warning{}, verified.Warnings...), decryptWarnings...), nil
}

// fillRevealedFromSignatures fills each CredentialResolved instruction's
// revealed-value map in from the holder's own signed attribute values.
func fillRevealedFromSignatures(instrs []vcptypes.ProofInstructionGeneral, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData) error {
	for _, instr := range instrs {
		if instr.Disclosure.Kind != vcptypes.DisclosureCredential {
			continue
		}
		cr := instr.Disclosure.Credential
		sig, ok := sigs[instr.CredLabel]
		if !ok {
			continue
		}
		for idx, rv := range cr.RevIdxsAndVals {
			if int(idx) >= len(sig.Values) {
				return vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "credential %q has no signed value at index %d", instr.CredLabel, idx)
			}
			rv.Value = sig.Values[idx]
			cr.RevIdxsAndVals[idx] = rv
		}
	}
	return nil
}

// fillRevealedFromClaims fills each CredentialResolved instruction's
// revealed-value map in from a verifier-supplied claim (the holder's
// DataForVerifier, or a caller's prior record of one). In Strict mode every
// index the resolver expects revealed must be present in claims.
func fillRevealedFromClaims(instrs []vcptypes.ProofInstructionGeneral, claims map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex]vcptypes.DataValue, mode vcptypes.ProofMode) error {
	for _, instr := range instrs {
		if instr.Disclosure.Kind != vcptypes.DisclosureCredential {
			continue
		}
		cr := instr.Disclosure.Credential
		byIdx := claims[instr.CredLabel]
		for idx, rv := range cr.RevIdxsAndVals {
			v, ok := byIdx[idx]
			if !ok {
				if mode == vcptypes.Strict {
					return vcperr.NewUserInputError(vcperr.MissingSharedParam, "no revealed value supplied for credential %q attribute %d", instr.CredLabel, idx)
				}
				continue
			}
			rv.Value = v
			cr.RevIdxsAndVals[idx] = rv
		}
	}
	return nil
}

// collectRevealed gathers every CredentialResolved instruction's revealed
// values into the nested map DataForVerifier carries to a verifier.
func collectRevealed(instrs []vcptypes.ProofInstructionGeneral) map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex]vcptypes.DataValue {
	out := make(map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex]vcptypes.DataValue)
	for _, instr := range instrs {
		if instr.Disclosure.Kind != vcptypes.DisclosureCredential {
			continue
		}
		cr := instr.Disclosure.Credential
		if len(cr.RevIdxsAndVals) == 0 {
			continue
		}
		byIdx := make(map[vcptypes.CredAttrIndex]vcptypes.DataValue, len(cr.RevIdxsAndVals))
		for idx, rv := range cr.RevIdxsAndVals {
			byIdx[idx] = rv.Value
		}
		out[instr.CredLabel] = byIdx
	}
	return out
}
