// Copyright 2025 Certen Protocol
//
// Package signer implements the General Signer Driver (section 4.4): a
// validation wrapper around a backend's primitive signing operations. The
// driver never touches key material itself; it checks schema, index, and
// value-type consistency before delegating to the CryptoInterface, so every
// backend gets the same input-validation guarantees for free. Grounded on
// the original implementation's vcp::impl::general::signer module and
// structurally mirroring pkg/attestation/strategy's thin per-scheme
// wrappers around crypto primitives.
package signer

import (
	"sort"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// CreateSignerData validates the blinded-index set against the schema and
// delegates to the backend. Indices must be in range and free of
// duplicates; TestBackend mode skips this so fuzz harnesses can exercise a
// backend with deliberately malformed input.
func CreateSignerData(ci cryptoiface.CryptoInterface, mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (vcptypes.SignerData, error) {
	if mode == vcptypes.Strict {
		if err := checkIndicesInRange(schema, blindedIdxs); err != nil {
			return vcptypes.SignerData{}, err
		}
		if err := checkNoDuplicateIndices(blindedIdxs); err != nil {
			return vcptypes.SignerData{}, err
		}
	}
	setup, secret, err := ci.CreateSignerData(seed, schema, blindedIdxs)
	if err != nil {
		return vcptypes.SignerData{}, err
	}
	sorted := append([]vcptypes.CredAttrIndex(nil), blindedIdxs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return vcptypes.SignerData{
		Public: vcptypes.SignerPublicData{Setup: setup, Schema: schema, BlindedIdx: sorted},
		Secret: secret,
	}, nil
}

// Sign validates that values exactly matches the schema's length and that
// every value is type-compatible with its slot, then signs.
func Sign(ci cryptoiface.CryptoInterface, mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, schema vcptypes.Schema, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error) {
	if mode == vcptypes.Strict {
		if err := checkValuesMatchSchema(schema, values); err != nil {
			return opaque.Signature{}, err
		}
	}
	return ci.Sign(seed, values, signerData)
}

// CreateBlindSigningInfo validates that the blinded attributes supplied by
// the holder are exactly the signer's declared blinded-index set (no more,
// no fewer) and that each value fits its schema slot.
func CreateBlindSigningInfo(ci cryptoiface.CryptoInterface, mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, signerPublic vcptypes.SignerPublicData, blindedAttrs []vcptypes.CredAttrIndexAndDataValue) (vcptypes.BlindSigningInfo, error) {
	if mode == vcptypes.Strict {
		if err := checkBlindedSetMatches(signerPublic.BlindedIdx, blindedAttrs); err != nil {
			return vcptypes.BlindSigningInfo{}, err
		}
		if err := checkAttrValuesMatchSchema(signerPublic.Schema, blindedAttrs); err != nil {
			return vcptypes.BlindSigningInfo{}, err
		}
	}
	return ci.CreateBlindSigningInfo(seed, signerPublic.Setup, signerPublic.Schema, blindedAttrs)
}

// SignWithBlindedAttributes validates that nonBlindedAttrs is exactly the
// complement of the signer's blinded-index set before delegating.
func SignWithBlindedAttributes(ci cryptoiface.CryptoInterface, mode vcptypes.ProofMode, seed cryptoiface.RNGSeed, signerData vcptypes.SignerData, nonBlindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindInfo opaque.BlindInfoForSigner) (opaque.BlindSignature, error) {
	if mode == vcptypes.Strict {
		complement := complementOf(signerData.Public.BlindedIdx, len(signerData.Public.Schema))
		if err := checkBlindedSetMatches(complement, nonBlindedAttrs); err != nil {
			return opaque.BlindSignature{}, err
		}
		if err := checkAttrValuesMatchSchema(signerData.Public.Schema, nonBlindedAttrs); err != nil {
			return opaque.BlindSignature{}, err
		}
	}
	return ci.SignWithBlindedAttributes(seed, signerData.Public.Schema, nonBlindedAttrs, blindInfo, signerData.Public.Setup, signerData.Secret)
}

// UnblindBlindedSignature delegates directly; the holder already validated
// its own blinded attribute set when it called CreateBlindSigningInfo.
func UnblindBlindedSignature(ci cryptoiface.CryptoInterface, schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindSig opaque.BlindSignature, unblinder opaque.InfoForUnblinding) (opaque.Signature, error) {
	return ci.UnblindBlindedSignature(schema, blindedAttrs, blindSig, unblinder)
}

func checkIndicesInRange(schema vcptypes.Schema, idxs []vcptypes.CredAttrIndex) error {
	for _, i := range idxs {
		if i >= uint64(len(schema)) {
			return vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "index %d out of range for schema of length %d", i, len(schema))
		}
	}
	return nil
}

func checkNoDuplicateIndices(idxs []vcptypes.CredAttrIndex) error {
	seen := make(map[vcptypes.CredAttrIndex]struct{}, len(idxs))
	for _, i := range idxs {
		if _, ok := seen[i]; ok {
			return vcperr.NewUserInputError(vcperr.InvalidBlindedIndices, "duplicate blinded index %d", i)
		}
		seen[i] = struct{}{}
	}
	return nil
}

func checkValuesMatchSchema(schema vcptypes.Schema, values []vcptypes.DataValue) error {
	if len(values) != len(schema) {
		return vcperr.NewUserInputError(vcperr.SchemaMismatchKind, "schema has %d slots, got %d values", len(schema), len(values))
	}
	for i, v := range values {
		if !v.CompatibleWith(schema[i]) {
			return vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "value at index %d (%s) is incompatible with claim type %s", i, v.Kind, schema[i])
		}
	}
	return nil
}

func checkAttrValuesMatchSchema(schema vcptypes.Schema, attrs []vcptypes.CredAttrIndexAndDataValue) error {
	for _, a := range attrs {
		if a.Index >= uint64(len(schema)) {
			return vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "index %d out of range for schema of length %d", a.Index, len(schema))
		}
		if !a.Value.CompatibleWith(schema[a.Index]) {
			return vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "value at index %d (%s) is incompatible with claim type %s", a.Index, a.Value.Kind, schema[a.Index])
		}
	}
	return nil
}

// checkBlindedSetMatches verifies attrs covers exactly the index set want,
// with no duplicates and no stragglers in either direction.
func checkBlindedSetMatches(want []vcptypes.CredAttrIndex, attrs []vcptypes.CredAttrIndexAndDataValue) error {
	wantSet := make(map[vcptypes.CredAttrIndex]struct{}, len(want))
	for _, i := range want {
		wantSet[i] = struct{}{}
	}
	gotSet := make(map[vcptypes.CredAttrIndex]struct{}, len(attrs))
	for _, a := range attrs {
		if _, ok := gotSet[a.Index]; ok {
			return vcperr.NewUserInputError(vcperr.BlindedSetMismatch, "duplicate attribute index %d supplied", a.Index)
		}
		gotSet[a.Index] = struct{}{}
	}
	if len(wantSet) != len(gotSet) {
		return vcperr.NewUserInputError(vcperr.BlindedSetMismatch, "expected %d attributes, got %d", len(wantSet), len(gotSet))
	}
	for i := range wantSet {
		if _, ok := gotSet[i]; !ok {
			return vcperr.NewUserInputError(vcperr.BlindedSetMismatch, "missing required attribute index %d", i)
		}
	}
	return nil
}

func complementOf(sorted []vcptypes.CredAttrIndex, schemaLen int) []vcptypes.CredAttrIndex {
	in := make(map[vcptypes.CredAttrIndex]struct{}, len(sorted))
	for _, i := range sorted {
		in[i] = struct{}{}
	}
	out := make([]vcptypes.CredAttrIndex, 0, schemaLen-len(sorted))
	for i := 0; i < schemaLen; i++ {
		if _, ok := in[vcptypes.CredAttrIndex(i)]; !ok {
			out = append(out, vcptypes.CredAttrIndex(i))
		}
	}
	return out
}
