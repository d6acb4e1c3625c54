// Copyright 2025 Certen Protocol

package ac2c

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// SpecificProver builds one compound Fiat-Shamir proof covering every
// credential's signature-possession-plus-selective-disclosure clause, every
// accumulator-membership clause, every range clause, and every
// verifiable-encryption clause named by instrs, binding them with a single
// challenge and reusing one randomizer per equality class so that linked
// attributes can only be proven with matching underlying values (section
// 4.5's "compound proof" requirement, grounded on pkg/crypto/bls_zkp's
// Schnorr-over-pairing-target style, generalized from one relation to many).
func SpecificProver(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData, nonce vcptypes.Nonce) (vcptypes.WarningsAndProof, error) {
	initGens()

	credInstrs, rangeInstrs, accumInstrs, encInstrs := classifyInstructions(instrs)
	repOf := buildEqualityRepresentatives(eqReqs)

	type hiddenPair struct {
		Label string
		Idx   uint64
	}
	var hiddenPairs []hiddenPair
	repSeen := map[string]bool{}
	for label, instr := range credInstrs {
		cr := instr.Disclosure.Credential
		for i := range cr.IssuerPublic.Schema {
			idx := uint64(i)
			if _, revealed := cr.RevIdxsAndVals[idx]; revealed {
				continue
			}
			hiddenPairs = append(hiddenPairs, hiddenPair{label, idx})
			repSeen[repKeyFor(repOf, label, idx)] = true
		}
	}
	for _, instr := range accumInstrs {
		hiddenPairs = append(hiddenPairs, hiddenPair{instr.CredLabel, instr.AttrIdx})
		repSeen[repKeyFor(repOf, instr.CredLabel, instr.AttrIdx)] = true
	}

	kByRep := map[string]fr.Element{}
	for rep := range repSeen {
		k, err := randomScalar()
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("generate randomizer: %v", err)
		}
		kByRep[rep] = k
	}

	var warnings []vcptypes.Warning
	credEntries := make([]credEntry, 0, len(credInstrs))

	for label, instr := range credInstrs {
		cr := instr.Disclosure.Credential
		sig := sigs[label]

		var signerPub signerPublicSetup
		if err := opaque.DecodeBinary(cr.IssuerPublic.Setup.Raw, &signerPub); err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		var sigWire signature
		if err := opaque.DecodeBinary(sig.Signature.Raw, &sigWire); err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		sigma1, err := setG1(sigWire.Sigma1)
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("decode sigma1: %v", err)
		}
		sigma2, err := setG1(sigWire.Sigma2)
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("decode sigma2: %v", err)
		}

		r, err := randomScalar()
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("rerandomize signature: %v", err)
		}
		var sigma1P, sigma2P bls12381.G1Affine
		sigma1P.ScalarMultiplication(&sigma1, scalarToBigInt(r))
		sigma2P.ScalarMultiplication(&sigma2, scalarToBigInt(r))

		var tCred bls12381.GT
		tCred.SetOne()
		for i := range cr.IssuerPublic.Schema {
			idx := uint64(i)
			if rv, revealed := cr.RevIdxsAndVals[idx]; revealed {
				if w, ok := revealPrivacyWarning(label, idx, rv.ClaimType); ok {
					warnings = append(warnings, w)
				}
				continue
			}
			if int(idx) >= len(signerPub.G2Y) {
				return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.SchemaMismatchKind, "schema index %d has no signer base", idx)
			}
			g2Yi, err := setG2(signerPub.G2Y[idx])
			if err != nil {
				return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("decode g2 base: %v", err)
			}
			base, err := pair(sigma1P, g2Yi)
			if err != nil {
				return vcptypes.WarningsAndProof{}, err
			}
			k := kByRep[repKeyFor(repOf, label, idx)]
			tCred = gtMul(tCred, gtExp(base, k))
		}

		credEntries = append(credEntries, credEntry{
			Label: label, Sigma1Prime: g1Bytes(sigma1P), Sigma2Prime: g1Bytes(sigma2P), CommitmentGT: gtBytes(tCred),
		})
	}

	accumEntries := make([]accumEntry, 0, len(accumInstrs))
	for _, instr := range accumInstrs {
		label, idx := instr.CredLabel, instr.AttrIdx
		sig := sigs[label]
		w, ok := sig.AccumWits[idx]
		if !ok {
			return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.MissingSharedParam, "no accumulator witness stored for %s attribute %d", label, idx)
		}
		var wWire []byte
		if err := opaque.DecodeBinary(w.Raw, &wWire); err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		wPoint, err := setG1(wWire)
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("decode accumulator witness: %v", err)
		}
		base, err := pair(wPoint, g2Gen)
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		k := kByRep[repKeyFor(repOf, label, idx)]
		tAccum := gtExp(base, k)

		accumEntries = append(accumEntries, accumEntry{
			Label: label, AttrIdx: idx, Witness: g1Bytes(wPoint), CommitmentGT: gtBytes(tAccum),
		})
	}

	rangeEntries := make([]rangeEntry, 0, len(rangeInstrs))
	for _, instr := range rangeInstrs {
		label, idx := instr.CredLabel, instr.AttrIdx
		ir := instr.Disclosure.InRange
		sig := sigs[label]
		if int(idx) >= len(sig.Values) {
			return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "attribute index %d out of range for %s", idx, label)
		}
		v := sig.Values[idx]
		if v.Kind != vcptypes.KInt {
			return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "range clause on %s attribute %d requires an Int value", label, idx)
		}
		blinding, err := randomUint64Blinding()
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		proofBytes, commitment, err := proveRange(ir.ProvingKey, ir.Min, ir.Max, v.Int, blinding)
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		rangeEntries = append(rangeEntries, rangeEntry{Label: label, AttrIdx: idx, ProofBytes: proofBytes, Commitment: commitment})
	}

	encEntries := make([]encEntry, 0, len(encInstrs))
	for _, instr := range encInstrs {
		label, idx := instr.CredLabel, instr.AttrIdx
		ef := instr.Disclosure.EncryptedFor
		sig := sigs[label]
		if int(idx) >= len(sig.Values) {
			return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "attribute index %d out of range for %s", idx, label)
		}
		ctRaw, _, err := encryptForAuthority(ef.AuthorityPub, sig.Values[idx])
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		ctBytes, err := ctRaw.Bytes()
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		encEntries = append(encEntries, encEntry{Label: label, AttrIdx: idx, AuthorityLabel: ef.AuthorityLabel, Ciphertext: ctBytes})
	}

	challenge := computeChallenge(nonce, credEntries, accumEntries, rangeEntries, encEntries)

	responses := map[string][]byte{}
	for _, hp := range hiddenPairs {
		m := valueScalar(sigs[hp.Label].Values[hp.Idx])
		k := kByRep[repKeyFor(repOf, hp.Label, hp.Idx)]
		var z fr.Element
		z.Mul(&challenge, &m)
		z.Add(&z, &k)
		responses[attrKey(hp.Label, hp.Idx)] = scalarBytes(z)
	}

	proofRaw, err := opaque.EncodeBinary("Proof", proofWire{
		Nonce: nonce, Credentials: credEntries, AccumClauses: accumEntries,
		RangeClauses: rangeEntries, EncClauses: encEntries,
		Challenge: scalarBytes(challenge), Responses: responses,
	})
	if err != nil {
		return vcptypes.WarningsAndProof{}, err
	}

	return vcptypes.WarningsAndProof{Warnings: warnings, Proof: opaque.NewProof(proofRaw)}, nil
}

// classifyInstructions splits the resolved instruction list by clause kind.
func classifyInstructions(instrs []vcptypes.ProofInstructionGeneral) (
	credInstrs map[string]vcptypes.ProofInstructionGeneral,
	rangeInstrs, accumInstrs, encInstrs []vcptypes.ProofInstructionGeneral,
) {
	credInstrs = map[string]vcptypes.ProofInstructionGeneral{}
	for _, instr := range instrs {
		switch instr.Disclosure.Kind {
		case vcptypes.DisclosureCredential:
			credInstrs[instr.CredLabel] = instr
		case vcptypes.DisclosureInRange:
			rangeInstrs = append(rangeInstrs, instr)
		case vcptypes.DisclosureInAccum:
			accumInstrs = append(accumInstrs, instr)
		case vcptypes.DisclosureEncryptedFor:
			encInstrs = append(encInstrs, instr)
		}
	}
	return
}

// buildEqualityRepresentatives maps every (label, index) pair named by an
// equality class to that class's first (sorted) member: every attribute in
// a class reuses that member's randomizer and, consequently, the same
// response, which is what binds the class's witnesses to a single value
// (section 4.5, equality classes).
func buildEqualityRepresentatives(eqReqs vcptypes.EqualityReqs) map[string]string {
	repOf := map[string]string{}
	for _, class := range eqReqs {
		if len(class) == 0 {
			continue
		}
		rep := attrKey(class[0].Label, class[0].Index)
		for _, pair := range class {
			repOf[attrKey(pair.Label, pair.Index)] = rep
		}
	}
	return repOf
}

func repKeyFor(repOf map[string]string, label string, idx uint64) string {
	key := attrKey(label, idx)
	if rep, ok := repOf[key]; ok {
		return rep
	}
	return key
}

// revealPrivacyWarning fires exactly for the two claim types whose revealed
// value carries more than its own content: an EncryptableText slot usually
// exists so it can stay hidden and be decrypted only by an authority, and an
// AccumulatorMember slot is the value the holder's membership witness is
// built on. Matches the original implementation's two literal warning
// strings, "encryptable" and "an accumulator member".
func revealPrivacyWarning(label string, idx uint64, ct vcptypes.ClaimType) (vcptypes.Warning, bool) {
	var detail string
	switch ct {
	case vcptypes.CTEncryptableText:
		detail = "revealing an encryptable attribute's value defeats the point of encrypting it for an authority"
	case vcptypes.CTAccumulatorMember:
		detail = "revealing an accumulator member attribute's value may let a verifier link it to other presentations"
	default:
		return vcptypes.Warning{}, false
	}
	return vcptypes.Warning{Kind: vcptypes.RevealPrivacyWarning, CredLabel: label, AttrIdx: idx, Detail: detail}, true
}

func randomUint64Blinding() (uint64, error) {
	s, err := randomScalar()
	if err != nil {
		return 0, vcperr.NewCryptoLibraryError("generate range blinding: %v", err)
	}
	b := s.Bytes()
	// fold the scalar's first 8 bytes down to a 59-bit blinding value small
	// enough that value + blinding*7 in proveRange cannot overflow uint64 for
	// any value up to rangeMaxValue.
	var v uint64
	for _, x := range b[:8] {
		v = (v << 8) | uint64(x)
	}
	return v & (rangeMaxValue>>3 - 1), nil
}
