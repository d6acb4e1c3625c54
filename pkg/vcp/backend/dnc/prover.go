// Copyright 2025 Certen Protocol

package dnc

import (
	"github.com/cloudflare/circl/group"

	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// SpecificProver builds one compound proof covering every credential's
// disclosure clause, every accumulator-membership clause, every range
// clause, and every verifiable-encryption clause named by instrs. Unlike
// ac2c, a credential's signature here is checked directly (the commitment C
// and its Schnorr signature are shown in the clear); only the values hidden
// behind C need a zero-knowledge opening proof, which this function builds
// as one multi-base Schnorr representation proof per credential, sharing a
// randomizer per equality class exactly as ac2c does.
func SpecificProver(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, sigs map[vcptypes.CredentialLabel]vcptypes.SignatureAndRelatedData, nonce vcptypes.Nonce) (vcptypes.WarningsAndProof, error) {
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

	kByRep := map[string]group.Scalar{}
	for rep := range repSeen {
		k, err := randomScalar()
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("generate randomizer: %v", err)
		}
		kByRep[rep] = k
	}

	var warnings []vcptypes.Warning
	credEntries := make([]credEntry, 0, len(credInstrs))
	blindingByLabel := map[string]group.Scalar{}

	for label, instr := range credInstrs {
		cr := instr.Disclosure.Credential
		sig := sigs[label]

		var sigWire signature
		if err := opaque.DecodeBinary(sig.Signature.Raw, &sigWire); err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		blinding, err := setScalar(sigWire.Blinding)
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		blindingByLabel[label] = blinding

		kBlind, err := randomScalar()
		if err != nil {
			return vcptypes.WarningsAndProof{}, vcperr.NewCryptoLibraryError("generate blinding randomizer: %v", err)
		}
		tCred := g.NewElement().Mul(gBlinding, kBlind)

		for i := range cr.IssuerPublic.Schema {
			idx := uint64(i)
			if rv, revealed := cr.RevIdxsAndVals[idx]; revealed {
				if w, ok := revealPrivacyWarning(label, idx, rv.ClaimType); ok {
					warnings = append(warnings, w)
				}
				continue
			}
			k := kByRep[repKeyFor(repOf, label, idx)]
			term := g.NewElement().Mul(attributeBase(idx), k)
			tCred.Add(tCred, term)
		}

		credEntries = append(credEntries, credEntry{
			Label: label, C: sigWire.C, R: sigWire.R, S: sigWire.S, Commitment: elementBytes(tCred),
		})
		// kBlind is stashed under the same key responses are later filled
		// in from, using a label-scoped key distinct from any attribute key.
		kByRep["$blinding#"+label] = kBlind
	}

	accumEntries := make([]accumEntry, 0, len(accumInstrs))
	for _, instr := range accumInstrs {
		label, idx := instr.CredLabel, instr.AttrIdx
		sig := sigs[label]
		w, ok := sig.AccumWits[idx]
		if !ok {
			return vcptypes.WarningsAndProof{}, vcperr.NewUserInputError(vcperr.MissingSharedParam, "no accumulator witness stored for %s attribute %d", label, idx)
		}
		wBytes, err := w.Raw.Bytes()
		if err != nil {
			return vcptypes.WarningsAndProof{}, err
		}
		accumEntries = append(accumEntries, accumEntry{Label: label, AttrIdx: idx, Witness: wBytes})
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
		proofBytes, commitment, err := proveRange(ir.ProvingKey, ir.Min, ir.Max, v.Int)
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
		z := g.NewScalar()
		z.Mul(challenge, m)
		z.Add(z, k)
		responses[attrKey(hp.Label, hp.Idx)] = scalarBytes(z)
	}
	for i := range credEntries {
		label := credEntries[i].Label
		kBlind := kByRep["$blinding#"+label]
		blinding := blindingByLabel[label]
		z := g.NewScalar()
		z.Mul(challenge, blinding)
		z.Add(z, kBlind)
		credEntries[i].ZBlinding = scalarBytes(z)
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

// classifyInstructions splits the resolved instruction list by clause kind,
// the same split ac2c's prover/verifier use.
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
// equality class to that class's first (sorted) member.
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
// value carries more than its own content, matching ac2c's helper of the
// same name.
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
