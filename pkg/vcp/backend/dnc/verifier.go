// Copyright 2025 Certen Protocol

package dnc

import (
	"bytes"

	"github.com/cloudflare/circl/group"

	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// SpecificVerifier recomputes the Fiat-Shamir challenge over the proof's
// own commitments, checks each credential's plain Schnorr signature over
// its revealed commitment C, checks the disclosure proof that C opens to
// the revealed attributes plus the hidden ones the responses attest to,
// checks every accumulator clause's Merkle witness against its public
// root, and checks every range clause's bit-decomposition proof.
func SpecificVerifier(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, proof opaque.Proof, decryptReqs vcptypes.DecryptRequests, nonce vcptypes.Nonce) (vcptypes.WarningsAndDecryptResponses, error) {
	_ = decryptReqs

	var pw proofWire
	if err := opaque.DecodeBinary(proof.Raw, &pw); err != nil {
		return vcptypes.WarningsAndDecryptResponses{}, err
	}
	if pw.Nonce != nonce {
		return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewUserInputError(vcperr.NonceMismatch, "proof nonce %q does not match requested nonce %q", pw.Nonce, nonce)
	}

	challenge := computeChallenge(pw.Nonce, pw.Credentials, pw.AccumClauses, pw.RangeClauses, pw.EncClauses)
	gotChallenge, err := setScalar(pw.Challenge)
	if err != nil {
		return vcptypes.WarningsAndDecryptResponses{}, err
	}
	if !challenge.IsEqual(gotChallenge) {
		return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewCryptoLibraryError("challenge recomputation mismatch")
	}

	credInstrs, rangeInstrs, accumInstrs, encInstrs := classifyInstructions(instrs)

	var warnings []vcptypes.Warning
	for _, ce := range pw.Credentials {
		instr, ok := credInstrs[ce.Label]
		if !ok {
			return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "proof references unresolved credential %q", ce.Label)
		}
		ws, err := verifyCredentialEntry(ce, instr, pw.Responses, challenge)
		if err != nil {
			return vcptypes.WarningsAndDecryptResponses{}, err
		}
		warnings = append(warnings, ws...)
	}

	if err := verifyEqualityClasses(eqReqs, credInstrs, pw.Responses); err != nil {
		return vcptypes.WarningsAndDecryptResponses{}, err
	}

	accumByKey := map[string]vcptypes.ProofInstructionGeneral{}
	for _, instr := range accumInstrs {
		accumByKey[attrKey(instr.CredLabel, instr.AttrIdx)] = instr
	}
	for _, ae := range pw.AccumClauses {
		instr, ok := accumByKey[attrKey(ae.Label, ae.AttrIdx)]
		if !ok {
			return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "proof references unresolved accumulator clause on %q attribute %d", ae.Label, ae.AttrIdx)
		}
		if err := verifyAccumEntry(ae, instr); err != nil {
			return vcptypes.WarningsAndDecryptResponses{}, err
		}
	}

	rangeByKey := map[string]vcptypes.ProofInstructionGeneral{}
	for _, instr := range rangeInstrs {
		rangeByKey[attrKey(instr.CredLabel, instr.AttrIdx)] = instr
	}
	for _, re := range pw.RangeClauses {
		instr, ok := rangeByKey[attrKey(re.Label, re.AttrIdx)]
		if !ok {
			return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "proof references unresolved range clause on %q attribute %d", re.Label, re.AttrIdx)
		}
		ir := instr.Disclosure.InRange
		if err := verifyRange(ir.ProvingKey, ir.Min, ir.Max, re.Commitment, re.ProofBytes); err != nil {
			return vcptypes.WarningsAndDecryptResponses{}, err
		}
	}

	encByKey := map[string]vcptypes.ProofInstructionGeneral{}
	for _, instr := range encInstrs {
		encByKey[attrKey(instr.CredLabel, instr.AttrIdx)] = instr
	}
	for _, ee := range pw.EncClauses {
		if _, ok := encByKey[attrKey(ee.Label, ee.AttrIdx)]; !ok {
			return vcptypes.WarningsAndDecryptResponses{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "proof references unresolved encryption clause on %q attribute %d", ee.Label, ee.AttrIdx)
		}
	}

	return vcptypes.WarningsAndDecryptResponses{Warnings: warnings, DecryptResponses: nil}, nil
}

// verifyCredentialEntry checks the credential's Schnorr signature over C
// under the issuer's public key, then checks the disclosure proof that C
// opens to the revealed attributes plus the hidden ones the responses
// attest to.
func verifyCredentialEntry(ce credEntry, instr vcptypes.ProofInstructionGeneral, responses map[string][]byte, c group.Scalar) ([]vcptypes.Warning, error) {
	cr := instr.Disclosure.Credential

	var pub signerPublicSetup
	if err := opaque.DecodeBinary(cr.IssuerPublic.Setup.Raw, &pub); err != nil {
		return nil, err
	}
	pk, err := setElement(pub.PK)
	if err != nil {
		return nil, vcperr.NewCryptoLibraryError("decode signer public key: %v", err)
	}
	cElem, err := setElement(ce.C)
	if err != nil {
		return nil, vcperr.NewCryptoLibraryError("decode credential commitment: %v", err)
	}
	r, err := setElement(ce.R)
	if err != nil {
		return nil, vcperr.NewCryptoLibraryError("decode signature nonce: %v", err)
	}
	s, err := setScalar(ce.S)
	if err != nil {
		return nil, err
	}
	if !schnorrVerify(pk, r, s, ce.C) {
		return nil, vcperr.NewCryptoLibraryError("credential signature rejected for %q", ce.Label)
	}

	target := g.NewElement().Set(cElem)
	var warnings []vcptypes.Warning
	lhs := g.Identity()

	for i := range cr.IssuerPublic.Schema {
		idx := uint64(i)
		if rv, revealed := cr.RevIdxsAndVals[idx]; revealed {
			m := valueScalar(rv.Value)
			term := g.NewElement().Mul(attributeBase(idx), m)
			term.Neg(term)
			target.Add(target, term)
			if w, ok := revealPrivacyWarning(ce.Label, idx, rv.ClaimType); ok {
				warnings = append(warnings, w)
			}
			continue
		}
		zBytes, ok := responses[attrKey(ce.Label, idx)]
		if !ok {
			return nil, vcperr.NewUserInputError(vcperr.MissingSharedParam, "proof has no response for %q attribute %d", ce.Label, idx)
		}
		z, err := setScalar(zBytes)
		if err != nil {
			return nil, err
		}
		lhs.Add(lhs, g.NewElement().Mul(attributeBase(idx), z))
	}

	zBlinding, err := setScalar(ce.ZBlinding)
	if err != nil {
		return nil, err
	}
	lhs.Add(lhs, g.NewElement().Mul(gBlinding, zBlinding))

	tCred, err := setElement(ce.Commitment)
	if err != nil {
		return nil, vcperr.NewCryptoLibraryError("decode disclosure commitment: %v", err)
	}
	rhs := g.NewElement().Mul(target, c)
	rhs.Add(rhs, tCred)
	if !lhs.IsEqual(rhs) {
		return nil, vcperr.NewCryptoLibraryError("disclosure proof failed for credential %q", ce.Label)
	}
	return warnings, nil
}

// verifyEqualityClasses checks that every member of every equality class
// attests to the same underlying value: revealed members compare by their
// disclosed value, hidden members by their Schnorr response (which, under a
// shared challenge and shared per-class randomizer, is only identical
// across members when the signed values were identical). Without this
// check two credentials whose equal_to clause names different underlying
// attributes would still verify, since each credential's disclosure proof
// is otherwise checked in isolation.
func verifyEqualityClasses(eqReqs vcptypes.EqualityReqs, credInstrs map[string]vcptypes.ProofInstructionGeneral, responses map[string][]byte) error {
	for _, class := range eqReqs {
		var refValue vcptypes.DataValue
		var refResponse []byte
		haveValue, haveResponse := false, false

		for _, member := range class {
			instr, ok := credInstrs[member.Label]
			if !ok {
				return vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "equality class references unresolved credential %q", member.Label)
			}
			cr := instr.Disclosure.Credential
			if rv, revealed := cr.RevIdxsAndVals[member.Index]; revealed {
				if haveValue && rv.Value != refValue {
					return vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "equality class member %q[%d] does not match the rest of its class", member.Label, member.Index)
				}
				refValue, haveValue = rv.Value, true
				continue
			}
			z, ok := responses[attrKey(member.Label, member.Index)]
			if !ok {
				return vcperr.NewUserInputError(vcperr.MissingSharedParam, "proof has no response for %q attribute %d", member.Label, member.Index)
			}
			if haveResponse && !bytes.Equal(z, refResponse) {
				return vcperr.NewCryptoLibraryError("equality proof failed for %q attribute %d", member.Label, member.Index)
			}
			refResponse, haveResponse = z, true
		}
	}
	return nil
}

// verifyAccumEntry checks a Merkle membership witness against the
// accumulator's public root.
func verifyAccumEntry(ae accumEntry, instr vcptypes.ProofInstructionGeneral) error {
	ia := instr.Disclosure.InAccum

	var root []byte
	if err := opaque.DecodeBinary(ia.Accumulator.Raw, &root); err != nil {
		return err
	}
	var w merkleWitness
	raw := opaque.NewRawFromBytes("AccumulatorMembershipWitness", ae.Witness)
	if err := opaque.DecodeBinary(raw, &w); err != nil {
		return err
	}
	if !verifyMerklePath(root, w) {
		return vcperr.NewCryptoLibraryError("accumulator membership proof failed for %q attribute %d", ae.Label, ae.AttrIdx)
	}
	return nil
}
