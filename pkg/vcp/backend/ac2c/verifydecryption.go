// Copyright 2025 Certen Protocol

package ac2c

import (
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// SpecificVerifyDecryption checks every claimed decryption response against
// the proof's own ciphertexts: the response's Chaum-Pedersen proof must
// verify against the clause's authority public data, and, whenever the
// caller also holds the authority's decryption key, a fresh decryption of
// the same ciphertext must agree with the claimed plaintext.
func SpecificVerifyDecryption(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, proof opaque.Proof, keys map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, responses vcptypes.DecryptResponses) ([]vcptypes.Warning, error) {
	initGens()
	_ = eqReqs

	var pw proofWire
	if err := opaque.DecodeBinary(proof.Raw, &pw); err != nil {
		return nil, err
	}

	_, _, _, encInstrs := classifyInstructions(instrs)
	encByKey := map[string]vcptypes.ProofInstructionGeneral{}
	for _, instr := range encInstrs {
		encByKey[attrKey(instr.CredLabel, instr.AttrIdx)] = instr
	}

	for _, ee := range pw.EncClauses {
		instr, ok := encByKey[attrKey(ee.Label, ee.AttrIdx)]
		if !ok {
			return nil, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "proof references unresolved encryption clause on %q attribute %d", ee.Label, ee.AttrIdx)
		}
		attrResponses, ok := responses[ee.Label]
		if !ok {
			continue
		}
		resp, ok := attrResponses[ee.AttrIdx][ee.AuthorityLabel]
		if !ok {
			continue
		}

		ef := instr.Disclosure.EncryptedFor
		ciphertext := opaque.NewRawFromBytes("VerifiableCiphertext", ee.Ciphertext)

		if err := verifyDecryptionProof(ef.AuthorityPub, ciphertext, resp.Proof); err != nil {
			return nil, err
		}

		if key, ok := keys[ee.AuthorityLabel]; ok {
			value, _, err := decryptWithAuthorityKey(key, ciphertext)
			if err != nil {
				return nil, err
			}
			if !dataValuesEqual(value, resp.Value) {
				return nil, vcperr.NewCryptoLibraryError("claimed decryption of %q attribute %d under %q does not match the ciphertext", ee.Label, ee.AttrIdx, ee.AuthorityLabel)
			}
		}
	}

	return nil, nil
}

func dataValuesEqual(a, b vcptypes.DataValue) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == vcptypes.KInt {
		return a.Int == b.Int
	}
	return a.Text == b.Text
}
