// Copyright 2025 Certen Protocol

package dnc

import (
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// SpecificVerifyDecryption checks every verifiable-encryption clause's
// Chaum-Pedersen decryption proof and, where a decryption key is supplied,
// that the claimed plaintext actually matches the ciphertext.
func SpecificVerifyDecryption(instrs []vcptypes.ProofInstructionGeneral, eqReqs vcptypes.EqualityReqs, proof opaque.Proof, keys map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, responses vcptypes.DecryptResponses) ([]vcptypes.Warning, error) {
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
