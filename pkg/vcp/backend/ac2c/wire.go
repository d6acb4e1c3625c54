// Copyright 2025 Certen Protocol

package ac2c

import (
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// attrKey is the canonical (credential label, attribute index) key used to
// look responses and randomizers up by, both within one credential's own
// proof of knowledge and across an equality class spanning credentials.
func attrKey(label string, idx uint64) string {
	return fmt.Sprintf("%s#%d", label, idx)
}

// proofWire is the serialized form of a compound proof: one rerandomized
// signature-possession commitment per credential, one accumulator-witness
// commitment per membership clause, one independent Groth16 range proof per
// range clause, one ciphertext per verifiable-encryption clause, and the
// single Fiat-Shamir challenge binding all of the above together along with
// the Schnorr-style responses proving knowledge of (and, via shared
// responses, equality of) every hidden attribute.
type proofWire struct {
	Nonce       string
	Credentials []credEntry
	AccumClauses []accumEntry
	RangeClauses []rangeEntry
	EncClauses   []encEntry

	Challenge []byte
	Responses map[string][]byte
}

type credEntry struct {
	Label        string
	Sigma1Prime  []byte
	Sigma2Prime  []byte
	CommitmentGT []byte
}

type accumEntry struct {
	Label        string
	AttrIdx      uint64
	Witness      []byte
	CommitmentGT []byte
}

type rangeEntry struct {
	Label      string
	AttrIdx    uint64
	ProofBytes []byte
	Commitment uint64
}

type encEntry struct {
	Label          string
	AttrIdx        uint64
	AuthorityLabel string
	Ciphertext     []byte
}

// computeChallenge derives the single Fiat-Shamir challenge binding every
// clause's commitment together with the nonce, so a proof cannot be replayed
// under a different nonce or have its clauses recombined from another
// proof.
func computeChallenge(nonce string, creds []credEntry, accums []accumEntry, ranges []rangeEntry, encs []encEntry) fr.Element {
	var parts [][]byte
	parts = append(parts, []byte(nonce))
	for _, c := range creds {
		parts = append(parts, []byte(c.Label), c.Sigma1Prime, c.Sigma2Prime, c.CommitmentGT)
	}
	for _, a := range accums {
		parts = append(parts, []byte(a.Label), idxBytes(a.AttrIdx), a.Witness, a.CommitmentGT)
	}
	for _, r := range ranges {
		parts = append(parts, []byte(r.Label), idxBytes(r.AttrIdx), r.ProofBytes, idxBytes(r.Commitment))
	}
	for _, e := range encs {
		parts = append(parts, []byte(e.Label), idxBytes(e.AttrIdx), []byte(e.AuthorityLabel), e.Ciphertext)
	}
	return hashToScalar(parts...)
}

func idxBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
