// Copyright 2025 Certen Protocol

package dnc

import (
	"encoding/binary"
	"fmt"

	"github.com/cloudflare/circl/group"
)

// attrKey is the canonical (credential label, attribute index) key used to
// look responses and randomizers up by, mirroring ac2c's wire.go.
func attrKey(label string, idx uint64) string {
	return fmt.Sprintf("%s#%d", label, idx)
}

// proofWire is the serialized form of a compound proof: one credential
// commitment (revealed in the clear, see signer.go) plus its Schnorr
// signature and disclosure commitment, one Merkle witness per accumulator
// clause, one bit-decomposition range proof per range clause, one
// ciphertext per verifiable-encryption clause, and the single Fiat-Shamir
// challenge binding all of the above together with the Schnorr-style
// responses proving knowledge of (and, via shared responses, equality of)
// every hidden attribute.
type proofWire struct {
	Nonce        string
	Credentials  []credEntry
	AccumClauses []accumEntry
	RangeClauses []rangeEntry
	EncClauses   []encEntry

	Challenge []byte
	Responses map[string][]byte
}

type credEntry struct {
	Label      string
	C          []byte
	R          []byte
	S          []byte
	Commitment []byte // T_cred: the disclosure proof's own Schnorr commitment
	ZBlinding  []byte // response proving knowledge of C's blinding factor
}

type accumEntry struct {
	Label   string
	AttrIdx uint64
	Witness []byte // encoded merkleWitness
}

type rangeEntry struct {
	Label      string
	AttrIdx    uint64
	ProofBytes []byte
	Commitment []byte
}

type encEntry struct {
	Label          string
	AttrIdx        uint64
	AuthorityLabel string
	Ciphertext     []byte
}

// computeChallenge derives the single Fiat-Shamir challenge binding every
// clause's commitment together with the nonce, so a proof cannot be
// replayed under a different nonce or have its clauses recombined from
// another proof.
func computeChallenge(nonce string, creds []credEntry, accums []accumEntry, ranges []rangeEntry, encs []encEntry) group.Scalar {
	var parts [][]byte
	parts = append(parts, []byte(nonce))
	for _, c := range creds {
		parts = append(parts, []byte(c.Label), c.C, c.R, c.S, c.Commitment)
	}
	for _, a := range accums {
		parts = append(parts, []byte(a.Label), idxBytes(a.AttrIdx), a.Witness)
	}
	for _, r := range ranges {
		parts = append(parts, []byte(r.Label), idxBytes(r.AttrIdx), r.ProofBytes, r.Commitment)
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
