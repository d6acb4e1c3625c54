// Copyright 2025 Certen Protocol
//
// Package ac2c is the "accumulator + credential, curve-based" reference
// backend: a Pointcheval-Sanders-style multi-message signature over
// BLS12-381, a pairing-checked cryptographic accumulator for revocation,
// and a Groth16 circuit for range proofs. Grounded on
// pkg/crypto/bls/bls.go (key types, generator initialization, gnark-crypto
// usage conventions) and pkg/crypto/bls_zkp/circuit.go (the Groth16
// circuit-definition style, including its commitment-over-field-elements
// simplification for values that would otherwise need expensive in-circuit
// elliptic-curve arithmetic).
package ac2c

import (
	"crypto/sha256"
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

var (
	initOnce sync.Once

	g1Gen bls12381.G1Affine
	g2Gen bls12381.G2Affine
)

func initGens() {
	initOnce.Do(func() {
		_, _, g1Gen, g2Gen = bls12381.Generators()
	})
}

// hashToScalar reduces an arbitrary-length byte string to an Fr element by
// SHA-256 hashing and interpreting the digest as a big-endian integer mod
// the scalar field order, the same "hash then reduce" approach
// pkg/crypto/bls uses for its GenerateKeyPairFromSeed.
func hashToScalar(parts ...[]byte) fr.Element {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	digest := h.Sum(nil)
	var s fr.Element
	s.SetBytes(digest)
	return s
}

func randomScalar() (fr.Element, error) {
	var s fr.Element
	_, err := s.SetRandom()
	return s, err
}

// scalarFromUint64 is used for Int-typed DataValues, which are already
// small integers rather than hashed content.
func scalarFromUint64(v uint64) fr.Element {
	var s fr.Element
	s.SetUint64(v)
	return s
}

// scalarToBigInt renders an Fr element as a big.Int suitable for
// ScalarMultiplication, which takes *big.Int rather than fr.Element.
func scalarToBigInt(s fr.Element) *big.Int {
	var b big.Int
	s.BigInt(&b)
	return &b
}

// g1Bytes/g2Bytes/scalarBytes render curve points and scalars as plain
// byte slices (gnark-crypto returns fixed-size arrays, which CBOR would
// otherwise encode as element-by-element arrays rather than compact
// byte strings).
func g1Bytes(p bls12381.G1Affine) []byte {
	b := p.Bytes()
	return b[:]
}

func g2Bytes(p bls12381.G2Affine) []byte {
	b := p.Bytes()
	return b[:]
}

func scalarBytes(s fr.Element) []byte {
	b := s.Bytes()
	return b[:]
}

func setG1(b []byte) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	_, err := p.SetBytes(b)
	return p, err
}

func setG2(b []byte) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	_, err := p.SetBytes(b)
	return p, err
}

func setScalar(b []byte) fr.Element {
	var s fr.Element
	s.SetBytes(b)
	return s
}
