// Copyright 2025 Certen Protocol

package dnc

import (
	"github.com/cloudflare/circl/group"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
)

// dnc's range proof is a sigma-protocol bit-decomposition proof rather than
// ac2c's Groth16 circuit: value-min is committed bit by bit under a
// dedicated Pedersen base, each bit is proven to be 0 or 1 with a
// Cramer-Damgard-Schoenmakers OR-proof, and the overall commitment is just
// the product of the per-bit commitments raised to their place values, so
// no separate sum-consistency proof is needed. Like ac2c's range circuit,
// this commitment is not cryptographically bound to the value hidden
// inside the credential's own Pedersen commitment; see DESIGN.md.

var bitBase = hashToElement("dnc/range-bit-base")

// rangeMaxBits bounds how many bits of (max - min) this backend will prove;
// fine for the attribute ranges a credential schema realistically carries
// (ages, scores, counts).
const rangeMaxBits = 32

const rangeMaxValue = uint64(1)<<rangeMaxBits - 1

type bitProof struct {
	B      []byte
	T0, T1 []byte
	E0, E1 []byte
	S0, S1 []byte
}

type rangeProof struct {
	Bits []bitProof
}

// CreateRangeProofProvingKey is a no-op key for this backend: the sigma
// protocol needs no trusted setup, so the key only carries a random nonce
// for a non-empty payload, matching ac2c's interface shape.
func CreateRangeProofProvingKey(seed cryptoiface.RNGSeed) (opaque.RangeProofProvingKey, error) {
	_ = seed
	nonce, err := randomScalar()
	if err != nil {
		return opaque.RangeProofProvingKey{}, vcperr.NewCryptoLibraryError("create range proving key: %v", err)
	}
	raw, err := opaque.EncodeBinary("RangeProofProvingKey", scalarBytes(nonce))
	if err != nil {
		return opaque.RangeProofProvingKey{}, err
	}
	return opaque.NewRangeProofProvingKey(raw), nil
}

// GetRangeProofMaxValue reports the largest (max - min) span this backend's
// bit decomposition is sized for.
func GetRangeProofMaxValue() uint64 { return rangeMaxValue }

func bitsNeeded(span uint64) int {
	n := 0
	for span > 0 {
		n++
		span >>= 1
	}
	if n == 0 {
		n = 1
	}
	if n > rangeMaxBits {
		n = rangeMaxBits
	}
	return n
}

func powerOfTwoScalar(i int) group.Scalar {
	s := g.NewScalar()
	s.SetUint64(uint64(1) << uint(i))
	return s
}

// bitCommitment returns bitBase^b * gBlinding^r.
func bitCommitment(b uint64, r group.Scalar) group.Element {
	c := g.NewElement().Mul(bitBase, scalarFromUint64(b))
	c.Add(c, g.NewElement().Mul(gBlinding, r))
	return c
}

// proveRange proves min <= value <= max via a bit decomposition of
// value-min, returning the proof bytes and the public range commitment
// (the product of per-bit commitments raised to their place values).
func proveRange(key opaque.RangeProofProvingKey, min, max, value uint64) (proofBytes []byte, commitment []byte, err error) {
	_ = key
	if value < min || value > max {
		return nil, nil, vcperr.NewUserInputError(vcperr.EmptyRange, "value %d out of range [%d, %d]", value, min, max)
	}
	delta := value - min
	nBits := bitsNeeded(max - min)

	commit := g.NewElement()
	isIdentitySet := false
	var proof rangeProof
	for i := 0; i < nBits; i++ {
		b := (delta >> uint(i)) & 1
		r, rerr := randomScalar()
		if rerr != nil {
			return nil, nil, vcperr.NewCryptoLibraryError("prove range: %v", rerr)
		}
		bc := bitCommitment(b, r)

		bp, perr := proveBit(b, r, bc)
		if perr != nil {
			return nil, nil, perr
		}
		proof.Bits = append(proof.Bits, bp)

		term := g.NewElement().Mul(bc, powerOfTwoScalar(i))
		if !isIdentitySet {
			commit = term
			isIdentitySet = true
		} else {
			commit.Add(commit, term)
		}
	}

	raw, err := opaque.EncodeBinary("RangeProof", proof)
	if err != nil {
		return nil, nil, err
	}
	rawBytes, err := raw.Bytes()
	if err != nil {
		return nil, nil, err
	}
	return rawBytes, elementBytes(commit), nil
}

// proveBit produces a CDS OR-proof that bc = bitBase^b * gBlinding^r for the
// known bit b in {0,1}, without revealing which.
func proveBit(b uint64, r group.Scalar, bc group.Element) (bitProof, error) {
	var bp bitProof
	bp.B = elementBytes(bc)

	// target(i) = bc / bitBase^i, so that target(i) = gBlinding^r iff b == i.
	target := func(i uint64) group.Element {
		t := g.NewElement().Mul(bitBase, scalarFromUint64(i))
		t.Neg(t)
		t.Add(t, bc)
		return t
	}

	// Simulate the false branch (1-b): pick random response and challenge,
	// derive the commitment that makes the verification equation hold.
	falseBit := uint64(1) - b
	sFalse, err := randomScalar()
	if err != nil {
		return bitProof{}, vcperr.NewCryptoLibraryError("prove bit: %v", err)
	}
	eFalse, err := randomScalar()
	if err != nil {
		return bitProof{}, vcperr.NewCryptoLibraryError("prove bit: %v", err)
	}
	tFalse := g.NewElement().Mul(gBlinding, sFalse)
	negTarget := g.NewElement().Mul(target(falseBit), eFalse)
	negTarget.Neg(negTarget)
	tFalse.Add(tFalse, negTarget)

	// Honest branch b: real Schnorr commitment.
	k, err := randomScalar()
	if err != nil {
		return bitProof{}, vcperr.NewCryptoLibraryError("prove bit: %v", err)
	}
	tTrue := g.NewElement().Mul(gBlinding, k)

	var t0, t1 group.Element
	if b == 0 {
		t0, t1 = tTrue, tFalse
	} else {
		t0, t1 = tFalse, tTrue
	}

	e := hashToScalar(elementBytes(bc), elementBytes(t0), elementBytes(t1))
	eTrue := g.NewScalar()
	eTrue.Sub(e, eFalse)

	sTrue := g.NewScalar()
	sTrue.Mul(eTrue, r)
	sTrue.Add(sTrue, k)

	var e0, e1, s0, s1 group.Scalar
	if b == 0 {
		e0, e1, s0, s1 = eTrue, eFalse, sTrue, sFalse
	} else {
		e0, e1, s0, s1 = eFalse, eTrue, sFalse, sTrue
	}

	bp.T0, bp.T1 = elementBytes(t0), elementBytes(t1)
	bp.E0, bp.E1 = scalarBytes(e0), scalarBytes(e1)
	bp.S0, bp.S1 = scalarBytes(s0), scalarBytes(s1)
	return bp, nil
}

// verifyRange checks a dnc range proof: every bit's OR-proof is valid and
// the claimed commitment equals the product of per-bit commitments raised
// to their place values.
func verifyRange(key opaque.RangeProofProvingKey, min, max uint64, commitment []byte, proofBytes []byte) error {
	_ = key
	var proof rangeProof
	raw := opaque.NewRawFromBytes("RangeProof", proofBytes)
	if err := opaque.DecodeBinary(raw, &proof); err != nil {
		return err
	}
	nBits := bitsNeeded(max - min)
	if len(proof.Bits) != nBits {
		return vcperr.NewCryptoLibraryError("range proof has %d bits, want %d", len(proof.Bits), nBits)
	}

	commit := g.NewElement()
	isIdentitySet := false
	for i, bp := range proof.Bits {
		bc, err := setElement(bp.B)
		if err != nil {
			return vcperr.NewCryptoLibraryError("decode bit commitment: %v", err)
		}
		if err := verifyBit(bc, bp); err != nil {
			return err
		}
		term := g.NewElement().Mul(bc, powerOfTwoScalar(i))
		if !isIdentitySet {
			commit = term
			isIdentitySet = true
		} else {
			commit.Add(commit, term)
		}
	}

	wantCommit, err := setElement(commitment)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode range commitment: %v", err)
	}
	if !commit.IsEqual(wantCommit) {
		return vcperr.NewCryptoLibraryError("range proof commitment does not match its bit decomposition")
	}
	return nil
}

func verifyBit(bc group.Element, bp bitProof) error {
	t0, err := setElement(bp.T0)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode bit proof: %v", err)
	}
	t1, err := setElement(bp.T1)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode bit proof: %v", err)
	}
	e0, err := setScalar(bp.E0)
	if err != nil {
		return err
	}
	e1, err := setScalar(bp.E1)
	if err != nil {
		return err
	}
	s0, err := setScalar(bp.S0)
	if err != nil {
		return err
	}
	s1, err := setScalar(bp.S1)
	if err != nil {
		return err
	}

	e := hashToScalar(elementBytes(bc), elementBytes(t0), elementBytes(t1))
	eSum := g.NewScalar()
	eSum.Add(e0, e1)
	if !eSum.IsEqual(e) {
		return vcperr.NewCryptoLibraryError("range bit proof challenge split does not match")
	}

	check := func(i uint64, t group.Element, ei, si group.Scalar) bool {
		target := g.NewElement().Mul(bitBase, scalarFromUint64(i))
		target.Neg(target)
		target.Add(target, bc)
		lhs := g.NewElement().Mul(gBlinding, si)
		rhs := g.NewElement().Mul(target, ei)
		rhs.Add(rhs, t)
		return lhs.IsEqual(rhs)
	}
	if !check(0, t0, e0, s0) || !check(1, t1, e1, s1) {
		return vcperr.NewCryptoLibraryError("range bit proof rejected")
	}
	return nil
}
