// Copyright 2025 Certen Protocol

package ac2c

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/certen/vcp/pkg/vcp/vcperr"
)

// pair wraps bls12381.Pair for the common single-pair case used throughout
// the compound proof of knowledge below.
func pair(p1 bls12381.G1Affine, p2 bls12381.G2Affine) (bls12381.GT, error) {
	gt, err := bls12381.Pair([]bls12381.G1Affine{p1}, []bls12381.G2Affine{p2})
	if err != nil {
		return bls12381.GT{}, vcperr.NewCryptoLibraryError("pairing: %v", err)
	}
	return gt, nil
}

func gtMul(a, b bls12381.GT) bls12381.GT {
	var out bls12381.GT
	out.Mul(&a, &b)
	return out
}

func gtInverse(a bls12381.GT) bls12381.GT {
	var out bls12381.GT
	out.Inverse(&a)
	return out
}

func gtExp(base bls12381.GT, exp fr.Element) bls12381.GT {
	var out bls12381.GT
	out.Exp(base, scalarToBigInt(exp))
	return out
}

func gtBytes(a bls12381.GT) []byte {
	b := a.Bytes()
	return b[:]
}

func setGT(b []byte) (bls12381.GT, error) {
	var gt bls12381.GT
	if err := gt.SetBytes(b); err != nil {
		return bls12381.GT{}, vcperr.NewCryptoLibraryError("decode GT element: %v", err)
	}
	return gt, nil
}

func gtEqual(a, b bls12381.GT) bool {
	return a.Equal(&b)
}
