// Copyright 2025 Certen Protocol

package ac2c

import (
	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// The accumulator is a VB20-style bilinear accumulator: the manager holds a
// trapdoor alpha and tracks the running product P = prod(alpha + y_e) over
// every currently-accumulated element e as a plain Fr scalar (since alpha
// is a known field element to the manager, this product is ordinary field
// arithmetic, not a polynomial commitment). The public value is g1^P;
// membership of y_e is witnessed by w = g1^(P / (alpha+y_e)) and checked
// via e(w, g2^alpha * g2^y_e) == e(g1^P, g2).

type accumulatorSecret struct {
	Alpha   []byte
	Product []byte
}

type accumulatorPublic struct {
	G1Base  []byte
	G2Base  []byte
	G2Alpha []byte
}

type witnessUpdateInfo struct {
	Delta     []byte
	RemovedYs [][]byte
}

// CreateAccumulatorData initializes an empty accumulator (product = 1,
// value = g1).
func CreateAccumulatorData(seed cryptoiface.RNGSeed) (vcptypes.CreateAccumulatorResponse, error) {
	initGens()
	_ = seed

	alpha, err := randomScalar()
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, vcperr.NewCryptoLibraryError("create accumulator data: %v", err)
	}
	var one fr.Element
	one.SetOne()

	var g2Alpha bls12381.G2Affine
	g2Alpha.ScalarMultiplication(&g2Gen, scalarToBigInt(alpha))

	pubRaw, err := opaque.EncodeBinary("AccumulatorPublicData", accumulatorPublic{
		G1Base: g1Bytes(g1Gen), G2Base: g2Bytes(g2Gen), G2Alpha: g2Bytes(g2Alpha),
	})
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, err
	}
	secRaw, err := opaque.EncodeBinary("AccumulatorSecretData", accumulatorSecret{
		Alpha: scalarBytes(alpha), Product: scalarBytes(one),
	})
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, err
	}
	valRaw, err := opaque.EncodeBinary("Accumulator", g1Bytes(g1Gen))
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, err
	}

	return vcptypes.CreateAccumulatorResponse{
		Data: vcptypes.AccumulatorData{
			Public: opaque.NewAccumulatorPublicData(pubRaw),
			Secret: opaque.NewAccumulatorSecretData(secRaw),
		},
		Value: opaque.NewAccumulator(valRaw),
	}, nil
}

// CreateAccumulatorElement hashes text to the Fr scalar y_e used both as
// the accumulator's monomial root and the element's public identity.
func CreateAccumulatorElement(text string) (opaque.AccumulatorElement, error) {
	y := hashToScalar([]byte(text))
	raw, err := opaque.EncodeBinary("AccumulatorElement", scalarBytes(y))
	if err != nil {
		return opaque.AccumulatorElement{}, err
	}
	return opaque.NewAccumulatorElement(raw), nil
}

// AccumulatorAddRemove applies one batch: advances the secret running
// product by the added/removed elements' (alpha+y_e) factors, recomputes
// the public value, issues fresh witnesses for every newly added holder,
// and publishes a witness-update delta so holders outside the batch can
// fast-forward their own witnesses.
func AccumulatorAddRemove(data vcptypes.AccumulatorData, current opaque.Accumulator, adds map[vcptypes.HolderID]opaque.AccumulatorElement, removes []opaque.AccumulatorElement) (vcptypes.AccumulatorAddRemoveResponse, error) {
	initGens()

	var sec accumulatorSecret
	if err := opaque.DecodeBinary(data.Secret.Raw, &sec); err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	alpha := setScalar(sec.Alpha)
	product := setScalar(sec.Product)

	var delta fr.Element
	delta.SetOne()
	var removedYs [][]byte
	for _, e := range removes {
		var yBytes []byte
		if err := opaque.DecodeBinary(e.Raw, &yBytes); err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		y := setScalar(yBytes)
		factor := alphaPlus(alpha, y)
		inv := new(fr.Element).Inverse(&factor)
		delta.Mul(&delta, inv)
		product.Mul(&product, inv)
		removedYs = append(removedYs, yBytes)
	}
	for _, e := range adds {
		var yBytes []byte
		if err := opaque.DecodeBinary(e.Raw, &yBytes); err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		y := setScalar(yBytes)
		factor := alphaPlus(alpha, y)
		delta.Mul(&delta, &factor)
		product.Mul(&product, &factor)
	}

	var newValue bls12381.G1Affine
	newValue.ScalarMultiplication(&g1Gen, scalarToBigInt(product))

	witnesses := make(map[vcptypes.HolderID]opaque.AccumulatorMembershipWitness, len(adds))
	for holder, e := range adds {
		var yBytes []byte
		if err := opaque.DecodeBinary(e.Raw, &yBytes); err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		y := setScalar(yBytes)
		factor := alphaPlus(alpha, y)
		inv := new(fr.Element).Inverse(&factor)
		var w bls12381.G1Affine
		w.ScalarMultiplication(&newValue, scalarToBigInt(*inv))
		raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", g1Bytes(w))
		if err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		witnesses[holder] = opaque.NewAccumulatorMembershipWitness(raw)
	}

	secRaw, err := opaque.EncodeBinary("AccumulatorSecretData", accumulatorSecret{Alpha: sec.Alpha, Product: scalarBytes(product)})
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	valRaw, err := opaque.EncodeBinary("Accumulator", g1Bytes(newValue))
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	updateRaw, err := opaque.EncodeBinary("AccumulatorWitnessUpdateInfo", witnessUpdateInfo{Delta: scalarBytes(delta), RemovedYs: removedYs})
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}

	return vcptypes.AccumulatorAddRemoveResponse{
		WitnessUpdateInfo: opaque.NewAccumulatorWitnessUpdateInfo(updateRaw),
		WitnessesForNew:   witnesses,
		Data: vcptypes.AccumulatorData{
			Public: data.Public,
			Secret: opaque.NewAccumulatorSecretData(secRaw),
		},
		Value: opaque.NewAccumulator(valRaw),
	}, nil
}

func alphaPlus(alpha, y fr.Element) fr.Element {
	var out fr.Element
	out.Add(&alpha, &y)
	return out
}

// GetAccumulatorWitness computes a fresh witness directly from the secret
// trapdoor, used when a holder has lost its incremental witness chain.
func GetAccumulatorWitness(data vcptypes.AccumulatorData, current opaque.Accumulator, element opaque.AccumulatorElement) (opaque.AccumulatorMembershipWitness, error) {
	initGens()

	var sec accumulatorSecret
	if err := opaque.DecodeBinary(data.Secret.Raw, &sec); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	var yBytes []byte
	if err := opaque.DecodeBinary(element.Raw, &yBytes); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	var value []byte
	if err := opaque.DecodeBinary(current.Raw, &value); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	g1Value, err := setG1(value)
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, vcperr.NewCryptoLibraryError("decode accumulator value: %v", err)
	}

	alpha := setScalar(sec.Alpha)
	y := setScalar(yBytes)
	factor := alphaPlus(alpha, y)
	inv := new(fr.Element).Inverse(&factor)

	var w bls12381.G1Affine
	w.ScalarMultiplication(&g1Value, scalarToBigInt(*inv))

	raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", g1Bytes(w))
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	return opaque.NewAccumulatorMembershipWitness(raw), nil
}

// UpdateAccumulatorWitness fast-forwards witness through one batch: if
// element was removed in that batch the witness can never be valid again
// and RevokedElementError is returned; otherwise w_new = w_old^delta.
func UpdateAccumulatorWitness(witness opaque.AccumulatorMembershipWitness, element opaque.AccumulatorElement, update opaque.AccumulatorWitnessUpdateInfo) (opaque.AccumulatorMembershipWitness, error) {
	initGens()

	var yBytes []byte
	if err := opaque.DecodeBinary(element.Raw, &yBytes); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	var info witnessUpdateInfo
	if err := opaque.DecodeBinary(update.Raw, &info); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	for _, removed := range info.RemovedYs {
		if string(removed) == string(yBytes) {
			return opaque.AccumulatorMembershipWitness{}, &vcperr.RevokedElementError{Element: "accumulator element removed in this batch"}
		}
	}

	var wBytes []byte
	if err := opaque.DecodeBinary(witness.Raw, &wBytes); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	w, err := setG1(wBytes)
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, vcperr.NewCryptoLibraryError("decode witness: %v", err)
	}
	delta := setScalar(info.Delta)

	var wNew bls12381.G1Affine
	wNew.ScalarMultiplication(&w, scalarToBigInt(delta))

	raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", g1Bytes(wNew))
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	return opaque.NewAccumulatorMembershipWitness(raw), nil
}

// CreateMembershipProvingKey is a no-op key for this backend: the
// membership check needs only AccumulatorPublicData's G2Alpha, so the key
// carries a random nonce purely to give the wrapper a non-empty payload.
func CreateMembershipProvingKey(seed cryptoiface.RNGSeed) (opaque.MembershipProvingKey, error) {
	_ = seed
	nonce, err := randomScalar()
	if err != nil {
		return opaque.MembershipProvingKey{}, vcperr.NewCryptoLibraryError("create membership proving key: %v", err)
	}
	raw, err := opaque.EncodeBinary("MembershipProvingKey", scalarBytes(nonce))
	if err != nil {
		return opaque.MembershipProvingKey{}, err
	}
	return opaque.NewMembershipProvingKey(raw), nil
}
