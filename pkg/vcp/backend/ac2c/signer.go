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

// signerPublicSetup is the wire form of SignerPublicSetupData: a
// Pointcheval-Sanders public key extended with a G1 twin of every Y_i
// exponent (G1Y) so the holder can build a Pedersen commitment to blinded
// attributes using the same exponents the signer will later apply.
type signerPublicSetup struct {
	G1Base []byte
	G2Base []byte
	G2X    []byte
	G2Y    [][]byte
	G1Y    [][]byte
}

type signerSecret struct {
	X []byte
	Y [][]byte
}

type signature struct {
	Sigma1 []byte
	Sigma2 []byte
}

type blindInfoForSigner struct {
	Cm []byte
}

type infoForUnblinding struct {
	T []byte
}

type blindSignature struct {
	Sigma1      []byte
	Sigma2Blind []byte
}

// CreateSignerData generates a fresh Pointcheval-Sanders keypair sized to
// schema's length. blindedIdxs is accepted for interface symmetry with the
// other backends but does not change key generation: every Y_i is
// published in both G1 and G2 so any subset of attributes can later be
// blinded.
func CreateSignerData(seed cryptoiface.RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (opaque.SignerPublicSetupData, opaque.SignerSecretData, error) {
	initGens()
	_ = seed // randomness is sourced from crypto/rand via fr.Element.SetRandom; seed kept for interface parity

	x, err := randomScalar()
	if err != nil {
		return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, vcperr.NewCryptoLibraryError("generate signer key: %v", err)
	}
	ys := make([]fr.Element, len(schema))
	for i := range ys {
		y, err := randomScalar()
		if err != nil {
			return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, vcperr.NewCryptoLibraryError("generate signer key: %v", err)
		}
		ys[i] = y
	}

	var g2X bls12381.G2Affine
	g2X.ScalarMultiplication(&g2Gen, scalarToBigInt(x))

	pub := signerPublicSetup{
		G1Base: g1Bytes(g1Gen),
		G2Base: g2Bytes(g2Gen),
		G2X:    g2Bytes(g2X),
	}
	sec := signerSecret{X: scalarBytes(x)}
	for _, y := range ys {
		var g2Y bls12381.G2Affine
		g2Y.ScalarMultiplication(&g2Gen, scalarToBigInt(y))
		var g1Y bls12381.G1Affine
		g1Y.ScalarMultiplication(&g1Gen, scalarToBigInt(y))
		pub.G2Y = append(pub.G2Y, g2Bytes(g2Y))
		pub.G1Y = append(pub.G1Y, g1Bytes(g1Y))
		sec.Y = append(sec.Y, scalarBytes(y))
	}

	pubRaw, err := opaque.EncodeBinary("SignerPublicSetupData", pub)
	if err != nil {
		return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, err
	}
	secRaw, err := opaque.EncodeBinary("SignerSecretData", sec)
	if err != nil {
		return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, err
	}
	return opaque.NewSignerPublicSetupData(pubRaw), opaque.NewSignerSecretData(secRaw), nil
}

// Sign computes a Pointcheval-Sanders signature (h, h^(x + sum y_i m_i))
// over values.
func Sign(seed cryptoiface.RNGSeed, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error) {
	initGens()
	_ = seed

	var sec signerSecret
	if err := opaque.DecodeBinary(signerData.Secret.Raw, &sec); err != nil {
		return opaque.Signature{}, err
	}

	u, err := randomScalar()
	if err != nil {
		return opaque.Signature{}, vcperr.NewCryptoLibraryError("sign: %v", err)
	}
	var h bls12381.G1Affine
	h.ScalarMultiplication(&g1Gen, scalarToBigInt(u))

	exponent, err := totalExponent(sec, values)
	if err != nil {
		return opaque.Signature{}, err
	}

	var sigma2 bls12381.G1Affine
	sigma2.ScalarMultiplication(&h, scalarToBigInt(exponent))

	raw, err := opaque.EncodeBinary("Signature", signature{Sigma1: g1Bytes(h), Sigma2: g1Bytes(sigma2)})
	if err != nil {
		return opaque.Signature{}, err
	}
	return opaque.NewSignature(raw), nil
}

// totalExponent computes x + sum_i y_i * m_i as an Fr scalar.
func totalExponent(sec signerSecret, values []vcptypes.DataValue) (fr.Element, error) {
	acc := setScalar(sec.X)
	for i, v := range values {
		if i >= len(sec.Y) {
			return fr.Element{}, vcperr.NewUserInputError(vcperr.SchemaMismatchKind, "value index %d has no corresponding signer exponent", i)
		}
		yi := setScalar(sec.Y[i])
		m := valueScalar(v)
		var term fr.Element
		term.Mul(&yi, &m)
		acc.Add(&acc, &term)
	}
	return acc, nil
}

func valueScalar(v vcptypes.DataValue) fr.Element {
	if v.Kind == vcptypes.KInt {
		return scalarFromUint64(v.Int)
	}
	return hashToScalar([]byte(v.Text))
}

// CreateBlindSigningInfo lets a holder commit to the attributes it wants
// hidden from the signer: Cm = g1^t * prod_{i in blinded} (g1^{y_i})^{m_i},
// a Pedersen commitment using the signer's published G1 twins as bases.
func CreateBlindSigningInfo(seed cryptoiface.RNGSeed, setup opaque.SignerPublicSetupData, schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue) (vcptypes.BlindSigningInfo, error) {
	initGens()
	_ = seed

	var pub signerPublicSetup
	if err := opaque.DecodeBinary(setup.Raw, &pub); err != nil {
		return vcptypes.BlindSigningInfo{}, err
	}

	t, err := randomScalar()
	if err != nil {
		return vcptypes.BlindSigningInfo{}, vcperr.NewCryptoLibraryError("create blind signing info: %v", err)
	}

	var cm bls12381.G1Affine
	cm.ScalarMultiplication(&g1Gen, scalarToBigInt(t))
	for _, a := range blindedAttrs {
		if int(a.Index) >= len(pub.G1Y) {
			return vcptypes.BlindSigningInfo{}, vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "blinded index %d out of range", a.Index)
		}
		g1Y, err := setG1(pub.G1Y[a.Index])
		if err != nil {
			return vcptypes.BlindSigningInfo{}, vcperr.NewCryptoLibraryError("decode g1 base: %v", err)
		}
		m := valueScalar(a.Value)
		var term bls12381.G1Affine
		term.ScalarMultiplication(&g1Y, scalarToBigInt(m))
		cm.Add(&cm, &term)
	}

	cmRaw, err := opaque.EncodeBinary("BlindInfoForSigner", blindInfoForSigner{Cm: g1Bytes(cm)})
	if err != nil {
		return vcptypes.BlindSigningInfo{}, err
	}
	tRaw, err := opaque.EncodeBinary("InfoForUnblinding", infoForUnblinding{T: scalarBytes(t)})
	if err != nil {
		return vcptypes.BlindSigningInfo{}, err
	}

	return vcptypes.BlindSigningInfo{
		BlindInfoForSigner: opaque.NewBlindInfoForSigner(cmRaw),
		BlindedAttributes:  blindedAttrs,
		InfoForUnblinding:  opaque.NewInfoForUnblinding(tRaw),
	}, nil
}

// SignWithBlindedAttributes produces a blind signature the holder can
// unblind: the signer folds its own randomizer u into the holder's
// commitment (Cm^u == h^t * prod h^{y_i m_i} because g1^{y_i u} == h^{y_i})
// so the result only needs h^{-t} removed to become a valid signature.
func SignWithBlindedAttributes(seed cryptoiface.RNGSeed, schema vcptypes.Schema, nonBlindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindInfo opaque.BlindInfoForSigner, setup opaque.SignerPublicSetupData, secret opaque.SignerSecretData) (opaque.BlindSignature, error) {
	initGens()
	_ = seed

	var bi blindInfoForSigner
	if err := opaque.DecodeBinary(blindInfo.Raw, &bi); err != nil {
		return opaque.BlindSignature{}, err
	}
	var sec signerSecret
	if err := opaque.DecodeBinary(secret.Raw, &sec); err != nil {
		return opaque.BlindSignature{}, err
	}
	cm, err := setG1(bi.Cm)
	if err != nil {
		return opaque.BlindSignature{}, vcperr.NewCryptoLibraryError("decode blind commitment: %v", err)
	}

	u, err := randomScalar()
	if err != nil {
		return opaque.BlindSignature{}, vcperr.NewCryptoLibraryError("sign with blinded attributes: %v", err)
	}
	var h bls12381.G1Affine
	h.ScalarMultiplication(&g1Gen, scalarToBigInt(u))

	var cmU bls12381.G1Affine
	cmU.ScalarMultiplication(&cm, scalarToBigInt(u))

	nonBlindExp, err := totalExponent(sec, expandNonBlinded(schema, nonBlindedAttrs))
	if err != nil {
		return opaque.BlindSignature{}, err
	}
	// totalExponent folds in x once; the holder's commitment carries the
	// blinded terms only, so x is applied here via nonBlindExp and must not
	// also be applied by the holder's side.
	var hToExp bls12381.G1Affine
	hToExp.ScalarMultiplication(&h, scalarToBigInt(nonBlindExp))

	var sigma2Blind bls12381.G1Affine
	sigma2Blind.Add(&cmU, &hToExp)

	raw, err := opaque.EncodeBinary("BlindSignature", blindSignature{Sigma1: g1Bytes(h), Sigma2Blind: g1Bytes(sigma2Blind)})
	if err != nil {
		return opaque.BlindSignature{}, err
	}
	return opaque.NewBlindSignature(raw), nil
}

// expandNonBlinded renders nonBlindedAttrs as a dense values slice, using
// the zero value (Int(0)) for blinded slots; those slots contribute zero
// to the exponent here because their terms are already folded into the
// holder's commitment Cm.
func expandNonBlinded(schema vcptypes.Schema, attrs []vcptypes.CredAttrIndexAndDataValue) []vcptypes.DataValue {
	out := make([]vcptypes.DataValue, len(schema))
	for i := range out {
		out[i] = vcptypes.Int(0)
	}
	for _, a := range attrs {
		if int(a.Index) < len(out) {
			out[a.Index] = a.Value
		}
	}
	return out
}

// UnblindBlindedSignature strips the holder's blinding factor t from a
// blind signature, recovering the real Pointcheval-Sanders signature.
func UnblindBlindedSignature(schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindSig opaque.BlindSignature, unblinder opaque.InfoForUnblinding) (opaque.Signature, error) {
	initGens()

	var bs blindSignature
	if err := opaque.DecodeBinary(blindSig.Raw, &bs); err != nil {
		return opaque.Signature{}, err
	}
	var unb infoForUnblinding
	if err := opaque.DecodeBinary(unblinder.Raw, &unb); err != nil {
		return opaque.Signature{}, err
	}

	h, err := setG1(bs.Sigma1)
	if err != nil {
		return opaque.Signature{}, vcperr.NewCryptoLibraryError("decode sigma1: %v", err)
	}
	sigma2Blind, err := setG1(bs.Sigma2Blind)
	if err != nil {
		return opaque.Signature{}, vcperr.NewCryptoLibraryError("decode sigma2: %v", err)
	}

	t := setScalar(unb.T)
	var negT fr.Element
	negT.Neg(&t)

	var hNegT bls12381.G1Affine
	hNegT.ScalarMultiplication(&h, scalarToBigInt(negT))

	var sigma2 bls12381.G1Affine
	sigma2.Add(&sigma2Blind, &hNegT)

	raw, err := opaque.EncodeBinary("Signature", signature{Sigma1: g1Bytes(h), Sigma2: g1Bytes(sigma2)})
	if err != nil {
		return opaque.Signature{}, err
	}
	return opaque.NewSignature(raw), nil
}
