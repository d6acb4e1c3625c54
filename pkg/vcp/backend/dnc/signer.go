// Copyright 2025 Certen Protocol

package dnc

import (
	"github.com/cloudflare/circl/group"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// signerPublicSetup is the wire form of SignerPublicSetupData: a Schnorr
// verification key plus the per-attribute Pedersen bases a credential's
// commitment is built from.
type signerPublicSetup struct {
	PK    []byte
	Bases [][]byte
}

type signerSecret struct {
	SK []byte
}

// signature is a credential: C is the Pedersen commitment to every
// attribute value plus a blinding factor, and (R, S) is a Schnorr signature
// over C under the issuer's key. Blinding is the holder's secret opening of
// C's blinding term; unlike ac2c's signature elements, C is never
// rerandomized before being shown to a verifier, so two presentations of the
// same credential are linkable through it (see package doc).
type signature struct {
	C        []byte
	R        []byte
	S        []byte
	Blinding []byte
}

type blindInfoForSigner struct {
	Cm []byte
}

type infoForUnblinding struct {
	T []byte
}

type blindSignature struct {
	C []byte
	R []byte
	S []byte
	// SignerBlinding is the signer's own contribution to the commitment's
	// blinding term; the holder adds it to its own secret T to recover the
	// full Blinding a finished signature carries.
	SignerBlinding []byte
}

// CreateSignerData generates a fresh Schnorr keypair and publishes one
// Pedersen base per schema slot. blindedIdxs is accepted for interface
// symmetry with ac2c; every base is usable for blind issuance regardless.
func CreateSignerData(seed cryptoiface.RNGSeed, schema vcptypes.Schema, blindedIdxs []vcptypes.CredAttrIndex) (opaque.SignerPublicSetupData, opaque.SignerSecretData, error) {
	_ = seed
	_ = blindedIdxs

	sk, err := randomScalar()
	if err != nil {
		return opaque.SignerPublicSetupData{}, opaque.SignerSecretData{}, vcperr.NewCryptoLibraryError("generate signer key: %v", err)
	}
	pk := g.NewElement().Mul(g.Generator(), sk)

	pub := signerPublicSetup{PK: elementBytes(pk)}
	for i := range schema {
		pub.Bases = append(pub.Bases, elementBytes(attributeBase(uint64(i))))
	}
	sec := signerSecret{SK: scalarBytes(sk)}

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

// commitmentFor builds C = gBlinding^blinding * prod H_i^{m_i} over values,
// using H_i = attributeBase(i).
func commitmentFor(blinding group.Scalar, values []vcptypes.DataValue) group.Element {
	c := g.NewElement().Mul(gBlinding, blinding)
	for i, v := range values {
		term := g.NewElement().Mul(attributeBase(uint64(i)), valueScalar(v))
		c.Add(c, term)
	}
	return c
}

func valueScalar(v vcptypes.DataValue) group.Scalar {
	if v.Kind == vcptypes.KInt {
		return scalarFromUint64(v.Int)
	}
	return hashToScalar([]byte(v.Text))
}

func scalarFromUint64(n uint64) group.Scalar {
	s := g.NewScalar()
	s.SetUint64(n)
	return s
}

// schnorrSign produces a Schnorr signature (R, S) over msg under sk.
func schnorrSign(sk group.Scalar, msg []byte) (group.Element, group.Scalar, error) {
	k, err := randomScalar()
	if err != nil {
		return nil, nil, vcperr.NewCryptoLibraryError("schnorr sign: %v", err)
	}
	r := g.NewElement().Mul(g.Generator(), k)
	e := hashToScalar(elementBytes(r), msg)
	s := g.NewScalar()
	s.Mul(e, sk)
	s.Add(s, k)
	return r, s, nil
}

func schnorrVerify(pk, r group.Element, s group.Scalar, msg []byte) bool {
	e := hashToScalar(elementBytes(r), msg)
	lhs := g.NewElement().Mul(g.Generator(), s)
	rhs := g.NewElement().Mul(pk, e)
	rhs.Add(rhs, r)
	return lhs.IsEqual(rhs)
}

// Sign commits to values under a fresh blinding factor and Schnorr-signs the
// commitment.
func Sign(seed cryptoiface.RNGSeed, values []vcptypes.DataValue, signerData vcptypes.SignerData) (opaque.Signature, error) {
	_ = seed

	var sec signerSecret
	if err := opaque.DecodeBinary(signerData.Secret.Raw, &sec); err != nil {
		return opaque.Signature{}, err
	}
	sk, err := setScalar(sec.SK)
	if err != nil {
		return opaque.Signature{}, err
	}

	blinding, err := randomScalar()
	if err != nil {
		return opaque.Signature{}, vcperr.NewCryptoLibraryError("sign: %v", err)
	}
	c := commitmentFor(blinding, values)
	cBytes := elementBytes(c)

	r, s, err := schnorrSign(sk, cBytes)
	if err != nil {
		return opaque.Signature{}, err
	}

	raw, err := opaque.EncodeBinary("Signature", signature{
		C: cBytes, R: elementBytes(r), S: scalarBytes(s), Blinding: scalarBytes(blinding),
	})
	if err != nil {
		return opaque.Signature{}, err
	}
	return opaque.NewSignature(raw), nil
}

// CreateBlindSigningInfo lets a holder commit to the attributes it wants
// hidden from the signer under its own secret blinding term t.
func CreateBlindSigningInfo(seed cryptoiface.RNGSeed, setup opaque.SignerPublicSetupData, schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue) (vcptypes.BlindSigningInfo, error) {
	_ = seed
	_ = setup

	t, err := randomScalar()
	if err != nil {
		return vcptypes.BlindSigningInfo{}, vcperr.NewCryptoLibraryError("create blind signing info: %v", err)
	}
	cm := g.NewElement().Mul(gBlinding, t)
	for _, a := range blindedAttrs {
		term := g.NewElement().Mul(attributeBase(uint64(a.Index)), valueScalar(a.Value))
		cm.Add(cm, term)
	}

	cmRaw, err := opaque.EncodeBinary("BlindInfoForSigner", blindInfoForSigner{Cm: elementBytes(cm)})
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

// SignWithBlindedAttributes folds the signer's own blinding contribution and
// the non-blinded attribute terms onto the holder's commitment, then
// Schnorr-signs the result.
func SignWithBlindedAttributes(seed cryptoiface.RNGSeed, schema vcptypes.Schema, nonBlindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindInfo opaque.BlindInfoForSigner, setup opaque.SignerPublicSetupData, secret opaque.SignerSecretData) (opaque.BlindSignature, error) {
	_ = seed

	var bi blindInfoForSigner
	if err := opaque.DecodeBinary(blindInfo.Raw, &bi); err != nil {
		return opaque.BlindSignature{}, err
	}
	var sec signerSecret
	if err := opaque.DecodeBinary(secret.Raw, &sec); err != nil {
		return opaque.BlindSignature{}, err
	}
	sk, err := setScalar(sec.SK)
	if err != nil {
		return opaque.BlindSignature{}, err
	}
	cm, err := setElement(bi.Cm)
	if err != nil {
		return opaque.BlindSignature{}, err
	}

	r, err := randomScalar()
	if err != nil {
		return opaque.BlindSignature{}, vcperr.NewCryptoLibraryError("sign with blinded attributes: %v", err)
	}

	c := g.NewElement().Mul(gBlinding, r)
	c.Add(c, cm)
	for _, a := range nonBlindedAttrs {
		term := g.NewElement().Mul(attributeBase(uint64(a.Index)), valueScalar(a.Value))
		c.Add(c, term)
	}
	cBytes := elementBytes(c)

	rSig, s, err := schnorrSign(sk, cBytes)
	if err != nil {
		return opaque.BlindSignature{}, err
	}

	raw, err := opaque.EncodeBinary("BlindSignature", blindSignature{
		C: cBytes, R: elementBytes(rSig), S: scalarBytes(s), SignerBlinding: scalarBytes(r),
	})
	if err != nil {
		return opaque.BlindSignature{}, err
	}
	return opaque.NewBlindSignature(raw), nil
}

// UnblindBlindedSignature adds the holder's own blinding secret t to the
// signer's contribution, recovering the opening of C's blinding term.
func UnblindBlindedSignature(schema vcptypes.Schema, blindedAttrs []vcptypes.CredAttrIndexAndDataValue, blindSig opaque.BlindSignature, unblinder opaque.InfoForUnblinding) (opaque.Signature, error) {
	_ = schema
	_ = blindedAttrs

	var bs blindSignature
	if err := opaque.DecodeBinary(blindSig.Raw, &bs); err != nil {
		return opaque.Signature{}, err
	}
	var unb infoForUnblinding
	if err := opaque.DecodeBinary(unblinder.Raw, &unb); err != nil {
		return opaque.Signature{}, err
	}
	t, err := setScalar(unb.T)
	if err != nil {
		return opaque.Signature{}, err
	}
	r, err := setScalar(bs.SignerBlinding)
	if err != nil {
		return opaque.Signature{}, err
	}
	blinding := g.NewScalar()
	blinding.Add(t, r)

	raw, err := opaque.EncodeBinary("Signature", signature{
		C: bs.C, R: bs.R, S: bs.S, Blinding: scalarBytes(blinding),
	})
	if err != nil {
		return opaque.Signature{}, err
	}
	return opaque.NewSignature(raw), nil
}
