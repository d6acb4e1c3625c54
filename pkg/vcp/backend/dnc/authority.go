// Copyright 2025 Certen Protocol

package dnc

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/cloudflare/circl/group"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// Verifiable encryption mirrors ac2c's hybrid ElGamal-KEM / AEAD-DEM
// construction, swapping BLS12-381 G1 for ristretto255: C1 = G^r, shared =
// H^r where H = G^x is the authority's public key, and the plaintext is
// sealed under a key derived from shared with ChaCha20-Poly1305. Decryption
// correctness is shown by the same Chaum-Pedersen DLEQ proof that (G, H,
// C1, shared) is a Diffie-Hellman tuple.

type authoritySecret struct {
	X []byte
}

type authorityPublic struct {
	Base []byte
	H    []byte
}

type authorityDecryptionKey struct {
	X []byte
}

type verifiableCiphertext struct {
	C1     []byte
	Nonce  []byte
	Sealed []byte
}

type decryptionProof struct {
	Shared []byte
	T1     []byte
	T2     []byte
	Z      []byte
}

// CreateAuthorityData generates an ElGamal keypair for one decryption
// authority.
func CreateAuthorityData(seed cryptoiface.RNGSeed) (cryptoiface.AuthorityDataResponse, error) {
	_ = seed

	x, err := randomScalar()
	if err != nil {
		return cryptoiface.AuthorityDataResponse{}, vcperr.NewCryptoLibraryError("create authority data: %v", err)
	}
	h := g.NewElement().Mul(g.Generator(), x)

	pubRaw, err := opaque.EncodeBinary("AuthorityPublicData", authorityPublic{Base: elementBytes(g.Generator()), H: elementBytes(h)})
	if err != nil {
		return cryptoiface.AuthorityDataResponse{}, err
	}
	secRaw, err := opaque.EncodeBinary("AuthoritySecretData", authoritySecret{X: scalarBytes(x)})
	if err != nil {
		return cryptoiface.AuthorityDataResponse{}, err
	}
	keyRaw, err := opaque.EncodeBinary("AuthorityDecryptionKey", authorityDecryptionKey{X: scalarBytes(x)})
	if err != nil {
		return cryptoiface.AuthorityDataResponse{}, err
	}

	return cryptoiface.AuthorityDataResponse{
		Public:        opaque.NewAuthorityPublicData(pubRaw),
		Secret:        opaque.NewAuthoritySecretData(secRaw),
		DecryptionKey: opaque.NewAuthorityDecryptionKey(keyRaw),
	}, nil
}

// dataValueToBytes/dataValueFromBytes give DataValue a tiny fixed encoding
// for sealing, the same one-byte-kind-tag convention ac2c uses.
func dataValueToBytes(v vcptypes.DataValue) []byte {
	switch v.Kind {
	case vcptypes.KInt:
		b := make([]byte, 9)
		b[0] = byte(vcptypes.KInt)
		binary.BigEndian.PutUint64(b[1:], v.Int)
		return b
	default:
		b := make([]byte, 1+len(v.Text))
		b[0] = byte(vcptypes.KText)
		copy(b[1:], v.Text)
		return b
	}
}

func dataValueFromBytes(b []byte) (vcptypes.DataValue, error) {
	if len(b) == 0 {
		return vcptypes.DataValue{}, vcperr.NewCryptoLibraryError("empty decrypted payload")
	}
	switch vcptypes.Kind(b[0]) {
	case vcptypes.KInt:
		if len(b) != 9 {
			return vcptypes.DataValue{}, vcperr.NewCryptoLibraryError("malformed decrypted int")
		}
		return vcptypes.Int(binary.BigEndian.Uint64(b[1:])), nil
	case vcptypes.KText:
		return vcptypes.Text(string(b[1:])), nil
	default:
		return vcptypes.DataValue{}, vcperr.NewCryptoLibraryError("unknown decrypted value kind")
	}
}

func sealKeyFromShared(shared group.Element) []byte {
	b := scalarBytes(hashToScalar(elementBytes(shared)))
	return b[:chacha20poly1305.KeySize]
}

// encryptForAuthority produces a verifiable ciphertext for value under pub.
func encryptForAuthority(pub opaque.AuthorityPublicData, value vcptypes.DataValue) (opaque.Raw, group.Scalar, error) {
	var pd authorityPublic
	if err := opaque.DecodeBinary(pub.Raw, &pd); err != nil {
		return opaque.Raw{}, nil, err
	}
	h, err := setElement(pd.H)
	if err != nil {
		return opaque.Raw{}, nil, vcperr.NewCryptoLibraryError("decode authority public key: %v", err)
	}

	r, err := randomScalar()
	if err != nil {
		return opaque.Raw{}, nil, vcperr.NewCryptoLibraryError("encrypt for authority: %v", err)
	}
	c1 := g.NewElement().Mul(g.Generator(), r)
	shared := g.NewElement().Mul(h, r)

	aead, err := chacha20poly1305.New(sealKeyFromShared(shared))
	if err != nil {
		return opaque.Raw{}, nil, vcperr.NewCryptoLibraryError("init aead: %v", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return opaque.Raw{}, nil, vcperr.NewCryptoLibraryError("read nonce: %v", err)
	}
	c1Bytes := elementBytes(c1)
	sealed := aead.Seal(nil, nonce, dataValueToBytes(value), c1Bytes)

	raw, err := opaque.EncodeBinary("VerifiableCiphertext", verifiableCiphertext{C1: c1Bytes, Nonce: nonce, Sealed: sealed})
	if err != nil {
		return opaque.Raw{}, nil, err
	}
	return raw, r, nil
}

// decryptWithAuthorityKey recovers the plaintext and builds its
// Chaum-Pedersen decryption proof.
func decryptWithAuthorityKey(key opaque.AuthorityDecryptionKey, ciphertext opaque.Raw) (vcptypes.DataValue, opaque.DecryptionProof, error) {
	var dk authorityDecryptionKey
	if err := opaque.DecodeBinary(key.Raw, &dk); err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	x, err := setScalar(dk.X)
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}

	var ct verifiableCiphertext
	if err := opaque.DecodeBinary(ciphertext, &ct); err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	c1, err := setElement(ct.C1)
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("decode ciphertext c1: %v", err)
	}
	shared := g.NewElement().Mul(c1, x)

	aead, err := chacha20poly1305.New(sealKeyFromShared(shared))
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("init aead: %v", err)
	}
	plainBytes, err := aead.Open(nil, ct.Nonce, ct.Sealed, ct.C1)
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("open sealed attribute: %v", err)
	}
	value, err := dataValueFromBytes(plainBytes)
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}

	h := g.NewElement().Mul(g.Generator(), x)

	k, err := randomScalar()
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("decryption proof: %v", err)
	}
	t1 := g.NewElement().Mul(g.Generator(), k)
	t2 := g.NewElement().Mul(c1, k)

	c := hashToScalar(elementBytes(g.Generator()), elementBytes(h), elementBytes(c1), elementBytes(shared), elementBytes(t1), elementBytes(t2))
	z := g.NewScalar()
	z.Mul(c, x)
	z.Add(z, k)

	proofRaw, err := opaque.EncodeBinary("DecryptionProof", decryptionProof{
		Shared: elementBytes(shared), T1: elementBytes(t1), T2: elementBytes(t2), Z: scalarBytes(z),
	})
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	return value, opaque.NewDecryptionProof(proofRaw), nil
}

// verifyDecryptionProof checks a Chaum-Pedersen DLEQ proof that shared was
// derived from ciphertext's C1 using the same exponent as pub's H.
func verifyDecryptionProof(pub opaque.AuthorityPublicData, ciphertext opaque.Raw, proof opaque.DecryptionProof) error {
	var pd authorityPublic
	if err := opaque.DecodeBinary(pub.Raw, &pd); err != nil {
		return err
	}
	h, err := setElement(pd.H)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode authority public key: %v", err)
	}
	var ct verifiableCiphertext
	if err := opaque.DecodeBinary(ciphertext, &ct); err != nil {
		return err
	}
	c1, err := setElement(ct.C1)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode ciphertext c1: %v", err)
	}
	var dp decryptionProof
	if err := opaque.DecodeBinary(proof.Raw, &dp); err != nil {
		return err
	}
	shared, err := setElement(dp.Shared)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode shared point: %v", err)
	}
	t1, err := setElement(dp.T1)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode t1: %v", err)
	}
	t2, err := setElement(dp.T2)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode t2: %v", err)
	}
	z, err := setScalar(dp.Z)
	if err != nil {
		return err
	}

	c := hashToScalar(elementBytes(g.Generator()), elementBytes(h), elementBytes(c1), elementBytes(shared), elementBytes(t1), elementBytes(t2))

	lhs1 := g.NewElement().Mul(g.Generator(), z)
	rhs1 := g.NewElement().Mul(h, c)
	rhs1.Add(rhs1, t1)
	if !lhs1.IsEqual(rhs1) {
		return vcperr.NewCryptoLibraryError("decryption proof failed: g^z != t1 * H^c")
	}

	lhs2 := g.NewElement().Mul(c1, z)
	rhs2 := g.NewElement().Mul(shared, c)
	rhs2.Add(rhs2, t2)
	if !lhs2.IsEqual(rhs2) {
		return vcperr.NewCryptoLibraryError("decryption proof failed: C1^z != t2 * shared^c")
	}
	return nil
}
