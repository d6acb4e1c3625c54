// Copyright 2025 Certen Protocol

package ac2c

import (
	"crypto/rand"
	"encoding/binary"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// Verifiable encryption is a hybrid ElGamal-KEM / AEAD-DEM construction: the
// encapsulated key is an ElGamal ciphertext over BLS12-381 G1 (C1 = g1^r,
// shared = H^r where H = g1^x is the authority's public key), and the
// attribute's plaintext bytes are sealed under a key derived from the
// shared point with ChaCha20-Poly1305 -- the same AEAD cloudflare/circl's
// own HPKE package uses for the DEM half of a KEM/DEM construction.
//
// Decryption correctness is shown by a Chaum-Pedersen proof that
// (g1, H, C1, shared) is a Diffie-Hellman tuple, i.e. that the authority
// used the same exponent x to produce H as it did to reconstruct shared
// from C1; this lets a verifier trust a claimed decryption without it
// learning x.

type authoritySecret struct {
	X []byte
}

type authorityPublic struct {
	G1Base []byte
	H      []byte
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
	initGens()
	_ = seed

	x, err := randomScalar()
	if err != nil {
		return cryptoiface.AuthorityDataResponse{}, vcperr.NewCryptoLibraryError("create authority data: %v", err)
	}
	var h bls12381.G1Affine
	h.ScalarMultiplication(&g1Gen, scalarToBigInt(x))

	pubRaw, err := opaque.EncodeBinary("AuthorityPublicData", authorityPublic{G1Base: g1Bytes(g1Gen), H: g1Bytes(h)})
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
// for sealing -- a one-byte kind tag followed by its payload -- kept
// separate from the opaque.EncodeText/EncodeBinary machinery since this
// plaintext never crosses the VCP boundary on its own.
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

func sealKeyFromShared(shared bls12381.G1Affine) []byte {
	digest := hashToScalar(g1Bytes(shared))
	b := scalarBytes(digest)
	return b[:chacha20poly1305.KeySize]
}

// encryptForAuthority produces a verifiable ciphertext for value under pub,
// returning the ciphertext bytes and the randomizer r used, so a caller can
// later fold r into a compound Fiat-Shamir transcript if it wants to prove
// the encrypted value equals a disclosed credential attribute.
func encryptForAuthority(pub opaque.AuthorityPublicData, value vcptypes.DataValue) (opaque.Raw, fr.Element, error) {
	initGens()
	var pd authorityPublic
	if err := opaque.DecodeBinary(pub.Raw, &pd); err != nil {
		return opaque.Raw{}, fr.Element{}, err
	}
	h, err := setG1(pd.H)
	if err != nil {
		return opaque.Raw{}, fr.Element{}, vcperr.NewCryptoLibraryError("decode authority public key: %v", err)
	}

	r, err := randomScalar()
	if err != nil {
		return opaque.Raw{}, fr.Element{}, vcperr.NewCryptoLibraryError("encrypt for authority: %v", err)
	}
	var c1, shared bls12381.G1Affine
	c1.ScalarMultiplication(&g1Gen, scalarToBigInt(r))
	shared.ScalarMultiplication(&h, scalarToBigInt(r))

	aead, err := chacha20poly1305.New(sealKeyFromShared(shared))
	if err != nil {
		return opaque.Raw{}, fr.Element{}, vcperr.NewCryptoLibraryError("init aead: %v", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return opaque.Raw{}, fr.Element{}, vcperr.NewCryptoLibraryError("read nonce: %v", err)
	}
	sealed := aead.Seal(nil, nonce, dataValueToBytes(value), g1Bytes(c1))

	raw, err := opaque.EncodeBinary("VerifiableCiphertext", verifiableCiphertext{C1: g1Bytes(c1), Nonce: nonce, Sealed: sealed})
	if err != nil {
		return opaque.Raw{}, fr.Element{}, err
	}
	return raw, r, nil
}

// decryptWithAuthorityKey recovers the plaintext and builds its
// Chaum-Pedersen decryption proof.
func decryptWithAuthorityKey(key opaque.AuthorityDecryptionKey, ciphertext opaque.Raw) (vcptypes.DataValue, opaque.DecryptionProof, error) {
	initGens()
	var dk authorityDecryptionKey
	if err := opaque.DecodeBinary(key.Raw, &dk); err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	x := setScalar(dk.X)

	var ct verifiableCiphertext
	if err := opaque.DecodeBinary(ciphertext, &ct); err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	c1, err := setG1(ct.C1)
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("decode ciphertext c1: %v", err)
	}
	var shared bls12381.G1Affine
	shared.ScalarMultiplication(&c1, scalarToBigInt(x))

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

	var h bls12381.G1Affine
	h.ScalarMultiplication(&g1Gen, scalarToBigInt(x))

	k, err := randomScalar()
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, vcperr.NewCryptoLibraryError("decryption proof: %v", err)
	}
	var t1, t2 bls12381.G1Affine
	t1.ScalarMultiplication(&g1Gen, scalarToBigInt(k))
	t2.ScalarMultiplication(&c1, scalarToBigInt(k))

	c := hashToScalar(g1Bytes(g1Gen), g1Bytes(h), g1Bytes(c1), g1Bytes(shared), g1Bytes(t1), g1Bytes(t2))
	var z fr.Element
	z.Mul(&c, &x)
	z.Add(&z, &k)

	proofRaw, err := opaque.EncodeBinary("DecryptionProof", decryptionProof{
		Shared: g1Bytes(shared), T1: g1Bytes(t1), T2: g1Bytes(t2), Z: scalarBytes(z),
	})
	if err != nil {
		return vcptypes.DataValue{}, opaque.DecryptionProof{}, err
	}
	return value, opaque.NewDecryptionProof(proofRaw), nil
}

// verifyDecryptionProof checks a Chaum-Pedersen DLEQ proof that the shared
// point embedded in proof was derived from ciphertext's C1 using the same
// exponent as pub's public key H, without needing the authority's secret.
func verifyDecryptionProof(pub opaque.AuthorityPublicData, ciphertext opaque.Raw, proof opaque.DecryptionProof) error {
	initGens()
	var pd authorityPublic
	if err := opaque.DecodeBinary(pub.Raw, &pd); err != nil {
		return err
	}
	h, err := setG1(pd.H)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode authority public key: %v", err)
	}
	var ct verifiableCiphertext
	if err := opaque.DecodeBinary(ciphertext, &ct); err != nil {
		return err
	}
	c1, err := setG1(ct.C1)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode ciphertext c1: %v", err)
	}
	var dp decryptionProof
	if err := opaque.DecodeBinary(proof.Raw, &dp); err != nil {
		return err
	}
	shared, err := setG1(dp.Shared)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode shared point: %v", err)
	}
	t1, err := setG1(dp.T1)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode t1: %v", err)
	}
	t2, err := setG1(dp.T2)
	if err != nil {
		return vcperr.NewCryptoLibraryError("decode t2: %v", err)
	}
	z := setScalar(dp.Z)

	c := hashToScalar(g1Bytes(g1Gen), g1Bytes(h), g1Bytes(c1), g1Bytes(shared), g1Bytes(t1), g1Bytes(t2))

	var lhs1, rhs1 bls12381.G1Affine
	lhs1.ScalarMultiplication(&g1Gen, scalarToBigInt(z))
	var hc bls12381.G1Affine
	hc.ScalarMultiplication(&h, scalarToBigInt(c))
	rhs1.Add(&t1, &hc)
	if !lhs1.Equal(&rhs1) {
		return vcperr.NewCryptoLibraryError("decryption proof failed: g1^z != t1 * H^c")
	}

	var lhs2, rhs2 bls12381.G1Affine
	lhs2.ScalarMultiplication(&c1, scalarToBigInt(z))
	var sharedc bls12381.G1Affine
	sharedc.ScalarMultiplication(&shared, scalarToBigInt(c))
	rhs2.Add(&t2, &sharedc)
	if !lhs2.Equal(&rhs2) {
		return vcperr.NewCryptoLibraryError("decryption proof failed: C1^z != t2 * shared^c")
	}
	return nil
}
