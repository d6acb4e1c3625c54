// Copyright 2025 Certen Protocol

package ac2c

import (
	"bytes"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
)

// rangeCurve is the Groth16 circuit's native field, kept distinct from the
// BLS12-381 scalar field the signature and accumulator primitives operate
// in -- mirroring pkg/crypto/bls_zkp/prover.go, which compiles its circuit
// over BN254 regardless of the signature scheme's own curve. Binding a
// range proof's hidden value to the same value hidden inside a credential
// disclosure proof would require a dedicated cross-field equality
// argument; this backend does not implement one; see DESIGN.md.
var rangeCurve = ecc.BN254

// rangeMaxValue bounds what AssertIsLessOrEqual's bit decomposition can
// usefully compare without growing the circuit unreasonably.
const rangeMaxValue = uint64(1) << 62

// RangeCircuit proves min <= value <= max for a value known only through a
// simple field-linear commitment, the same "commit via fixed mixing
// coefficient" simplification pkg/crypto/bls_zkp/circuit.go uses in place
// of expensive in-circuit elliptic-curve arithmetic.
type RangeCircuit struct {
	Min        frontend.Variable `gnark:",public"`
	Max        frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`

	Value    frontend.Variable
	Blinding frontend.Variable
}

func (c *RangeCircuit) Define(api frontend.API) error {
	computed := api.Add(c.Value, api.Mul(c.Blinding, 7))
	api.AssertIsEqual(c.Commitment, computed)
	api.AssertIsLessOrEqual(c.Min, c.Value)
	api.AssertIsLessOrEqual(c.Value, c.Max)
	return nil
}

type rangeProvingKey struct {
	PK []byte
	VK []byte
}

// CreateRangeProofProvingKey runs the Groth16 trusted setup for
// RangeCircuit once and bundles proving and verification keys together,
// since both a prover and a verifier need this same artifact.
func CreateRangeProofProvingKey(seed cryptoiface.RNGSeed) (opaque.RangeProofProvingKey, error) {
	_ = seed
	var circuit RangeCircuit
	cs, err := frontend.Compile(rangeCurve.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return opaque.RangeProofProvingKey{}, vcperr.NewCryptoLibraryError("compile range circuit: %v", err)
	}
	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return opaque.RangeProofProvingKey{}, vcperr.NewCryptoLibraryError("range circuit setup: %v", err)
	}

	var pkBuf, vkBuf bytes.Buffer
	if _, err := pk.WriteTo(&pkBuf); err != nil {
		return opaque.RangeProofProvingKey{}, vcperr.NewCryptoLibraryError("serialize proving key: %v", err)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		return opaque.RangeProofProvingKey{}, vcperr.NewCryptoLibraryError("serialize verifying key: %v", err)
	}

	raw, err := opaque.EncodeBinary("RangeProofProvingKey", rangeProvingKey{PK: pkBuf.Bytes(), VK: vkBuf.Bytes()})
	if err != nil {
		return opaque.RangeProofProvingKey{}, err
	}
	return opaque.NewRangeProofProvingKey(raw), nil
}

// GetRangeProofMaxValue reports the largest value RangeCircuit's
// comparisons are sized for.
func GetRangeProofMaxValue() uint64 { return rangeMaxValue }

func loadRangeKeys(key opaque.RangeProofProvingKey) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	var rpk rangeProvingKey
	if err := opaque.DecodeBinary(key.Raw, &rpk); err != nil {
		return nil, nil, err
	}
	pk := groth16.NewProvingKey(rangeCurve)
	if _, err := pk.ReadFrom(bytes.NewReader(rpk.PK)); err != nil {
		return nil, nil, vcperr.NewCryptoLibraryError("deserialize proving key: %v", err)
	}
	vk := groth16.NewVerifyingKey(rangeCurve)
	if _, err := vk.ReadFrom(bytes.NewReader(rpk.VK)); err != nil {
		return nil, nil, vcperr.NewCryptoLibraryError("deserialize verifying key: %v", err)
	}
	return pk, vk, nil
}

// proveRange produces a Groth16 proof that value lies in [min, max], along
// with the public commitment binding it, using blinding as the opening
// randomizer.
func proveRange(key opaque.RangeProofProvingKey, min, max, value uint64, blinding uint64) (proofBytes []byte, commitment uint64, err error) {
	pk, _, err := loadRangeKeys(key)
	if err != nil {
		return nil, 0, err
	}
	commitment = value + blinding*7

	assignment := &RangeCircuit{Min: min, Max: max, Commitment: commitment, Value: value, Blinding: blinding}
	witness, err := frontend.NewWitness(assignment, rangeCurve.ScalarField())
	if err != nil {
		return nil, 0, vcperr.NewCryptoLibraryError("build range witness: %v", err)
	}

	var circuit RangeCircuit
	cs, err := frontend.Compile(rangeCurve.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return nil, 0, vcperr.NewCryptoLibraryError("compile range circuit: %v", err)
	}
	proof, err := groth16.Prove(cs, pk, witness)
	if err != nil {
		return nil, 0, vcperr.NewCryptoLibraryError("range proof: %v", err)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, 0, vcperr.NewCryptoLibraryError("serialize range proof: %v", err)
	}
	return buf.Bytes(), commitment, nil
}

// verifyRange checks a Groth16 range proof against its public inputs.
func verifyRange(key opaque.RangeProofProvingKey, min, max, commitment uint64, proofBytes []byte) error {
	_, vk, err := loadRangeKeys(key)
	if err != nil {
		return err
	}
	proof := groth16.NewProof(rangeCurve)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return vcperr.NewCryptoLibraryError("deserialize range proof: %v", err)
	}

	assignment := &RangeCircuit{Min: min, Max: max, Commitment: commitment}
	publicWitness, err := frontend.NewWitness(assignment, rangeCurve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return vcperr.NewCryptoLibraryError("build public witness: %v", err)
	}
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		return vcperr.NewCryptoLibraryError("range proof rejected: %v", err)
	}
	return nil
}
