// Copyright 2025 Certen Protocol

package dnc

import (
	"sort"

	"github.com/zeebo/blake3"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// The dnc accumulator is a sorted blake3 Merkle tree over every currently
// accumulated element's leaf hash. It trades ac2c's hidden pairing-based
// witness for an ordinary Merkle path: the leaf a witness opens is visible
// to the verifier, so unlike ac2c, membership here is not proven in zero
// knowledge with respect to which element matched (see DESIGN.md).

type accumulatorSecret struct {
	Leaves [][]byte // sorted
}

type accumulatorPublic struct{}

type merkleWitness struct {
	Leaf      []byte
	Siblings  [][]byte
	// LeftAtLevel[i] is true when Leaf's ancestor at level i is the left
	// child, i.e. Siblings[i] is its right sibling.
	LeftAtLevel []bool
}

func leafFor(yBytes []byte) []byte {
	h := blake3.Sum256(yBytes)
	return h[:]
}

func nodeHash(a, b []byte) []byte {
	h := blake3.New()
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}

// merkleRoot builds the root of a sorted leaf set, duplicating the last
// leaf at each level when the level has odd width (the common
// "Bitcoin-style" padding rule).
func merkleRoot(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		return leafFor([]byte("dnc/empty-accumulator"))
	}
	level := append([][]byte{}, leaves...)
	for len(level) > 1 {
		var next [][]byte
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, nodeHash(level[i], level[i+1]))
			} else {
				next = append(next, nodeHash(level[i], level[i]))
			}
		}
		level = next
	}
	return level[0]
}

// merklePath returns the sibling path for leaves[idx].
func merklePath(leaves [][]byte, idx int) ([][]byte, []bool) {
	var siblings [][]byte
	var leftAtLevel []bool
	level := append([][]byte{}, leaves...)
	pos := idx
	for len(level) > 1 {
		var sibling []byte
		isLeft := pos%2 == 0
		if isLeft {
			if pos+1 < len(level) {
				sibling = level[pos+1]
			} else {
				sibling = level[pos]
			}
		} else {
			sibling = level[pos-1]
		}
		siblings = append(siblings, sibling)
		leftAtLevel = append(leftAtLevel, isLeft)

		var next [][]byte
		for i := 0; i < len(level); i += 2 {
			if i+1 < len(level) {
				next = append(next, nodeHash(level[i], level[i+1]))
			} else {
				next = append(next, nodeHash(level[i], level[i]))
			}
		}
		level = next
		pos = pos / 2
	}
	return siblings, leftAtLevel
}

func verifyMerklePath(root []byte, w merkleWitness) bool {
	cur := w.Leaf
	for i, sib := range w.Siblings {
		if w.LeftAtLevel[i] {
			cur = nodeHash(cur, sib)
		} else {
			cur = nodeHash(sib, cur)
		}
	}
	return string(cur) == string(root)
}

func sortLeaves(leaves [][]byte) {
	sort.Slice(leaves, func(i, j int) bool { return string(leaves[i]) < string(leaves[j]) })
}

// CreateAccumulatorData initializes an empty accumulator.
func CreateAccumulatorData(seed cryptoiface.RNGSeed) (vcptypes.CreateAccumulatorResponse, error) {
	_ = seed

	pubRaw, err := opaque.EncodeBinary("AccumulatorPublicData", accumulatorPublic{})
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, err
	}
	secRaw, err := opaque.EncodeBinary("AccumulatorSecretData", accumulatorSecret{})
	if err != nil {
		return vcptypes.CreateAccumulatorResponse{}, err
	}
	valRaw, err := opaque.EncodeBinary("Accumulator", merkleRoot(nil))
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

// CreateAccumulatorElement hashes text to the scalar used as the element's
// public identity, the same hash-to-scalar idiom the credential commitment
// uses for text-valued attributes.
func CreateAccumulatorElement(text string) (opaque.AccumulatorElement, error) {
	y := hashToScalar([]byte(text))
	raw, err := opaque.EncodeBinary("AccumulatorElement", scalarBytes(y))
	if err != nil {
		return opaque.AccumulatorElement{}, err
	}
	return opaque.NewAccumulatorElement(raw), nil
}

// AccumulatorAddRemove rebuilds the leaf set and returns fresh Merkle
// witnesses for every newly added holder. Because the whole tree must be
// known to produce any witness, the "update info" this backend publishes is
// simply the new leaf set; UpdateAccumulatorWitness recomputes a witness
// from it rather than fast-forwarding an old one algebraically.
func AccumulatorAddRemove(data vcptypes.AccumulatorData, current opaque.Accumulator, adds map[vcptypes.HolderID]opaque.AccumulatorElement, removes []opaque.AccumulatorElement) (vcptypes.AccumulatorAddRemoveResponse, error) {
	var sec accumulatorSecret
	if err := opaque.DecodeBinary(data.Secret.Raw, &sec); err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}

	removedSet := map[string]bool{}
	for _, e := range removes {
		var yBytes []byte
		if err := opaque.DecodeBinary(e.Raw, &yBytes); err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		removedSet[string(leafFor(yBytes))] = true
	}

	leaves := make([][]byte, 0, len(sec.Leaves))
	for _, l := range sec.Leaves {
		if !removedSet[string(l)] {
			leaves = append(leaves, l)
		}
	}
	addLeaves := map[vcptypes.HolderID][]byte{}
	for holder, e := range adds {
		var yBytes []byte
		if err := opaque.DecodeBinary(e.Raw, &yBytes); err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		leaf := leafFor(yBytes)
		leaves = append(leaves, leaf)
		addLeaves[holder] = leaf
	}
	sortLeaves(leaves)

	witnesses := make(map[vcptypes.HolderID]opaque.AccumulatorMembershipWitness, len(adds))
	for holder, leaf := range addLeaves {
		idx := indexOfLeaf(leaves, leaf)
		siblings, leftAtLevel := merklePath(leaves, idx)
		raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", merkleWitness{Leaf: leaf, Siblings: siblings, LeftAtLevel: leftAtLevel})
		if err != nil {
			return vcptypes.AccumulatorAddRemoveResponse{}, err
		}
		witnesses[holder] = opaque.NewAccumulatorMembershipWitness(raw)
	}

	secRaw, err := opaque.EncodeBinary("AccumulatorSecretData", accumulatorSecret{Leaves: leaves})
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	valRaw, err := opaque.EncodeBinary("Accumulator", merkleRoot(leaves))
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	updateRaw, err := opaque.EncodeBinary("AccumulatorWitnessUpdateInfo", leaves)
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

func indexOfLeaf(leaves [][]byte, leaf []byte) int {
	for i, l := range leaves {
		if string(l) == string(leaf) {
			return i
		}
	}
	return -1
}

// GetAccumulatorWitness recomputes a witness directly from the secret leaf
// set.
func GetAccumulatorWitness(data vcptypes.AccumulatorData, current opaque.Accumulator, element opaque.AccumulatorElement) (opaque.AccumulatorMembershipWitness, error) {
	var sec accumulatorSecret
	if err := opaque.DecodeBinary(data.Secret.Raw, &sec); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	var yBytes []byte
	if err := opaque.DecodeBinary(element.Raw, &yBytes); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	leaf := leafFor(yBytes)
	leaves := append([][]byte{}, sec.Leaves...)
	sortLeaves(leaves)
	idx := indexOfLeaf(leaves, leaf)
	if idx < 0 {
		return opaque.AccumulatorMembershipWitness{}, vcperr.NewUserInputError(vcperr.MissingSharedParam, "element is not a member of the accumulator")
	}
	siblings, leftAtLevel := merklePath(leaves, idx)
	raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", merkleWitness{Leaf: leaf, Siblings: siblings, LeftAtLevel: leftAtLevel})
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	return opaque.NewAccumulatorMembershipWitness(raw), nil
}

// UpdateAccumulatorWitness recomputes the witness from the published leaf
// set rather than fast-forwarding the old witness; the update carries the
// full new leaf set because a Merkle path cannot be incrementally patched
// the way a VB20 accumulator's scalar delta can.
func UpdateAccumulatorWitness(witness opaque.AccumulatorMembershipWitness, element opaque.AccumulatorElement, update opaque.AccumulatorWitnessUpdateInfo) (opaque.AccumulatorMembershipWitness, error) {
	var leaves [][]byte
	if err := opaque.DecodeBinary(update.Raw, &leaves); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	var yBytes []byte
	if err := opaque.DecodeBinary(element.Raw, &yBytes); err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	leaf := leafFor(yBytes)
	idx := indexOfLeaf(leaves, leaf)
	if idx < 0 {
		return opaque.AccumulatorMembershipWitness{}, &vcperr.RevokedElementError{Element: "accumulator element no longer present"}
	}
	siblings, leftAtLevel := merklePath(leaves, idx)
	raw, err := opaque.EncodeBinary("AccumulatorMembershipWitness", merkleWitness{Leaf: leaf, Siblings: siblings, LeftAtLevel: leftAtLevel})
	if err != nil {
		return opaque.AccumulatorMembershipWitness{}, err
	}
	return opaque.NewAccumulatorMembershipWitness(raw), nil
}

// CreateMembershipProvingKey is a no-op key: the Merkle check needs only the
// public root, so the key carries a random nonce purely for a non-empty
// payload, matching ac2c's equivalent stub.
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
