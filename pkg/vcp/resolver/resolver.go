// Copyright 2025 Certen Protocol
//
// Package resolver implements the Presentation-Request Resolver (section
// 4.5): it compiles a map of per-credential requirements plus whatever
// registries a caller maintains (signer publications, accumulator state,
// proving keys, authority keys) into the totally-ordered list of resolved
// instructions and sorted equality classes a backend's prover/verifier
// consumes. Resolution is pure and deterministic: the same inputs always
// produce the same instruction order and equality-class ordering, which is
// what lets two independent parties (holder and verifier) derive identical
// transcripts without talking to each other first.
//
// Grounded on the original implementation's
// vcp::impl::general::presentation_request_setup module.
package resolver

import (
	"sort"

	"github.com/certen/vcp/pkg/vcp/accumulator"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/sharedparams"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// Resolved is the output of Resolve: the ordered instruction list and the
// sorted equality classes every backend's prover/verifier is handed.
type Resolved struct {
	Instructions []vcptypes.ProofInstructionGeneral
	EqualityReqs vcptypes.EqualityReqs
}

// Lookups bundles every shared-param-keyed registry the resolver needs.
// Callers typically implement these against the Platform API's in-memory
// or persisted shared-parameters store; kept as plain function values
// (rather than an interface) for the same reason as cryptoiface.CryptoInterface.
type Lookups struct {
	Signer               func(label vcptypes.SharedParamKey) (vcptypes.SignerPublicData, error)
	Accumulator          func(label vcptypes.SharedParamKey) (accumulator.State, error)
	MembershipProvingKey func(label vcptypes.SharedParamKey) (opaque.MembershipProvingKey, error)
	RangeProvingKey      func(label vcptypes.SharedParamKey) (opaque.RangeProofProvingKey, error)
	AuthorityPublicData  func(label vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error)
}

// Resolve compiles reqs (keyed by credential label) against params into a
// Resolved. Credential labels are visited in sorted order (step 1 of the
// algorithm) so RelatedIndex assignment, and therefore instruction order,
// never depends on map iteration order.
func Resolve(reqs map[vcptypes.CredentialLabel]vcptypes.CredentialReqs, params vcptypes.SharedParams, lk Lookups) (Resolved, error) {
	labels := sortedKeys(reqs)

	related := make(map[vcptypes.CredentialLabel]vcptypes.RelatedIndex, len(labels))
	for i, l := range labels {
		related[l] = vcptypes.RelatedIndex(i)
	}

	var instrs []vcptypes.ProofInstructionGeneral
	eqPairs := make(map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex][]vcptypes.EqPair)

	for _, label := range labels {
		req := reqs[label]

		signerPub, err := lk.Signer(req.SignerLabel)
		if err != nil {
			return Resolved{}, err
		}

		revealed, err := resolveRevealed(req, signerPub.Schema)
		if err != nil {
			return Resolved{}, err
		}
		instrs = append(instrs, vcptypes.ProofInstructionGeneral{
			CredLabel:    label,
			AttrIdx:      vcptypes.POKOfSignatureAppliesToAllAttributes,
			RelatedPiIdx: related[label],
			Disclosure: vcptypes.ResolvedDisclosure{
				Kind: vcptypes.DisclosureCredential,
				Credential: &vcptypes.CredentialResolved{
					IssuerPublic:   signerPub,
					RevIdxsAndVals: revealed,
				},
			},
		})

		accumInstrs, err := resolveAccumClauses(label, related[label], req.InAccum, true, signerPub.Schema, lk)
		if err != nil {
			return Resolved{}, err
		}
		instrs = append(instrs, accumInstrs...)

		notAccumInstrs, err := resolveAccumClauses(label, related[label], req.NotInAccum, false, signerPub.Schema, lk)
		if err != nil {
			return Resolved{}, err
		}
		instrs = append(instrs, notAccumInstrs...)

		for _, info := range req.InRange {
			if err := checkIndexInRange(info.Index, signerPub.Schema); err != nil {
				return Resolved{}, err
			}
			min, err := sharedparams.LookupOneInt(info.MinLbl, params)
			if err != nil {
				return Resolved{}, err
			}
			max, err := sharedparams.LookupOneInt(info.MaxLbl, params)
			if err != nil {
				return Resolved{}, err
			}
			if min > max {
				return Resolved{}, vcperr.NewUserInputError(vcperr.EmptyRange, "range [%d, %d] on %s[%d] is empty", min, max, label, info.Index)
			}
			pk, err := lk.RangeProvingKey(info.RangeProvingKeyLbl)
			if err != nil {
				return Resolved{}, err
			}
			instrs = append(instrs, vcptypes.ProofInstructionGeneral{
				CredLabel:    label,
				AttrIdx:      info.Index,
				RelatedPiIdx: related[label],
				Disclosure: vcptypes.ResolvedDisclosure{
					Kind:    vcptypes.DisclosureInRange,
					InRange: &vcptypes.InRangeResolved{Min: min, Max: max, ProvingKey: pk},
				},
			})
		}

		for _, info := range req.EncryptedFor {
			if err := checkIndexInRange(info.Index, signerPub.Schema); err != nil {
				return Resolved{}, err
			}
			authPub, err := lk.AuthorityPublicData(info.Label)
			if err != nil {
				return Resolved{}, err
			}
			instrs = append(instrs, vcptypes.ProofInstructionGeneral{
				CredLabel:    label,
				AttrIdx:      info.Index,
				RelatedPiIdx: related[label],
				Disclosure: vcptypes.ResolvedDisclosure{
					Kind:         vcptypes.DisclosureEncryptedFor,
					EncryptedFor: &vcptypes.EncryptedForResolved{AuthorityLabel: info.Label, AuthorityPub: authPub},
				},
			})
		}

		for _, eq := range req.EqualTo {
			toReq, ok := reqs[eq.ToLabel]
			if !ok {
				return Resolved{}, vcperr.NewUserInputError(vcperr.NonexistentCredentialLabel, "equal_to references unknown credential %q", eq.ToLabel)
			}
			if err := checkIndexInRange(eq.FromIndex, signerPub.Schema); err != nil {
				return Resolved{}, err
			}
			toSignerPub, err := lk.Signer(toReq.SignerLabel)
			if err != nil {
				return Resolved{}, err
			}
			if err := checkIndexInRange(eq.ToIndex, toSignerPub.Schema); err != nil {
				return Resolved{}, err
			}
			if signerPub.Schema[eq.FromIndex] != toSignerPub.Schema[eq.ToIndex] {
				return Resolved{}, vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "equal_to between %s[%d] and %s[%d] spans different claim types", label, eq.FromIndex, eq.ToLabel, eq.ToIndex)
			}
			addEqPair(eqPairs, label, eq.FromIndex, vcptypes.EqPair{Label: label, Index: eq.FromIndex})
			addEqPair(eqPairs, label, eq.FromIndex, vcptypes.EqPair{Label: eq.ToLabel, Index: eq.ToIndex})
		}
	}

	sort.SliceStable(instrs, func(i, j int) bool {
		return instructionLess(instrs[i], instrs[j])
	})

	return Resolved{
		Instructions: instrs,
		EqualityReqs: buildEqualityClasses(eqPairs),
	}, nil
}

func resolveAccumClauses(label vcptypes.CredentialLabel, rel vcptypes.RelatedIndex, infos []vcptypes.InAccumInfo, member bool, schema vcptypes.Schema, lk Lookups) ([]vcptypes.ProofInstructionGeneral, error) { // uses accumulator.State via lk.Accumulator
	var out []vcptypes.ProofInstructionGeneral
	for _, info := range infos {
		if err := checkIndexInRange(info.Index, schema); err != nil {
			return nil, err
		}
		if schema[info.Index] != vcptypes.CTAccumulatorMember {
			return nil, vcperr.NewUserInputError(vcperr.InconsistentClaimTypes, "%s[%d] is not an AccumulatorMember claim", label, info.Index)
		}
		state, err := lk.Accumulator(info.AccumulatorLbl)
		if err != nil {
			return nil, err
		}
		mpk, err := lk.MembershipProvingKey(info.MembershipProvingKeyLbl)
		if err != nil {
			return nil, err
		}
		out = append(out, vcptypes.ProofInstructionGeneral{
			CredLabel:    label,
			AttrIdx:      info.Index,
			RelatedPiIdx: rel,
			Disclosure: vcptypes.ResolvedDisclosure{
				Kind: vcptypes.DisclosureInAccum,
				InAccum: &vcptypes.InAccumResolved{
					PublicData:           state.Public,
					MembershipProvingKey: mpk,
					Accumulator:          state.Value,
					SeqNum:               state.SeqNum,
					Member:               member,
				},
			},
		})
	}
	return out, nil
}

// instructionLess imposes the total order over resolved instructions
// (section 3, invariant 4): by RelatedPiIdx (sorted credential-label order)
// first, then by disclosure kind, then by attribute index, so two
// resolutions of the same request always produce byte-identical ordering.
func instructionLess(a, b vcptypes.ProofInstructionGeneral) bool {
	if a.RelatedPiIdx != b.RelatedPiIdx {
		return a.RelatedPiIdx < b.RelatedPiIdx
	}
	if a.Disclosure.Kind != b.Disclosure.Kind {
		return a.Disclosure.Kind < b.Disclosure.Kind
	}
	return a.AttrIdx < b.AttrIdx
}

func resolveRevealed(req vcptypes.CredentialReqs, schema vcptypes.Schema) (map[vcptypes.CredAttrIndex]vcptypes.RevealedValue, error) {
	out := make(map[vcptypes.CredAttrIndex]vcptypes.RevealedValue, len(req.Disclosed))
	for _, idx := range req.Disclosed {
		if err := checkIndexInRange(idx, schema); err != nil {
			return nil, err
		}
		out[idx] = vcptypes.RevealedValue{ClaimType: schema[idx]}
	}
	return out, nil
}

func checkIndexInRange(idx vcptypes.CredAttrIndex, schema vcptypes.Schema) error {
	if idx >= uint64(len(schema)) {
		return vcperr.NewUserInputError(vcperr.OutOfRangeIndex, "index %d out of range for schema of length %d", idx, len(schema))
	}
	return nil
}

func addEqPair(m map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex][]vcptypes.EqPair, label vcptypes.CredentialLabel, idx vcptypes.CredAttrIndex, pair vcptypes.EqPair) {
	if m[label] == nil {
		m[label] = make(map[vcptypes.CredAttrIndex][]vcptypes.EqPair)
	}
	m[label][idx] = append(m[label][idx], pair)
}

// buildEqualityClasses unions overlapping (label, index) declarations into
// disjoint equivalence classes via union-find, then sorts both the members
// of each class and the classes themselves so the result is deterministic
// regardless of map iteration order (section 3, invariant 6).
func buildEqualityClasses(byCred map[vcptypes.CredentialLabel]map[vcptypes.CredAttrIndex][]vcptypes.EqPair) vcptypes.EqualityReqs {
	parent := make(map[vcptypes.EqPair]vcptypes.EqPair)
	var all []vcptypes.EqPair

	ensure := func(p vcptypes.EqPair) {
		if _, ok := parent[p]; !ok {
			parent[p] = p
			all = append(all, p)
		}
	}

	var find func(p vcptypes.EqPair) vcptypes.EqPair
	find = func(p vcptypes.EqPair) vcptypes.EqPair {
		root := parent[p]
		if root == p {
			return p
		}
		r := find(root)
		parent[p] = r
		return r
	}
	union := func(a, b vcptypes.EqPair) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for label, byIdx := range byCred {
		for idx, pairs := range byIdx {
			self := vcptypes.EqPair{Label: label, Index: idx}
			ensure(self)
			for _, p := range pairs {
				ensure(p)
				union(self, p)
			}
		}
	}

	classes := make(map[vcptypes.EqPair][]vcptypes.EqPair)
	for _, p := range all {
		root := find(p)
		classes[root] = append(classes[root], p)
	}

	var reqs vcptypes.EqualityReqs
	for _, members := range classes {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].Label != members[j].Label {
				return members[i].Label < members[j].Label
			}
			return members[i].Index < members[j].Index
		})
		reqs = append(reqs, vcptypes.EqualityReq(members))
	}
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i][0].Label != reqs[j][0].Label {
			return reqs[i][0].Label < reqs[j][0].Label
		}
		return reqs[i][0].Index < reqs[j][0].Index
	})
	return reqs
}

func sortedKeys(reqs map[vcptypes.CredentialLabel]vcptypes.CredentialReqs) []vcptypes.CredentialLabel {
	out := make([]vcptypes.CredentialLabel, 0, len(reqs))
	for k := range reqs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
