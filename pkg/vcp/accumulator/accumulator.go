// Copyright 2025 Certen Protocol
//
// Package accumulator implements the Accumulator Manager lifecycle glue
// (section 4.7): a thin sequencing wrapper around the CryptoInterface's
// accumulator primitives, plus an in-memory Registry used by tests, the
// demo CLI, and anything else that needs a working accumulator-manager
// role without standing up real persistence.
//
// Grounded on the original implementation's dnc backend accumulator module
// (vcp::zkp_backends::dnc::accumulators), which is the clearest reference
// for add/remove batching and monotonic sequence numbers.
package accumulator

import (
	"sync"

	"github.com/google/uuid"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// Manager drives the accumulator lifecycle on top of a CryptoInterface,
// tracking the current value and sequence number across successive
// add/remove batches.
type Manager struct {
	ci          cryptoiface.CryptoInterface
	mu          sync.Mutex
	data        vcptypes.AccumulatorData
	value       opaque.Accumulator
	seqNum      vcptypes.AccumulatorBatchSeqNo
	lastBatchID uuid.UUID
}

// NewManager creates a fresh accumulator at sequence number 0.
func NewManager(ci cryptoiface.CryptoInterface, seed cryptoiface.RNGSeed) (*Manager, error) {
	resp, err := ci.CreateAccumulatorData(seed)
	if err != nil {
		return nil, err
	}
	return &Manager{ci: ci, data: resp.Data, value: resp.Value, seqNum: 0}, nil
}

// State is the public snapshot a resolver Lookups.Accumulator function
// needs: public data, current value, and sequence number.
type State struct {
	Public opaque.AccumulatorPublicData
	Value  opaque.Accumulator
	SeqNum vcptypes.AccumulatorBatchSeqNo
}

// Snapshot returns the accumulator's current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return State{Public: m.data.Public, Value: m.value, SeqNum: m.seqNum}
}

// AddRemove applies one batch of additions and removals, advancing the
// sequence number by one and returning fresh witnesses for every newly
// added holder (section 4.7, "a batch is the unit of witness update"). Each
// batch is tagged with a fresh external id, so audit logs and witness-update
// notifications can name a batch independently of its sequence number.
func (m *Manager) AddRemove(adds map[vcptypes.HolderID]opaque.AccumulatorElement, removes []opaque.AccumulatorElement) (vcptypes.AccumulatorAddRemoveResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp, err := m.ci.AccumulatorAddRemove(m.data, m.value, adds, removes)
	if err != nil {
		return vcptypes.AccumulatorAddRemoveResponse{}, err
	}
	m.data = resp.Data
	m.value = resp.Value
	m.seqNum++
	m.lastBatchID = uuid.New()
	return resp, nil
}

// LastBatchID returns the external id assigned to the most recent AddRemove
// batch, or the zero UUID if no batch has run yet.
func (m *Manager) LastBatchID() uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastBatchID
}

// WitnessFor fetches a fresh membership witness for element against the
// current accumulator value.
func (m *Manager) WitnessFor(element opaque.AccumulatorElement) (opaque.AccumulatorMembershipWitness, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ci.GetAccumulatorWitness(m.data, m.value, element)
}

// UpdateWitness advances a holder-held witness through one batch's update
// info, failing with RevokedElementError if element was removed in that
// batch (section 7).
func UpdateWitness(ci cryptoiface.CryptoInterface, witness opaque.AccumulatorMembershipWitness, element opaque.AccumulatorElement, update opaque.AccumulatorWitnessUpdateInfo) (opaque.AccumulatorMembershipWitness, error) {
	return ci.UpdateAccumulatorWitness(witness, element, update)
}

// CheckWitnessFresh verifies a witness's sequence number matches the
// accumulator sequence a proof instruction is resolved against, per
// section 7's WitnessStaleError.
func CheckWitnessFresh(witnessSeq, requiredSeq vcptypes.AccumulatorBatchSeqNo) error {
	if witnessSeq != requiredSeq {
		return &vcperr.WitnessStaleError{WitnessSeq: witnessSeq, RequestedSeq: requiredSeq}
	}
	return nil
}

// Registry is an in-memory, label-keyed collection of accumulator managers,
// standing in for the persisted accumulator-state store a production
// deployment would use. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	managers map[vcptypes.SharedParamKey]*Manager
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[vcptypes.SharedParamKey]*Manager)}
}

// Put registers a manager under label, overwriting any existing entry.
func (r *Registry) Put(label vcptypes.SharedParamKey, m *Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers[label] = m
}

// Lookup returns the State snapshot, the type resolver.Lookups.Accumulator
// returns, for label, or a UserInputError if no manager is registered under it.
func (r *Registry) Lookup(label vcptypes.SharedParamKey) (State, error) {
	r.mu.RLock()
	m, ok := r.managers[label]
	r.mu.RUnlock()
	if !ok {
		return State{}, vcperr.NewUserInputError(vcperr.MissingSharedParam, "no accumulator registered under %q", label)
	}
	return m.Snapshot(), nil
}

// Get returns the manager registered under label for callers that need to
// mutate it (e.g. the demo CLI issuing AddRemove batches).
func (r *Registry) Get(label vcptypes.SharedParamKey) (*Manager, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.managers[label]
	return m, ok
}
