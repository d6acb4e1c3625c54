// Copyright 2025 Certen Protocol
//
// Package authority implements the verifiable-encryption authority lifecycle
// glue: a thin wrapper around a CryptoInterface's create_authority_data
// primitive plus an in-memory Registry, mirroring pkg/vcp/accumulator's
// Manager/Registry split for the accumulator lifecycle.
package authority

import (
	"sync"

	"github.com/certen/vcp/pkg/vcp/cryptoiface"
	"github.com/certen/vcp/pkg/vcp/opaque"
	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// CreateAuthorityData delegates directly to the backend; there is no input
// to validate beyond the RNG seed a caller already controls.
func CreateAuthorityData(ci cryptoiface.CryptoInterface, seed cryptoiface.RNGSeed) (cryptoiface.AuthorityDataResponse, error) {
	return ci.CreateAuthorityData(seed)
}

// Registry is an in-memory, label-keyed store of authority public data and
// decryption keys, standing in for the persisted authority-key vault a
// production deployment would use. Safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	data map[vcptypes.AuthorityLabel]cryptoiface.AuthorityDataResponse
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{data: make(map[vcptypes.AuthorityLabel]cryptoiface.AuthorityDataResponse)}
}

// Put registers an authority's keypair under label, overwriting any existing
// entry.
func (r *Registry) Put(label vcptypes.AuthorityLabel, data cryptoiface.AuthorityDataResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[label] = data
}

// PublicData returns the AuthorityPublicData registered under label, the
// shape a resolver.Lookups.AuthorityPublicData function needs.
func (r *Registry) PublicData(label vcptypes.SharedParamKey) (opaque.AuthorityPublicData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.data[label]
	if !ok {
		return opaque.AuthorityPublicData{}, vcperr.NewUserInputError(vcperr.MissingSharedParam, "no authority registered under %q", label)
	}
	return d.Public, nil
}

// DecryptionKeys returns every registered authority's decryption key keyed
// by label, the shape proof.VerifyDecryption's keys argument needs.
func (r *Registry) DecryptionKeys() map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[vcptypes.AuthorityLabel]opaque.AuthorityDecryptionKey, len(r.data))
	for label, d := range r.data {
		out[label] = d.DecryptionKey
	}
	return out
}

// Get returns the full registered AuthorityDataResponse for label.
func (r *Registry) Get(label vcptypes.AuthorityLabel) (cryptoiface.AuthorityDataResponse, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.data[label]
	return d, ok
}
