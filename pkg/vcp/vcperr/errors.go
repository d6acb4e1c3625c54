// Copyright 2025 Certen Protocol
//
// Package vcperr defines the typed error taxonomy shared across the VCP
// core. Errors are never caught and re-cast by the core except at the three
// backend entry points (specific_prover, specific_verifier,
// specific_verify_decryption), which recover panics into UnexpectedError.

package vcperr

import (
	"errors"
	"fmt"
)

// UserInputKind classifies a UserInputError.
type UserInputKind string

const (
	MissingSharedParam         UserInputKind = "missing_shared_param"
	WrongSharedParamType       UserInputKind = "wrong_shared_param_type"
	OutOfRangeIndex            UserInputKind = "out_of_range_index"
	SchemaMismatchKind         UserInputKind = "schema_mismatch"
	EmptyRange                 UserInputKind = "empty_range"
	InconsistentClaimTypes     UserInputKind = "inconsistent_claim_types"
	NonexistentCredentialLabel UserInputKind = "nonexistent_credential_label"
	InvalidBlindedIndices      UserInputKind = "invalid_blinded_indices"
	BlindedSetMismatch         UserInputKind = "blinded_set_mismatch"
	NonceMismatch              UserInputKind = "nonce_mismatch"
)

// UserInputError wraps every invalid-input case from spec.md section 7.
type UserInputError struct {
	Kind    UserInputKind
	Message string
}

func (e *UserInputError) Error() string {
	return fmt.Sprintf("vcp: user input error (%s): %s", e.Kind, e.Message)
}

func NewUserInputError(kind UserInputKind, format string, args ...any) error {
	return &UserInputError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// SerializationError is returned when an opaque wrapper fails to decode.
type SerializationError struct {
	Wrapper string
	Reason  string
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("vcp: serialization error decoding %s: %s", e.Wrapper, e.Reason)
}

func NewSerializationError(wrapper, reason string) error {
	return &SerializationError{Wrapper: wrapper, Reason: reason}
}

// CryptoLibraryError carries an opaque description surfaced by a backend.
type CryptoLibraryError struct {
	Description string
}

func (e *CryptoLibraryError) Error() string {
	return fmt.Sprintf("vcp: crypto library error: %s", e.Description)
}

func NewCryptoLibraryError(format string, args ...any) error {
	return &CryptoLibraryError{Description: fmt.Sprintf(format, args...)}
}

// RevokedElementError is returned when a witness update fails because its
// element was removed from the accumulator in the batch being applied.
type RevokedElementError struct {
	Element string
}

func (e *RevokedElementError) Error() string {
	return fmt.Sprintf("vcp: element %s was revoked", e.Element)
}

// WitnessStaleError is returned when a witness's sequence number does not
// match the accumulator sequence number requested by a proof instruction.
type WitnessStaleError struct {
	WitnessSeq, RequestedSeq uint64
}

func (e *WitnessStaleError) Error() string {
	return fmt.Sprintf("vcp: witness is for sequence %d, proof requires %d", e.WitnessSeq, e.RequestedSeq)
}

// UnexpectedError wraps a recovered panic from inside a backend call.
type UnexpectedError struct {
	Reason string
	Stack  []byte
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("vcp: unexpected backend failure: %s", e.Reason)
}

// AsUserInput reports whether err is a *UserInputError, unwrapping as needed.
func AsUserInput(err error) (*UserInputError, bool) {
	var target *UserInputError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
