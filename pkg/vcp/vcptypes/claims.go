// Copyright 2025 Certen Protocol

package vcptypes

import "fmt"

// ClaimType is the closed enumeration of attribute kinds a schema slot can
// hold. Unlike the deeper signature-library claim types the teacher's
// reference crypto libraries use internally (Hashed/Number/Scalar/...),
// this is the VCP-level abstraction named explicitly by the specification.
type ClaimType uint8

const (
	CTText ClaimType = iota
	CTInt
	CTEncryptableText
	CTAccumulatorMember
)

func (c ClaimType) String() string {
	switch c {
	case CTText:
		return "Text"
	case CTInt:
		return "Int"
	case CTEncryptableText:
		return "EncryptableText"
	case CTAccumulatorMember:
		return "AccumulatorMember"
	default:
		return fmt.Sprintf("ClaimType(%d)", uint8(c))
	}
}

// Schema is an ordered sequence of claim types; an attribute is addressed
// by its index within its schema.
type Schema []ClaimType

// DataValueKind discriminates the DataValue tagged union.
type DataValueKind uint8

const (
	DVText DataValueKind = iota
	DVInt
)

// DataValue is the tagged union {Text(string) | Int(uint64)}.
type DataValue struct {
	Kind Kind
	Text string
	Int  uint64
}

// Kind is an alias kept distinct from DataValueKind to avoid a stutter at
// call sites (DataValue{Kind: vcptypes.KText, ...}).
type Kind = DataValueKind

const (
	KText = DVText
	KInt  = DVInt
)

// Text constructs a text-valued DataValue.
func Text(s string) DataValue { return DataValue{Kind: DVText, Text: s} }

// Int constructs an int-valued DataValue.
func Int(v uint64) DataValue { return DataValue{Kind: DVInt, Int: v} }

func (v DataValue) String() string {
	switch v.Kind {
	case DVText:
		return v.Text
	case DVInt:
		return fmt.Sprintf("%d", v.Int)
	default:
		return "<invalid DataValue>"
	}
}

// CompatibleWith reports whether v can be assigned to a schema slot of the
// given claim type, per the compatibility table in section 3:
// Text <-> {Text, EncryptableText, AccumulatorMember}; Int <-> {Int}.
func (v DataValue) CompatibleWith(ct ClaimType) bool {
	switch v.Kind {
	case DVText:
		return ct == CTText || ct == CTEncryptableText || ct == CTAccumulatorMember
	case DVInt:
		return ct == CTInt
	default:
		return false
	}
}

// CredAttrIndexAndDataValue pairs an attribute index with the value
// supplied for it, used by the blind-issuance flow.
type CredAttrIndexAndDataValue struct {
	Index CredAttrIndex
	Value DataValue
}
