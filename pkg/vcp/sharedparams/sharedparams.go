// Copyright 2025 Certen Protocol
//
// Package sharedparams implements the Shared-Parameters Registry (section
// 4.2): a keyed map from SharedParamKey to SharedParamValue, with
// convenience lookups that unwrap single-element lists.

package sharedparams

import (
	"fmt"

	"github.com/certen/vcp/pkg/vcp/vcperr"
	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

// LookupOneText returns the single text value stored at k, also accepting a
// single-element SPVList([Text]) as a convenience.
func LookupOneText(k vcptypes.SharedParamKey, params vcptypes.SharedParams) (string, error) {
	v, ok := params[k]
	if !ok {
		return "", vcperr.NewUserInputError(vcperr.MissingSharedParam, "missing key %q", k)
	}
	if v.One != nil && v.One.Kind == vcptypes.DVText {
		return v.One.Text, nil
	}
	if v.One == nil && len(v.List) == 1 && v.List[0].Kind == vcptypes.DVText {
		return v.List[0].Text, nil
	}
	return "", vcperr.NewUserInputError(vcperr.WrongSharedParamType,
		"key %q should be a single text value, got %s", k, describe(v))
}

// LookupOneInt returns the single integer value stored at k, also accepting a
// single-element SPVList([Int]) as a convenience.
func LookupOneInt(k vcptypes.SharedParamKey, params vcptypes.SharedParams) (uint64, error) {
	v, ok := params[k]
	if !ok {
		return 0, vcperr.NewUserInputError(vcperr.MissingSharedParam, "missing key %q", k)
	}
	if v.One != nil && v.One.Kind == vcptypes.DVInt {
		return v.One.Int, nil
	}
	if v.One == nil && len(v.List) == 1 && v.List[0].Kind == vcptypes.DVInt {
		return v.List[0].Int, nil
	}
	return 0, vcperr.NewUserInputError(vcperr.WrongSharedParamType,
		"key %q should be a single int value, got %s", k, describe(v))
}

// PutOne stores a single value at k, the inverse convenience of LookupOne*.
func PutOne(m vcptypes.SharedParams, k vcptypes.SharedParamKey, v vcptypes.DataValue) {
	m[k] = vcptypes.SPVOne(v)
}

func describe(v vcptypes.SharedParamValue) string {
	if v.One != nil {
		return fmt.Sprintf("SPVOne(%v)", *v.One)
	}
	return fmt.Sprintf("SPVList(%v)", v.List)
}
