// Copyright 2025 Certen Protocol

package vcptypes

// SharedParamValue is either a single DataValue or a list of them; list
// values of length 1 are accepted as a convenience wherever a single value
// is expected (see sharedparams.LookupOneText/LookupOneInt).
type SharedParamValue struct {
	One  *DataValue
	List []DataValue
}

// SPVOne wraps a single value.
func SPVOne(v DataValue) SharedParamValue { return SharedParamValue{One: &v} }

// SPVList wraps a list of values.
func SPVList(vs []DataValue) SharedParamValue { return SharedParamValue{List: vs} }

// SharedParams is the keyed registry of shared-param values agreed between
// prover and verifier out of band.
type SharedParams map[SharedParamKey]SharedParamValue
