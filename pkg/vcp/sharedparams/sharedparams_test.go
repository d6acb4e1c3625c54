// Copyright 2025 Certen Protocol

package sharedparams

import (
	"testing"

	"github.com/certen/vcp/pkg/vcp/vcptypes"
)

func TestPutOneThenLookupOneText(t *testing.T) {
	m := vcptypes.SharedParams{}
	PutOne(m, "name", vcptypes.Text("alice"))
	got, err := LookupOneText("name", m)
	if err != nil {
		t.Fatalf("LookupOneText: %v", err)
	}
	if got != "alice" {
		t.Errorf("got %q, want alice", got)
	}
}

func TestLookupOneTextAcceptsSingleElementList(t *testing.T) {
	m := vcptypes.SharedParams{"name": vcptypes.SPVList([]vcptypes.DataValue{vcptypes.Text("bob")})}
	got, err := LookupOneText("name", m)
	if err != nil {
		t.Fatalf("LookupOneText: %v", err)
	}
	if got != "bob" {
		t.Errorf("got %q, want bob", got)
	}
}

func TestLookupOneIntWrongTypeErrors(t *testing.T) {
	m := vcptypes.SharedParams{}
	PutOne(m, "age", vcptypes.Text("not an int"))
	if _, err := LookupOneInt("age", m); err == nil {
		t.Fatal("LookupOneInt: want error for text-typed value, got nil")
	}
}

func TestLookupOneMissingKeyErrors(t *testing.T) {
	m := vcptypes.SharedParams{}
	if _, err := LookupOneText("missing", m); err == nil {
		t.Fatal("LookupOneText: want error for missing key, got nil")
	}
	if _, err := LookupOneInt("missing", m); err == nil {
		t.Fatal("LookupOneInt: want error for missing key, got nil")
	}
}

func TestLookupOneIntRoundTrip(t *testing.T) {
	m := vcptypes.SharedParams{}
	PutOne(m, "max", vcptypes.Int(65))
	got, err := LookupOneInt("max", m)
	if err != nil {
		t.Fatalf("LookupOneInt: %v", err)
	}
	if got != 65 {
		t.Errorf("got %d, want 65", got)
	}
}
