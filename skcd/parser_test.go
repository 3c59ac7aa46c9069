//
// parser_test.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package skcd

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	circ := &Circuit{
		NumWires: 3,
		Inputs:   []uint32{0, 1},
		Outputs:  []uint32{2},
		Gates: []Gate{
			{ID: 0, Kind: AND, In0: 0, In1: 1, Out: 2},
		},
	}

	var buf bytes.Buffer
	if err := Marshal(&buf, circ); err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.NumWires != circ.NumWires {
		t.Fatalf("NumWires = %d, want %d", got.NumWires, circ.NumWires)
	}
	if len(got.Gates) != 1 || got.Gates[0].Kind != AND {
		t.Fatalf("gates round trip mismatch: %+v", got.Gates)
	}
}

// TestParseRejectsImplausibleCounts hand-assembles a header claiming an
// enormous gate count with no gate bytes behind it, proving Parse
// rejects the count before attempting to allocate for it instead of
// reading until EOF and failing with an unrelated short-read error.
func TestParseRejectsImplausibleCounts(t *testing.T) {
	var buf bytes.Buffer
	header := []uint32{magic, 3, 0, 0, 1 << 30}
	for _, v := range header {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}

	_, err := Parse(&buf)
	if err == nil {
		t.Fatal("expected an error for an implausible gate count")
	}
	if _, ok := err.(*InvalidCircuitError); !ok {
		t.Fatalf("got %T, want *InvalidCircuitError", err)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	var buf bytes.Buffer
	header := []uint32{0xdeadbeef, 3, 0, 0, 0}
	for _, v := range header {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}

	_, err := Parse(&buf)
	if _, ok := err.(*InvalidCircuitError); !ok {
		t.Fatalf("got %T, want *InvalidCircuitError", err)
	}
}
