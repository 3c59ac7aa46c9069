//
// labels_test.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package main

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/halfgate/skcdgarble/garble"
	"github.com/halfgate/skcdgarble/label"
)

func randPair(t *testing.T) label.Pair {
	t.Helper()
	zero, err := label.New(rand.Reader)
	if err != nil {
		t.Fatalf("label.New: %v", err)
	}
	one, err := label.New(rand.Reader)
	if err != nil {
		t.Fatalf("label.New: %v", err)
	}
	return label.Pair{Zero: zero, One: one}
}

func TestLabelPairsRoundTrip(t *testing.T) {
	wires := []uint32{0, 1, 2}
	pairs := map[uint32]label.Pair{
		0: randPair(t),
		1: randPair(t),
		2: randPair(t),
	}

	var buf bytes.Buffer
	if err := writeLabelPairs(&buf, wires, pairs); err != nil {
		t.Fatalf("writeLabelPairs: %v", err)
	}

	gotWires, got, err := readLabelPairs(&buf)
	if err != nil {
		t.Fatalf("readLabelPairs: %v", err)
	}
	if len(gotWires) != len(wires) {
		t.Fatalf("got %d wires, want %d", len(gotWires), len(wires))
	}
	for i, w := range wires {
		if gotWires[i] != w {
			t.Fatalf("wire order mismatch at index %d: got %d, want %d", i, gotWires[i], w)
		}
		if got[w].Zero != pairs[w].Zero || got[w].One != pairs[w].One {
			t.Fatalf("wire %d: round trip mismatch", w)
		}
	}
}

// TestSelectAndReadLabels uses non-sequential, unsorted wire ids
// deliberately: a circuit's Inputs need not be 0..n-1 in order, and
// selection must bind bits positionally to readLabelPairs's recorded
// order, not to the literal wire id values.
func TestSelectAndReadLabels(t *testing.T) {
	wires := []uint32{7, 2, 40}
	pairs := map[uint32]label.Pair{
		7:  randPair(t),
		2:  randPair(t),
		40: randPair(t),
	}
	bits := []bool{true, false, true}

	var pairsBuf bytes.Buffer
	if err := writeLabelPairs(&pairsBuf, wires, pairs); err != nil {
		t.Fatalf("writeLabelPairs: %v", err)
	}
	orderedWires, readPairs, err := readLabelPairs(&pairsBuf)
	if err != nil {
		t.Fatalf("readLabelPairs: %v", err)
	}

	var buf bytes.Buffer
	if err := writeSelectedLabels(&buf, orderedWires, bits, readPairs); err != nil {
		t.Fatalf("writeSelectedLabels: %v", err)
	}

	given, err := readLabels(&buf)
	if err != nil {
		t.Fatalf("readLabels: %v", err)
	}
	for i, w := range orderedWires {
		want := pairs[w].ForBit(bits[i])
		if given[w] != want {
			t.Fatalf("wire %d: got %s, want %s", w, given[w], want)
		}
	}
}

func TestReadLabelsRejectsWidthMismatch(t *testing.T) {
	var buf bytes.Buffer
	var idBuf [4]byte
	binary.BigEndian.PutUint32(idBuf[:], 7)
	buf.Write(idBuf[:])

	var widthBuf [2]byte
	binary.BigEndian.PutUint16(widthBuf[:], 8) // wrong width, label.Width is 16
	buf.Write(widthBuf[:])
	buf.Write(make([]byte, 8))

	_, err := readLabels(&buf)
	if err == nil {
		t.Fatal("expected an error for mismatched label width")
	}
	mismatch, ok := err.(*garble.LabelWidthMismatchError)
	if !ok {
		t.Fatalf("got %T, want *garble.LabelWidthMismatchError", err)
	}
	if mismatch.Wire != 7 || mismatch.Got != 8 || mismatch.Want != label.Width {
		t.Fatalf("unexpected mismatch fields: %+v", mismatch)
	}
}

func TestParseSelectBits(t *testing.T) {
	bits, err := parseSelectBits("1010")
	if err != nil {
		t.Fatalf("parseSelectBits: %v", err)
	}
	want := []bool{true, false, true, false}
	for i := range want {
		if bits[i] != want[i] {
			t.Fatalf("index %d: got %v, want %v", i, bits[i], want[i])
		}
	}

	if _, err := parseSelectBits("102"); err == nil {
		t.Fatal("expected an error for a non-binary character")
	}
}
