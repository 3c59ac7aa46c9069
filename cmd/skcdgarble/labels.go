//
// labels.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package main

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/halfgate/skcdgarble/garble"
	"github.com/halfgate/skcdgarble/label"
)

// writeLabelPairs writes, for every input wire, the wire id followed by
// both of its labels: wire_id(u32) zero(16) one(16). This side-channel
// file carries both labels of every input wire, per specification §6's
// "Garble operation" output contract; the caller (or the select
// subcommand) picks one label per wire from it for the evaluator.
func writeLabelPairs(w io.Writer, wires []uint32, pairs map[uint32]label.Pair) error {
	var idBuf [4]byte
	var dataBuf label.Data
	for _, wire := range wires {
		pair, ok := pairs[wire]
		if !ok {
			return fmt.Errorf("no label pair for wire %d", wire)
		}
		binary.BigEndian.PutUint32(idBuf[:], wire)
		if _, err := w.Write(idBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(pair.Zero.Bytes(&dataBuf)); err != nil {
			return err
		}
		if _, err := w.Write(pair.One.Bytes(&dataBuf)); err != nil {
			return err
		}
	}
	return nil
}

// readLabels reads wire_id(u32) width(u16) label(width) records -- the
// format an evaluator's chosen-label file uses (one concrete label per
// input wire, already selected for a specific input bit, never both
// halves). The width field lets a hand-assembled or corrupted label
// file be rejected with LabelWidthMismatchError instead of silently
// misreading the following bytes, since this is the one point where a
// label enters the system as untrusted bytes rather than as a
// label.Block produced by Garble itself.
func readLabels(r io.Reader) (map[uint32]label.Block, error) {
	result := make(map[uint32]label.Block)
	for {
		var idBuf [4]byte
		_, err := io.ReadFull(r, idBuf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		wire := binary.BigEndian.Uint32(idBuf[:])

		var widthBuf [2]byte
		if _, err := io.ReadFull(r, widthBuf[:]); err != nil {
			return nil, err
		}
		width := int(binary.BigEndian.Uint16(widthBuf[:]))
		if width != label.Width {
			return nil, &garble.LabelWidthMismatchError{Wire: wire, Got: width, Want: label.Width}
		}

		var data label.Data
		if _, err := io.ReadFull(r, data[:]); err != nil {
			return nil, err
		}
		var l label.Block
		l.SetData(&data)
		result[wire] = l
	}
	return result, nil
}

// readLabelPairs is the inverse of writeLabelPairs, used by the select
// subcommand to turn a garbler's label-pairs file into the per-wire
// label.Pair map an input bit string picks from. It also returns the
// wire ids in the order the file recorded them (the same order
// writeLabelPairs wrote circ.Inputs in), since the file's wire ids
// need not be 0..n-1 or sorted and a bit string is only meaningful
// applied positionally against that exact order.
func readLabelPairs(r io.Reader) ([]uint32, map[uint32]label.Pair, error) {
	var wires []uint32
	pairs := make(map[uint32]label.Pair)
	for {
		var idBuf [4]byte
		_, err := io.ReadFull(r, idBuf[:])
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		wire := binary.BigEndian.Uint32(idBuf[:])

		var zeroData, oneData label.Data
		if _, err := io.ReadFull(r, zeroData[:]); err != nil {
			return nil, nil, err
		}
		if _, err := io.ReadFull(r, oneData[:]); err != nil {
			return nil, nil, err
		}
		var pair label.Pair
		pair.Zero.SetData(&zeroData)
		pair.One.SetData(&oneData)
		wires = append(wires, wire)
		pairs[wire] = pair
	}
	return wires, pairs, nil
}

// writeSelectedLabels writes the readLabels format (wire_id(u32)
// width(u16) label(width)) for one label per wire, chosen out of pairs
// by bits. This is the selection step the CLI otherwise leaves to the
// caller (spec's OT/transport Non-goals): it turns a garbler's
// label-pairs file plus a plaintext input bit string into the exact
// file an `eval -labels` run expects.
func writeSelectedLabels(w io.Writer, wires []uint32, bits []bool, pairs map[uint32]label.Pair) error {
	if len(wires) != len(bits) {
		return fmt.Errorf("select: %d input wires but %d input bits", len(wires), len(bits))
	}
	var idBuf [4]byte
	var widthBuf [2]byte
	binary.BigEndian.PutUint16(widthBuf[:], uint16(label.Width))
	var dataBuf label.Data
	for i, wire := range wires {
		pair, ok := pairs[wire]
		if !ok {
			return fmt.Errorf("no label pair for wire %d", wire)
		}
		binary.BigEndian.PutUint32(idBuf[:], wire)
		if _, err := w.Write(idBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(widthBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(pair.ForBit(bits[i]).Bytes(&dataBuf)); err != nil {
			return err
		}
	}
	return nil
}
