//
// parser.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

package skcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// magic identifies the SKCD gate-list wire format this parser accepts.
// The SKCD parser proper is an external collaborator (out of scope);
// this is a minimal stand-in so the garbling engine has a concrete
// ingestion path to test against, modeled on the teacher's ParseMPCLC.
const magic = 0x736b6364 // "skcd"

// maxCount bounds any single length-prefixed section Parse will attempt
// to allocate for, so a corrupted or adversarial count field is reported
// as InvalidCircuitError instead of an out-of-memory panic.
const maxCount = 1 << 24

// Parse reads a gate list in the binary SKCD stand-in format:
//
//	magic(4) numWires(4) numInputs(4) numOutputs(4) numGates(4)
//	inputs:  numInputs  x wireID(4)
//	outputs: numOutputs x wireID(4)
//	gates:   numGates   x [kind(1) in0(4) in1(4) out(4)]
//
// The returned Circuit is validated before being returned.
func Parse(in io.Reader) (*Circuit, error) {
	r := bufio.NewReader(in)

	var header struct {
		Magic      uint32
		NumWires   uint32
		NumInputs  uint32
		NumOutputs uint32
		NumGates   uint32
	}
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("skcd: reading header: %w", err)
	}
	if header.Magic != magic {
		return nil, &InvalidCircuitError{
			Reason: fmt.Sprintf("bad magic %#x, want %#x", header.Magic, magic),
		}
	}

	if header.NumWires > maxCount {
		return nil, &InvalidCircuitError{Reason: "implausible wire count"}
	}
	if header.NumInputs > maxCount {
		return nil, &InvalidCircuitError{Reason: "implausible input wire count"}
	}
	if header.NumOutputs > maxCount {
		return nil, &InvalidCircuitError{Reason: "implausible output wire count"}
	}
	if header.NumGates > maxCount {
		return nil, &InvalidCircuitError{Reason: "implausible gate count"}
	}

	inputs, err := readWireIDs(r, header.NumInputs)
	if err != nil {
		return nil, fmt.Errorf("skcd: reading inputs: %w", err)
	}
	outputs, err := readWireIDs(r, header.NumOutputs)
	if err != nil {
		return nil, fmt.Errorf("skcd: reading outputs: %w", err)
	}

	gates := make([]Gate, header.NumGates)
	for i := range gates {
		var kind byte
		if kind, err = r.ReadByte(); err != nil {
			return nil, fmt.Errorf("skcd: reading gate %d kind: %w", i, err)
		}
		var bin struct {
			In0 uint32
			In1 uint32
			Out uint32
		}
		if err := binary.Read(r, binary.BigEndian, &bin); err != nil {
			return nil, fmt.Errorf("skcd: reading gate %d: %w", i, err)
		}
		gates[i] = Gate{
			ID:   uint32(i),
			Kind: GateKind(kind),
			In0:  bin.In0,
			In1:  bin.In1,
			Out:  bin.Out,
		}
	}

	circ := &Circuit{
		NumWires: int(header.NumWires),
		Inputs:   inputs,
		Outputs:  outputs,
		Gates:    gates,
	}
	if err := circ.Validate(); err != nil {
		return nil, err
	}
	return circ, nil
}

func readWireIDs(r io.Reader, n uint32) ([]uint32, error) {
	ids := make([]uint32, n)
	for i := range ids {
		if err := binary.Read(r, binary.BigEndian, &ids[i]); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// Marshal writes circ back out in the format Parse reads, for round-trip
// testing and for tooling that synthesizes gate lists programmatically.
func Marshal(out io.Writer, circ *Circuit) error {
	header := []interface{}{
		uint32(magic),
		uint32(circ.NumWires),
		uint32(len(circ.Inputs)),
		uint32(len(circ.Outputs)),
		uint32(len(circ.Gates)),
	}
	for _, v := range header {
		if err := binary.Write(out, binary.BigEndian, v); err != nil {
			return err
		}
	}
	for _, w := range circ.Inputs {
		if err := binary.Write(out, binary.BigEndian, w); err != nil {
			return err
		}
	}
	for _, w := range circ.Outputs {
		if err := binary.Write(out, binary.BigEndian, w); err != nil {
			return err
		}
	}
	for _, g := range circ.Gates {
		if err := binary.Write(out, binary.BigEndian, byte(g.Kind)); err != nil {
			return err
		}
		fields := []uint32{g.In0, g.In1, g.Out}
		for _, f := range fields {
			if err := binary.Write(out, binary.BigEndian, f); err != nil {
				return err
			}
		}
	}
	return nil
}
