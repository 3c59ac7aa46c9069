//
// eval.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import (
	"github.com/halfgate/skcdgarble/label"
	"github.com/halfgate/skcdgarble/prf"
	"github.com/halfgate/skcdgarble/skcd"
)

// Evaluate runs gc over the given per-input-wire labels, implementing
// specification §4.5. inputs must contain exactly one label.Block per
// wire id named in gc.Inputs; extra entries are ignored. The returned
// slice holds one decoded bit per wire in gc.Outputs, in that order.
//
// Evaluate never branches on, logs, or otherwise leaks which half of a
// label pair it was given: every gate kind, linear or not, is
// propagated by the same label-level operations the garbler used to
// produce it. Gate position in gc.Gates doubles as its gate id, exactly
// as it did for the skcd.Circuit this GarbledCircuit was built from.
func Evaluate(prfImpl prf.PRF, gc *GarbledCircuit, inputs map[uint32]label.Block) ([]bool, error) {
	wires := NewWireTable[label.Block](gc.NumWires)

	for _, w := range gc.Inputs {
		l, ok := inputs[w]
		if !ok {
			return nil, &MissingInputLabelError{Wire: w}
		}
		if err := wires.Set(w, l); err != nil {
			return nil, err
		}
	}

	for i, g := range gc.Gates {
		out, err := EvalGate(prfImpl, gc.PRFKey, wires, g, uint32(i))
		if err != nil {
			return nil, err
		}
		if err := wires.Set(g.Out, out); err != nil {
			return nil, err
		}
	}

	results := make([]bool, len(gc.Outputs))
	for i, w := range gc.Outputs {
		l, err := wires.Get(w)
		if err != nil {
			return nil, err
		}
		results[i] = l.S() != gc.DecodeBits[i]
	}
	return results, nil
}

// EvalGate propagates a single garbled gate. gateID is the gate's
// position in the garbled circuit's gate list. It is exported so that
// garble/parallel's layered evaluator can reuse exactly the same
// per-gate logic Evaluate uses sequentially.
func EvalGate(prfImpl prf.PRF, key prf.Key, wires *WireTable[label.Block], g GarbledGate, gateID uint32) (label.Block, error) {
	if g.Kind.IsLinear() {
		return evalLinear(prfImpl, key, wires, g, gateID)
	}
	return evalNonlinear(prfImpl, key, wires, g, gateID)
}

// evalLinear mirrors garbleLinear: every free gate kind is a label-level
// copy, XOR, or gate-local constant, and never touches the PRF except
// for the two zero-input constant kinds.
func evalLinear(prfImpl prf.PRF, key prf.Key, wires *WireTable[label.Block], g GarbledGate, gateID uint32) (label.Block, error) {
	switch g.Kind {
	case skcd.ZERO, skcd.ONE:
		return constLabel(prfImpl, key, gateID), nil

	case skcd.BUF:
		return wires.Get(g.In0)

	case skcd.INV:
		return wires.Get(g.In0)

	case skcd.BUFB:
		return wires.Get(g.In1)

	case skcd.INVB:
		return wires.Get(g.In1)

	case skcd.XOR, skcd.XNOR:
		a, err := wires.Get(g.In0)
		if err != nil {
			return label.Block{}, err
		}
		b, err := wires.Get(g.In1)
		if err != nil {
			return label.Block{}, err
		}
		return a.Xored(b), nil

	default:
		panic("garble: evalLinear called with nonlinear gate kind " + g.Kind.String())
	}
}

// evalNonlinear is the generic half-gates combine formula. It is
// identical for all eight nonlinear gate kinds: the complementation
// applied at garble time (complement.go) is already absorbed into C0,
// C1, and into which physical label the garbler calls the circuit's
// "zero" and "one" for this wire, so the evaluator needs no knowledge
// of which of the eight kinds it is looking at beyond "not linear".
func evalNonlinear(prfImpl prf.PRF, key prf.Key, wires *WireTable[label.Block], g GarbledGate, gateID uint32) (label.Block, error) {
	a, err := wires.Get(g.In0)
	if err != nil {
		return label.Block{}, err
	}
	b, err := wires.Get(g.In1)
	if err != nil {
		return label.Block{}, err
	}

	j0, j1 := gateID*2, gateID*2+1

	wg := prfImpl.Hash(key, j0, a, label.Block{})
	if a.S() {
		wg.Xor(g.C0)
	}

	we := prfImpl.Hash(key, j1, b, label.Block{})
	if b.S() {
		we.Xor(g.C1)
		we.Xor(a)
	}

	return wg.Xored(we), nil
}
