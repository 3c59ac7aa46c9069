//
// garble.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import (
	"io"

	"github.com/halfgate/skcdgarble/label"
	"github.com/halfgate/skcdgarble/prf"
	"github.com/halfgate/skcdgarble/skcd"
)

// Garble garbles circ using randomness drawn from rand and the given
// PRF, implementing specification §4.4. It returns the GarbledCircuit
// (safe to serialize and hand to any evaluator) and, for every input
// wire, the pair of labels from which the caller selects one per input
// bit to hand to an evaluator. Δ is local to this call and is never
// retained or returned; the PRF key is carried in the GarbledCircuit.
func Garble(rand io.Reader, prfImpl prf.PRF, circ *skcd.Circuit) (
	*GarbledCircuit, map[uint32]label.Pair, error) {

	if err := circ.Validate(); err != nil {
		return nil, nil, err
	}

	delta, err := label.New(rand)
	if err != nil {
		return nil, nil, &RngExhaustedError{Err: err}
	}
	delta.SetS(true)

	var keyData label.Data
	if _, err := io.ReadFull(rand, keyData[:]); err != nil {
		return nil, nil, &RngExhaustedError{Err: err}
	}
	key := prf.Key(keyData)

	wires := NewWireTable[label.Pair](circ.NumWires)

	inputLabels := make(map[uint32]label.Pair, len(circ.Inputs))
	for _, w := range circ.Inputs {
		pair, err := label.NewPair(rand, delta)
		if err != nil {
			return nil, nil, &RngExhaustedError{Err: err}
		}
		if err := wires.Set(w, pair); err != nil {
			return nil, nil, err
		}
		inputLabels[w] = pair
	}

	gates := make([]GarbledGate, len(circ.Gates))
	for i, g := range circ.Gates {
		gg, err := garbleGate(prfImpl, key, delta, wires, g)
		if err != nil {
			return nil, nil, err
		}
		gates[i] = gg
	}

	decodeBits := make([]bool, len(circ.Outputs))
	for i, w := range circ.Outputs {
		pair, err := wires.Get(w)
		if err != nil {
			return nil, nil, err
		}
		decodeBits[i] = pair.Zero.S()
	}

	gc := &GarbledCircuit{
		NumWires:   circ.NumWires,
		Inputs:     append([]uint32(nil), circ.Inputs...),
		Outputs:    append([]uint32(nil), circ.Outputs...),
		DecodeBits: decodeBits,
		Gates:      gates,
		PRFName:    prfImpl.Name(),
		PRFKey:     key,
	}
	return gc, inputLabels, nil
}

// garbleGate garbles a single gate, dispatching on whether its kind is
// free or nonlinear.
func garbleGate(prfImpl prf.PRF, key prf.Key, delta label.Block,
	wires *WireTable[label.Pair], g skcd.Gate) (GarbledGate, error) {

	gg := GarbledGate{Kind: g.Kind, In0: g.In0, In1: g.In1, Out: g.Out}

	if g.Kind.IsLinear() {
		out, err := garbleLinear(prfImpl, key, delta, wires, g)
		if err != nil {
			return GarbledGate{}, err
		}
		return gg, wires.Set(g.Out, out)
	}

	out, c0, c1, err := garbleNonlinear(prfImpl, key, delta, wires, g)
	if err != nil {
		return GarbledGate{}, err
	}
	gg.C0, gg.C1 = c0, c1
	return gg, wires.Set(g.Out, out)
}

// garbleLinear computes the output label pair for a free gate kind,
// following specification §4.4.
func garbleLinear(prfImpl prf.PRF, key prf.Key, delta label.Block,
	wires *WireTable[label.Pair], g skcd.Gate) (label.Pair, error) {

	switch g.Kind {
	case skcd.ZERO:
		// The zero-label is the gate's own deterministic PRF output, so
		// that an evaluator (which holds no input label for a constant
		// gate) can recompute it without any transmitted data.
		zero := constLabel(prfImpl, key, g.ID)
		return label.Pair{Zero: zero, One: zero.Xored(delta)}, nil

	case skcd.ONE:
		one := constLabel(prfImpl, key, g.ID)
		return label.Pair{Zero: one.Xored(delta), One: one}, nil

	case skcd.BUF:
		a, err := wires.Get(g.In0)
		if err != nil {
			return label.Pair{}, err
		}
		return a, nil

	case skcd.INV:
		a, err := wires.Get(g.In0)
		if err != nil {
			return label.Pair{}, err
		}
		return label.Pair{Zero: a.One, One: a.Zero}, nil

	case skcd.BUFB:
		b, err := wires.Get(g.In1)
		if err != nil {
			return label.Pair{}, err
		}
		return b, nil

	case skcd.INVB:
		b, err := wires.Get(g.In1)
		if err != nil {
			return label.Pair{}, err
		}
		return label.Pair{Zero: b.One, One: b.Zero}, nil

	case skcd.XOR:
		a, err := wires.Get(g.In0)
		if err != nil {
			return label.Pair{}, err
		}
		b, err := wires.Get(g.In1)
		if err != nil {
			return label.Pair{}, err
		}
		zero := a.Zero.Xored(b.Zero)
		return label.Pair{Zero: zero, One: zero.Xored(delta)}, nil

	case skcd.XNOR:
		a, err := wires.Get(g.In0)
		if err != nil {
			return label.Pair{}, err
		}
		b, err := wires.Get(g.In1)
		if err != nil {
			return label.Pair{}, err
		}
		zero := a.Zero.Xored(b.Zero).Xored(delta)
		return label.Pair{Zero: zero, One: zero.Xored(delta)}, nil

	default:
		panic("garble: garbleLinear called with nonlinear gate kind " + g.Kind.String())
	}
}

// constLabel derives a deterministic, gate-local pseudorandom label for
// a zero-input (constant) gate, so the evaluator can reproduce it
// without any ciphertext or transmitted input label.
func constLabel(prfImpl prf.PRF, key prf.Key, gateID uint32) label.Block {
	return prfImpl.Hash(key, gateID*2, label.Block{}, label.Block{})
}

// garbleNonlinear garbles one of the eight nonlinear gate kinds using
// the half-gates construction (Zahur-Rosulek-Evans), adapted from the
// teacher's AND case in circuit/garble.go and generalized to all eight
// kinds via the input/output complementation identities in
// complement.go.
func garbleNonlinear(prfImpl prf.PRF, key prf.Key, delta label.Block,
	wires *WireTable[label.Pair], g skcd.Gate) (out label.Pair, c0, c1 label.Block, err error) {

	a, err := wires.Get(g.In0)
	if err != nil {
		return label.Pair{}, label.Block{}, label.Block{}, err
	}
	b, err := wires.Get(g.In1)
	if err != nil {
		return label.Pair{}, label.Block{}, label.Block{}, err
	}

	cpl := complementTable[g.Kind]

	effA0, effA1 := a.Zero, a.One
	if cpl.ca {
		effA0, effA1 = effA1, effA0
	}
	effB0, effB1 := b.Zero, b.One
	if cpl.cb {
		effB0, effB1 = effB1, effB0
	}

	j0, j1 := g.ID*2, g.ID*2+1
	pa := effA0.S()
	pb := effB0.S()

	// Generator half gate.
	tg := prfImpl.Hash(key, j0, effA0, label.Block{})
	tg.Xor(prfImpl.Hash(key, j0, effA1, label.Block{}))
	if pb {
		tg.Xor(delta)
	}
	wg0 := prfImpl.Hash(key, j0, effA0, label.Block{})
	if pa {
		wg0.Xor(tg)
	}

	// Evaluator half gate.
	te := prfImpl.Hash(key, j1, effB0, label.Block{})
	te.Xor(prfImpl.Hash(key, j1, effB1, label.Block{}))
	te.Xor(effA0)
	we0 := prfImpl.Hash(key, j1, effB0, label.Block{})
	if pb {
		we0.Xor(te)
		we0.Xor(effA0)
	}

	effZero := wg0.Xored(we0)
	effOne := effZero.Xored(delta)

	zero, one := effZero, effOne
	if cpl.cc {
		zero, one = one, zero
	}

	return label.Pair{Zero: zero, One: one}, tg, te, nil
}
