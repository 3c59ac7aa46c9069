//
// circuit.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import (
	"fmt"

	"github.com/halfgate/skcdgarble/label"
	"github.com/halfgate/skcdgarble/prf"
	"github.com/halfgate/skcdgarble/skcd"
)

// GarbledGate is one entry of a garbled circuit (specification §3). For
// the eight linear/free gate kinds, C0 and C1 are unused zero values; for
// the eight nonlinear kinds they hold the two half-gate ciphertext rows.
type GarbledGate struct {
	Kind skcd.GateKind
	In0  uint32
	In1  uint32
	Out  uint32
	C0   label.Block
	C1   label.Block
}

// InputWires returns the wire ids g actually reads, mirroring
// skcd.Gate.InputWires: zero for ZERO/ONE, one for the passthroughs,
// two otherwise. Used by garble/parallel to compute a topological
// layering over an already-garbled circuit.
func (g GarbledGate) InputWires() []uint32 {
	switch g.Kind {
	case skcd.ZERO, skcd.ONE:
		return nil
	case skcd.BUF, skcd.INV:
		return []uint32{g.In0}
	case skcd.BUFB, skcd.INVB:
		return []uint32{g.In1}
	default:
		return []uint32{g.In0, g.In1}
	}
}

// GarbledCircuit is the ordered list of garbled gates, the declared
// input and output wire ids, the per-output decode bits, and the PRF
// used to produce it. It does not contain Δ, does not contain input
// labels, and does not contain any per-wire plaintext (specification
// §3).
type GarbledCircuit struct {
	NumWires int
	Inputs   []uint32
	Outputs  []uint32

	// DecodeBits holds one bit per output wire (same order as Outputs):
	// the output bit equals sel(WireTable[o]) XOR DecodeBits[i]
	// (specification §4.5, design option (b)).
	DecodeBits []bool

	Gates []GarbledGate

	PRFName string
	PRFKey  prf.Key
}

// Stats returns a gate-kind histogram, mirroring skcd.Circuit.Stats.
func (gc *GarbledCircuit) Stats() map[skcd.GateKind]int {
	stats := make(map[skcd.GateKind]int)
	for _, g := range gc.Gates {
		stats[g.Kind]++
	}
	return stats
}

// Cost returns the number of ciphertext rows (2 per nonlinear gate).
func (gc *GarbledCircuit) Cost() int {
	var cost int
	for _, g := range gc.Gates {
		if !g.Kind.IsLinear() {
			cost += 2
		}
	}
	return cost
}

func (gc *GarbledCircuit) String() string {
	stats := gc.Stats()
	var nonlinear, linear int
	for k, n := range stats {
		if k.IsLinear() {
			linear += n
		} else {
			nonlinear += n
		}
	}
	return fmt.Sprintf("#gates=%d (linear=%d nonlinear=%d, %d ciphertext rows) #wires=%d #in=%d #out=%d prf=%s",
		len(gc.Gates), linear, nonlinear, gc.Cost(), gc.NumWires, len(gc.Inputs), len(gc.Outputs), gc.PRFName)
}
