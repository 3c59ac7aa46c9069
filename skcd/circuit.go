//
// circuit.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

package skcd

import (
	"fmt"
)

// Circuit is a parsed SKCD gate list: the declared input and output
// wires plus the ordered gate list, satisfying the invariants of
// specification §3: gate ids form a contiguous prefix of the integers,
// every non-input gate's inputs are strictly less than its output (the
// gates are already in topological order), and the output wires are a
// declared ordered list.
type Circuit struct {
	NumWires int
	Inputs   []uint32
	Outputs  []uint32
	Gates    []Gate
}

// Stats returns a histogram of gate kinds, mirroring the teacher's
// Circuit.Stats map, generalized to all 16 gate kinds.
func (c *Circuit) Stats() map[GateKind]int {
	stats := make(map[GateKind]int)
	for _, g := range c.Gates {
		stats[g.Kind]++
	}
	return stats
}

// Cost estimates the number of ciphertext rows garbling this circuit
// will emit: two rows per nonlinear gate, zero for every free gate.
func (c *Circuit) Cost() int {
	var cost int
	for _, g := range c.Gates {
		if !g.Kind.IsLinear() {
			cost += 2
		}
	}
	return cost
}

func (c *Circuit) String() string {
	stats := c.Stats()
	var nonlinear, linear int
	for k, n := range stats {
		if k.IsLinear() {
			linear += n
		} else {
			nonlinear += n
		}
	}
	return fmt.Sprintf("#gates=%d (linear=%d nonlinear=%d) #wires=%d #in=%d #out=%d",
		len(c.Gates), linear, nonlinear, c.NumWires, len(c.Inputs), len(c.Outputs))
}

// Dump writes a one-line-per-gate listing, for diagnostics.
func (c *Circuit) Dump(out func(format string, a ...interface{})) {
	out("circuit %s\n", c)
	for _, g := range c.Gates {
		out("\t%s\n", g)
	}
}

// Validate checks the gate-list invariants of specification §3 and
// returns an *InvalidCircuitError describing the first violation found
// (an *UnknownGateKindError for an undefined gate kind). The garbler
// calls this before garbling; callers that construct a Circuit by hand
// (tests, Parse) should call it too.
func (c *Circuit) Validate() error {
	if c.NumWires <= 0 {
		return &InvalidCircuitError{Reason: "circuit declares no wires"}
	}
	// Inputs may legitimately be empty: a circuit built entirely from
	// ZERO/ONE constant gates reads no input wires at all.
	if len(c.Outputs) == 0 {
		return &InvalidCircuitError{Reason: "circuit declares no output wires"}
	}

	seen := make([]bool, c.NumWires)
	for _, w := range c.Inputs {
		if int(w) >= c.NumWires {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("input wire %d out of range [0,%d)", w, c.NumWires),
			}
		}
		if seen[w] {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("input wire %d declared more than once", w),
			}
		}
		seen[w] = true
	}

	for i, g := range c.Gates {
		if g.ID != uint32(i) {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("gate ids are not a contiguous prefix: gate %d has id %d", i, g.ID),
			}
		}
		if !g.Kind.Valid() {
			return &UnknownGateKindError{Kind: g.Kind}
		}
		if int(g.Out) >= c.NumWires {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("gate %d output wire %d out of range [0,%d)", g.ID, g.Out, c.NumWires),
			}
		}
		if seen[g.Out] {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("wire %d assigned more than once (gate %d)", g.Out, g.ID),
			}
		}

		for _, in := range g.InputWires() {
			if int(in) >= c.NumWires {
				return &InvalidCircuitError{
					Reason: fmt.Sprintf("gate %d input wire %d out of range [0,%d)", g.ID, in, c.NumWires),
				}
			}
			if !seen[in] {
				return &InvalidCircuitError{
					Reason: fmt.Sprintf("gate %d reads wire %d before it is assigned", g.ID, in),
				}
			}
			if in >= g.Out {
				return &InvalidCircuitError{
					Reason: fmt.Sprintf("gate %d is not topologically ordered: input %d >= output %d", g.ID, in, g.Out),
				}
			}
		}
		seen[g.Out] = true
	}

	for _, w := range c.Outputs {
		if int(w) >= c.NumWires {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("output wire %d out of range [0,%d)", w, c.NumWires),
			}
		}
		if !seen[w] {
			return &InvalidCircuitError{
				Reason: fmt.Sprintf("output wire %d is never assigned", w),
			}
		}
	}

	return nil
}
