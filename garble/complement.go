//
// complement.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import "github.com/halfgate/skcdgarble/skcd"

// complement records, for each of the eight nonlinear gate kinds, the
// (ca, cb, cc) constants such that:
//
//	kind(a, b) == AND(a XOR ca, b XOR cb) XOR cc
//
// All eight nonlinear two-input functions are affine-equivalent to AND
// under input/output complementation, so a single half-gate AND
// construction (teacher's circuit/garble.go Gate.Garble, AND case)
// garbles all eight once its inputs and output are complemented
// according to this table. Complementing a wire's role this way is
// free: it only changes which of the wire's two labels the garbler
// calls "zero" for the purposes of the half-gate formulas; it costs no
// extra ciphertext and requires no extra information at evaluation
// time (see garble.go and eval.go for why).
type complement struct {
	ca, cb, cc bool
}

var complementTable = map[skcd.GateKind]complement{
	skcd.AND:  {false, false, false},
	skcd.NAND: {false, false, true},
	skcd.OR:   {true, true, true},
	skcd.NOR:  {true, true, false},
	skcd.AANB: {false, true, false},
	skcd.NAAB: {true, false, false},
	skcd.AONB: {true, false, true},
	skcd.NAOB: {false, true, true},
}
