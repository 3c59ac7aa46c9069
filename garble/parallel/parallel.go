//
// parallel.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

// Package parallel implements the optional data-parallel evaluator of
// specification §5: gates are grouped into topological layers (a gate's
// layer is one more than the deepest layer among its input wires), and
// every gate within a layer is evaluated by its own goroutine, since
// none of them can depend on another gate in the same layer. The
// WireTable is write-sharded by construction -- each worker writes only
// its own gate's output wire -- so no mutex guards it, matching the
// concurrency design in specification §5. This is a strict optimization
// over garble.Evaluate and must produce bit-identical results.
package parallel

import (
	"sync"

	"github.com/halfgate/skcdgarble/garble"
	"github.com/halfgate/skcdgarble/label"
	"github.com/halfgate/skcdgarble/prf"
)

// Evaluate runs gc the same way garble.Evaluate does, except that gates
// sharing a topological layer are evaluated concurrently.
func Evaluate(prfImpl prf.PRF, gc *garble.GarbledCircuit, inputs map[uint32]label.Block) ([]bool, error) {
	wires := garble.NewWireTable[label.Block](gc.NumWires)

	for _, w := range gc.Inputs {
		l, ok := inputs[w]
		if !ok {
			return nil, &garble.MissingInputLabelError{Wire: w}
		}
		if err := wires.Set(w, l); err != nil {
			return nil, err
		}
	}

	layers := computeLayers(gc)

	for _, layer := range layers {
		if err := evalLayer(prfImpl, gc, wires, layer); err != nil {
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

// computeLayers groups gate indices by topological depth. Gate depth is
// one more than the maximum depth of any wire it reads; input wires
// have depth 0. Because GarbledCircuit gates are already listed in
// topological order (each gate's inputs were assigned by an earlier
// gate or are declared circuit inputs), a single forward pass suffices.
func computeLayers(gc *garble.GarbledCircuit) [][]int {
	wireDepth := make([]int, gc.NumWires)
	gateDepth := make([]int, len(gc.Gates))

	maxDepth := 0
	for i, g := range gc.Gates {
		depth := 0
		for _, in := range g.InputWires() {
			if d := wireDepth[in] + 1; d > depth {
				depth = d
			}
		}
		gateDepth[i] = depth
		wireDepth[g.Out] = depth
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	layers := make([][]int, maxDepth+1)
	for i, d := range gateDepth {
		layers[d] = append(layers[d], i)
	}
	return layers
}

// evalLayer evaluates every gate index in layer concurrently, writing
// each result into wires before returning. The first error encountered
// is returned; other in-flight workers are allowed to finish since
// WireTable writes are independent and cannot corrupt each other.
func evalLayer(prfImpl prf.PRF, gc *garble.GarbledCircuit, wires *garble.WireTable[label.Block], layer []int) error {
	if len(layer) == 1 {
		i := layer[0]
		g := gc.Gates[i]
		out, err := garble.EvalGate(prfImpl, gc.PRFKey, wires, g, uint32(i))
		if err != nil {
			return err
		}
		return wires.Set(g.Out, out)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(layer))
	wg.Add(len(layer))
	for j, i := range layer {
		go func(j, i int) {
			defer wg.Done()
			g := gc.Gates[i]
			out, err := garble.EvalGate(prfImpl, gc.PRFKey, wires, g, uint32(i))
			if err != nil {
				errs[j] = err
				return
			}
			errs[j] = wires.Set(g.Out, out)
		}(j, i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
