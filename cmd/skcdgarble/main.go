//
// main.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

// Command skcdgarble is the reference CLI driver for the garbling
// engine: garble a gate list into a GarbledCircuit, evaluate one
// against supplied input labels, or dump summary statistics for a gate
// list or a garbled circuit, mirroring the teacher's apps/garbled
// command (garbler/evaluator mode selected with flags, one circuit file
// argument) and its objdump companion.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"

	"github.com/halfgate/skcdgarble/env"
	"github.com/halfgate/skcdgarble/garble"
	"github.com/halfgate/skcdgarble/prf"
	"github.com/halfgate/skcdgarble/skcd"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "garble":
		err = runGarble(os.Args[2:])
	case "eval":
		err = runEval(os.Args[2:])
	case "objdump":
		err = runObjdump(os.Args[2:])
	case "select":
		err = runSelect(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "skcdgarble: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  skcdgarble garble -in circuit.skcd -out circuit.gc -labels labels.out [-prf xxh3|aes|blake2b]
  skcdgarble select -labels labels.out -bits 1011 -out labels.in
  skcdgarble eval -in circuit.gc -labels labels.in
  skcdgarble objdump -in file.skcd|file.gc

"garble -labels" writes one pair of labels (zero and one) per input
wire; "eval -labels" reads exactly one already-chosen label per wire.
The two files are not interchangeable -- which half of each pair goes
to the evaluator is the caller's own input, out of scope for this tool
to transmit. "select" bridges them for local testing by picking labels
out of a pairs file according to a plaintext bit string; a real
deployment hands the evaluator its chosen labels over whatever OT or
transport mechanism it uses instead.
`)
}

func runGarble(args []string) error {
	fs := flag.NewFlagSet("garble", flag.ExitOnError)
	in := fs.String("in", "", "SKCD gate list file")
	out := fs.String("out", "", "output GarbledCircuit file")
	labelsOut := fs.String("labels", "", "output file for input wire label pairs")
	prfName := fs.String("prf", "xxh3", "PRF implementation (xxh3, aes, blake2b)")
	fs.Parse(args)

	if *in == "" || *out == "" {
		return fmt.Errorf("garble: -in and -out are required")
	}
	prfImpl, err := prf.ByName(*prfName)
	if err != nil {
		return err
	}
	cfg := env.Config{Rand: rand.Reader, PRF: prfImpl}

	circ, err := loadSKCD(*in)
	if err != nil {
		return fmt.Errorf("loading %s: %w", *in, err)
	}
	fmt.Printf("circuit: %s\n", circ)

	gc, inputLabels, err := garble.Garble(cfg.GetRandom(), cfg.GetPRF(), circ)
	if err != nil {
		return fmt.Errorf("garbling: %w", err)
	}
	fmt.Printf("garbled: %s\n", gc)

	outFile, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if err := garble.Encode(outFile, gc); err != nil {
		return fmt.Errorf("encoding: %w", err)
	}

	if *labelsOut != "" {
		lf, err := os.Create(*labelsOut)
		if err != nil {
			return err
		}
		defer lf.Close()
		if err := writeLabelPairs(lf, circ.Inputs, inputLabels); err != nil {
			return fmt.Errorf("writing labels: %w", err)
		}
	}
	return nil
}

func runSelect(args []string) error {
	fs := flag.NewFlagSet("select", flag.ExitOnError)
	labelsIn := fs.String("labels", "", "label-pairs file produced by garble -labels")
	bitsFlag := fs.String("bits", "", "one input bit (0 or 1) per wire, in the order garble -labels wrote them")
	out := fs.String("out", "", "output file, in the format eval -labels expects")
	fs.Parse(args)

	if *labelsIn == "" || *bitsFlag == "" || *out == "" {
		return fmt.Errorf("select: -labels, -bits, and -out are required")
	}

	bits, err := parseSelectBits(*bitsFlag)
	if err != nil {
		return err
	}

	lf, err := os.Open(*labelsIn)
	if err != nil {
		return err
	}
	defer lf.Close()
	wires, pairs, err := readLabelPairs(lf)
	if err != nil {
		return fmt.Errorf("reading label pairs: %w", err)
	}

	outFile, err := os.Create(*out)
	if err != nil {
		return err
	}
	defer outFile.Close()
	if err := writeSelectedLabels(outFile, wires, bits, pairs); err != nil {
		return fmt.Errorf("writing selected labels: %w", err)
	}
	return nil
}

// parseSelectBits turns a "-bits" flag value ("1011") into a bool per
// character, applied positionally against the wire order readLabelPairs
// returns (the order garble -labels recorded circ.Inputs in) rather
// than against the wire ids themselves, which need not be 0..n-1.
func parseSelectBits(s string) ([]bool, error) {
	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
			bits[i] = false
		case '1':
			bits[i] = true
		default:
			return nil, fmt.Errorf("select: -bits must contain only 0 or 1, got %q at position %d", c, i)
		}
	}
	return bits, nil
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	in := fs.String("in", "", "GarbledCircuit file")
	labelsIn := fs.String("labels", "", "input wire labels (wire id + one concrete label each)")
	fs.Parse(args)

	if *in == "" || *labelsIn == "" {
		return fmt.Errorf("eval: -in and -labels are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	gc, err := garble.Decode(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", *in, err)
	}
	fmt.Printf("garbled: %s\n", gc)

	prfImpl, err := prf.ByName(gc.PRFName)
	if err != nil {
		return err
	}

	lf, err := os.Open(*labelsIn)
	if err != nil {
		return err
	}
	defer lf.Close()
	given, err := readLabels(lf)
	if err != nil {
		return fmt.Errorf("reading labels: %w", err)
	}

	out, err := garble.Evaluate(prfImpl, gc, given)
	if err != nil {
		return fmt.Errorf("evaluating: %w", err)
	}

	fmt.Printf("output:")
	for _, bit := range out {
		if bit {
			fmt.Printf(" 1")
		} else {
			fmt.Printf(" 0")
		}
	}
	fmt.Println()
	return nil
}

func runObjdump(args []string) error {
	fs := flag.NewFlagSet("objdump", flag.ExitOnError)
	in := fs.String("in", "", "gate list or garbled circuit file")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("objdump: -in is required")
	}

	if circ, err := loadSKCD(*in); err == nil {
		fmt.Printf("%-40s %s\n", *in, circ)
		circ.Dump(func(format string, a ...interface{}) {
			fmt.Printf(format, a...)
		})
		return nil
	}

	f, err := os.Open(*in)
	if err != nil {
		return err
	}
	defer f.Close()
	gc, err := garble.Decode(f)
	if err != nil {
		return fmt.Errorf("%s is neither a valid SKCD gate list nor a valid GarbledCircuit: %w", *in, err)
	}
	fmt.Printf("%-40s %s\n", *in, gc)
	return nil
}

func loadSKCD(file string) (*skcd.Circuit, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return skcd.Parse(f)
}
