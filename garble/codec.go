//
// codec.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"

	"github.com/halfgate/skcdgarble/label"
	"github.com/halfgate/skcdgarble/prf"
	"github.com/halfgate/skcdgarble/skcd"
)

// codecMagic identifies the serialized GarbledCircuit format.
const codecMagic = 0x67636472 // "gcdr"

// codecVersion is the only version this package understands. Bumping it
// is how a future garbled-row-reduction optimization (specification §9)
// would be introduced without breaking old decoders: they would reject
// the new version instead of silently misreading rows.
const codecVersion = 1

// maxCount bounds any single length-prefixed section Decode will
// attempt to allocate for, so a corrupted count field is reported as
// CorruptCircuit instead of an out-of-memory panic.
const maxCount = 1 << 24

// maxEncodedSize bounds the total bytes Decode will read for a single
// stream, derived from maxCount gates at a generous worst-case per-gate
// size (kind + 3 wire ids + two ciphertext blocks). Decode needs the
// whole stream in memory up front to verify the trailing checksum
// before trusting any header field, so this bound is what keeps an
// unbounded or adversarially large reader from being read to
// completion (and exhausting memory) before that check ever runs.
const maxEncodedSize = 1 << 31

// Encode writes gc in the deterministic binary layout of specification
// §4.6: for a given (gate list, garbler randomness), Encode always
// produces the same bytes. The one field the base layout does not
// anticipate is the PRF algorithm tag (specification §9's pluggable-PRF
// open question); it is carried as a length-prefixed string immediately
// after block_width_bits, before prf_key, so the base layout's offsets
// past that point are otherwise exactly as specified. The payload is
// trailed by an 8 byte xxhash64 checksum so Decode can reject any
// single-byte corruption -- including inside a gate's C0/C1 ciphertext,
// which has no other structural check to catch a flipped bit -- rather
// than only the corruption that happens to land on a magic, version, or
// count field.
func Encode(out io.Writer, gc *GarbledCircuit) error {
	digest := xxhash.New()
	w := bufio.NewWriter(out)
	if err := encodePayload(io.MultiWriter(digest, w), gc); err != nil {
		return err
	}
	if err := writeUint64(w, digest.Sum64()); err != nil {
		return err
	}
	return w.Flush()
}

func encodePayload(w io.Writer, gc *GarbledCircuit) error {
	if err := writeUint32(w, codecMagic); err != nil {
		return err
	}
	if err := writeUint16(w, codecVersion); err != nil {
		return err
	}
	if err := writeUint16(w, uint16(label.Width*8)); err != nil {
		return err
	}
	if err := writeString(w, gc.PRFName); err != nil {
		return err
	}
	if _, err := w.Write(gc.PRFKey[:]); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(gc.Inputs))); err != nil {
		return err
	}
	for _, wid := range gc.Inputs {
		if err := writeUint32(w, wid); err != nil {
			return err
		}
	}

	if err := writeUint32(w, uint32(len(gc.Outputs))); err != nil {
		return err
	}
	for _, wid := range gc.Outputs {
		if err := writeUint32(w, wid); err != nil {
			return err
		}
	}

	if _, err := w.Write(packBits(gc.DecodeBits)); err != nil {
		return err
	}

	if err := writeUint32(w, uint32(len(gc.Gates))); err != nil {
		return err
	}
	for _, g := range gc.Gates {
		if err := writeByte(w, byte(g.Kind)); err != nil {
			return err
		}
		for _, v := range []uint32{g.Out, g.In0, g.In1} {
			if err := writeUint32(w, v); err != nil {
				return err
			}
		}
		if !g.Kind.IsLinear() {
			var buf label.Data
			if _, err := w.Write(g.C0.Bytes(&buf)); err != nil {
				return err
			}
			if _, err := w.Write(g.C1.Bytes(&buf)); err != nil {
				return err
			}
		}
	}

	return nil
}

// Decode reads a GarbledCircuit written by Encode. It first verifies
// the trailing xxhash64 checksum over the whole payload, so any
// single-byte corruption anywhere in the stream -- including inside a
// gate's ciphertext, which no structural field check alone would catch
// -- is reported as CorruptCircuitError before any field is parsed.
func Decode(in io.Reader) (*GarbledCircuit, error) {
	all, err := io.ReadAll(io.LimitReader(in, maxEncodedSize+1))
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: " + err.Error()}
	}
	if len(all) > maxEncodedSize {
		return nil, &CorruptCircuitError{Reason: "implausible encoded size"}
	}
	if len(all) < 8 {
		return nil, &CorruptCircuitError{Reason: "short read: checksum"}
	}
	payload, checksumBytes := all[:len(all)-8], all[len(all)-8:]
	if xxhash.Sum64(payload) != binary.BigEndian.Uint64(checksumBytes) {
		return nil, &CorruptCircuitError{Reason: "checksum mismatch"}
	}

	r := bufio.NewReader(bytes.NewReader(payload))

	magic, err := readUint32(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: magic"}
	}
	if magic != codecMagic {
		return nil, &CorruptCircuitError{Reason: fmt.Sprintf("bad magic %#x", magic)}
	}

	version, err := readUint16(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: version"}
	}
	if version != codecVersion {
		return nil, &CorruptCircuitError{Reason: fmt.Sprintf("unsupported version %d", version)}
	}

	widthBits, err := readUint16(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: block width"}
	}
	if widthBits != label.Width*8 {
		return nil, &CorruptCircuitError{
			Reason: fmt.Sprintf("unsupported block width %d bits", widthBits),
		}
	}

	prfName, err := readString(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: prf name"}
	}
	prfImpl, err := prf.ByName(prfName)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: err.Error()}
	}

	var keyData label.Data
	if _, err := io.ReadFull(r, keyData[:]); err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: prf key"}
	}

	numInputs, err := readUint32(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: num inputs"}
	}
	if numInputs > maxCount {
		return nil, &CorruptCircuitError{Reason: "implausible input wire count"}
	}
	inputs, err := readWireIDs(r, numInputs)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: input wire ids"}
	}
	if err := checkWireIDs(inputs); err != nil {
		return nil, err
	}

	numOutputs, err := readUint32(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: num outputs"}
	}
	if numOutputs > maxCount {
		return nil, &CorruptCircuitError{Reason: "implausible output wire count"}
	}
	outputs, err := readWireIDs(r, numOutputs)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: output wire ids"}
	}
	if err := checkWireIDs(outputs); err != nil {
		return nil, err
	}

	decodeBytes := make([]byte, (numOutputs+7)/8)
	if _, err := io.ReadFull(r, decodeBytes); err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: decode bits"}
	}
	decodeBits := make([]bool, numOutputs)
	for i := range decodeBits {
		decodeBits[i] = decodeBytes[i/8]&(1<<uint(i%8)) != 0
	}

	numGates, err := readUint32(r)
	if err != nil {
		return nil, &CorruptCircuitError{Reason: "short read: num gates"}
	}
	if numGates > maxCount {
		return nil, &CorruptCircuitError{Reason: "implausible gate count"}
	}

	gates := make([]GarbledGate, numGates)
	numWires := 0
	for i := range gates {
		kindByte, err := r.ReadByte()
		if err != nil {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d kind", i)}
		}
		kind := skcd.GateKind(kindByte)
		if !kind.Valid() {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("gate %d: unknown kind %d", i, kindByte)}
		}

		out, err := readUint32(r)
		if err != nil {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d out", i)}
		}
		in0, err := readUint32(r)
		if err != nil {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d a", i)}
		}
		in1, err := readUint32(r)
		if err != nil {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d b", i)}
		}
		if out > maxCount || in0 > maxCount || in1 > maxCount {
			return nil, &CorruptCircuitError{Reason: fmt.Sprintf("gate %d: implausible wire id", i)}
		}

		g := GarbledGate{Kind: kind, In0: in0, In1: in1, Out: out}
		if !kind.IsLinear() {
			var buf label.Data
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d C0", i)}
			}
			g.C0.SetData(&buf)
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return nil, &CorruptCircuitError{Reason: fmt.Sprintf("short read: gate %d C1", i)}
			}
			g.C1.SetData(&buf)
		}
		gates[i] = g
		if int(out)+1 > numWires {
			numWires = int(out) + 1
		}
	}
	for _, w := range inputs {
		if int(w)+1 > numWires {
			numWires = int(w) + 1
		}
	}

	return &GarbledCircuit{
		NumWires:   numWires,
		Inputs:     inputs,
		Outputs:    outputs,
		DecodeBits: decodeBits,
		Gates:      gates,
		PRFName:    prfImpl.Name(),
		PRFKey:     prf.Key(keyData),
	}, nil
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// checkWireIDs rejects any wire id large enough to inflate NumWires
// (and the WireTable allocation every Garble/Evaluate call sizes from
// it) past maxCount, the same bound placed on every count field.
func checkWireIDs(ids []uint32) error {
	for _, id := range ids {
		if id > maxCount {
			return &CorruptCircuitError{Reason: "implausible wire id"}
		}
	}
	return nil
}

func readWireIDs(r io.Reader, n uint32) ([]uint32, error) {
	ids := make([]uint32, n)
	for i := range ids {
		v, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		ids[i] = v
	}
	return ids, nil
}

func writeString(w io.Writer, s string) error {
	if err := writeUint16(w, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// packBits packs bits LSB-first into ceil(len(bits)/8) bytes.
func packBits(bits []bool) []byte {
	buf := make([]byte, (len(bits)+7)/8)
	for i, b := range bits {
		if b {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}
