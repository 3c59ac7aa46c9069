//
// label.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

// Package label implements the fixed-width wire labels carried by a
// garbled circuit: the BlockLabel of the specification. A label is an
// opaque 128 bit block with XOR, equality, and a designated select bit
// used for point-and-permute row selection.
package label

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Width is the label width in bytes. 128 bits is the reference width.
const Width = 16

// Data holds a label's raw bytes.
type Data [Width]byte

// Block is a 128 bit wire label. The zero value is the all-zero label.
type Block struct {
	D0 uint64
	D1 uint64
}

// String renders the label as hex.
func (b Block) String() string {
	return fmt.Sprintf("%016x%016x", b.D0, b.D1)
}

// Equal reports whether the two labels are identical.
func (b Block) Equal(o Block) bool {
	return b.D0 == o.D0 && b.D1 == o.D1
}

// New draws a uniformly random label from rand.
func New(rand io.Reader) (Block, error) {
	var data Data
	var b Block

	if _, err := io.ReadFull(rand, data[:]); err != nil {
		return b, err
	}
	b.SetData(&data)
	return b, nil
}

// S tests the label's select bit. The select bit is the
// least-significant bit of the label, per the specification's stated
// convention.
func (b Block) S() bool {
	return b.D1&0x1 != 0
}

// SetS sets the label's select bit.
func (b *Block) SetS(set bool) {
	if set {
		b.D1 |= 0x1
	} else {
		b.D1 &^= 0x1
	}
}

// Xor xors the label with o in place.
func (b *Block) Xor(o Block) {
	b.D0 ^= o.D0
	b.D1 ^= o.D1
}

// Xored returns the XOR of b and o without modifying either.
func (b Block) Xored(o Block) Block {
	b.Xor(o)
	return b
}

// GetData writes the label into buf in a fixed little-endian layout.
func (b Block) GetData(buf *Data) {
	binary.LittleEndian.PutUint64(buf[0:8], b.D0)
	binary.LittleEndian.PutUint64(buf[8:16], b.D1)
}

// SetData sets the label from buf.
func (b *Block) SetData(buf *Data) {
	b.D0 = binary.LittleEndian.Uint64(buf[0:8])
	b.D1 = binary.LittleEndian.Uint64(buf[8:16])
}

// Bytes returns the label's bytes, using buf as scratch space.
func (b Block) Bytes(buf *Data) []byte {
	b.GetData(buf)
	return buf[:]
}

// SetBytes sets the label from a byte slice of length Width.
func (b *Block) SetBytes(data []byte) error {
	if len(data) != Width {
		return fmt.Errorf("label: invalid byte length %d, want %d",
			len(data), Width)
	}
	b.D0 = binary.LittleEndian.Uint64(data[0:8])
	b.D1 = binary.LittleEndian.Uint64(data[8:16])
	return nil
}

// Pair holds the two labels of a wire: the zero-label and the
// one-label, related by the garbler's global offset Δ.
type Pair struct {
	Zero Block
	One  Block
}

// String renders the pair as "zero/one".
func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Zero, p.One)
}

// ForBit returns the label corresponding to the given boolean value.
func (p Pair) ForBit(bit bool) Block {
	if bit {
		return p.One
	}
	return p.Zero
}

// BitFromLabel resolves a concrete label back into the boolean value it
// represents for this wire, or an error if the label matches neither of
// the pair's two labels.
func (p Pair) BitFromLabel(l Block) (bool, error) {
	switch {
	case l.Equal(p.Zero):
		return false, nil
	case l.Equal(p.One):
		return true, nil
	default:
		return false, fmt.Errorf("label: %s is not a label of wire pair %s",
			l, p)
	}
}

// NewPair draws a new zero-label uniformly at random and derives the
// one-label as zero XOR delta.
func NewPair(rand io.Reader, delta Block) (Pair, error) {
	zero, err := New(rand)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Zero: zero,
		One:  zero.Xored(delta),
	}, nil
}
