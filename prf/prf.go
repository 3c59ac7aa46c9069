//
// prf.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

// Package prf implements the keyed hash function used to tie garbled
// gate rows to their gate position: H(key, gate_id, a, b) -> label.Block.
//
// The specification requires only that garbler and evaluator agree on
// exactly the same function; it does not mandate a particular one. This
// package ships three interchangeable implementations behind the PRF
// interface, per the specification's open question about a pluggable
// PRF: a fast non-cryptographic mixer (the reference construction), an
// AES-based construction (the teacher's half-gate hash, reproduced
// faithfully), and a keyed BLAKE2b construction. The PRF key is always
// exactly label.Width bytes, matching the codec's fixed-size prf_key
// field (specification §4.6).
package prf

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"fmt"
	"hash"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/halfgate/skcdgarble/label"
)

// Key is the PRF key carried in a serialized circuit: exactly one label
// width, regardless of which PRF implementation interprets it.
type Key label.Data

// PRF is the interface garbling and evaluation depend on. A single
// implementation value is shared by every gate of a given circuit; it
// must be safe for concurrent read-only use (the data-parallel evaluator
// in package garble/parallel calls Hash from multiple goroutines).
type PRF interface {
	// Hash computes H(key, gateID, a, b). The same (key, gateID, a, b)
	// must always produce the same output, including across processes
	// and platforms.
	Hash(key Key, gateID uint32, a, b label.Block) label.Block

	// Name identifies the PRF for the codec's algorithm tag.
	Name() string
}

func tweakBytes(gateID uint32) [4]byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], gateID)
	return buf
}

// xxh3PRF is the default, non-cryptographic PRF named in specification
// §4.2: a fast mixing hash of key ‖ gate_id ‖ a ‖ b, expanded to the
// label width by hashing the input twice with distinct domain
// separation bytes to fill both 64 bit halves.
type xxh3PRF struct{}

// XXH3PRF is the reference fast-mixer PRF.
var XXH3PRF PRF = xxh3PRF{}

func (xxh3PRF) Name() string { return "xxh3" }

func (xxh3PRF) Hash(key Key, gateID uint32, a, b label.Block) label.Block {
	tw := tweakBytes(gateID)

	var ad, bd label.Data
	a.GetData(&ad)
	b.GetData(&bd)

	buf := make([]byte, 1+label.Width+len(tw)+len(ad)+len(bd))
	buf[0] = 0x00 // domain separator for the low word, flipped below
	n := 1
	n += copy(buf[n:], key[:])
	n += copy(buf[n:], tw[:])
	n += copy(buf[n:], ad[:])
	copy(buf[n:], bd[:])

	var out label.Block
	out.D0 = xxhash.Sum64(buf)
	buf[0] = 0x01
	out.D1 = xxhash.Sum64(buf)
	return out
}

// aesPRF is a cryptographic PRF built on the teacher's half-gate hash
// Hπ(x, i) = π(K) XOR K where K = 2x XOR i, using AES as the fixed-key
// permutation π. The half-gate construction (garble's garbleNonlinear
// and evalNonlinear) uses the PRF as a single-label hash and always
// passes the zero block as b; a nonzero b is hashed under a separate
// tweak and XORed into the result.
type aesPRF struct{}

// AESPRF is the AES-based cryptographic PRF alternative.
var AESPRF PRF = aesPRF{}

func (aesPRF) Name() string { return "aes" }

// aesCiphers caches the AES key schedule per key: a circuit's gates all
// share the same key, so redoing aes.NewCipher on every Hash call would
// repeat that setup once per gate. cipher.Block.Encrypt does not mutate
// shared state, so a single cached Block is safe for the concurrent
// Hash calls package garble/parallel makes.
var aesCiphers sync.Map // Key -> cipher.Block

func aesCipherFor(key Key) cipher.Block {
	if v, ok := aesCiphers.Load(key); ok {
		return v.(cipher.Block)
	}
	alg, err := aes.NewCipher(key[:])
	if err != nil {
		// Key is always label.Width (16) bytes, a valid AES-128 key;
		// a constructor error here is a programmer error.
		panic(fmt.Sprintf("prf: aes.NewCipher: %v", err))
	}
	actual, _ := aesCiphers.LoadOrStore(key, alg)
	return actual.(cipher.Block)
}

func (aesPRF) Hash(key Key, gateID uint32, a, b label.Block) label.Block {
	alg := aesCipherFor(key)
	out := aesHash(alg, gateID, a)
	if b != (label.Block{}) {
		out.Xor(aesHash(alg, gateID^0x5a5a5a5a, b))
	}
	return out
}

func aesHash(alg cipher.Block, gateID uint32, x label.Block) label.Block {
	k := mixHalf(x, gateID)

	var data label.Data
	k.GetData(&data)
	alg.Encrypt(data[:], data[:])

	var out label.Block
	out.SetData(&data)
	out.Xor(k)
	return out
}

// mixHalf computes K = 2x XOR tweak(i), the teacher's makeKHalf.
func mixHalf(x label.Block, gateID uint32) label.Block {
	x.D0 = (x.D0 << 1) | (x.D1 >> 63)
	x.D1 <<= 1
	x.D1 ^= uint64(gateID)
	return x
}

// blake2bPRF is a keyed BLAKE2b construction, offered as a second
// cryptographic alternative.
type blake2bPRF struct{}

// Blake2bPRF is the BLAKE2b-based cryptographic PRF alternative.
var Blake2bPRF PRF = blake2bPRF{}

func (blake2bPRF) Name() string { return "blake2b" }

// blake2bPools pools blake2b hash.Hash instances per key: constructing
// one runs BLAKE2b's key setup, an unnecessary repeat on every Hash call
// given a circuit's gates all share the same key. A hash.Hash mutates on
// Write/Sum, so unlike aesCiphers this needs a pool rather than a single
// shared instance; h.Reset() restores it to freshly-keyed state cheaply
// before it goes back in the pool.
var blake2bPools sync.Map // Key -> *sync.Pool

func blake2bPoolFor(key Key) *sync.Pool {
	if v, ok := blake2bPools.Load(key); ok {
		return v.(*sync.Pool)
	}
	pool := &sync.Pool{
		New: func() interface{} {
			h, err := blake2b.New(label.Width, key[:])
			if err != nil {
				panic(fmt.Sprintf("prf: blake2b.New: %v", err))
			}
			return h
		},
	}
	actual, _ := blake2bPools.LoadOrStore(key, pool)
	return actual.(*sync.Pool)
}

func (blake2bPRF) Hash(key Key, gateID uint32, a, b label.Block) label.Block {
	pool := blake2bPoolFor(key)
	h := pool.Get().(hash.Hash)
	defer func() {
		h.Reset()
		pool.Put(h)
	}()

	tw := tweakBytes(gateID)
	h.Write(tw[:])

	var ad, bd label.Data
	a.GetData(&ad)
	b.GetData(&bd)
	h.Write(ad[:])
	h.Write(bd[:])

	sum := h.Sum(nil)

	var out label.Block
	var data label.Data
	copy(data[:], sum)
	out.SetData(&data)
	return out
}

// ByName resolves a PRF implementation by the name reported by Name(),
// for use when decoding a serialized circuit's algorithm tag.
func ByName(name string) (PRF, error) {
	switch name {
	case "xxh3":
		return XXH3PRF, nil
	case "aes":
		return AESPRF, nil
	case "blake2b":
		return Blake2bPRF, nil
	default:
		return nil, fmt.Errorf("prf: unknown PRF %q", name)
	}
}
