//
// prf_test.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package prf

import (
	"crypto/rand"
	"testing"

	"github.com/halfgate/skcdgarble/label"
)

func randKey(t *testing.T) Key {
	t.Helper()
	var k Key
	if _, err := rand.Read(k[:]); err != nil {
		t.Fatal(err)
	}
	return k
}

func randBlock(t *testing.T) label.Block {
	t.Helper()
	b, err := label.New(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func testDeterministic(t *testing.T, p PRF) {
	key := randKey(t)
	a := randBlock(t)
	b := randBlock(t)

	got1 := p.Hash(key, 7, a, b)
	got2 := p.Hash(key, 7, a, b)
	if !got1.Equal(got2) {
		t.Fatalf("%s: Hash not deterministic: %s vs %s", p.Name(), got1, got2)
	}
}

func testTweakSeparates(t *testing.T, p PRF) {
	key := randKey(t)
	a := randBlock(t)
	b := randBlock(t)

	g0 := p.Hash(key, 0, a, b)
	g1 := p.Hash(key, 1, a, b)
	if g0.Equal(g1) {
		t.Fatalf("%s: Hash did not separate gate id 0 from 1", p.Name())
	}
}

func testInputSeparates(t *testing.T, p PRF) {
	key := randKey(t)
	a := randBlock(t)
	b1 := randBlock(t)
	b2 := randBlock(t)

	h1 := p.Hash(key, 3, a, b1)
	h2 := p.Hash(key, 3, a, b2)
	if h1.Equal(h2) {
		t.Fatalf("%s: Hash did not separate distinct b inputs", p.Name())
	}
}

func TestXXH3PRF(t *testing.T) {
	testDeterministic(t, XXH3PRF)
	testTweakSeparates(t, XXH3PRF)
	testInputSeparates(t, XXH3PRF)
	if XXH3PRF.Name() != "xxh3" {
		t.Fatalf("Name() = %q", XXH3PRF.Name())
	}
}

func TestAESPRF(t *testing.T) {
	testDeterministic(t, AESPRF)
	testTweakSeparates(t, AESPRF)
	if AESPRF.Name() != "aes" {
		t.Fatalf("Name() = %q", AESPRF.Name())
	}
}

func TestBlake2bPRF(t *testing.T) {
	testDeterministic(t, Blake2bPRF)
	testTweakSeparates(t, Blake2bPRF)
	testInputSeparates(t, Blake2bPRF)
	if Blake2bPRF.Name() != "blake2b" {
		t.Fatalf("Name() = %q", Blake2bPRF.Name())
	}
}

func TestAESSingleArgument(t *testing.T) {
	key := randKey(t)
	a := randBlock(t)

	h1 := AESPRF.Hash(key, 5, a, label.Block{})
	h2 := AESPRF.Hash(key, 5, a, label.Block{})
	if !h1.Equal(h2) {
		t.Fatal("aes PRF single-argument call is not deterministic")
	}
}

func TestByName(t *testing.T) {
	cases := []struct {
		name string
		want PRF
	}{
		{"xxh3", XXH3PRF},
		{"aes", AESPRF},
		{"blake2b", Blake2bPRF},
	}
	for _, c := range cases {
		got, err := ByName(c.name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", c.name, err)
		}
		if got.Name() != c.want.Name() {
			t.Fatalf("ByName(%q) = %s, want %s", c.name, got.Name(), c.want.Name())
		}
	}
	if _, err := ByName("nonexistent"); err == nil {
		t.Fatal("ByName accepted an unknown PRF name")
	}
}
