//
// wiretable_test.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.

package garble

import "testing"

func TestWireTableSetGet(t *testing.T) {
	tbl := NewWireTable[int](4)
	if err := tbl.Set(2, 42); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := tbl.Get(2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
	if !tbl.IsSet(2) {
		t.Fatal("IsSet(2) = false after Set")
	}
	if tbl.IsSet(3) {
		t.Fatal("IsSet(3) = true before Set")
	}
}

func TestWireTableWrittenTwice(t *testing.T) {
	tbl := NewWireTable[int](4)
	if err := tbl.Set(0, 1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	err := tbl.Set(0, 2)
	if _, ok := err.(*WireWrittenTwiceError); !ok {
		t.Fatalf("got %T, want *WireWrittenTwiceError", err)
	}
}

func TestWireTableNotWritten(t *testing.T) {
	tbl := NewWireTable[int](4)
	_, err := tbl.Get(1)
	if _, ok := err.(*WireNotWrittenError); !ok {
		t.Fatalf("got %T, want *WireNotWrittenError", err)
	}
}

// TestWireTableOutOfRange pins Set and Get on a wire id beyond the
// table's size to WireOutOfRangeError, distinct from
// WireWrittenTwiceError and WireNotWrittenError: an out-of-range access
// only follows a Circuit that skipped Validate, not a double write or a
// read racing ahead of a write.
func TestWireTableOutOfRange(t *testing.T) {
	tbl := NewWireTable[int](4)
	if err := tbl.Set(10, 1); err == nil {
		t.Fatal("expected an error for an out-of-range Set")
	} else if _, ok := err.(*WireOutOfRangeError); !ok {
		t.Fatalf("Set: got %T, want *WireOutOfRangeError", err)
	}

	if _, err := tbl.Get(10); err == nil {
		t.Fatal("expected an error for an out-of-range Get")
	} else if _, ok := err.(*WireOutOfRangeError); !ok {
		t.Fatalf("Get: got %T, want *WireOutOfRangeError", err)
	}

	if tbl.IsSet(10) {
		t.Fatal("IsSet(10) = true for an out-of-range wire")
	}
}
