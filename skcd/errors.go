//
// errors.go
//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

package skcd

import "fmt"

// InvalidCircuitError reports a gate list violating the topological,
// wire-uniqueness, or id-range invariants of specification §3.
type InvalidCircuitError struct {
	Reason string
}

func (e *InvalidCircuitError) Error() string {
	return fmt.Sprintf("skcd: invalid circuit: %s", e.Reason)
}

// UnknownGateKindError reports a gate-kind code outside the 16-gate
// table.
type UnknownGateKindError struct {
	Kind GateKind
}

func (e *UnknownGateKindError) Error() string {
	return fmt.Sprintf("skcd: unknown gate kind %d", e.Kind)
}
