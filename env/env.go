//
// Copyright (c) 2024-2026 skcdgarble Authors
//
// All rights reserved.
//

// Package env holds the caller-injected configuration cmd/skcdgarble
// hands to garble.Garble: the RNG used to draw Δ, the PRF key, and
// every input label, plus the PRF itself. There is no other
// process-wide state.
package env

import (
	"crypto/rand"
	"io"

	"github.com/halfgate/skcdgarble/prf"
)

// Config must not be modified after its values are passed to Garble; it
// is safe for concurrent read-only use.
type Config struct {
	Rand io.Reader
	PRF  prf.PRF
}

// GetRandom returns the configured entropy source, defaulting to
// crypto/rand.Reader when none was supplied.
func (config *Config) GetRandom() io.Reader {
	if config.Rand != nil {
		return config.Rand
	}
	return rand.Reader
}

// GetPRF returns the configured PRF, defaulting to prf.XXH3PRF.
func (config *Config) GetPRF() prf.PRF {
	if config.PRF != nil {
		return config.PRF
	}
	return prf.XXH3PRF
}
