// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gui Benedito

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// A user id below zero is always a caller mistake; a missing backend is
// reported later by the store so the CLI can print usage help first.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.UserID < 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
