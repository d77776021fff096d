// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"strings"
)

// Direction is the data direction of an Endpoint, seen from its application.
type Direction int

const (
	// In endpoints receive data from other applications.
	In Direction = iota
	// Out endpoints send data to other applications.
	Out
)

// String returns "in" or "out".
func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "in" or "out", case-insensitively.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "in":
		return In, nil
	case "out":
		return Out, nil
	default:
		return 0, fmt.Errorf("invalid endpoint direction %q: must be 'in' or 'out'", raw)
	}
}

// Endpoint exposes one module slot under an external name so other
// applications can address it without knowing the module.
type Endpoint struct {
	ExternalName string
	// Internal is the `module.slot` reference inside the application.
	Internal  string
	Direction Direction
}
