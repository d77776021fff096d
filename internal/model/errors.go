// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "errors"

// Sentinel errors shared by every compilation pass. Callers wrap them with
// context using fmt.Errorf("...: %w", err) and match them with errors.Is.
var (
	// ErrDuplicateKey reports a GeoID, app or endpoint identity collision.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnknownEndpoint reports a reference to an endpoint, module or app
	// that does not exist.
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrDirectionMismatch reports an endpoint resolved with the wrong direction.
	ErrDirectionMismatch = errors.New("endpoint direction mismatch")
	// ErrCyclicDependency reports a start-order cycle that no non-dependency
	// connection breaks.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrConflictingQueueAssignment reports a module slot bound to two queues.
	ErrConflictingQueueAssignment = errors.New("conflicting queue assignment")
	// ErrDanglingEndpoint marks an endpoint no system connection resolves.
	// It is only ever surfaced as a warning.
	ErrDanglingEndpoint = errors.New("dangling endpoint")
	// ErrRequiredConnectionMissing reports a named system connection that a
	// component depends on but that is absent from the input.
	ErrRequiredConnectionMissing = errors.New("required connection missing")
)
