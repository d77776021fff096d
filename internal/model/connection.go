// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "github.com/specialistvlad/daqconf/internal/slotid"

const (
	// DefaultQueueKind is the queue implementation used when a connection
	// does not name one.
	DefaultQueueKind = "FollySPSCQueue"
	// MPMCQueueKind is used once more than one connection shares a queue.
	MPMCQueueKind = "FollyMPMCQueue"
	// DefaultQueueCapacity is the queue depth used when a connection does not
	// name one.
	DefaultQueueCapacity = 1000
)

// Connection is one outgoing link from a module's output slot to a target
// `module.slot` inside the same application.
type Connection struct {
	// To is the target `module.slot` reference.
	To string
	// Kind is the queue implementation, e.g. FollySPSCQueue.
	Kind string
	// Capacity is the queue depth.
	Capacity int
	// QueueName overrides the canonical queue name when set.
	QueueName string
	// Toposort is false for connections that must not contribute to the
	// module start order, such as token return paths that would otherwise
	// form a cycle.
	Toposort bool
}

// NewConnection returns a toposort-eligible connection to the given target
// with the default queue kind and capacity.
func NewConnection(to string) Connection {
	return Connection{
		To:       to,
		Kind:     DefaultQueueKind,
		Capacity: DefaultQueueCapacity,
		Toposort: true,
	}
}

// Target parses the connection's target reference.
func (c Connection) Target() (slotid.Address, error) {
	return slotid.Parse(c.To)
}

// SlotConnection pairs an output slot with its connection.
type SlotConnection struct {
	Slot       string
	Connection Connection
}
