// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "github.com/zclconf/go-cty/cty"

// Module is a named unit of work inside one application.
type Module struct {
	// Name is unique within the owning ModuleGraph.
	Name string
	// Plugin is the opaque plugin-type tag handed to the runtime.
	Plugin string
	// Conf is the opaque, pre-validated configuration payload.
	Conf cty.Value
	// ResumeParams, when non-null, overrides the broadcast resume payload
	// for this module.
	ResumeParams cty.Value

	connections *ordered[string, Connection]
}

// NewModule creates a module with no connections. A null conf becomes an
// empty object so every module emits a payload.
func NewModule(name, plugin string, conf cty.Value) *Module {
	if conf == cty.NilVal || conf.IsNull() {
		conf = cty.EmptyObjectVal
	}
	return &Module{
		Name:         name,
		Plugin:       plugin,
		Conf:         conf,
		ResumeParams: cty.NilVal,
		connections:  newOrdered[string, Connection](),
	}
}

// Connect attaches c to the output slot. An already-connected slot is
// overwritten: an output slot has a single owner.
func (m *Module) Connect(slot string, c Connection) {
	m.connections.set(slot, c)
}

// Disconnect removes the connection from the output slot, if any.
func (m *Module) Disconnect(slot string) {
	m.connections.delete(slot)
}

// Connection returns the connection on an output slot.
func (m *Module) Connection(slot string) (Connection, bool) {
	return m.connections.get(slot)
}

// Connections returns every output slot and its connection in insertion order.
func (m *Module) Connections() []SlotConnection {
	out := make([]SlotConnection, 0, m.connections.len())
	for _, slot := range m.connections.keys {
		out = append(out, SlotConnection{Slot: slot, Connection: m.connections.values[slot]})
	}
	return out
}

// HasResumeParams reports whether the module overrides the resume broadcast.
func (m *Module) HasResumeParams() bool {
	return m.ResumeParams != cty.NilVal && !m.ResumeParams.IsNull()
}

// clone returns a deep copy of the module's structure. Payloads are immutable
// cty values and are shared.
func (m *Module) clone() *Module {
	c := &Module{
		Name:         m.Name,
		Plugin:       m.Plugin,
		Conf:         m.Conf,
		ResumeParams: m.ResumeParams,
		connections:  newOrdered[string, Connection](),
	}
	for _, slot := range m.connections.keys {
		c.connections.set(slot, m.connections.values[slot])
	}
	return c
}
