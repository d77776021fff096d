// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"

	"github.com/specialistvlad/daqconf/internal/slotid"
)

// ModuleGraph holds the modules, endpoints and fragment producers of one
// application. It is exclusively owned by its App.
type ModuleGraph struct {
	modules   *ordered[string, *Module]
	endpoints *ordered[string, Endpoint]
	producers *ordered[GeoID, *FragmentProducer]
}

// NewModuleGraph creates an empty ModuleGraph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		modules:   newOrdered[string, *Module](),
		endpoints: newOrdered[string, Endpoint](),
		producers: newOrdered[GeoID, *FragmentProducer](),
	}
}

// AddModule inserts m. A module with the same name is overwritten in place,
// keeping its original position in the insertion order.
func (g *ModuleGraph) AddModule(m *Module) {
	g.modules.set(m.Name, m)
}

// Module returns the named module.
func (g *ModuleGraph) Module(name string) (*Module, bool) {
	return g.modules.get(name)
}

// HasModule reports whether the named module exists.
func (g *ModuleGraph) HasModule(name string) bool {
	_, ok := g.modules.get(name)
	return ok
}

// Modules returns all modules in insertion order.
func (g *ModuleGraph) Modules() []*Module {
	return g.modules.valueList()
}

// ModuleNames returns all module names in insertion order.
func (g *ModuleGraph) ModuleNames() []string {
	return g.modules.keyList()
}

// AddConnection connects the `module.slot` output reference `from` with c.
// The source module must exist; an already-connected slot is overwritten.
func (g *ModuleGraph) AddConnection(from string, c Connection) error {
	addr, err := slotid.Parse(from)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnknownEndpoint, err)
	}
	m, ok := g.modules.get(addr.Owner)
	if !ok {
		return fmt.Errorf("%w: connection source module %q not found", ErrUnknownEndpoint, addr.Owner)
	}
	m.Connect(addr.Name, c)
	return nil
}

// AddEndpoint registers ep under its external name. An existing endpoint with
// the same name is overwritten.
func (g *ModuleGraph) AddEndpoint(ep Endpoint) {
	g.endpoints.set(ep.ExternalName, ep)
}

// DeclareEndpoint is the strict form of AddEndpoint. Re-declaring an
// identical endpoint is a no-op; a different mapping under the same external
// name fails with ErrDuplicateKey.
func (g *ModuleGraph) DeclareEndpoint(ep Endpoint) error {
	if existing, ok := g.endpoints.get(ep.ExternalName); ok {
		if existing == ep {
			return nil
		}
		return fmt.Errorf("%w: endpoint %q already maps to %s (%s)",
			ErrDuplicateKey, ep.ExternalName, existing.Internal, existing.Direction)
	}
	g.endpoints.set(ep.ExternalName, ep)
	return nil
}

// Endpoint returns the endpoint with the given external name.
func (g *ModuleGraph) Endpoint(name string) (Endpoint, bool) {
	return g.endpoints.get(name)
}

// Endpoints returns all endpoints in insertion order.
func (g *ModuleGraph) Endpoints() []Endpoint {
	return g.endpoints.valueList()
}

// ResolveEndpoint maps an external endpoint name to its internal module slot,
// checking that the endpoint has the expected direction.
func (g *ModuleGraph) ResolveEndpoint(name string, dir Direction) (slotid.Address, error) {
	ep, ok := g.endpoints.get(name)
	if !ok {
		return slotid.Address{}, fmt.Errorf("%w: %q", ErrUnknownEndpoint, name)
	}
	if ep.Direction != dir {
		return slotid.Address{}, fmt.Errorf("%w: endpoint %q is %s, expected %s",
			ErrDirectionMismatch, name, ep.Direction, dir)
	}
	addr, err := slotid.Parse(ep.Internal)
	if err != nil {
		return slotid.Address{}, fmt.Errorf("%w: endpoint %q: %w", ErrUnknownEndpoint, name, err)
	}
	return addr, nil
}

// AddFragmentProducer registers fp. A second producer for the same GeoID
// fails with ErrDuplicateKey.
func (g *ModuleGraph) AddFragmentProducer(fp *FragmentProducer) error {
	if _, exists := g.producers.get(fp.GeoID); exists {
		return fmt.Errorf("%w: fragment producer for GeoID %s", ErrDuplicateKey, fp.GeoID)
	}
	g.producers.set(fp.GeoID, fp)
	return nil
}

// FragmentProducer returns the producer registered for id.
func (g *ModuleGraph) FragmentProducer(id GeoID) (*FragmentProducer, bool) {
	return g.producers.get(id)
}

// FragmentProducers returns all producers in insertion order.
func (g *ModuleGraph) FragmentProducers() []*FragmentProducer {
	return g.producers.valueList()
}

// Clone returns a deep copy of the graph so a compilation can own its input.
func (g *ModuleGraph) Clone() *ModuleGraph {
	c := NewModuleGraph()
	for _, m := range g.modules.valueList() {
		c.modules.set(m.Name, m.clone())
	}
	for _, ep := range g.endpoints.valueList() {
		c.endpoints.set(ep.ExternalName, ep)
	}
	for _, fp := range g.producers.valueList() {
		cp := *fp
		c.producers.set(cp.GeoID, &cp)
	}
	return c
}
