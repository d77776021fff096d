// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"maps"
	"slices"

	"github.com/specialistvlad/daqconf/internal/slotid"
)

// System is the whole deployment: every application plus the network
// connections between them. It is built once per compilation, mutated in
// place by the fragment and network passes, and then only read.
type System struct {
	apps        *ordered[string, *App]
	connections *ordered[string, NetworkConnection]

	// NetworkEndpoints holds explicit transport addresses keyed by the
	// connection's upstream endpoint reference.
	NetworkEndpoints map[string]string
	// AppStartOrder, when non-empty, replaces the derived application order.
	AppStartOrder []string
	// RequiredConnections names upstream endpoint references that must be
	// present before compilation starts.
	RequiredConnections []string
}

// NewSystem creates an empty System.
func NewSystem() *System {
	return &System{
		apps:             newOrdered[string, *App](),
		connections:      newOrdered[string, NetworkConnection](),
		NetworkEndpoints: make(map[string]string),
	}
}

// AddApp registers app. Duplicate app names and fragment producer GeoIDs
// already registered by another app fail with ErrDuplicateKey.
func (s *System) AddApp(app *App) error {
	if _, exists := s.apps.get(app.Name); exists {
		return fmt.Errorf("%w: app %q", ErrDuplicateKey, app.Name)
	}
	for _, fp := range app.Graph.FragmentProducers() {
		if owner, ok := s.producerOwner(fp.GeoID); ok {
			return fmt.Errorf("%w: fragment producer for GeoID %s already registered by app %q",
				ErrDuplicateKey, fp.GeoID, owner)
		}
	}
	s.apps.set(app.Name, app)
	return nil
}

// App returns the named application.
func (s *System) App(name string) (*App, bool) {
	return s.apps.get(name)
}

// Apps returns all applications in insertion order.
func (s *System) Apps() []*App {
	return s.apps.valueList()
}

// AppNames returns all application names in insertion order.
func (s *System) AppNames() []string {
	return s.apps.keyList()
}

// AddFragmentProducer registers fp in the named app, enforcing GeoID
// uniqueness across the whole system.
func (s *System) AddFragmentProducer(appName string, fp *FragmentProducer) error {
	app, ok := s.apps.get(appName)
	if !ok {
		return fmt.Errorf("%w: app %q", ErrUnknownEndpoint, appName)
	}
	if owner, ok := s.producerOwner(fp.GeoID); ok {
		return fmt.Errorf("%w: fragment producer for GeoID %s already registered by app %q",
			ErrDuplicateKey, fp.GeoID, owner)
	}
	return app.Graph.AddFragmentProducer(fp)
}

// CheckProducers re-validates GeoID uniqueness across apps. Apps may be
// mutated after registration, so the compiler runs this before any pass.
func (s *System) CheckProducers() error {
	seen := make(map[GeoID]string)
	for _, app := range s.apps.valueList() {
		for _, fp := range app.Graph.FragmentProducers() {
			if owner, dup := seen[fp.GeoID]; dup {
				return fmt.Errorf("%w: fragment producer for GeoID %s registered by apps %q and %q",
					ErrDuplicateKey, fp.GeoID, owner, app.Name)
			}
			seen[fp.GeoID] = app.Name
		}
	}
	return nil
}

func (s *System) producerOwner(id GeoID) (string, bool) {
	for _, app := range s.apps.valueList() {
		if _, ok := app.Graph.FragmentProducer(id); ok {
			return app.Name, true
		}
	}
	return "", false
}

// Connect registers a system connection under its upstream `app.endpoint`
// reference. An existing connection from the same upstream is overwritten.
func (s *System) Connect(upstream string, nc NetworkConnection) error {
	if _, err := slotid.Parse(upstream); err != nil {
		return fmt.Errorf("%w: upstream %w", ErrUnknownEndpoint, err)
	}
	for _, down := range nc.Downstreams() {
		if _, err := slotid.Parse(down); err != nil {
			return fmt.Errorf("%w: downstream of %s: %w", ErrUnknownEndpoint, upstream, err)
		}
	}
	s.connections.set(upstream, nc)
	return nil
}

// Connection returns the system connection with the given upstream reference.
func (s *System) Connection(upstream string) (NetworkConnection, bool) {
	return s.connections.get(upstream)
}

// Connections returns all system connections in insertion order.
func (s *System) Connections() []NamedConnection {
	out := make([]NamedConnection, 0, s.connections.len())
	for _, up := range s.connections.keys {
		out = append(out, NamedConnection{Upstream: up, Connection: s.connections.values[up]})
	}
	return out
}

// Clone returns a deep copy of the System. Compilation works on a clone so
// the caller's input is never mutated.
func (s *System) Clone() *System {
	c := NewSystem()
	for _, app := range s.apps.valueList() {
		c.apps.set(app.Name, app.Clone())
	}
	for _, up := range s.connections.keys {
		nc := s.connections.values[up]
		if p, ok := nc.(Publisher); ok {
			p.Subscribers = slices.Clone(p.Subscribers)
			p.Topics = slices.Clone(p.Topics)
			nc = p
		}
		c.connections.set(up, nc)
	}
	c.NetworkEndpoints = maps.Clone(s.NetworkEndpoints)
	if c.NetworkEndpoints == nil {
		c.NetworkEndpoints = make(map[string]string)
	}
	c.AppStartOrder = slices.Clone(s.AppStartOrder)
	c.RequiredConnections = slices.Clone(s.RequiredConnections)
	return c
}
