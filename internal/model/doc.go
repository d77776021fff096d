// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory entity model of a DAQ deployment: the
// applications that make up a system, the module graph inside each application,
// and the network connections that join applications together.
//
// # Core Concepts
//
//   - System: The root container. It owns every App, the inter-application
//     connections keyed by their upstream endpoint, optional explicit network
//     addresses and an optional explicit application start order.
//
//   - App: One process of the deployment. It owns exactly one ModuleGraph and a
//     host placement string.
//
//   - ModuleGraph: The modules of one application, the endpoints that expose
//     module slots to the outside, and the fragment producers registered in it.
//
//   - Module: A named unit of work with an opaque configuration payload and a
//     mapping from output slot to Connection.
//
// Why ordered containers?
//
// Every compiled artifact (queue lists, module specs, start orders) is derived
// from this model, and the result must be byte-for-byte reproducible. Every
// container that influences emitted order is therefore an insertion-ordered
// sequence rather than a bare Go map.
//
// Identity rules are enforced at insertion time: fragment producers are unique
// per GeoID across the whole system, application names are unique, and module,
// connection and endpoint insertion overwrite (last write wins) unless the
// strict Declare variants are used.
package model
