// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// App is one application (process) of the deployment.
type App struct {
	Name string
	// Host is the opaque placement string, resolved by the boot descriptor.
	Host string
	// Pausable marks applications with a running acquisition role. Only
	// these take part in the system pause/resume order.
	Pausable bool
	Graph    *ModuleGraph
}

// NewApp creates an App with an empty ModuleGraph.
func NewApp(name, host string) *App {
	return &App{Name: name, Host: host, Graph: NewModuleGraph()}
}

// HostAlias is the placeholder used for this app's host in network
// addresses and the boot descriptor's hosts table.
func (a *App) HostAlias() string {
	return "host_" + a.Name
}

// Clone returns a deep copy of the App.
func (a *App) Clone() *App {
	c := *a
	c.Graph = a.Graph.Clone()
	return &c
}
