package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/specialistvlad/daqconf/internal/commands"
	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/fragments"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/netsynth"
	"github.com/specialistvlad/daqconf/internal/resolver"
)

// Options groups the options of every pass.
type Options struct {
	Aggregator fragments.Aggregator
	Network    netsynth.Options
	Commands   commands.Options
}

// DefaultOptions returns the defaults of every pass.
func DefaultOptions() Options {
	return Options{
		Aggregator: fragments.DefaultAggregator(),
		Network:    netsynth.DefaultOptions(),
		Commands:   commands.DefaultOptions(),
	}
}

// Plan is the complete output of one compilation.
type Plan struct {
	// Apps holds the command set of every application in insertion order.
	Apps []*commands.AppCommands
	// AppOrder is the application start order.
	AppOrder []string
	// System holds one system descriptor per verb.
	System []commands.SystemCommand
	Boot   *commands.Boot
	// Routes maps each fragment producer to its queue, sorted by GeoID.
	Routes []fragments.Route
	// Addresses maps each system connection to its transport address.
	Addresses map[string]string
	// Adapters lists every synthesized network adapter.
	Adapters []netsynth.Adapter
	// Warnings are non-fatal findings such as dangling endpoints.
	Warnings []error
	// Compiled is the System after all passes ran.
	Compiled *model.System
}

// App returns the command set of the named application.
func (p *Plan) App(name string) (*commands.AppCommands, bool) {
	for _, ac := range p.Apps {
		if ac.App == name {
			return ac, true
		}
	}
	return nil, false
}

// CheckRequired fails with model.ErrRequiredConnectionMissing when a
// connection named in System.RequiredConnections is absent. Compile runs it
// after the fragment pass, so the request and fragment connections that pass
// adds may be required too.
func CheckRequired(sys *model.System) error {
	for _, up := range sys.RequiredConnections {
		if _, ok := sys.Connection(up); !ok {
			return fmt.Errorf("%w: %s", model.ErrRequiredConnectionMissing, up)
		}
	}
	return nil
}

// Compile runs every pass over a clone of in. The input is never modified.
func Compile(ctx context.Context, in *model.System, opts Options) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	started := time.Now()
	logger.Debug("Compile: Starting.", "apps", len(in.AppNames()), "connections", len(in.Connections()))

	sys := in.Clone()

	logger.Debug("Compile: Pass 1 - Checking fragment producers.")
	if err := sys.CheckProducers(); err != nil {
		return nil, err
	}

	logger.Debug("Compile: Pass 2 - Connecting fragment producers.")
	routes, err := fragments.Connect(ctx, sys, opts.Aggregator)
	if err != nil {
		return nil, fmt.Errorf("fragment producers: %w", err)
	}
	if err := CheckRequired(sys); err != nil {
		return nil, err
	}

	logger.Debug("Compile: Pass 3 - Synthesizing network adapters.")
	addrs, err := netsynth.AllocateAddresses(ctx, sys, opts.Network)
	if err != nil {
		return nil, fmt.Errorf("network addresses: %w", err)
	}
	var adapters []netsynth.Adapter
	for _, app := range sys.Apps() {
		a, err := netsynth.Synthesize(ctx, app, sys, addrs)
		if err != nil {
			return nil, fmt.Errorf("network synthesis: %w", err)
		}
		adapters = append(adapters, a...)
	}

	logger.Debug("Compile: Pass 4 - Verifying endpoint closure.")
	var warnings []error
	for _, app := range sys.Apps() {
		w, err := netsynth.VerifyClosure(ctx, app, sys)
		if err != nil {
			return nil, fmt.Errorf("endpoint closure: %w", err)
		}
		warnings = append(warnings, w...)
	}

	logger.Debug("Compile: Pass 5 - Resolving application order.")
	appOrder, err := resolver.AppStartOrder(ctx, sys)
	if err != nil {
		return nil, err
	}

	logger.Debug("Compile: Pass 6 - Assembling commands.")
	plan := &Plan{
		AppOrder:  appOrder,
		Routes:    routes,
		Addresses: addrs,
		Adapters:  adapters,
		Warnings:  warnings,
		Compiled:  sys,
	}
	for _, app := range sys.Apps() {
		ac, err := commands.AssembleApp(ctx, app, opts.Commands)
		if err != nil {
			return nil, err
		}
		plan.Apps = append(plan.Apps, ac)
	}
	plan.System = commands.AssembleSystem(ctx, sys, appOrder, opts.Commands)
	plan.Boot = commands.AssembleBoot(sys, opts.Commands)

	logger.Info("Compilation complete.",
		"apps", len(plan.Apps),
		"connections", len(addrs),
		"adapters", len(adapters),
		"warnings", len(warnings),
		"duration", time.Since(started),
	)
	return plan, nil
}
