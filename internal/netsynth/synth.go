package netsynth

import (
	"context"
	"fmt"
	"strconv"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/slotid"
)

// Adapter describes one synthesized module.
type Adapter struct {
	App      string
	Module   string
	Plugin   string
	Upstream string
	Address  string
}

// uniqueName returns base when it is free in g, otherwise `<base>_<n>` with
// the lowest free n starting at 0.
func uniqueName(g *model.ModuleGraph, base string) string {
	if !g.HasModule(base) {
		return base
	}
	for n := 0; ; n++ {
		name := base + "_" + strconv.Itoa(n)
		if !g.HasModule(name) {
			return name
		}
	}
}

// crossesApps reports whether any end of nc lives outside the upstream app.
func crossesApps(upstream slotid.Address, nc model.NetworkConnection) (bool, error) {
	for _, d := range nc.Downstreams() {
		ref, err := slotid.Parse(d)
		if err != nil {
			return false, fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
		}
		if ref.Owner != upstream.Owner {
			return true, nil
		}
	}
	return false, nil
}

// Synthesize adds the adapter modules app needs for every system connection
// it takes part in. addrs must come from AllocateAddresses over the same
// System. Connections whose ends all live in one application are left alone.
func Synthesize(ctx context.Context, app *model.App, sys *model.System, addrs map[string]string) ([]Adapter, error) {
	logger := ctxlog.FromContext(ctx).With("app", app.Name)

	var adapters []Adapter
	for _, named := range sys.Connections() {
		up, err := slotid.Parse(named.Upstream)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
		}
		crosses, err := crossesApps(up, named.Connection)
		if err != nil {
			return nil, err
		}
		if !crosses {
			logger.Debug("Skipping intra-application connection.", "upstream", named.Upstream)
			continue
		}

		address, ok := addrs[named.Upstream]
		if !ok {
			return nil, fmt.Errorf("no address allocated for connection %s", named.Upstream)
		}

		if up.Owner == app.Name {
			a, err := outbound(app, named, up, address)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}

		for _, d := range named.Connection.Downstreams() {
			down := slotid.MustParse(d)
			if down.Owner != app.Name {
				continue
			}
			a, err := inbound(app, named, up, down, address)
			if err != nil {
				return nil, err
			}
			adapters = append(adapters, a)
		}
	}

	logger.Debug("Network adapters synthesized.", "adapters", len(adapters))
	return adapters, nil
}

// outbound creates the QueueToNetwork adapter and redirects the internal
// output slot to it.
func outbound(app *model.App, named model.NamedConnection, up slotid.Address, address string) (Adapter, error) {
	internal, err := app.Graph.ResolveEndpoint(up.Name, model.Out)
	if err != nil {
		return Adapter{}, fmt.Errorf("app %q, connection %s: %w", app.Name, named.Upstream, err)
	}
	src, ok := app.Graph.Module(internal.Owner)
	if !ok {
		return Adapter{}, fmt.Errorf("%w: app %q endpoint %q maps to missing module %q",
			model.ErrUnknownEndpoint, app.Name, up.Name, internal.Owner)
	}

	prev, connected := src.Connection(internal.Name)
	if connected {
		if target, err := prev.Target(); err == nil {
			if m, ok := app.Graph.Module(target.Owner); ok && m.Plugin == QueueToNetworkPlugin {
				return Adapter{}, fmt.Errorf("%w: app %q connection %s maps to %s, which already feeds %s",
					model.ErrConflictingQueueAssignment, app.Name, named.Upstream, internal, m.Name)
			}
		}
	}

	name := uniqueName(app.Graph, "qton_"+up.Flat())
	app.Graph.AddModule(model.NewModule(name, QueueToNetworkPlugin, senderConf(named.Connection, address)))

	redirect := model.NewConnection(slotid.New(name, AdapterInputSlot).String())
	if connected {
		redirect.Kind = prev.Kind
		redirect.Capacity = prev.Capacity
	}
	src.Disconnect(internal.Name)
	src.Connect(internal.Name, redirect)

	return Adapter{App: app.Name, Module: name, Plugin: QueueToNetworkPlugin, Upstream: named.Upstream, Address: address}, nil
}

// inbound creates the NetworkToQueue adapter feeding the internal input slot.
func inbound(app *model.App, named model.NamedConnection, up, down slotid.Address, address string) (Adapter, error) {
	internal, err := app.Graph.ResolveEndpoint(down.Name, model.In)
	if err != nil {
		return Adapter{}, fmt.Errorf("app %q, connection %s: %w", app.Name, named.Upstream, err)
	}
	if !app.Graph.HasModule(internal.Owner) {
		return Adapter{}, fmt.Errorf("%w: app %q endpoint %q maps to missing module %q",
			model.ErrUnknownEndpoint, app.Name, down.Name, internal.Owner)
	}

	name := uniqueName(app.Graph, "ntoq_"+up.Flat())
	adapter := model.NewModule(name, NetworkToQueuePlugin, receiverConf(named.Connection, address))
	adapter.Connect(AdapterOutputSlot, model.NewConnection(internal.String()))
	app.Graph.AddModule(adapter)

	return Adapter{App: app.Name, Module: name, Plugin: NetworkToQueuePlugin, Upstream: named.Upstream, Address: address}, nil
}
