package config

import (
	"context"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
)

// Build validates d and translates it into a model.System. Identity
// collisions surface as model.ErrDuplicateKey, references to unknown modules
// as model.ErrUnknownEndpoint.
func Build(ctx context.Context, d *Description) (*model.System, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting system construction.", "apps", len(d.Apps), "connections", len(d.Connections))

	if err := Validate(d); err != nil {
		return nil, err
	}

	sys := model.NewSystem()
	sys.RequiredConnections = append([]string(nil), d.System.RequiredConnections...)
	sys.AppStartOrder = append([]string(nil), d.System.StartOrder...)

	logger.Debug("Build: Pass 1 - Creating applications.")
	for i := range d.Apps {
		app, err := buildApp(&d.Apps[i])
		if err != nil {
			return nil, fmt.Errorf("app %q: %w", d.Apps[i].Name, err)
		}
		if err := sys.AddApp(app); err != nil {
			return nil, err
		}
	}

	logger.Debug("Build: Pass 2 - Registering system connections.")
	for _, cs := range d.Connections {
		nc, err := buildConnection(cs)
		if err != nil {
			return nil, err
		}
		if _, exists := sys.Connection(cs.From); exists {
			return nil, fmt.Errorf("%w: connection from %s declared twice", model.ErrDuplicateKey, cs.From)
		}
		if err := sys.Connect(cs.From, nc); err != nil {
			return nil, err
		}
		if cs.Address != "" {
			sys.NetworkEndpoints[cs.From] = cs.Address
		}
	}

	logger.Debug("Build: System construction complete.", "apps", len(sys.AppNames()), "connections", len(sys.Connections()))
	return sys, nil
}

func buildApp(spec *AppSpec) (*model.App, error) {
	app := model.NewApp(spec.Name, spec.Host)
	app.Pausable = spec.Pausable

	for _, ms := range spec.Modules {
		if app.Graph.HasModule(ms.Name) {
			return nil, fmt.Errorf("%w: module %q", model.ErrDuplicateKey, ms.Name)
		}
		m := model.NewModule(ms.Name, ms.Plugin, ms.Conf)
		m.ResumeParams = ms.ResumeParams
		app.Graph.AddModule(m)
	}

	for _, ms := range spec.Modules {
		for _, cs := range ms.Connections {
			c := model.NewConnection(cs.To)
			if cs.Kind != "" {
				c.Kind = cs.Kind
			}
			if cs.Capacity > 0 {
				c.Capacity = cs.Capacity
			}
			c.QueueName = cs.QueueName
			c.Toposort = !cs.NonDependency
			if err := app.Graph.AddConnection(ms.Name+"."+cs.Slot, c); err != nil {
				return nil, err
			}
		}
	}

	for _, es := range spec.Endpoints {
		dir, err := model.ParseDirection(es.Direction)
		if err != nil {
			return nil, err
		}
		if err := app.Graph.DeclareEndpoint(model.Endpoint{ExternalName: es.Name, Internal: es.Internal, Direction: dir}); err != nil {
			return nil, err
		}
	}

	for _, ps := range spec.Producers {
		if err := app.Graph.AddFragmentProducer(&model.FragmentProducer{
			GeoID:        model.GeoID{SystemType: ps.SystemType, Region: ps.Region, Element: ps.Element},
			RequestsIn:   ps.RequestsIn,
			FragmentsOut: ps.FragmentsOut,
			QueueName:    ps.QueueName,
		}); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func buildConnection(cs ConnectionSpec) (model.NetworkConnection, error) {
	msg := model.MessageInfo{MsgType: cs.MsgType, MsgModuleName: cs.MsgModuleName}
	switch cs.Type {
	case SenderType:
		if len(cs.To) != 1 {
			return nil, fmt.Errorf("%w: sender %s must have exactly one receiver, got %d",
				ErrInvalidDescription, cs.From, len(cs.To))
		}
		return model.Sender{MessageInfo: msg, Receiver: cs.To[0], NonDependency: cs.NonDependency}, nil
	case PublisherType:
		return model.Publisher{
			MessageInfo:   msg,
			Subscribers:   append([]string(nil), cs.To...),
			Topics:        append([]string(nil), cs.Topics...),
			NonDependency: cs.NonDependency,
		}, nil
	default:
		return nil, fmt.Errorf("%w: connection %s has unknown type %q", ErrInvalidDescription, cs.From, cs.Type)
	}
}
