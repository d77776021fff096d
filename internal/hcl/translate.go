package hcl

import (
	"fmt"

	"github.com/specialistvlad/daqconf/internal/config"
)

// translate converts the decoded blocks of one file into a Description.
func translate(root *fileRoot) (*config.Description, error) {
	d := &config.Description{}

	if len(root.Systems) > 1 {
		return nil, fmt.Errorf("at most one system block is allowed per file, found %d", len(root.Systems))
	}
	for _, s := range root.Systems {
		d.System = config.SystemSpec{
			RequiredConnections: s.RequiredConnections,
			StartOrder:          s.StartOrder,
		}
	}

	for _, a := range root.Apps {
		d.Apps = append(d.Apps, translateApp(a))
	}

	for _, c := range root.Connections {
		typ := c.Type
		if typ == "" {
			typ = config.SenderType
		}
		d.Connections = append(d.Connections, config.ConnectionSpec{
			From:          c.From,
			Type:          typ,
			To:            c.To,
			Topics:        c.Topics,
			MsgType:       c.MsgType,
			MsgModuleName: c.MsgModuleName,
			Address:       c.Address,
			NonDependency: c.Toposort != nil && !*c.Toposort,
		})
	}
	return d, nil
}

func translateApp(a *appBlock) config.AppSpec {
	spec := config.AppSpec{Name: a.Name, Host: a.Host, Pausable: a.Pausable}

	for _, m := range a.Modules {
		ms := config.ModuleSpec{Name: m.Name, Plugin: m.Plugin, Conf: m.Conf, ResumeParams: m.Resume}
		for _, c := range m.Connections {
			ms.Connections = append(ms.Connections, config.ModuleConnSpec{
				Slot:          c.Slot,
				To:            c.To,
				Kind:          c.Kind,
				Capacity:      c.Capacity,
				QueueName:     c.Queue,
				NonDependency: c.Toposort != nil && !*c.Toposort,
			})
		}
		spec.Modules = append(spec.Modules, ms)
	}

	for _, e := range a.Endpoints {
		spec.Endpoints = append(spec.Endpoints, config.EndpointSpec{Name: e.Name, Internal: e.Internal, Direction: e.Direction})
	}

	for _, p := range a.Producers {
		spec.Producers = append(spec.Producers, config.ProducerSpec{
			SystemType:   p.SystemType,
			Region:       p.Region,
			Element:      p.Element,
			RequestsIn:   p.RequestsIn,
			FragmentsOut: p.FragmentsOut,
			QueueName:    p.Queue,
		})
	}
	return spec
}
