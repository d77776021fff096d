package yamldesc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/daqconf/internal/config"
	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/fsutil"
	"gopkg.in/yaml.v3"
)

type document struct {
	System struct {
		RequiredConnections []string `yaml:"required_connections"`
		StartOrder          []string `yaml:"start_order"`
	} `yaml:"system"`
	Apps        []appDoc        `yaml:"apps"`
	Connections []connectionDoc `yaml:"connections"`
}

type appDoc struct {
	Name      string        `yaml:"name"`
	Host      string        `yaml:"host"`
	Pausable  bool          `yaml:"pausable"`
	Modules   []moduleDoc   `yaml:"modules"`
	Endpoints []endpointDoc `yaml:"endpoints"`
	Producers []producerDoc `yaml:"fragment_producers"`
}

type moduleDoc struct {
	Name        string    `yaml:"name"`
	Plugin      string    `yaml:"plugin"`
	Conf        any       `yaml:"conf"`
	Resume      any       `yaml:"resume"`
	Connections []connDoc `yaml:"connections"`
}

type connDoc struct {
	Slot     string `yaml:"slot"`
	To       string `yaml:"to"`
	Kind     string `yaml:"kind"`
	Capacity int    `yaml:"capacity"`
	Queue    string `yaml:"queue"`
	Toposort *bool  `yaml:"toposort"`
}

type endpointDoc struct {
	Name      string `yaml:"name"`
	Internal  string `yaml:"internal"`
	Direction string `yaml:"direction"`
}

type producerDoc struct {
	SystemType   string `yaml:"system_type"`
	Region       uint32 `yaml:"region"`
	Element      uint32 `yaml:"element"`
	RequestsIn   string `yaml:"requests_in"`
	FragmentsOut string `yaml:"fragments_out"`
	Queue        string `yaml:"queue"`
}

type connectionDoc struct {
	From          string   `yaml:"from"`
	Type          string   `yaml:"type"`
	To            []string `yaml:"to"`
	Topics        []string `yaml:"topics"`
	MsgType       string   `yaml:"msg_type"`
	MsgModuleName string   `yaml:"msg_module_name"`
	Address       string   `yaml:"address"`
	Toposort      *bool    `yaml:"toposort"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML description loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load decodes every .yaml and .yml file found under paths and merges them.
// Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Description, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("YAML loader started.", "path_count", len(paths))

	desc := &config.Description{}
	files := 0
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}
		found, err := fsutil.FindFilesByExtension(path, ".yaml", ".yml")
		if err != nil {
			return nil, err
		}
		for _, file := range found {
			part, err := loadFile(file)
			if err != nil {
				return nil, err
			}
			desc.Merge(part)
			files++
		}
	}

	logger.Debug("YAML loading complete.", "files", files, "apps", len(desc.Apps), "connections", len(desc.Connections))
	return desc, nil
}

func loadFile(path string) (*config.Description, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", path, err)
	}

	d, err := translate(&doc)
	if err != nil {
		return nil, fmt.Errorf("in %s: %w", path, err)
	}
	return d, nil
}

func translate(doc *document) (*config.Description, error) {
	d := &config.Description{
		System: config.SystemSpec{
			RequiredConnections: doc.System.RequiredConnections,
			StartOrder:          doc.System.StartOrder,
		},
	}

	for _, a := range doc.Apps {
		spec := config.AppSpec{Name: a.Name, Host: a.Host, Pausable: a.Pausable}
		for _, m := range a.Modules {
			conf, err := config.ToValue(m.Conf)
			if err != nil {
				return nil, fmt.Errorf("app %q module %q conf: %w", a.Name, m.Name, err)
			}
			resume, err := config.ToValue(m.Resume)
			if err != nil {
				return nil, fmt.Errorf("app %q module %q resume: %w", a.Name, m.Name, err)
			}
			ms := config.ModuleSpec{Name: m.Name, Plugin: m.Plugin, Conf: conf, ResumeParams: resume}
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
			spec.Endpoints = append(spec.Endpoints, config.EndpointSpec(e))
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
		d.Apps = append(d.Apps, spec)
	}

	for _, c := range doc.Connections {
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
