package config

import (
	"context"

	"github.com/zclconf/go-cty/cty"
)

// Loader is the interface for a format-specific description loader.
type Loader interface {
	// Load reads every description file found under paths and merges them
	// into one Description.
	Load(ctx context.Context, paths ...string) (*Description, error)
}

// Description is the unified, format-agnostic deployment description.
type Description struct {
	System      SystemSpec
	Apps        []AppSpec        `validate:"required,min=1,dive"`
	Connections []ConnectionSpec `validate:"dive"`
}

// SystemSpec holds the system-wide settings.
type SystemSpec struct {
	RequiredConnections []string `validate:"dive,ref"`
	StartOrder          []string `validate:"dive,ident"`
}

// AppSpec describes one application.
type AppSpec struct {
	Name      string         `validate:"required,ident"`
	Host      string         `validate:"required,hostname_rfc1123|ip"`
	Pausable  bool           `validate:"-"`
	Modules   []ModuleSpec   `validate:"dive"`
	Endpoints []EndpointSpec `validate:"dive"`
	Producers []ProducerSpec `validate:"dive"`
}

// ModuleSpec describes one module and its outgoing connections.
type ModuleSpec struct {
	Name         string           `validate:"required,ident"`
	Plugin       string           `validate:"required"`
	Conf         cty.Value        `validate:"-"`
	ResumeParams cty.Value        `validate:"-"`
	Connections  []ModuleConnSpec `validate:"dive"`
}

// ModuleConnSpec is one output slot connection inside an application.
type ModuleConnSpec struct {
	Slot          string `validate:"required,ident"`
	To            string `validate:"required,ref"`
	Kind          string `validate:"-"`
	Capacity      int    `validate:"gte=0"`
	QueueName     string `validate:"omitempty,ident"`
	NonDependency bool   `validate:"-"`
}

// EndpointSpec exposes a module slot to other applications.
type EndpointSpec struct {
	Name      string `validate:"required,ident"`
	Internal  string `validate:"required,ref"`
	Direction string `validate:"required,oneof=in out"`
}

// ProducerSpec registers a fragment producer.
type ProducerSpec struct {
	SystemType   string `validate:"required,ident"`
	Region       uint32 `validate:"-"`
	Element      uint32 `validate:"-"`
	RequestsIn   string `validate:"required,ref"`
	FragmentsOut string `validate:"required,ref"`
	QueueName    string `validate:"omitempty,ident"`
}

// Connection types accepted in ConnectionSpec.Type.
const (
	SenderType    = "sender"
	PublisherType = "publisher"
)

// ConnectionSpec is one system-level connection between app endpoints.
type ConnectionSpec struct {
	From          string   `validate:"required,ref"`
	Type          string   `validate:"required,oneof=sender publisher"`
	To            []string `validate:"required,min=1,dive,ref"`
	Topics        []string `validate:"-"`
	MsgType       string   `validate:"-"`
	MsgModuleName string   `validate:"-"`
	Address       string   `validate:"omitempty,contains=://"`
	NonDependency bool     `validate:"-"`
}

// Merge appends other's apps and connections to d. System settings from
// other replace unset settings in d.
func (d *Description) Merge(other *Description) {
	d.Apps = append(d.Apps, other.Apps...)
	d.Connections = append(d.Connections, other.Connections...)
	if len(d.System.RequiredConnections) == 0 {
		d.System.RequiredConnections = other.System.RequiredConnections
	}
	if len(d.System.StartOrder) == 0 {
		d.System.StartOrder = other.System.StartOrder
	}
}
