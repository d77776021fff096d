package hcl

import "github.com/zclconf/go-cty/cty"

// fileRoot is used to decode all possible top-level blocks from any file.
// Anything else in a file is a decode error.
type fileRoot struct {
	Systems     []*systemBlock     `hcl:"system,block"`
	Apps        []*appBlock        `hcl:"app,block"`
	Connections []*connectionBlock `hcl:"connection,block"`
}

type systemBlock struct {
	RequiredConnections []string `hcl:"required_connections,optional"`
	StartOrder          []string `hcl:"start_order,optional"`
}

type appBlock struct {
	Name      string              `hcl:"name,label"`
	Host      string              `hcl:"host"`
	Pausable  bool                `hcl:"pausable,optional"`
	Modules   []*moduleBlock      `hcl:"module,block"`
	Endpoints []*endpointBlock    `hcl:"endpoint,block"`
	Producers []*fragmentProducer `hcl:"fragment_producer,block"`
}

type moduleBlock struct {
	Name        string             `hcl:"name,label"`
	Plugin      string             `hcl:"plugin"`
	Conf        cty.Value          `hcl:"conf,optional"`
	Resume      cty.Value          `hcl:"resume,optional"`
	Connections []*moduleConnBlock `hcl:"connection,block"`
}

type moduleConnBlock struct {
	Slot     string `hcl:"slot,label"`
	To       string `hcl:"to"`
	Kind     string `hcl:"kind,optional"`
	Capacity int    `hcl:"capacity,optional"`
	Queue    string `hcl:"queue,optional"`
	Toposort *bool  `hcl:"toposort,optional"`
}

type endpointBlock struct {
	Name      string `hcl:"name,label"`
	Internal  string `hcl:"internal"`
	Direction string `hcl:"direction"`
}

type fragmentProducer struct {
	SystemType   string `hcl:"system_type"`
	Region       uint32 `hcl:"region,optional"`
	Element      uint32 `hcl:"element,optional"`
	RequestsIn   string `hcl:"requests_in"`
	FragmentsOut string `hcl:"fragments_out"`
	Queue        string `hcl:"queue,optional"`
}

type connectionBlock struct {
	From          string   `hcl:"from,label"`
	Type          string   `hcl:"type,optional"`
	To            []string `hcl:"to"`
	Topics        []string `hcl:"topics,optional"`
	MsgType       string   `hcl:"msg_type,optional"`
	MsgModuleName string   `hcl:"msg_module_name,optional"`
	Address       string   `hcl:"address,optional"`
	Toposort      *bool    `hcl:"toposort,optional"`
}
