package commands

import "github.com/zclconf/go-cty/cty"

// Defaults for the boot descriptor.
const (
	DefaultBootBasePort         = 3333
	DefaultResponseListenerPort = 56789
	DefaultExecProfile          = "daq_application"
	DefaultDataDir              = "data"
)

// Options tunes command assembly.
type Options struct {
	// Partition is exported to every application's environment.
	Partition string
	// DataDir is the directory, relative to the output root, that holds the
	// per-application command files referenced by the system descriptors.
	DataDir string
	// StartParams is sent to every module with start.
	StartParams cty.Value
	// ResumeParams is the wildcard resume payload.
	ResumeParams cty.Value
	// BootBasePort is the command port of the first application.
	BootBasePort int
	// ResponseListenerPort is where run control listens for replies.
	ResponseListenerPort int
	// ExecProfile names the launch profile every application uses.
	ExecProfile string
	// Env is the system-wide environment of the boot descriptor.
	Env map[string]string
	// Cmd is the launch command of the exec profile.
	Cmd []string
}

// DefaultOptions returns the assembly defaults.
func DefaultOptions() Options {
	return Options{
		Partition:            "global",
		DataDir:              DefaultDataDir,
		StartParams:          cty.EmptyObjectVal,
		ResumeParams:         cty.EmptyObjectVal,
		BootBasePort:         DefaultBootBasePort,
		ResponseListenerPort: DefaultResponseListenerPort,
		ExecProfile:          DefaultExecProfile,
		Cmd:                  []string{"daq_application", "--name", "{APP_NAME}", "-c", "{CMD_FAC}", "-i", "{INFO_SVC}"},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.DataDir == "" {
		o.DataDir = d.DataDir
	}
	if o.Partition == "" {
		o.Partition = d.Partition
	}
	if o.BootBasePort <= 0 {
		o.BootBasePort = d.BootBasePort
	}
	if o.ResponseListenerPort <= 0 {
		o.ResponseListenerPort = d.ResponseListenerPort
	}
	if o.ExecProfile == "" {
		o.ExecProfile = d.ExecProfile
	}
	if len(o.Cmd) == 0 {
		o.Cmd = d.Cmd
	}
	return o
}
