package commands

import (
	"context"
	"fmt"
	"path"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/resolver"
)

// SystemCommand is the system-level descriptor of one verb.
type SystemCommand struct {
	Verb Verb `json:"-"`
	// Apps maps every application to its command file for this verb.
	Apps map[string]string `json:"apps"`
	// Order is the application order. It is set for start and stop, and for
	// pause and resume when at least one application is pausable.
	Order []string `json:"order,omitempty"`
}

// CommandFile is the path, relative to the output root and without
// extension, of an application's command file for a verb.
func CommandFile(dataDir, app string, v Verb) string {
	return path.Join(dataDir, fmt.Sprintf("%s_%s", app, v))
}

// AssembleSystem builds one descriptor per verb in Verbs order. appOrder is
// the application start order; stop uses its reverse. Pause follows the stop
// order and resume the start order, both restricted to pausable applications.
func AssembleSystem(ctx context.Context, sys *model.System, appOrder []string, opts Options) []SystemCommand {
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx)

	stopOrder := resolver.StopOrder(appOrder)

	pausable := make(map[string]bool)
	for _, app := range sys.Apps() {
		if app.Pausable {
			pausable[app.Name] = true
		}
	}
	only := func(order []string) []string {
		var out []string
		for _, name := range order {
			if pausable[name] {
				out = append(out, name)
			}
		}
		return out
	}

	out := make([]SystemCommand, 0, len(Verbs))
	for _, v := range Verbs {
		sc := SystemCommand{Verb: v, Apps: make(map[string]string, len(appOrder))}
		for _, name := range sys.AppNames() {
			sc.Apps[name] = CommandFile(opts.DataDir, name, v)
		}
		switch v {
		case Start:
			sc.Order = appOrder
		case Stop:
			sc.Order = stopOrder
		case Pause:
			sc.Order = only(stopOrder)
		case Resume:
			sc.Order = only(appOrder)
		}
		out = append(out, sc)
	}

	logger.Debug("System commands assembled.", "apps", len(appOrder), "pausable", len(pausable))
	return out
}

// BootApp is the launch record of one application.
type BootApp struct {
	Exec string `json:"exec"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ExecProfile is a named launch profile. An env value of "getenv" inherits
// the variable from the boot environment.
type ExecProfile struct {
	Env map[string]string `json:"env"`
	Cmd []string          `json:"cmd"`
}

// Listener is the run-control response listener.
type Listener struct {
	Port int `json:"port"`
}

// Boot is the boot descriptor.
type Boot struct {
	Env              map[string]string      `json:"env"`
	Apps             map[string]BootApp     `json:"apps"`
	Hosts            map[string]string      `json:"hosts"`
	ResponseListener Listener               `json:"response_listener"`
	Exec             map[string]ExecProfile `json:"exec"`
}

// AssembleBoot builds the boot descriptor. Application ports are handed out
// from opts.BootBasePort in application insertion order.
func AssembleBoot(sys *model.System, opts Options) *Boot {
	opts = opts.withDefaults()

	env := map[string]string{"DAQ_PARTITION": opts.Partition}
	for k, v := range opts.Env {
		env[k] = v
	}

	b := &Boot{
		Env:              env,
		Apps:             make(map[string]BootApp),
		Hosts:            make(map[string]string),
		ResponseListener: Listener{Port: opts.ResponseListenerPort},
		Exec: map[string]ExecProfile{
			opts.ExecProfile: {
				Env: map[string]string{"DAQ_PARTITION": "getenv"},
				Cmd: append([]string(nil), opts.Cmd...),
			},
		},
	}
	for i, app := range sys.Apps() {
		b.Apps[app.Name] = BootApp{Exec: opts.ExecProfile, Host: app.HostAlias(), Port: opts.BootBasePort + i}
		b.Hosts[app.HostAlias()] = app.Host
	}
	return b
}
