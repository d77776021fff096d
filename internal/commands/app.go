package commands

import (
	"context"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/queues"
	"github.com/specialistvlad/daqconf/internal/resolver"
)

// Wildcard matches every module of an application.
const Wildcard = "*"

// Command is one serializable run-control command.
type Command struct {
	ID         Verb  `json:"id"`
	EntryState State `json:"entry_state"`
	ExitState  State `json:"exit_state"`
	Data       any   `json:"data"`
}

// InitData is the payload of init.
type InitData struct {
	Queues  []queues.QueueSpec `json:"queues"`
	Modules []InitModule       `json:"modules"`
}

// InitModule instantiates one module with its queue attachments.
type InitModule struct {
	Inst   string         `json:"inst"`
	Plugin string         `json:"plugin"`
	Data   InitModuleData `json:"data"`
}

// InitModuleData holds the queue attachments of one module.
type InitModuleData struct {
	QInfos []queues.Attachment `json:"qinfos"`
}

// ModuleEntry addresses one module, or every module with Wildcard.
type ModuleEntry struct {
	Match string  `json:"match"`
	Data  Payload `json:"data"`
}

// ModulesData is the payload of every verb but init.
type ModulesData struct {
	Modules []ModuleEntry `json:"modules"`
}

// AppCommands is the full command set of one application.
type AppCommands struct {
	App        string
	StartOrder []string
	Commands   []Command
}

// Command returns the command for v.
func (ac *AppCommands) Command(v Verb) (Command, bool) {
	for _, c := range ac.Commands {
		if c.ID == v {
			return c, true
		}
	}
	return Command{}, false
}

// Sequence replays verbs through a fresh Lifecycle and returns the commands
// that would be sent, failing on the first invalid transition.
func (ac *AppCommands) Sequence(verbs ...Verb) ([]Command, error) {
	lc := NewLifecycle()
	out := make([]Command, 0, len(verbs))
	for i, v := range verbs {
		if err := lc.Apply(v); err != nil {
			return nil, fmt.Errorf("app %q step %d: %w", ac.App, i, err)
		}
		c, ok := ac.Command(v)
		if !ok {
			return nil, fmt.Errorf("app %q has no %s command", ac.App, v)
		}
		out = append(out, c)
	}
	return out, nil
}

func newCommand(v Verb, data any) Command {
	t := transitions[v]
	return Command{ID: v, EntryState: t.From, ExitState: t.To, Data: data}
}

// AssembleApp validates app and builds its command set. Validation covers
// every connection target, the module start order and queue inference; any
// failure aborts before a command is produced.
func AssembleApp(ctx context.Context, app *model.App, opts Options) (*AppCommands, error) {
	opts = opts.withDefaults()
	ctx, logger := ctxlog.With(ctx, "app", app.Name)

	start, err := resolver.StartOrder(ctx, app.Graph)
	if err != nil {
		return nil, fmt.Errorf("app %q: %w", app.Name, err)
	}
	q, err := queues.Infer(ctx, app.Graph)
	if err != nil {
		return nil, fmt.Errorf("app %q: %w", app.Name, err)
	}
	stop := resolver.StopOrder(start)

	modules := app.Graph.Modules()

	initData := InitData{Queues: q.Queues, Modules: make([]InitModule, 0, len(modules))}
	confData := ModulesData{Modules: make([]ModuleEntry, 0, len(modules))}
	for _, m := range modules {
		initData.Modules = append(initData.Modules, InitModule{
			Inst:   m.Name,
			Plugin: m.Plugin,
			Data:   InitModuleData{QInfos: q.Attachments(m.Name)},
		})
		confData.Modules = append(confData.Modules, ModuleEntry{Match: m.Name, Data: Payload{Value: m.Conf}})
	}

	startData := ModulesData{Modules: make([]ModuleEntry, 0, len(start))}
	for _, name := range start {
		startData.Modules = append(startData.Modules, ModuleEntry{Match: name, Data: Payload{Value: opts.StartParams}})
	}
	stopData := ModulesData{Modules: make([]ModuleEntry, 0, len(stop))}
	for _, name := range stop {
		stopData.Modules = append(stopData.Modules, ModuleEntry{Match: name, Data: EmptyPayload()})
	}

	var resumeData ModulesData
	for _, m := range modules {
		if m.HasResumeParams() {
			resumeData.Modules = append(resumeData.Modules, ModuleEntry{Match: m.Name, Data: Payload{Value: m.ResumeParams}})
		}
	}
	resumeData.Modules = append(resumeData.Modules, ModuleEntry{Match: Wildcard, Data: Payload{Value: opts.ResumeParams}})

	wildcard := ModulesData{Modules: []ModuleEntry{{Match: Wildcard, Data: EmptyPayload()}}}

	ac := &AppCommands{
		App:        app.Name,
		StartOrder: start,
		Commands: []Command{
			newCommand(Init, initData),
			newCommand(Conf, confData),
			newCommand(Start, startData),
			newCommand(Stop, stopData),
			newCommand(Pause, wildcard),
			newCommand(Resume, resumeData),
			newCommand(Scrap, wildcard),
		},
	}

	logger.Debug("Application commands assembled.", "modules", len(modules), "queues", len(q.Queues), "start_order", start)
	return ac, nil
}
