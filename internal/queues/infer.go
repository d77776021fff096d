package queues

import (
	"context"
	"fmt"
	"strconv"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/model"
)

type slotKey struct {
	module string
	slot   string
	dir    string
}

func (k slotKey) String() string {
	return fmt.Sprintf("%s.%s (%s)", k.module, k.slot, k.dir)
}

type queueState struct {
	spec  QueueSpec
	links map[string]struct{}
}

// engine holds the bookkeeping of one Infer call.
type engine struct {
	order    []string
	queues   map[string]*queueState
	bound    map[slotKey]string
	attached map[string][]Attachment
}

func newEngine() *engine {
	return &engine{
		queues:   make(map[string]*queueState),
		bound:    make(map[slotKey]string),
		attached: make(map[string][]Attachment),
	}
}

// CanonicalName is the queue name used when a connection carries no override.
func CanonicalName(fromModule, fromSlot, toModule, toSlot string) string {
	return fmt.Sprintf("%s_%s_to_%s_%s", fromModule, fromSlot, toModule, toSlot)
}

// Infer computes the queue set and per-module attachments of g. It does not
// modify g. A connection targeting a missing module fails with
// model.ErrUnknownEndpoint; a slot asked to bind to two different queues
// fails with model.ErrConflictingQueueAssignment.
func Infer(ctx context.Context, g *model.ModuleGraph) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	e := newEngine()

	for _, m := range g.Modules() {
		for _, sc := range m.Connections() {
			if err := e.add(g, m.Name, sc); err != nil {
				return nil, err
			}
		}
	}

	res := e.result(g)
	logger.Debug("Queue inference complete.", "queues", len(res.Queues), "modules", len(res.Modules))
	return res, nil
}

func (e *engine) add(g *model.ModuleGraph, module string, sc model.SlotConnection) error {
	c := sc.Connection
	target, err := c.Target()
	if err != nil {
		return fmt.Errorf("%w: module %q slot %q: %w", model.ErrUnknownEndpoint, module, sc.Slot, err)
	}
	if !g.HasModule(target.Owner) {
		return fmt.Errorf("%w: module %q slot %q targets missing module %q",
			model.ErrUnknownEndpoint, module, sc.Slot, target.Owner)
	}

	from := slotKey{module: module, slot: sc.Slot, dir: DirOutput}
	to := slotKey{module: target.Owner, slot: target.Name, dir: DirInput}

	name, err := e.pickName(from, to, c)
	if err != nil {
		return err
	}

	e.register(name, c, from.module+"."+from.slot+"->"+c.To)
	e.bind(from, name)
	e.bind(to, name)
	return nil
}

// pickName returns the queue a connection must use: the queue already bound
// to either end, otherwise the override or the canonical name.
func (e *engine) pickName(from, to slotKey, c model.Connection) (string, error) {
	fromQ, fromOK := e.bound[from]
	toQ, toOK := e.bound[to]

	var existing string
	switch {
	case fromOK && toOK && fromQ != toQ:
		return "", fmt.Errorf("%w: %s is bound to %q but %s is bound to %q",
			model.ErrConflictingQueueAssignment, from, fromQ, to, toQ)
	case fromOK:
		existing = fromQ
	case toOK:
		existing = toQ
	}

	if existing != "" {
		if c.QueueName != "" && c.QueueName != existing {
			return "", fmt.Errorf("%w: connection %s.%s -> %s names queue %q but the endpoint already uses %q",
				model.ErrConflictingQueueAssignment, from.module, from.slot, c.To, c.QueueName, existing)
		}
		return existing, nil
	}
	if c.QueueName != "" {
		return c.QueueName, nil
	}
	return e.freeName(CanonicalName(from.module, from.slot, to.module, to.slot)), nil
}

// freeName returns base when no queue uses it yet, otherwise `<base>_<n>`
// with the lowest free n starting at 1. Neither end of the connection is
// bound at this point, so an existing queue of that name belongs to other
// endpoints whose module or slot names contain underscores.
func (e *engine) freeName(base string) string {
	if _, taken := e.queues[base]; !taken {
		return base
	}
	for n := 1; ; n++ {
		name := base + "_" + strconv.Itoa(n)
		if _, taken := e.queues[name]; !taken {
			return name
		}
	}
}

func (e *engine) register(name string, c model.Connection, link string) {
	kind := c.Kind
	if kind == "" {
		kind = model.DefaultQueueKind
	}
	capacity := c.Capacity
	if capacity <= 0 {
		capacity = model.DefaultQueueCapacity
	}

	q, ok := e.queues[name]
	if !ok {
		q = &queueState{
			spec:  QueueSpec{Name: name, Kind: kind, Capacity: capacity},
			links: make(map[string]struct{}),
		}
		e.queues[name] = q
		e.order = append(e.order, name)
	}
	q.links[link] = struct{}{}
	if capacity > q.spec.Capacity {
		q.spec.Capacity = capacity
	}
	if len(q.links) > 1 && q.spec.Kind == model.DefaultQueueKind {
		q.spec.Kind = model.MPMCQueueKind
	}
}

// bind attaches the slot to the queue once. Callers have already checked
// that an existing binding names the same queue.
func (e *engine) bind(k slotKey, queue string) {
	if _, ok := e.bound[k]; ok {
		return
	}
	e.bound[k] = queue
	e.attached[k.module] = append(e.attached[k.module], Attachment{Slot: k.slot, Queue: queue, Dir: k.dir})
}

func (e *engine) result(g *model.ModuleGraph) *Result {
	res := &Result{
		Queues:  make([]QueueSpec, 0, len(e.order)),
		Modules: make([]ModuleQueues, 0, len(g.ModuleNames())),
	}
	for _, name := range e.order {
		res.Queues = append(res.Queues, e.queues[name].spec)
	}
	for _, name := range g.ModuleNames() {
		atts := e.attached[name]
		if atts == nil {
			atts = []Attachment{}
		}
		res.Modules = append(res.Modules, ModuleQueues{Module: name, Attachments: atts})
	}
	return res
}
