package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/dag"
	"github.com/specialistvlad/daqconf/internal/model"
)

// ModuleDependencies builds one node per module and an edge A → B for every
// toposort-eligible connection from A into a slot of B. Connections with the
// toposort flag cleared are skipped. A target naming a module that does not
// exist fails with model.ErrUnknownEndpoint; a toposort-eligible connection
// from a module into itself fails with model.ErrCyclicDependency.
func ModuleDependencies(ctx context.Context, g *model.ModuleGraph) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	d := dag.New()

	for _, name := range g.ModuleNames() {
		d.AddNode(name)
	}

	skipped := 0
	for _, m := range g.Modules() {
		for _, sc := range m.Connections() {
			target, err := sc.Connection.Target()
			if err != nil {
				return nil, fmt.Errorf("%w: module %q slot %q: %w", model.ErrUnknownEndpoint, m.Name, sc.Slot, err)
			}
			if !g.HasModule(target.Owner) {
				return nil, fmt.Errorf("%w: module %q slot %q targets missing module %q",
					model.ErrUnknownEndpoint, m.Name, sc.Slot, target.Owner)
			}
			if !sc.Connection.Toposort {
				skipped++
				continue
			}
			if target.Owner == m.Name {
				return nil, fmt.Errorf("%w: module %q connects slot %q to itself", model.ErrCyclicDependency, m.Name, sc.Slot)
			}
			if err := d.AddEdge(m.Name, target.Owner); err != nil {
				return nil, fmt.Errorf("failed to add dependency %s -> %s: %w", m.Name, target.Owner, err)
			}
		}
	}

	logger.Debug("Module dependency graph built.", "modules", d.Len(), "non_dependency_connections", skipped)
	return d, nil
}

// TopoOrder sorts a dependency graph, translating a cycle into
// model.ErrCyclicDependency.
func TopoOrder(d *dag.Graph) ([]string, error) {
	order, err := d.TopoOrder()
	if err != nil {
		if errors.Is(err, dag.ErrCycle) {
			return nil, fmt.Errorf("%w: %w", model.ErrCyclicDependency, err)
		}
		return nil, err
	}
	return order, nil
}

// StartOrder returns the module start order of one application.
func StartOrder(ctx context.Context, g *model.ModuleGraph) ([]string, error) {
	d, err := ModuleDependencies(ctx, g)
	if err != nil {
		return nil, err
	}
	return TopoOrder(d)
}

// StopOrder returns the exact reverse of a start order as a new slice.
func StopOrder(start []string) []string {
	stop := slices.Clone(start)
	slices.Reverse(stop)
	return stop
}
