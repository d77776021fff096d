package resolver

import (
	"context"
	"fmt"

	"github.com/specialistvlad/daqconf/internal/ctxlog"
	"github.com/specialistvlad/daqconf/internal/dag"
	"github.com/specialistvlad/daqconf/internal/model"
	"github.com/specialistvlad/daqconf/internal/slotid"
)

// AppDependencies builds one node per application and an edge A → B whenever
// a system connection whose upstream endpoint belongs to A has a receiver or
// subscriber in B. Connections that stay inside one application, and those
// flagged as non-dependency, add no edge. Every reference is still checked.
func AppDependencies(ctx context.Context, sys *model.System) (*dag.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	d := dag.New()

	for _, name := range sys.AppNames() {
		d.AddNode(name)
	}

	for _, nc := range sys.Connections() {
		from, err := appOf(sys, nc.Upstream)
		if err != nil {
			return nil, err
		}
		for _, down := range nc.Connection.Downstreams() {
			to, err := appOf(sys, down)
			if err != nil {
				return nil, fmt.Errorf("connection %s: %w", nc.Upstream, err)
			}
			if from == to || !nc.Connection.Dependency() {
				continue
			}
			if err := d.AddEdge(from, to); err != nil {
				return nil, fmt.Errorf("failed to add app dependency %s -> %s: %w", from, to, err)
			}
		}
	}

	logger.Debug("Application dependency graph built.", "apps", d.Len(), "connections", len(sys.Connections()))
	return d, nil
}

// appOf returns the application named by an `app.endpoint` reference.
func appOf(sys *model.System, ref string) (string, error) {
	addr, err := slotid.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrUnknownEndpoint, err)
	}
	if _, ok := sys.App(addr.Owner); !ok {
		return "", fmt.Errorf("%w: %q refers to unknown app %q", model.ErrUnknownEndpoint, ref, addr.Owner)
	}
	return addr.Owner, nil
}

// AppStartOrder returns the application start order. An explicit
// System.AppStartOrder wins when set; it must name every application exactly
// once. Otherwise the order is derived from AppDependencies.
func AppStartOrder(ctx context.Context, sys *model.System) ([]string, error) {
	logger := ctxlog.FromContext(ctx)

	if len(sys.AppStartOrder) > 0 {
		if err := validateExplicitOrder(sys); err != nil {
			return nil, err
		}
		logger.Debug("Using explicit application start order.", "order", sys.AppStartOrder)
		return append([]string(nil), sys.AppStartOrder...), nil
	}

	d, err := AppDependencies(ctx, sys)
	if err != nil {
		return nil, err
	}
	order, err := TopoOrder(d)
	if err != nil {
		return nil, fmt.Errorf("application order: %w", err)
	}
	logger.Debug("Derived application start order.", "order", order)
	return order, nil
}

func validateExplicitOrder(sys *model.System) error {
	seen := make(map[string]bool, len(sys.AppStartOrder))
	for _, name := range sys.AppStartOrder {
		if _, ok := sys.App(name); !ok {
			return fmt.Errorf("%w: start order names unknown app %q", model.ErrUnknownEndpoint, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: start order lists app %q twice", model.ErrDuplicateKey, name)
		}
		seen[name] = true
	}
	for _, name := range sys.AppNames() {
		if !seen[name] {
			return fmt.Errorf("start order does not include app %q", name)
		}
	}
	return nil
}
